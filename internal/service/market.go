package service

import (
	"context"
	"strings"

	"estate/internal/model"
)

// MarketService serves the recommendation widget and market analysis
type MarketService struct {
	delay DelayStrategy
}

// NewMarketService creates a new market service
func NewMarketService(delay DelayStrategy) *MarketService {
	if delay == nil {
		delay = NoDelay{}
	}
	return &MarketService{delay: delay}
}

// Recommendations returns the fixed recommendation list after the delay
func (s *MarketService) Recommendations(ctx context.Context) (*model.Recommendations, error) {
	task := After(ctx, s.delay, func(context.Context) (*model.Recommendations, error) {
		return &model.Recommendations{
			Properties: model.RecommendedProperties(),
			Insights: model.RecommendationInfo{
				MarketTrend:         "Properties in your preferred area are appreciating 5.2% annually",
				BestTimeToBuy:       "Current market conditions favor buyers in the next 3 months",
				InvestmentPotential: "High ROI potential in the downtown district",
			},
		}, nil
	})
	return task.Wait()
}

// Analysis returns the market analysis for a location and property type
func (s *MarketService) Analysis(location, propertyType string) *model.MarketAnalysis {
	return &model.MarketAnalysis{
		Location:         strings.TrimSpace(location),
		PropertyType:     strings.TrimSpace(propertyType),
		MarketTrend:      "Strong buyer demand in this area",
		AppreciationRate: "5.2% annually",
		DaysOnMarket:     "Average 45 days",
		SupplyDemand:     "Low inventory, high demand",
		Recommendations:  "Good time to buy, prices expected to rise",
	}
}
