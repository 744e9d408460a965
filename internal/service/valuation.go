package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"estate/internal/model"
	"estate/internal/observability"
)

const (
	basePricePerSqft = 250.0
	defaultYearBuilt = 2020
)

var propertyTypeMultipliers = map[string]float64{
	"condo":        0.9,
	"townhouse":    0.95,
	"multi-family": 1.1,
}

var conditionMultipliers = map[string]float64{
	"excellent": 1.15,
	"fair":      0.9,
	"poor":      0.75,
}

// ValuationService estimates a market value from the valuation form
type ValuationService struct {
	delay         DelayStrategy
	referenceYear int
	float         func() float64
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewValuationService creates a new valuation service
func NewValuationService(delay DelayStrategy, referenceYear int, logger *slog.Logger, metrics *observability.Metrics) *ValuationService {
	if delay == nil {
		delay = NoDelay{}
	}
	return &ValuationService{
		delay:         delay,
		referenceYear: referenceYear,
		float:         rand.Float64,
		logger:        logger,
		metrics:       metrics,
	}
}

// Estimate validates the form, waits the artificial delay and prices it
func (s *ValuationService) Estimate(ctx context.Context, req model.ValuationRequest) (*model.Valuation, error) {
	if err := requireFields(
		[2]string{"square_footage", req.SquareFootage},
		[2]string{"bedrooms", req.Bedrooms},
		[2]string{"bathrooms", req.Bathrooms},
		[2]string{"location", req.Location},
	); err != nil {
		return nil, err
	}

	task := After(ctx, s.delay, func(context.Context) (*model.Valuation, error) {
		return s.estimate(req), nil
	})
	v, err := task.Wait()
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveValuation()
	s.logger.Info("valuation completed", "location", req.Location, "estimated", v.Estimated)
	return v, nil
}

func (s *ValuationService) estimate(req model.ValuationRequest) *model.Valuation {
	sqft := leadingInt(req.SquareFootage, 0)
	beds := leadingInt(req.Bedrooms, 0)
	baths := leadingInt(req.Bathrooms, 0)
	year := leadingInt(req.YearBuilt, defaultYearBuilt)

	ppsf := basePricePerSqft
	if m, ok := propertyTypeMultipliers[strings.ToLower(req.PropertyType)]; ok {
		ppsf *= m
	}
	if m, ok := conditionMultipliers[strings.ToLower(req.Condition)]; ok {
		ppsf *= m
	}

	if age := s.referenceYear - year; age > 0 {
		ppsf *= math.Max(0.7, 1-float64(age)*0.005)
	}

	ppsf += float64(beds-3) * 10
	ppsf += float64(baths-2) * 15

	estimated := roundHalfUp(float64(sqft) * ppsf)
	spread := roundHalfUp(float64(estimated) * 0.1)

	return &model.Valuation{
		Estimated:    estimated,
		Range:        spread,
		Min:          estimated - spread,
		Max:          estimated + spread,
		PricePerSqft: roundHalfUp(ppsf),
		Confidence:   85 + s.float()*10,
		MarketInsights: model.MarketInsights{
			MarketTrend:     "Properties in this area are appreciating at 4.8% annually",
			ComparableSales: "3 similar properties sold in the last 3 months",
			DaysOnMarket:    "Average time on market: 42 days",
			PricePerSqft: fmt.Sprintf("Average price per sq ft: $%d - $%d",
				roundHalfUp(ppsf*0.95), roundHalfUp(ppsf*1.05)),
		},
	}
}

// leadingInt parses the leading integer of a form value, so "1800 sqft"
// reads as 1800. Blank, non-numeric and zero values yield fallback.
func leadingInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 && fallback != 0 {
		return fallback
	}
	return n
}

// roundHalfUp rounds .5 towards positive infinity
func roundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}
