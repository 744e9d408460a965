package model

import "time"

// ValuationRequest mirrors the valuation form. Numeric fields arrive as
// strings because the form posts whatever the user typed.
type ValuationRequest struct {
	PropertyType  string `json:"property_type"`
	SquareFootage string `json:"square_footage"`
	Bedrooms      string `json:"bedrooms"`
	Bathrooms     string `json:"bathrooms"`
	YearBuilt     string `json:"year_built"`
	Location      string `json:"location"`
	LotSize       string `json:"lot_size"`
	Condition     string `json:"condition"`
}

// Valuation is an estimated market value
type Valuation struct {
	Estimated      int64          `json:"estimated"`
	Range          int64          `json:"range"`
	Min            int64          `json:"min"`
	Max            int64          `json:"max"`
	PricePerSqft   int64          `json:"price_per_sqft"`
	Confidence     float64        `json:"confidence"`
	MarketInsights MarketInsights `json:"market_insights"`
}

// MarketInsights accompany a valuation
type MarketInsights struct {
	MarketTrend     string `json:"market_trend"`
	ComparableSales string `json:"comparable_sales"`
	DaysOnMarket    string `json:"days_on_market"`
	PricePerSqft    string `json:"price_per_sqft"`
}

// MortgageRequest holds calculator inputs. Zero values fall back to defaults.
type MortgageRequest struct {
	HomePrice     float64  `json:"home_price"`
	DownPayment   *float64 `json:"down_payment,omitempty"`
	LoanTermYears int      `json:"loan_term"`
	InterestRate  *float64 `json:"interest_rate,omitempty"` // annual, percent
}

// MortgageQuote is the calculator output
type MortgageQuote struct {
	HomePrice          float64 `json:"home_price"`
	DownPayment        float64 `json:"down_payment"`
	DownPaymentPercent float64 `json:"down_payment_percent"`
	Principal          float64 `json:"principal"`
	LoanTermYears      int     `json:"loan_term"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	MonthlyPropertyTax float64 `json:"monthly_property_tax"`
	TotalPayment       float64 `json:"total_payment"`
	TotalInterest      float64 `json:"total_interest"`
}

// ContactRequest is the contact-agent form
type ContactRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Message          string `json:"message"`
	PropertyInterest string `json:"property_interest,omitempty"`
}

// ContactReceipt confirms a sent enquiry
type ContactReceipt struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewsletterRequest is the newsletter signup form
type NewsletterRequest struct {
	Email string `json:"email"`
}

// NewsletterReceipt confirms a signup
type NewsletterReceipt struct {
	Email        string    `json:"email"`
	Message      string    `json:"message"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// Recommendations is the recommendation widget payload
type Recommendations struct {
	Properties []Property         `json:"properties"`
	Insights   RecommendationInfo `json:"insights"`
}

// RecommendationInfo holds the recommendation insights
type RecommendationInfo struct {
	MarketTrend         string `json:"market_trend"`
	BestTimeToBuy       string `json:"best_time_to_buy"`
	InvestmentPotential string `json:"investment_potential"`
}

// MarketAnalysis is the market analysis payload
type MarketAnalysis struct {
	Location         string `json:"location,omitempty"`
	PropertyType     string `json:"property_type,omitempty"`
	MarketTrend      string `json:"market_trend"`
	AppreciationRate string `json:"appreciation_rate"`
	DaysOnMarket     string `json:"days_on_market"`
	SupplyDemand     string `json:"supply_demand"`
	Recommendations  string `json:"recommendations"`
}
