package service

import (
	"math"

	"estate/internal/model"
)

// Calculator defaults
const (
	DefaultHomePrice       = 250_000.0
	DefaultDownPaymentRate = 0.2
	DefaultLoanTermYears   = 30
	DefaultInterestRate    = 4.5

	MaxHomePrice     = 1e12
	MaxLoanTermYears = 50
	MaxInterestRate  = 100.0

	propertyTaxRate = 0.012
)

// CalculateMortgage applies the standard amortisation formula. Zero or
// missing inputs fall back to the calculator defaults.
func CalculateMortgage(req model.MortgageRequest) (*model.MortgageQuote, error) {
	price := req.HomePrice
	if price == 0 {
		price = DefaultHomePrice
	}
	down := price * DefaultDownPaymentRate
	if req.DownPayment != nil {
		down = *req.DownPayment
	}
	years := req.LoanTermYears
	if years == 0 {
		years = DefaultLoanTermYears
	}
	rate := DefaultInterestRate
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}

	var invalid []string
	if price < 0 || price > MaxHomePrice || math.IsNaN(price) {
		invalid = append(invalid, "home_price")
	}
	if down < 0 || down > price {
		invalid = append(invalid, "down_payment")
	}
	if years < 0 || years > MaxLoanTermYears {
		invalid = append(invalid, "loan_term")
	}
	if rate < 0 || rate > MaxInterestRate || math.IsNaN(rate) {
		invalid = append(invalid, "interest_rate")
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid, Reason: "invalid values"}
	}

	principal := price - down
	monthlyRate := rate / 100 / 12
	n := float64(years * 12)

	var monthly float64
	if monthlyRate == 0 {
		monthly = principal / n
	} else {
		growth := math.Pow(1+monthlyRate, n)
		monthly = principal * (monthlyRate * growth) / (growth - 1)
	}
	total := monthly * n
	if !finite(monthly, total) {
		return nil, &ValidationError{Fields: []string{"home_price", "loan_term", "interest_rate"}, Reason: "values out of range"}
	}

	return &model.MortgageQuote{
		HomePrice:          price,
		DownPayment:        down,
		DownPaymentPercent: round2(down / price * 100),
		Principal:          principal,
		LoanTermYears:      years,
		InterestRate:       rate,
		MonthlyPayment:     round2(monthly),
		MonthlyPropertyTax: round2(price * propertyTaxRate / 12),
		TotalPayment:       round2(total),
		TotalInterest:      round2(total - principal),
	}, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
