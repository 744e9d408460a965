package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate/internal/logger"
	"estate/internal/model"
)

func newTestValuation(delay DelayStrategy) *ValuationService {
	svc := NewValuationService(delay, 2024, logger.Discard(), nil)
	svc.float = func() float64 { return 0 }
	return svc
}

func TestValuation_Estimate(t *testing.T) {
	tests := []struct {
		name      string
		req       model.ValuationRequest
		estimated int64
		ppsf      int64
	}{
		{
			name: "baseline",
			req: model.ValuationRequest{
				PropertyType: "single-family", SquareFootage: "2000", Bedrooms: "3",
				Bathrooms: "2", YearBuilt: "2024", Location: "Austin", Condition: "good",
			},
			estimated: 500_000,
			ppsf:      250,
		},
		{
			name: "condo in excellent condition",
			req: model.ValuationRequest{
				PropertyType: "condo", SquareFootage: "1000", Bedrooms: "3",
				Bathrooms: "2", YearBuilt: "2024", Location: "Austin", Condition: "excellent",
			},
			estimated: 258_750,
			ppsf:      259,
		},
		{
			name: "room adjustments",
			req: model.ValuationRequest{
				SquareFootage: "1000", Bedrooms: "4", Bathrooms: "3",
				YearBuilt: "2024", Location: "Austin",
			},
			estimated: 275_000,
			ppsf:      275,
		},
		{
			name: "age discount is capped",
			req: model.ValuationRequest{
				SquareFootage: "1000", Bedrooms: "3", Bathrooms: "2",
				YearBuilt: "1900", Location: "Austin",
			},
			estimated: 175_000,
			ppsf:      175,
		},
		{
			name: "sloppy numbers are read leniently",
			req: model.ValuationRequest{
				SquareFootage: "2000 sqft", Bedrooms: "3 beds", Bathrooms: "2",
				Location: "Austin",
			},
			// blank year defaults to 2020: 4 years * 0.5%
			estimated: 490_000,
			ppsf:      245,
		},
	}

	svc := newTestValuation(NoDelay{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := svc.Estimate(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}
			if diff := v.Estimated - tt.estimated; diff < -1 || diff > 1 {
				t.Errorf("Estimated = %d, want %d", v.Estimated, tt.estimated)
			}
			if v.PricePerSqft != tt.ppsf {
				t.Errorf("PricePerSqft = %d, want %d", v.PricePerSqft, tt.ppsf)
			}
			if v.Min != v.Estimated-v.Range || v.Max != v.Estimated+v.Range {
				t.Errorf("range %d..%d does not bracket %d by %d", v.Min, v.Max, v.Estimated, v.Range)
			}
			if v.Confidence != 85 {
				t.Errorf("Confidence = %.2f, want 85", v.Confidence)
			}
		})
	}
}

func TestValuation_Baseline(t *testing.T) {
	v, err := newTestValuation(NoDelay{}).Estimate(context.Background(), model.ValuationRequest{
		SquareFootage: "2000", Bedrooms: "3", Bathrooms: "2", YearBuilt: "2024", Location: "Austin",
	})
	if err != nil {
		t.Fatal(err)
	}
	if v.Range != 50_000 || v.Min != 450_000 || v.Max != 550_000 {
		t.Errorf("range = %d (%d..%d)", v.Range, v.Min, v.Max)
	}
	if v.MarketInsights.PricePerSqft != "Average price per sq ft: $238 - $263" {
		t.Errorf("insight = %q", v.MarketInsights.PricePerSqft)
	}
}

func TestValuation_ValidatesBeforeDelay(t *testing.T) {
	svc := newTestValuation(FixedDelay(time.Hour))

	start := time.Now()
	_, err := svc.Estimate(context.Background(), model.ValuationRequest{SquareFootage: "2000", Bathrooms: " "})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	want := []string{"bedrooms", "bathrooms", "location"}
	if len(verr.Fields) != len(want) {
		t.Fatalf("fields = %v, want %v", verr.Fields, want)
	}
	for i := range want {
		if verr.Fields[i] != want[i] {
			t.Errorf("fields = %v, want %v", verr.Fields, want)
		}
	}
	if time.Since(start) > time.Second {
		t.Error("validation waited for the delay")
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in       string
		fallback int
		want     int
	}{
		{"1800", 0, 1800},
		{" 1800 sqft", 0, 1800},
		{"2.5", 0, 2},
		{"abc", 7, 7},
		{"", 2020, 2020},
		{"0", 2020, 2020},
		{"0", 0, 0},
		{"-3", 0, -3},
	}
	for _, tt := range tests {
		if got := leadingInt(tt.in, tt.fallback); got != tt.want {
			t.Errorf("leadingInt(%q, %d) = %d, want %d", tt.in, tt.fallback, got, tt.want)
		}
	}
}
