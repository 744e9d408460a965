package service

import (
	"strconv"
	"strings"

	"estate/internal/model"
	"estate/internal/utils"
)

// Match reason constants
const (
	ReasonPriceMatch     = "Price within budget"
	ReasonBedroomsMatch  = "Bedrooms match"
	ReasonBathroomsMatch = "Bathrooms match"
	ReasonLocationMatch  = "Location match"
	ReasonFeatureMatch   = "Feature match"
	ReasonGeneralMatch   = "General match"
)

// Filter keeps the candidates that pass every filter set on q, in their
// original order. Price, bedrooms and bathrooms narrow the list; location,
// features and property type only contribute match reasons.
func Filter(candidates []model.Property, q *model.ParsedQuery) []model.Property {
	out := make([]model.Property, 0, len(candidates))
	for _, p := range candidates {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p model.Property, q *model.ParsedQuery) bool {
	if q == nil {
		return true
	}
	if q.PriceCeiling != nil {
		price, ok := p.NumericPrice()
		if !ok || price > *q.PriceCeiling {
			return false
		}
	}
	if q.Bedrooms != nil && !hasCountFeature(p.Features, *q.Bedrooms, "bed") {
		return false
	}
	if q.Bathrooms != nil && !hasCountFeature(p.Features, *q.Bathrooms, "bath") {
		return false
	}
	return true
}

// hasCountFeature looks for "{n} {unit}" or "{n} {unit}s" among features
func hasCountFeature(features []string, n int, unit string) bool {
	singular := strconv.Itoa(n) + " " + unit
	plural := singular + "s"
	for _, f := range features {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == singular || f == plural {
			return true
		}
	}
	return false
}

// Explain lists why p matched q. It never changes order or membership.
func Explain(p model.Property, q *model.ParsedQuery) []string {
	reasons := []string{}
	if q == nil {
		return append(reasons, ReasonGeneralMatch)
	}

	if q.PriceCeiling != nil {
		reasons = append(reasons, ReasonPriceMatch)
	}
	if q.Bedrooms != nil {
		reasons = append(reasons, ReasonBedroomsMatch)
	}
	if q.Bathrooms != nil {
		reasons = append(reasons, ReasonBathroomsMatch)
	}
	if q.Location != nil && strings.Contains(strings.ToLower(p.Location), *q.Location) {
		reasons = append(reasons, ReasonLocationMatch)
	}
	if len(q.Features) > 0 && hasAnyFeature(p, q.Features) {
		reasons = append(reasons, ReasonFeatureMatch)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}
	return reasons
}

func hasAnyFeature(p model.Property, keywords []string) bool {
	for _, k := range keywords {
		if utils.FuzzyMatchFeature(k, p.Title) {
			return true
		}
		for _, f := range p.Features {
			if utils.FuzzyMatchFeature(k, f) {
				return true
			}
		}
	}
	return false
}

// RankResults wraps filtered properties with their match reasons
func RankResults(props []model.Property, q *model.ParsedQuery) []model.SearchResult {
	results := make([]model.SearchResult, 0, len(props))
	for _, p := range props {
		results = append(results, model.SearchResult{
			Property:       p,
			MatchedReasons: Explain(p, q),
		})
	}
	return results
}
