package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"estate/internal/model"
)

// Keyword lists in priority order. For locations the first entry found in
// the query wins; features accumulate.
var (
	LocationKeywords = []string{"downtown", "suburb", "university", "school", "park", "lake", "mountain"}
	FeatureKeywords  = []string{"garage", "pool", "garden", "modern", "new", "investment", "family"}
)

var (
	priceCeilingPattern = regexp.MustCompile(`(?:under|less than|up to|maximum|max)\s*\$?\s*(\d[\d,]*(?:\.\d+)?)\s*(million|mil|m|k)?\b`)
	bedroomsPattern     = regexp.MustCompile(`(\d+)[\s-]*(?:bedrooms?|beds?|brs?)\b`)
	bathroomsPattern    = regexp.MustCompile(`(\d+)[\s-]*(?:bathrooms?|baths?|ba)\b`)
)

// QueryRule extracts one field of a ParsedQuery. Extract reports whether the
// rule matched; a rule never overwrites a field another rule already set.
type QueryRule struct {
	Name    string
	Extract func(text string, q *model.ParsedQuery) bool
}

// DefaultQueryRules returns the rule table in evaluation order
func DefaultQueryRules() []QueryRule {
	return []QueryRule{
		{Name: "price_ceiling", Extract: extractPriceCeiling},
		{Name: "bedrooms", Extract: extractCount(bedroomsPattern, func(q *model.ParsedQuery) **int { return &q.Bedrooms })},
		{Name: "bathrooms", Extract: extractCount(bathroomsPattern, func(q *model.ParsedQuery) **int { return &q.Bathrooms })},
		{Name: "location", Extract: extractLocation},
		{Name: "features", Extract: extractFeatures},
		{Name: "property_type", Extract: extractPropertyType},
	}
}

// QueryParser turns free text into a ParsedQuery by running an ordered rule table
type QueryParser struct {
	rules []QueryRule
}

// NewQueryParser creates a parser with the default rules
func NewQueryParser() *QueryParser {
	return &QueryParser{rules: DefaultQueryRules()}
}

// NewQueryParserWithRules creates a parser with a custom rule table
func NewQueryParserWithRules(rules []QueryRule) *QueryParser {
	return &QueryParser{rules: rules}
}

// Parse never fails: text that matches nothing yields an empty query
func (p *QueryParser) Parse(text string) *model.ParsedQuery {
	q, _ := p.ParseWithTrace(text)
	return q
}

// ParseWithTrace also returns the names of the rules that matched, in order
func (p *QueryParser) ParseWithTrace(text string) (*model.ParsedQuery, []string) {
	q := &model.ParsedQuery{Features: []string{}}
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return q, nil
	}

	var matched []string
	for _, rule := range p.rules {
		if rule.Extract(lower, q) {
			matched = append(matched, rule.Name)
		}
	}
	return q, matched
}

// RuleNames lists the rules in evaluation order
func (p *QueryParser) RuleNames() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name
	}
	return names
}

// extractPriceCeiling reads "under $500k", "max 1.2m", "up to $450,000".
// A bare amount below 1000 is read as thousands.
func extractPriceCeiling(text string, q *model.ParsedQuery) bool {
	if q.PriceCeiling != nil {
		return false
	}
	m := priceCeilingPattern.FindStringSubmatch(text)
	if m == nil {
		return false
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return false
	}

	switch m[2] {
	case "k":
		amount *= 1_000
	case "m", "mil", "million":
		amount *= 1_000_000
	default:
		if amount < 1_000 {
			amount *= 1_000
		}
	}

	// zero is no constraint at all
	ceiling := int64(math.Round(amount))
	if ceiling <= 0 {
		return false
	}
	q.PriceCeiling = &ceiling
	return true
}

func extractCount(pattern *regexp.Regexp, field func(*model.ParsedQuery) **int) func(string, *model.ParsedQuery) bool {
	return func(text string, q *model.ParsedQuery) bool {
		target := field(q)
		if *target != nil {
			return false
		}
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 0 {
			return false
		}
		*target = &n
		return true
	}
}

func extractLocation(text string, q *model.ParsedQuery) bool {
	if q.Location != nil {
		return false
	}
	for _, keyword := range LocationKeywords {
		if strings.Contains(text, keyword) {
			loc := keyword
			q.Location = &loc
			return true
		}
	}
	return false
}

func extractFeatures(text string, q *model.ParsedQuery) bool {
	found := false
	for _, keyword := range FeatureKeywords {
		if strings.Contains(text, keyword) && !q.HasFeature(keyword) {
			q.Features = append(q.Features, keyword)
			found = true
		}
	}
	return found
}

func extractPropertyType(text string, q *model.ParsedQuery) bool {
	if q.PropertyType != nil {
		return false
	}

	var t string
	switch {
	case strings.Contains(text, "house") || strings.Contains(text, "home"):
		t = model.PropertyTypeHouse
	case strings.Contains(text, "apartment") || strings.Contains(text, "condo"):
		t = model.PropertyTypeApartment
	default:
		return false
	}
	q.PropertyType = &t
	return true
}
