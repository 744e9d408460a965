package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// featureAliases maps a search keyword to listing phrases that satisfy it
var featureAliases = map[string][]string{
	"garage":     {"garage", "parking", "car port", "carport"},
	"pool":       {"pool", "swimming pool"},
	"garden":     {"garden", "backyard", "yard", "lawn"},
	"modern":     {"modern", "renovated", "contemporary"},
	"new":        {"new", "newly built", "new construction"},
	"investment": {"investment", "rental yield", "rental income", "roi"},
	"family":     {"family", "good schools", "large backyard", "playground"},
	"view":       {"view", "city view", "mountain view", "lake view"},
	"school":     {"school", "good schools"},
}

// FuzzyMatchFeature reports whether a listing feature or title satisfies a
// search keyword, either directly or through a known alias
func FuzzyMatchFeature(keyword, feature string) bool {
	keywordLower := strings.ToLower(strings.TrimSpace(keyword))
	featureLower := strings.ToLower(strings.TrimSpace(feature))
	if keywordLower == "" || featureLower == "" {
		return false
	}

	if keywordLower == featureLower || strings.Contains(featureLower, keywordLower) {
		return true
	}

	for _, alias := range featureAliases[keywordLower] {
		if strings.Contains(featureLower, alias) {
			return true
		}
	}
	return false
}

// normalizations maps loosely typed admin input to the catalog's wording
var normalizations = map[string]string{
	"pool":          "Swimming pool",
	"swimming pool": "Swimming pool",
	"garage":        "Garage",
	"parking":       "Garage",
	"carport":       "Garage",
	"garden":        "Garden",
	"yard":          "Large backyard",
	"backyard":      "Large backyard",
	"schools":       "Good schools",
	"good schools":  "Good schools",
	"view":          "City view",
	"city view":     "City view",
	"kitchen":       "Modern kitchen",
}

var titleCaser = cases.Title(language.English)

// NormalizeFeature cleans up a feature label. Count labels such as
// "3 beds" are only trimmed and lower-cased so bedroom filters keep working.
func NormalizeFeature(feature string) string {
	lower := strings.ToLower(strings.Join(strings.Fields(feature), " "))
	if lower == "" {
		return ""
	}
	if lower[0] >= '0' && lower[0] <= '9' {
		return lower
	}
	if normalized, ok := normalizations[lower]; ok {
		return normalized
	}
	return titleCaser.String(lower)
}

// NormalizeFeatures normalizes and de-duplicates a feature list, keeping order
func NormalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		n := NormalizeFeature(f)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
