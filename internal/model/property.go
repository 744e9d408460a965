package model

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"
)

// Property types accepted by the catalog
const (
	PropertyTypeHouse     = "house"
	PropertyTypeApartment = "apartment"
	PropertyTypeCondo     = "condo"
	PropertyTypeTownhouse = "townhouse"
)

// IsPropertyType reports whether t is one of the catalog property types
func IsPropertyType(t string) bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCondo, PropertyTypeTownhouse:
		return true
	}
	return false
}

// Property is a listing record. Search and recommendation results use the
// id/title/price/location/image/features/score subset; the admin catalog
// fills the remaining fields.
type Property struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Price       string    `json:"price" db:"price"` // display form, e.g. "$450,000"
	Location    string    `json:"location" db:"location"`
	Image       string    `json:"image,omitempty" db:"image"`
	Features    JSONArray `json:"features,omitempty" db:"features"`
	Score       float64   `json:"score,omitempty" db:"score"` // static seed relevance in [0,1]
	MatchReason string    `json:"match_reason,omitempty" db:"match_reason"`
	Type        string    `json:"type,omitempty" db:"type"`
	Bedrooms    int       `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms   int       `json:"bathrooms,omitempty" db:"bathrooms"`
	Area        string    `json:"area,omitempty" db:"area"`
	Description string    `json:"description,omitempty" db:"description"`
}

// NumericPrice strips "$" and "," from the display price and parses the rest.
func (p Property) NumericPrice() (int64, bool) {
	return ParsePrice(p.Price)
}

// ParsePrice parses a display price such as "$1,250,000". Trailing
// non-digit text is ignored the way a lenient integer parse would.
func ParsePrice(price string) (int64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(price))
	end := 0
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseInt(cleaned[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// FormatPrice renders an amount as "$N,NNN,NNN".
func FormatPrice(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// CatalogStats summarises the admin catalog
type CatalogStats struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
