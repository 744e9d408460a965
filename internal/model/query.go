package model

// ParsedQuery represents structured filters extracted from a free-text query.
// Nil pointer fields mean "not mentioned".
type ParsedQuery struct {
	PriceCeiling *int64   `json:"price_ceiling,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Features     []string `json:"features"`
	PropertyType *string  `json:"property_type,omitempty"`
}

// IsEmpty reports whether nothing was extracted
func (q *ParsedQuery) IsEmpty() bool {
	return q.PriceCeiling == nil &&
		q.Bedrooms == nil &&
		q.Bathrooms == nil &&
		q.Location == nil &&
		len(q.Features) == 0 &&
		q.PropertyType == nil
}

// HasFeature reports whether the feature keyword was extracted
func (q *ParsedQuery) HasFeature(feature string) bool {
	for _, f := range q.Features {
		if f == feature {
			return true
		}
	}
	return false
}
