package model

// Seed data. Every function returns a fresh copy so callers may mutate it.

// SearchCatalog is the fixed candidate list used by natural language search
func SearchCatalog() []Property {
	return []Property{
		{
			ID:       1,
			Title:    "Modern Family Home",
			Price:    "$450,000",
			Location: "Downtown District",
			Image:    "/images/project_img_1.jpg",
			Score:    0.95,
			Features: JSONArray{"3 beds", "2 baths", "Garage", "Modern kitchen"},
		},
		{
			ID:       2,
			Title:    "Investment Property",
			Price:    "$320,000",
			Location: "University Area",
			Image:    "/images/project_img_2.jpg",
			Score:    0.88,
			Features: JSONArray{"2 beds", "1 bath", "High rental yield"},
		},
		{
			ID:       3,
			Title:    "Luxury Apartment",
			Price:    "$280,000",
			Location: "Downtown Core",
			Image:    "/images/project_img_3.jpg",
			Score:    0.82,
			Features: JSONArray{"1 bed", "1 bath", "City view", "Modern amenities"},
		},
		{
			ID:       4,
			Title:    "Suburban Family House",
			Price:    "$580,000",
			Location: "Suburban Area",
			Image:    "/images/project_img_4.jpg",
			Score:    0.78,
			Features: JSONArray{"4 beds", "3 baths", "Large backyard", "Good schools"},
		},
	}
}

// RecommendedProperties is the fixed recommendation list
func RecommendedProperties() []Property {
	return []Property{
		{
			ID:          1,
			Title:       "Modern Downtown Apartment",
			Price:       "$450,000",
			Location:    "Downtown District",
			Image:       "/images/project_img_1.jpg",
			Score:       0.95,
			MatchReason: "Matches your budget and preferred location",
		},
		{
			ID:          2,
			Title:       "Family Home with Garden",
			Price:       "$650,000",
			Location:    "Suburban Area",
			Image:       "/images/project_img_2.jpg",
			Score:       0.88,
			MatchReason: "Similar to properties you've viewed recently",
		},
		{
			ID:          3,
			Title:       "Investment Property",
			Price:       "$320,000",
			Location:    "University District",
			Image:       "/images/project_img_3.jpg",
			Score:       0.82,
			MatchReason: "High rental yield potential based on your portfolio",
		},
	}
}

// DefaultCatalog seeds an empty admin catalog
func DefaultCatalog() []Property {
	return []Property{
		{
			ID:          1,
			Title:       "Skyline Haven",
			Price:       "$250,000",
			Location:    "California",
			Type:        PropertyTypeHouse,
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        "2,500 sq ft",
			Description: "Beautiful modern house with stunning views",
			Image:       "/images/project_img_1.jpg",
		},
		{
			ID:          2,
			Title:       "Vista Verde",
			Price:       "$250,000",
			Location:    "San Francisco",
			Type:        PropertyTypeApartment,
			Bedrooms:    2,
			Bathrooms:   1,
			Area:        "1,200 sq ft",
			Description: "Cozy apartment in the heart of the city",
			Image:       "/images/project_img_2.jpg",
		},
	}
}
