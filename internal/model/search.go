package model

// SearchRequest represents a natural language search request
type SearchRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// SearchResult is a candidate that survived filtering
type SearchResult struct {
	Property
	MatchedReasons []string `json:"matched_reasons"`
}

// SearchInsights are the canned explanations shown next to results
type SearchInsights struct {
	QueryUnderstanding string `json:"query_understanding"`
	Suggestions        string `json:"suggestions"`
	MarketInsight      string `json:"market_insight"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	SearchID string         `json:"search_id"`
	Results  []SearchResult `json:"results"`
	Total    int            `json:"total"`
	Query    *ParsedQuery   `json:"query"`
	Source   string         `json:"source"` // "rules" or "assistant"
	Insights SearchInsights `json:"insights"`
	History  []string       `json:"history"`
	Took     int64          `json:"took_ms"`
}

// SearchSuggestions lists the prompts offered under the search box
type SearchSuggestions struct {
	Popular []string `json:"popular"`
	AI      []string `json:"ai"`
}

// BrowseFilters are the listing page filters applied to the admin catalog
type BrowseFilters struct {
	Term       string `form:"q"`
	Location   string `form:"location"`
	PriceRange string `form:"price_range"`
	Type       string `form:"type"`
}

// BrowseResponse is a filtered view over the catalog
type BrowseResponse struct {
	Properties []Property `json:"properties"`
	Showing    int        `json:"showing"`
	Total      int        `json:"total"`
}
