package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/logger"
	"estate/internal/model"
	"estate/internal/repository"
)

func newTestCatalog(seed []model.Property) *CatalogService {
	return NewCatalogService(repository.NewMemoryCatalog(seed), logger.Discard())
}

func browseSeed() []model.Property {
	return []model.Property{
		{ID: 1, Title: "Skyline Haven", Price: "$250,000", Location: "California", Type: model.PropertyTypeHouse},
		{ID: 2, Title: "Vista Verde", Price: "$150,000", Location: "San Francisco", Type: model.PropertyTypeApartment},
		{ID: 3, Title: "Harbor Loft", Price: "$750,000", Location: "San Diego, California", Type: model.PropertyTypeCondo},
		{ID: 4, Title: "Hilltop Estate", Price: "$1,500,000", Location: "Napa", Type: model.PropertyTypeHouse},
		{ID: 5, Title: "Mystery Lot", Price: "Call for price", Location: "Napa", Type: model.PropertyTypeHouse},
	}
}

func TestCatalog_Browse(t *testing.T) {
	svc := newTestCatalog(browseSeed())

	tests := []struct {
		name    string
		filters model.BrowseFilters
		want    []int64
	}{
		{name: "no filters", filters: model.BrowseFilters{}, want: []int64{1, 2, 3, 4, 5}},
		{name: "term in title", filters: model.BrowseFilters{Term: "vista"}, want: []int64{2}},
		{name: "term in location", filters: model.BrowseFilters{Term: "california"}, want: []int64{1, 3}},
		{name: "location", filters: model.BrowseFilters{Location: "Napa"}, want: []int64{4, 5}},
		{name: "type", filters: model.BrowseFilters{Type: "House"}, want: []int64{1, 4, 5}},
		{name: "under 200k", filters: model.BrowseFilters{PriceRange: PriceBandUnder200k}, want: []int64{2}},
		{name: "200k to 500k", filters: model.BrowseFilters{PriceRange: PriceBand200k500k}, want: []int64{1}},
		{name: "500k to 1m", filters: model.BrowseFilters{PriceRange: PriceBand500k1m}, want: []int64{3}},
		{name: "over 1m", filters: model.BrowseFilters{PriceRange: PriceBandOver1m}, want: []int64{4}},
		{name: "unknown band passes", filters: model.BrowseFilters{PriceRange: "cheap"}, want: []int64{1, 2, 3, 4, 5}},
		{name: "combined", filters: model.BrowseFilters{Location: "california", Type: "condo"}, want: []int64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Browse(context.Background(), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(resp.Properties))
			assert.Equal(t, len(tt.want), resp.Showing)
			assert.Equal(t, 5, resp.Total)
		})
	}
}

func TestCatalog_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(model.DefaultCatalog())

	created, err := svc.Create(ctx, model.PropertyInput{
		Title:    "  Ocean Breeze ",
		Price:    "425000",
		Location: "Malibu",
		Type:     "House",
		Image:    "/images/ocean.jpg",
		Features: []string{"pool", "Pool", "3 Beds", "rooftop deck"},
	})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(2))
	assert.Equal(t, "Ocean Breeze", created.Title)
	assert.Equal(t, "$425,000", created.Price)
	assert.Equal(t, model.PropertyTypeHouse, created.Type)
	assert.Equal(t, model.JSONArray{"Swimming pool", "3 beds", "Rooftop Deck"}, created.Features)

	updated, err := svc.Update(ctx, created.ID, model.PropertyInput{
		Title: "Ocean Breeze", Price: "$450,000", Location: "Malibu", Type: "house",
	})
	require.NoError(t, err)
	assert.Equal(t, "$450,000", updated.Price)
	assert.Equal(t, "/images/ocean.jpg", updated.Image, "image kept when not resubmitted")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$450,000", got.Price)

	require.NoError(t, svc.Delete(ctx, created.ID))
	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrPropertyNotFound)
	_, err = svc.Update(ctx, created.ID, model.PropertyInput{Title: "x"})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestCatalog_RejectsBlankOrUnknownInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(model.DefaultCatalog())

	tests := []struct {
		name   string
		in     model.PropertyInput
		fields []string
	}{
		{name: "whitespace only", in: model.PropertyInput{Title: "   ", Price: "100000", Location: "\t", Type: "house"}, fields: []string{"title", "location"}},
		{name: "blank price", in: model.PropertyInput{Title: "Loft", Price: " ", Location: "Austin", Type: "condo"}, fields: []string{"price"}},
		{name: "unknown type", in: model.PropertyInput{Title: "Keep", Price: "1", Location: "Moor", Type: "castle"}, fields: []string{"type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)

			_, err = svc.Update(ctx, 1, tt.in)
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Skyline Haven", all[0].Title, "rejected update leaves the record alone")
}

func TestCatalog_Stats(t *testing.T) {
	svc := newTestCatalog(append(browseSeed(), model.Property{ID: 6, Title: "Untyped", Price: "$1"}))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, map[string]int{"house": 3, "apartment": 1, "condo": 1, "unknown": 1}, stats.ByType)
}

func TestNormalizePrice(t *testing.T) {
	tests := map[string]string{
		"250000":         "$250,000",
		" $250,000 ":     "$250,000",
		"1250000":        "$1,250,000",
		"250k":           "250k",
		"Call for price": "Call for price",
		"":               "",
	}
	for in, want := range tests {
		if got := normalizePrice(in); got != want {
			t.Errorf("normalizePrice(%q) = %q, want %q", in, got, want)
		}
	}
}
