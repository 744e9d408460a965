package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"estate/internal/model"
	"estate/internal/repository"
	"estate/internal/utils"
)

// Price bands offered by the listing page filter
const (
	PriceBandUnder200k = "0-200000"
	PriceBand200k500k  = "200000-500000"
	PriceBand500k1m    = "500000-1000000"
	PriceBandOver1m    = "1000000+"
)

// CatalogService is the admin catalog plus the public listing view over it
type CatalogService struct {
	repo   repository.CatalogRepository
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// List returns the whole catalog
func (s *CatalogService) List(ctx context.Context) ([]model.Property, error) {
	return s.repo.List(ctx)
}

// Browse applies the listing page filters
func (s *CatalogService) Browse(ctx context.Context, f model.BrowseFilters) (*model.BrowseResponse, error) {
	props, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(f.Term))
	location := strings.ToLower(strings.TrimSpace(f.Location))
	propertyType := strings.ToLower(strings.TrimSpace(f.Type))

	filtered := make([]model.Property, 0, len(props))
	for _, p := range props {
		title := strings.ToLower(p.Title)
		loc := strings.ToLower(p.Location)

		if term != "" && !strings.Contains(title, term) && !strings.Contains(loc, term) {
			continue
		}
		if location != "" && !strings.Contains(loc, location) {
			continue
		}
		if propertyType != "" && strings.ToLower(p.Type) != propertyType {
			continue
		}
		if f.PriceRange != "" && !inPriceBand(p.Price, f.PriceRange) {
			continue
		}
		filtered = append(filtered, p)
	}

	return &model.BrowseResponse{
		Properties: filtered,
		Showing:    len(filtered),
		Total:      len(props),
	}, nil
}

// inPriceBand checks a display price against a band; unknown bands pass
func inPriceBand(price, band string) bool {
	n, ok := model.ParsePrice(price)
	switch band {
	case PriceBandUnder200k:
		return ok && n <= 200_000
	case PriceBand200k500k:
		return ok && n >= 200_000 && n <= 500_000
	case PriceBand500k1m:
		return ok && n >= 500_000 && n <= 1_000_000
	case PriceBandOver1m:
		return ok && n >= 1_000_000
	default:
		return true
	}
}

// Get retrieves a property, nil when unknown
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Property, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a property with a store-assigned id
func (s *CatalogService) Create(ctx context.Context, in model.PropertyInput) (*model.Property, error) {
	in = normalizeInput(in)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p := in.ToProperty(0)
	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	s.logger.Info("property created", "id", created.ID, "title", created.Title)
	return created, nil
}

// Update replaces an existing property
func (s *CatalogService) Update(ctx context.Context, id int64, in model.PropertyInput) (*model.Property, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPropertyNotFound
	}

	in = normalizeInput(in)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p := in.ToProperty(id)
	if p.Image == "" {
		p.Image = existing.Image
	}
	updated, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	s.logger.Info("property updated", "id", id)
	return updated, nil
}

// Delete removes a property
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("property deleted", "id", id)
	return nil
}

// Stats counts the catalog by property type
func (s *CatalogService) Stats(ctx context.Context) (*model.CatalogStats, error) {
	props, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &model.CatalogStats{Total: len(props), ByType: map[string]int{}}
	for _, p := range props {
		t := p.Type
		if t == "" {
			t = "unknown"
		}
		stats.ByType[t]++
	}
	return stats, nil
}

func normalizeInput(in model.PropertyInput) model.PropertyInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Price = normalizePrice(in.Price)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Features != nil {
		in.Features = utils.NormalizeFeatures(in.Features)
	}
	return in
}

// validateInput runs on normalized input, so blank-after-trim values and
// mixed-case types are judged the way they will be stored
func validateInput(in model.PropertyInput) error {
	if err := requireFields(
		[2]string{"title", in.Title},
		[2]string{"price", in.Price},
		[2]string{"location", in.Location},
		[2]string{"type", in.Type},
	); err != nil {
		return err
	}
	if !model.IsPropertyType(in.Type) {
		return &ValidationError{Fields: []string{"type"}, Reason: "unknown property type"}
	}
	return nil
}

// normalizePrice renders numeric input such as "250000" as "$250,000" and
// leaves anything else untouched
func normalizePrice(price string) string {
	price = strings.TrimSpace(price)
	n, ok := model.ParsePrice(price)
	if !ok {
		return price
	}
	digits := strings.NewReplacer("$", "", ",", "").Replace(price)
	if fmt.Sprint(n) != digits {
		return price
	}
	return model.FormatPrice(n)
}
