package repository

import (
	"context"
	"sync"

	"estate/internal/model"
)

// MemoryCatalog keeps the catalog in process memory
type MemoryCatalog struct {
	mu    sync.RWMutex
	props []model.Property
	ids   *idClock
}

// NewMemoryCatalog creates a store holding a copy of seed
func NewMemoryCatalog(seed []model.Property) *MemoryCatalog {
	return &MemoryCatalog{
		props: cloneProperties(seed),
		ids:   newIDClock(),
	}
}

// List returns every property in insertion order
func (r *MemoryCatalog) List(ctx context.Context) ([]model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneProperties(r.props), nil
}

// Get retrieves a single property by id
func (r *MemoryCatalog) Get(ctx context.Context, id int64) (*model.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.props {
		if p.ID == id {
			found := cloneProperties([]model.Property{p})[0]
			return &found, nil
		}
	}
	return nil, nil
}

// Upsert inserts or replaces a property
func (r *MemoryCatalog) Upsert(ctx context.Context, p model.Property) (*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.ids.next(maxID(r.props))
	}
	r.props = upsertInto(r.props, cloneProperties([]model.Property{p})[0])
	return &p, nil
}

// Delete removes a property
func (r *MemoryCatalog) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	props, found := removeFrom(r.props, id)
	if !found {
		return ErrPropertyNotFound
	}
	r.props = props
	return nil
}

// Close is a no-op
func (r *MemoryCatalog) Close() error {
	return nil
}
