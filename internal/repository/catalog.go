package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"estate/internal/model"
)

// ErrPropertyNotFound is returned by Delete when the id is unknown
var ErrPropertyNotFound = errors.New("property not found")

// CatalogRepository is the admin catalog store. Get returns (nil, nil) for
// an unknown id. Upsert assigns an id when the record has none.
type CatalogRepository interface {
	List(ctx context.Context) ([]model.Property, error)
	Get(ctx context.Context, id int64) (*model.Property, error)
	Upsert(ctx context.Context, p model.Property) (*model.Property, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// idClock hands out timestamp-based ids that never repeat or go backwards
type idClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDClock() *idClock {
	return &idClock{now: time.Now}
}

// next returns max(now in ms, floor+1, last+1)
func (c *idClock) next(floor int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= floor {
		id = floor + 1
	}
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

func maxID(props []model.Property) int64 {
	var m int64
	for _, p := range props {
		if p.ID > m {
			m = p.ID
		}
	}
	return m
}

// upsertInto replaces the record with the same id or appends it, keeping order
func upsertInto(props []model.Property, p model.Property) []model.Property {
	for i := range props {
		if props[i].ID == p.ID {
			props[i] = p
			return props
		}
	}
	return append(props, p)
}

// removeFrom drops the record with id, reporting whether it existed
func removeFrom(props []model.Property, id int64) ([]model.Property, bool) {
	out := props[:0]
	found := false
	for _, p := range props {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}

func cloneProperties(props []model.Property) []model.Property {
	out := make([]model.Property, len(props))
	for i, p := range props {
		if p.Features != nil {
			p.Features = append(model.JSONArray(nil), p.Features...)
		}
		out[i] = p
	}
	return out
}
