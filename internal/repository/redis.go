package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"estate/internal/model"
)

const maxSnapshotRetries = 5

// RedisCatalog stores the whole catalog as one JSON list under a single key.
// Every write reads the list, changes it and overwrites the key; WATCH turns
// concurrent writers into retries instead of lost updates.
type RedisCatalog struct {
	client *redis.Client
	key    string
	ids    *idClock
}

// ConnectRedis initializes a Redis client and pings it
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NewRedisCatalog wraps client and writes seed under key if the key is absent
func NewRedisCatalog(ctx context.Context, client *redis.Client, key string, seed []model.Property) (*RedisCatalog, error) {
	payload, err := encodeSnapshot(seed)
	if err != nil {
		return nil, err
	}
	if err := client.SetNX(ctx, key, payload, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	return &RedisCatalog{client: client, key: key, ids: newIDClock()}, nil
}

// List returns the stored snapshot
func (r *RedisCatalog) List(ctx context.Context) ([]model.Property, error) {
	return r.load(ctx, r.client)
}

// Get retrieves a single property by id
func (r *RedisCatalog) Get(ctx context.Context, id int64) (*model.Property, error) {
	props, err := r.load(ctx, r.client)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// Upsert inserts or replaces a property and rewrites the snapshot
func (r *RedisCatalog) Upsert(ctx context.Context, p model.Property) (*model.Property, error) {
	err := r.rewrite(ctx, func(props []model.Property) ([]model.Property, error) {
		if p.ID == 0 {
			p.ID = r.ids.next(maxID(props))
		}
		return upsertInto(props, p), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a property and rewrites the snapshot
func (r *RedisCatalog) Delete(ctx context.Context, id int64) error {
	return r.rewrite(ctx, func(props []model.Property) ([]model.Property, error) {
		out, found := removeFrom(props, id)
		if !found {
			return nil, ErrPropertyNotFound
		}
		return out, nil
	})
}

// Close closes the Redis client
func (r *RedisCatalog) Close() error {
	return r.client.Close()
}

func (r *RedisCatalog) rewrite(ctx context.Context, change func([]model.Property) ([]model.Property, error)) error {
	for attempt := 0; attempt < maxSnapshotRetries; attempt++ {
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			props, err := r.load(ctx, tx)
			if err != nil {
				return err
			}
			updated, err := change(props)
			if err != nil {
				return err
			}
			payload, err := encodeSnapshot(updated)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, r.key, payload, 0)
				return nil
			})
			return err
		}, r.key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("catalog snapshot changed concurrently %d times, giving up", maxSnapshotRetries)
}

// getter is satisfied by both *redis.Client and *redis.Tx
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisCatalog) load(ctx context.Context, c getter) ([]model.Property, error) {
	raw, err := c.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.Property{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return decodeSnapshot(raw)
}

func encodeSnapshot(props []model.Property) ([]byte, error) {
	if props == nil {
		props = []model.Property{}
	}
	payload, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return payload, nil
}

func decodeSnapshot(raw []byte) ([]model.Property, error) {
	var props []model.Property
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if props == nil {
		props = []model.Property{}
	}
	return props, nil
}
