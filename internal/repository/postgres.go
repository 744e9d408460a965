package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"estate/internal/model"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog_properties (
	id           BIGINT PRIMARY KEY,
	title        TEXT NOT NULL,
	price        TEXT NOT NULL,
	location     TEXT NOT NULL,
	image        TEXT NOT NULL DEFAULT '',
	features     JSONB,
	score        DOUBLE PRECISION NOT NULL DEFAULT 0,
	match_reason TEXT NOT NULL DEFAULT '',
	type         TEXT NOT NULL DEFAULT '',
	bedrooms     INTEGER NOT NULL DEFAULT 0,
	bathrooms    INTEGER NOT NULL DEFAULT 0,
	area         TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const catalogColumns = `
	id, title, price, location, image, features, score, match_reason,
	type, bedrooms, bathrooms, area, description`

const upsertProperty = `
	INSERT INTO catalog_properties (` + catalogColumns + `)
	VALUES (:id, :title, :price, :location, :image, :features, :score, :match_reason,
		:type, :bedrooms, :bathrooms, :area, :description)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		price = EXCLUDED.price,
		location = EXCLUDED.location,
		image = EXCLUDED.image,
		features = EXCLUDED.features,
		score = EXCLUDED.score,
		match_reason = EXCLUDED.match_reason,
		type = EXCLUDED.type,
		bedrooms = EXCLUDED.bedrooms,
		bathrooms = EXCLUDED.bathrooms,
		area = EXCLUDED.area,
		description = EXCLUDED.description,
		updated_at = NOW()`

// PostgresCatalog keeps the admin catalog in a PostgreSQL table.
// Ids are increasing timestamps, so ordering by id is insertion order.
type PostgresCatalog struct {
	db  *sqlx.DB
	ids *idClock
}

// NewPostgresCatalog connects, creates the table when missing and writes
// seed into it if it is empty
func NewPostgresCatalog(ctx context.Context, dsn string, maxConn, maxIdleConn int, seed []model.Property) (*PostgresCatalog, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &PostgresCatalog{db: db, ids: newIDClock()}
	if err := r.ensureSchema(ctx, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresCatalog) ensureSchema(ctx context.Context, seed []model.Property) error {
	if _, err := r.db.ExecContext(ctx, catalogSchema); err != nil {
		return fmt.Errorf("failed to create catalog table: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM catalog_properties`); err != nil {
		return fmt.Errorf("failed to count catalog rows: %w", err)
	}
	if count > 0 || len(seed) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range seed {
		if _, err := tx.NamedExecContext(ctx, upsertProperty, p); err != nil {
			return fmt.Errorf("failed to seed property %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// List returns every property in insertion order
func (r *PostgresCatalog) List(ctx context.Context) ([]model.Property, error) {
	props := []model.Property{}
	query := `SELECT ` + catalogColumns + ` FROM catalog_properties ORDER BY id`
	if err := r.db.SelectContext(ctx, &props, query); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return props, nil
}

// Get retrieves a single property by id
func (r *PostgresCatalog) Get(ctx context.Context, id int64) (*model.Property, error) {
	var p model.Property
	query := `SELECT ` + catalogColumns + ` FROM catalog_properties WHERE id = $1`
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &p, nil
}

// Upsert inserts or replaces a property
func (r *PostgresCatalog) Upsert(ctx context.Context, p model.Property) (*model.Property, error) {
	if p.ID == 0 {
		var floor int64
		if err := r.db.GetContext(ctx, &floor, `SELECT COALESCE(MAX(id), 0) FROM catalog_properties`); err != nil {
			return nil, fmt.Errorf("failed to read max id: %w", err)
		}
		p.ID = r.ids.next(floor)
	}

	if _, err := r.db.NamedExecContext(ctx, upsertProperty, p); err != nil {
		return nil, fmt.Errorf("failed to save property: %w", err)
	}
	return &p, nil
}

// Delete removes a property
func (r *PostgresCatalog) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalog_properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if n == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Close closes the database connection
func (r *PostgresCatalog) Close() error {
	return r.db.Close()
}
