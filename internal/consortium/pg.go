package consortium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consorcia/consorcia/internal/shared"
)

// PGRepository persists each Building aggregate as one JSONB document with a
// version column for optimistic concurrency.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PGRepository using the provided pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Migrate creates the backing table when missing.
func (r *PGRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS buildings (
		id UUID PRIMARY KEY,
		doc JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

// Create inserts a new aggregate at version 1.
func (r *PGRepository) Create(ctx context.Context, b *Building) error {
	b.Version = 1
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("consortium: encode building: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO buildings (id, doc, version) VALUES ($1, $2, 1) ON CONFLICT (id) DO NOTHING`,
		b.ID, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrConflict
	}
	return nil
}

// Load fetches and decodes one aggregate.
func (r *PGRepository) Load(ctx context.Context, id uuid.UUID) (*Building, error) {
	var doc []byte
	var version int64
	err := r.pool.QueryRow(ctx,
		`SELECT doc, version FROM buildings WHERE id = $1`, id).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	var b Building
	if err := json.Unmarshal(doc, &b); err != nil {
		return nil, fmt.Errorf("consortium: decode building %s: %w", id, err)
	}
	b.Version = version
	return &b, nil
}

// Save replaces the document iff the stored version matches the version the
// caller loaded. A lost race surfaces as shared.ErrVersionConflict so the
// caller can reload and retry.
func (r *PGRepository) Save(ctx context.Context, b *Building) error {
	loadedVersion := b.Version
	b.Version = loadedVersion + 1
	doc, err := json.Marshal(b)
	if err != nil {
		b.Version = loadedVersion
		return fmt.Errorf("consortium: encode building: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE buildings SET doc = $2, version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $3`,
		b.ID, doc, loadedVersion)
	if err != nil {
		b.Version = loadedVersion
		return err
	}
	if tag.RowsAffected() == 0 {
		b.Version = loadedVersion
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM buildings WHERE id = $1)`, b.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		return shared.ErrVersionConflict
	}
	return nil
}

// Delete removes the aggregate.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns all aggregates ordered by name.
func (r *PGRepository) List(ctx context.Context) ([]Building, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc, version FROM buildings ORDER BY doc->>'name'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Building
	for rows.Next() {
		var doc []byte
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}
		var b Building
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("consortium: decode building: %w", err)
		}
		b.Version = version
		out = append(out, b)
	}
	return out, rows.Err()
}
