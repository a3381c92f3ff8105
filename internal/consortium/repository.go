package consortium

import (
	"context"

	"github.com/google/uuid"
)

// Repository loads and persists whole Building aggregates. Save performs an
// optimistic version check: it only writes when the stored version still
// matches the version the caller loaded, and returns
// shared.ErrVersionConflict otherwise.
type Repository interface {
	Create(ctx context.Context, b *Building) error
	Load(ctx context.Context, id uuid.UUID) (*Building, error)
	Save(ctx context.Context, b *Building) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Building, error)
}
