package consortium

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/consorcia/consorcia/internal/shared"
)

func newTestBuilding() *Building {
	return &Building{
		ID:   uuid.New(),
		Name: "Edificio Belgrano",
		Units: []Unit{
			{
				ID:          uuid.New(),
				Floor:       "1",
				Department:  "A",
				Owner:       "García",
				Coefficient: decimal.RequireFromString("0.5"),
			},
		},
	}
}

func TestMemoryRepositoryCreateAndLoad(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	b := newTestBuilding()

	require.NoError(t, repo.Create(ctx, b))
	require.Equal(t, int64(1), b.Version)

	loaded, err := repo.Load(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.Name, loaded.Name)
	require.Len(t, loaded.Units, 1)

	require.ErrorIs(t, repo.Create(ctx, b), shared.ErrConflict)
	_, err = repo.Load(ctx, uuid.New())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryRepositorySaveVersionCheck(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	b := newTestBuilding()
	require.NoError(t, repo.Create(ctx, b))

	first, err := repo.Load(ctx, b.ID)
	require.NoError(t, err)
	second, err := repo.Load(ctx, b.ID)
	require.NoError(t, err)

	first.Name = "Edificio Norte"
	require.NoError(t, repo.Save(ctx, first))
	require.Equal(t, int64(2), first.Version)

	// The second copy still carries version 1 and must be rejected.
	second.Name = "Edificio Sur"
	require.ErrorIs(t, repo.Save(ctx, second), shared.ErrVersionConflict)

	loaded, err := repo.Load(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "Edificio Norte", loaded.Name)
}

func TestMemoryRepositoryReadsAreIsolated(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	b := newTestBuilding()
	require.NoError(t, repo.Create(ctx, b))

	loaded, err := repo.Load(ctx, b.ID)
	require.NoError(t, err)
	loaded.Units[0].Owner = "Mutated"

	fresh, err := repo.Load(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "García", fresh.Units[0].Owner)
}

func TestMemoryRepositoryDeleteAndList(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	a := newTestBuilding()
	a.Name = "Zeta"
	b := newTestBuilding()
	b.ID = uuid.New()
	b.Name = "Alfa"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Alfa", list[0].Name)
	require.Equal(t, "Zeta", list[1].Name)

	require.NoError(t, repo.Delete(ctx, a.ID))
	require.ErrorIs(t, repo.Delete(ctx, a.ID), shared.ErrNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
