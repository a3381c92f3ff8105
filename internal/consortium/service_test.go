package consortium

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/consorcia/consorcia/internal/shared"
)

func newTestService() *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewMemoryRepository(), logger)
}

func TestCreateBuildingDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBuildingInput{Name: "  Edificio Centro  ", Address: "Av. Corrientes 1234"})
	require.NoError(t, err)
	require.Equal(t, "Edificio Centro", b.Name)
	require.Equal(t, DefaultCategories, b.Categories)
	require.Empty(t, b.Units)
	require.Empty(t, b.Liquidations)

	_, err = svc.Create(ctx, CreateBuildingInput{Name: "   "})
	require.True(t, shared.IsValidation(err))
}

func TestCreateBuildingWithGrid(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBuildingInput{
		Name: "Torre Sur",
		Grid: &UnitGrid{Floors: 3, UnitsPerFloor: 2, AlphaLabels: true},
	})
	require.NoError(t, err)
	require.Len(t, b.Units, 6)
	require.Equal(t, "1A", b.Units[0].Label())
	require.Equal(t, "3B", b.Units[5].Label())
	require.Equal(t, NoOwner, b.Units[0].Owner)

	// Generated coefficients must sum to exactly 1; the last unit absorbs
	// the rounding difference.
	total := decimal.Zero
	for _, u := range b.Units {
		total = total.Add(u.Coefficient)
	}
	require.True(t, total.Equal(decimal.NewFromInt(1)), "coefficient sum %s", total)
}

func TestCreateBuildingGridCoefficientsForUnevenSplit(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBuildingInput{
		Name: "Torre Este",
		Grid: &UnitGrid{Floors: 1, UnitsPerFloor: 3},
	})
	require.NoError(t, err)
	require.Len(t, b.Units, 3)
	require.Equal(t, "11", b.Units[0].Label())

	total := decimal.Zero
	for _, u := range b.Units {
		total = total.Add(u.Coefficient)
	}
	require.True(t, total.Equal(decimal.NewFromInt(1)), "coefficient sum %s", total)
}

func TestUpdateBuildingMetadata(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBuildingInput{Name: "Original"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, b.ID, UpdateBuildingInput{
		Name:       "Renombrado",
		Categories: []string{"sueldos", "otros"},
	})
	require.NoError(t, err)
	require.Equal(t, "Renombrado", updated.Name)
	require.Equal(t, []string{"sueldos", "otros"}, updated.Categories)

	// Omitted categories keep the current set.
	updated, err = svc.Update(ctx, b.ID, UpdateBuildingInput{Name: "Renombrado"})
	require.NoError(t, err)
	require.Equal(t, []string{"sueldos", "otros"}, updated.Categories)
}

func TestDeleteBuilding(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBuildingInput{Name: "Efímero"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(ctx, b.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
