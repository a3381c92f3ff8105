package reports

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

type countingRepo struct {
	inner *consortium.MemoryRepository
	loads int
}

func (r *countingRepo) Create(ctx context.Context, b *consortium.Building) error {
	return r.inner.Create(ctx, b)
}

func (r *countingRepo) Load(ctx context.Context, id uuid.UUID) (*consortium.Building, error) {
	r.loads++
	return r.inner.Load(ctx, id)
}

func (r *countingRepo) Save(ctx context.Context, b *consortium.Building) error {
	return r.inner.Save(ctx, b)
}

func (r *countingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.inner.Delete(ctx, id)
}

func (r *countingRepo) List(ctx context.Context) ([]consortium.Building, error) {
	return r.inner.List(ctx)
}

func dashboardBuilding() *consortium.Building {
	return &consortium.Building{
		ID:   uuid.New(),
		Name: "Edificio Cache",
		Units: []consortium.Unit{
			{
				ID: uuid.New(), Floor: "1", Department: "A",
				Owner:       "Propietaria",
				Coefficient: decimal.RequireFromString("1"),
				Payments: []consortium.Payment{{
					ID:     uuid.New(),
					Amount: money.FromCents(50000),
					Date:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
				}},
			},
		},
		Expenses: []consortium.Expense{{
			ID: uuid.New(), Description: "sueldos",
			Amount:   money.FromCents(100000),
			Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Category: "sueldos",
			Status:   consortium.ExpenseApproved,
		}},
	}
}

func newCachedService(t *testing.T, repo consortium.Repository) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache, NewClassifier(nil)), cache
}

func TestDashboardCaches(t *testing.T) {
	b := dashboardBuilding()
	repo := &countingRepo{inner: consortium.NewMemoryRepository()}
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, b))

	svc, cache := newCachedService(t, repo)
	period := shared.Period{Month: time.March, Year: 2025}

	dash, err := svc.Dashboard(ctx, b.ID, period)
	require.NoError(t, err)
	require.Equal(t, money.Money(100000), dash.PeriodExpenses)
	require.Equal(t, 1, repo.loads)

	// Second call hits the cache.
	dash, err = svc.Dashboard(ctx, b.ID, period)
	require.NoError(t, err)
	require.Equal(t, money.Money(100000), dash.PeriodExpenses)
	require.Equal(t, 1, repo.loads)

	// Bumping the version invalidates every key at once.
	require.NoError(t, cache.Bump(ctx))
	dash, err = svc.Dashboard(ctx, b.ID, period)
	require.NoError(t, err)
	require.Equal(t, 2, repo.loads)
	require.Equal(t, money.Money(50000), dash.PeriodCollected)
}

func TestDashboardWithoutCacheIsPassThrough(t *testing.T) {
	b := dashboardBuilding()
	repo := &countingRepo{inner: consortium.NewMemoryRepository()}
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, b))

	svc := NewService(repo, nil, nil)
	period := shared.Period{Month: time.March, Year: 2025}

	for i := 0; i < 2; i++ {
		dash, err := svc.Dashboard(ctx, b.ID, period)
		require.NoError(t, err)
		require.Equal(t, money.Money(100000), dash.PeriodExpenses)
	}
	require.Equal(t, 2, repo.loads)
}

func TestWarmPopulatesCache(t *testing.T) {
	b := dashboardBuilding()
	repo := &countingRepo{inner: consortium.NewMemoryRepository()}
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, b))

	svc, _ := newCachedService(t, repo)
	period := shared.Period{Month: time.March, Year: 2025}

	require.NoError(t, svc.Warm(ctx, b.ID, period))
	require.Equal(t, 1, repo.loads)

	_, err := svc.Dashboard(ctx, b.ID, period)
	require.NoError(t, err)
	require.Equal(t, 1, repo.loads)
}

func TestIncomeAndBankBalanceReadThrough(t *testing.T) {
	b := dashboardBuilding()
	accID := uuid.New()
	b.BankAccounts = []consortium.BankAccount{{ID: accID, BankName: "Banco Nación", InitialBalance: money.FromCents(10000)}}
	b.BankTransactions = []consortium.BankTransaction{{
		ID: uuid.New(), AccountID: accID,
		Date:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Type:   consortium.TransactionCredit,
		Amount: money.FromCents(5000),
	}}
	repo := consortium.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, b))

	svc := NewService(repo, nil, nil)

	delta, err := svc.Income(ctx, b.ID, shared.Period{Month: time.March, Year: 2025})
	require.NoError(t, err)
	require.Equal(t, money.Money(50000), delta.Current)

	points, err := svc.BankBalance(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, points, 1)
	require.Equal(t, money.Money(15000), points[0].Balance)
}
