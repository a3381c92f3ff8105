package reports

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/expenses"
	"github.com/consorcia/consorcia/internal/shared"
)

// Service serves the read-only projections, caching the dashboard build and
// collapsing concurrent rebuilds of the same key.
type Service struct {
	repo       consortium.Repository
	cache      *Cache
	classifier *Classifier
	group      singleflight.Group
}

// NewService constructs a Service. cache may be nil (pass-through).
func NewService(repo consortium.Repository, cache *Cache, classifier *Classifier) *Service {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Service{repo: repo, cache: cache, classifier: classifier}
}

// Dashboard returns the cached dashboard projection for one period.
func (s *Service) Dashboard(ctx context.Context, buildingID uuid.UUID, period shared.Period) (Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "dashboard", buildingID.String(), period.Key())
	if err != nil {
		return Dashboard{}, err
	}
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var dash Dashboard
		err := s.cache.FetchJSON(ctx, key, &dash, func(ctx context.Context) (interface{}, error) {
			b, err := s.repo.Load(ctx, buildingID)
			if err != nil {
				return nil, err
			}
			return BuildDashboard(b, period, s.classifier), nil
		})
		return dash, err
	})
	if err != nil {
		return Dashboard{}, err
	}
	return result.(Dashboard), nil
}

// CategoryBreakdown groups one period's approved expenses by category.
func (s *Service) CategoryBreakdown(ctx context.Context, buildingID uuid.UUID, period shared.Period) (map[string]expenses.CategoryTotal, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	return expenses.Categorize(expenses.InPeriod(b.Expenses, period, true)), nil
}

// RubricBreakdown groups one period's approved expenses by rubric.
func (s *Service) RubricBreakdown(ctx context.Context, buildingID uuid.UUID, period shared.Period) (map[string]expenses.CategoryTotal, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	return s.classifier.RubricBreakdown(expenses.InPeriod(b.Expenses, period, true)), nil
}

// Income returns the month-over-month collection delta.
func (s *Service) Income(ctx context.Context, buildingID uuid.UUID, period shared.Period) (IncomeDelta, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return IncomeDelta{}, err
	}
	return MonthOverMonthIncome(b, period), nil
}

// BankBalance returns the running balance over the building's transactions.
func (s *Service) BankBalance(ctx context.Context, buildingID uuid.UUID) ([]BalancePoint, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	return RunningBalance(b.BankAccounts, b.BankTransactions), nil
}

// Warm precomputes and caches the dashboard for a period. Used by the
// background warmup job after mutations.
func (s *Service) Warm(ctx context.Context, buildingID uuid.UUID, period shared.Period) error {
	_, err := s.Dashboard(ctx, buildingID, period)
	return err
}
