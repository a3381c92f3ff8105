package settlement

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/shared"
)

// Service wraps the engine with aggregate access, the close-month state
// transition, and read access to the settlement archive.
type Service struct {
	repo   consortium.Repository
	engine *Engine
	locks  *shared.KeyedMutex
	logger *slog.Logger
	cache  shared.CacheInvalidator
	now    func() time.Time
}

// NewService constructs a Service. cache may be nil.
func NewService(repo consortium.Repository, engine *Engine, logger *slog.Logger, cache shared.CacheInvalidator) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		locks:  shared.NewKeyedMutex(),
		logger: logger,
		cache:  cache,
		now:    time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Live recomputes the ephemeral settlement view for the current aggregate
// state. It mutates nothing and can be called as often as needed.
func (s *Service) Live(ctx context.Context, buildingID uuid.UUID, period shared.Period) (View, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return View{}, err
	}
	return s.engine.ComputeLive(b, period), nil
}

// CloseMonth freezes the live computation into an immutable liquidation.
// The check-then-append sequence runs under a per-building lock and the
// repository's version check, so concurrent closers cannot both archive the
// same period. Closing an already-closed period fails with ErrAlreadyClosed;
// closing a period without approved expenses fails with ErrEmptyPeriod.
func (s *Service) CloseMonth(ctx context.Context, buildingID uuid.UUID, period shared.Period) (*consortium.Liquidation, error) {
	key := buildingID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if _, exists := b.LiquidationFor(period.Month, period.Year); exists {
		return nil, ErrAlreadyClosed
	}
	view := s.engine.ComputeLive(b, period)
	if view.TotalExpenses == 0 {
		return nil, ErrEmptyPeriod
	}

	liq := consortium.Liquidation{
		ID:            uuid.New(),
		Period:        period.Label(),
		Month:         period.Month,
		Year:          period.Year,
		TotalExpenses: view.TotalExpenses,
		GeneratedAt:   s.now(),
		Units:         make([]consortium.LiquidationUnit, 0, len(view.Rows)),
	}
	for _, row := range view.Rows {
		liq.Units = append(liq.Units, consortium.LiquidationUnit{
			UnitID:    row.UnitID,
			Owner:     row.Owner,
			Label:     row.Label,
			AmountDue: row.TotalDue,
			Status:    row.Status,
		})
	}
	b.Liquidations = append(b.Liquidations, liq)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("reports cache bump", slog.Any("error", err))
		}
	}
	s.logger.Info("period closed",
		slog.String("building_id", buildingID.String()),
		slog.String("period", liq.Period),
		slog.Int("units", len(liq.Units)))
	return &liq, nil
}

// Archive lists the building's liquidations ordered by period descending.
func (s *Service) Archive(ctx context.Context, buildingID uuid.UUID) ([]consortium.Liquidation, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	out := append([]consortium.Liquidation(nil), b.Liquidations...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

// Get returns the archived liquidation for one period.
func (s *Service) Get(ctx context.Context, buildingID uuid.UUID, period shared.Period) (*consortium.Liquidation, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	liq, ok := b.LiquidationFor(period.Month, period.Year)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return liq, nil
}
