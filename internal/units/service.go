package units

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// UnitInput carries the writable identity fields of a unit. Coefficient
// accepts either a 0-1 fraction or a 0-100 percentage; it is normalized to
// the internal fraction convention before anything else sees it.
type UnitInput struct {
	Floor       string          `json:"floor"`
	Department  string          `json:"department"`
	Owner       string          `json:"owner"`
	Coefficient decimal.Decimal `json:"coefficient"`
}

// PaymentInput carries one collected amount.
type PaymentInput struct {
	Amount money.Money `json:"amount" validate:"gt=0"`
	Date   time.Time   `json:"date" validate:"required"`
}

// Service mutates the unit set of a building aggregate.
type Service struct {
	repo   consortium.Repository
	logger *slog.Logger
	cache  shared.CacheInvalidator
}

// NewService constructs a Service. cache may be nil.
func NewService(repo consortium.Repository, logger *slog.Logger, cache shared.CacheInvalidator) *Service {
	return &Service{repo: repo, logger: logger, cache: cache}
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("reports cache bump", slog.Any("error", err))
	}
}

func (in UnitInput) toUnit(id uuid.UUID) (consortium.Unit, error) {
	coeff, err := money.NormalizeCoefficient(in.Coefficient)
	if err != nil {
		return consortium.Unit{}, shared.NewValidationError("coefficient", err.Error())
	}
	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		owner = consortium.NoOwner
	}
	u := consortium.Unit{
		ID:          id,
		Floor:       strings.TrimSpace(in.Floor),
		Department:  strings.TrimSpace(in.Department),
		Owner:       owner,
		Coefficient: coeff,
		Payments:    []consortium.Payment{},
	}
	return u, u.Validate()
}

// Add appends a unit after validating the coefficient boundary. Units with
// zero or negative coefficients never reach the proration engine.
func (s *Service) Add(ctx context.Context, buildingID uuid.UUID, in UnitInput) (*consortium.Unit, error) {
	u, err := in.toUnit(uuid.New())
	if err != nil {
		return nil, err
	}
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	b.Units = append(b.Units, u)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	s.logger.Info("unit added",
		slog.String("building_id", buildingID.String()),
		slog.String("unit", u.Label()))
	return &u, nil
}

// Update replaces the identity fields, keeping account state and payments.
func (s *Service) Update(ctx context.Context, buildingID, unitID uuid.UUID, in UnitInput) (*consortium.Unit, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	existing, err := b.FindUnit(unitID)
	if err != nil {
		return nil, err
	}
	updated, err := in.toUnit(unitID)
	if err != nil {
		return nil, err
	}
	updated.Account = existing.Account
	updated.Payments = existing.Payments
	*existing = updated
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return existing, nil
}

// Remove deletes a unit from the live building. Archived liquidations keep
// their frozen copies of the unit's data.
func (s *Service) Remove(ctx context.Context, buildingID, unitID uuid.UUID) error {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return err
	}
	idx := -1
	for i := range b.Units {
		if b.Units[i].ID == unitID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}
	b.Units = append(b.Units[:idx], b.Units[idx+1:]...)
	if err := s.repo.Save(ctx, b); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// RecordPayment appends to the unit's payment history. It deliberately does
// not touch debt, interest, or due-next fields: the worksheet model keeps
// those under explicit manual control.
func (s *Service) RecordPayment(ctx context.Context, buildingID, unitID uuid.UUID, in PaymentInput) (*consortium.Payment, error) {
	if in.Amount <= 0 {
		return nil, shared.NewValidationError("amount", "must be greater than zero")
	}
	if in.Date.IsZero() {
		return nil, shared.NewValidationError("date", "required")
	}
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	u, err := b.FindUnit(unitID)
	if err != nil {
		return nil, err
	}
	p := consortium.Payment{ID: uuid.New(), Amount: in.Amount, Date: in.Date}
	u.Payments = append(u.Payments, p)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	s.logger.Info("payment recorded",
		slog.String("building_id", buildingID.String()),
		slog.String("unit", u.Label()),
		slog.String("amount", money.Format(p.Amount)))
	return &p, nil
}

// UpdateAccount replaces the unit's manual worksheet fields wholesale. Nil
// pointer fields mean "derive from policy", which is distinct from an
// explicit zero override.
func (s *Service) UpdateAccount(ctx context.Context, buildingID, unitID uuid.UUID, in consortium.AccountState) (*consortium.Unit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	u, err := b.FindUnit(unitID)
	if err != nil {
		return nil, err
	}
	u.Account = in
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return u, nil
}

// CoefficientSummary reports the coefficient total and whether it deviates
// from 1 beyond epsilon. Deviation is surfaced, never corrected.
func (s *Service) CoefficientSummary(ctx context.Context, buildingID uuid.UUID, epsilon decimal.Decimal) (decimal.Decimal, bool, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	total := TotalCoefficient(b.Units)
	ok := total.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(epsilon)
	return total, ok, nil
}
