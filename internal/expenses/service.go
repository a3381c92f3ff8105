package expenses

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// ExpenseInput carries the writable fields of an expense.
type ExpenseInput struct {
	Description string      `json:"description" validate:"required"`
	Amount      money.Money `json:"amount" validate:"gt=0"`
	Date        time.Time   `json:"date" validate:"required"`
	Category    string      `json:"category"`
	Paid        bool        `json:"paid"`
	ReceiptRef  string      `json:"receiptRef"`
	Notes       string      `json:"notes"`
}

// Service mutates the expense set of a building aggregate.
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

func (in ExpenseInput) toExpense(id uuid.UUID, status consortium.ExpenseStatus) consortium.Expense {
	return consortium.Expense{
		ID:          id,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    strings.TrimSpace(in.Category),
		Paid:        in.Paid,
		Status:      status,
		ReceiptRef:  strings.TrimSpace(in.ReceiptRef),
		Notes:       strings.TrimSpace(in.Notes),
	}
}

// Add appends an administrator-entered expense. Records entered directly by
// the administrator are trusted and stored as approved.
func (s *Service) Add(ctx context.Context, buildingID uuid.UUID, in ExpenseInput) (*consortium.Expense, error) {
	return s.add(ctx, buildingID, in, consortium.ExpenseApproved)
}

// SubmitProvider appends an externally submitted expense. The status is
// forced to pending regardless of the caller's input; external submitters
// cannot approve.
func (s *Service) SubmitProvider(ctx context.Context, buildingID uuid.UUID, in ExpenseInput) (*consortium.Expense, error) {
	return s.add(ctx, buildingID, in, consortium.ExpensePending)
}

func (s *Service) add(ctx context.Context, buildingID uuid.UUID, in ExpenseInput, status consortium.ExpenseStatus) (*consortium.Expense, error) {
	e := in.toExpense(uuid.New(), status)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	b.Expenses = append(b.Expenses, e)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	s.logger.Info("expense added",
		slog.String("building_id", buildingID.String()),
		slog.String("expense_id", e.ID.String()),
		slog.String("status", string(status)))
	return &e, nil
}

// Update replaces the writable fields of an existing expense. The approval
// status is not touched here; pending stays pending until Approve.
func (s *Service) Update(ctx context.Context, buildingID, expenseID uuid.UUID, in ExpenseInput) (*consortium.Expense, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	existing, err := b.FindExpense(expenseID)
	if err != nil {
		return nil, err
	}
	updated := in.toExpense(expenseID, existing.Status)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	*existing = updated
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return existing, nil
}

// Remove deletes an expense. Rejecting a pending provider submission is this
// same delete; there is no rejected status.
func (s *Service) Remove(ctx context.Context, buildingID, expenseID uuid.UUID) error {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return err
	}
	idx := -1
	for i := range b.Expenses {
		if b.Expenses[i].ID == expenseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.ErrNotFound
	}
	b.Expenses = append(b.Expenses[:idx], b.Expenses[idx+1:]...)
	if err := s.repo.Save(ctx, b); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// BulkReplace swaps the whole expense set, validating every record. Used by
// the spreadsheet import path; imported records get fresh ids and are stored
// approved like any other administrator entry.
func (s *Service) BulkReplace(ctx context.Context, buildingID uuid.UUID, inputs []ExpenseInput) ([]consortium.Expense, error) {
	replacement := make([]consortium.Expense, 0, len(inputs))
	for _, in := range inputs {
		e := in.toExpense(uuid.New(), consortium.ExpenseApproved)
		if err := e.Validate(); err != nil {
			return nil, err
		}
		replacement = append(replacement, e)
	}
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	b.Expenses = replacement
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	s.logger.Info("expenses replaced",
		slog.String("building_id", buildingID.String()),
		slog.Int("count", len(replacement)))
	return replacement, nil
}

// Approve transitions a pending expense to approved. Approving an already
// approved expense is a conflict, keeping the transition one-way.
func (s *Service) Approve(ctx context.Context, buildingID, expenseID uuid.UUID) (*consortium.Expense, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	e, err := b.FindExpense(expenseID)
	if err != nil {
		return nil, err
	}
	if e.Status == consortium.ExpenseApproved {
		return nil, shared.ErrConflict
	}
	e.Status = consortium.ExpenseApproved
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	s.logger.Info("expense approved",
		slog.String("building_id", buildingID.String()),
		slog.String("expense_id", expenseID.String()))
	return e, nil
}

// ListPeriod returns a period's expenses; the unfiltered variant backs the
// pending-review listing while approvedOnly backs everything settlement-facing.
func (s *Service) ListPeriod(ctx context.Context, buildingID uuid.UUID, period shared.Period, approvedOnly bool) ([]consortium.Expense, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	return InPeriod(b.Expenses, period, approvedOnly), nil
}

// TotalPeriod returns the approved expense total for one period.
func (s *Service) TotalPeriod(ctx context.Context, buildingID uuid.UUID, period shared.Period) (money.Money, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return 0, err
	}
	return TotalForPeriod(b.Expenses, period), nil
}
