// Package settlement implements the proration engine: the live computation
// of what every unit owes for a period, and the close-month operation that
// freezes that computation into the immutable liquidation archive.
package settlement

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// ErrAlreadyClosed rejects closing a period that already has a liquidation.
var ErrAlreadyClosed = fmt.Errorf("settlement: period already closed: %w", shared.ErrConflict)

// ErrEmptyPeriod rejects closing a period with no approved expenses.
var ErrEmptyPeriod = shared.NewValidationError("period", "cannot close a period without expenses")

// Policy holds the tunable constants of the engine.
type Policy struct {
	// InterestRate is applied to carried debt when no explicit interest
	// override is set on the unit.
	InterestRate decimal.Decimal
	// CoefficientEpsilon bounds the tolerated drift of the coefficient sum
	// around 1 before the integrity flag is raised.
	CoefficientEpsilon decimal.Decimal
}

// DefaultPolicy returns the 3% interest / 0.001 epsilon defaults.
func DefaultPolicy() Policy {
	return Policy{
		InterestRate:       decimal.New(3, -2),
		CoefficientEpsilon: decimal.New(1, -3),
	}
}

// UnitRow is one unit's line in a settlement view.
type UnitRow struct {
	UnitID           uuid.UUID       `json:"unitId"`
	Label            string          `json:"pisoDepto"`
	Owner            string          `json:"owner"`
	Coefficient      decimal.Decimal `json:"coefficient"`
	PreviousBalance  money.Money     `json:"previousBalance"`
	Debt             money.Money     `json:"debt"`
	Interest         money.Money     `json:"interest"`
	OrdinaryShare    money.Money     `json:"ordinaryShare"`
	OrdinaryDue      money.Money     `json:"ordinaryDue"`
	ExtraordinaryDue money.Money     `json:"extraordinaryDue"`
	UtilityDue       money.Money     `json:"utilityDue"`
	TotalDue         money.Money     `json:"totalDue"`
	PaidThisPeriod   money.Money     `json:"paidThisPeriod"`
	// SuggestedDebt is the computed carry-forward hint; the stored debt
	// field stays under manual control.
	SuggestedDebt money.Money              `json:"suggestedDebt"`
	Status        consortium.PaymentStatus `json:"status"`
}

// Totals is the consolidated row: field-wise sums across all units plus the
// coefficient sum for the integrity check.
type Totals struct {
	Coefficient      decimal.Decimal `json:"coefficient"`
	PreviousBalance  money.Money     `json:"previousBalance"`
	Debt             money.Money     `json:"debt"`
	Interest         money.Money     `json:"interest"`
	OrdinaryShare    money.Money     `json:"ordinaryShare"`
	OrdinaryDue      money.Money     `json:"ordinaryDue"`
	ExtraordinaryDue money.Money     `json:"extraordinaryDue"`
	UtilityDue       money.Money     `json:"utilityDue"`
	TotalDue         money.Money     `json:"totalDue"`
	PaidThisPeriod   money.Money     `json:"paidThisPeriod"`
}

// View is the full live settlement of one building and period.
type View struct {
	BuildingID     uuid.UUID       `json:"buildingId"`
	Period         shared.Period   `json:"period"`
	PeriodLabel    string          `json:"periodLabel"`
	TotalExpenses  money.Money     `json:"totalExpenses"`
	Rows           []UnitRow       `json:"rows"`
	Totals         Totals          `json:"totals"`
	CoefficientSum decimal.Decimal `json:"coefficientSum"`
	// CoefficientOK is false when the coefficient sum drifts from 1 beyond
	// epsilon. The computation still succeeds; callers render the warning.
	CoefficientOK   bool        `json:"coefficientOk"`
	PeriodCollected money.Money `json:"periodCollected"`
	// CollectionRate is periodCollected / totalExpenses as a 0-1 ratio,
	// zero when the period has no expenses.
	CollectionRate   decimal.Decimal `json:"collectionRate"`
	FinancialBalance money.Money     `json:"financialBalance"`
}
