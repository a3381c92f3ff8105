package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/expenses"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
	"github.com/consorcia/consorcia/internal/units"
)

// Engine is the pure proration computation. It never mutates its input; the
// same snapshot always yields the same view.
type Engine struct {
	policy Policy
}

// NewEngine constructs an Engine with the given policy.
func NewEngine(policy Policy) *Engine {
	if policy.InterestRate.IsZero() && policy.CoefficientEpsilon.IsZero() {
		policy = DefaultPolicy()
	}
	return &Engine{policy: policy}
}

// Policy returns the engine's active policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// ComputeLive prorates the period's approved expense total across the
// building's units and merges each unit's manual account state into a total
// due. A period with no expenses is valid: shares collapse to zero and total
// due reduces to debt plus interest plus explicit sub-ledger overrides.
func (e *Engine) ComputeLive(b *consortium.Building, period shared.Period) View {
	one := decimal.NewFromInt(1)
	totalExpenses := expenses.TotalForPeriod(b.Expenses, period)

	coefficients := make([]decimal.Decimal, len(b.Units))
	for i, u := range b.Units {
		coefficients[i] = u.Coefficient
	}
	shares := money.Prorate(totalExpenses, coefficients)

	view := View{
		BuildingID:    b.ID,
		Period:        period,
		PeriodLabel:   period.Label(),
		TotalExpenses: totalExpenses,
		Rows:          make([]UnitRow, 0, len(b.Units)),
	}

	for i, u := range b.Units {
		debt := u.Account.Debt
		interest := derive(u.Account.Interest, e.interestOn(debt))
		ordinaryDue := derive(u.Account.OrdinaryDueNext, shares[i])
		extraordinaryDue := derive(u.Account.ExtraordinaryDueNext, money.Zero)
		utilityDue := derive(u.Account.UtilityDueNext, money.Zero)
		totalDue := debt + interest + ordinaryDue + extraordinaryDue + utilityDue
		paid := units.PaidInPeriod(u, period)

		row := UnitRow{
			UnitID:           u.ID,
			Label:            u.Label(),
			Owner:            u.Owner,
			Coefficient:      u.Coefficient,
			PreviousBalance:  u.Account.PreviousBalance,
			Debt:             debt,
			Interest:         interest,
			OrdinaryShare:    shares[i],
			OrdinaryDue:      ordinaryDue,
			ExtraordinaryDue: extraordinaryDue,
			UtilityDue:       utilityDue,
			TotalDue:         totalDue,
			PaidThisPeriod:   paid,
			SuggestedDebt:    suggestedDebt(totalDue, paid),
			Status:           paymentStatus(totalDue, paid),
		}
		view.Rows = append(view.Rows, row)

		view.Totals.Coefficient = view.Totals.Coefficient.Add(u.Coefficient)
		view.Totals.PreviousBalance += row.PreviousBalance
		view.Totals.Debt += row.Debt
		view.Totals.Interest += row.Interest
		view.Totals.OrdinaryShare += row.OrdinaryShare
		view.Totals.OrdinaryDue += row.OrdinaryDue
		view.Totals.ExtraordinaryDue += row.ExtraordinaryDue
		view.Totals.UtilityDue += row.UtilityDue
		view.Totals.TotalDue += row.TotalDue
		view.Totals.PaidThisPeriod += row.PaidThisPeriod
	}

	view.CoefficientSum = view.Totals.Coefficient
	view.CoefficientOK = view.CoefficientSum.Sub(one).Abs().
		LessThanOrEqual(e.policy.CoefficientEpsilon)
	view.PeriodCollected = view.Totals.PaidThisPeriod
	view.FinancialBalance = view.PeriodCollected - totalExpenses
	if totalExpenses > 0 {
		view.CollectionRate = view.PeriodCollected.Decimal().
			Div(totalExpenses.Decimal()).Round(4)
	} else {
		view.CollectionRate = decimal.Zero
	}
	return view
}

func (e *Engine) interestOn(debt money.Money) money.Money {
	if debt <= 0 {
		return money.Zero
	}
	return money.FromDecimal(debt.Decimal().Mul(e.policy.InterestRate))
}

// derive resolves an override-or-formula field: a non-nil override wins even
// when it is an explicit zero.
func derive(override *money.Money, fallback money.Money) money.Money {
	if override != nil {
		return *override
	}
	return fallback
}

// paymentStatus derives the collection state. A unit owing nothing is never
// pending; it is trivially paid.
func paymentStatus(totalDue, paid money.Money) consortium.PaymentStatus {
	if totalDue <= 0 {
		return consortium.StatusPaid
	}
	switch {
	case paid >= totalDue:
		return consortium.StatusPaid
	case paid > 0:
		return consortium.StatusPartial
	default:
		return consortium.StatusPending
	}
}

func suggestedDebt(totalDue, paid money.Money) money.Money {
	if paid >= totalDue {
		return money.Zero
	}
	return totalDue - paid
}
