package settlement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

func march() shared.Period {
	return shared.Period{Month: time.March, Year: 2025}
}

func approvedExpense(amount money.Money) consortium.Expense {
	return consortium.Expense{
		ID:          uuid.New(),
		Description: "Expensas del mes",
		Amount:      amount,
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:      consortium.ExpenseApproved,
	}
}

func unit(label string, coeff string) consortium.Unit {
	return consortium.Unit{
		ID:          uuid.New(),
		Floor:       "1",
		Department:  label,
		Owner:       "Propietario " + label,
		Coefficient: decimal.RequireFromString(coeff),
	}
}

func threeUnitBuilding() *consortium.Building {
	return &consortium.Building{
		ID:   uuid.New(),
		Name: "Edificio Test",
		Units: []consortium.Unit{
			unit("A", "0.3333"),
			unit("B", "0.3333"),
			unit("C", "0.3334"),
		},
		Expenses: []consortium.Expense{approvedExpense(money.FromCents(100000))},
	}
}

func TestComputeLiveProratesExactly(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	view := engine.ComputeLive(threeUnitBuilding(), march())

	require.Equal(t, money.Money(100000), view.TotalExpenses)
	require.Len(t, view.Rows, 3)
	require.Equal(t, money.Money(33330), view.Rows[0].OrdinaryShare)
	require.Equal(t, money.Money(33330), view.Rows[1].OrdinaryShare)
	require.Equal(t, money.Money(33340), view.Rows[2].OrdinaryShare)
	require.Equal(t, view.TotalExpenses, view.Totals.OrdinaryShare)
	require.True(t, view.CoefficientOK)
	require.True(t, view.CoefficientSum.Equal(decimal.NewFromInt(1)))
}

func TestComputeLiveIsIdempotent(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := threeUnitBuilding()
	first := engine.ComputeLive(b, march())
	second := engine.ComputeLive(b, march())
	require.Equal(t, first.Totals, second.Totals)
	require.Equal(t, first.Rows, second.Rows)
}

func TestComputeLiveInterestOnDebt(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := threeUnitBuilding()
	b.Units[0].Account.Debt = money.FromCents(50000)

	view := engine.ComputeLive(b, march())
	row := view.Rows[0]
	// 3% of $500.00 is $15.00.
	require.Equal(t, money.Money(1500), row.Interest)
	require.Equal(t, money.Money(50000+1500+33330), row.TotalDue)

	// Units without debt accrue nothing.
	require.True(t, view.Rows[1].Interest.IsZero())
}

func TestComputeLiveExplicitOverridesWin(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := threeUnitBuilding()
	zero := money.Zero
	override := money.FromCents(12345)
	b.Units[0].Account.Debt = money.FromCents(50000)
	// An explicit zero interest beats the derived 3%.
	b.Units[0].Account.Interest = &zero
	b.Units[1].Account.OrdinaryDueNext = &override

	view := engine.ComputeLive(b, march())
	require.True(t, view.Rows[0].Interest.IsZero())
	require.Equal(t, money.Money(12345), view.Rows[1].OrdinaryDue)
	// The raw prorated share is still reported alongside the override.
	require.Equal(t, money.Money(33330), view.Rows[1].OrdinaryShare)
}

func TestComputeLivePaymentStatus(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := threeUnitBuilding()
	pay := func(i int, cents int64) {
		b.Units[i].Payments = append(b.Units[i].Payments, consortium.Payment{
			ID:     uuid.New(),
			Amount: money.FromCents(cents),
			Date:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		})
	}
	pay(0, 33330) // exact
	pay(1, 10000) // partial

	view := engine.ComputeLive(b, march())
	require.Equal(t, consortium.StatusPaid, view.Rows[0].Status)
	require.Equal(t, consortium.StatusPartial, view.Rows[1].Status)
	require.Equal(t, consortium.StatusPending, view.Rows[2].Status)

	require.True(t, view.Rows[0].SuggestedDebt.IsZero())
	require.Equal(t, money.Money(23330), view.Rows[1].SuggestedDebt)
	require.Equal(t, money.Money(33340), view.Rows[2].SuggestedDebt)
}

func TestComputeLiveZeroDueIsNeverPending(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := &consortium.Building{
		ID:    uuid.New(),
		Name:  "Edificio Vacío",
		Units: []consortium.Unit{unit("A", "1")},
	}
	view := engine.ComputeLive(b, march())
	require.True(t, view.TotalExpenses.IsZero())
	require.Equal(t, consortium.StatusPaid, view.Rows[0].Status)
	require.True(t, view.CollectionRate.IsZero())
}

func TestComputeLiveExcludesPendingExpenses(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := threeUnitBuilding()
	pending := approvedExpense(money.FromCents(50000))
	pending.Status = consortium.ExpensePending
	b.Expenses = append(b.Expenses, pending)

	view := engine.ComputeLive(b, march())
	require.Equal(t, money.Money(100000), view.TotalExpenses)
}

func TestComputeLiveCoefficientDriftFlag(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := &consortium.Building{
		ID:   uuid.New(),
		Name: "Edificio Incompleto",
		Units: []consortium.Unit{
			unit("A", "0.5"),
			unit("B", "0.4"),
		},
		Expenses: []consortium.Expense{approvedExpense(money.FromCents(100000))},
	}
	view := engine.ComputeLive(b, march())
	require.False(t, view.CoefficientOK)
	require.True(t, view.CoefficientSum.Equal(decimal.RequireFromString("0.9")))
	// Shares track the declared coefficients, not a renormalized split.
	require.Equal(t, money.Money(50000), view.Rows[0].OrdinaryShare)
	require.Equal(t, money.Money(40000), view.Rows[1].OrdinaryShare)
}

func TestComputeLiveCollectionRateAndBalance(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	b := threeUnitBuilding()
	b.Units[0].Payments = []consortium.Payment{{
		ID:     uuid.New(),
		Amount: money.FromCents(50000),
		Date:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}}
	view := engine.ComputeLive(b, march())
	require.Equal(t, money.Money(50000), view.PeriodCollected)
	require.Equal(t, money.Money(-50000), view.FinancialBalance)
	require.True(t, view.CollectionRate.Equal(decimal.RequireFromString("0.5")))
}

func TestNewEngineZeroPolicyFallsBack(t *testing.T) {
	engine := NewEngine(Policy{})
	require.True(t, engine.Policy().InterestRate.Equal(decimal.RequireFromString("0.03")))
	require.True(t, engine.Policy().CoefficientEpsilon.Equal(decimal.RequireFromString("0.001")))
}
