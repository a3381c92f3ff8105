package reports

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

func paidUnit(cents int64, date time.Time) consortium.Unit {
	return consortium.Unit{
		ID:          uuid.New(),
		Floor:       "1",
		Department:  "A",
		Owner:       "Propietaria",
		Coefficient: decimal.RequireFromString("0.5"),
		Payments: []consortium.Payment{
			{ID: uuid.New(), Amount: money.FromCents(cents), Date: date},
		},
	}
}

func TestMonthOverMonthIncome(t *testing.T) {
	b := &consortium.Building{
		ID:   uuid.New(),
		Name: "Edificio Test",
		Units: []consortium.Unit{
			paidUnit(30000, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
			paidUnit(10000, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)),
		},
	}
	delta := MonthOverMonthIncome(b, shared.Period{Month: time.March, Year: 2025})
	require.Equal(t, money.Money(30000), delta.Current)
	require.Equal(t, money.Money(10000), delta.Previous)
	require.Equal(t, money.Money(20000), delta.Delta)
	require.Equal(t, "Marzo 2025", delta.Period)
}

func TestMonthOverMonthIncomeJanuaryWrapsToPriorYear(t *testing.T) {
	b := &consortium.Building{
		ID:   uuid.New(),
		Name: "Edificio Test",
		Units: []consortium.Unit{
			paidUnit(5000, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
			paidUnit(7000, time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)),
		},
	}
	delta := MonthOverMonthIncome(b, shared.Period{Month: time.January, Year: 2025})
	require.Equal(t, money.Money(5000), delta.Current)
	require.Equal(t, money.Money(7000), delta.Previous)
	require.Equal(t, money.Money(-2000), delta.Delta)
}

func TestRunningBalance(t *testing.T) {
	accID := uuid.New()
	accounts := []consortium.BankAccount{
		{ID: accID, BankName: "Banco Nación", InitialBalance: money.FromCents(100000)},
	}
	transactions := []consortium.BankTransaction{
		{
			ID: uuid.New(), AccountID: accID,
			Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Description: "pago proveedor",
			Type:        consortium.TransactionDebit,
			Amount:      money.FromCents(30000),
		},
		{
			ID: uuid.New(), AccountID: accID,
			Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Description: "depósito expensas",
			Type:        consortium.TransactionCredit,
			Amount:      money.FromCents(50000),
		},
	}
	points := RunningBalance(accounts, transactions)
	require.Len(t, points, 2)
	// Sorted by date: the deposit first, then the supplier payment.
	require.Equal(t, "depósito expensas", points[0].Description)
	require.Equal(t, money.Money(150000), points[0].Balance)
	require.Equal(t, money.Money(120000), points[1].Balance)
}

func TestRunningBalanceEmpty(t *testing.T) {
	require.Empty(t, RunningBalance(nil, nil))
}

func TestBuildDashboard(t *testing.T) {
	b := &consortium.Building{
		ID:   uuid.New(),
		Name: "Edificio Test",
		Units: []consortium.Unit{
			paidUnit(40000, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
			{
				ID: uuid.New(), Floor: "1", Department: "B",
				Owner:       "Deudor",
				Coefficient: decimal.RequireFromString("0.5"),
				Account:     consortium.AccountState{Debt: money.FromCents(10000)},
			},
		},
		Expenses: []consortium.Expense{
			{
				ID: uuid.New(), Description: "sueldos marzo",
				Amount:   money.FromCents(80000),
				Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Category: "sueldos",
				Status:   consortium.ExpenseApproved,
			},
			{
				ID: uuid.New(), Description: "pendiente proveedor",
				Amount:   money.FromCents(999),
				Date:     time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
				Category: "otros",
				Status:   consortium.ExpensePending,
			},
		},
		Liquidations: []consortium.Liquidation{{ID: uuid.New(), Month: time.February, Year: 2025}},
	}

	dash := BuildDashboard(b, shared.Period{Month: time.March, Year: 2025}, NewClassifier(nil))
	require.Equal(t, money.Money(80000), dash.PeriodExpenses)
	require.Equal(t, money.Money(40000), dash.PeriodCollected)
	require.True(t, dash.CollectionRate.Equal(decimal.RequireFromString("0.5")))
	require.Equal(t, 1, dash.PendingApproval)
	require.Equal(t, 2, dash.TotalUnits)
	require.Equal(t, 1, dash.DelinquentUnits)
	require.Equal(t, 1, dash.ClosedPeriods)
	require.True(t, dash.CoefficientSum.Equal(decimal.NewFromInt(1)))
	require.Equal(t, money.Money(80000), dash.Categories["sueldos"].Total)
	require.Equal(t, money.Money(80000), dash.Rubrics["sueldos"].Total)
}
