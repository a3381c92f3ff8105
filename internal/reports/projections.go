package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/expenses"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
	"github.com/consorcia/consorcia/internal/units"
)

// MonthIncome sums every unit payment that falls inside the period.
func MonthIncome(b *consortium.Building, period shared.Period) money.Money {
	var total money.Money
	for _, u := range b.Units {
		total += units.PaidInPeriod(u, period)
	}
	return total
}

// IncomeDelta compares one period's collections against the previous month.
type IncomeDelta struct {
	Period   string      `json:"period"`
	Current  money.Money `json:"current"`
	Previous money.Money `json:"previous"`
	Delta    money.Money `json:"delta"`
}

// MonthOverMonthIncome computes the income delta against the prior month.
func MonthOverMonthIncome(b *consortium.Building, period shared.Period) IncomeDelta {
	prev := shared.Period{Month: period.Month - 1, Year: period.Year}
	if period.Month == time.January {
		prev = shared.Period{Month: time.December, Year: period.Year - 1}
	}
	current := MonthIncome(b, period)
	previous := MonthIncome(b, prev)
	return IncomeDelta{
		Period:   period.Label(),
		Current:  current,
		Previous: previous,
		Delta:    current - previous,
	}
}

// BalancePoint is one step of a bank-style running balance.
type BalancePoint struct {
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`
	Amount      money.Money `json:"amount"`
	Balance     money.Money `json:"balance"`
}

// RunningBalance folds the bank transactions, sorted by date, into a
// cumulative balance starting from the sum of account initial balances.
// Credits add, debits subtract. Empty inputs return an empty slice.
func RunningBalance(accounts []consortium.BankAccount, transactions []consortium.BankTransaction) []BalancePoint {
	var balance money.Money
	for _, acc := range accounts {
		balance += acc.InitialBalance
	}
	sorted := append([]consortium.BankTransaction(nil), transactions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	out := make([]BalancePoint, 0, len(sorted))
	for _, tx := range sorted {
		if tx.Type == consortium.TransactionCredit {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
		out = append(out, BalancePoint{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount,
			Balance:     balance,
		})
	}
	return out
}

// Dashboard is the aggregate header view for one building and period.
type Dashboard struct {
	BuildingID       string                            `json:"buildingId"`
	Period           string                            `json:"period"`
	PeriodExpenses   money.Money                       `json:"periodExpenses"`
	PeriodCollected  money.Money                       `json:"periodCollected"`
	CollectionRate   decimal.Decimal                   `json:"collectionRate"`
	PendingApproval  int                               `json:"pendingApproval"`
	TotalUnits       int                               `json:"totalUnits"`
	DelinquentUnits  int                               `json:"delinquentUnits"`
	CoefficientSum   decimal.Decimal                   `json:"coefficientSum"`
	ClosedPeriods    int                               `json:"closedPeriods"`
	Categories       map[string]expenses.CategoryTotal `json:"categories"`
	Rubrics          map[string]expenses.CategoryTotal `json:"rubrics"`
}

// BuildDashboard computes the dashboard projection without mutating state.
func BuildDashboard(b *consortium.Building, period shared.Period, classifier *Classifier) Dashboard {
	periodExpenses := expenses.InPeriod(b.Expenses, period, true)
	var total money.Money
	for _, e := range periodExpenses {
		total += e.Amount
	}
	collected := MonthIncome(b, period)
	rate := decimal.Zero
	if total > 0 {
		rate = collected.Decimal().Div(total.Decimal()).Round(4)
	}
	pending := 0
	for _, e := range b.Expenses {
		if e.Status == consortium.ExpensePending {
			pending++
		}
	}
	delinquent := 0
	for _, u := range b.Units {
		if u.Account.Debt > 0 {
			delinquent++
		}
	}
	return Dashboard{
		BuildingID:      b.ID.String(),
		Period:          period.Label(),
		PeriodExpenses:  total,
		PeriodCollected: collected,
		CollectionRate:  rate,
		PendingApproval: pending,
		TotalUnits:      len(b.Units),
		DelinquentUnits: delinquent,
		CoefficientSum:  units.TotalCoefficient(b.Units),
		ClosedPeriods:   len(b.Liquidations),
		Categories:      expenses.Categorize(periodExpenses),
		Rubrics:         classifier.RubricBreakdown(periodExpenses),
	}
}
