package consortium

import "github.com/consorcia/consorcia/internal/money"

// Clone returns a deep copy of the aggregate. Readers work on clones so a
// long-running projection never observes a half-applied mutation.
func (b *Building) Clone() *Building {
	if b == nil {
		return nil
	}
	out := *b
	out.Categories = append([]string(nil), b.Categories...)
	out.Units = make([]Unit, len(b.Units))
	for i, u := range b.Units {
		out.Units[i] = u.clone()
	}
	out.Expenses = append([]Expense(nil), b.Expenses...)
	out.Events = append([]CalendarEvent(nil), b.Events...)
	out.BankAccounts = append([]BankAccount(nil), b.BankAccounts...)
	out.BankTransactions = append([]BankTransaction(nil), b.BankTransactions...)
	out.Cheques = append([]Cheque(nil), b.Cheques...)
	out.CashAudits = append([]CashAudit(nil), b.CashAudits...)
	out.Liquidations = make([]Liquidation, len(b.Liquidations))
	for i, l := range b.Liquidations {
		out.Liquidations[i] = l
		out.Liquidations[i].Units = append([]LiquidationUnit(nil), l.Units...)
	}
	out.ReportedPayments = append([]ReportedPayment(nil), b.ReportedPayments...)
	return &out
}

func (u Unit) clone() Unit {
	out := u
	out.Payments = append([]Payment(nil), u.Payments...)
	out.Account = u.Account.clone()
	return out
}

func (a AccountState) clone() AccountState {
	out := a
	out.Interest = cloneMoney(a.Interest)
	out.OrdinaryDueNext = cloneMoney(a.OrdinaryDueNext)
	out.ExtraordinaryDueNext = cloneMoney(a.ExtraordinaryDueNext)
	out.UtilityDueNext = cloneMoney(a.UtilityDueNext)
	return out
}

func cloneMoney(m *money.Money) *money.Money {
	if m == nil {
		return nil
	}
	v := *m
	return &v
}
