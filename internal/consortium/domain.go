package consortium

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// NoOwner is the sentinel owner name for units without a registered owner.
const NoOwner = "Sin Propietario"

// ExpenseStatus tracks the approval state of an expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
)

// PaymentStatus is the derived collection state of a unit for one period.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPartial PaymentStatus = "partial"
	StatusPending PaymentStatus = "pending"
)

// EventType classifies calendar entries.
type EventType string

const (
	EventMeeting    EventType = "meeting"
	EventPayment    EventType = "payment"
	EventCollection EventType = "collection"
	EventOther      EventType = "other"
)

// TransactionType distinguishes bank movements.
type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

// ReportStatus tracks the administrator's verdict on a payment claim.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportApproved ReportStatus = "approved"
	ReportRejected ReportStatus = "rejected"
)

// ChequeStatus tracks the lifecycle of a cheque.
type ChequeStatus string

const (
	ChequePending   ChequeStatus = "pending"
	ChequeCleared   ChequeStatus = "cleared"
	ChequeRejected  ChequeStatus = "rejected"
	ChequeCancelled ChequeStatus = "cancelled"
)

// Payment is one collected amount for a unit. The list is append-only;
// storage keeps insertion order and computations re-sort by date.
type Payment struct {
	ID     uuid.UUID   `json:"id"`
	Amount money.Money `json:"amount"`
	Date   time.Time   `json:"date"`
}

// AccountState carries the manual worksheet fields of a unit. Pointer fields
// distinguish "not set, derive from policy" (nil) from an explicit zero.
type AccountState struct {
	PreviousBalance money.Money `json:"previousBalance"`
	Debt            money.Money `json:"debt"`
	// Interest overrides the policy-derived interest on Debt when set.
	Interest          *money.Money `json:"interest,omitempty"`
	OrdinaryPaid      money.Money  `json:"ordinaryPaid"`
	ExtraordinaryPaid money.Money  `json:"extraordinaryPaid"`
	UtilityPaid       money.Money  `json:"utilityPaid"`
	// OrdinaryDueNext overrides the prorated share when set.
	OrdinaryDueNext      *money.Money `json:"ordinaryDueNext,omitempty"`
	ExtraordinaryDueNext *money.Money `json:"extraordinaryDueNext,omitempty"`
	UtilityDueNext       *money.Money `json:"utilityDueNext,omitempty"`
}

// Validate rejects negative worksheet amounts.
func (a AccountState) Validate() error {
	fields := map[string]money.Money{
		"previousBalance":   a.PreviousBalance,
		"debt":              a.Debt,
		"ordinaryPaid":      a.OrdinaryPaid,
		"extraordinaryPaid": a.ExtraordinaryPaid,
		"utilityPaid":       a.UtilityPaid,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return shared.NewValidationError(name, "amount cannot be negative")
		}
	}
	for name, v := range map[string]*money.Money{
		"interest":             a.Interest,
		"ordinaryDueNext":      a.OrdinaryDueNext,
		"extraordinaryDueNext": a.ExtraordinaryDueNext,
		"utilityDueNext":       a.UtilityDueNext,
	} {
		if v != nil && v.IsNegative() {
			return shared.NewValidationError(name, "amount cannot be negative")
		}
	}
	return nil
}

// Unit is a functionally independent part of the building.
type Unit struct {
	ID          uuid.UUID       `json:"id"`
	Floor       string          `json:"floor"`
	Department  string          `json:"department"`
	Owner       string          `json:"owner"`
	Coefficient decimal.Decimal `json:"coefficient"`
	Account     AccountState    `json:"account"`
	Payments    []Payment       `json:"payments,omitempty"`
}

// Label is the display key: floor plus department.
func (u Unit) Label() string {
	return u.Floor + u.Department
}

// Validate enforces unit invariants at the ledger boundary.
func (u Unit) Validate() error {
	if strings.TrimSpace(u.Floor) == "" && strings.TrimSpace(u.Department) == "" {
		return shared.NewValidationError("floor", "floor or department required")
	}
	if u.Coefficient.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("coefficient", "must be greater than zero")
	}
	if u.Coefficient.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewValidationError("coefficient", "must not exceed 1")
	}
	return u.Account.Validate()
}

// Expense is one dated, categorized outflow of the building.
type Expense struct {
	ID          uuid.UUID     `json:"id"`
	Description string        `json:"description"`
	Amount      money.Money   `json:"amount"`
	Date        time.Time     `json:"date"`
	Category    string        `json:"category"`
	Paid        bool          `json:"paid"`
	Status      ExpenseStatus `json:"status"`
	ReceiptRef  string        `json:"receiptRef,omitempty"`
	Notes       string        `json:"notes,omitempty"`
}

// Validate enforces expense invariants.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return shared.NewValidationError("description", "required")
	}
	if e.Amount <= 0 {
		return shared.NewValidationError("amount", "must be greater than zero")
	}
	if e.Date.IsZero() {
		return shared.NewValidationError("date", "required")
	}
	switch e.Status {
	case ExpensePending, ExpenseApproved:
	default:
		return shared.NewValidationError("status", "must be pending or approved")
	}
	return nil
}

// CalendarEvent is an administrative calendar entry.
type CalendarEvent struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
	Type  EventType `json:"type"`
	Notes string    `json:"notes,omitempty"`
}

// BankAccount is a bank account operated for the building.
type BankAccount struct {
	ID                  uuid.UUID   `json:"id"`
	BankName            string      `json:"bankName"`
	AccountNumber       string      `json:"accountNumber"`
	FantasyName         string      `json:"fantasyName,omitempty"`
	BusinessName        string      `json:"businessName,omitempty"`
	OwnerFullName       string      `json:"ownerFullName,omitempty"`
	InitialBalance      money.Money `json:"initialBalance"`
	LowBalanceThreshold money.Money `json:"lowBalanceThreshold,omitempty"`
}

// BankTransaction is one reconciled bank movement.
type BankTransaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Amount      money.Money     `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	EntityName  string          `json:"entityName,omitempty"`
}

// Cheque is a received or issued cheque under reconciliation.
type Cheque struct {
	ID         uuid.UUID    `json:"id"`
	Number     string       `json:"number"`
	Bank       string       `json:"bank"`
	Amount     money.Money  `json:"amount"`
	IssueDate  time.Time    `json:"issueDate"`
	DueDate    time.Time    `json:"dueDate"`
	EntityName string       `json:"entityName"`
	Issued     bool         `json:"issued"`
	Status     ChequeStatus `json:"status"`
	Notes      string       `json:"notes,omitempty"`
}

// CashAudit records a petty-cash count against the calculated amount.
type CashAudit struct {
	ID               uuid.UUID   `json:"id"`
	Date             time.Time   `json:"date"`
	CalculatedAmount money.Money `json:"calculatedAmount"`
	FoundAmount      money.Money `json:"foundAmount"`
	Responsible      string      `json:"responsible"`
	Notes            string      `json:"notes,omitempty"`
}

// ReportedPayment is a payment claim submitted through the neighbor portal,
// waiting for the administrator to verify it against bank data. Verification
// records a Payment on the unit; the claim itself is never a payment.
type ReportedPayment struct {
	ID            uuid.UUID    `json:"id"`
	UnitID        uuid.UUID    `json:"unitId"`
	Amount        money.Money  `json:"amount"`
	Date          time.Time    `json:"date"`
	VoucherNumber string       `json:"voucherNumber,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Status        ReportStatus `json:"status"`
}

// Validate enforces payment-claim invariants.
func (p ReportedPayment) Validate() error {
	if p.UnitID == uuid.Nil {
		return shared.NewValidationError("unitId", "required")
	}
	if p.Amount <= 0 {
		return shared.NewValidationError("amount", "must be greater than zero")
	}
	if p.Date.IsZero() {
		return shared.NewValidationError("date", "required")
	}
	switch p.Status {
	case ReportPending, ReportApproved, ReportRejected:
	default:
		return shared.NewValidationError("status", "must be pending, approved or rejected")
	}
	return nil
}

// LiquidationUnit is the frozen per-unit row of an archived settlement.
type LiquidationUnit struct {
	UnitID    uuid.UUID     `json:"unitId"`
	Owner     string        `json:"owner"`
	Label     string        `json:"pisoDepto"`
	AmountDue money.Money   `json:"amount"`
	Status    PaymentStatus `json:"paidStatus"`
}

// Liquidation is the immutable archive record of one closed period.
type Liquidation struct {
	ID            uuid.UUID         `json:"id"`
	Period        string            `json:"period"`
	Month         time.Month        `json:"month"`
	Year          int               `json:"year"`
	TotalExpenses money.Money       `json:"totalExpenses"`
	GeneratedAt   time.Time         `json:"dateGenerated"`
	Units         []LiquidationUnit `json:"unitsData"`
}

// Building is the aggregate root. All core operations are scoped to one
// building; Version supports optimistic concurrency at the repository.
type Building struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Address          string            `json:"address"`
	TaxID            string            `json:"cuit,omitempty"`
	AdminName        string            `json:"adminName,omitempty"`
	AdminTaxID       string            `json:"adminCuit,omitempty"`
	AdminRegistry    string            `json:"adminRpa,omitempty"`
	Categories       []string          `json:"categories"`
	Units            []Unit            `json:"units"`
	Expenses         []Expense         `json:"expenses"`
	Events           []CalendarEvent   `json:"events,omitempty"`
	BankAccounts     []BankAccount     `json:"bankAccounts,omitempty"`
	BankTransactions []BankTransaction `json:"bankTransactions,omitempty"`
	Cheques          []Cheque          `json:"cheques,omitempty"`
	CashAudits       []CashAudit       `json:"cashAudits,omitempty"`
	Liquidations     []Liquidation     `json:"liquidations"`
	ReportedPayments []ReportedPayment `json:"reportedPayments,omitempty"`
	Version          int64             `json:"version"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Validate enforces the aggregate's own invariants.
func (b Building) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return shared.NewValidationError("name", "required")
	}
	return nil
}

// FindUnit locates a unit by id.
func (b *Building) FindUnit(id uuid.UUID) (*Unit, error) {
	for i := range b.Units {
		if b.Units[i].ID == id {
			return &b.Units[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindExpense locates an expense by id.
func (b *Building) FindExpense(id uuid.UUID) (*Expense, error) {
	for i := range b.Expenses {
		if b.Expenses[i].ID == id {
			return &b.Expenses[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindReportedPayment locates a payment claim by id.
func (b *Building) FindReportedPayment(id uuid.UUID) (*ReportedPayment, error) {
	for i := range b.ReportedPayments {
		if b.ReportedPayments[i].ID == id {
			return &b.ReportedPayments[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// LiquidationFor returns the archived settlement for a period, if any.
func (b *Building) LiquidationFor(month time.Month, year int) (*Liquidation, bool) {
	for i := range b.Liquidations {
		if b.Liquidations[i].Month == month && b.Liquidations[i].Year == year {
			return &b.Liquidations[i], true
		}
	}
	return nil, false
}
