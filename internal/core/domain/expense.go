package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates the workflow state of an expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending_approval"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

// IsTerminal reports whether no further decisions are accepted.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseApproved || s == ExpenseRejected
}

// Expense is the authoritative per-expense record. It is created by Submit,
// mutated only by Decide, and immutable once Status is terminal.
type Expense struct {
	ExpenseID  string `json:"expenseID"` // Primary Key (e.g., UUID)
	EmployeeID string `json:"employeeID"`
	CompanyID  string `json:"companyID"`

	Amount              decimal.Decimal  `json:"amount"` // positive
	CurrencyCode        string           `json:"currencyCode"`
	CompanyCurrencyCode string           `json:"companyCurrencyCode"`
	ConvertedAmount     *decimal.Decimal `json:"convertedAmount,omitempty"` // nil while the rate lookup is unavailable

	CategoryID  string    `json:"categoryID"`
	Description string    `json:"description"`
	ExpenseDate time.Time `json:"expenseDate"` // calendar date, distinct from CreatedAt

	Status           ExpenseStatus      `json:"status"`
	CurrentStepIndex int                `json:"currentStepIndex"` // 0-based pointer into the resolved chain
	Trail            []ApprovalDecision `json:"trail"`            // append-only, in chain order

	AuditFields
}
