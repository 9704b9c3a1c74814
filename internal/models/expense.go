package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense mirrors the expenses table.
type Expense struct {
	ExpenseID           string           `db:"expense_id"`
	EmployeeID          string           `db:"employee_id"`
	CompanyID           string           `db:"company_id"`
	Amount              decimal.Decimal  `db:"amount"`
	CurrencyCode        string           `db:"currency_code"`
	CompanyCurrencyCode string           `db:"company_currency_code"`
	ConvertedAmount     *decimal.Decimal `db:"converted_amount"`
	CategoryID          string           `db:"category_id"`
	Description         string           `db:"description"`
	ExpenseDate         time.Time        `db:"expense_date"`
	Status              string           `db:"status"`
	CurrentStepIndex    int              `db:"current_step_index"`
	AuditFields
}

// ApprovalDecision mirrors the approval_decisions table.
type ApprovalDecision struct {
	DecisionID   string    `db:"decision_id"`
	ExpenseID    string    `db:"expense_id"`
	StepOrder    int       `db:"step_order"`
	ApproverID   string    `db:"approver_id"`
	ApproverRole string    `db:"approver_role"`
	Outcome      string    `db:"outcome"`
	Comment      string    `db:"comment"`
	DecidedAt    time.Time `db:"decided_at"`
}
