package dto

import (
	"time"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitExpenseRequest defines the expense submission payload.
type SubmitExpenseRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required,gt=0"`
	CurrencyCode string          `json:"currencyCode" binding:"required,iso4217"`
	CategoryID   string          `json:"categoryID" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	ExpenseDate  time.Time       `json:"expenseDate" binding:"required"`
}

// DecisionRequest carries the optional comment of an approve/reject call.
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// DecisionResponse defines one approval trail entry.
type DecisionResponse struct {
	StepOrder    int         `json:"stepOrder"`
	ApproverID   string      `json:"approverID"`
	ApproverRole domain.Role `json:"approverRole"`
	Outcome      string      `json:"outcome"`
	Comment      string      `json:"comment,omitempty"`
	DecidedAt    time.Time   `json:"decidedAt"`
}

// ApprovalStepResponse identifies the approver an expense currently waits on.
type ApprovalStepResponse struct {
	StepOrder    int         `json:"stepOrder"`
	RequiredRole domain.Role `json:"requiredRole"`
	ApproverID   string      `json:"approverID"`
}

// ExpenseResponse defines data returned for an expense.
type ExpenseResponse struct {
	ExpenseID           string                `json:"expenseID"`
	EmployeeID          string                `json:"employeeID"`
	CompanyID           string                `json:"companyID"`
	Amount              decimal.Decimal       `json:"amount"`
	CurrencyCode        string                `json:"currencyCode"`
	CompanyCurrencyCode string                `json:"companyCurrencyCode"`
	ConvertedAmount     *decimal.Decimal      `json:"convertedAmount,omitempty"` // absent while conversion is unavailable
	CategoryID          string                `json:"categoryID"`
	Description         string                `json:"description"`
	ExpenseDate         time.Time             `json:"expenseDate"`
	Status              domain.ExpenseStatus  `json:"status"`
	CurrentStepIndex    int                   `json:"currentStepIndex"`
	CurrentApprover     *ApprovalStepResponse `json:"currentApprover,omitempty"`
	Trail               []DecisionResponse    `json:"trail"`
	CreatedAt           time.Time             `json:"createdAt"`
}

// ToExpenseResponse converts a domain.Expense plus its resolved chain to DTO.
// The chain may be nil when resolution failed; the current approver is then omitted.
func ToExpenseResponse(e *domain.Expense, chain domain.ApprovalChain) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:           e.ExpenseID,
		EmployeeID:          e.EmployeeID,
		CompanyID:           e.CompanyID,
		Amount:              e.Amount,
		CurrencyCode:        e.CurrencyCode,
		CompanyCurrencyCode: e.CompanyCurrencyCode,
		ConvertedAmount:     e.ConvertedAmount,
		CategoryID:          e.CategoryID,
		Description:         e.Description,
		ExpenseDate:         e.ExpenseDate,
		Status:              e.Status,
		CurrentStepIndex:    e.CurrentStepIndex,
		Trail:               make([]DecisionResponse, len(e.Trail)),
		CreatedAt:           e.CreatedAt,
	}
	for i, d := range e.Trail {
		resp.Trail[i] = DecisionResponse{
			StepOrder:    d.StepOrder,
			ApproverID:   d.ApproverID,
			ApproverRole: d.ApproverRole,
			Outcome:      string(d.Outcome),
			Comment:      d.Comment,
			DecidedAt:    d.DecidedAt,
		}
	}
	if !e.Status.IsTerminal() {
		if step := chain.StepAt(e.CurrentStepIndex); step != nil {
			resp.CurrentApprover = &ApprovalStepResponse{
				StepOrder:    step.StepOrder,
				RequiredRole: step.RequiredRole,
				ApproverID:   step.ApproverID,
			}
		}
	}
	return resp
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken string            `json:"nextToken,omitempty"`
}
