package services

import (
	"context"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
)

// ApprovalChainSvcFacade resolves the approval chain for an expense.
// Chains are recomputed from current org data on every call, never stored.
type ApprovalChainSvcFacade interface {
	// ResolveChain computes the ordered approval steps for the given expense.
	ResolveChain(ctx context.Context, expense *domain.Expense) (domain.ApprovalChain, error)
}

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense with its decision trail and resolved
	// chain, enforcing the requester's visibility rules.
	GetExpenseByID(ctx context.Context, expenseID string, requester *domain.User) (*domain.Expense, domain.ApprovalChain, error)

	// ListVisibleExpenses retrieves the expenses the requester may see,
	// scoped by their role, newest expense date first.
	ListVisibleExpenses(ctx context.Context, requester *domain.User, limit int, nextToken string) ([]domain.Expense, string, error)
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	// SubmitExpense creates a new expense in pending state for the employee.
	SubmitExpense(ctx context.Context, employee *domain.User, req dto.SubmitExpenseRequest) (*domain.Expense, error)

	// Decide records an approve or reject decision on a pending expense and
	// advances or terminates its workflow.
	Decide(ctx context.Context, expenseID string, approver *domain.User, outcome domain.DecisionOutcome, comment string) (*domain.Expense, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
