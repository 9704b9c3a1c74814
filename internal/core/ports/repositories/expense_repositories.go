package repositories

import (
	"context"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReader defines read operations for expense data.
// All listing methods return records ordered by expense_date descending,
// ties broken by created_at descending, with keyset pagination.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its full approval trail.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByEmployee retrieves expenses owned by one employee.
	ListExpensesByEmployee(ctx context.Context, employeeID string, limit int, nextToken string) ([]domain.Expense, string, error)

	// ListExpensesByManager retrieves expenses of a manager's direct reports.
	ListExpensesByManager(ctx context.Context, managerID string, limit int, nextToken string) ([]domain.Expense, string, error)

	// ListExpensesByCompany retrieves all expenses of a company.
	ListExpensesByCompany(ctx context.Context, companyID string, limit int, nextToken string) ([]domain.Expense, string, error)

	// ListPendingExpensesByCompany retrieves every pending expense of a company,
	// unpaginated. Used to resolve escalated items whose current approver is not
	// the employee's manager.
	ListPendingExpensesByCompany(ctx context.Context, companyID string) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense persists a newly submitted expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// ApplyDecision atomically appends a decision and advances the expense, in
	// one transaction. The update is conditional on the expense still being
	// pending at expectedStepIndex; a lost race yields apperrors.ErrStaleExpense
	// (or ErrExpenseNotPending when the record already went terminal).
	ApplyDecision(ctx context.Context, expenseID string, expectedStepIndex int, decision domain.ApprovalDecision, newStatus domain.ExpenseStatus, newStepIndex int) error

	// UpdateConvertedAmount caches a converted amount computed lazily on read.
	UpdateConvertedAmount(ctx context.Context, expenseID string, converted decimal.Decimal) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
