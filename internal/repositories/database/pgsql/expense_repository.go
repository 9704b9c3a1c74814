package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	"github.com/expensehq/expense_mgmt_app/internal/models"
	"github.com/expensehq/expense_mgmt_app/internal/utils/mapping"
	"github.com/expensehq/expense_mgmt_app/internal/utils/pagination"
)

const expenseColumns = `expense_id, employee_id, company_id, amount, currency_code, company_currency_code,
		converted_amount, category_id, description, expense_date, status, current_step_index,
		created_at, created_by, last_updated_at, last_updated_by`

// PgxExpenseRepository implements portsrepo.ExpenseRepositoryFacade using pgx.
type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(db PGXQuerier) *PgxExpenseRepository {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpenseRow(row pgx.Row) (*models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.EmployeeID,
		&m.CompanyID,
		&m.Amount,
		&m.CurrencyCode,
		&m.CompanyCurrencyCode,
		&m.ConvertedAmount,
		&m.CategoryID,
		&m.Description,
		&m.ExpenseDate,
		&m.Status,
		&m.CurrentStepIndex,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
        INSERT INTO expenses (expense_id, employee_id, company_id, amount, currency_code, company_currency_code,
            converted_amount, category_id, description, expense_date, status, current_step_index,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
    `
	_, err := r.DB.Exec(ctx, query,
		m.ExpenseID,
		m.EmployeeID,
		m.CompanyID,
		m.Amount,
		m.CurrencyCode,
		m.CompanyCurrencyCode,
		m.ConvertedAmount,
		m.CategoryID,
		m.Description,
		m.ExpenseDate,
		m.Status,
		m.CurrentStepIndex,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE expense_id = $1;`, expenseColumns)
	m, err := scanExpenseRow(r.DB.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	trails, err := r.loadTrails(ctx, []string{expenseID})
	if err != nil {
		return nil, err
	}
	expense := mapping.ToDomainExpense(*m, trails[expenseID])
	return &expense, nil
}

func (r *PgxExpenseRepository) ListExpensesByEmployee(ctx context.Context, employeeID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	return r.listExpenses(ctx, `employee_id = $1`, employeeID, limit, nextToken)
}

// ListExpensesByManager lists expenses submitted by the manager's active
// direct reports.
func (r *PgxExpenseRepository) ListExpensesByManager(ctx context.Context, managerID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	cond := `employee_id IN (SELECT user_id FROM users WHERE manager_id = $1 AND deleted_at IS NULL)`
	return r.listExpenses(ctx, cond, managerID, limit, nextToken)
}

func (r *PgxExpenseRepository) ListExpensesByCompany(ctx context.Context, companyID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	return r.listExpenses(ctx, `company_id = $1`, companyID, limit, nextToken)
}

// listExpenses pages by (expense_date, created_at) descending. The token marks
// the last row of the previous page.
func (r *PgxExpenseRepository) listExpenses(ctx context.Context, cond string, condArg string, limit int, nextToken string) ([]domain.Expense, string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []any{condArg}
	query := fmt.Sprintf(`SELECT %s FROM expenses WHERE %s`, expenseColumns, cond)
	if nextToken != "" {
		expenseDate, createdAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid pagination token: %w", apperrors.ErrValidation)
		}
		query += ` AND (expense_date, created_at) < ($2, $3)`
		args = append(args, expenseDate, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY expense_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpenseRow(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan expense row: %w", err)
		}
		modelExpenses = append(modelExpenses, *m)
	}
	if rows.Err() != nil {
		return nil, "", fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}

	var token string
	if len(modelExpenses) > limit {
		modelExpenses = modelExpenses[:limit]
		last := modelExpenses[len(modelExpenses)-1]
		token = pagination.EncodeToken(last.ExpenseDate, last.CreatedAt)
	}

	expenses, err := r.attachTrails(ctx, modelExpenses)
	if err != nil {
		return nil, "", err
	}
	return expenses, token, nil
}

func (r *PgxExpenseRepository) ListPendingExpensesByCompany(ctx context.Context, companyID string) ([]domain.Expense, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM expenses
        WHERE company_id = $1 AND status = $2
        ORDER BY expense_date DESC, created_at DESC;
    `, expenseColumns)
	rows, err := r.DB.Query(ctx, query, companyID, string(domain.ExpensePending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending expenses: %w", err)
	}
	defer rows.Close()

	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		modelExpenses = append(modelExpenses, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return r.attachTrails(ctx, modelExpenses)
}

// ApplyDecision appends the decision and advances the expense in a single
// transaction. The update is conditional on the row still being pending at
// expectedStepIndex so concurrent deciders cannot double-apply a step.
func (r *PgxExpenseRepository) ApplyDecision(ctx context.Context, expenseID string, expectedStepIndex int, decision domain.ApprovalDecision, newStatus domain.ExpenseStatus, newStepIndex int) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	updateQuery := `
        UPDATE expenses
        SET status = $1, current_step_index = $2, last_updated_at = $3, last_updated_by = $4
        WHERE expense_id = $5 AND status = $6 AND current_step_index = $7;
    `
	cmdTag, err := tx.Exec(ctx, updateQuery,
		string(newStatus),
		newStepIndex,
		decision.DecidedAt,
		decision.ApproverID,
		expenseID,
		string(domain.ExpensePending),
		expectedStepIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to advance expense %s: %w", expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyDecisionConflict(ctx, tx, expenseID)
	}

	m := mapping.ToModelDecision(decision)
	insertQuery := `
        INSERT INTO approval_decisions (decision_id, expense_id, step_order, approver_id, approver_role, outcome, comment, decided_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err = tx.Exec(ctx, insertQuery,
		m.DecisionID,
		m.ExpenseID,
		m.StepOrder,
		m.ApproverID,
		m.ApproverRole,
		m.Outcome,
		m.Comment,
		m.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision for expense %s: %w", expenseID, err)
	}

	return r.Commit(ctx, tx)
}

// classifyDecisionConflict distinguishes a lost race on a still-pending
// expense from a decision against an already terminal one.
func (r *PgxExpenseRepository) classifyDecisionConflict(ctx context.Context, tx pgx.Tx, expenseID string) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM expenses WHERE expense_id = $1;`, expenseID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to inspect expense %s after conflict: %w", expenseID, err)
	}
	if domain.ExpenseStatus(status).IsTerminal() {
		return apperrors.ErrExpenseNotPending
	}
	return apperrors.ErrStaleExpense
}

func (r *PgxExpenseRepository) UpdateConvertedAmount(ctx context.Context, expenseID string, converted decimal.Decimal) error {
	query := `
        UPDATE expenses
        SET converted_amount = $1, last_updated_at = $2
        WHERE expense_id = $3 AND converted_amount IS NULL;
    `
	_, err := r.DB.Exec(ctx, query, converted, time.Now().UTC(), expenseID)
	if err != nil {
		return fmt.Errorf("failed to cache converted amount for expense %s: %w", expenseID, err)
	}
	return nil
}

// loadTrails fetches decision trails for the given expenses in one query,
// keyed by expense ID and ordered by step.
func (r *PgxExpenseRepository) loadTrails(ctx context.Context, expenseIDs []string) (map[string][]models.ApprovalDecision, error) {
	trails := make(map[string][]models.ApprovalDecision, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return trails, nil
	}

	query := `
        SELECT decision_id, expense_id, step_order, approver_id, approver_role, outcome, comment, decided_at
        FROM approval_decisions
        WHERE expense_id = ANY($1)
        ORDER BY expense_id, step_order ASC;
    `
	rows, err := r.DB.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval decisions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ApprovalDecision
		err := rows.Scan(
			&m.DecisionID,
			&m.ExpenseID,
			&m.StepOrder,
			&m.ApproverID,
			&m.ApproverRole,
			&m.Outcome,
			&m.Comment,
			&m.DecidedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision row: %w", err)
		}
		trails[m.ExpenseID] = append(trails[m.ExpenseID], m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating decision rows: %w", rows.Err())
	}
	return trails, nil
}

func (r *PgxExpenseRepository) attachTrails(ctx context.Context, modelExpenses []models.Expense) ([]domain.Expense, error) {
	ids := make([]string, len(modelExpenses))
	for i, m := range modelExpenses {
		ids[i] = m.ExpenseID
	}
	trails, err := r.loadTrails(ctx, ids)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, len(modelExpenses))
	for i, m := range modelExpenses {
		expenses[i] = mapping.ToDomainExpense(m, trails[m.ExpenseID])
	}
	return expenses, nil
}
