package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// ExpenseService owns the expense lifecycle: submission, the sequential
// approval workflow, and the role-scoped read projections.
type ExpenseService struct {
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	userRepo     portsrepo.UserReader
	companyRepo  portsrepo.CompanyReader
	categoryRepo portsrepo.CategoryReader
	currencyRepo portsrepo.CurrencyReader
	chainSvc     portssvc.ApprovalChainSvcFacade
	conversion   portssvc.ConversionSvcFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	userRepo portsrepo.UserReader,
	companyRepo portsrepo.CompanyReader,
	categoryRepo portsrepo.CategoryReader,
	currencyRepo portsrepo.CurrencyReader,
	chainSvc portssvc.ApprovalChainSvcFacade,
	conversion portssvc.ConversionSvcFacade,
) portssvc.ExpenseSvcFacade {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		categoryRepo: categoryRepo,
		currencyRepo: currencyRepo,
		chainSvc:     chainSvc,
		conversion:   conversion,
	}
}

var _ portssvc.ExpenseSvcFacade = (*ExpenseService)(nil)

// SubmitExpense creates a pending expense for the employee. The approval chain
// must be resolvable at submission time so no unapprovable record is created;
// a failed rate lookup, by contrast, degrades to a nil converted amount.
func (s *ExpenseService) SubmitExpense(ctx context.Context, employee *domain.User, req dto.SubmitExpenseRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code %s", apperrors.ErrUnknownCurrency, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency %s: %w", req.CurrencyCode, err)
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, employee.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", employee.CompanyID, err)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s not found", apperrors.ErrValidation, req.CategoryID)
		}
		return nil, fmt.Errorf("failed to load category %s: %w", req.CategoryID, err)
	}
	if category.CompanyID != employee.CompanyID || !category.IsActive {
		return nil, fmt.Errorf("%w: category %s not available", apperrors.ErrValidation, req.CategoryID)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:           uuid.NewString(),
		EmployeeID:          employee.UserID,
		CompanyID:           employee.CompanyID,
		Amount:              req.Amount,
		CurrencyCode:        req.CurrencyCode,
		CompanyCurrencyCode: company.CurrencyCode,
		CategoryID:          req.CategoryID,
		Description:         req.Description,
		ExpenseDate:         req.ExpenseDate,
		Status:              domain.ExpensePending,
		CurrentStepIndex:    0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     employee.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: employee.UserID,
		},
	}

	// An unresolvable chain rejects the submission outright so no expense
	// exists that nobody can ever decide.
	if _, err := s.chainSvc.ResolveChain(ctx, &expense); err != nil {
		return nil, err
	}

	if conv, err := s.conversion.Convert(ctx, expense.Amount, expense.CurrencyCode, expense.CompanyCurrencyCode); err != nil {
		logger.Warn("Conversion unavailable at submission, storing without converted amount",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("error", err.Error()))
	} else {
		expense.ConvertedAmount = &conv.ConvertedAmount
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		logger.Error("Failed to save expense", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to submit expense: %w", err)
	}

	logger.Info("Expense submitted",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("employee_id", employee.UserID))
	return &expense, nil
}

// Decide records an approve or reject decision on a pending expense.
// Preconditions run in a fixed order: pending status, resolvable current step,
// then actor authorization. The actual state transition is a conditional
// update in the repository, so concurrent deciders get exactly one winner.
func (s *ExpenseService) Decide(ctx context.Context, expenseID string, approver *domain.User, outcome domain.DecisionOutcome, comment string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CompanyID != approver.CompanyID {
		// Cross-tenant IDs read as absent.
		return nil, apperrors.ErrNotFound
	}

	if expense.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: expense %s is %s", apperrors.ErrExpenseNotPending, expenseID, expense.Status)
	}

	chain, err := s.chainSvc.ResolveChain(ctx, expense)
	if err != nil {
		return nil, err
	}

	step := chain.StepAt(expense.CurrentStepIndex)
	if step == nil {
		// A pending expense always points at a valid step.
		logger.Error("Pending expense points past its chain",
			slog.String("expense_id", expenseID),
			slog.Int("current_step_index", expense.CurrentStepIndex),
			slog.Int("chain_length", len(chain)))
		return nil, fmt.Errorf("%w: expense %s step %d", apperrors.ErrChainExhausted, expenseID, expense.CurrentStepIndex)
	}

	isDesignated := approver.UserID == step.ApproverID && approver.Role == step.RequiredRole
	isOverride := !isDesignated && approver.Role == domain.RoleAdmin
	if !isDesignated && !isOverride {
		return nil, fmt.Errorf("%w: user %s cannot decide step %d", apperrors.ErrNotAuthorizedApprover, approver.UserID, step.StepOrder)
	}
	if isOverride {
		logger.Info("Admin override on approval step",
			slog.String("expense_id", expenseID),
			slog.String("admin_id", approver.UserID),
			slog.Int("step_order", step.StepOrder))
	}

	decision := domain.ApprovalDecision{
		DecisionID: uuid.NewString(),
		ExpenseID:  expenseID,
		StepOrder:  expense.CurrentStepIndex + 1,
		ApproverID: approver.UserID,
		// The acting role: an admin override at a manager step records admin.
		ApproverRole: approver.Role,
		Outcome:      outcome,
		Comment:      comment,
		DecidedAt:    time.Now().UTC(),
	}

	newStatus := domain.ExpensePending
	newStepIndex := expense.CurrentStepIndex
	switch outcome {
	case domain.OutcomeRejected:
		newStatus = domain.ExpenseRejected
	case domain.OutcomeApproved:
		newStepIndex = expense.CurrentStepIndex + 1
		if newStepIndex == len(chain) {
			newStatus = domain.ExpenseApproved
		}
	default:
		return nil, fmt.Errorf("%w: unknown outcome %q", apperrors.ErrValidation, outcome)
	}

	if err := s.expenseRepo.ApplyDecision(ctx, expenseID, expense.CurrentStepIndex, decision, newStatus, newStepIndex); err != nil {
		return nil, err
	}

	logger.Info("Decision recorded",
		slog.String("expense_id", expenseID),
		slog.String("outcome", string(outcome)),
		slog.String("new_status", string(newStatus)))

	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// GetExpenseByID returns one expense with its resolved chain, applying the
// same visibility rules as the list projection. A conversion that failed at
// submission is retried here and cached on success.
func (s *ExpenseService) GetExpenseByID(ctx context.Context, expenseID string, requester *domain.User) (*domain.Expense, domain.ApprovalChain, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	if expense.CompanyID != requester.CompanyID {
		return nil, nil, apperrors.ErrNotFound
	}

	// Chain resolution failures degrade a read; the record itself is shown.
	chain, chainErr := s.chainSvc.ResolveChain(ctx, expense)
	if chainErr != nil {
		logger.Warn("Chain unresolvable while reading expense",
			slog.String("expense_id", expenseID),
			slog.String("error", chainErr.Error()))
	}

	if !s.mayView(ctx, expense, chain, requester) {
		return nil, nil, apperrors.ErrForbidden
	}

	s.retryConversion(ctx, expense)
	return expense, chain, nil
}

// mayView implements the per-record visibility rules of the role views.
func (s *ExpenseService) mayView(ctx context.Context, expense *domain.Expense, chain domain.ApprovalChain, requester *domain.User) bool {
	switch requester.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleEmployee:
		return expense.EmployeeID == requester.UserID
	case domain.RoleManager:
		if expense.EmployeeID == requester.UserID {
			return true
		}
		employee, err := s.userRepo.FindUserByID(ctx, expense.EmployeeID)
		if err == nil && employee.ManagerID != nil && *employee.ManagerID == requester.UserID {
			return true
		}
		if expense.Status == domain.ExpensePending {
			if step := chain.StepAt(expense.CurrentStepIndex); step != nil && step.ApproverID == requester.UserID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// retryConversion lazily fills in a converted amount that was unavailable at
// submission time. Best effort; failure leaves the record untouched.
func (s *ExpenseService) retryConversion(ctx context.Context, expense *domain.Expense) {
	if expense.ConvertedAmount != nil || expense.CurrencyCode == expense.CompanyCurrencyCode {
		return
	}
	conv, err := s.conversion.Convert(ctx, expense.Amount, expense.CurrencyCode, expense.CompanyCurrencyCode)
	if err != nil {
		return
	}
	if err := s.expenseRepo.UpdateConvertedAmount(ctx, expense.ExpenseID, conv.ConvertedAmount); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to cache converted amount",
			slog.String("expense_id", expense.ExpenseID),
			slog.String("error", err.Error()))
		return
	}
	expense.ConvertedAmount = &conv.ConvertedAmount
}

// ListVisibleExpenses returns the expenses the requester may see, newest
// expense date first.
//
// Managers see their direct reports' records plus pending records escalated
// to them as current approver; those two sets are merged and de-duplicated.
func (s *ExpenseService) ListVisibleExpenses(ctx context.Context, requester *domain.User, limit int, nextToken string) ([]domain.Expense, string, error) {
	if limit <= 0 {
		limit = 20
	}

	switch requester.Role {
	case domain.RoleEmployee:
		return s.expenseRepo.ListExpensesByEmployee(ctx, requester.UserID, limit, nextToken)
	case domain.RoleAdmin:
		return s.expenseRepo.ListExpensesByCompany(ctx, requester.CompanyID, limit, nextToken)
	case domain.RoleManager:
		return s.listForManager(ctx, requester, limit, nextToken)
	default:
		return nil, "", fmt.Errorf("%w: role %q", apperrors.ErrForbidden, requester.Role)
	}
}

func (s *ExpenseService) listForManager(ctx context.Context, manager *domain.User, limit int, nextToken string) ([]domain.Expense, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reports, token, err := s.expenseRepo.ListExpensesByManager(ctx, manager.UserID, limit, nextToken)
	if err != nil {
		return nil, "", err
	}

	seen := make(map[string]struct{}, len(reports))
	for _, e := range reports {
		seen[e.ExpenseID] = struct{}{}
	}

	// Pending expenses whose resolved current approver is this manager but
	// whose owner is not a direct report (reporting lines changed since
	// submission). Unresolvable chains are skipped, not fatal.
	pending, err := s.expenseRepo.ListPendingExpensesByCompany(ctx, manager.CompanyID)
	if err != nil {
		return nil, "", err
	}
	merged := reports
	for i := range pending {
		e := pending[i]
		if _, dup := seen[e.ExpenseID]; dup {
			continue
		}
		chain, chainErr := s.chainSvc.ResolveChain(ctx, &e)
		if chainErr != nil {
			logger.Debug("Skipping pending expense with unresolvable chain",
				slog.String("expense_id", e.ExpenseID),
				slog.String("error", chainErr.Error()))
			continue
		}
		if step := chain.StepAt(e.CurrentStepIndex); step != nil && step.ApproverID == manager.UserID {
			merged = append(merged, e)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].ExpenseDate.Equal(merged[j].ExpenseDate) {
			return merged[i].ExpenseDate.After(merged[j].ExpenseDate)
		}
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, token, nil
}
