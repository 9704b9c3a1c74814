package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
)

// ApprovalChainService resolves the approval steps an expense must pass.
// The chain is derived from current org data on every call so that changes in
// reporting lines take effect immediately for pending expenses.
type ApprovalChainService struct {
	userRepo portsrepo.UserReader
}

// NewApprovalChainService creates a new ApprovalChainService.
func NewApprovalChainService(userRepo portsrepo.UserReader) portssvc.ApprovalChainSvcFacade {
	return &ApprovalChainService{userRepo: userRepo}
}

var _ portssvc.ApprovalChainSvcFacade = (*ApprovalChainService)(nil)

// ResolveChain computes the two-step chain for the expense: the employee's
// direct manager, then a company admin. Admins are ordered by ascending user
// ID and the first one is designated, so resolution is deterministic.
func (s *ApprovalChainService) ResolveChain(ctx context.Context, expense *domain.Expense) (domain.ApprovalChain, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	employee, err := s.userRepo.FindUserByID(ctx, expense.EmployeeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: employee %s", apperrors.ErrNoManagerAssigned, expense.EmployeeID)
		}
		return nil, fmt.Errorf("failed to load employee %s: %w", expense.EmployeeID, err)
	}

	if employee.ManagerID == nil {
		return nil, fmt.Errorf("%w: employee %s has no manager", apperrors.ErrNoManagerAssigned, employee.UserID)
	}

	manager, err := s.userRepo.FindUserByID(ctx, *employee.ManagerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: manager %s no longer exists", apperrors.ErrNoManagerAssigned, *employee.ManagerID)
		}
		return nil, fmt.Errorf("failed to load manager %s: %w", *employee.ManagerID, err)
	}
	if !manager.IsActive {
		logger.Warn("Assigned manager is inactive",
			slog.String("employee_id", employee.UserID),
			slog.String("manager_id", manager.UserID))
		return nil, fmt.Errorf("%w: manager %s is inactive", apperrors.ErrNoManagerAssigned, manager.UserID)
	}

	admins, err := s.userRepo.FindAdminsByCompany(ctx, expense.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load admins for company %s: %w", expense.CompanyID, err)
	}
	if len(admins) == 0 {
		return nil, fmt.Errorf("%w: company %s", apperrors.ErrNoAdminAvailable, expense.CompanyID)
	}

	return domain.ApprovalChain{
		{StepOrder: 1, RequiredRole: domain.RoleManager, ApproverID: manager.UserID},
		{StepOrder: 2, RequiredRole: domain.RoleAdmin, ApproverID: admins[0].UserID},
	}, nil
}
