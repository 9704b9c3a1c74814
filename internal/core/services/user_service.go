package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
	"github.com/expensehq/expense_mgmt_app/internal/middleware"
	"github.com/expensehq/expense_mgmt_app/internal/utils"
)

// UserService handles business logic for company users and reporting lines.
type UserService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	users, err := s.userRepo.FindUsersByCompany(ctx, companyID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list company users: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// CreateUser creates an employee or manager account inside the creator's
// company. Admin accounts only come from signup.
func (s *UserService) CreateUser(ctx context.Context, companyID string, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be created here", apperrors.ErrValidation)
	}

	if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, companyID, ""); err != nil {
			return nil, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
		Role:         role,
		CompanyID:    companyID,
		ManagerID:    req.ManagerID,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(role)))
	return &user, nil
}

// RegisterAdmin creates the admin account of a freshly signed-up company.
// The account records itself as its creator since no other user exists yet.
func (s *UserService) RegisterAdmin(ctx context.Context, companyID, name, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CompanyID:    companyID,
		IsActive:     true,
	}
	user.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     user.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: user.UserID,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save admin user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register admin: %w", err)
	}

	logger.Info("Admin registered",
		slog.String("user_id", user.UserID),
		slog.String("company_id", companyID))
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		user.Role = role
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// AssignManager sets or clears a user's manager. A nil manager ID unassigns;
// pending expenses of the user re-resolve against the new reporting line on
// their next decision.
func (s *UserService) AssignManager(ctx context.Context, userID string, managerID *string, requestingUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if managerID != nil {
		if err := s.validateManager(ctx, *managerID, user.CompanyID, userID); err != nil {
			return nil, err
		}
	}

	user.ManagerID = managerID
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to assign manager: %w", err)
	}

	logger.Info("Manager assignment changed",
		slog.String("user_id", userID),
		slog.Any("manager_id", managerID))
	return user, nil
}

// validateManager checks that a prospective manager exists in the company, is
// active, holds an approving role, and is not the user themselves.
func (s *UserService) validateManager(ctx context.Context, managerID, companyID, userID string) error {
	if managerID == userID {
		return fmt.Errorf("%w: users cannot manage themselves", apperrors.ErrValidation)
	}
	manager, err := s.userRepo.FindUserByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: manager %s not found", apperrors.ErrValidation, managerID)
		}
		return fmt.Errorf("failed to validate manager %s: %w", managerID, err)
	}
	if manager.CompanyID != companyID {
		return fmt.Errorf("%w: manager %s not found", apperrors.ErrValidation, managerID)
	}
	if !manager.IsActive || !manager.Role.CanApprove() {
		return fmt.Errorf("%w: user %s cannot act as a manager", apperrors.ErrValidation, managerID)
	}
	return nil
}

func (s *UserService) DeactivateUser(ctx context.Context, userID string, requestingUserID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("failed to deactivate user %s: %w", userID, err)
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

// AuthenticateUser verifies email/password credentials. Both unknown email
// and bad password map to the same error so login probes learn nothing.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
