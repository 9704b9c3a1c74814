package services

import (
	"context"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	"github.com/expensehq/expense_mgmt_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListUsersByCompany retrieves all users belonging to a company.
	ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new user within the requesting admin's company.
	CreateUser(ctx context.Context, companyID string, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// RegisterAdmin creates the admin account of a freshly signed-up company.
	RegisterAdmin(ctx context.Context, companyID, name, email, password string) (*domain.User, error)

	// UpdateUser updates an existing user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// AssignManager sets or clears the manager of a user. A nil manager ID unassigns.
	AssignManager(ctx context.Context, userID string, managerID *string, requestingUserID string) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeactivateUser marks a user as inactive so they drop out of approval chains.
	DeactivateUser(ctx context.Context, userID string, requestingUserID string) error

	// DeleteUser marks a user as deleted (soft delete).
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
