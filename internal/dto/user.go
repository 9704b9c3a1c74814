package dto

import (
	"time"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
)

// CreateUserRequest defines data for an admin creating a company user.
type CreateUserRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Role      string  `json:"role" binding:"required,oneof=employee manager"`
	ManagerID *string `json:"managerID,omitempty"`
}

// UpdateUserRequest defines data for updating a user's details.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
	Role *string `json:"role,omitempty" binding:"omitempty,oneof=employee manager admin"`
}

// AssignManagerRequest sets or clears a user's manager.
type AssignManagerRequest struct {
	ManagerID *string `json:"managerID"` // null unassigns
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID    string      `json:"userID"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CompanyID string      `json:"companyID"`
	ManagerID *string     `json:"managerID,omitempty"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		ManagerID: u.ManagerID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ListUsersResponse wraps a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to DTO.
func ToListUsersResponse(us []domain.User) ListUsersResponse {
	list := make([]UserResponse, len(us))
	for i := range us {
		list[i] = ToUserResponse(&us[i])
	}
	return ListUsersResponse{Users: list}
}
