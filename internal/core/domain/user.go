package domain

import "time"

// User represents a member of a company in the domain.
type User struct {
	UserID       string  `json:"userID"` // Primary Key (e.g., UUID)
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	CompanyID    string  `json:"companyID"`
	ManagerID    *string `json:"managerID,omitempty"` // nil when no manager is assigned
	IsActive     bool    `json:"isActive"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo mirrors the payload returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
