package models

import "time"

// User mirrors the users table.
type User struct {
	UserID       string  `db:"user_id"`
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Role         string  `db:"role"`
	CompanyID    string  `db:"company_id"`
	ManagerID    *string `db:"manager_id"`
	IsActive     bool    `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
