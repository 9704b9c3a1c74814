package domain

import "fmt"

// Role is the closed set of roles a user can hold within a company.
// The workflow engine and the role-scoped expense views switch exhaustively
// on this type; role strings from the wire must go through ParseRole.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a wire-level role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// CanApprove reports whether the role is ever eligible to decide an approval
// step. Employees never are.
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}
