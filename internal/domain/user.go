package domain

import "time"

// Role enumerates user roles. Except for ADM, a role doubles as the
// department the user belongs to.
type Role string

const (
	RoleAdmin           Role = "ADM"
	RoleIT              Role = "TI"
	RoleCustomerService Role = "SAC"
	RoleFinance         Role = "FINANCEIRO"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleIT, RoleCustomerService, RoleFinance:
		return true
	}
	return false
}

// User is the domain model for employees who open and work on tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the embeddable projection of a user.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Summary returns the embeddable projection.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
