package domain

import "time"

// UserRole represents the role of a user.
type UserRole string

const (
	RoleOwner    UserRole = "OWNER"
	RoleDriver   UserRole = "DRIVER"
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleOwner, RoleDriver, RoleCustomer, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Role             UserRole
	RefreshTokenHash string
	IsDeleted        bool
	DeletedAt        time.Time
	CreatedAt        time.Time
}

// Actor is the authenticated principal attached to every request.
// The lifecycle services trust it and do not re-verify credentials.
type Actor struct {
	ID   string
	Role UserRole
}
