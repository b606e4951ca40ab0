package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// IsValidRole checks if role is valid for self-registration
func IsValidRole(role string) bool {
	return role == string(RoleGuest) || role == string(RoleHost)
}

// User represents a user account
type User struct {
	ID                uuid.UUID `db:"id"`
	Email             string    `db:"email"`
	PasswordHash      string    `db:"password_hash"`
	FullName          string    `db:"full_name"`
	Phone             string    `db:"phone"`
	Role              Role      `db:"role"`
	PreferredCurrency string    `db:"preferred_currency"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// IsHost returns true if user can manage camps
func (u *User) IsHost() bool {
	return u.Role == RoleHost || u.Role == RoleAdmin
}
