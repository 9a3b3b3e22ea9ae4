package domain

import "time"

// UserRole separates support agents from ordinary end-users.
type UserRole string

const (
	RoleAgent UserRole = "agent"
	RoleUser  UserRole = "user"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(r UserRole) bool {
	return r == RoleAgent || r == RoleUser
}

// User is an account that can authenticate and own or work tickets.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAgent reports whether the user holds the elevated agent role.
func (u *User) IsAgent() bool {
	return u != nil && u.Role == RoleAgent
}
