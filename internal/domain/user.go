package domain

import "time"

// Role enumerates the access levels a credential record can carry.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// User is the credential record owned by the user store.
type User struct {
	ID           string
	Identifier   string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the public identity of the record.
func (u *User) Principal() Principal {
	return Principal{Identifier: u.Identifier, Role: u.Role}
}
