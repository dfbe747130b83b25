package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/admin-service/internal/domain"
)

// MaxIdentifierLength bounds identifiers accepted over HTTP.
const MaxIdentifierLength = 128

// RegisterRequest payload for new credential records. Role defaults to user.
type RegisterRequest struct {
	Identifier string      `json:"identifier"`
	Secret     string      `json:"secret"`
	Role       domain.Role `json:"role"`
}

// Validate checks the request shape. The secret may be empty.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required, validation.Length(1, MaxIdentifierLength)),
		validation.Field(&r.Role, validation.In(domain.RoleAdmin, domain.RoleUser)),
	)
}

// LoginRequest payload for login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// Validate checks the request shape.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required, validation.Length(1, MaxIdentifierLength)),
	)
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
