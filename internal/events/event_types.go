package events

import (
	"time"

	"github.com/spec-kit/admin-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventLoginThrottled    EventType = "login_throttled"
	EventUserStatusChanged EventType = "user_status_changed"
	EventUserDeleted       EventType = "user_deleted"
)

// Event represents an auth-related occurrence emitted by services.
type Event struct {
	Type       EventType         `json:"type"`
	Identifier string            `json:"identifier"`
	Actor      *domain.Principal `json:"actor,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload,omitempty"`
}

// LoginFailedPayload records why a login was rejected. The reason is internal
// only and never returned to the caller.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role domain.Role `json:"role"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	Active bool `json:"active"`
}
