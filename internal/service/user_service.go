package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// UserService backs the admin user-management endpoints.
type UserService struct {
	users  repository.UserRepository
	events events.Dispatcher
	logger *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if dispatcher == nil {
		dispatcher = events.NewNopDispatcher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, events: dispatcher, logger: logger}
}

// List returns a page of users ordered by creation time.
func (s *UserService) List(ctx context.Context, opts repository.ListOptions) ([]domain.User, error) {
	users, err := s.users.List(ctx, opts)
	if err != nil {
		return nil, auth.ErrStoreUnavailable.Wrap(err)
	}
	return users, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, mapUserErr(identifier, err)
	}
	return user, nil
}

// SetActive activates or deactivates a user. Deactivation blocks future logins
// only; tokens already issued stay valid until they expire.
func (s *UserService) SetActive(ctx context.Context, actor domain.Principal, identifier string, active bool) (*domain.User, error) {
	if !active && actor.Identifier == identifier {
		return nil, apperrors.NewForbidden("cannot deactivate own account")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, mapUserErr(identifier, err)
	}
	if user.Active == active {
		return user, nil
	}

	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapUserErr(identifier, err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventUserStatusChanged,
		Identifier: identifier,
		Actor:      &actor,
		Payload:    events.UserStatusChangedPayload{Active: active},
	})
	return user, nil
}

// Delete removes a user record.
func (s *UserService) Delete(ctx context.Context, actor domain.Principal, identifier string) error {
	if actor.Identifier == identifier {
		return apperrors.NewForbidden("cannot delete own account")
	}
	if err := s.users.Delete(ctx, identifier); err != nil {
		return mapUserErr(identifier, err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventUserDeleted,
		Identifier: identifier,
		Actor:      &actor,
	})
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	event.Timestamp = time.Now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func mapUserErr(identifier string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("user", map[string]any{"identifier": identifier})
	}
	return auth.ErrStoreUnavailable.Wrap(err)
}
