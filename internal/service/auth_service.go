package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/config"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// Internal login failure reasons, recorded in events only.
const (
	reasonUnknownIdentifier = "unknown_identifier"
	reasonInactive          = "inactive"
	reasonSecretMismatch    = "secret_mismatch"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users            repository.UserRepository
	attempts         repository.LoginAttemptRepository
	hasher           *auth.Hasher
	tokenMgr         *auth.TokenManager
	events           events.Dispatcher
	logger           *zap.Logger
	maxAttempts      int64
	attemptWindow    time.Duration
	allowAdminSignup bool
}

// AuthDependencies encapsulates collaborators for the auth service.
// LoginAttempts may be nil, which disables login throttling.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	LoginAttempts repository.LoginAttemptRepository
	TokenManager  *auth.TokenManager
	Events        events.Dispatcher
	Logger        *zap.Logger
}

// NewAuthService builds the service. A token manager is derived from cfg
// unless one is supplied.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	}
	dispatcher := deps.Events
	if dispatcher == nil {
		dispatcher = events.NewNopDispatcher()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:            deps.UserRepo,
		attempts:         deps.LoginAttempts,
		hasher:           auth.NewHasher(cfg.BcryptCost),
		tokenMgr:         tokenMgr,
		events:           dispatcher,
		logger:           logger,
		maxAttempts:      int64(cfg.LoginMaxAttempts),
		attemptWindow:    cfg.LoginAttemptWindow(),
		allowAdminSignup: cfg.AllowAdminSignup,
	}
}

// Register creates an active credential record. No token is issued; callers
// log in separately.
func (s *AuthService) Register(ctx context.Context, identifier, secret string, role domain.Role) (domain.Principal, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.Principal{}, apperrors.NewValidationError("identifier required", nil)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return domain.Principal{}, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	if _, err := s.users.GetByIdentifier(ctx, identifier); err == nil {
		return domain.Principal{}, auth.ErrDuplicateIdentifier
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Principal{}, auth.ErrStoreUnavailable.Wrap(err)
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return domain.Principal{}, err
	}

	user := &domain.User{
		Identifier:   identifier,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent register of the same identifier
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Principal{}, auth.ErrDuplicateIdentifier
		}
		return domain.Principal{}, auth.ErrStoreUnavailable.Wrap(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventUserRegistered,
		Identifier: identifier,
		Payload:    events.UserRegisteredPayload{Role: role},
	})
	return user.Principal(), nil
}

// SelfRegister is Register for unauthenticated callers: the admin role is
// refused unless admin self-signup is enabled.
func (s *AuthService) SelfRegister(ctx context.Context, identifier, secret string, role domain.Role) (domain.Principal, error) {
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		return domain.Principal{}, apperrors.NewForbidden("admin self-registration is disabled")
	}
	return s.Register(ctx, identifier, secret, role)
}

// Login verifies credentials and issues a session token. Unknown identifiers,
// inactive records and wrong secrets all yield auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	if s.throttled(ctx, identifier) {
		s.publish(ctx, events.Event{Type: events.EventLoginThrottled, Identifier: identifier})
		return nil, auth.ErrTooManyAttempts
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.VerifyDummy(secret)
			return nil, s.rejectLogin(ctx, identifier, reasonUnknownIdentifier)
		}
		return nil, auth.ErrStoreUnavailable.Wrap(err)
	}

	// compare before the active check so inactive records take the same time
	matched := s.hasher.Verify(secret, user.PasswordHash)
	if !user.Active {
		return nil, s.rejectLogin(ctx, identifier, reasonInactive)
	}
	if !matched {
		return nil, s.rejectLogin(ctx, identifier, reasonSecretMismatch)
	}

	token, exp, err := s.tokenMgr.Issue(user.Identifier, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.resetAttempts(ctx, identifier)
	s.publish(ctx, events.Event{Type: events.EventLoginSucceeded, Identifier: identifier})
	return &LoginResult{Token: token, ExpiresAt: exp, Principal: user.Principal()}, nil
}

// Profile returns the already verified principal. The store is not consulted,
// so role changes only show up once the caller's token is reissued.
func (s *AuthService) Profile(principal domain.Principal) domain.Principal {
	return principal
}

// EnsureAdmin creates an admin record for identifier unless one exists.
// It reports whether a record was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, identifier, secret string) (bool, error) {
	existing, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("bootstrap admin identifier belongs to a non-admin user",
				zap.String("identifier", existing.Identifier),
				zap.String("role", string(existing.Role)))
		}
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, auth.ErrStoreUnavailable.Wrap(err)
	}

	if _, err := s.Register(ctx, identifier, secret, domain.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) rejectLogin(ctx context.Context, identifier, reason string) error {
	s.recordFailure(ctx, identifier)
	s.publish(ctx, events.Event{
		Type:       events.EventLoginFailed,
		Identifier: identifier,
		Payload:    events.LoginFailedPayload{Reason: reason},
	})
	return auth.ErrInvalidCredentials
}

func (s *AuthService) throttleEnabled() bool {
	return s.attempts != nil && s.maxAttempts > 0
}

// throttled fails open when the attempt counter is unreachable.
func (s *AuthService) throttled(ctx context.Context, identifier string) bool {
	if !s.throttleEnabled() {
		return false
	}
	count, err := s.attempts.Count(ctx, identifier)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return false
	}
	return count >= s.maxAttempts
}

func (s *AuthService) recordFailure(ctx context.Context, identifier string) {
	if !s.throttleEnabled() {
		return
	}
	if _, err := s.attempts.Increment(ctx, identifier, s.attemptWindow); err != nil {
		s.logger.Warn("record failed login", zap.Error(err))
	}
}

func (s *AuthService) resetAttempts(ctx context.Context, identifier string) {
	if !s.throttleEnabled() {
		return
	}
	if err := s.attempts.Reset(ctx, identifier); err != nil {
		s.logger.Warn("reset login attempts", zap.Error(err))
	}
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Actor == nil {
		if actor, ok := auth.PrincipalFrom(ctx); ok {
			event.Actor = &actor
		}
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
