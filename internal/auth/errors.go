package auth

import (
	"net/http"

	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

// Auth failure kinds. Compare with errors.Is; returned errors may wrap a cause.
var (
	// ErrInvalidCredentials covers unknown identifiers, inactive records and
	// wrong secrets alike so callers cannot probe for accounts.
	ErrInvalidCredentials  = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid identifier or secret", http.StatusUnauthorized, nil)
	ErrDuplicateIdentifier = apperrors.NewDomainError("DUPLICATE_IDENTIFIER", "identifier already registered", http.StatusConflict, nil)
	ErrTokenMalformed      = apperrors.NewDomainError("TOKEN_MALFORMED", "invalid token", http.StatusUnauthorized, nil)
	ErrTokenExpired        = apperrors.NewDomainError("TOKEN_EXPIRED", "token expired", http.StatusUnauthorized, nil)
	ErrMissingCredentials  = apperrors.NewDomainError("MISSING_CREDENTIALS", "missing authorization header", http.StatusUnauthorized, nil)
	ErrStoreUnavailable    = apperrors.NewDomainError("STORE_UNAVAILABLE", "credential store unavailable", http.StatusServiceUnavailable, nil)
	ErrTooManyAttempts     = apperrors.NewDomainError("TOO_MANY_ATTEMPTS", "too many failed login attempts", http.StatusTooManyRequests, nil)
	ErrSecretTooLong       = apperrors.NewDomainError("SECRET_TOO_LONG", "secret exceeds 72 bytes", http.StatusBadRequest, nil)
)
