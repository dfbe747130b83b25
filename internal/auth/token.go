package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/admin-service/internal/domain"
)

// DefaultTokenTTL applies when a non-positive TTL is configured.
const DefaultTokenTTL = time.Hour

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for iat, exp and expiry checks.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// TTL returns the validity window of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims describes JWT payload. The identifier travels in the registered "sub" claim.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a JWT for the identifier and role.
func (tm *TokenManager) Issue(identifier string, role domain.Role) (string, time.Time, error) {
	now := tm.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// Verify checks signature, expiry and payload shape, returning the principal
// the token was issued for. Errors are ErrTokenExpired or ErrTokenMalformed.
func (tm *TokenManager) Verify(tokenStr string) (domain.Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, ErrTokenExpired.Wrap(err)
		}
		return domain.Principal{}, ErrTokenMalformed.Wrap(err)
	}

	switch {
	case claims.Subject == "":
		return domain.Principal{}, ErrTokenMalformed.Wrap(errors.New("missing sub claim"))
	case claims.IssuedAt == nil:
		return domain.Principal{}, ErrTokenMalformed.Wrap(errors.New("missing iat claim"))
	case !claims.Role.Valid():
		return domain.Principal{}, ErrTokenMalformed.Wrap(errors.New("unknown role"))
	}

	return domain.Principal{Identifier: claims.Subject, Role: claims.Role}, nil
}
