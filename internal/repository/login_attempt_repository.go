package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptPrefix = "auth:login_attempts:"

// LoginAttemptRepository counts failed logins per identifier inside a sliding expiry window.
type LoginAttemptRepository interface {
	Count(ctx context.Context, identifier string) (int64, error)
	Increment(ctx context.Context, identifier string, window time.Duration) (int64, error)
	Reset(ctx context.Context, identifier string) error
}

type loginAttemptRepository struct {
	client redis.UniversalClient
}

// NewLoginAttemptRepository returns a Redis-backed implementation.
func NewLoginAttemptRepository(client redis.UniversalClient) LoginAttemptRepository {
	return &loginAttemptRepository{client: client}
}

func (r *loginAttemptRepository) Count(ctx context.Context, identifier string) (int64, error) {
	n, err := r.client.Get(ctx, loginAttemptPrefix+identifier).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get login attempts: %w", err)
	}
	return n, nil
}

func (r *loginAttemptRepository) Increment(ctx context.Context, identifier string, window time.Duration) (int64, error) {
	key := loginAttemptPrefix + identifier

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("increment login attempts: %w", err)
	}
	return incr.Val(), nil
}

func (r *loginAttemptRepository) Reset(ctx context.Context, identifier string) error {
	if err := r.client.Del(ctx, loginAttemptPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
