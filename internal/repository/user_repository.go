package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/admin-service/internal/domain"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the identifier is already taken.
	ErrDuplicate = errors.New("identifier already exists")
)

const pgUniqueViolation = "23505"

// ListOptions paginates List calls.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository defines persistence access for credential records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, identifier string) error
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context, opts ListOptions) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (identifier, password_hash, role, active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Identifier,
		user.PasswordHash,
		user.Role,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET password_hash=$1, role=$2, active=$3, updated_at=NOW()
        WHERE identifier=$4
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.PasswordHash,
		user.Role,
		user.Active,
		user.Identifier,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update user %q: %w", user.Identifier, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, identifier string) error {
	const query = `DELETE FROM users WHERE identifier=$1`

	cmd, err := r.pool.Exec(ctx, query, identifier)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", identifier, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	const query = `
        SELECT id, identifier, password_hash, role, active, created_at, updated_at
        FROM users WHERE identifier=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, identifier).Scan(
		&user.ID,
		&user.Identifier,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", identifier, err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, opts ListOptions) ([]domain.User, error) {
	const query = `
        SELECT id, identifier, password_hash, role, active, created_at, updated_at
        FROM users ORDER BY created_at, identifier
        LIMIT $1 OFFSET $2`

	limit, offset := opts.normalize()
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Identifier,
			&user.PasswordHash,
			&user.Role,
			&user.Active,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (o ListOptions) normalize() (int, int) {
	limit := o.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := o.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
