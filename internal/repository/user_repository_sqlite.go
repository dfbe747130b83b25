package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/persistence"
)

// Compile-time interface satisfaction check.
var _ UserRepository = (*sqliteUserRepository)(nil)

type sqliteUserRepository struct {
	db  *persistence.SQLite
	now func() time.Time
}

// NewSQLiteUserRepository returns a SQLite-backed implementation. Record ids
// and timestamps are assigned here since SQLite has no uuid or timestamptz type.
func NewSQLiteUserRepository(db *persistence.SQLite) UserRepository {
	return &sqliteUserRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, identifier, password_hash, role, active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := r.now()
	id := uuid.NewString()
	_, err := r.db.Writer.ExecContext(ctx, query,
		id,
		user.Identifier,
		user.PasswordHash,
		string(user.Role),
		user.Active,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *sqliteUserRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET password_hash = ?, role = ?, active = ?, updated_at = ?
        WHERE identifier = ?`

	now := r.now()
	res, err := r.db.Writer.ExecContext(ctx, query,
		user.PasswordHash,
		string(user.Role),
		user.Active,
		formatTime(now),
		user.Identifier,
	)
	if err != nil {
		return fmt.Errorf("update user %q: %w", user.Identifier, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user %q: %w", user.Identifier, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (r *sqliteUserRepository) Delete(ctx context.Context, identifier string) error {
	const query = `DELETE FROM users WHERE identifier = ?`

	res, err := r.db.Writer.ExecContext(ctx, query, identifier)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", identifier, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user %q: %w", identifier, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	const query = `
        SELECT id, identifier, password_hash, role, active, created_at, updated_at
        FROM users WHERE identifier = ?`

	user, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", identifier, err)
	}
	return user, nil
}

func (r *sqliteUserRepository) List(ctx context.Context, opts ListOptions) ([]domain.User, error) {
	const query = `
        SELECT id, identifier, password_hash, role, active, created_at, updated_at
        FROM users ORDER BY created_at, identifier
        LIMIT ? OFFSET ?`

	limit, offset := opts.normalize()
	rows, err := r.db.Reader.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user                 domain.User
		role                 string
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&user.ID,
		&user.Identifier,
		&user.PasswordHash,
		&role,
		&user.Active,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
