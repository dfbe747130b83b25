package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spec-kit/admin-service/internal/config"
)

// SQLite provides dual reader/writer connections to an embedded database with WAL mode.
// The writer is limited to a single connection to avoid "database is locked" errors.
type SQLite struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewSQLite opens the database file at cfg.Path, creating it if needed.
func NewSQLite(ctx context.Context, cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("SQLITE_PATH not provided")
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		cfg.Path,
	)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	logger.Info("opened sqlite", zap.String("path", cfg.Path))
	return &SQLite{Writer: writer, Reader: reader, path: cfg.Path}, nil
}

// Ping verifies both connections are usable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.Writer == nil {
		return errors.New("sqlite not configured")
	}
	if err := s.Writer.PingContext(ctx); err != nil {
		return err
	}
	return s.Reader.PingContext(ctx)
}

// Close closes both connections and returns the first error encountered.
func (s *SQLite) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if err := s.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := s.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}
	return firstErr
}
