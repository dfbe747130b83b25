package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/config"
	"github.com/spec-kit/admin-service/internal/persistence"
)

// setupTestDB opens a migrated SQLite database in a per-test temp directory.
func setupTestDB(t *testing.T) *persistence.SQLite {
	t.Helper()

	ctx := context.Background()
	logger := zap.NewNop()

	db, err := persistence.NewSQLite(ctx, config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, persistence.RunSQLiteMigrations(db.Writer, logger))
	return db
}
