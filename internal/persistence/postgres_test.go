//go:build integration

package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-service/internal/config"
)

// Runs with `go test -tags integration` and POSTGRES_TEST_DSN set.
func openTestPostgres(t *testing.T) *Postgres {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{DSN: dsn, MaxConns: 4}, zap.NewNop())
	require.NoError(t, err)
	return pg
}

func TestRunPostgresMigrations_ReleasesConnection(t *testing.T) {
	pg := openTestPostgres(t)

	require.NoError(t, RunPostgresMigrations(pg.PoolHandle(), zap.NewNop()))
	// a second run is a no-op
	require.NoError(t, RunPostgresMigrations(pg.PoolHandle(), zap.NewNop()))

	assert.Zero(t, pg.Pool.Stat().AcquiredConns())
	require.NoError(t, pg.Ping(context.Background()))

	closed := make(chan struct{})
	go func() {
		pg.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("pool close blocked on an acquired connection")
	}
}

func TestNewPostgres_RequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.Error(t, err)
}
