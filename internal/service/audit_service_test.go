package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/observability"
)

func TestAuditService_RecordsAuthEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	audit := NewAuditService(dispatcher, zap.New(core), metrics)
	audit.RegisterHandlers()

	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: newSQLiteRepo(t), Events: dispatcher})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw123", domain.RoleUser)
	require.NoError(t, err)
	_, _ = svc.Login(ctx, "alice", "wrong")
	_, err = svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)

	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.AuthEvents[string(events.EventUserRegistered)])
	assert.Equal(t, int64(1), snapshot.AuthEvents[string(events.EventLoginFailed)])
	assert.Equal(t, int64(1), snapshot.AuthEvents[string(events.EventLoginSucceeded)])

	entries := logs.FilterMessage("auth event").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "alice", entries[1].ContextMap()["identifier"])

	for _, entry := range entries {
		_, leaked := entry.ContextMap()["secret"]
		assert.False(t, leaked)
	}
}
