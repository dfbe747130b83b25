package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admin-service/internal/auth"
	"github.com/spec-kit/admin-service/internal/domain"
	"github.com/spec-kit/admin-service/internal/events"
	"github.com/spec-kit/admin-service/internal/repository"
	apperrors "github.com/spec-kit/admin-service/pkg/util"
)

var rootActor = domain.Principal{Identifier: "root", Role: domain.RoleAdmin}

func seedUsers(t *testing.T, repo repository.UserRepository, identifiers ...string) {
	t.Helper()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})
	for _, id := range identifiers {
		_, err := svc.Register(context.Background(), id, "pw", domain.RoleUser)
		require.NoError(t, err)
	}
}

func TestUserService_ListAndGet(t *testing.T) {
	repo := newSQLiteRepo(t)
	seedUsers(t, repo, "alice", "bob", "carol")
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()

	users, err := svc.List(ctx, repository.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Identifier)
	assert.Equal(t, "bob", users[1].Identifier)

	user, err := svc.Get(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, user.Active)

	_, err = svc.Get(ctx, "nobody")
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUserService_SetActive(t *testing.T) {
	repo := newSQLiteRepo(t)
	seedUsers(t, repo, "alice")
	dispatcher := &recordingDispatcher{}
	svc := NewUserService(repo, dispatcher, nil)
	authSvc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo})
	ctx := context.Background()

	user, err := svc.SetActive(ctx, rootActor, "alice", false)
	require.NoError(t, err)
	assert.False(t, user.Active)

	_, err = authSvc.Login(ctx, "alice", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// no-op transitions publish nothing
	_, err = svc.SetActive(ctx, rootActor, "alice", false)
	require.NoError(t, err)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventUserStatusChanged, dispatcher.events[0].Type)
	assert.Equal(t, events.UserStatusChangedPayload{Active: false}, dispatcher.events[0].Payload)
	assert.Equal(t, &rootActor, dispatcher.events[0].Actor)

	_, err = svc.SetActive(ctx, rootActor, "alice", true)
	require.NoError(t, err)
	_, err = authSvc.Login(ctx, "alice", "pw")
	assert.NoError(t, err)
}

func TestUserService_SelfProtection(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.SetActive(ctx, rootActor, "root", false)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	err = svc.Delete(ctx, rootActor, "root")
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	repo.AssertNotCalled(t, "GetByIdentifier", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserService_Delete(t *testing.T) {
	repo := newSQLiteRepo(t)
	seedUsers(t, repo, "alice")
	dispatcher := &recordingDispatcher{}
	svc := NewUserService(repo, dispatcher, nil)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, rootActor, "alice"))
	assert.Equal(t, []events.EventType{events.EventUserDeleted}, dispatcher.types())

	err := svc.Delete(ctx, rootActor, "alice")
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUserService_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk I/O error")
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything, mock.Anything).Return(nil, storeErr)
	repo.On("GetByIdentifier", mock.Anything, "alice").Return(nil, storeErr)
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, repository.ListOptions{})
	assert.ErrorIs(t, err, auth.ErrStoreUnavailable)

	_, err = svc.Get(ctx, "alice")
	assert.ErrorIs(t, err, auth.ErrStoreUnavailable)
	assert.ErrorIs(t, err, storeErr)
}
