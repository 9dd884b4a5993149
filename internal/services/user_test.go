package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialbase/socialbase/pkg/logger"
)

func newUserService() (*UserService, *fakeStore) {
	store := newFakeStore()
	svc := NewUserService(store, fakeTx{}, newFakeStatsCache(), logger.NewLogger("error"))
	return svc, store
}

func TestRegisterCreatesStatsRow(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, user.Password, "secret1")

	stats, err := store.GetStats(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(0), stats.FollowerCount)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "bob", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Login(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, store.Update(ctx, user))

	_, err = svc.Login(ctx, &LoginRequest{Username: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestGetProfile(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.User.ID)
	require.NotNil(t, profile.Stats)
	assert.Equal(t, int64(0), profile.Stats.PostCount)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	name := "Alice A."
	private := true
	updated, err := svc.UpdateProfile(ctx, user.ID.String(), &UpdateProfileRequest{
		DisplayName: &name,
		IsPrivate:   &private,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.DisplayName)
	assert.True(t, updated.IsPrivate)
	assert.Equal(t, "alice@example.com", updated.Email)
}
