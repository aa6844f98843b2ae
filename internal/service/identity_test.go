package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/btech-hub/backend/internal/domain"
	mock_repository "github.com/btech-hub/backend/internal/repository/mock"
)

func createAccount(t *testing.T, env *testEnv, email, password string) *domain.User {
	t.Helper()

	passwordHash, err := env.hasher.Hash(password)
	require.NoError(t, err)

	user, err := env.services.Identity.CreateAccount(context.Background(), AccountInput{
		Email:        email,
		PasswordHash: passwordHash,
		Profile:      domain.Profile{FullName: "Grace Hopper"},
	})
	require.NoError(t, err)
	return user
}

func TestIdentityCreateAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createAccount(t, env, "Grace@X.com", "correct-horse")
	assert.Equal(t, "grace@x.com", user.Email)
	assert.False(t, user.Course.Valid)

	exists, err := env.services.Identity.Exists(ctx, "grace@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = env.services.Identity.CreateAccount(ctx, AccountInput{Email: "grace@x.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	got, err := env.services.Identity.GetOneByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestIdentitySignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createAccount(t, env, "grace@x.com", "correct-horse")

	tokens, err := env.services.Identity.SignIn(ctx, "GRACE@x.com", "correct-horse", "curl", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	require.Len(t, env.sessions.sessions, 1)
	assert.Equal(t, "10.0.0.1", env.sessions.sessions[0].IP)
	assert.Equal(t, testNow.Add(tokens.RefreshTTL), env.sessions.sessions[0].ExpiresAt)

	_, err = env.services.Identity.SignIn(ctx, "grace@x.com", "wrong-horse", "curl", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.services.Identity.SignIn(ctx, "nobody@x.com", "correct-horse", "curl", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createAccount(t, env, "grace@x.com", "correct-horse")

	require.NoError(t, env.services.Identity.ResetPassword(ctx, "grace@x.com", "battery-staple"))

	_, err := env.services.Identity.SignIn(ctx, "grace@x.com", "battery-staple", "", "")
	assert.NoError(t, err)

	assert.ErrorIs(t, env.services.Identity.ResetPassword(ctx, "nobody@x.com", "battery-staple"), ErrUserNotFound)
	assert.True(t, IsValidationError(env.services.Identity.ResetPassword(ctx, "grace@x.com", "short")))
}

func TestIdentityExistsStoreFailure(t *testing.T) {
	users := new(mock_repository.Users)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection refused"))

	svc := newIdentityService(users, nil, nil, nil, 8, nil)

	_, err := svc.Exists(context.Background(), "a@x.com")
	assert.True(t, IsInfrastructureError(err))
	users.AssertExpectations(t)
}

func TestIdentityRefreshRotatesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createAccount(t, env, "grace@x.com", "correct-horse")
	first, err := env.services.Identity.SignIn(ctx, "grace@x.com", "correct-horse", "curl", "10.0.0.1")
	require.NoError(t, err)

	second, err := env.services.Identity.Refresh(ctx, first.RefreshToken, "firefox", "10.0.0.2")
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.Len(t, env.sessions.sessions, 1)
	assert.Equal(t, "firefox", env.sessions.sessions[0].UserAgent)

	_, err = env.services.Identity.Refresh(ctx, first.RefreshToken, "curl", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = env.services.Identity.Refresh(ctx, uuid.New(), "curl", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestIdentityRefreshExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createAccount(t, env, "grace@x.com", "correct-horse")
	tokens, err := env.services.Identity.SignIn(ctx, "grace@x.com", "correct-horse", "", "")
	require.NoError(t, err)

	env.clock.Advance(tokens.RefreshTTL + time.Second)

	_, err = env.services.Identity.Refresh(ctx, tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	assert.Empty(t, env.sessions.sessions)
}

func TestIdentitySignOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createAccount(t, env, "grace@x.com", "correct-horse")
	tokens, err := env.services.Identity.SignIn(ctx, "grace@x.com", "correct-horse", "", "")
	require.NoError(t, err)

	require.NoError(t, env.services.Identity.SignOut(ctx, tokens.RefreshToken))
	assert.Empty(t, env.sessions.sessions)
	require.NoError(t, env.services.Identity.SignOut(ctx, tokens.RefreshToken))

	_, err = env.services.Identity.Refresh(ctx, tokens.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestIdentitySignOutStoreFailure(t *testing.T) {
	token := uuid.New()
	sessions := new(mock_repository.RefreshSession)
	sessions.On("DeleteByToken", mock.Anything, token).Return(errors.New("connection refused"))

	svc := newIdentityService(nil, sessions, nil, nil, 8, nil)

	assert.True(t, IsInfrastructureError(svc.SignOut(context.Background(), token)))
	sessions.AssertExpectations(t)
}
