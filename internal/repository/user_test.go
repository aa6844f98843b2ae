package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btech-hub/backend/internal/domain"
)

func TestUserCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := newUserRepository(db)
	ctx := context.Background()

	verifiedAt := baseTime
	user := &domain.User{
		ID:              uuid.Must(uuid.NewV7()),
		Email:           "student@example.com",
		PasswordHash:    "hash",
		FullName:        "Asha Rao",
		Course:          sql.NullString{String: "computer-science", Valid: true},
		EmailVerifiedAt: &verifiedAt,
		CreatedAt:       baseTime,
		UpdatedAt:       baseTime,
	}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.GetByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "computer-science", byEmail.Course.String)
	assert.False(t, byEmail.PhoneNumber.Valid)
	require.NotNil(t, byEmail.EmailVerifiedAt)

	byID, err := repo.GetOneByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", byID.FullName)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUpdatePassword(t *testing.T) {
	repo := newUserRepository(openTestDB(t))
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        "student@example.com",
		PasswordHash: "old",
		FullName:     "Asha Rao",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new"))

	got, err := repo.GetOneByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), domain.ErrNotFound)
}

func TestRefreshSessionCreate(t *testing.T) {
	db := openTestDB(t)
	repo := newRefreshSessionRepository(db)

	session := &domain.RefreshSession{
		ID:           uuid.Must(uuid.NewV7()),
		UserID:       uuid.New(),
		RefreshToken: uuid.New(),
		UserAgent:    "test",
		IP:           "127.0.0.1",
		ExpiresAt:    baseTime.Add(240 * time.Hour),
		CreatedAt:    baseTime,
	}
	require.NoError(t, repo.Create(context.Background(), session))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM refresh_session WHERE user_id = ?`, session.UserID))
	assert.Equal(t, 1, count)
}

func TestRefreshSessionGetAndDeleteByToken(t *testing.T) {
	db := openTestDB(t)
	repo := newRefreshSessionRepository(db)
	ctx := context.Background()

	session := &domain.RefreshSession{
		ID:           uuid.Must(uuid.NewV7()),
		UserID:       uuid.New(),
		RefreshToken: uuid.New(),
		UserAgent:    "test",
		IP:           "127.0.0.1",
		ExpiresAt:    baseTime.Add(240 * time.Hour),
		CreatedAt:    baseTime,
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, repo.DeleteByToken(ctx, session.RefreshToken))
	assert.ErrorIs(t, repo.DeleteByToken(ctx, session.RefreshToken), domain.ErrNotFound)

	_, err = repo.GetByToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
