package repository

import (
	"context"
	"time"

	"github.com/btech-hub/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	VerificationCodes VerificationCodes
	Users             Users
	RefreshSession    RefreshSession
	PendingSignups    PendingSignups
}

func NewRepositories(db *sqlx.DB, rdb redis.UniversalClient) *Repositories {
	return &Repositories{
		VerificationCodes: newVerificationCodeRepository(db),
		Users:             newUserRepository(db),
		RefreshSession:    newRefreshSessionRepository(db),
		PendingSignups:    newPendingSignupRepository(rdb),
	}
}

// VerificationCodes persists issued one-time codes.
type VerificationCodes interface {
	Insert(ctx context.Context, code *domain.VerificationCode) error
	// FindValid returns the newest unused, unexpired code matching email, purpose and code,
	// or domain.ErrNotFound.
	FindValid(ctx context.Context, email string, purpose domain.CodePurpose, code string, now time.Time) (*domain.VerificationCode, error)
	// MarkUsed flips used to true only if the code is still consumable at now,
	// otherwise domain.ErrNoRowsAffected is returned.
	MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
	InvalidateActive(ctx context.Context, email string, purpose domain.CodePurpose, now time.Time) (int64, error)
}

type Users interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type RefreshSession interface {
	Create(ctx context.Context, session *domain.RefreshSession) error
	GetByToken(ctx context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error)
	DeleteByToken(ctx context.Context, refreshToken uuid.UUID) error
}

// PendingSignups holds registration payloads keyed by signup attempt.
type PendingSignups interface {
	Save(ctx context.Context, pending *domain.PendingSignup, ttl time.Duration) error
	Get(ctx context.Context, id uuid.UUID) (*domain.PendingSignup, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
