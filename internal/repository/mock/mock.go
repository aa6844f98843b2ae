package mock_repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/btech-hub/backend/internal/domain"
)

type VerificationCodes struct {
	mock.Mock
}

func (m *VerificationCodes) Insert(ctx context.Context, code *domain.VerificationCode) error {
	args := m.Called(ctx, code)

	return args.Error(0)
}

func (m *VerificationCodes) FindValid(ctx context.Context, email string, purpose domain.CodePurpose, code string, now time.Time) (*domain.VerificationCode, error) {
	args := m.Called(ctx, email, purpose, code, now)

	vc, _ := args.Get(0).(*domain.VerificationCode)
	return vc, args.Error(1)
}

func (m *VerificationCodes) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)

	return args.Error(0)
}

func (m *VerificationCodes) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)

	return args.Get(0).(int64), args.Error(1)
}

func (m *VerificationCodes) InvalidateActive(ctx context.Context, email string, purpose domain.CodePurpose, now time.Time) (int64, error) {
	args := m.Called(ctx, email, purpose, now)

	return args.Get(0).(int64), args.Error(1)
}

type Users struct {
	mock.Mock
}

func (m *Users) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)

	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *Users) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)

	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *Users) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)

	return args.Error(0)
}

type RefreshSession struct {
	mock.Mock
}

func (m *RefreshSession) Create(ctx context.Context, session *domain.RefreshSession) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *RefreshSession) GetByToken(ctx context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error) {
	args := m.Called(ctx, refreshToken)

	session, _ := args.Get(0).(*domain.RefreshSession)
	return session, args.Error(1)
}

func (m *RefreshSession) DeleteByToken(ctx context.Context, refreshToken uuid.UUID) error {
	args := m.Called(ctx, refreshToken)

	return args.Error(0)
}

type PendingSignups struct {
	mock.Mock
}

func (m *PendingSignups) Save(ctx context.Context, pending *domain.PendingSignup, ttl time.Duration) error {
	args := m.Called(ctx, pending, ttl)

	return args.Error(0)
}

func (m *PendingSignups) Get(ctx context.Context, id uuid.UUID) (*domain.PendingSignup, error) {
	args := m.Called(ctx, id)

	pending, _ := args.Get(0).(*domain.PendingSignup)
	return pending, args.Error(1)
}

func (m *PendingSignups) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
