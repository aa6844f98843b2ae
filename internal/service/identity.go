package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/repository"
	"github.com/btech-hub/backend/pkg/auth"
	"github.com/btech-hub/backend/pkg/hash"
)

type Tokens struct {
	AccessToken  string
	AccessTTL    time.Duration
	RefreshToken uuid.UUID
	RefreshTTL   time.Duration
}

// AccountInput carries an already hashed password.
type AccountInput struct {
	Email        string
	PasswordHash string
	Profile      domain.Profile
}

type identityService struct {
	userRepository           repository.Users
	refreshSessionRepository repository.RefreshSession
	hasher                   hash.PasswordHasher
	tokenManager             auth.TokenManager
	passwordMinLength        int
	now                      func() time.Time
}

func newIdentityService(
	userRepository repository.Users,
	refreshSessionRepository repository.RefreshSession,
	hasher hash.PasswordHasher,
	tokenManager auth.TokenManager,
	passwordMinLength int,
	now func() time.Time,
) *identityService {
	return &identityService{
		userRepository:           userRepository,
		refreshSessionRepository: refreshSessionRepository,
		hasher:                   hasher,
		tokenManager:             tokenManager,
		passwordMinLength:        passwordMinLength,
		now:                      now,
	}
}

func (s *identityService) Exists(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepository.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, infraError("get user by email", err)
	}
	return true, nil
}

func (s *identityService) CreateAccount(ctx context.Context, input AccountInput) (*domain.User, error) {
	userID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id failed: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:              userID,
		Email:           NormalizeEmail(input.Email),
		PasswordHash:    input.PasswordHash,
		FullName:        input.Profile.FullName,
		Course:          nullString(input.Profile.Course),
		PhoneNumber:     nullString(input.Profile.PhoneNumber),
		Year:            nullString(input.Profile.Year),
		Semester:        nullString(input.Profile.Semester),
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, domain.ErrDuplicateEntry) {
		return nil, ErrUserAlreadyExist
	}
	if err != nil {
		return nil, infraError("create user", err)
	}

	return user, nil
}

func (s *identityService) SignIn(ctx context.Context, email, password, userAgent, userIP string) (*Tokens, error) {
	user, err := s.userRepository.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, infraError("get user by email", err)
	}

	if err = s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, hash.ErrMismatchedPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password failed: %w", err)
	}

	return s.CreateSession(ctx, user.ID, userAgent, userIP)
}

func (s *identityService) CreateSession(ctx context.Context, userID uuid.UUID, userAgent, userIP string) (*Tokens, error) {
	var (
		res Tokens
		err error
	)

	res.AccessToken, res.AccessTTL, err = s.tokenManager.NewJWT(userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	res.RefreshToken, res.RefreshTTL, err = s.tokenManager.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}

	refreshSessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate refresh session id failed: %w", err)
	}

	now := s.now()
	refreshSession := &domain.RefreshSession{
		ID:           refreshSessionID,
		UserID:       userID,
		RefreshToken: res.RefreshToken,
		UserAgent:    userAgent,
		IP:           userIP,
		ExpiresAt:    now.Add(res.RefreshTTL),
		CreatedAt:    now,
	}

	if err = s.refreshSessionRepository.Create(ctx, refreshSession); err != nil {
		return nil, infraError("create refresh session", err)
	}

	return &res, nil
}

// Refresh rotates a refresh session: the presented token is spent and a new pair is issued.
func (s *identityService) Refresh(ctx context.Context, refreshToken uuid.UUID, userAgent, userIP string) (*Tokens, error) {
	session, err := s.refreshSessionRepository.GetByToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, infraError("get refresh session", err)
	}

	// a concurrent refresh or logout already spent it
	err = s.refreshSessionRepository.DeleteByToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, infraError("delete refresh session", err)
	}

	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	return s.CreateSession(ctx, session.UserID, userAgent, userIP)
}

// SignOut revokes the refresh session. Unknown tokens are accepted so logout can be repeated.
func (s *identityService) SignOut(ctx context.Context, refreshToken uuid.UUID) error {
	err := s.refreshSessionRepository.DeleteByToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return infraError("delete refresh session", err)
	}
	return nil
}

func (s *identityService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := validatePassword(newPassword, s.passwordMinLength); err != nil {
		return err
	}

	user, err := s.userRepository.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return infraError("get user by email", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	if err = s.userRepository.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return infraError("update password", err)
	}

	return nil
}

func (s *identityService) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepository.GetOneByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, infraError("get user by id", err)
	}
	return user, nil
}

func validatePassword(password string, minLength int) error {
	if len(password) < minLength {
		return &ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minLength)}
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
