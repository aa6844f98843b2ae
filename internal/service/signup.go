package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/metrics"
	"github.com/btech-hub/backend/internal/repository"
	"github.com/btech-hub/backend/pkg/hash"
	"github.com/btech-hub/backend/pkg/logger"
)

type SignupInput struct {
	Email    string
	Password string
	Profile  domain.Profile
}

// SignupStep is returned while the attempt waits for a code.
type SignupStep struct {
	SignupID          uuid.UUID
	State             domain.SignupState
	Email             string
	Issue             *IssueResult
	ResendAvailableIn time.Duration
}

type SignupCompletion struct {
	State  domain.SignupState
	User   *domain.User
	Tokens *Tokens
}

type SessionMeta struct {
	UserAgent string
	IP        string
}

type signupService struct {
	otp               OTP
	identity          Identity
	pending           repository.PendingSignups
	hasher            hash.PasswordHasher
	config            config.SignupConfig
	passwordMinLength int
	now               func() time.Time
}

func newSignupService(
	otp OTP,
	identity Identity,
	pending repository.PendingSignups,
	hasher hash.PasswordHasher,
	cfg config.SignupConfig,
	passwordMinLength int,
	now func() time.Time,
) *signupService {
	return &signupService{
		otp:               otp,
		identity:          identity,
		pending:           pending,
		hasher:            hasher,
		config:            cfg,
		passwordMinLength: passwordMinLength,
		now:               now,
	}
}

func (s *signupService) Start(ctx context.Context, input SignupInput) (*SignupStep, error) {
	email := NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password, s.passwordMinLength); err != nil {
		return nil, err
	}

	profile := input.Profile
	profile.FullName = strings.TrimSpace(profile.FullName)
	if profile.FullName == "" {
		return nil, &ValidationError{Field: "full_name", Reason: "is required"}
	}

	exists, err := s.identity.Exists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExist
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	issue, err := s.otp.Issue(ctx, email, domain.PurposeSignup)
	if err != nil {
		return nil, err
	}

	signupID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate signup id failed: %w", err)
	}

	now := s.now()
	pending := &domain.PendingSignup{
		ID:           signupID,
		Email:        email,
		PasswordHash: passwordHash,
		Profile:      profile,
		State:        domain.SignupAwaitingCode,
		LastIssuedAt: now,
		CreatedAt:    now,
	}
	if err = s.pending.Save(ctx, pending, s.config.PendingTTL); err != nil {
		return nil, infraError("save pending signup", err)
	}

	metrics.SignupTransitions.WithLabelValues("awaiting_code").Inc()

	return &SignupStep{
		SignupID:          signupID,
		State:             pending.State,
		Email:             email,
		Issue:             issue,
		ResendAvailableIn: s.resendAvailableIn(pending, now),
	}, nil
}

// Verify spends the code first and only then finalizes the account. A finalize
// failure keeps the pending payload, the caller has to resend to retry.
func (s *signupService) Verify(ctx context.Context, signupID uuid.UUID, email, code string, meta SessionMeta) (*SignupCompletion, error) {
	email = NormalizeEmail(email)

	if err := s.otp.Verify(ctx, email, domain.PurposeSignup, code); err != nil {
		return nil, err
	}

	pending, err := s.load(ctx, signupID)
	if err != nil {
		return nil, err
	}
	if pending.Email != email {
		metrics.SignupTransitions.WithLabelValues("session_expired").Inc()
		return nil, ErrSessionExpired
	}

	user, err := s.identity.CreateAccount(ctx, AccountInput{
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Profile:      pending.Profile,
	})
	if err != nil {
		metrics.SignupTransitions.WithLabelValues("finalize_failed").Inc()
		logger.Error("finalize signup failed", zap.String("signup_id", signupID.String()), zap.Error(err))
		return nil, err
	}

	if err = s.pending.Delete(ctx, signupID); err != nil {
		// the key expires on its own
		logger.Warn("delete pending signup failed", zap.String("signup_id", signupID.String()), zap.Error(err))
	}

	metrics.SignupTransitions.WithLabelValues("completed").Inc()

	tokens, err := s.identity.CreateSession(ctx, user.ID, meta.UserAgent, meta.IP)
	if err != nil {
		return nil, fmt.Errorf("account created, create session failed: %w", err)
	}

	return &SignupCompletion{
		State:  domain.SignupCompleted,
		User:   user,
		Tokens: tokens,
	}, nil
}

// Resend issues another code for the attempt. Older codes stay valid.
func (s *signupService) Resend(ctx context.Context, signupID uuid.UUID) (*SignupStep, error) {
	pending, err := s.load(ctx, signupID)
	if err != nil {
		return nil, err
	}

	issue, err := s.otp.Resend(ctx, pending.Email, domain.PurposeSignup)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pending.LastIssuedAt = now
	if err = s.pending.Save(ctx, pending, s.config.PendingTTL); err != nil {
		return nil, infraError("save pending signup", err)
	}

	return &SignupStep{
		SignupID:          pending.ID,
		State:             pending.State,
		Email:             pending.Email,
		Issue:             issue,
		ResendAvailableIn: s.resendAvailableIn(pending, now),
	}, nil
}

func (s *signupService) Status(ctx context.Context, signupID uuid.UUID) (*SignupStep, error) {
	pending, err := s.load(ctx, signupID)
	if err != nil {
		return nil, err
	}

	return &SignupStep{
		SignupID:          pending.ID,
		State:             pending.State,
		Email:             pending.Email,
		ResendAvailableIn: s.resendAvailableIn(pending, s.now()),
	}, nil
}

func (s *signupService) Cancel(ctx context.Context, signupID uuid.UUID) error {
	if err := s.pending.Delete(ctx, signupID); err != nil {
		return infraError("delete pending signup", err)
	}
	return nil
}

func (s *signupService) load(ctx context.Context, signupID uuid.UUID) (*domain.PendingSignup, error) {
	pending, err := s.pending.Get(ctx, signupID)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.SignupTransitions.WithLabelValues("session_expired").Inc()
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, infraError("get pending signup", err)
	}
	return pending, nil
}

func (s *signupService) resendAvailableIn(pending *domain.PendingSignup, now time.Time) time.Duration {
	left := s.config.ResendCooldown - now.Sub(pending.LastIssuedAt)
	if left < 0 {
		return 0
	}
	return left
}
