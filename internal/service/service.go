package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/repository"
	"github.com/btech-hub/backend/pkg/auth"
	"github.com/btech-hub/backend/pkg/hash"
	"github.com/btech-hub/backend/pkg/otp"
)

type Services struct {
	OTP      OTP
	Signup   Signup
	Identity Identity
	Recovery Recovery
}

type Deps struct {
	Config       *config.Config
	Hasher       hash.PasswordHasher
	TokenManager auth.TokenManager
	OtpGenerator otp.Generator
	Notifier     Notifier
	Repos        *repository.Repositories
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewServices(deps Deps) *Services {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	cfg := deps.Config

	otpService := newOTPService(deps.Repos.VerificationCodes,
		deps.OtpGenerator,
		deps.Notifier,
		cfg.OTP,
		cfg.Auth.VerificationCodeLength,
		now,
	)
	identityService := newIdentityService(deps.Repos.Users,
		deps.Repos.RefreshSession,
		deps.Hasher,
		deps.TokenManager,
		cfg.Auth.PasswordMinLength,
		now,
	)

	return &Services{
		OTP:      otpService,
		Identity: identityService,
		Signup: newSignupService(otpService,
			identityService,
			deps.Repos.PendingSignups,
			deps.Hasher,
			cfg.Signup,
			cfg.Auth.PasswordMinLength,
			now,
		),
		Recovery: newRecoveryService(otpService, identityService, cfg.Auth.PasswordMinLength),
	}
}

type OTP interface {
	Issue(ctx context.Context, email string, purpose domain.CodePurpose) (*IssueResult, error)
	Verify(ctx context.Context, email string, purpose domain.CodePurpose, code string) error
	Resend(ctx context.Context, email string, purpose domain.CodePurpose) (*IssueResult, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type Signup interface {
	Start(ctx context.Context, input SignupInput) (*SignupStep, error)
	Verify(ctx context.Context, signupID uuid.UUID, email, code string, meta SessionMeta) (*SignupCompletion, error)
	Resend(ctx context.Context, signupID uuid.UUID) (*SignupStep, error)
	Status(ctx context.Context, signupID uuid.UUID) (*SignupStep, error)
	Cancel(ctx context.Context, signupID uuid.UUID) error
}

type Identity interface {
	Exists(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, input AccountInput) (*domain.User, error)
	SignIn(ctx context.Context, email, password, userAgent, userIP string) (*Tokens, error)
	CreateSession(ctx context.Context, userID uuid.UUID, userAgent, userIP string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken uuid.UUID, userAgent, userIP string) (*Tokens, error)
	SignOut(ctx context.Context, refreshToken uuid.UUID) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type Recovery interface {
	Confirm(ctx context.Context, email, code, newPassword string) error
}
