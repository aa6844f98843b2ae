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
	emailProvider "github.com/btech-hub/backend/pkg/email"
	"github.com/btech-hub/backend/pkg/logger"
	"github.com/btech-hub/backend/pkg/otp"
)

// IssueResult describes a stored code and what happened to its delivery.
// DebugCode is filled only when the configured policy allows exposing it.
type IssueResult struct {
	ID            uuid.UUID
	Email         string
	Purpose       domain.CodePurpose
	ExpiresAt     time.Time
	Sent          bool
	DeliveryError error
	DebugCode     string
}

type otpService struct {
	codes      repository.VerificationCodes
	generator  otp.Generator
	notifier   Notifier
	config     config.OTPConfig
	codeLength int
	now        func() time.Time
}

func newOTPService(
	codes repository.VerificationCodes,
	generator otp.Generator,
	notifier Notifier,
	cfg config.OTPConfig,
	codeLength int,
	now func() time.Time,
) *otpService {
	return &otpService{
		codes:      codes,
		generator:  generator,
		notifier:   notifier,
		config:     cfg,
		codeLength: codeLength,
		now:        now,
	}
}

func (s *otpService) Issue(ctx context.Context, email string, purpose domain.CodePurpose) (*IssueResult, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !purpose.Valid() {
		return nil, &ValidationError{Field: "type", Reason: "must be signup or recovery"}
	}

	now := s.now()
	s.purgeExpired(ctx, now)

	if s.config.InvalidatePrevious {
		if _, err := s.codes.InvalidateActive(ctx, email, purpose, now); err != nil {
			return nil, infraError("invalidate previous codes", err)
		}
	}

	code, err := s.generator.Generate()
	if err != nil {
		return nil, infraError("generate code", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, infraError("generate code id", err)
	}

	vc := &domain.VerificationCode{
		ID:        id,
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err = s.codes.Insert(ctx, vc); err != nil {
		return nil, infraError("store code", err)
	}

	delivery := s.notifier.Send(ctx, email, code, purpose)

	res := &IssueResult{
		ID:            vc.ID,
		Email:         email,
		Purpose:       purpose,
		ExpiresAt:     vc.ExpiresAt,
		Sent:          delivery.Sent,
		DeliveryError: delivery.Err,
	}

	switch s.config.DebugCode {
	case config.DebugCodeAlways:
		res.DebugCode = code
	case config.DebugCodeOnFailure:
		if !delivery.Sent {
			res.DebugCode = code
		}
	}

	deliveryLabel := "sent"
	if !delivery.Sent {
		deliveryLabel = "failed"
	}
	metrics.CodesIssued.WithLabelValues(string(purpose), deliveryLabel).Inc()

	return res, nil
}

// Resend issues a fresh code, earlier codes for the address stay valid until they expire.
func (s *otpService) Resend(ctx context.Context, email string, purpose domain.CodePurpose) (*IssueResult, error) {
	return s.Issue(ctx, email, purpose)
}

func (s *otpService) Verify(ctx context.Context, email string, purpose domain.CodePurpose, code string) error {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)

	if err := validateEmail(email); err != nil {
		return err
	}
	if !purpose.Valid() {
		return &ValidationError{Field: "type", Reason: "must be signup or recovery"}
	}
	if !otp.IsNumeric(code, s.codeLength) {
		return &ValidationError{Field: "code", Reason: fmt.Sprintf("must be %d digits", s.codeLength)}
	}

	now := s.now()

	vc, err := s.codes.FindValid(ctx, email, purpose, code, now)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.CodeVerifications.WithLabelValues(string(purpose), "invalid").Inc()
		return ErrInvalidOrExpiredCode
	}
	if err != nil {
		metrics.CodeVerifications.WithLabelValues(string(purpose), "error").Inc()
		return infraError("find code", err)
	}

	err = s.codes.MarkUsed(ctx, vc.ID, now)
	if errors.Is(err, domain.ErrNoRowsAffected) {
		// lost the race to a concurrent verification
		metrics.CodeVerifications.WithLabelValues(string(purpose), "invalid").Inc()
		return ErrInvalidOrExpiredCode
	}
	if err != nil {
		metrics.CodeVerifications.WithLabelValues(string(purpose), "error").Inc()
		return infraError("mark code used", err)
	}

	metrics.CodeVerifications.WithLabelValues(string(purpose), "success").Inc()

	return nil
}

func (s *otpService) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.codes.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, infraError("purge expired codes", err)
	}

	metrics.CodesPurged.Add(float64(removed))

	return removed, nil
}

// purgeExpired is best effort: it never fails issuance and never holds it longer than PurgeTimeout.
func (s *otpService) purgeExpired(ctx context.Context, now time.Time) {
	if s.config.PurgeTimeout <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.PurgeTimeout)
	defer cancel()

	removed, err := s.codes.PurgeExpired(ctx, now)
	if err != nil {
		logger.Warn("purge expired codes failed", zap.Error(err))
		return
	}
	metrics.CodesPurged.Add(float64(removed))
}

// NormalizeEmail trims and lower-cases an address so lookups match regardless of input casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if !emailProvider.IsEmailValid(email) {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}
