package service

import (
	"context"
	"errors"

	"github.com/btech-hub/backend/internal/domain"
)

type recoveryService struct {
	otp               OTP
	identity          Identity
	passwordMinLength int
}

func newRecoveryService(otp OTP, identity Identity, passwordMinLength int) *recoveryService {
	return &recoveryService{
		otp:               otp,
		identity:          identity,
		passwordMinLength: passwordMinLength,
	}
}

// Confirm spends a recovery code and replaces the account password.
// The password is checked first so a rejected password does not burn the code.
func (s *recoveryService) Confirm(ctx context.Context, email, code, newPassword string) error {
	if err := validatePassword(newPassword, s.passwordMinLength); err != nil {
		return err
	}

	if err := s.otp.Verify(ctx, email, domain.PurposeRecovery, code); err != nil {
		return err
	}

	err := s.identity.ResetPassword(ctx, email, newPassword)
	if errors.Is(err, ErrUserNotFound) {
		// codes can be issued for unknown addresses, answer as if the code were wrong
		return ErrInvalidOrExpiredCode
	}

	return err
}
