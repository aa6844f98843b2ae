package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/service"
)

// ErrSkipRetry marks a delivery that will never succeed on retry.
var ErrSkipRetry = errors.New("skip retry")

type emailSender struct {
	deliverer MailDeliverer
}

func newEmailSender(deliverer MailDeliverer) *emailSender {
	return &emailSender{
		deliverer: deliverer,
	}
}

func (s *emailSender) SendVerificationEmail(ctx context.Context, email, verificationCode string, purpose domain.CodePurpose) error {
	if !purpose.Valid() {
		return fmt.Errorf("%w: unknown purpose %q", ErrSkipRetry, purpose)
	}

	err := s.deliverer.Deliver(ctx, email, verificationCode, purpose)
	if errors.Is(err, service.ErrEmailDisabled) {
		return fmt.Errorf("%w: %v", ErrSkipRetry, err)
	}
	if err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
