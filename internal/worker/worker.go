package worker

import (
	"context"

	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/service"
)

type Workers struct {
	EmailSender EmailSender
	CodePurger  CodePurger
}

// MailDeliverer sends one message without queueing a retry, service.EmailNotifier implements it.
type MailDeliverer interface {
	Deliver(ctx context.Context, email, code string, purpose domain.CodePurpose) error
}

type Deps struct {
	Services  *service.Services
	Deliverer MailDeliverer
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, verificationCode string, purpose domain.CodePurpose) error
}

type CodePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.Deliverer),
		CodePurger:  newCodePurger(deps.Services.OTP),
	}
}
