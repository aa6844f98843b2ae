package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/queue/client"
	"github.com/btech-hub/backend/internal/queue/task"
	"github.com/btech-hub/backend/internal/templates"
	emailProvider "github.com/btech-hub/backend/pkg/email"
	"github.com/btech-hub/backend/pkg/logger"
)

// Delivery is the outcome of a single send attempt.
type Delivery struct {
	Sent bool
	Err  error
}

// Notifier delivers verification codes. Send never fails, problems are reported in Delivery.
type Notifier interface {
	Send(ctx context.Context, email, code string, purpose domain.CodePurpose) Delivery
}

type verificationEmailInput struct {
	SenderName       string
	Code             string
	ExpiresInMinutes int
}

type EmailNotifier struct {
	sender    emailProvider.Sender
	config    config.EmailConfig
	templates fs.FS
	codeTTL   time.Duration
	queue     client.Enqueuer
	now       func() time.Time
}

// NewEmailNotifier returns a notifier backed by sender. queue may be nil, failed
// deliveries are then reported without a retry.
func NewEmailNotifier(sender emailProvider.Sender, cfg config.EmailConfig, codeTTL time.Duration, queue client.Enqueuer) *EmailNotifier {
	return &EmailNotifier{
		sender:    sender,
		config:    cfg,
		templates: templates.FS,
		codeTTL:   codeTTL,
		queue:     queue,
		now:       time.Now,
	}
}

func (n *EmailNotifier) Send(ctx context.Context, email, code string, purpose domain.CodePurpose) Delivery {
	err := n.Deliver(ctx, email, code, purpose)
	if err == nil {
		return Delivery{Sent: true}
	}

	logger.Warn("verification email not delivered",
		zap.String("email", email),
		zap.String("purpose", string(purpose)),
		zap.Error(err),
	)

	if !errors.Is(err, ErrEmailDisabled) {
		n.enqueueRetry(ctx, email, code, purpose)
	}

	return Delivery{Sent: false, Err: err}
}

// Deliver renders and sends the message once.
func (n *EmailNotifier) Deliver(ctx context.Context, email, code string, purpose domain.CodePurpose) error {
	if !n.config.Enabled || n.sender == nil {
		return ErrEmailDisabled
	}

	subject, templateName := n.message(purpose)

	templateInput := verificationEmailInput{
		SenderName:       n.config.SenderName,
		Code:             code,
		ExpiresInMinutes: int(n.codeTTL.Minutes()),
	}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	if err := sendInput.GenerateBodyFromHTML(n.templates, templateName, templateInput); err != nil {
		return fmt.Errorf("%w: generate email failed: %v", ErrDeliveryFailed, err)
	}

	if err := n.sender.Send(ctx, sendInput); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}

func (n *EmailNotifier) message(purpose domain.CodePurpose) (string, string) {
	if purpose == domain.PurposeRecovery {
		return fmt.Sprintf("Your %s Password Reset Code", n.config.SenderName), n.config.Templates.Recovery
	}
	return fmt.Sprintf("Your %s Verification Code", n.config.SenderName), n.config.Templates.Verification
}

func (n *EmailNotifier) enqueueRetry(ctx context.Context, email, code string, purpose domain.CodePurpose) {
	if n.queue == nil {
		return
	}

	t, err := task.NewSendEmailTask(email, code, string(purpose), n.now().Add(n.codeTTL))
	if err != nil {
		logger.Error("build send email task failed", zap.Error(err))
		return
	}

	if _, err = n.queue.EnqueueContext(ctx, t); err != nil {
		logger.Error("enqueue send email task failed", zap.String("email", email), zap.Error(err))
	}
}
