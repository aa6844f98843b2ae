package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/queue/task"
	emailProvider "github.com/btech-hub/backend/pkg/email"
	mock_email "github.com/btech-hub/backend/pkg/email/mock"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *recordingQueue) EnqueueContext(_ context.Context, t *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return &asynq.TaskInfo{Type: t.Type()}, nil
}

func emailConfig() config.EmailConfig {
	return config.EmailConfig{
		Enabled:    true,
		SenderName: "B-Tech Hub",
		Templates: config.EmailTemplates{
			Verification: "verification.html",
			Recovery:     "recovery.html",
		},
	}
}

func TestNotifierSendsVerificationEmail(t *testing.T) {
	sender := new(mock_email.EmailSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(in emailProvider.SendEmailInput) bool {
		return in.To == "a@x.com" &&
			in.Subject == "Your B-Tech Hub Verification Code" &&
			strings.Contains(in.Body, "042042") &&
			strings.Contains(in.Body, "expire in 10 minutes") &&
			strings.Contains(in.Body, "please ignore this email")
	})).Return(nil)

	queue := &recordingQueue{}
	n := NewEmailNotifier(sender, emailConfig(), 10*time.Minute, queue)

	d := n.Send(context.Background(), "a@x.com", "042042", domain.PurposeSignup)
	assert.True(t, d.Sent)
	assert.NoError(t, d.Err)
	assert.Empty(t, queue.tasks)
	sender.AssertExpectations(t)
}

func TestNotifierRecoverySubject(t *testing.T) {
	sender := new(mock_email.EmailSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(in emailProvider.SendEmailInput) bool {
		return in.Subject == "Your B-Tech Hub Password Reset Code" && strings.Contains(in.Body, "Password Reset")
	})).Return(nil)

	n := NewEmailNotifier(sender, emailConfig(), 10*time.Minute, nil)

	assert.True(t, n.Send(context.Background(), "a@x.com", "042042", domain.PurposeRecovery).Sent)
	sender.AssertExpectations(t)
}

func TestNotifierTransportFailureQueuesRetry(t *testing.T) {
	sender := new(mock_email.EmailSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errSMTPDown)

	queue := &recordingQueue{}
	n := NewEmailNotifier(sender, emailConfig(), 10*time.Minute, queue)

	d := n.Send(context.Background(), "a@x.com", "042042", domain.PurposeSignup)
	assert.False(t, d.Sent)
	assert.ErrorIs(t, d.Err, ErrDeliveryFailed)
	assert.Contains(t, d.Err.Error(), "connection refused")

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, task.SendEmailTaskName, queue.tasks[0].Type())

	var payload task.SendEmail
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	assert.Equal(t, "a@x.com", payload.Email)
	assert.Equal(t, "042042", payload.VerificationCode)
	assert.Equal(t, "signup", payload.Purpose)
}

func TestNotifierTransportFailureWithoutQueue(t *testing.T) {
	sender := new(mock_email.EmailSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errSMTPDown)

	n := NewEmailNotifier(sender, emailConfig(), 10*time.Minute, nil)

	d := n.Send(context.Background(), "a@x.com", "042042", domain.PurposeSignup)
	assert.False(t, d.Sent)
	assert.ErrorIs(t, d.Err, ErrDeliveryFailed)
}

func TestNotifierDisabled(t *testing.T) {
	cfg := emailConfig()
	cfg.Enabled = false

	queue := &recordingQueue{}
	sender := new(mock_email.EmailSender)
	n := NewEmailNotifier(sender, cfg, 10*time.Minute, queue)

	d := n.Send(context.Background(), "a@x.com", "042042", domain.PurposeSignup)
	assert.False(t, d.Sent)
	assert.ErrorIs(t, d.Err, ErrEmailDisabled)
	assert.Empty(t, queue.tasks)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifierMissingTemplate(t *testing.T) {
	cfg := emailConfig()
	cfg.Templates.Verification = "missing.html"

	sender := new(mock_email.EmailSender)
	n := NewEmailNotifier(sender, cfg, 10*time.Minute, nil)

	err := n.Deliver(context.Background(), "a@x.com", "042042", domain.PurposeSignup)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
