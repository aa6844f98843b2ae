package smtp

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gomail/gomail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btech-hub/backend/pkg/email"
)

type recordingDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return d.err
}

func validInput() email.SendEmailInput {
	return email.SendEmailInput{To: "student@example.com", Subject: "Code", Body: "<p>123456</p>"}
}

func TestNewSMTPSenderValidation(t *testing.T) {
	_, err := NewSMTPSender("noreply@example.com", "", "", "", "", 587)
	require.Error(t, err)

	_, err = NewSMTPSender("not-an-email", "", "", "", "smtp.example.com", 587)
	require.Error(t, err)

	s, err := NewSMTPSender("noreply@example.com", "Hub", "", "pass", "smtp.example.com", 587)
	require.NoError(t, err)
	assert.Equal(t, "Hub <noreply@example.com>", s.fromHeader())
}

func TestSMTPSenderSend(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPSender{from: "noreply@example.com", dialer: d}

	require.NoError(t, s.Send(context.Background(), validInput()))
	require.Len(t, d.messages, 1)
	assert.Equal(t, []string{"student@example.com"}, d.messages[0].GetHeader("To"))
	assert.Equal(t, []string{"noreply@example.com"}, d.messages[0].GetHeader("From"))
}

func TestSMTPSenderSendTransportError(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	s := &SMTPSender{from: "noreply@example.com", dialer: d}

	err := s.Send(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPSenderSendRejectsInvalidInput(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPSender{from: "noreply@example.com", dialer: d}

	input := validInput()
	input.Body = ""

	require.Error(t, s.Send(context.Background(), input))
	assert.Empty(t, d.messages)
}

func TestSMTPSenderSendCancelledContext(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPSender{from: "noreply@example.com", dialer: d}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, validInput()), context.Canceled)
	assert.Empty(t, d.messages)
}
