package smtp

import (
	"context"
	"fmt"
	"mime"

	"github.com/go-gomail/gomail"
	"github.com/pkg/errors"

	"github.com/btech-hub/backend/pkg/email"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	from   string
	name   string
	dialer dialer
}

// NewSMTPSender creates a gomail backed sender. user may be empty, then from is used to authenticate.
func NewSMTPSender(from, name, user, pass, host string, port int) (*SMTPSender, error) {
	if host == "" || port == 0 {
		return nil, errors.New("smtp host and port are required")
	}
	if !email.IsEmailValid(from) {
		return nil, errors.New("invalid from email")
	}
	if user == "" {
		user = from
	}

	return &SMTPSender{from: from, name: name, dialer: gomail.NewDialer(host, port, user, pass)}, nil
}

func (s *SMTPSender) Send(ctx context.Context, input email.SendEmailInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return errors.Wrap(err, "validate email input")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.fromHeader())
	msg.SetHeader("To", input.To)
	msg.SetHeader("Subject", input.Subject)
	msg.SetBody("text/html", input.Body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "failed to send email via smtp")
	}

	return nil
}

func (s *SMTPSender) fromHeader() string {
	if s.name == "" {
		return s.from
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.name), s.from)
}
