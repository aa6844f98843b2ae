package email

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxAddressLength = 254

var (
	ErrEmptyRecipient   = errors.New("email: empty recipient")
	ErrInvalidRecipient = errors.New("email: invalid recipient address")
	ErrEmptyContent     = errors.New("email: empty subject or body")
)

// same rule the HTTP binding applies through the "email" tag
var addressValidator = validator.New()

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, input SendEmailInput) error
}

func IsEmailValid(address string) bool {
	if len(address) < 3 || len(address) > maxAddressLength {
		return false
	}
	return addressValidator.Var(address, "email") == nil
}

// GenerateBodyFromHTML executes the named template from templates and stores the result as Body.
func (e *SendEmailInput) GenerateBodyFromHTML(templates fs.FS, name string, data any) error {
	tmpl, err := template.ParseFS(templates, name)
	if err != nil {
		return fmt.Errorf("email: parse template %q: %w", name, err)
	}

	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("email: execute template %q: %w", name, err)
	}
	e.Body = body.String()

	return nil
}

func (e *SendEmailInput) Validate() error {
	switch {
	case e.To == "":
		return ErrEmptyRecipient
	case !IsEmailValid(e.To):
		return ErrInvalidRecipient
	case e.Subject == "" || e.Body == "":
		return ErrEmptyContent
	}
	return nil
}
