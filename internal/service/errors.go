package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExist     = errors.New("user already exist")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrSessionExpired       = errors.New("signup session expired")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")

	ErrDeliveryFailed = errors.New("verification email delivery failed")
	ErrEmailDisabled  = errors.New("email delivery is not configured")
)

// ValidationError reports malformed input rejected before storage is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InfrastructureError wraps a store or transport failure; callers may retry.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func infraError(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func IsInfrastructureError(err error) bool {
	var ierr *InfrastructureError
	return errors.As(err, &ierr)
}
