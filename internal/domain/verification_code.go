package domain

import (
	"time"

	"github.com/google/uuid"
)

type CodePurpose string

const (
	PurposeSignup   CodePurpose = "signup"
	PurposeRecovery CodePurpose = "recovery"
)

func (p CodePurpose) Valid() bool {
	return p == PurposeSignup || p == PurposeRecovery
}

// VerificationCode is a short-lived single-use code sent to an email address.
type VerificationCode struct {
	ID        uuid.UUID   `db:"id"`
	Email     string      `db:"email"`
	Purpose   CodePurpose `db:"purpose"`
	Code      string      `db:"code"`
	Used      bool        `db:"used"`
	UsedAt    *time.Time  `db:"used_at"`
	CreatedAt time.Time   `db:"created_at"`
	ExpiresAt time.Time   `db:"expires_at"`
}

// Consumable reports whether the code may still be spent at now.
func (c *VerificationCode) Consumable(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}
