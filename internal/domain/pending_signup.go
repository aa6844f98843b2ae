package domain

import (
	"time"

	"github.com/google/uuid"
)

type SignupState string

const (
	SignupCollectingInfo SignupState = "collecting_info"
	SignupAwaitingCode   SignupState = "awaiting_code"
	SignupCompleted      SignupState = "completed"
)

type Profile struct {
	FullName    string `json:"full_name"`
	Course      string `json:"course,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Year        string `json:"year,omitempty"`
	Semester    string `json:"semester,omitempty"`
}

// PendingSignup is the registration payload held between code issuance and verification.
type PendingSignup struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Profile      Profile     `json:"profile"`
	State        SignupState `json:"state"`
	LastIssuedAt time.Time   `json:"last_issued_at"`
	CreatedAt    time.Time   `json:"created_at"`
}
