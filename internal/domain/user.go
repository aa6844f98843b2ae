package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Email           string         `json:"email" db:"email"`
	PasswordHash    string         `json:"-" db:"password_hash"`
	FullName        string         `json:"full_name" db:"full_name"`
	Course          sql.NullString `json:"course" db:"course"`
	PhoneNumber     sql.NullString `json:"phone_number" db:"phone_number"`
	Year            sql.NullString `json:"year" db:"year"`
	Semester        sql.NullString `json:"semester" db:"semester"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at" db:"email_verified_at"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}
