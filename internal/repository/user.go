package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/btech-hub/backend/internal/db"
	"github.com/btech-hub/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func newUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, email, password_hash, full_name, course, phone_number, year, semester, email_verified_at, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const op = "repository.user.Create"
	const query = `
	INSERT INTO user
	(id, email, password_hash, full_name, course, phone_number, year, semester, email_verified_at, created_at, updated_at)
	VALUES (:id, :email, :password_hash, :full_name, :course, :phone_number, :year, :semester, :email_verified_at, :created_at, :updated_at);
	`

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert user: %w", op, err)
	}

	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	} else if n == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "repository.user.GetByEmail"

	var user domain.User
	query := `SELECT ` + userColumns + ` FROM user WHERE email = ?;`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select user: %w", op, err)
	}

	return &user, nil
}

func (r *userRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "repository.user.GetOneByID"

	var user domain.User
	query := `SELECT ` + userColumns + ` FROM user WHERE id = ?;`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select user: %w", op, err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const op = "repository.user.UpdatePassword"
	const query = `UPDATE user SET password_hash = ?, updated_at = ? WHERE id = ?;`

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC().Truncate(time.Second), id)
	if err != nil {
		return fmt.Errorf("%s: update password: %w", op, err)
	}

	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	} else if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}
