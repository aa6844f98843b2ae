package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/btech-hub/backend/internal/domain"
)

type verificationCodeRepository struct {
	db *sqlx.DB
}

func newVerificationCodeRepository(db *sqlx.DB) *verificationCodeRepository {
	return &verificationCodeRepository{
		db: db,
	}
}

func (r *verificationCodeRepository) Insert(ctx context.Context, code *domain.VerificationCode) error {
	const op = "repository.verificationCode.Insert"

	const query = `
    INSERT INTO verification_code (id, email, purpose, code, used, created_at, expires_at)
    VALUES (:id, :email, :purpose, :code, :used, :created_at, :expires_at)
    `

	res, err := r.db.NamedExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("%s: insert verification code failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *verificationCodeRepository) FindValid(ctx context.Context, email string, purpose domain.CodePurpose, code string, now time.Time) (*domain.VerificationCode, error) {
	const op = "repository.verificationCode.FindValid"

	const query = `
    SELECT id, email, purpose, code, used, used_at, created_at, expires_at
    FROM verification_code
    WHERE email = ? AND purpose = ? AND code = ? AND used = ? AND expires_at > ?
    ORDER BY created_at DESC
    LIMIT 1
    `

	var verificationCode domain.VerificationCode
	if err := r.db.GetContext(ctx, &verificationCode, query, email, purpose, code, false, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select verification code failed: %w", op, err)
	}

	return &verificationCode, nil
}

func (r *verificationCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) error {
	const op = "repository.verificationCode.MarkUsed"

	const query = `
    UPDATE verification_code
    SET used = ?, used_at = ?
    WHERE id = ? AND used = ? AND expires_at > ?
    `

	res, err := r.db.ExecContext(ctx, query, true, now, id, false, now)
	if err != nil {
		return fmt.Errorf("%s: update verification code failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *verificationCodeRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "repository.verificationCode.PurgeExpired"

	const query = `DELETE FROM verification_code WHERE expires_at <= ?`

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: delete expired codes failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}

func (r *verificationCodeRepository) InvalidateActive(ctx context.Context, email string, purpose domain.CodePurpose, now time.Time) (int64, error) {
	const op = "repository.verificationCode.InvalidateActive"

	const query = `
    UPDATE verification_code
    SET used = ?, used_at = ?
    WHERE email = ? AND purpose = ? AND used = ? AND expires_at > ?
    `

	res, err := r.db.ExecContext(ctx, query, true, now, email, purpose, false, now)
	if err != nil {
		return 0, fmt.Errorf("%s: invalidate codes failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}
