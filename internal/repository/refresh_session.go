package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/btech-hub/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type refreshSessionRepository struct {
	db *sqlx.DB
}

func newRefreshSessionRepository(db *sqlx.DB) *refreshSessionRepository {
	return &refreshSessionRepository{
		db: db,
	}
}

func (r *refreshSessionRepository) Create(ctx context.Context, session *domain.RefreshSession) error {
	const query = `
	INSERT INTO refresh_session (id, user_id, refresh_token, user_agent, ip, expires_at, created_at)
	VALUES (:id, :user_id, :refresh_token, :user_agent, :ip, :expires_at, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("db insert refresh session: %w", err)
	}

	return nil
}

func (r *refreshSessionRepository) GetByToken(ctx context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error) {
	const op = "repository.refresh_session.GetByToken"
	const query = `
	SELECT id, user_id, refresh_token, user_agent, ip, expires_at, created_at
	FROM refresh_session WHERE refresh_token = ?;
	`

	var session domain.RefreshSession
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select session: %w", op, err)
	}

	return &session, nil
}

// DeleteByToken removes the session. ErrNotFound means another request already removed it.
func (r *refreshSessionRepository) DeleteByToken(ctx context.Context, refreshToken uuid.UUID) error {
	const op = "repository.refresh_session.DeleteByToken"
	const query = `DELETE FROM refresh_session WHERE refresh_token = ?;`

	result, err := r.db.ExecContext(ctx, query, refreshToken)
	if err != nil {
		return fmt.Errorf("%s: delete session: %w", op, err)
	}

	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	} else if n == 0 {
		return domain.ErrNotFound
	}

	return nil
}
