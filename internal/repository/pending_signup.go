package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/btech-hub/backend/internal/domain"
)

const pendingSignupKeyPrefix = "signup:pending:"

type pendingSignupRepository struct {
	rdb redis.UniversalClient
}

func newPendingSignupRepository(rdb redis.UniversalClient) *pendingSignupRepository {
	return &pendingSignupRepository{
		rdb: rdb,
	}
}

func pendingSignupKey(id uuid.UUID) string {
	return pendingSignupKeyPrefix + id.String()
}

func (r *pendingSignupRepository) Save(ctx context.Context, pending *domain.PendingSignup, ttl time.Duration) error {
	const op = "repository.pendingSignup.Save"

	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("%s: marshal pending signup failed: %w", op, err)
	}

	if err := r.rdb.Set(ctx, pendingSignupKey(pending.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%s: redis set failed: %w", op, err)
	}

	return nil
}

func (r *pendingSignupRepository) Get(ctx context.Context, id uuid.UUID) (*domain.PendingSignup, error) {
	const op = "repository.pendingSignup.Get"

	payload, err := r.rdb.Get(ctx, pendingSignupKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: redis get failed: %w", op, err)
	}

	var pending domain.PendingSignup
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("%s: unmarshal pending signup failed: %w", op, err)
	}

	return &pending, nil
}

func (r *pendingSignupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "repository.pendingSignup.Delete"

	if err := r.rdb.Del(ctx, pendingSignupKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: redis del failed: %w", op, err)
	}

	return nil
}
