package processor

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/btech-hub/backend/internal/worker"
)

type purgeExpiredCodesProcessor struct {
	workers *worker.Workers
}

func NewPurgeExpiredCodesProcessor(workers *worker.Workers) *purgeExpiredCodesProcessor {
	return &purgeExpiredCodesProcessor{
		workers: workers,
	}
}

func (p *purgeExpiredCodesProcessor) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	if _, err := p.workers.CodePurger.PurgeExpired(ctx); err != nil {
		return fmt.Errorf("purge expired codes failed: %w", err)
	}

	return nil
}
