package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/queue/task"
	"github.com/btech-hub/backend/internal/worker"
)

type sendEmailProcessor struct {
	workers *worker.Workers
}

func NewSendEmailProcessor(workers *worker.Workers) *sendEmailProcessor {
	return &sendEmailProcessor{
		workers: workers,
	}
}

func (p *sendEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendEmail
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process send email task json unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	err = p.workers.EmailSender.SendVerificationEmail(ctx, data.Email, data.VerificationCode, domain.CodePurpose(data.Purpose))
	if errors.Is(err, worker.ErrSkipRetry) {
		return fmt.Errorf("send verification email failed: %v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("send verification email failed: %w", err)
	}

	return nil
}
