package asynqserver

import (
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/queue/client"
	"github.com/btech-hub/backend/internal/queue/processor"
	"github.com/btech-hub/backend/internal/queue/task"
	"github.com/btech-hub/backend/internal/worker"
)

func New(cfg *config.Config, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		client.RedisOptions(cfg.Cache),
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

// NewScheduler registers the periodic purge of expired codes.
func NewScheduler(cfg *config.Config) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(client.RedisOptions(cfg.Cache), &asynq.SchedulerOpts{
		LogLevel: asynq.ErrorLevel,
	})

	spec := fmt.Sprintf("@every %s", cfg.Queue.PurgeInterval)
	if _, err := scheduler.Register(spec, task.NewPurgeExpiredCodesTask()); err != nil {
		return nil, fmt.Errorf("register purge task failed: %w", err)
	}

	return scheduler, nil
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.SendEmailTaskName, processor.NewSendEmailProcessor(workers))
	mux.Handle(task.PurgeExpiredCodesTaskName, processor.NewPurgeExpiredCodesProcessor(workers))
	queues := map[string]int{
		task.SendEmailQueueName:         3,
		task.PurgeExpiredCodesQueueName: 1,
	}
	return mux, queues
}
