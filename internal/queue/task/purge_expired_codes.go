package task

import (
	"time"

	"github.com/hibiken/asynq"
)

const (
	PurgeExpiredCodesTaskName  = "purgeExpiredCodesTask"
	PurgeExpiredCodesQueueName = "maintenanceQueue"

	PurgeExpiredCodesUniqueTTL = time.Minute
)

func NewPurgeExpiredCodesTask() *asynq.Task {
	return asynq.NewTask(
		PurgeExpiredCodesTaskName,
		nil,
		asynq.MaxRetry(1),
		asynq.Queue(PurgeExpiredCodesQueueName),
		asynq.Unique(PurgeExpiredCodesUniqueTTL),
	)
}
