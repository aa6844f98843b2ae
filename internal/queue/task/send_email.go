package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	SendEmailTaskName  = "sendEmailTask"
	SendEmailQueueName = "sendEmailQueue"

	sendEmailMaxRetry = 5
)

type SendEmail struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
	Purpose          string `json:"purpose"`
}

// NewSendEmailTask builds a delivery retry that is dropped once the code expires.
func NewSendEmailTask(email, verificationCode, purpose string, expiresAt time.Time) (*asynq.Task, error) {
	data := SendEmail{
		Email:            email,
		VerificationCode: verificationCode,
		Purpose:          purpose,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendEmailTaskName,
		payload,
		asynq.MaxRetry(sendEmailMaxRetry),
		asynq.Queue(SendEmailQueueName),
		asynq.Deadline(expiresAt),
	), nil
}
