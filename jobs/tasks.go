package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotifyCleanup is the task type for pruning read notifications
	// past the retention window.
	TaskTypeNotifyCleanup = "notify:cleanup"
)

// NotifyCleanupPayload configures a notification retention sweep.
type NotifyCleanupPayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewNotifyCleanupTask constructs an Asynq task for the retention sweep.
func NewNotifyCleanupTask(payload NotifyCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyCleanup, data), nil
}
