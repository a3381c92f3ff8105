package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsWarmup pre-populates the reporting cache for a building.
	TaskReportsWarmup = "reports:warmup"
	// TaskSettlementReminder flags buildings whose previous period is
	// still open.
	TaskSettlementReminder = "settlement:reminder"
)

// ReportsWarmupPayload selects the buildings whose projections get warmed.
// An empty BuildingID warms every managed building.
type ReportsWarmupPayload struct {
	BuildingID string `json:"buildingId,omitempty"`
	Month      int    `json:"month,omitempty"`
	Year       int    `json:"year,omitempty"`
}

// NewReportsWarmupTask constructs an Asynq task.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data), nil
}

// SettlementReminderPayload carries no fields yet; the handler scans every
// building.
type SettlementReminderPayload struct{}

// NewSettlementReminderTask constructs an Asynq task.
func NewSettlementReminderTask() (*asynq.Task, error) {
	data, err := json.Marshal(SettlementReminderPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSettlementReminder, data), nil
}
