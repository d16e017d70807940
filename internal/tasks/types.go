package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeMarkOverdue = "tasks:mark_overdue"
)

// MarkOverduePayload optionally pins the sweep's clock. A zero AsOf means
// "when the task runs".
type MarkOverduePayload struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

func NewMarkOverdueTask(payload MarkOverduePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMarkOverdue, data, asynq.Queue("maintenance"), asynq.MaxRetry(3)), nil
}
