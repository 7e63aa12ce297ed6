package agent

import (
	"workload-node/internal/db"
	"workload-node/internal/workload"
)

// TaskResult представляет собой результат выполнения задачи
type TaskResult struct {
	TaskID string          `json:"task_id"`
	Result workload.Result `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// ResultStore - журнал результатов, из которого агент повторно отправляет уже посчитанное
type ResultStore interface {
	SaveResult(rec db.ResultRecord) error
	GetResult(taskID string) (*db.ResultRecord, error)
}
