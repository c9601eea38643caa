package domain

import (
	"context"
	"database/sql"
	"time"
)

//go:generate mockgen -destination mocks/mock_task_repository.go -package mocks github.com/caseyos/caseyos/internal/domain TaskRepository
//go:generate mockgen -destination mocks/mock_task_processor.go -package mocks github.com/caseyos/caseyos/internal/domain TaskProcessor

// TaskStatus represents the current state of a background task.
type TaskStatus string

const (
	// TaskStatusPending is for tasks that haven't started yet
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning is for tasks that are currently running
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted is for tasks that have completed successfully
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed is for tasks that have failed permanently
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusPaused is for tasks waiting for their next retry
	TaskStatusPaused TaskStatus = "paused"
)

// Task names understood by the worker.
const (
	TaskProcessSignal   = "process_signal"
	TaskRunWorkflow     = "run_workflow"
	TaskDetectOutcomes  = "detect_outcomes"
	TaskMonitorScan     = "monitor_scan"
	TaskExecuteAction   = "execute_action"
)

// Task is a durable background task executed by the worker pool. The tasks
// table is the broker: workers claim rows with row locks and the gateway
// only ever enqueues.
type Task struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Payload       JSONMap    `json:"payload"`
	Status        TaskStatus `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	RetryInterval int        `json:"retry_interval"` // seconds, base for backoff
	MaxRuntime    int        `json:"max_runtime"`    // seconds
	NextRunAfter  *time.Time `json:"next_run_after,omitempty"`
	TimeoutAfter  *time.Time `json:"timeout_after,omitempty"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TaskProcessor executes one task type.
type TaskProcessor interface {
	// CanProcess reports whether this processor handles the task name.
	CanProcess(taskName string) bool
	// Process runs the task. Returning (false, nil) pauses the task for
	// another run; an error triggers the retry/DLQ policy.
	Process(ctx context.Context, task *Task) (completed bool, err error)
}

// TaskRepository defines task persistence.
type TaskRepository interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error

	Create(ctx context.Context, task *Task) error
	CreateTx(ctx context.Context, tx *sql.Tx, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, task *Task) error

	// GetNextBatch claims runnable tasks with FOR UPDATE SKIP LOCKED so
	// concurrent workers never double-claim.
	GetNextBatch(ctx context.Context, limit int) ([]*Task, error)

	MarkAsRunning(ctx context.Context, id string, timeoutAfter time.Time) error
	MarkAsCompleted(ctx context.Context, id string) error
	MarkAsFailed(ctx context.Context, id string, errMsg string) error
	MarkAsPaused(ctx context.Context, id string, nextRunAfter time.Time, errMsg string) error

	// CountRunnable is the broker depth used for backpressure.
	CountRunnable(ctx context.Context) (int, error)
}
