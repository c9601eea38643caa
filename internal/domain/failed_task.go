package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_failed_task_repository.go -package mocks github.com/caseyos/caseyos/internal/domain FailedTaskRepository

// FailedTask is the dead-letter queue entry for a background task that
// exhausted its retries or failed permanently.
type FailedTask struct {
	ID          string     `json:"id"`
	TaskName    string     `json:"task_name"`
	Payload     JSONMap    `json:"payload"`
	ErrorText   string     `json:"error_text"`
	RetryCount  int        `json:"retry_count"`
	NextRetryAt *time.Time `json:"next_retry_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Resolved reports whether the entry has been retried successfully or
// manually closed.
func (f *FailedTask) Resolved() bool {
	return f.ResolvedAt != nil
}

// FailedTaskRepository defines DLQ persistence.
type FailedTaskRepository interface {
	Create(ctx context.Context, task *FailedTask) error
	Get(ctx context.Context, id string) (*FailedTask, error)
	Update(ctx context.Context, task *FailedTask) error
	MarkResolved(ctx context.Context, id string, at time.Time) error
	// ListDue returns unresolved entries whose next_retry_at has passed.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*FailedTask, error)
	ListUnresolved(ctx context.Context, limit, offset int) ([]*FailedTask, int, error)
}
