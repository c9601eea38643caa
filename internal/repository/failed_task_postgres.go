package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/domain"
)

// FailedTaskRepository implements the domain.FailedTaskRepository interface using PostgreSQL
type FailedTaskRepository struct {
	db *sql.DB
}

// NewFailedTaskRepository creates a new FailedTaskRepository instance
func NewFailedTaskRepository(db *sql.DB) domain.FailedTaskRepository {
	return &FailedTaskRepository{db: db}
}

const failedTaskColumns = `
	id, task_name, payload, error_text, retry_count,
	next_retry_at, resolved_at, created_at, updated_at
`

func scanFailedTask(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.FailedTask, error) {
	var task domain.FailedTask
	var nextRetryAt, resolvedAt sql.NullTime

	err := scanner.Scan(
		&task.ID,
		&task.TaskName,
		&task.Payload,
		&task.ErrorText,
		&task.RetryCount,
		&nextRetryAt,
		&resolvedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextRetryAt.Valid {
		task.NextRetryAt = &nextRetryAt.Time
	}
	if resolvedAt.Valid {
		task.ResolvedAt = &resolvedAt.Time
	}
	return &task, nil
}

// Create adds a dead-letter entry
func (r *FailedTaskRepository) Create(ctx context.Context, task *domain.FailedTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO failed_tasks (id, task_name, payload, error_text, retry_count, next_retry_at, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.TaskName, task.Payload, task.ErrorText, task.RetryCount,
		task.NextRetryAt, task.ResolvedAt, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert failed task: %w", err)
	}
	return nil
}

// Get retrieves a dead-letter entry by ID
func (r *FailedTaskRepository) Get(ctx context.Context, id string) (*domain.FailedTask, error) {
	query := `SELECT ` + failedTaskColumns + ` FROM failed_tasks WHERE id = $1`

	task, err := scanFailedTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "failed task", ID: id}
		}
		return nil, fmt.Errorf("failed to get failed task: %w", err)
	}
	return task, nil
}

// Update persists retry bookkeeping
func (r *FailedTaskRepository) Update(ctx context.Context, task *domain.FailedTask) error {
	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE failed_tasks
		SET error_text = $2, retry_count = $3, next_retry_at = $4, resolved_at = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		task.ID, task.ErrorText, task.RetryCount, task.NextRetryAt, task.ResolvedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update failed task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "failed task", ID: task.ID}
	}
	return nil
}

// MarkResolved closes a dead-letter entry
func (r *FailedTaskRepository) MarkResolved(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE failed_tasks SET resolved_at = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, at.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark failed task resolved: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "failed task", ID: id}
	}
	return nil
}

// ListDue returns unresolved entries whose next_retry_at has passed
func (r *FailedTaskRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.FailedTask, error) {
	query := `
		SELECT ` + failedTaskColumns + `
		FROM failed_tasks
		WHERE resolved_at IS NULL AND next_retry_at IS NOT NULL AND next_retry_at <= $1
		ORDER BY next_retry_at ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due failed tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.FailedTask
	for rows.Next() {
		task, err := scanFailedTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan failed task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failed task rows: %w", err)
	}
	return tasks, nil
}

// ListUnresolved returns open entries with a total count
func (r *FailedTaskRepository) ListUnresolved(ctx context.Context, limit, offset int) ([]*domain.FailedTask, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM failed_tasks WHERE resolved_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count unresolved failed tasks: %w", err)
	}

	query := `
		SELECT ` + failedTaskColumns + `
		FROM failed_tasks
		WHERE resolved_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list unresolved failed tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.FailedTask
	for rows.Next() {
		task, err := scanFailedTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan failed task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating failed task rows: %w", err)
	}
	return tasks, total, nil
}
