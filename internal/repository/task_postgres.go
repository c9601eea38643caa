package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/domain"
)

// TaskRepository implements the domain.TaskRepository interface using PostgreSQL
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository instance
func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &TaskRepository{db: db}
}

// WithTransaction executes a function within a transaction
// All task processing follows this pattern:
// 1. Get the task with FOR UPDATE to acquire a row-level lock
// 2. Perform operations on the task
// 3. Update or mark the task with a new status
// This prevents multiple workers from processing the same task simultaneously
func (r *TaskRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// no-op if we successfully commit
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Create adds a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.CreateTx(ctx, tx, task)
	})
}

// CreateTx adds a new task within a transaction
func (r *TaskRepository) CreateTx(ctx context.Context, tx *sql.Tx, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.MaxRetries == 0 {
		task.MaxRetries = 3
	}
	if task.RetryInterval == 0 {
		task.RetryInterval = 60
	}
	if task.MaxRuntime == 0 {
		task.MaxRuntime = 300
	}

	query := `
		INSERT INTO tasks (
			id, name, payload, status, error_message,
			retry_count, max_retries, retry_interval, max_runtime,
			next_run_after, timeout_after, last_run_at, completed_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Payload,
		task.Status,
		task.ErrorMessage,
		task.RetryCount,
		task.MaxRetries,
		task.RetryInterval,
		task.MaxRuntime,
		task.NextRunAfter,
		task.TimeoutAfter,
		task.LastRunAt,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

const taskColumns = `
	id, name, payload, status, error_message,
	retry_count, max_retries, retry_interval, max_runtime,
	next_run_after, timeout_after, last_run_at, completed_at,
	created_at, updated_at
`

func scanTask(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var errorMessage sql.NullString
	var nextRunAfter, timeoutAfter, lastRunAt, completedAt sql.NullTime

	err := scanner.Scan(
		&task.ID,
		&task.Name,
		&task.Payload,
		&task.Status,
		&errorMessage,
		&task.RetryCount,
		&task.MaxRetries,
		&task.RetryInterval,
		&task.MaxRuntime,
		&nextRunAfter,
		&timeoutAfter,
		&lastRunAt,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.ErrorMessage = errorMessage.String
	if nextRunAfter.Valid {
		task.NextRunAfter = &nextRunAfter.Time
	}
	if timeoutAfter.Valid {
		task.TimeoutAfter = &timeoutAfter.Time
	}
	if lastRunAt.Valid {
		task.LastRunAt = &lastRunAt.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return &task, nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "task", ID: id}
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET
			name = $2,
			payload = $3,
			status = $4,
			error_message = $5,
			retry_count = $6,
			max_retries = $7,
			retry_interval = $8,
			max_runtime = $9,
			next_run_after = $10,
			timeout_after = $11,
			last_run_at = $12,
			completed_at = $13,
			updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Payload,
		task.Status,
		task.ErrorMessage,
		task.RetryCount,
		task.MaxRetries,
		task.RetryInterval,
		task.MaxRuntime,
		task.NextRunAfter,
		task.TimeoutAfter,
		task.LastRunAt,
		task.CompletedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "task", ID: task.ID}
	}

	return nil
}

// GetNextBatch claims up to limit runnable tasks. FOR UPDATE SKIP LOCKED
// keeps concurrent workers from double-claiming a row.
func (r *TaskRepository) GetNextBatch(ctx context.Context, limit int) ([]*domain.Task, error) {
	now := time.Now().UTC()
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Select(
		"id", "name", "payload", "status", "error_message",
		"retry_count", "max_retries", "retry_interval", "max_runtime",
		"next_run_after", "timeout_after", "last_run_at", "completed_at",
		"created_at", "updated_at",
	).
		From("tasks").
		Where(sq.Or{
			sq.And{
				sq.Eq{"status": []string{string(domain.TaskStatusPending), string(domain.TaskStatusPaused)}},
				sq.Or{
					sq.Eq{"next_run_after": nil},
					sq.LtOrEq{"next_run_after": now},
				},
			},
			// running tasks whose timeout has passed are reclaimed
			sq.And{
				sq.Eq{"status": string(domain.TaskStatusRunning)},
				sq.LtOrEq{"timeout_after": now},
			},
		}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build next batch query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get next batch of tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// MarkAsRunning marks a task as running and sets timeout
func (r *TaskRepository) MarkAsRunning(ctx context.Context, id string, timeoutAfter time.Time) error {
	now := time.Now().UTC()
	query := `
		UPDATE tasks
		SET status = $2, timeout_after = $3, last_run_at = $4, updated_at = $4
		WHERE id = $1
	`
	return r.exec(ctx, query, id, domain.TaskStatusRunning, timeoutAfter.UTC(), now)
}

// MarkAsCompleted marks a task as completed
func (r *TaskRepository) MarkAsCompleted(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `
		UPDATE tasks
		SET status = $2, completed_at = $3, timeout_after = NULL, error_message = NULL, updated_at = $3
		WHERE id = $1
	`
	return r.exec(ctx, query, id, domain.TaskStatusCompleted, now)
}

// MarkAsFailed marks a task as permanently failed
func (r *TaskRepository) MarkAsFailed(ctx context.Context, id string, errMsg string) error {
	now := time.Now().UTC()
	query := `
		UPDATE tasks
		SET status = $2, error_message = $3, timeout_after = NULL, updated_at = $4
		WHERE id = $1
	`
	return r.exec(ctx, query, id, domain.TaskStatusFailed, errMsg, now)
}

// MarkAsPaused marks a task as paused until its next retry
func (r *TaskRepository) MarkAsPaused(ctx context.Context, id string, nextRunAfter time.Time, errMsg string) error {
	now := time.Now().UTC()
	query := `
		UPDATE tasks
		SET status = $2, next_run_after = $3, error_message = $4,
			retry_count = retry_count + 1, timeout_after = NULL, updated_at = $5
		WHERE id = $1
	`
	return r.exec(ctx, query, id, domain.TaskStatusPaused, nextRunAfter.UTC(), errMsg, now)
}

// CountRunnable returns the broker depth used for backpressure decisions.
func (r *TaskRepository) CountRunnable(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM tasks
		WHERE status IN ($1, $2, $3)
	`
	var count int
	err := r.db.QueryRowContext(ctx, query,
		domain.TaskStatusPending, domain.TaskStatusPaused, domain.TaskStatusRunning).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runnable tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) exec(ctx context.Context, query string, id string, args ...interface{}) error {
	all := append([]interface{}{id}, args...)
	result, err := r.db.ExecContext(ctx, query, all...)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "task", ID: id}
	}
	return nil
}
