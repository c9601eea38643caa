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

// WorkflowRepository implements the domain.WorkflowRepository interface using PostgreSQL
type WorkflowRepository struct {
	db *sql.DB
}

// NewWorkflowRepository creates a new WorkflowRepository instance
func NewWorkflowRepository(db *sql.DB) domain.WorkflowRepository {
	return &WorkflowRepository{db: db}
}

const workflowColumns = `
	id, signal_id, state, step_log, task_id, cancelled,
	started_at, completed_at, created_at, updated_at
`

func scanWorkflow(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Workflow, error) {
	var workflow domain.Workflow
	var taskID sql.NullString
	var startedAt, completedAt sql.NullTime

	err := scanner.Scan(
		&workflow.ID,
		&workflow.SignalID,
		&workflow.State,
		&workflow.StepLog,
		&taskID,
		&workflow.Cancelled,
		&startedAt,
		&completedAt,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		workflow.TaskID = &taskID.String
	}
	if startedAt.Valid {
		workflow.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		workflow.CompletedAt = &completedAt.Time
	}

	return &workflow, nil
}

// Create adds a new workflow
func (r *WorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.CreateTx(ctx, tx, workflow); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateTx adds a new workflow within a transaction
func (r *WorkflowRepository) CreateTx(ctx context.Context, tx *sql.Tx, workflow *domain.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	}
	if workflow.State == "" {
		workflow.State = domain.WorkflowStateTriggered
	}

	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	query := `
		INSERT INTO workflows (id, signal_id, state, step_log, task_id, cancelled, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(
		ctx,
		query,
		workflow.ID,
		workflow.SignalID,
		workflow.State,
		workflow.StepLog,
		workflow.TaskID,
		workflow.Cancelled,
		workflow.StartedAt,
		workflow.CompletedAt,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert workflow: %w", err)
	}
	return nil
}

// Get retrieves a workflow by ID
func (r *WorkflowRepository) Get(ctx context.Context, id string) (*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "workflow", ID: id}
		}
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return workflow, nil
}

// GetBySignalID retrieves the workflow spawned by a signal
func (r *WorkflowRepository) GetBySignalID(ctx context.Context, signalID string) (*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE signal_id = $1 ORDER BY created_at DESC LIMIT 1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, signalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "workflow", ID: signalID}
		}
		return nil, fmt.Errorf("failed to get workflow by signal: %w", err)
	}
	return workflow, nil
}

// Update persists workflow state and step log. The row is locked first so
// concurrent transitions serialize.
func (r *WorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT state FROM workflows WHERE id = $1 FOR UPDATE`, workflow.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ErrNotFound{Entity: "workflow", ID: workflow.ID}
		}
		return fmt.Errorf("failed to lock workflow: %w", err)
	}

	workflow.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE workflows
		SET state = $2, step_log = $3, task_id = $4, cancelled = $5,
			started_at = $6, completed_at = $7, updated_at = $8
		WHERE id = $1
	`
	_, err = tx.ExecContext(
		ctx,
		query,
		workflow.ID,
		workflow.State,
		workflow.StepLog,
		workflow.TaskID,
		workflow.Cancelled,
		workflow.StartedAt,
		workflow.CompletedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow: %w", err)
	}

	return tx.Commit()
}

// SetState updates only the workflow state
func (r *WorkflowRepository) SetState(ctx context.Context, id string, state domain.WorkflowState) error {
	query := `UPDATE workflows SET state = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, state, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set workflow state: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "workflow", ID: id}
	}
	return nil
}

// MarkCancelled flips the cancellation flag checked between pipeline steps
func (r *WorkflowRepository) MarkCancelled(ctx context.Context, id string) error {
	query := `UPDATE workflows SET cancelled = TRUE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark workflow cancelled: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "workflow", ID: id}
	}
	return nil
}

// ListByState returns workflows in the given state, oldest first
func (r *WorkflowRepository) ListByState(ctx context.Context, state domain.WorkflowState, limit int) ([]*domain.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE state = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, state, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*domain.Workflow
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow row: %w", err)
		}
		workflows = append(workflows, workflow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflow rows: %w", err)
	}
	return workflows, nil
}

// CountByStateSince counts workflows that entered a state after the given time
func (r *WorkflowRepository) CountByStateSince(ctx context.Context, state domain.WorkflowState, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workflows WHERE state = $1 AND updated_at >= $2`,
		state, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count workflows: %w", err)
	}
	return count, nil
}
