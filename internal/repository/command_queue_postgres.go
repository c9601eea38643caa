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

// CommandQueueRepository implements the domain.CommandQueueRepository interface using PostgreSQL
type CommandQueueRepository struct {
	db *sql.DB
}

// NewCommandQueueRepository creates a new CommandQueueRepository instance
func NewCommandQueueRepository(db *sql.DB) domain.CommandQueueRepository {
	return &CommandQueueRepository{db: db}
}

var queueItemColumns = []string{
	"id", "owner", "domain", "action_type", "action_context", "aps_score",
	"reasoning", "due_by", "status", "status_reason", "signal_ids",
	"received_at", "created_at", "updated_at",
}

func scanQueueItem(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.CommandQueueItem, error) {
	var item domain.CommandQueueItem
	var owner, reasoning, statusReason sql.NullString
	var dueBy sql.NullTime

	err := scanner.Scan(
		&item.ID,
		&owner,
		&item.Domain,
		&item.ActionType,
		&item.ActionContext,
		&item.APSScore,
		&reasoning,
		&dueBy,
		&item.Status,
		&statusReason,
		&item.SignalIDs,
		&item.ReceivedAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Owner = owner.String
	item.Reasoning = reasoning.String
	item.StatusReason = statusReason.String
	if dueBy.Valid {
		item.DueBy = &dueBy.Time
	}

	return &item, nil
}

// Create adds a new queue item
func (r *CommandQueueRepository) Create(ctx context.Context, item *domain.CommandQueueItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.CreateTx(ctx, tx, item); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateTx adds a new queue item within a transaction
func (r *CommandQueueRepository) CreateTx(ctx context.Context, tx *sql.Tx, item *domain.CommandQueueItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = domain.QueueItemPending
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.ReceivedAt.IsZero() {
		item.ReceivedAt = now
	}

	query := `
		INSERT INTO command_queue_items (
			id, owner, domain, action_type, action_context, aps_score,
			reasoning, due_by, status, status_reason, signal_ids,
			received_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`
	_, err := tx.ExecContext(
		ctx,
		query,
		item.ID,
		item.Owner,
		item.Domain,
		item.ActionType,
		item.ActionContext,
		item.APSScore,
		item.Reasoning,
		item.DueBy,
		item.Status,
		item.StatusReason,
		item.SignalIDs,
		item.ReceivedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert queue item: %w", err)
	}
	return nil
}

// Get retrieves a queue item by ID
func (r *CommandQueueRepository) Get(ctx context.Context, id string) (*domain.CommandQueueItem, error) {
	query := `
		SELECT id, owner, domain, action_type, action_context, aps_score,
			reasoning, due_by, status, status_reason, signal_ids,
			received_at, created_at, updated_at
		FROM command_queue_items WHERE id = $1
	`
	item, err := scanQueueItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "queue item", ID: id}
		}
		return nil, fmt.Errorf("failed to get queue item: %w", err)
	}
	return item, nil
}

// GetByDraftID retrieves the queue item referencing a draft
func (r *CommandQueueRepository) GetByDraftID(ctx context.Context, draftID string) (*domain.CommandQueueItem, error) {
	query := `
		SELECT id, owner, domain, action_type, action_context, aps_score,
			reasoning, due_by, status, status_reason, signal_ids,
			received_at, created_at, updated_at
		FROM command_queue_items
		WHERE action_context->>'draft_id' = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	item, err := scanQueueItem(r.db.QueryRowContext(ctx, query, draftID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "queue item", ID: draftID}
		}
		return nil, fmt.Errorf("failed to get queue item by draft: %w", err)
	}
	return item, nil
}

// Update persists a queue item's mutable fields
func (r *CommandQueueRepository) Update(ctx context.Context, item *domain.CommandQueueItem) error {
	item.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE command_queue_items
		SET owner = $2, domain = $3, action_type = $4, action_context = $5,
			aps_score = $6, reasoning = $7, due_by = $8, status = $9,
			status_reason = $10, signal_ids = $11, updated_at = $12
		WHERE id = $1
	`
	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Owner,
		item.Domain,
		item.ActionType,
		item.ActionContext,
		item.APSScore,
		item.Reasoning,
		item.DueBy,
		item.Status,
		item.StatusReason,
		item.SignalIDs,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update queue item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "queue item", ID: item.ID}
	}
	return nil
}

// SetStatus updates a queue item's status
func (r *CommandQueueRepository) SetStatus(ctx context.Context, id string, status domain.QueueItemStatus, reason string) error {
	query := `
		UPDATE command_queue_items
		SET status = $2, status_reason = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status, reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set queue item status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "queue item", ID: id}
	}
	return nil
}

// ListToday returns pending and accepted items ordered by APS descending.
// Ties break on earlier due_by (nulls last), then earlier received_at, then
// id for determinism.
func (r *CommandQueueRepository) ListToday(ctx context.Context, queueDomain domain.QueueDomain, limit int) ([]*domain.CommandQueueItem, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Select(queueItemColumns...).
		From("command_queue_items").
		Where(sq.Eq{"status": []string{string(domain.QueueItemPending), string(domain.QueueItemAccepted)}}).
		OrderBy(
			"aps_score DESC",
			"due_by ASC NULLS LAST",
			"received_at ASC",
			"id ASC",
		).
		Limit(uint64(limit))

	if queueDomain != "" {
		query = query.Where(sq.Eq{"domain": string(queueDomain)})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build queue query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}
	defer rows.Close()

	var items []*domain.CommandQueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue item rows: %w", err)
	}
	return items, nil
}

// ListByStatus returns queue items in one status, newest first
func (r *CommandQueueRepository) ListByStatus(ctx context.Context, status domain.QueueItemStatus, limit int) ([]*domain.CommandQueueItem, error) {
	query := `
		SELECT id, owner, domain, action_type, action_context, aps_score,
			reasoning, due_by, status, status_reason, signal_ids,
			received_at, created_at, updated_at
		FROM command_queue_items
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items by status: %w", err)
	}
	defer rows.Close()

	var items []*domain.CommandQueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue item rows: %w", err)
	}
	return items, nil
}
