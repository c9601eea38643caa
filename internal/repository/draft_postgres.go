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

// DraftRepository implements the domain.DraftRepository interface using PostgreSQL
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new DraftRepository instance
func NewDraftRepository(db *sql.DB) domain.DraftRepository {
	return &DraftRepository{db: db}
}

const draftColumns = `
	id, workflow_id, contact_id, recipient, subject, body_text, body_html,
	thread_headers, voice_profile_id, status, status_reason, external_draft_id,
	metadata, created_at, status_changed_at, updated_at
`

func scanDraft(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.DraftEmail, error) {
	var draft domain.DraftEmail
	var bodyHTML, statusReason, externalDraftID, voiceProfileID sql.NullString

	err := scanner.Scan(
		&draft.ID,
		&draft.WorkflowID,
		&draft.ContactID,
		&draft.Recipient,
		&draft.Subject,
		&draft.BodyText,
		&bodyHTML,
		&draft.ThreadHeaders,
		&voiceProfileID,
		&draft.Status,
		&statusReason,
		&externalDraftID,
		&draft.Metadata,
		&draft.CreatedAt,
		&draft.StatusChangedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	draft.BodyHTML = bodyHTML.String
	draft.StatusReason = statusReason.String
	draft.ExternalDraftID = externalDraftID.String
	if voiceProfileID.Valid {
		draft.VoiceProfileID = &voiceProfileID.String
	}

	return &draft, nil
}

// Create adds a new draft
func (r *DraftRepository) Create(ctx context.Context, draft *domain.DraftEmail) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.CreateTx(ctx, tx, draft); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateTx adds a new draft within a transaction
func (r *DraftRepository) CreateTx(ctx context.Context, tx *sql.Tx, draft *domain.DraftEmail) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.Status == "" {
		draft.Status = domain.DraftStatusPending
	}

	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.StatusChangedAt = now
	draft.UpdatedAt = now

	query := `
		INSERT INTO drafts (
			id, workflow_id, contact_id, recipient, subject, body_text, body_html,
			thread_headers, voice_profile_id, status, status_reason, external_draft_id,
			metadata, created_at, status_changed_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`
	_, err := tx.ExecContext(
		ctx,
		query,
		draft.ID,
		draft.WorkflowID,
		draft.ContactID,
		draft.Recipient,
		draft.Subject,
		draft.BodyText,
		draft.BodyHTML,
		draft.ThreadHeaders,
		draft.VoiceProfileID,
		draft.Status,
		draft.StatusReason,
		draft.ExternalDraftID,
		draft.Metadata,
		draft.CreatedAt,
		draft.StatusChangedAt,
		draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}
	return nil
}

// Get retrieves a draft by ID
func (r *DraftRepository) Get(ctx context.Context, id string) (*domain.DraftEmail, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1`

	draft, err := scanDraft(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "draft", ID: id}
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// GetByWorkflowID retrieves the draft a workflow produced
func (r *DraftRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*domain.DraftEmail, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE workflow_id = $1 ORDER BY created_at DESC LIMIT 1`

	draft, err := scanDraft(r.db.QueryRowContext(ctx, query, workflowID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "draft", ID: workflowID}
		}
		return nil, fmt.Errorf("failed to get draft by workflow: %w", err)
	}
	return draft, nil
}

// Update persists mutable draft fields without a status change
func (r *DraftRepository) Update(ctx context.Context, draft *domain.DraftEmail) error {
	draft.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE drafts
		SET subject = $2, body_text = $3, body_html = $4, thread_headers = $5,
			voice_profile_id = $6, external_draft_id = $7, metadata = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := r.db.ExecContext(
		ctx,
		query,
		draft.ID,
		draft.Subject,
		draft.BodyText,
		draft.BodyHTML,
		draft.ThreadHeaders,
		draft.VoiceProfileID,
		draft.ExternalDraftID,
		draft.Metadata,
		draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "draft", ID: draft.ID}
	}
	return nil
}

// UpdateStatus loads the row FOR UPDATE, validates the transition against
// the draft state machine, and persists the new status in one transaction.
func (r *DraftRepository) UpdateStatus(ctx context.Context, id string, to domain.DraftStatus, reason string) (*domain.DraftEmail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1 FOR UPDATE`
	draft, err := scanDraft(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "draft", ID: id}
		}
		return nil, fmt.Errorf("failed to lock draft: %w", err)
	}

	if err := draft.Transition(to, reason); err != nil {
		return nil, err
	}
	draft.UpdatedAt = draft.StatusChangedAt

	_, err = tx.ExecContext(ctx, `
		UPDATE drafts
		SET status = $2, status_reason = $3, status_changed_at = $4, updated_at = $4
		WHERE id = $1
	`, draft.ID, draft.Status, draft.StatusReason, draft.StatusChangedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return draft, nil
}

// ListByStatus returns drafts in the given status, oldest first
func (r *DraftRepository) ListByStatus(ctx context.Context, status domain.DraftStatus, limit int) ([]*domain.DraftEmail, error) {
	query := `
		SELECT ` + draftColumns + `
		FROM drafts
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*domain.DraftEmail
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		drafts = append(drafts, draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}
	return drafts, nil
}
