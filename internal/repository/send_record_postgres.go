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

// SendRecordRepository implements the domain.SendRecordRepository interface using PostgreSQL
type SendRecordRepository struct {
	db *sql.DB
}

// NewSendRecordRepository creates a new SendRecordRepository instance
func NewSendRecordRepository(db *sql.DB) domain.SendRecordRepository {
	return &SendRecordRepository{db: db}
}

const sendRecordColumns = `
	id, draft_id, recipient, idempotency_key, sent_at,
	external_message_id, thread_id, created_at
`

func scanSendRecord(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.SendRecord, error) {
	var record domain.SendRecord
	var externalMessageID, threadID sql.NullString

	err := scanner.Scan(
		&record.ID,
		&record.DraftID,
		&record.Recipient,
		&record.IdempotencyKey,
		&record.SentAt,
		&externalMessageID,
		&threadID,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ExternalMessageID = externalMessageID.String
	record.ThreadID = threadID.String
	return &record, nil
}

// Create adds a new send record
func (r *SendRecordRepository) Create(ctx context.Context, record *domain.SendRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.CreateTx(ctx, tx, record); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateTx adds a new send record within a transaction. The unique index on
// idempotency_key makes duplicate sends a database-level conflict.
func (r *SendRecordRepository) CreateTx(ctx context.Context, tx *sql.Tx, record *domain.SendRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now().UTC()
	if record.SentAt.IsZero() {
		record.SentAt = record.CreatedAt
	}

	query := `
		INSERT INTO send_records (id, draft_id, recipient, idempotency_key, sent_at, external_message_id, thread_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(
		ctx,
		query,
		record.ID,
		record.DraftID,
		record.Recipient,
		record.IdempotencyKey,
		record.SentAt,
		record.ExternalMessageID,
		record.ThreadID,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert send record: %w", err)
	}
	return nil
}

// GetByDraftID retrieves the send record for a draft
func (r *SendRecordRepository) GetByDraftID(ctx context.Context, draftID string) (*domain.SendRecord, error) {
	query := `SELECT ` + sendRecordColumns + ` FROM send_records WHERE draft_id = $1 ORDER BY sent_at DESC LIMIT 1`

	record, err := scanSendRecord(r.db.QueryRowContext(ctx, query, draftID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "send record", ID: draftID}
		}
		return nil, fmt.Errorf("failed to get send record: %w", err)
	}
	return record, nil
}

// GetByIdempotencyKey retrieves a send record by its idempotency key
func (r *SendRecordRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.SendRecord, error) {
	query := `SELECT ` + sendRecordColumns + ` FROM send_records WHERE idempotency_key = $1`

	record, err := scanSendRecord(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "send record", ID: key}
		}
		return nil, fmt.Errorf("failed to get send record by idempotency key: %w", err)
	}
	return record, nil
}

// CountForRecipientSince counts sends to one recipient after the given time
func (r *SendRecordRepository) CountForRecipientSince(ctx context.Context, recipient string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM send_records WHERE recipient = $1 AND sent_at >= $2`,
		recipient, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count send records for recipient: %w", err)
	}
	return count, nil
}

// CountSince counts all sends after the given time
func (r *SendRecordRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM send_records WHERE sent_at >= $1`, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count send records: %w", err)
	}
	return count, nil
}

// ListRecent returns the newest send records
func (r *SendRecordRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SendRecord, error) {
	query := `SELECT ` + sendRecordColumns + ` FROM send_records ORDER BY sent_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list send records: %w", err)
	}
	defer rows.Close()

	var records []*domain.SendRecord
	for rows.Next() {
		record, err := scanSendRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan send record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating send record rows: %w", err)
	}
	return records, nil
}
