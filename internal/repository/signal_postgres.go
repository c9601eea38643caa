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

// SignalRepository implements the domain.SignalRepository interface using PostgreSQL
type SignalRepository struct {
	db *sql.DB
}

// NewSignalRepository creates a new SignalRepository instance
func NewSignalRepository(db *sql.DB) domain.SignalRepository {
	return &SignalRepository{db: db}
}

const signalColumns = `
	id, source, kind, dedupe_hash, payload, received_at,
	processed_at, workflow_id, created_at, updated_at
`

func scanSignal(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Signal, error) {
	var signal domain.Signal
	var processedAt sql.NullTime
	var workflowID sql.NullString

	err := scanner.Scan(
		&signal.ID,
		&signal.Source,
		&signal.Kind,
		&signal.DedupeHash,
		&signal.Payload,
		&signal.ReceivedAt,
		&processedAt,
		&workflowID,
		&signal.CreatedAt,
		&signal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if processedAt.Valid {
		signal.ProcessedAt = &processedAt.Time
	}
	if workflowID.Valid {
		signal.WorkflowID = &workflowID.String
	}

	return &signal, nil
}

// InsertIfAbsent inserts the signal unless (source, dedupe_hash) already
// exists. ON CONFLICT DO NOTHING decides duplication atomically; on a
// duplicate the stored row is returned with inserted=false.
func (r *SignalRepository) InsertIfAbsent(ctx context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
	if err := signal.Validate(); err != nil {
		return nil, false, err
	}
	if signal.ID == "" {
		signal.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	signal.CreatedAt = now
	signal.UpdatedAt = now
	if signal.ReceivedAt.IsZero() {
		signal.ReceivedAt = now
	}

	query := `
		INSERT INTO signals (id, source, kind, dedupe_hash, payload, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source, dedupe_hash) DO NOTHING
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		signal.ID,
		signal.Source,
		signal.Kind,
		signal.DedupeHash,
		signal.Payload,
		signal.ReceivedAt,
		signal.CreatedAt,
		signal.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert signal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 1 {
		return signal, true, nil
	}

	stored, err := r.GetByDedupeHash(ctx, signal.Source, signal.DedupeHash)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// Get retrieves a signal by ID
func (r *SignalRepository) Get(ctx context.Context, id string) (*domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE id = $1`

	signal, err := scanSignal(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "signal", ID: id}
		}
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	return signal, nil
}

// GetByDedupeHash retrieves a signal by its unique (source, dedupe_hash) pair
func (r *SignalRepository) GetByDedupeHash(ctx context.Context, source domain.SignalSource, hash string) (*domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE source = $1 AND dedupe_hash = $2`

	signal, err := scanSignal(r.db.QueryRowContext(ctx, query, source, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "signal", ID: hash}
		}
		return nil, fmt.Errorf("failed to get signal by dedupe hash: %w", err)
	}
	return signal, nil
}

// MarkProcessed records that the signal produced its downstream artifact.
func (r *SignalRepository) MarkProcessed(ctx context.Context, id string, workflowID *string) error {
	query := `
		UPDATE signals
		SET processed_at = $2, workflow_id = $3, updated_at = $2
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC(), workflowID)
	if err != nil {
		return fmt.Errorf("failed to mark signal processed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "signal", ID: id}
	}
	return nil
}

// MarkProcessedTx is MarkProcessed within a caller-owned transaction.
func (r *SignalRepository) MarkProcessedTx(ctx context.Context, tx *sql.Tx, id string, workflowID *string) error {
	query := `
		UPDATE signals
		SET processed_at = $2, workflow_id = $3, updated_at = $2
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query, id, time.Now().UTC(), workflowID)
	if err != nil {
		return fmt.Errorf("failed to mark signal processed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "signal", ID: id}
	}
	return nil
}

// ListUnprocessed returns signals awaiting classification, oldest first
func (r *SignalRepository) ListUnprocessed(ctx context.Context, limit int) ([]*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE processed_at IS NULL
		ORDER BY received_at ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed signals: %w", err)
	}
	defer rows.Close()

	var signals []*domain.Signal
	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal row: %w", err)
		}
		signals = append(signals, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w", err)
	}
	return signals, nil
}

// CountSince counts signals received after the given time
func (r *SignalRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM signals WHERE received_at >= $1`, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count signals: %w", err)
	}
	return count, nil
}
