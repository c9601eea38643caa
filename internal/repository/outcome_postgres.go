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

// OutcomeRepository implements the domain.OutcomeRepository interface using PostgreSQL
type OutcomeRepository struct {
	db *sql.DB
}

// NewOutcomeRepository creates a new OutcomeRepository instance
func NewOutcomeRepository(db *sql.DB) domain.OutcomeRepository {
	return &OutcomeRepository{db: db}
}

const outcomeColumns = `
	id, subject_kind, subject_id, kind, impact, source, detected_at, details, created_at
`

func scanOutcome(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.OutcomeRecord, error) {
	var record domain.OutcomeRecord
	err := scanner.Scan(
		&record.ID,
		&record.SubjectKind,
		&record.SubjectID,
		&record.Kind,
		&record.Impact,
		&record.Source,
		&record.DetectedAt,
		&record.Details,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create appends an outcome record
func (r *OutcomeRepository) Create(ctx context.Context, record *domain.OutcomeRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now().UTC()
	if record.DetectedAt.IsZero() {
		record.DetectedAt = record.CreatedAt
	}

	query := `
		INSERT INTO outcomes (id, subject_kind, subject_id, kind, impact, source, detected_at, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.SubjectKind, record.SubjectID, record.Kind,
		record.Impact, record.Source, record.DetectedAt, record.Details, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// Get retrieves an outcome by ID
func (r *OutcomeRepository) Get(ctx context.Context, id string) (*domain.OutcomeRecord, error) {
	query := `SELECT ` + outcomeColumns + ` FROM outcomes WHERE id = $1`

	record, err := scanOutcome(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "outcome", ID: id}
		}
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}
	return record, nil
}

// ListBySubject returns records for one subject ordered by detected_at ascending
func (r *OutcomeRepository) ListBySubject(ctx context.Context, kind domain.OutcomeSubjectKind, id string) ([]*domain.OutcomeRecord, error) {
	query := `
		SELECT ` + outcomeColumns + `
		FROM outcomes
		WHERE subject_kind = $1 AND subject_id = $2
		ORDER BY detected_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, kind, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	return collectOutcomes(rows)
}

// SumImpactForContact aggregates impact across outcomes attached directly to
// the contact and those attached to drafts addressed to it.
func (r *OutcomeRepository) SumImpactForContact(ctx context.Context, contactID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(impact), 0)
		FROM outcomes
		WHERE (subject_kind = $1 AND subject_id = $2)
		   OR (subject_kind = $3 AND subject_id IN (
				SELECT id FROM drafts WHERE contact_id = $2
		   ))
	`
	var sum float64
	err := r.db.QueryRowContext(ctx, query, domain.SubjectContact, contactID, domain.SubjectDraft).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outcome impact: %w", err)
	}
	return sum, nil
}

// Stats aggregates outcomes in a time range
func (r *OutcomeRepository) Stats(ctx context.Context, rng domain.TimeRange) (*domain.OutcomeStats, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, COUNT(*), SUM(impact)
		FROM outcomes
		WHERE detected_at >= $1 AND detected_at < $2
		GROUP BY kind
	`, rng.Start.UTC(), rng.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outcomes: %w", err)
	}
	defer rows.Close()

	stats := &domain.OutcomeStats{
		ByKind:       make(map[domain.OutcomeKind]int),
		ByCategory:   make(map[domain.OutcomeCategory]int),
		ImpactByKind: make(map[domain.OutcomeKind]float64),
	}

	for rows.Next() {
		var kind domain.OutcomeKind
		var count int
		var impact float64
		if err := rows.Scan(&kind, &count, &impact); err != nil {
			return nil, fmt.Errorf("failed to scan outcome stats row: %w", err)
		}
		stats.Total += count
		stats.TotalImpact += impact
		stats.ByKind[kind] = count
		stats.ByCategory[kind.Category()] += count
		stats.ImpactByKind[kind] = impact
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome stats rows: %w", err)
	}
	return stats, nil
}

// ListSince returns outcomes detected after the given time, newest first
func (r *OutcomeRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]*domain.OutcomeRecord, error) {
	query := `
		SELECT ` + outcomeColumns + `
		FROM outcomes
		WHERE detected_at >= $1
		ORDER BY detected_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes since: %w", err)
	}
	defer rows.Close()

	return collectOutcomes(rows)
}

func collectOutcomes(rows *sql.Rows) ([]*domain.OutcomeRecord, error) {
	var records []*domain.OutcomeRecord
	for rows.Next() {
		record, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outcome rows: %w", err)
	}
	return records, nil
}
