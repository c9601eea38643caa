package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/domain"
)

// AuditLogRepository implements the domain.AuditLogRepository interface using
// PostgreSQL. The table is append-only; there is no update or delete path.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new AuditLogRepository instance
func NewAuditLogRepository(db *sql.DB) domain.AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append writes one audit entry
func (r *AuditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_log (id, actor, action, subject, before, after, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Actor, entry.Action, entry.Subject, entry.Before, entry.After, entry.At)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List returns entries for a subject, newest first, with a total count.
// An empty subject lists everything.
func (r *AuditLogRepository) List(ctx context.Context, subject string, limit, offset int) ([]*domain.AuditEntry, int, error) {
	countQuery := `SELECT COUNT(*) FROM audit_log WHERE ($1 = '' OR subject = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, subject).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `
		SELECT id, actor, action, subject, before, after, at
		FROM audit_log
		WHERE ($1 = '' OR subject = $1)
		ORDER BY at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Subject, &entry.Before, &entry.After, &entry.At); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry row: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating audit entry rows: %w", err)
	}
	return entries, total, nil
}
