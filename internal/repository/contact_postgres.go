package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/domain"
)

// ContactRepository implements the domain.ContactRepository interface using PostgreSQL
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new ContactRepository instance
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `
	id, email, name, company, title, timezone, external_ids, segments,
	last_reply_at, suppressed, suppressed_at, created_at, updated_at
`

func scanContact(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Contact, error) {
	var contact domain.Contact
	var name, company, title, timezone sql.NullString
	var lastReplyAt, suppressedAt sql.NullTime

	err := scanner.Scan(
		&contact.ID,
		&contact.Email,
		&name,
		&company,
		&title,
		&timezone,
		&contact.ExternalIDs,
		&contact.Segments,
		&lastReplyAt,
		&contact.Suppressed,
		&suppressedAt,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.Name = name.String
	contact.Company = company.String
	contact.Title = title.String
	contact.Timezone = timezone.String
	if lastReplyAt.Valid {
		contact.LastReplyAt = &lastReplyAt.Time
	}
	if suppressedAt.Valid {
		contact.SuppressedAt = &suppressedAt.Time
	}

	return &contact, nil
}

// Upsert inserts by unique email or updates the mutable fields of the
// existing row. Suppression is never touched by an upsert.
func (r *ContactRepository) Upsert(ctx context.Context, contact *domain.Contact) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.UpsertTx(ctx, tx, contact); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertTx is Upsert within a caller-owned transaction
func (r *ContactRepository) UpsertTx(ctx context.Context, tx *sql.Tx, contact *domain.Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	query := `
		INSERT INTO contacts (id, email, name, company, title, timezone, external_ids, segments, suppressed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), contacts.name),
			company = COALESCE(NULLIF(EXCLUDED.company, ''), contacts.company),
			title = COALESCE(NULLIF(EXCLUDED.title, ''), contacts.title),
			timezone = COALESCE(NULLIF(EXCLUDED.timezone, ''), contacts.timezone),
			external_ids = contacts.external_ids || EXCLUDED.external_ids,
			segments = EXCLUDED.segments,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := tx.QueryRowContext(
		ctx,
		query,
		contact.ID,
		contact.Email,
		contact.Name,
		contact.Company,
		contact.Title,
		contact.Timezone,
		contact.ExternalIDs,
		contact.Segments,
		domain.SuppressionNone,
		now,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert contact: %w", err)
	}
	return nil
}

// Get retrieves a contact by ID
func (r *ContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "contact", ID: id}
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// GetByEmail retrieves a contact by its unique email
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE email = $1`

	contact, err := scanContact(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "contact", ID: email}
		}
		return nil, fmt.Errorf("failed to get contact by email: %w", err)
	}
	return contact, nil
}

// SetLastReplyAt records the most recent inbound reply time
func (r *ContactRepository) SetLastReplyAt(ctx context.Context, email string, at time.Time) error {
	query := `
		UPDATE contacts
		SET last_reply_at = GREATEST(COALESCE(last_reply_at, 'epoch'::timestamp), $2), updated_at = $3
		WHERE email = $1
	`
	result, err := r.db.ExecContext(ctx, query, strings.ToLower(email), at.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set last reply at: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "contact", ID: email}
	}
	return nil
}

// Suppress is monotone: a contact already suppressed keeps its original
// state and timestamp.
func (r *ContactRepository) Suppress(ctx context.Context, email string, state domain.SuppressionState, at time.Time) error {
	query := `
		UPDATE contacts
		SET suppressed = $2, suppressed_at = $3, updated_at = $4
		WHERE email = $1 AND suppressed = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		strings.ToLower(email), state, at.UTC(), time.Now().UTC(), domain.SuppressionNone)
	if err != nil {
		return fmt.Errorf("failed to suppress contact: %w", err)
	}
	return nil
}

// List returns contacts with a total count for pagination
func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]*domain.Contact, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, total, nil
}
