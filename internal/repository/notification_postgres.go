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

// NotificationRepository implements the domain.NotificationRepository interface using PostgreSQL
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository instance
func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `
	id, kind, priority, title, body, related_ids, state, snoozed_until, created_at, updated_at
`

func scanNotification(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Notification, error) {
	var notification domain.Notification
	var body sql.NullString
	var snoozedUntil sql.NullTime

	err := scanner.Scan(
		&notification.ID,
		&notification.Kind,
		&notification.Priority,
		&notification.Title,
		&body,
		&notification.RelatedIDs,
		&notification.State,
		&snoozedUntil,
		&notification.CreatedAt,
		&notification.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	notification.Body = body.String
	if snoozedUntil.Valid {
		notification.SnoozedUntil = &snoozedUntil.Time
	}
	return &notification, nil
}

// Create adds a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.State == "" {
		notification.State = domain.NotificationUnread
	}
	if notification.Priority == "" {
		notification.Priority = domain.NotificationPriorityNormal
	}

	now := time.Now().UTC()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	query := `
		INSERT INTO notifications (id, kind, priority, title, body, related_ids, state, snoozed_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		notification.ID, notification.Kind, notification.Priority, notification.Title,
		notification.Body, notification.RelatedIDs, notification.State, notification.SnoozedUntil,
		notification.CreatedAt, notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// Get retrieves a notification by ID
func (r *NotificationRepository) Get(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	notification, err := scanNotification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "notification", ID: id}
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return notification, nil
}

// SetState moves a notification through the read/dismiss lifecycle
func (r *NotificationRepository) SetState(ctx context.Context, id string, state domain.NotificationState, snoozedUntil *time.Time) error {
	query := `
		UPDATE notifications
		SET state = $2, snoozed_until = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, state, snoozedUntil, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set notification state: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "notification", ID: id}
	}
	return nil
}

// List returns active notifications: unread/read plus snoozed ones whose
// snooze expired, newest first, with a total count.
func (r *NotificationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Notification, int, error) {
	now := time.Now().UTC()

	countQuery := `
		SELECT COUNT(*) FROM notifications
		WHERE state IN ($1, $2)
		   OR (state = $3 AND snoozed_until <= $4)
	`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery,
		domain.NotificationUnread, domain.NotificationRead, domain.NotificationSnoozed, now).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE state IN ($1, $2)
		   OR (state = $3 AND snoozed_until <= $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`
	rows, err := r.db.QueryContext(ctx, query,
		domain.NotificationUnread, domain.NotificationRead, domain.NotificationSnoozed, now, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifications, total, nil
}

// ExistsForRelated prevents duplicate notifications for one subject
func (r *NotificationRepository) ExistsForRelated(ctx context.Context, kind string, relatedKey, relatedID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE kind = $1 AND related_ids->>$2 = $3 AND state != $4
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, kind, relatedKey, relatedID, domain.NotificationDismissed).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}
	return exists, nil
}
