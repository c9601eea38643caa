package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_notification_repository.go -package mocks github.com/caseyos/caseyos/internal/domain NotificationRepository

// NotificationPriority orders the operator's attention.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

// NotificationState is the read/dismiss lifecycle.
type NotificationState string

const (
	NotificationUnread    NotificationState = "unread"
	NotificationRead      NotificationState = "read"
	NotificationDismissed NotificationState = "dismissed"
	NotificationSnoozed   NotificationState = "snoozed"
)

// Notification is produced by the monitor scan: high-APS items, overdue
// items, dead workflows, negative outcomes.
type Notification struct {
	ID           string               `json:"id"`
	Kind         string               `json:"kind"`
	Priority     NotificationPriority `json:"priority"`
	Title        string               `json:"title"`
	Body         string               `json:"body"`
	RelatedIDs   StringMap            `json:"related_ids"`
	State        NotificationState    `json:"state"`
	SnoozedUntil *time.Time           `json:"snoozed_until,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NotificationRepository defines notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	Get(ctx context.Context, id string) (*Notification, error)
	SetState(ctx context.Context, id string, state NotificationState, snoozedUntil *time.Time) error
	// List returns active notifications: unread/read plus snoozed ones
	// whose snooze expired, newest first.
	List(ctx context.Context, limit, offset int) ([]*Notification, int, error)
	// ExistsForRelated prevents duplicate notifications for one subject.
	ExistsForRelated(ctx context.Context, kind string, relatedKey, relatedID string) (bool, error)
}
