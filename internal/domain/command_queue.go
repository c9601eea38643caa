package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_command_queue_repository.go -package mocks github.com/caseyos/caseyos/internal/domain CommandQueueRepository

// QueueDomain partitions the command queue by business function.
type QueueDomain string

const (
	QueueDomainSales     QueueDomain = "sales"
	QueueDomainMarketing QueueDomain = "marketing"
	QueueDomainCS        QueueDomain = "cs"
)

// ActionType names what the executor will do for a queue item.
type ActionType string

const (
	ActionSendEmail   ActionType = "send_email"
	ActionBookMeeting ActionType = "book_meeting"
	ActionUpdateDeal  ActionType = "update_deal"
	ActionCreateTask  ActionType = "create_task"
	ActionEngageSocial ActionType = "engage_social"
)

// ActionEffortMinutes is the fixed estimated-minutes lookup behind the APS
// effort component, capped by a 60-minute denominator.
var ActionEffortMinutes = map[ActionType]float64{
	ActionSendEmail:    5,
	ActionBookMeeting:  2,
	ActionUpdateDeal:   3,
	ActionCreateTask:   2,
	ActionEngageSocial: 10,
}

// QueueItemStatus is the queue item lifecycle.
type QueueItemStatus string

const (
	QueueItemPending   QueueItemStatus = "pending"
	QueueItemAccepted  QueueItemStatus = "accepted"
	QueueItemDismissed QueueItemStatus = "dismissed"
	QueueItemCompleted QueueItemStatus = "completed"
	QueueItemFailed    QueueItemStatus = "failed"
)

// CommandQueueItem is a scored, actionable recommendation. It references a
// draft through ActionContext but does not own it.
type CommandQueueItem struct {
	ID            string          `json:"id"`
	Owner         string          `json:"owner"`
	Domain        QueueDomain     `json:"domain"`
	ActionType    ActionType      `json:"action_type"`
	ActionContext JSONMap         `json:"action_context"`
	APSScore      float64         `json:"aps_score"`
	Reasoning     string          `json:"reasoning"`
	DueBy         *time.Time      `json:"due_by,omitempty"`
	Status        QueueItemStatus `json:"status"`
	StatusReason  string          `json:"status_reason,omitempty"`
	SignalIDs     StringList      `json:"signal_ids"`
	ReceivedAt    time.Time       `json:"received_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (i *CommandQueueItem) Validate() error {
	if i.Domain == "" {
		i.Domain = QueueDomainSales
	}
	if i.ActionType == "" {
		return NewValidationError("queue item action_type is required")
	}
	if i.APSScore < 0 || i.APSScore > 100 {
		return NewValidationError(fmt.Sprintf("aps_score out of range: %f", i.APSScore))
	}
	return nil
}

// DraftID returns the referenced draft id, or "".
func (i *CommandQueueItem) DraftID() string {
	return i.ActionContext.String("draft_id")
}

// Overdue reports whether DueBy is set and past.
func (i *CommandQueueItem) Overdue(now time.Time) bool {
	return i.DueBy != nil && now.After(*i.DueBy)
}

// CommandQueueRepository defines queue item persistence.
type CommandQueueRepository interface {
	Create(ctx context.Context, item *CommandQueueItem) error
	CreateTx(ctx context.Context, tx *sql.Tx, item *CommandQueueItem) error
	Get(ctx context.Context, id string) (*CommandQueueItem, error)
	GetByDraftID(ctx context.Context, draftID string) (*CommandQueueItem, error)
	Update(ctx context.Context, item *CommandQueueItem) error
	SetStatus(ctx context.Context, id string, status QueueItemStatus, reason string) error
	// ListToday returns pending and accepted items ordered by APS
	// descending, then due_by, received_at, and id.
	ListToday(ctx context.Context, domain QueueDomain, limit int) ([]*CommandQueueItem, error)
	ListByStatus(ctx context.Context, status QueueItemStatus, limit int) ([]*CommandQueueItem, error)
}
