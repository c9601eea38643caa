package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_draft_repository.go -package mocks github.com/caseyos/caseyos/internal/domain DraftRepository,SendRecordRepository

// DraftStatus is the draft lifecycle. Transitions are monotone per the
// state machine below; sent is terminal for email.
type DraftStatus string

const (
	DraftStatusPending      DraftStatus = "pending"
	DraftStatusAutoApproved DraftStatus = "auto_approved"
	DraftStatusApproved     DraftStatus = "approved"
	DraftStatusRejected     DraftStatus = "rejected"
	DraftStatusSent         DraftStatus = "sent"
	DraftStatusFailed       DraftStatus = "failed"
	DraftStatusRolledBack   DraftStatus = "rolled_back"
)

// draftTransitions encodes the permitted state machine:
//
//	pending -> auto_approved -> sent -> rolled_back (30-min window, draft
//	        -> approved      -> sent    artifacts only, never the email)
//	        -> rejected (terminal)
//	        -> failed -> pending (on retry)
var draftTransitions = map[DraftStatus][]DraftStatus{
	DraftStatusPending:      {DraftStatusAutoApproved, DraftStatusApproved, DraftStatusRejected, DraftStatusFailed},
	DraftStatusAutoApproved: {DraftStatusSent, DraftStatusRejected, DraftStatusFailed},
	DraftStatusApproved:     {DraftStatusSent, DraftStatusRejected, DraftStatusFailed},
	DraftStatusSent:         {DraftStatusRolledBack},
	DraftStatusFailed:       {DraftStatusPending},
	DraftStatusRejected:     {},
	DraftStatusRolledBack:   {},
}

// CanTransition reports whether from -> to is a legal draft transition.
func CanTransition(from, to DraftStatus) bool {
	for _, allowed := range draftTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// RollbackWindow bounds how long after creation external draft artifacts
// and CRM tasks may be compensated.
const RollbackWindow = 30 * time.Minute

// DraftEmail is the only artifact the orchestrator is permitted to produce.
// It is never sent by the orchestrator; sending is the executor's sole
// privilege.
type DraftEmail struct {
	ID              string      `json:"id"`
	WorkflowID      string      `json:"workflow_id"`
	ContactID       string      `json:"contact_id"`
	Recipient       string      `json:"recipient"`
	Subject         string      `json:"subject"`
	BodyText        string      `json:"body_text"`
	BodyHTML        string      `json:"body_html,omitempty"`
	ThreadHeaders   StringMap   `json:"thread_headers"`
	VoiceProfileID  *string     `json:"voice_profile_id,omitempty"`
	Status          DraftStatus `json:"status"`
	StatusReason    string      `json:"status_reason,omitempty"`
	ExternalDraftID string      `json:"external_draft_id,omitempty"`
	Metadata        JSONMap     `json:"metadata"`
	CreatedAt       time.Time   `json:"created_at"`
	StatusChangedAt time.Time   `json:"status_changed_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Transition applies a status change, enforcing the state machine.
func (d *DraftEmail) Transition(to DraftStatus, reason string) error {
	if !CanTransition(d.Status, to) {
		return &ConflictError{Reason: fmt.Sprintf("illegal draft transition %s -> %s", d.Status, to)}
	}
	d.Status = to
	d.StatusReason = reason
	d.StatusChangedAt = time.Now().UTC()
	return nil
}

// Approvable reports whether the draft can still be sent.
func (d *DraftEmail) Approvable() bool {
	return d.Status == DraftStatusPending || d.Status == DraftStatusAutoApproved || d.Status == DraftStatusApproved
}

// SendRecord is owned by the draft. A draft in sent state has exactly one.
type SendRecord struct {
	ID                string    `json:"id"`
	DraftID           string    `json:"draft_id"`
	Recipient         string    `json:"recipient"`
	IdempotencyKey    string    `json:"idempotency_key"`
	SentAt            time.Time `json:"sent_at"`
	ExternalMessageID string    `json:"external_message_id"`
	ThreadID          string    `json:"thread_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// DraftRepository defines draft persistence. UpdateStatus takes a row-level
// lock on the draft id so concurrent transitions serialize.
type DraftRepository interface {
	Create(ctx context.Context, draft *DraftEmail) error
	CreateTx(ctx context.Context, tx *sql.Tx, draft *DraftEmail) error
	Get(ctx context.Context, id string) (*DraftEmail, error)
	GetByWorkflowID(ctx context.Context, workflowID string) (*DraftEmail, error)
	Update(ctx context.Context, draft *DraftEmail) error
	// UpdateStatus loads the row FOR UPDATE, validates the transition, and
	// persists the new status in one transaction.
	UpdateStatus(ctx context.Context, id string, to DraftStatus, reason string) (*DraftEmail, error)
	ListByStatus(ctx context.Context, status DraftStatus, limit int) ([]*DraftEmail, error)
}

// SendRecordRepository defines send record persistence.
type SendRecordRepository interface {
	Create(ctx context.Context, record *SendRecord) error
	CreateTx(ctx context.Context, tx *sql.Tx, record *SendRecord) error
	GetByDraftID(ctx context.Context, draftID string) (*SendRecord, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*SendRecord, error)
	CountForRecipientSince(ctx context.Context, recipient string, since time.Time) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	ListRecent(ctx context.Context, limit int) ([]*SendRecord, error)
}
