package domain

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/caseyos/caseyos/pkg/crypto"
)

//go:generate mockgen -destination mocks/mock_signal_repository.go -package mocks github.com/caseyos/caseyos/internal/domain SignalRepository

// SignalSource identifies where an event came from.
type SignalSource string

const (
	SignalSourceForm     SignalSource = "form"
	SignalSourceCRM      SignalSource = "crm"
	SignalSourceEmail    SignalSource = "email"
	SignalSourceCalendar SignalSource = "calendar"
	SignalSourceSocial   SignalSource = "social"
	SignalSourceManual   SignalSource = "manual"
)

// ValidSignalSources lists every accepted source.
var ValidSignalSources = []SignalSource{
	SignalSourceForm,
	SignalSourceCRM,
	SignalSourceEmail,
	SignalSourceCalendar,
	SignalSourceSocial,
	SignalSourceManual,
}

func (s SignalSource) Valid() bool {
	for _, v := range ValidSignalSources {
		if s == v {
			return true
		}
	}
	return false
}

// Essential reports whether the source is exempt from backpressure 503s.
// Form and CRM signals are the revenue-bearing ones.
func (s SignalSource) Essential() bool {
	return s == SignalSourceForm || s == SignalSourceCRM
}

// Signal is a normalized external event. (source, dedupe_hash) is unique;
// a second insert with the same pair is a no-op.
type Signal struct {
	ID          string       `json:"id"`
	Source      SignalSource `json:"source"`
	Kind        string       `json:"kind"`
	DedupeHash  string       `json:"dedupe_hash"`
	Payload     JSONMap      `json:"payload"`
	ReceivedAt  time.Time    `json:"received_at"`
	ProcessedAt *time.Time   `json:"processed_at,omitempty"`
	WorkflowID  *string      `json:"workflow_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (s *Signal) Validate() error {
	if !s.Source.Valid() {
		return NewValidationError(fmt.Sprintf("invalid signal source: %s", s.Source))
	}
	if s.Kind == "" {
		return NewValidationError("signal kind is required")
	}
	if s.DedupeHash == "" {
		return NewValidationError("signal dedupe hash is required")
	}
	return nil
}

// DedupeHash derives the deterministic hash from source-specific canonical
// fields of the raw payload. Unknown sources fall back to hashing the whole
// payload.
func DedupeHash(source SignalSource, kind string, payload []byte) string {
	var canonical string
	switch source {
	case SignalSourceForm:
		canonical = gjson.GetBytes(payload, "form_submission_id").String()
		if canonical == "" {
			canonical = gjson.GetBytes(payload, "form_id").String() + "|" + gjson.GetBytes(payload, "email").String()
		}
	case SignalSourceEmail:
		canonical = gjson.GetBytes(payload, "message_id").String() + "|" + gjson.GetBytes(payload, "event_type").String()
	case SignalSourceSocial:
		canonical = gjson.GetBytes(payload, "tweet_id").String()
	case SignalSourceCRM:
		canonical = gjson.GetBytes(payload, "object_id").String() + "|" + gjson.GetBytes(payload, "change_type").String()
	case SignalSourceCalendar:
		canonical = gjson.GetBytes(payload, "event_id").String() + "|" + gjson.GetBytes(payload, "change_type").String()
	}

	if canonical == "" || canonical == "|" {
		canonical = string(payload)
	}

	return crypto.IdempotencyKey(string(source), kind, canonical)
}

// SignalRepository defines signal persistence.
type SignalRepository interface {
	// InsertIfAbsent inserts the signal unless (source, dedupe_hash)
	// already exists. Returns the stored signal and whether this call
	// inserted it.
	InsertIfAbsent(ctx context.Context, signal *Signal) (stored *Signal, inserted bool, err error)

	Get(ctx context.Context, id string) (*Signal, error)
	GetByDedupeHash(ctx context.Context, source SignalSource, hash string) (*Signal, error)
	MarkProcessed(ctx context.Context, id string, workflowID *string) error
	MarkProcessedTx(ctx context.Context, tx *sql.Tx, id string, workflowID *string) error
	ListUnprocessed(ctx context.Context, limit int) ([]*Signal, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
