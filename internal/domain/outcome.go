package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_outcome_repository.go -package mocks github.com/caseyos/caseyos/internal/domain OutcomeRepository

// OutcomeSubjectKind names what an outcome is attached to.
type OutcomeSubjectKind string

const (
	SubjectDraft     OutcomeSubjectKind = "draft"
	SubjectQueueItem OutcomeSubjectKind = "queue_item"
	SubjectContact   OutcomeSubjectKind = "contact"
	SubjectDeal      OutcomeSubjectKind = "deal"
)

// OutcomeKind enumerates recorded results. The auto-detected taxonomy is
// the 18 kinds across the email/meeting/deal/task categories; the three
// general kinds are manual-entry shorthands that carry the same feedback
// effects.
type OutcomeKind string

const (
	// Email
	OutcomeEmailSent         OutcomeKind = "email_sent"
	OutcomeEmailDelivered    OutcomeKind = "email_delivered"
	OutcomeEmailOpened       OutcomeKind = "email_opened"
	OutcomeEmailClicked      OutcomeKind = "email_clicked"
	OutcomeEmailReplied      OutcomeKind = "email_replied"
	OutcomeEmailBounced      OutcomeKind = "email_bounced"
	OutcomeEmailUnsubscribed OutcomeKind = "email_unsubscribed"

	// Meeting
	OutcomeMeetingBooked      OutcomeKind = "meeting_booked"
	OutcomeMeetingHeld        OutcomeKind = "meeting_held"
	OutcomeMeetingNoShow      OutcomeKind = "meeting_no_show"
	OutcomeMeetingRescheduled OutcomeKind = "meeting_rescheduled"

	// Deal
	OutcomeDealCreated        OutcomeKind = "deal_created"
	OutcomeDealStageAdvanced  OutcomeKind = "deal_stage_advanced"
	OutcomeDealStageRegressed OutcomeKind = "deal_stage_regressed"
	OutcomeDealWon            OutcomeKind = "deal_won"
	OutcomeDealLost           OutcomeKind = "deal_lost"

	// Task
	OutcomeTaskCompleted OutcomeKind = "task_completed"
	OutcomeTaskOverdue   OutcomeKind = "task_overdue"

	// General (manual)
	OutcomePositiveResponse OutcomeKind = "positive_response"
	OutcomeNegativeResponse OutcomeKind = "negative_response"
	OutcomeNoResponse       OutcomeKind = "no_response"
)

// OutcomeCategory groups kinds for stats.
type OutcomeCategory string

const (
	CategoryEmail   OutcomeCategory = "email"
	CategoryMeeting OutcomeCategory = "meeting"
	CategoryDeal    OutcomeCategory = "deal"
	CategoryTask    OutcomeCategory = "task"
	CategoryGeneral OutcomeCategory = "general"
)

// OutcomeImpact is the fixed impact table in [-5, +10].
var OutcomeImpact = map[OutcomeKind]float64{
	OutcomeEmailSent:         1,
	OutcomeEmailDelivered:    1,
	OutcomeEmailOpened:       2,
	OutcomeEmailClicked:      3,
	OutcomeEmailReplied:      8,
	OutcomeEmailBounced:      -4,
	OutcomeEmailUnsubscribed: -5,

	OutcomeMeetingBooked:      9,
	OutcomeMeetingHeld:        10,
	OutcomeMeetingNoShow:      -3,
	OutcomeMeetingRescheduled: 2,

	OutcomeDealCreated:        8,
	OutcomeDealStageAdvanced:  7,
	OutcomeDealStageRegressed: -3,
	OutcomeDealWon:            10,
	OutcomeDealLost:           -5,

	OutcomeTaskCompleted: 2,
	OutcomeTaskOverdue:   -2,

	OutcomePositiveResponse: 8,
	OutcomeNegativeResponse: -4,
	OutcomeNoResponse:       -1,
}

// Category returns the category a kind belongs to.
func (k OutcomeKind) Category() OutcomeCategory {
	switch k {
	case OutcomeEmailSent, OutcomeEmailDelivered, OutcomeEmailOpened, OutcomeEmailClicked,
		OutcomeEmailReplied, OutcomeEmailBounced, OutcomeEmailUnsubscribed:
		return CategoryEmail
	case OutcomeMeetingBooked, OutcomeMeetingHeld, OutcomeMeetingNoShow, OutcomeMeetingRescheduled:
		return CategoryMeeting
	case OutcomeDealCreated, OutcomeDealStageAdvanced, OutcomeDealStageRegressed, OutcomeDealWon, OutcomeDealLost:
		return CategoryDeal
	case OutcomeTaskCompleted, OutcomeTaskOverdue:
		return CategoryTask
	default:
		return CategoryGeneral
	}
}

// Valid reports whether the kind is in the fixed taxonomy.
func (k OutcomeKind) Valid() bool {
	_, ok := OutcomeImpact[k]
	return ok
}

// OutcomeSource distinguishes auto-detected from manually recorded.
type OutcomeSource string

const (
	OutcomeSourceAuto   OutcomeSource = "auto"
	OutcomeSourceManual OutcomeSource = "manual"
)

// OutcomeRecord ties a result to a subject and feeds back into scoring and
// suppression.
type OutcomeRecord struct {
	ID          string             `json:"id"`
	SubjectKind OutcomeSubjectKind `json:"subject_kind"`
	SubjectID   string             `json:"subject_id"`
	Kind        OutcomeKind        `json:"kind"`
	Impact      float64            `json:"impact"`
	Source      OutcomeSource      `json:"source"`
	DetectedAt  time.Time          `json:"detected_at"`
	Details     JSONMap            `json:"details"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (o *OutcomeRecord) Validate() error {
	if !o.Kind.Valid() {
		return NewValidationError("unknown outcome kind: " + string(o.Kind))
	}
	switch o.SubjectKind {
	case SubjectDraft, SubjectQueueItem, SubjectContact, SubjectDeal:
	default:
		return NewValidationError("unknown outcome subject kind: " + string(o.SubjectKind))
	}
	if o.SubjectID == "" {
		return NewValidationError("outcome subject_id is required")
	}
	if o.Impact < -5 || o.Impact > 10 {
		return NewValidationError("outcome impact must be in [-5, +10]")
	}
	return nil
}

// OutcomeStats aggregates outcomes for the stats endpoint.
type OutcomeStats struct {
	Total       int                         `json:"total"`
	TotalImpact float64                     `json:"total_impact"`
	ByKind      map[OutcomeKind]int         `json:"by_kind"`
	ByCategory  map[OutcomeCategory]int     `json:"by_category"`
	ImpactByKind map[OutcomeKind]float64    `json:"impact_by_kind"`
}

// OutcomeRepository defines outcome persistence.
type OutcomeRepository interface {
	Create(ctx context.Context, record *OutcomeRecord) error
	Get(ctx context.Context, id string) (*OutcomeRecord, error)
	// ListBySubject returns records ordered by detected_at ascending.
	ListBySubject(ctx context.Context, kind OutcomeSubjectKind, id string) ([]*OutcomeRecord, error)
	// SumImpactForContact aggregates impact across outcomes attached to a
	// contact and to drafts addressed to it.
	SumImpactForContact(ctx context.Context, contactID string) (float64, error)
	Stats(ctx context.Context, rng TimeRange) (*OutcomeStats, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]*OutcomeRecord, error)
}
