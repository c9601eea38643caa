package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_approval_repository.go -package mocks github.com/caseyos/caseyos/internal/domain ApprovalRuleRepository,ApprovedRecipientRepository,ApprovalLogRepository

// ApprovalRuleKind enumerates the deterministic whitelist predicates.
type ApprovalRuleKind string

const (
	RuleRepliedBefore      ApprovalRuleKind = "replied_before"
	RuleKnownGoodRecipient ApprovalRuleKind = "known_good_recipient"
	RuleHighICPScore       ApprovalRuleKind = "high_icp_score"
)

// Default rule confidences per kind.
var DefaultRuleConfidence = map[ApprovalRuleKind]float64{
	RuleRepliedBefore:      0.95,
	RuleKnownGoodRecipient: 0.90,
	RuleHighICPScore:       0.85,
}

// RepliedBeforeWindow is how recent a reply must be for replied_before.
const RepliedBeforeWindow = 90 * 24 * time.Hour

// HighICPThreshold is the minimum company score for high_icp_score.
const HighICPThreshold = 0.9

// AutoApprovalRule is a deterministic predicate yielding (auto_approved,
// confidence) on match. Rules are evaluated in ascending priority; ties
// break on lower id.
type AutoApprovalRule struct {
	ID         string           `json:"id"`
	Kind       ApprovalRuleKind `json:"kind"`
	Conditions JSONMap          `json:"conditions"`
	Confidence float64          `json:"confidence"`
	Priority   int              `json:"priority"`
	Enabled    bool             `json:"enabled"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (r *AutoApprovalRule) Validate() error {
	switch r.Kind {
	case RuleRepliedBefore, RuleKnownGoodRecipient, RuleHighICPScore:
	default:
		return NewValidationError("unknown approval rule kind: " + string(r.Kind))
	}
	if r.Confidence <= 0 {
		r.Confidence = DefaultRuleConfidence[r.Kind]
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return NewValidationError("rule confidence must be in [0,1]")
	}
	return nil
}

// ApprovedRecipient whitelists an email for auto-approval.
type ApprovedRecipient struct {
	Email   string    `json:"email"`
	Reason  string    `json:"reason"`
	AddedAt time.Time `json:"added_at"`
}

// ApprovalDecision is the outcome of evaluating a draft.
type ApprovalDecision string

const (
	DecisionAutoApproved ApprovalDecision = "auto_approved"
	DecisionNeedsReview  ApprovalDecision = "needs_review"
)

// AutoApprovalLog records every evaluation, approved or not.
type AutoApprovalLog struct {
	ID         string           `json:"id"`
	DraftID    string           `json:"draft_id"`
	Decision   ApprovalDecision `json:"decision"`
	RuleID     *string          `json:"rule_id,omitempty"`
	Confidence float64          `json:"confidence"`
	Reasoning  string           `json:"reasoning"`
	At         time.Time        `json:"at"`
}

// ApprovalRuleRepository defines rule persistence.
type ApprovalRuleRepository interface {
	Create(ctx context.Context, rule *AutoApprovalRule) error
	Get(ctx context.Context, id string) (*AutoApprovalRule, error)
	Update(ctx context.Context, rule *AutoApprovalRule) error
	Delete(ctx context.Context, id string) error
	// ListEnabled returns enabled rules ordered by (priority asc, id asc).
	ListEnabled(ctx context.Context) ([]*AutoApprovalRule, error)
	ListAll(ctx context.Context) ([]*AutoApprovalRule, error)
}

// ApprovedRecipientRepository defines whitelist persistence.
type ApprovedRecipientRepository interface {
	// Add is a no-op when the email is already whitelisted.
	Add(ctx context.Context, recipient *ApprovedRecipient) error
	Exists(ctx context.Context, email string) (bool, error)
	Remove(ctx context.Context, email string) error
	List(ctx context.Context) ([]*ApprovedRecipient, error)
}

// ApprovalLogRepository defines evaluation log persistence.
type ApprovalLogRepository interface {
	Create(ctx context.Context, log *AutoApprovalLog) error
	GetByDraftID(ctx context.Context, draftID string) ([]*AutoApprovalLog, error)
}
