package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/logger"
	"github.com/caseyos/caseyos/pkg/ratelimiter"
)

// ApprovalService evaluates drafts against the deterministic auto-approval
// rules. There is no model call anywhere on this path: every decision is
// reproducible from the rule table and the draft's data.
type ApprovalService struct {
	logger        logger.Logger
	ruleRepo      domain.ApprovalRuleRepository
	recipientRepo domain.ApprovedRecipientRepository
	logRepo       domain.ApprovalLogRepository
	contactRepo   domain.ContactRepository
	companyRepo   domain.CompanyRepository
	draftRepo     domain.DraftRepository
	settingRepo   domain.SettingRepository
	limiter       *ratelimiter.SendLimiter

	allowRealSends bool
}

func NewApprovalService(
	log logger.Logger,
	ruleRepo domain.ApprovalRuleRepository,
	recipientRepo domain.ApprovedRecipientRepository,
	logRepo domain.ApprovalLogRepository,
	contactRepo domain.ContactRepository,
	companyRepo domain.CompanyRepository,
	draftRepo domain.DraftRepository,
	settingRepo domain.SettingRepository,
	limiter *ratelimiter.SendLimiter,
	allowRealSends bool,
) *ApprovalService {
	return &ApprovalService{
		logger:         log,
		ruleRepo:       ruleRepo,
		recipientRepo:  recipientRepo,
		logRepo:        logRepo,
		contactRepo:    contactRepo,
		companyRepo:    companyRepo,
		draftRepo:      draftRepo,
		settingRepo:    settingRepo,
		limiter:        limiter,
		allowRealSends: allowRealSends,
	}
}

// Evaluate runs the rule chain over a pending draft. Every evaluation is
// logged, matched or not. A match transitions the draft to auto_approved;
// otherwise it stays pending for a human.
func (s *ApprovalService) Evaluate(ctx context.Context, draft *domain.DraftEmail) (*domain.AutoApprovalLog, error) {
	if draft.Status != domain.DraftStatusPending {
		return nil, domain.NewValidationError("only pending drafts are evaluated, draft is " + string(draft.Status))
	}

	if reason, gated := s.gated(ctx); gated {
		return s.record(ctx, draft, domain.DecisionNeedsReview, nil, 0, reason)
	}

	rules, err := s.ruleRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval rules: %w", err)
	}

	now := time.Now().UTC()
	for _, rule := range rules {
		matched, reasoning, err := s.matches(ctx, rule, draft, now)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		if _, err := s.draftRepo.UpdateStatus(ctx, draft.ID, domain.DraftStatusAutoApproved, reasoning); err != nil {
			return nil, err
		}
		draft.Status = domain.DraftStatusAutoApproved

		entry, recordErr := s.record(ctx, draft, domain.DecisionAutoApproved, &rule.ID, rule.Confidence, reasoning)
		if recordErr != nil {
			return nil, recordErr
		}

		s.logger.WithFields(map[string]interface{}{
			"draft_id":   draft.ID,
			"rule":       rule.Kind,
			"confidence": rule.Confidence,
		}).Info("Draft auto-approved")
		return entry, nil
	}

	return s.record(ctx, draft, domain.DecisionNeedsReview, nil, 0, "no auto-approval rule matched")
}

// gated reports whether auto-approval is globally disabled right now. Gate
// order: emergency stop, real sends, the auto-approve toggle, draft-only
// mode, and finally the global send window. A draft approved behind a closed
// window would just sit unexecutable, so it goes to review instead.
func (s *ApprovalService) gated(ctx context.Context) (string, bool) {
	stopped, err := s.settingRepo.GetBool(ctx, domain.SettingEmergencyStop, false)
	if err != nil || stopped {
		return "emergency stop engaged", true
	}
	allowed, err := s.settingRepo.GetBool(ctx, domain.SettingAllowRealSends, s.allowRealSends)
	if err != nil || !allowed {
		return "real sends disabled", true
	}
	enabled, err := s.settingRepo.GetBool(ctx, domain.SettingAutoApproveEnabled, false)
	if err != nil || !enabled {
		return "auto-approval disabled", true
	}
	draftOnly, err := s.settingRepo.GetBool(ctx, domain.SettingModeDraftOnly, false)
	if err == nil && draftOnly {
		return "draft-only mode", true
	}
	if s.limiter != nil {
		open, err := s.limiter.GlobalOpen(ctx)
		if err != nil || !open {
			return "global send window closed", true
		}
	}
	return "", false
}

// matches evaluates one rule predicate against the draft.
func (s *ApprovalService) matches(ctx context.Context, rule *domain.AutoApprovalRule, draft *domain.DraftEmail, now time.Time) (bool, string, error) {
	switch rule.Kind {
	case domain.RuleRepliedBefore:
		contact, err := s.contactRepo.GetByEmail(ctx, draft.Recipient)
		if err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				return false, "", nil
			}
			return false, "", err
		}
		if contact.LastReplyAt == nil {
			return false, "", nil
		}
		window := domain.RepliedBeforeWindow
		if days := rule.Conditions.Int("window_days"); days > 0 {
			window = time.Duration(days) * 24 * time.Hour
		}
		if now.Sub(*contact.LastReplyAt) > window {
			return false, "", nil
		}
		return true, fmt.Sprintf("recipient replied on %s, within the %d-day window",
			contact.LastReplyAt.Format("2006-01-02"), int(window.Hours()/24)), nil

	case domain.RuleKnownGoodRecipient:
		whitelisted, err := s.recipientRepo.Exists(ctx, draft.Recipient)
		if err != nil {
			return false, "", err
		}
		if !whitelisted {
			return false, "", nil
		}
		return true, "recipient is on the approved recipient list", nil

	case domain.RuleHighICPScore:
		contact, err := s.contactRepo.GetByEmail(ctx, draft.Recipient)
		if err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				return false, "", nil
			}
			return false, "", err
		}
		emailDomain := contact.EmailDomain()
		if emailDomain == "" {
			return false, "", nil
		}
		company, err := s.companyRepo.GetByDomain(ctx, emailDomain)
		if err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				return false, "", nil
			}
			return false, "", err
		}
		if company.ICPScore == nil {
			return false, "", nil
		}
		threshold := domain.HighICPThreshold
		if v := rule.Conditions.Float("threshold"); v > 0 {
			threshold = v
		}
		if *company.ICPScore < threshold {
			return false, "", nil
		}
		return true, fmt.Sprintf("company %s has ICP score %.2f >= %.2f", company.Domain, *company.ICPScore, threshold), nil

	default:
		// unknown kinds never match; a bad row must not approve anything
		s.logger.WithField("rule_id", rule.ID).Warn("Skipping approval rule of unknown kind")
		return false, "", nil
	}
}

// record writes the evaluation log entry.
func (s *ApprovalService) record(ctx context.Context, draft *domain.DraftEmail, decision domain.ApprovalDecision, ruleID *string, confidence float64, reasoning string) (*domain.AutoApprovalLog, error) {
	entry := &domain.AutoApprovalLog{
		DraftID:    draft.ID,
		Decision:   decision,
		RuleID:     ruleID,
		Confidence: confidence,
		Reasoning:  reasoning,
		At:         time.Now().UTC(),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write approval log: %w", err)
	}
	return entry, nil
}

// History returns the evaluation trail for a draft.
func (s *ApprovalService) History(ctx context.Context, draftID string) ([]*domain.AutoApprovalLog, error) {
	return s.logRepo.GetByDraftID(ctx, draftID)
}

// ApproveManually transitions a pending draft on operator action.
func (s *ApprovalService) ApproveManually(ctx context.Context, draftID, actor string) (*domain.DraftEmail, error) {
	draft, err := s.draftRepo.UpdateStatus(ctx, draftID, domain.DraftStatusApproved, "approved by "+actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.record(ctx, draft, domain.DecisionNeedsReview, nil, 1.0, "manually approved by "+actor); err != nil {
		s.logger.WithField("draft_id", draftID).Warn("Failed to log manual approval")
	}
	return draft, nil
}

// Reject transitions a draft to rejected on operator action.
func (s *ApprovalService) Reject(ctx context.Context, draftID, actor, reason string) (*domain.DraftEmail, error) {
	if reason == "" {
		reason = "rejected by " + actor
	}
	return s.draftRepo.UpdateStatus(ctx, draftID, domain.DraftStatusRejected, reason)
}
