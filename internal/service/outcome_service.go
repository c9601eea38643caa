package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/cache"
	"github.com/caseyos/caseyos/pkg/logger"
)

const outcomeStatsCacheTTL = 5 * time.Minute

// noResponseAfter is how long a sent draft waits before a no_response
// outcome is recorded.
const noResponseAfter = 7 * 24 * time.Hour

// OutcomeService records results and applies their feedback effects: a
// reply whitelists the recipient, a bounce or unsubscribe suppresses the
// contact, and accumulated impact feeds back into APS scoring.
type OutcomeService struct {
	logger         logger.Logger
	outcomeRepo    domain.OutcomeRepository
	contactRepo    domain.ContactRepository
	recipientRepo  domain.ApprovedRecipientRepository
	sendRecordRepo domain.SendRecordRepository
	statsCache     cache.Cache
}

func NewOutcomeService(
	log logger.Logger,
	outcomeRepo domain.OutcomeRepository,
	contactRepo domain.ContactRepository,
	recipientRepo domain.ApprovedRecipientRepository,
	sendRecordRepo domain.SendRecordRepository,
	statsCache cache.Cache,
) *OutcomeService {
	return &OutcomeService{
		logger:         log,
		outcomeRepo:    outcomeRepo,
		contactRepo:    contactRepo,
		recipientRepo:  recipientRepo,
		sendRecordRepo: sendRecordRepo,
		statsCache:     statsCache,
	}
}

// Record validates and persists an outcome, then applies feedback. The
// impact value always comes from the fixed table; callers cannot override it.
func (s *OutcomeService) Record(ctx context.Context, record *domain.OutcomeRecord) error {
	if !record.Kind.Valid() {
		return domain.NewValidationError("unknown outcome kind: " + string(record.Kind))
	}
	record.Impact = domain.OutcomeImpact[record.Kind]
	if record.Source == "" {
		record.Source = domain.OutcomeSourceManual
	}

	if err := s.outcomeRepo.Create(ctx, record); err != nil {
		return err
	}

	if err := s.applyFeedback(ctx, record); err != nil {
		// feedback failures are logged, not surfaced: the outcome record
		// itself is already durable
		s.logger.WithFields(map[string]interface{}{
			"outcome_id": record.ID,
			"kind":       record.Kind,
			"error":      err.Error(),
		}).Error("Failed to apply outcome feedback")
	}

	return nil
}

// applyFeedback wires outcome kinds to their side effects.
func (s *OutcomeService) applyFeedback(ctx context.Context, record *domain.OutcomeRecord) error {
	email := s.resolveContactEmail(ctx, record)
	if email == "" {
		return nil
	}

	switch record.Kind {
	case domain.OutcomeEmailReplied, domain.OutcomePositiveResponse:
		if err := s.contactRepo.SetLastReplyAt(ctx, email, record.DetectedAt); err != nil {
			var notFound *domain.ErrNotFound
			if !errors.As(err, &notFound) {
				return err
			}
		}
		return s.recipientRepo.Add(ctx, &domain.ApprovedRecipient{
			Email:  email,
			Reason: fmt.Sprintf("outcome %s", record.Kind),
		})

	case domain.OutcomeEmailBounced:
		return s.contactRepo.Suppress(ctx, email, domain.SuppressionBounce, record.DetectedAt)

	case domain.OutcomeEmailUnsubscribed:
		return s.contactRepo.Suppress(ctx, email, domain.SuppressionUnsub, record.DetectedAt)
	}

	return nil
}

// resolveContactEmail finds the contact email behind an outcome subject. A
// draft subject without an explicit recipient falls back to the send record,
// so provider webhooks that only carry the draft id still reach the contact.
func (s *OutcomeService) resolveContactEmail(ctx context.Context, record *domain.OutcomeRecord) string {
	switch record.SubjectKind {
	case domain.SubjectContact:
		return record.SubjectID
	case domain.SubjectDraft:
		if recipient := record.Details.String("recipient"); recipient != "" {
			return recipient
		}
		if sendRecord, err := s.sendRecordRepo.GetByDraftID(ctx, record.SubjectID); err == nil {
			return sendRecord.Recipient
		}
		return ""
	}
	return record.Details.String("recipient")
}

// ListBySubject returns the outcome history for one subject.
func (s *OutcomeService) ListBySubject(ctx context.Context, kind domain.OutcomeSubjectKind, id string) ([]*domain.OutcomeRecord, error) {
	return s.outcomeRepo.ListBySubject(ctx, kind, id)
}

// ImpactForContact returns the accumulated feedback used by the APS scorer.
func (s *OutcomeService) ImpactForContact(ctx context.Context, contactID string) (float64, error) {
	return s.outcomeRepo.SumImpactForContact(ctx, contactID)
}

// DetectStale records a no_response outcome against sent drafts that have
// gone a week without any response. Run from the worker beat; the existing
// outcome check keeps it idempotent.
func (s *OutcomeService) DetectStale(ctx context.Context, now time.Time, limit int) error {
	records, err := s.sendRecordRepo.ListRecent(ctx, limit)
	if err != nil {
		return err
	}

	for _, record := range records {
		if now.Sub(record.SentAt) < noResponseAfter {
			continue
		}
		outcomes, err := s.outcomeRepo.ListBySubject(ctx, domain.SubjectDraft, record.DraftID)
		if err != nil {
			return err
		}
		if hasResponseOutcome(outcomes) {
			continue
		}
		err = s.Record(ctx, &domain.OutcomeRecord{
			SubjectKind: domain.SubjectDraft,
			SubjectID:   record.DraftID,
			Kind:        domain.OutcomeNoResponse,
			Source:      domain.OutcomeSourceAuto,
			DetectedAt:  now,
			Details:     domain.JSONMap{"recipient": record.Recipient},
		})
		if err != nil {
			s.logger.WithField("draft_id", record.DraftID).Error("Failed to record no_response outcome")
		}
	}
	return nil
}

func hasResponseOutcome(outcomes []*domain.OutcomeRecord) bool {
	for _, outcome := range outcomes {
		switch outcome.Kind {
		case domain.OutcomeEmailReplied, domain.OutcomePositiveResponse,
			domain.OutcomeNegativeResponse, domain.OutcomeNoResponse,
			domain.OutcomeEmailBounced, domain.OutcomeEmailUnsubscribed:
			return true
		}
	}
	return false
}

// Stats aggregates outcomes over a range, cached briefly since the queue UI
// polls it.
func (s *OutcomeService) Stats(ctx context.Context, rng domain.TimeRange) (*domain.OutcomeStats, error) {
	key := fmt.Sprintf("outcome_stats:%d:%d", rng.Start.Unix(), rng.End.Unix())

	cached, err := s.statsCache.GetOrSet(key, outcomeStatsCacheTTL, func() (interface{}, error) {
		return s.outcomeRepo.Stats(ctx, rng)
	})
	if err != nil {
		return nil, err
	}

	stats, ok := cached.(*domain.OutcomeStats)
	if !ok {
		return s.outcomeRepo.Stats(ctx, rng)
	}
	return stats, nil
}
