package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/crypto"
	"github.com/caseyos/caseyos/pkg/logger"
	"github.com/caseyos/caseyos/pkg/ratelimiter"
)

// idempotencyTTL keeps replay markers around long after the rollback window
// closes.
const idempotencyTTL = 30 * 24 * time.Hour

// ExecuteResult reports what an execution did (or, in dry-run, would do).
// Blocked is set when a gate stopped the action: nothing was sent and the
// queue item stays pending. Artifact carries the rendered action for dry-run
// and blocked walks.
type ExecuteResult struct {
	QueueItemID string             `json:"queue_item_id"`
	Action      domain.ActionType  `json:"action"`
	DryRun      bool               `json:"dry_run"`
	Blocked     bool               `json:"blocked,omitempty"`
	DraftID     string             `json:"draft_id,omitempty"`
	SendRecord  *domain.SendRecord `json:"send_record,omitempty"`
	ExternalID  string             `json:"external_id,omitempty"`
	Detail      string             `json:"detail,omitempty"`
	Artifact    domain.JSONMap     `json:"artifact,omitempty"`
}

// ExecutorService is the only component permitted to perform outbound
// actions. Every send passes the gate chain in order: kill switch, draft
// state, suppression, idempotency, rate limits. Dry-run mode walks the same
// chain without side effects.
type ExecutorService struct {
	logger         logger.Logger
	draftRepo      domain.DraftRepository
	sendRecordRepo domain.SendRecordRepository
	queueRepo      domain.CommandQueueRepository
	contactRepo    domain.ContactRepository
	settingRepo    domain.SettingRepository
	auditRepo      domain.AuditLogRepository
	failedTaskRepo domain.FailedTaskRepository
	connectors     *domain.ConnectorRegistry
	limiter        *ratelimiter.SendLimiter
	store          ratelimiter.CounterStore

	allowRealSends bool
}

func NewExecutorService(
	log logger.Logger,
	draftRepo domain.DraftRepository,
	sendRecordRepo domain.SendRecordRepository,
	queueRepo domain.CommandQueueRepository,
	contactRepo domain.ContactRepository,
	settingRepo domain.SettingRepository,
	auditRepo domain.AuditLogRepository,
	failedTaskRepo domain.FailedTaskRepository,
	connectors *domain.ConnectorRegistry,
	limiter *ratelimiter.SendLimiter,
	store ratelimiter.CounterStore,
	allowRealSends bool,
) *ExecutorService {
	return &ExecutorService{
		logger:         log,
		draftRepo:      draftRepo,
		sendRecordRepo: sendRecordRepo,
		queueRepo:      queueRepo,
		contactRepo:    contactRepo,
		settingRepo:    settingRepo,
		auditRepo:      auditRepo,
		failedTaskRepo: failedTaskRepo,
		connectors:     connectors,
		limiter:        limiter,
		store:          store,
		allowRealSends: allowRealSends,
	}
}

// Execute performs the action behind a queue item. The actor is recorded in
// the audit log; dryRun walks the gates and reports the would-be outcome.
func (s *ExecutorService) Execute(ctx context.Context, queueItemID, actor string, dryRun bool) (*ExecuteResult, error) {
	item, err := s.queueRepo.Get(ctx, queueItemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.QueueItemPending && item.Status != domain.QueueItemAccepted {
		return nil, &domain.ConflictError{Reason: fmt.Sprintf("queue item is %s", item.Status)}
	}

	if stopped, err := s.settingRepo.GetBool(ctx, domain.SettingEmergencyStop, false); err != nil {
		return nil, err
	} else if stopped {
		return nil, &domain.ConflictError{Reason: "emergency stop engaged, all execution halted"}
	}

	// one tuple, one side effect: the non-email actions take their replay
	// marker here, the send path takes its own inside the gate chain
	idemKey := crypto.IdempotencyKey(item.ID, item.DraftID(), string(item.ActionType))
	if !dryRun && item.ActionType != domain.ActionSendEmail {
		acquired, err := s.store.SetNX(ctx, "idem:"+idemKey, "executed", idempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to take idempotency lock: %w", err)
		}
		if !acquired {
			return nil, &domain.ConflictError{Reason: "action already executed for this queue item"}
		}
	}

	var result *ExecuteResult
	switch item.ActionType {
	case domain.ActionSendEmail:
		result, err = s.executeSendEmail(ctx, item, actor, dryRun)
	case domain.ActionBookMeeting:
		result, err = s.executeBookMeeting(ctx, item, dryRun)
	case domain.ActionUpdateDeal:
		result, err = s.executeUpdateDeal(ctx, item, dryRun)
	case domain.ActionCreateTask:
		result, err = s.executeCreateTask(ctx, item, dryRun)
	case domain.ActionEngageSocial:
		result, err = s.executeEngageSocial(item, dryRun)
	default:
		return nil, domain.NewValidationError("unknown action type: " + string(item.ActionType))
	}
	if err != nil {
		if !dryRun && item.ActionType != domain.ActionSendEmail {
			s.releaseIdempotency(ctx, idemKey)
		}
		if connErr, ok := domain.AsConnectorError(err); ok && !dryRun {
			s.failAction(ctx, item, actor, err, connErr.Retryable())
		}
		return nil, err
	}

	if !dryRun && !result.Blocked {
		if err := s.queueRepo.SetStatus(ctx, item.ID, domain.QueueItemCompleted, "executed by "+actor); err != nil {
			s.logger.WithField("queue_item_id", item.ID).Warn("Failed to complete queue item after execution")
		}
		s.audit(ctx, actor, "execute_"+string(item.ActionType), item.ID, nil, domain.JSONMap{"result": result.Detail})
	}

	result.QueueItemID = item.ID
	result.Action = item.ActionType
	result.DryRun = dryRun
	return result, nil
}

// executeSendEmail is the send gate chain. Order matters: idempotency comes
// before rate limiting so a replay never consumes a slot.
func (s *ExecutorService) executeSendEmail(ctx context.Context, item *domain.CommandQueueItem, actor string, dryRun bool) (*ExecuteResult, error) {
	draftID := item.DraftID()
	if draftID == "" {
		return nil, domain.NewValidationError("send_email item carries no draft_id")
	}

	draft, err := s.draftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if draft.Status == domain.DraftStatusSent {
		record, err := s.sendRecordRepo.GetByDraftID(ctx, draft.ID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.ConflictError{Reason: "draft already sent", Result: record}
	}
	if draft.Status != domain.DraftStatusAutoApproved && draft.Status != domain.DraftStatusApproved {
		return nil, &domain.ConflictError{Reason: fmt.Sprintf("draft is %s, not approved for sending", draft.Status)}
	}

	contact, err := s.contactRepo.GetByEmail(ctx, draft.Recipient)
	if err == nil && contact.IsSuppressed() {
		return nil, &domain.ConflictError{Reason: fmt.Sprintf("recipient is suppressed (%s)", contact.Suppressed)}
	} else if err != nil {
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	idemKey := crypto.IdempotencyKey(item.ID, draft.ID, string(item.ActionType))

	if record, err := s.sendRecordRepo.GetByIdempotencyKey(ctx, idemKey); err == nil && record != nil {
		return nil, &domain.ConflictError{Reason: "send already recorded for this draft", Result: record}
	}

	draftOnly, err := s.settingRepo.GetBool(ctx, domain.SettingModeDraftOnly, false)
	if err != nil {
		return nil, err
	}
	if dryRun || draftOnly || !s.allowRealSends {
		detail := "dry run: all gates passed, send not performed"
		if draftOnly {
			detail = "draft-only mode: send blocked, draft remains approved"
		} else if !s.allowRealSends {
			detail = "real sends disabled: send blocked, draft remains approved"
		}
		return &ExecuteResult{
			DraftID: draft.ID,
			Blocked: !dryRun,
			Detail:  detail,
			Artifact: domain.JSONMap{
				"recipient": draft.Recipient,
				"subject":   draft.Subject,
				"body":      draft.BodyText,
			},
		}, nil
	}

	// in-flight lock: a second worker reaching this point loses the race
	acquired, err := s.store.SetNX(ctx, "idem:"+idemKey, "in_flight", idempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to take idempotency lock: %w", err)
	}
	if !acquired {
		if record, err := s.sendRecordRepo.GetByIdempotencyKey(ctx, idemKey); err == nil && record != nil {
			return nil, &domain.ConflictError{Reason: "send already recorded for this draft", Result: record}
		}
		return nil, &domain.ConflictError{Reason: "send already in flight for this draft"}
	}

	decision, err := s.limiter.Reserve(ctx, draft.Recipient)
	if err != nil {
		s.releaseIdempotency(ctx, idemKey)
		return nil, err
	}
	if !decision.Allowed {
		s.releaseIdempotency(ctx, idemKey)
		return nil, &domain.RateLimitedError{Scope: decision.Scope, RetryAfter: decision.RetryAfter}
	}

	outbound := domain.OutboundEmail{
		To:            draft.Recipient,
		Subject:       draft.Subject,
		BodyText:      draft.BodyText,
		BodyHTML:      draft.BodyHTML,
		ThreadHeaders: draft.ThreadHeaders,
	}
	receipt, err := s.connectors.Email.Send(ctx, draft.ExternalDraftID, outbound)
	if err != nil {
		s.connectors.RecordError("email", err)
		if releaseErr := s.limiter.Release(ctx, draft.Recipient); releaseErr != nil {
			s.logger.WithField("draft_id", draft.ID).Error("Failed to release send slot after failed send")
		}
		s.releaseIdempotency(ctx, idemKey)
		if _, updateErr := s.draftRepo.UpdateStatus(ctx, draft.ID, domain.DraftStatusFailed, "send failed: "+err.Error()); updateErr != nil {
			s.logger.WithField("draft_id", draft.ID).Error("Failed to mark draft failed after failed send")
		}
		return nil, err
	}
	s.connectors.RecordSuccess("email")

	record := &domain.SendRecord{
		DraftID:           draft.ID,
		Recipient:         draft.Recipient,
		IdempotencyKey:    idemKey,
		SentAt:            time.Now().UTC(),
		ExternalMessageID: receipt.MessageID,
		ThreadID:          receipt.ThreadID,
	}
	if err := s.sendRecordRepo.Create(ctx, record); err != nil {
		// the email is out; the record must land. Surface loudly but do not
		// release the slot: the send happened.
		s.logger.WithFields(map[string]interface{}{
			"draft_id": draft.ID,
			"error":    err.Error(),
		}).Error("Email sent but send record creation failed")
		return nil, err
	}

	if _, err := s.draftRepo.UpdateStatus(ctx, draft.ID, domain.DraftStatusSent, "sent by "+actor); err != nil {
		s.logger.WithField("draft_id", draft.ID).Error("Failed to mark draft sent")
	}

	s.audit(ctx, actor, "send_email", draft.ID,
		domain.JSONMap{"status": string(draft.Status)},
		domain.JSONMap{"status": string(domain.DraftStatusSent), "message_id": receipt.MessageID})

	s.logger.WithFields(map[string]interface{}{
		"draft_id":   draft.ID,
		"recipient":  draft.Recipient,
		"message_id": receipt.MessageID,
	}).Info("Email sent")

	return &ExecuteResult{DraftID: draft.ID, SendRecord: record, Detail: "sent"}, nil
}

// Rollback compensates a sent draft within the rollback window: the external
// draft artifact and the CRM follow-up task are deleted and the draft is
// marked rolled_back. The delivered email itself is never recalled.
func (s *ExecutorService) Rollback(ctx context.Context, draftID, actor string) (*domain.DraftEmail, error) {
	draft, err := s.draftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != domain.DraftStatusSent {
		return nil, &domain.ConflictError{Reason: fmt.Sprintf("only sent drafts roll back, draft is %s", draft.Status)}
	}

	record, err := s.sendRecordRepo.GetByDraftID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if time.Since(record.SentAt) > domain.RollbackWindow {
		return nil, &domain.ConflictError{
			Reason: fmt.Sprintf("rollback window closed %s after send", domain.RollbackWindow),
		}
	}

	if draft.ExternalDraftID != "" {
		if err := s.connectors.Email.DeleteDraft(ctx, draft.ExternalDraftID); err != nil {
			s.logger.WithField("draft_id", draftID).Warn("Failed to delete external draft during rollback")
		}
	}
	if taskID := draft.Metadata.String("crm_task_id"); taskID != "" {
		if err := s.connectors.CRM.DeleteTask(ctx, taskID); err != nil {
			s.logger.WithField("draft_id", draftID).Warn("Failed to delete CRM task during rollback")
		}
	}

	updated, err := s.draftRepo.UpdateStatus(ctx, draftID, domain.DraftStatusRolledBack, "rolled back by "+actor)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "rollback", draftID,
		domain.JSONMap{"status": string(domain.DraftStatusSent)},
		domain.JSONMap{"status": string(domain.DraftStatusRolledBack)})

	return updated, nil
}

func (s *ExecutorService) executeBookMeeting(ctx context.Context, item *domain.CommandQueueItem, dryRun bool) (*ExecuteResult, error) {
	title := item.ActionContext.String("title")
	if title == "" {
		title = "Meeting"
	}
	start, err := time.Parse(time.RFC3339, item.ActionContext.String("start"))
	if err != nil {
		return nil, domain.NewValidationError("book_meeting item has no valid start time")
	}
	end, err := time.Parse(time.RFC3339, item.ActionContext.String("end"))
	if err != nil {
		end = start.Add(30 * time.Minute)
	}

	event := domain.CalendarEvent{Title: title, Start: start, End: end}
	if attendee := item.ActionContext.String("attendee"); attendee != "" {
		event.Attendees = []string{attendee}
	}

	if dryRun {
		return &ExecuteResult{
			Detail: fmt.Sprintf("dry run: would book %q at %s", title, start.Format(time.RFC3339)),
			Artifact: domain.JSONMap{
				"title": title,
				"start": start.Format(time.RFC3339),
				"end":   end.Format(time.RFC3339),
			},
		}, nil
	}

	eventID, err := s.connectors.Calendar.CreateEvent(ctx, event)
	if err != nil {
		s.connectors.RecordError("calendar", err)
		return nil, err
	}
	s.connectors.RecordSuccess("calendar")
	return &ExecuteResult{ExternalID: eventID, Detail: "meeting booked"}, nil
}

func (s *ExecutorService) executeUpdateDeal(ctx context.Context, item *domain.CommandQueueItem, dryRun bool) (*ExecuteResult, error) {
	dealID := item.ActionContext.String("deal_id")
	if dealID == "" {
		return nil, domain.NewValidationError("update_deal item carries no deal_id")
	}
	fields, _ := item.ActionContext["fields"].(map[string]interface{})
	if len(fields) == 0 {
		return nil, domain.NewValidationError("update_deal item carries no fields")
	}

	if dryRun {
		return &ExecuteResult{
			ExternalID: dealID,
			Detail:     "dry run: would update deal",
			Artifact:   domain.JSONMap{"deal_id": dealID, "fields": fields},
		}, nil
	}

	if err := s.connectors.CRM.UpdateDeal(ctx, dealID, domain.JSONMap(fields)); err != nil {
		s.connectors.RecordError("crm", err)
		return nil, err
	}
	s.connectors.RecordSuccess("crm")
	return &ExecuteResult{ExternalID: dealID, Detail: "deal updated"}, nil
}

func (s *ExecutorService) executeCreateTask(ctx context.Context, item *domain.CommandQueueItem, dryRun bool) (*ExecuteResult, error) {
	contactID := item.ActionContext.String("contact_id")
	title := item.ActionContext.String("title")
	if contactID == "" || title == "" {
		return nil, domain.NewValidationError("create_task item needs contact_id and title")
	}
	dueAt := time.Now().UTC().AddDate(0, 0, 1)
	if raw := item.ActionContext.String("due_at"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			dueAt = parsed
		}
	}

	if dryRun {
		return &ExecuteResult{
			Detail: fmt.Sprintf("dry run: would create task %q", title),
			Artifact: domain.JSONMap{
				"title":      title,
				"contact_id": contactID,
				"due_at":     dueAt.Format(time.RFC3339),
			},
		}, nil
	}

	taskID, err := s.connectors.CRM.CreateTask(ctx, contactID, title, dueAt)
	if err != nil {
		s.connectors.RecordError("crm", err)
		return nil, err
	}
	s.connectors.RecordSuccess("crm")
	return &ExecuteResult{ExternalID: taskID, Detail: "task created"}, nil
}

// executeEngageSocial has no connector side: the operator does the engaging,
// the queue item records that it happened.
func (s *ExecutorService) executeEngageSocial(item *domain.CommandQueueItem, dryRun bool) (*ExecuteResult, error) {
	if dryRun {
		return &ExecuteResult{Detail: "dry run: manual social engagement"}, nil
	}
	detail := "social engagement recorded"
	if len(item.SignalIDs) > 0 {
		detail += ", signal " + item.SignalIDs[0]
	}
	return &ExecuteResult{Detail: detail}, nil
}

// Dismiss marks a queue item dismissed without executing it.
func (s *ExecutorService) Dismiss(ctx context.Context, queueItemID, actor, reason string) error {
	if reason == "" {
		reason = "dismissed by " + actor
	}
	if err := s.queueRepo.SetStatus(ctx, queueItemID, domain.QueueItemDismissed, reason); err != nil {
		return err
	}
	s.audit(ctx, actor, "dismiss", queueItemID, nil, domain.JSONMap{"reason": reason})
	return nil
}

// failAction records a connector failure: the queue item goes to failed so
// the queue surfaces it, and transient errors land in the dead letter queue
// for the retry sweep.
func (s *ExecutorService) failAction(ctx context.Context, item *domain.CommandQueueItem, actor string, execErr error, transient bool) {
	if err := s.queueRepo.SetStatus(ctx, item.ID, domain.QueueItemFailed, execErr.Error()); err != nil {
		s.logger.WithField("queue_item_id", item.ID).Warn("Failed to mark queue item failed after execution error")
	}
	s.audit(ctx, actor, "execute_failed", item.ID, nil, domain.JSONMap{"error": execErr.Error()})

	if !transient {
		return
	}
	next := time.Now().UTC().Add(time.Minute)
	task := &domain.FailedTask{
		TaskName:    domain.TaskExecuteAction,
		Payload:     domain.JSONMap{"queue_item_id": item.ID, "draft_id": item.DraftID()},
		ErrorText:   execErr.Error(),
		NextRetryAt: &next,
	}
	if err := s.failedTaskRepo.Create(ctx, task); err != nil {
		s.logger.WithField("queue_item_id", item.ID).Error("Failed to dead-letter failed action")
	}
}

func (s *ExecutorService) releaseIdempotency(ctx context.Context, idemKey string) {
	if err := s.store.Delete(ctx, "idem:"+idemKey); err != nil {
		s.logger.WithField("idempotency_key", idemKey).Warn("Failed to release idempotency lock")
	}
}

func (s *ExecutorService) audit(ctx context.Context, actor, action, subject string, before, after domain.JSONMap) {
	entry := &domain.AuditEntry{
		Actor:   actor,
		Action:  action,
		Subject: subject,
		Before:  before,
		After:   after,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"action":  action,
			"subject": subject,
		}).Error("Failed to append audit entry")
	}
}
