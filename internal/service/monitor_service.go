package service

import (
	"context"
	"fmt"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/logger"
)

const (
	// monitorHighAPSThreshold is where a pending item warrants a ping.
	monitorHighAPSThreshold = 85.0

	// monitorNegativeImpactWindow is how far back negative outcomes alert.
	monitorNegativeImpactWindow = 24 * time.Hour

	monitorScanLimit = 50
)

// MonitorService produces operator notifications from the system's state.
// Each scan condition dedupes on (kind, related id), so a stuck workflow
// pings once, not once per minute.
type MonitorService struct {
	logger           logger.Logger
	queueRepo        domain.CommandQueueRepository
	workflowRepo     domain.WorkflowRepository
	outcomeRepo      domain.OutcomeRepository
	notificationRepo domain.NotificationRepository
}

func NewMonitorService(
	log logger.Logger,
	queueRepo domain.CommandQueueRepository,
	workflowRepo domain.WorkflowRepository,
	outcomeRepo domain.OutcomeRepository,
	notificationRepo domain.NotificationRepository,
) *MonitorService {
	return &MonitorService{
		logger:           log,
		queueRepo:        queueRepo,
		workflowRepo:     workflowRepo,
		outcomeRepo:      outcomeRepo,
		notificationRepo: notificationRepo,
	}
}

// Scan runs all monitor conditions once. Called from the worker beat.
func (s *MonitorService) Scan(ctx context.Context, now time.Time) error {
	if err := s.scanHighPriorityItems(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("High priority scan failed")
	}
	if err := s.scanOverdueItems(ctx, now); err != nil {
		s.logger.WithField("error", err.Error()).Error("Overdue item scan failed")
	}
	if err := s.scanDeadWorkflows(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Error("Dead workflow scan failed")
	}
	if err := s.scanNegativeOutcomes(ctx, now); err != nil {
		s.logger.WithField("error", err.Error()).Error("Negative outcome scan failed")
	}
	return nil
}

func (s *MonitorService) scanHighPriorityItems(ctx context.Context) error {
	items, err := s.queueRepo.ListByStatus(ctx, domain.QueueItemPending, monitorScanLimit)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.APSScore < monitorHighAPSThreshold {
			continue
		}
		if err := s.notify(ctx, &domain.Notification{
			Kind:     "high_priority_item",
			Priority: domain.NotificationPriorityHigh,
			Title:    fmt.Sprintf("High priority: %s (APS %.0f)", item.ActionType, item.APSScore),
			Body:     item.Reasoning,
			RelatedIDs: domain.StringMap{
				"queue_item_id": item.ID,
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *MonitorService) scanOverdueItems(ctx context.Context, now time.Time) error {
	items, err := s.queueRepo.ListByStatus(ctx, domain.QueueItemPending, monitorScanLimit)
	if err != nil {
		return err
	}
	for _, item := range items {
		if !item.Overdue(now) {
			continue
		}
		if err := s.notify(ctx, &domain.Notification{
			Kind:     "overdue_item",
			Priority: domain.NotificationPriorityUrgent,
			Title:    fmt.Sprintf("Overdue: %s due %s", item.ActionType, item.DueBy.Format("Jan 2 15:04")),
			Body:     item.Reasoning,
			RelatedIDs: domain.StringMap{
				"queue_item_id": item.ID,
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *MonitorService) scanDeadWorkflows(ctx context.Context) error {
	for _, state := range []domain.WorkflowState{domain.WorkflowStateDead, domain.WorkflowStateFailed} {
		workflows, err := s.workflowRepo.ListByState(ctx, state, monitorScanLimit)
		if err != nil {
			return err
		}
		for _, workflow := range workflows {
			detail := "workflow ended without producing a draft"
			if last := lastFailedStep(workflow.StepLog); last != nil {
				detail = fmt.Sprintf("failed at %s: %s", last.Step, last.Detail)
			}
			if err := s.notify(ctx, &domain.Notification{
				Kind:     "dead_workflow",
				Priority: domain.NotificationPriorityNormal,
				Title:    fmt.Sprintf("Workflow %s", state),
				Body:     detail,
				RelatedIDs: domain.StringMap{
					"workflow_id": workflow.ID,
					"signal_id":   workflow.SignalID,
				},
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *MonitorService) scanNegativeOutcomes(ctx context.Context, now time.Time) error {
	outcomes, err := s.outcomeRepo.ListSince(ctx, now.Add(-monitorNegativeImpactWindow), monitorScanLimit)
	if err != nil {
		return err
	}
	for _, outcome := range outcomes {
		if outcome.Impact >= 0 {
			continue
		}
		if err := s.notify(ctx, &domain.Notification{
			Kind:     "negative_outcome",
			Priority: domain.NotificationPriorityHigh,
			Title:    fmt.Sprintf("Negative outcome: %s", outcome.Kind),
			Body:     fmt.Sprintf("%s %s, impact %.0f", outcome.SubjectKind, outcome.SubjectID, outcome.Impact),
			RelatedIDs: domain.StringMap{
				"outcome_id": outcome.ID,
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

// notify creates the notification unless one already exists for the same
// kind and subject.
func (s *MonitorService) notify(ctx context.Context, notification *domain.Notification) error {
	for key, id := range notification.RelatedIDs {
		exists, err := s.notificationRepo.ExistsForRelated(ctx, notification.Kind, key, id)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"kind":  notification.Kind,
		"title": notification.Title,
	}).Info("Notification created")
	return nil
}

func lastFailedStep(log domain.StepLog) *domain.StepLogEntry {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].Status == domain.StepStatusFailed {
			return &log[i]
		}
	}
	return nil
}
