package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/domain/mocks"
	"github.com/caseyos/caseyos/pkg/logger"
)

type monitorServiceMocks struct {
	queueRepo        *mocks.MockCommandQueueRepository
	workflowRepo     *mocks.MockWorkflowRepository
	outcomeRepo      *mocks.MockOutcomeRepository
	notificationRepo *mocks.MockNotificationRepository
}

func newMonitorService(t *testing.T, ctrl *gomock.Controller) (*MonitorService, monitorServiceMocks) {
	m := monitorServiceMocks{
		queueRepo:        mocks.NewMockCommandQueueRepository(ctrl),
		workflowRepo:     mocks.NewMockWorkflowRepository(ctrl),
		outcomeRepo:      mocks.NewMockOutcomeRepository(ctrl),
		notificationRepo: mocks.NewMockNotificationRepository(ctrl),
	}
	svc := NewMonitorService(logger.NewTestLogger(t), m.queueRepo, m.workflowRepo, m.outcomeRepo, m.notificationRepo)
	return svc, m
}

// expectQuietSystem stubs every scan source empty.
func expectQuietSystem(m monitorServiceMocks) {
	m.queueRepo.EXPECT().ListByStatus(gomock.Any(), domain.QueueItemPending, monitorScanLimit).Return(nil, nil).Times(2)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), domain.WorkflowStateDead, monitorScanLimit).Return(nil, nil)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), domain.WorkflowStateFailed, monitorScanLimit).Return(nil, nil)
	m.outcomeRepo.EXPECT().ListSince(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil)
}

func TestScanQuietSystemProducesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newMonitorService(t, ctrl)

	expectQuietSystem(m)

	require.NoError(t, svc.Scan(context.Background(), time.Now().UTC()))
}

func TestScanHighPriorityItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newMonitorService(t, ctrl)

	items := []*domain.CommandQueueItem{
		{ID: "q-low", APSScore: 40, ActionType: domain.ActionSendEmail},
		{ID: "q-high", APSScore: 92, ActionType: domain.ActionBookMeeting, Reasoning: "hot lead"},
	}

	m.queueRepo.EXPECT().ListByStatus(gomock.Any(), domain.QueueItemPending, monitorScanLimit).Return(items, nil).Times(2)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil).Times(2)
	m.outcomeRepo.EXPECT().ListSince(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil)

	m.notificationRepo.EXPECT().ExistsForRelated(gomock.Any(), "high_priority_item", "queue_item_id", "q-high").Return(false, nil)
	m.notificationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n *domain.Notification) error {
			assert.Equal(t, domain.NotificationPriorityHigh, n.Priority)
			assert.Contains(t, n.Title, "APS 92")
			assert.Equal(t, "hot lead", n.Body)
			return nil
		})

	require.NoError(t, svc.Scan(context.Background(), time.Now().UTC()))
}

func TestScanOverdueItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newMonitorService(t, ctrl)

	now := time.Now().UTC()
	dueBy := now.Add(-2 * time.Hour)
	items := []*domain.CommandQueueItem{
		{ID: "q-1", APSScore: 30, ActionType: domain.ActionSendEmail, DueBy: &dueBy},
	}

	m.queueRepo.EXPECT().ListByStatus(gomock.Any(), domain.QueueItemPending, monitorScanLimit).Return(items, nil).Times(2)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil).Times(2)
	m.outcomeRepo.EXPECT().ListSince(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil)

	m.notificationRepo.EXPECT().ExistsForRelated(gomock.Any(), "overdue_item", "queue_item_id", "q-1").Return(false, nil)
	m.notificationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n *domain.Notification) error {
			assert.Equal(t, domain.NotificationPriorityUrgent, n.Priority)
			assert.Contains(t, n.Title, "Overdue")
			return nil
		})

	require.NoError(t, svc.Scan(context.Background(), now))
}

func TestScanDeadWorkflowNamesFailedStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newMonitorService(t, ctrl)

	workflow := &domain.Workflow{ID: "wf-1", SignalID: "sig-1", State: domain.WorkflowStateDead}
	workflow.AppendStep(domain.StepResolveContact, domain.StepStatusOK, "", false)
	workflow.AppendStep(domain.StepWriteDraft, domain.StepStatusFailed, "llm unavailable", true)

	m.queueRepo.EXPECT().ListByStatus(gomock.Any(), domain.QueueItemPending, monitorScanLimit).Return(nil, nil).Times(2)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), domain.WorkflowStateDead, monitorScanLimit).
		Return([]*domain.Workflow{workflow}, nil)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), domain.WorkflowStateFailed, monitorScanLimit).Return(nil, nil)
	m.outcomeRepo.EXPECT().ListSince(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil)

	m.notificationRepo.EXPECT().ExistsForRelated(gomock.Any(), "dead_workflow", gomock.Any(), gomock.Any()).Return(false, nil)
	m.notificationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, n *domain.Notification) error {
			assert.Contains(t, n.Body, "llm unavailable")
			assert.Equal(t, "wf-1", n.RelatedIDs["workflow_id"])
			return nil
		})

	require.NoError(t, svc.Scan(context.Background(), time.Now().UTC()))
}

func TestScanNegativeOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newMonitorService(t, ctrl)

	outcomes := []*domain.OutcomeRecord{
		{ID: "o-good", Kind: domain.OutcomeEmailReplied, Impact: 8},
		{ID: "o-bad", Kind: domain.OutcomeEmailBounced, Impact: -4, SubjectKind: domain.SubjectDraft, SubjectID: "d-1"},
	}

	m.queueRepo.EXPECT().ListByStatus(gomock.Any(), domain.QueueItemPending, monitorScanLimit).Return(nil, nil).Times(2)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil).Times(2)
	m.outcomeRepo.EXPECT().ListSince(gomock.Any(), gomock.Any(), monitorScanLimit).Return(outcomes, nil)

	m.notificationRepo.EXPECT().ExistsForRelated(gomock.Any(), "negative_outcome", "outcome_id", "o-bad").Return(false, nil)
	m.notificationRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.Scan(context.Background(), time.Now().UTC()))
}

func TestScanDeduplicatesNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newMonitorService(t, ctrl)

	items := []*domain.CommandQueueItem{
		{ID: "q-high", APSScore: 95, ActionType: domain.ActionSendEmail},
	}

	m.queueRepo.EXPECT().ListByStatus(gomock.Any(), domain.QueueItemPending, monitorScanLimit).Return(items, nil).Times(2)
	m.workflowRepo.EXPECT().ListByState(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil).Times(2)
	m.outcomeRepo.EXPECT().ListSince(gomock.Any(), gomock.Any(), monitorScanLimit).Return(nil, nil)

	// already notified: no Create
	m.notificationRepo.EXPECT().ExistsForRelated(gomock.Any(), "high_priority_item", "queue_item_id", "q-high").Return(true, nil)

	require.NoError(t, svc.Scan(context.Background(), time.Now().UTC()))
}
