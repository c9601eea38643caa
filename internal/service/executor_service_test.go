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
	"github.com/caseyos/caseyos/pkg/crypto"
	"github.com/caseyos/caseyos/pkg/logger"
	"github.com/caseyos/caseyos/pkg/ratelimiter"
)

type executorServiceMocks struct {
	draftRepo      *mocks.MockDraftRepository
	sendRecordRepo *mocks.MockSendRecordRepository
	queueRepo      *mocks.MockCommandQueueRepository
	contactRepo    *mocks.MockContactRepository
	settingRepo    *mocks.MockSettingRepository
	auditRepo      *mocks.MockAuditLogRepository
	failedTaskRepo *mocks.MockFailedTaskRepository
	email          *mocks.MockEmailConnector
	crm            *mocks.MockCRMConnector
	calendar       *mocks.MockCalendarConnector
	store          *ratelimiter.MemoryCounterStore
}

func newExecutorService(t *testing.T, ctrl *gomock.Controller, policy ratelimiter.Policy, allowRealSends bool) (*ExecutorService, executorServiceMocks) {
	m := executorServiceMocks{
		draftRepo:      mocks.NewMockDraftRepository(ctrl),
		sendRecordRepo: mocks.NewMockSendRecordRepository(ctrl),
		queueRepo:      mocks.NewMockCommandQueueRepository(ctrl),
		contactRepo:    mocks.NewMockContactRepository(ctrl),
		settingRepo:    mocks.NewMockSettingRepository(ctrl),
		auditRepo:      mocks.NewMockAuditLogRepository(ctrl),
		failedTaskRepo: mocks.NewMockFailedTaskRepository(ctrl),
		email:          mocks.NewMockEmailConnector(ctrl),
		crm:            mocks.NewMockCRMConnector(ctrl),
		calendar:       mocks.NewMockCalendarConnector(ctrl),
		store:          ratelimiter.NewMemoryCounterStore(),
	}
	registry := domain.NewConnectorRegistry(m.email, m.crm, m.calendar,
		mocks.NewMockAssetConnector(ctrl), mocks.NewMockLLMConnector(ctrl))
	limiter := ratelimiter.NewSendLimiter(m.store, policy)
	svc := NewExecutorService(
		logger.NewTestLogger(t),
		m.draftRepo, m.sendRecordRepo, m.queueRepo, m.contactRepo,
		m.settingRepo, m.auditRepo, m.failedTaskRepo, registry, limiter, m.store, allowRealSends,
	)
	return svc, m
}

func defaultPolicy() ratelimiter.Policy {
	return ratelimiter.Policy{PerRecipientWeek: 2, GlobalDay: 20}
}

func sendEmailItem() *domain.CommandQueueItem {
	return &domain.CommandQueueItem{
		ID:            "q-1",
		Status:        domain.QueueItemPending,
		ActionType:    domain.ActionSendEmail,
		ActionContext: domain.JSONMap{"draft_id": "d-1"},
	}
}

func approvedDraft() *domain.DraftEmail {
	return &domain.DraftEmail{
		ID:        "d-1",
		Recipient: "jane@acme.com",
		Subject:   "Quick question",
		BodyText:  "Hi Jane",
		Status:    domain.DraftStatusAutoApproved,
	}
}

// noRecord stubs the idempotency lookup for a draft with no prior send.
func noRecord(m executorServiceMocks) {
	m.sendRecordRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), gomock.Any()).
		Return(nil, &domain.ErrNotFound{Entity: "send_record", ID: "none"})
}

func TestExecuteRejectsConsumedQueueItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	item := sendEmailItem()
	item.Status = domain.QueueItemCompleted
	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(item, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestExecuteHaltedByEmergencyStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(true, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Reason, "emergency stop")
}

func TestExecuteSendEmailDryRunHasNoSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(approvedDraft(), nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com"}, nil)
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
	// no connector send, no queue completion, no audit

	result, err := svc.Execute(context.Background(), "q-1", "casey", true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.False(t, result.Blocked)
	assert.Equal(t, "d-1", result.DraftID)
	require.NotNil(t, result.Artifact, "dry run returns the rendered email")
	assert.Equal(t, "jane@acme.com", result.Artifact.String("recipient"))
	assert.Equal(t, "Quick question", result.Artifact.String("subject"))
	assert.Equal(t, "Hi Jane", result.Artifact.String("body"))

	count, _ := m.store.Get(context.Background(), "send:global:"+time.Now().UTC().Format("2006-01-02"))
	assert.Zero(t, count, "dry run must not consume a send slot")
}

func TestExecuteSendEmailDraftAlreadySent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := approvedDraft()
	draft.Status = domain.DraftStatusSent
	prior := &domain.SendRecord{ID: "sr-1", DraftID: "d-1"}

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.sendRecordRepo.EXPECT().GetByDraftID(gomock.Any(), "d-1").Return(prior, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Same(t, prior, conflict.Result, "replay returns the original send record")
}

func TestExecuteSendEmailUnapprovedDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := approvedDraft()
	draft.Status = domain.DraftStatusPending

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestExecuteSendEmailSuppressedRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(approvedDraft(), nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com", Suppressed: domain.SuppressionBounce}, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Reason, "suppressed")
}

func TestExecuteSendEmailIdempotencyReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := approvedDraft()
	idemKey := crypto.IdempotencyKey("q-1", draft.ID, string(domain.ActionSendEmail))
	prior := &domain.SendRecord{ID: "sr-1", DraftID: "d-1", IdempotencyKey: idemKey}

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "jane@acme.com"})
	m.sendRecordRepo.EXPECT().GetByIdempotencyKey(gomock.Any(), idemKey).Return(prior, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Same(t, prior, conflict.Result)
}

func TestExecuteSendEmailRateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	// recipient cap of zero blocks the first reservation
	svc, m := newExecutorService(t, ctrl, ratelimiter.Policy{PerRecipientWeek: 0, GlobalDay: 20}, true)

	draft := approvedDraft()
	idemKey := crypto.IdempotencyKey("q-1", draft.ID, string(domain.ActionSendEmail))

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "jane@acme.com"})
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	var limited *domain.RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, "recipient", limited.Scope)
	assert.Greater(t, limited.RetryAfter, time.Duration(0))

	// the in-flight lock is released so a later attempt is not wedged
	value, _ := m.store.GetValue(context.Background(), "idem:"+idemKey)
	assert.Empty(t, value)
}

func TestExecuteSendEmailSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := approvedDraft()
	idemKey := crypto.IdempotencyKey("q-1", draft.ID, string(domain.ActionSendEmail))

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com"}, nil)
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
	m.email.EXPECT().Send(gomock.Any(), "", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, outbound domain.OutboundEmail) (*domain.SendReceipt, error) {
			assert.Equal(t, "jane@acme.com", outbound.To)
			assert.Equal(t, "Quick question", outbound.Subject)
			return &domain.SendReceipt{MessageID: "msg-1", ThreadID: "th-1"}, nil
		})
	m.sendRecordRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *domain.SendRecord) error {
			assert.Equal(t, idemKey, record.IdempotencyKey)
			assert.Equal(t, "msg-1", record.ExternalMessageID)
			return nil
		})
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusSent, "sent by casey").
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusSent}, nil)
	m.queueRepo.EXPECT().SetStatus(gomock.Any(), "q-1", domain.QueueItemCompleted, "executed by casey").Return(nil)
	m.auditRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	result, err := svc.Execute(context.Background(), "q-1", "casey", false)
	require.NoError(t, err)
	assert.False(t, result.DryRun)
	require.NotNil(t, result.SendRecord)
	assert.Equal(t, "msg-1", result.SendRecord.ExternalMessageID)

	count, _ := m.store.Get(context.Background(), "send:global:"+time.Now().UTC().Format("2006-01-02"))
	assert.EqualValues(t, 1, count, "a real send consumes one global slot")
}

func TestExecuteSendEmailFailureReleasesSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := approvedDraft()
	idemKey := crypto.IdempotencyKey("q-1", draft.ID, string(domain.ActionSendEmail))

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "jane@acme.com"})
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
	m.email.EXPECT().Send(gomock.Any(), "", gomock.Any()).
		Return(nil, domain.NewConnectorError(domain.ConnectorErrTransient, "smtp timeout", nil))
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusFailed, gomock.Any()).
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusFailed}, nil)
	m.queueRepo.EXPECT().SetStatus(gomock.Any(), "q-1", domain.QueueItemFailed, gomock.Any()).Return(nil)
	m.auditRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	m.failedTaskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *domain.FailedTask) error {
			assert.Equal(t, domain.TaskExecuteAction, task.TaskName)
			assert.Equal(t, "q-1", task.Payload.String("queue_item_id"))
			assert.Equal(t, "d-1", task.Payload.String("draft_id"))
			require.NotNil(t, task.NextRetryAt)
			return nil
		})

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	require.Error(t, err)

	count, _ := m.store.Get(context.Background(), "send:global:"+time.Now().UTC().Format("2006-01-02"))
	assert.Zero(t, count, "failed send returns its slot")

	value, _ := m.store.GetValue(context.Background(), "idem:"+idemKey)
	assert.Empty(t, value, "failed send releases the idempotency lock")
}

func TestExecuteSendEmailPermanentFailureSkipsDeadLetter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(approvedDraft(), nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "jane@acme.com"})
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
	m.email.EXPECT().Send(gomock.Any(), "", gomock.Any()).
		Return(nil, domain.NewConnectorError(domain.ConnectorErrPermanent, "invalid credentials", nil))
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusFailed, gomock.Any()).
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusFailed}, nil)
	m.queueRepo.EXPECT().SetStatus(gomock.Any(), "q-1", domain.QueueItemFailed, gomock.Any()).Return(nil)
	m.auditRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	// no failedTaskRepo.Create: a permanent error gains nothing from a retry

	_, err := svc.Execute(context.Background(), "q-1", "casey", false)
	require.Error(t, err)
}

func TestExecuteBlockedSendLeavesItemPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), false)

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(approvedDraft(), nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com"}, nil)
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
	// crucially: no queueRepo.SetStatus and no audit append

	result, err := svc.Execute(context.Background(), "q-1", "casey", false)
	require.NoError(t, err)
	assert.True(t, result.Blocked)
	assert.False(t, result.DryRun)
	assert.Contains(t, result.Detail, "real sends disabled")

	count, _ := m.store.Get(context.Background(), "send:global:"+time.Now().UTC().Format("2006-01-02"))
	assert.Zero(t, count, "blocked send must not consume a send slot")
}

func TestExecuteDraftOnlyModeLeavesItemPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-1").Return(sendEmailItem(), nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(approvedDraft(), nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com"}, nil)
	noRecord(m)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(true, nil)

	result, err := svc.Execute(context.Background(), "q-1", "casey", false)
	require.NoError(t, err)
	assert.True(t, result.Blocked)
	assert.Contains(t, result.Detail, "draft-only mode")
}

func TestExecuteBookMeeting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	item := &domain.CommandQueueItem{
		ID:         "q-2",
		Status:     domain.QueueItemPending,
		ActionType: domain.ActionBookMeeting,
		ActionContext: domain.JSONMap{
			"title":    "Intro call",
			"start":    start.Format(time.RFC3339),
			"attendee": "jane@acme.com",
		},
	}

	m.queueRepo.EXPECT().Get(gomock.Any(), "q-2").Return(item, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event domain.CalendarEvent) (string, error) {
			assert.Equal(t, "Intro call", event.Title)
			assert.Equal(t, start.Add(30*time.Minute), event.End, "missing end defaults to 30 minutes")
			assert.Equal(t, []string{"jane@acme.com"}, event.Attendees)
			return "evt-1", nil
		})
	m.queueRepo.EXPECT().SetStatus(gomock.Any(), "q-2", domain.QueueItemCompleted, gomock.Any()).Return(nil)
	m.auditRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.Execute(context.Background(), "q-2", "casey", false)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", result.ExternalID)
}

func TestExecuteUpdateDealValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	item := &domain.CommandQueueItem{
		ID:            "q-3",
		Status:        domain.QueueItemPending,
		ActionType:    domain.ActionUpdateDeal,
		ActionContext: domain.JSONMap{"deal_id": "deal-1"},
	}
	m.queueRepo.EXPECT().Get(gomock.Any(), "q-3").Return(item, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)

	_, err := svc.Execute(context.Background(), "q-3", "casey", false)
	require.Error(t, err, "update_deal without fields is invalid")
}

func TestRollbackInsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := &domain.DraftEmail{
		ID:              "d-1",
		Status:          domain.DraftStatusSent,
		ExternalDraftID: "ext-1",
		Metadata:        domain.JSONMap{"crm_task_id": "task-9"},
	}
	record := &domain.SendRecord{DraftID: "d-1", SentAt: time.Now().UTC().Add(-10 * time.Minute)}

	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.sendRecordRepo.EXPECT().GetByDraftID(gomock.Any(), "d-1").Return(record, nil)
	m.email.EXPECT().DeleteDraft(gomock.Any(), "ext-1").Return(nil)
	m.crm.EXPECT().DeleteTask(gomock.Any(), "task-9").Return(nil)
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusRolledBack, "rolled back by casey").
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusRolledBack}, nil)
	m.auditRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	updated, err := svc.Rollback(context.Background(), "d-1", "casey")
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusRolledBack, updated.Status)
}

func TestRollbackWindowClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	draft := &domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusSent}
	record := &domain.SendRecord{DraftID: "d-1", SentAt: time.Now().UTC().Add(-domain.RollbackWindow - time.Minute)}

	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").Return(draft, nil)
	m.sendRecordRepo.EXPECT().GetByDraftID(gomock.Any(), "d-1").Return(record, nil)

	_, err := svc.Rollback(context.Background(), "d-1", "casey")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestRollbackRequiresSentDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.draftRepo.EXPECT().Get(gomock.Any(), "d-1").
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusApproved}, nil)

	_, err := svc.Rollback(context.Background(), "d-1", "casey")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestDismiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newExecutorService(t, ctrl, defaultPolicy(), true)

	m.queueRepo.EXPECT().SetStatus(gomock.Any(), "q-1", domain.QueueItemDismissed, "dismissed by casey").Return(nil)
	m.auditRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.Dismiss(context.Background(), "q-1", "casey", ""))
}
