package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/domain/mocks"
	"github.com/caseyos/caseyos/pkg/cache"
	"github.com/caseyos/caseyos/pkg/crypto"
	"github.com/caseyos/caseyos/pkg/logger"
)

type ingestServiceMocks struct {
	signalRepo    *mocks.MockSignalRepository
	workflowRepo  *mocks.MockWorkflowRepository
	taskRepo      *mocks.MockTaskRepository
	queueRepo     *mocks.MockCommandQueueRepository
	outcomeRepo   *mocks.MockOutcomeRepository
	contactRepo   *mocks.MockContactRepository
	recipientRepo *mocks.MockApprovedRecipientRepository
}

func newIngestService(t *testing.T, ctrl *gomock.Controller, secrets map[string]string) (*IngestService, ingestServiceMocks) {
	m := ingestServiceMocks{
		signalRepo:    mocks.NewMockSignalRepository(ctrl),
		workflowRepo:  mocks.NewMockWorkflowRepository(ctrl),
		taskRepo:      mocks.NewMockTaskRepository(ctrl),
		queueRepo:     mocks.NewMockCommandQueueRepository(ctrl),
		outcomeRepo:   mocks.NewMockOutcomeRepository(ctrl),
		contactRepo:   mocks.NewMockContactRepository(ctrl),
		recipientRepo: mocks.NewMockApprovedRecipientRepository(ctrl),
	}
	outcomes := NewOutcomeService(
		logger.NewTestLogger(t),
		m.outcomeRepo, m.contactRepo, m.recipientRepo,
		mocks.NewMockSendRecordRepository(ctrl),
		cache.NewInMemoryCache(time.Minute),
	)
	svc := NewIngestService(
		logger.NewTestLogger(t),
		m.signalRepo, m.workflowRepo, m.taskRepo, m.queueRepo,
		outcomes, secrets, 100,
	)
	return svc, m
}

func TestVerifySignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newIngestService(t, ctrl, map[string]string{"form": "form-secret"})

	payload := []byte(`{"email":"a@b.com"}`)

	t.Run("valid hmac signature", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Signature", crypto.ComputeHMAC256(payload, "form-secret"))
		assert.NoError(t, svc.VerifySignature(domain.SignalSourceForm, payload, headers))
	})

	t.Run("wrong signature", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Signature", crypto.ComputeHMAC256(payload, "other-secret"))
		err := svc.VerifySignature(domain.SignalSourceForm, payload, headers)
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("missing signature", func(t *testing.T) {
		err := svc.VerifySignature(domain.SignalSourceForm, payload, http.Header{})
		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
	})

	t.Run("unsigned source accepted", func(t *testing.T) {
		assert.NoError(t, svc.VerifySignature(domain.SignalSourceManual, payload, http.Header{}))
	})
}

func TestOverloaded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	t.Run("essential sources always admitted", func(t *testing.T) {
		overloaded, err := svc.Overloaded(context.Background(), domain.SignalSourceForm)
		require.NoError(t, err)
		assert.False(t, overloaded)
	})

	t.Run("non-essential source rejected over threshold", func(t *testing.T) {
		m.taskRepo.EXPECT().CountRunnable(gomock.Any()).Return(150, nil)
		overloaded, err := svc.Overloaded(context.Background(), domain.SignalSourceSocial)
		require.NoError(t, err)
		assert.True(t, overloaded)
	})

	t.Run("non-essential source admitted under threshold", func(t *testing.T) {
		m.taskRepo.EXPECT().CountRunnable(gomock.Any()).Return(10, nil)
		overloaded, err := svc.Overloaded(context.Background(), domain.SignalSourceSocial)
		require.NoError(t, err)
		assert.False(t, overloaded)
	})
}

func TestIngestRejectsNonJSONPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newIngestService(t, ctrl, nil)

	_, err := svc.Ingest(context.Background(), domain.SignalSourceForm, "demo_request", []byte("not json"))
	require.Error(t, err)
}

func TestIngestDuplicateSignal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	stored := &domain.Signal{ID: "sig-1", Source: domain.SignalSourceForm}
	m.signalRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(stored, false, nil)

	result, err := svc.Ingest(context.Background(), domain.SignalSourceForm, "demo_request", []byte(`{"email":"a@b.com"}`))
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, "sig-1", result.SignalID)
}

func TestIngestFormSignalSpawnsWorkflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	m.signalRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
			assert.Equal(t, domain.SignalSourceForm, signal.Source)
			assert.NotEmpty(t, signal.DedupeHash)
			signal.ID = "sig-1"
			return signal, true, nil
		})
	m.taskRepo.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(*sql.Tx) error) error {
			return fn(nil)
		})
	m.workflowRepo.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, workflow *domain.Workflow) error {
			assert.Equal(t, "sig-1", workflow.SignalID)
			assert.Equal(t, domain.WorkflowStateTriggered, workflow.State)
			workflow.ID = "wf-1"
			return nil
		})
	m.taskRepo.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, task *domain.Task) error {
			assert.Equal(t, domain.TaskRunWorkflow, task.Name)
			assert.Equal(t, "wf-1", task.Payload.String("workflow_id"))
			task.ID = "task-1"
			return nil
		})
	m.signalRepo.EXPECT().MarkProcessedTx(gomock.Any(), gomock.Any(), "sig-1", gomock.Any()).Return(nil)
	m.workflowRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.Ingest(context.Background(), domain.SignalSourceForm, "demo_request", []byte(`{"email":"a@b.com"}`))
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.Equal(t, "workflow:wf-1", result.Artifact)
}

func TestIngestEmailReplySpawnsWorkflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	m.signalRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
			signal.ID = "sig-1"
			return signal, true, nil
		})
	m.taskRepo.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(*sql.Tx) error) error { return fn(nil) })
	m.workflowRepo.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, workflow *domain.Workflow) error {
			workflow.ID = "wf-1"
			return nil
		})
	m.taskRepo.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.signalRepo.EXPECT().MarkProcessedTx(gomock.Any(), gomock.Any(), "sig-1", gomock.Any()).Return(nil)
	m.workflowRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.Ingest(context.Background(), domain.SignalSourceEmail, "reply",
		[]byte(`{"message_id":"m1","event_type":"reply","from":"jane@acme.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "workflow:wf-1", result.Artifact)
}

func TestIngestEmailBounceRecordsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	m.signalRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
			signal.ID = "sig-1"
			return signal, true, nil
		})
	m.outcomeRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *domain.OutcomeRecord) error {
			assert.Equal(t, domain.OutcomeEmailBounced, record.Kind)
			assert.Equal(t, domain.OutcomeSourceAuto, record.Source)
			record.ID = "out-1"
			return nil
		})
	m.contactRepo.EXPECT().Suppress(gomock.Any(), "jane@acme.com", domain.SuppressionBounce, gomock.Any()).Return(nil)
	m.signalRepo.EXPECT().MarkProcessed(gomock.Any(), "sig-1", nil).Return(nil)

	result, err := svc.Ingest(context.Background(), domain.SignalSourceEmail, "bounce",
		[]byte(`{"message_id":"m1","event_type":"bounce","recipient":"jane@acme.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "outcome:out-1", result.Artifact)
}

func TestIngestBotOpenIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	m.signalRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
			signal.ID = "sig-1"
			return signal, true, nil
		})
	m.signalRepo.EXPECT().MarkProcessed(gomock.Any(), "sig-1", nil).Return(nil)

	result, err := svc.Ingest(context.Background(), domain.SignalSourceEmail, "open",
		[]byte(`{"message_id":"m1","event_type":"open","recipient":"jane@acme.com","user_agent":"Barracuda Link Scanner"}`))
	require.NoError(t, err)
	assert.Equal(t, "ignored", result.Artifact)
}

func TestIngestSocialSignalCreatesQueueItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	m.signalRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
			signal.ID = "sig-1"
			return signal, true, nil
		})
	m.queueRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, item *domain.CommandQueueItem) error {
			assert.Equal(t, domain.ActionEngageSocial, item.ActionType)
			assert.Equal(t, domain.QueueDomainMarketing, item.Domain)
			assert.Equal(t, domain.StringList{"sig-1"}, item.SignalIDs)
			assert.NotEmpty(t, item.Reasoning)
			item.ID = "q-1"
			return nil
		})
	m.signalRepo.EXPECT().MarkProcessed(gomock.Any(), "sig-1", nil).Return(nil)

	result, err := svc.Ingest(context.Background(), domain.SignalSourceSocial, "mention",
		[]byte(`{"tweet_id":"t1","author":"@jane"}`))
	require.NoError(t, err)
	assert.Equal(t, "queue_item:q-1", result.Artifact)
}

func TestProcessStoredSkipsProcessedSignal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newIngestService(t, ctrl, nil)

	processedAt := time.Now().UTC()
	m.signalRepo.EXPECT().Get(gomock.Any(), "sig-1").
		Return(&domain.Signal{ID: "sig-1", ProcessedAt: &processedAt}, nil)

	assert.NoError(t, svc.ProcessStored(context.Background(), "sig-1"))
}
