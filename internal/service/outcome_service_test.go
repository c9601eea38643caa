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
	"github.com/caseyos/caseyos/pkg/cache"
	"github.com/caseyos/caseyos/pkg/logger"
)

type outcomeServiceMocks struct {
	outcomeRepo    *mocks.MockOutcomeRepository
	contactRepo    *mocks.MockContactRepository
	recipientRepo  *mocks.MockApprovedRecipientRepository
	sendRecordRepo *mocks.MockSendRecordRepository
}

func newOutcomeService(t *testing.T, ctrl *gomock.Controller) (*OutcomeService, outcomeServiceMocks) {
	m := outcomeServiceMocks{
		outcomeRepo:    mocks.NewMockOutcomeRepository(ctrl),
		contactRepo:    mocks.NewMockContactRepository(ctrl),
		recipientRepo:  mocks.NewMockApprovedRecipientRepository(ctrl),
		sendRecordRepo: mocks.NewMockSendRecordRepository(ctrl),
	}
	svc := NewOutcomeService(
		logger.NewTestLogger(t),
		m.outcomeRepo, m.contactRepo, m.recipientRepo, m.sendRecordRepo,
		cache.NewInMemoryCache(time.Minute),
	)
	return svc, m
}

func TestOutcomeRecordUsesFixedImpact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectDraft,
		SubjectID:   "d-1",
		Kind:        domain.OutcomeEmailOpened,
		Impact:      99, // callers cannot set impact
		DetectedAt:  time.Now().UTC(),
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)

	require.NoError(t, svc.Record(context.Background(), record))
	assert.Equal(t, domain.OutcomeImpact[domain.OutcomeEmailOpened], record.Impact)
	assert.Equal(t, domain.OutcomeSourceManual, record.Source, "source defaults to manual")
}

func TestOutcomeRecordRejectsUnknownKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newOutcomeService(t, ctrl)

	err := svc.Record(context.Background(), &domain.OutcomeRecord{
		SubjectKind: domain.SubjectDraft,
		SubjectID:   "d-1",
		Kind:        "email_forwarded",
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, &domain.ValidationError{})
}

func TestOutcomeReplyWhitelistsRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	detectedAt := time.Now().UTC()
	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectContact,
		SubjectID:   "jane@acme.com",
		Kind:        domain.OutcomeEmailReplied,
		Source:      domain.OutcomeSourceAuto,
		DetectedAt:  detectedAt,
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)
	m.contactRepo.EXPECT().SetLastReplyAt(gomock.Any(), "jane@acme.com", detectedAt).Return(nil)
	m.recipientRepo.EXPECT().Add(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, recipient *domain.ApprovedRecipient) error {
			assert.Equal(t, "jane@acme.com", recipient.Email)
			return nil
		})

	require.NoError(t, svc.Record(context.Background(), record))
}

func TestOutcomeBounceSuppressesContact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	detectedAt := time.Now().UTC()
	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectDraft,
		SubjectID:   "d-1",
		Kind:        domain.OutcomeEmailBounced,
		Source:      domain.OutcomeSourceAuto,
		DetectedAt:  detectedAt,
		Details:     domain.JSONMap{"recipient": "jane@acme.com"},
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)
	m.contactRepo.EXPECT().Suppress(gomock.Any(), "jane@acme.com", domain.SuppressionBounce, detectedAt).Return(nil)

	require.NoError(t, svc.Record(context.Background(), record))
}

func TestOutcomeBounceResolvesRecipientFromSendRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	// a provider bounce webhook often carries only the draft id
	detectedAt := time.Now().UTC()
	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectDraft,
		SubjectID:   "d-1",
		Kind:        domain.OutcomeEmailBounced,
		Source:      domain.OutcomeSourceAuto,
		DetectedAt:  detectedAt,
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)
	m.sendRecordRepo.EXPECT().GetByDraftID(gomock.Any(), "d-1").
		Return(&domain.SendRecord{DraftID: "d-1", Recipient: "jane@acme.com"}, nil)
	m.contactRepo.EXPECT().Suppress(gomock.Any(), "jane@acme.com", domain.SuppressionBounce, detectedAt).Return(nil)

	require.NoError(t, svc.Record(context.Background(), record))
}

func TestOutcomeDraftSubjectWithoutSendRecordSkipsFeedback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectDraft,
		SubjectID:   "d-unsent",
		Kind:        domain.OutcomeEmailBounced,
		DetectedAt:  time.Now().UTC(),
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)
	m.sendRecordRepo.EXPECT().GetByDraftID(gomock.Any(), "d-unsent").
		Return(nil, &domain.ErrNotFound{Entity: "send_record", ID: "d-unsent"})
	// no Suppress: there is no contact to act on

	require.NoError(t, svc.Record(context.Background(), record))
}

func TestOutcomeUnsubscribeSuppressesContact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	detectedAt := time.Now().UTC()
	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectContact,
		SubjectID:   "jane@acme.com",
		Kind:        domain.OutcomeEmailUnsubscribed,
		Source:      domain.OutcomeSourceAuto,
		DetectedAt:  detectedAt,
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)
	m.contactRepo.EXPECT().Suppress(gomock.Any(), "jane@acme.com", domain.SuppressionUnsub, detectedAt).Return(nil)

	require.NoError(t, svc.Record(context.Background(), record))
}

func TestOutcomeFeedbackFailureDoesNotSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	record := &domain.OutcomeRecord{
		SubjectKind: domain.SubjectContact,
		SubjectID:   "jane@acme.com",
		Kind:        domain.OutcomeEmailBounced,
		DetectedAt:  time.Now().UTC(),
	}

	m.outcomeRepo.EXPECT().Create(gomock.Any(), record).Return(nil)
	m.contactRepo.EXPECT().Suppress(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	// the outcome row is durable; suppression failure is logged only
	require.NoError(t, svc.Record(context.Background(), record))
}

func TestDetectStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []*domain.SendRecord{
		{DraftID: "d-fresh", Recipient: "a@x.com", SentAt: now.Add(-time.Hour)},
		{DraftID: "d-answered", Recipient: "b@x.com", SentAt: now.Add(-8 * 24 * time.Hour)},
		{DraftID: "d-stale", Recipient: "c@x.com", SentAt: now.Add(-8 * 24 * time.Hour)},
	}

	m.sendRecordRepo.EXPECT().ListRecent(gomock.Any(), 100).Return(records, nil)
	m.outcomeRepo.EXPECT().ListBySubject(gomock.Any(), domain.SubjectDraft, "d-answered").
		Return([]*domain.OutcomeRecord{{Kind: domain.OutcomeEmailReplied}}, nil)
	m.outcomeRepo.EXPECT().ListBySubject(gomock.Any(), domain.SubjectDraft, "d-stale").
		Return([]*domain.OutcomeRecord{{Kind: domain.OutcomeEmailOpened}}, nil)
	m.outcomeRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *domain.OutcomeRecord) error {
			assert.Equal(t, "d-stale", record.SubjectID)
			assert.Equal(t, domain.OutcomeNoResponse, record.Kind)
			assert.Equal(t, domain.OutcomeSourceAuto, record.Source)
			assert.Equal(t, "c@x.com", record.Details.String("recipient"))
			return nil
		})

	require.NoError(t, svc.DetectStale(context.Background(), now, 100))
}

func TestStatsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newOutcomeService(t, ctrl)

	rng := domain.TimeRange{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	stats := &domain.OutcomeStats{Total: 7}

	m.outcomeRepo.EXPECT().Stats(gomock.Any(), rng).Return(stats, nil).Times(1)

	first, err := svc.Stats(context.Background(), rng)
	require.NoError(t, err)
	second, err := svc.Stats(context.Background(), rng)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
