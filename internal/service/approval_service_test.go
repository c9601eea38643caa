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
	"github.com/caseyos/caseyos/pkg/ratelimiter"
)

type approvalServiceMocks struct {
	ruleRepo      *mocks.MockApprovalRuleRepository
	recipientRepo *mocks.MockApprovedRecipientRepository
	logRepo       *mocks.MockApprovalLogRepository
	contactRepo   *mocks.MockContactRepository
	companyRepo   *mocks.MockCompanyRepository
	draftRepo     *mocks.MockDraftRepository
	settingRepo   *mocks.MockSettingRepository
	store         *ratelimiter.MemoryCounterStore
}

const approvalTestGlobalCap = 10

func newApprovalService(t *testing.T, ctrl *gomock.Controller) (*ApprovalService, approvalServiceMocks) {
	m := approvalServiceMocks{
		ruleRepo:      mocks.NewMockApprovalRuleRepository(ctrl),
		recipientRepo: mocks.NewMockApprovedRecipientRepository(ctrl),
		logRepo:       mocks.NewMockApprovalLogRepository(ctrl),
		contactRepo:   mocks.NewMockContactRepository(ctrl),
		companyRepo:   mocks.NewMockCompanyRepository(ctrl),
		draftRepo:     mocks.NewMockDraftRepository(ctrl),
		settingRepo:   mocks.NewMockSettingRepository(ctrl),
		store:         ratelimiter.NewMemoryCounterStore(),
	}
	limiter := ratelimiter.NewSendLimiter(m.store, ratelimiter.Policy{
		PerRecipientWeek: 3,
		GlobalDay:        approvalTestGlobalCap,
	})
	svc := NewApprovalService(
		logger.NewTestLogger(t),
		m.ruleRepo, m.recipientRepo, m.logRepo,
		m.contactRepo, m.companyRepo, m.draftRepo, m.settingRepo,
		limiter, true,
	)
	return svc, m
}

// expectGatesOpen stubs the safety gates in their pass-through state. The
// global send window is open because the shared counter store is empty.
func expectGatesOpen(m approvalServiceMocks) {
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAllowRealSends, true).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAutoApproveEnabled, false).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
}

func pendingDraft() *domain.DraftEmail {
	return &domain.DraftEmail{ID: "d-1", Recipient: "jane@acme.com", Status: domain.DraftStatusPending}
}

func TestEvaluateRejectsNonPendingDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newApprovalService(t, ctrl)

	draft := pendingDraft()
	draft.Status = domain.DraftStatusSent

	_, err := svc.Evaluate(context.Background(), draft)
	require.Error(t, err)
}

func TestEvaluateEmergencyStopWinsOverEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(true, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
			assert.Equal(t, "emergency stop engaged", entry.Reasoning)
			assert.Nil(t, entry.RuleID)
			return nil
		})

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestEvaluateAutoApproveDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAllowRealSends, true).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAutoApproveEnabled, false).Return(false, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, "auto-approval disabled", entry.Reasoning)
			return nil
		})

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestEvaluateDraftOnlyMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAllowRealSends, true).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAutoApproveEnabled, false).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(true, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, "draft-only mode", entry.Reasoning)
			return nil
		})

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestEvaluateRealSendsDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAllowRealSends, true).Return(false, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, "real sends disabled", entry.Reasoning)
			return nil
		})

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestEvaluateGlobalSendWindowClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	ctx := context.Background()
	gKey := "send:global:" + time.Now().UTC().Format("2006-01-02")
	for i := 0; i < approvalTestGlobalCap; i++ {
		_, err := m.store.Increment(ctx, gKey, time.Hour)
		require.NoError(t, err)
	}

	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingEmergencyStop, false).Return(false, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAllowRealSends, true).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingAutoApproveEnabled, false).Return(true, nil)
	m.settingRepo.EXPECT().GetBool(gomock.Any(), domain.SettingModeDraftOnly, false).Return(false, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, "global send window closed", entry.Reasoning)
			return nil
		})

	entry, err := svc.Evaluate(ctx, pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)

	count, _ := m.store.Get(ctx, gKey)
	assert.EqualValues(t, approvalTestGlobalCap, count, "the gate check must not consume a slot")
}

func TestEvaluateRepliedBeforeRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	lastReply := time.Now().UTC().Add(-10 * 24 * time.Hour)
	rule := &domain.AutoApprovalRule{ID: "r-1", Kind: domain.RuleRepliedBefore, Confidence: 0.95}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com", LastReplyAt: &lastReply}, nil)
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusAutoApproved, gomock.Any()).
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusAutoApproved}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, domain.DecisionAutoApproved, entry.Decision)
			require.NotNil(t, entry.RuleID)
			assert.Equal(t, "r-1", *entry.RuleID)
			assert.Equal(t, 0.95, entry.Confidence)
			return nil
		})

	draft := pendingDraft()
	entry, err := svc.Evaluate(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAutoApproved, entry.Decision)
	assert.Equal(t, domain.DraftStatusAutoApproved, draft.Status)
}

func TestEvaluateRepliedBeforeOutsideWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	lastReply := time.Now().UTC().Add(-domain.RepliedBeforeWindow - 24*time.Hour)
	rule := &domain.AutoApprovalRule{ID: "r-1", Kind: domain.RuleRepliedBefore}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com", LastReplyAt: &lastReply}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
			assert.Equal(t, "no auto-approval rule matched", entry.Reasoning)
			return nil
		})

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestEvaluateRepliedBeforeCustomWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	// 100 days ago: outside the default window, inside the rule's own
	lastReply := time.Now().UTC().Add(-100 * 24 * time.Hour)
	rule := &domain.AutoApprovalRule{
		ID:         "r-1",
		Kind:       domain.RuleRepliedBefore,
		Conditions: domain.JSONMap{"window_days": float64(180)},
	}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com", LastReplyAt: &lastReply}, nil)
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusAutoApproved, gomock.Any()).
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusAutoApproved}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAutoApproved, entry.Decision)
}

func TestEvaluateUnknownContactSkipsRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	rule := &domain.AutoApprovalRule{ID: "r-1", Kind: domain.RuleRepliedBefore}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(nil, &domain.ErrNotFound{Entity: "contact", ID: "jane@acme.com"})
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestEvaluateKnownGoodRecipientRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	rule := &domain.AutoApprovalRule{ID: "r-2", Kind: domain.RuleKnownGoodRecipient, Confidence: 0.9}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
	m.recipientRepo.EXPECT().Exists(gomock.Any(), "jane@acme.com").Return(true, nil)
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusAutoApproved, "recipient is on the approved recipient list").
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusAutoApproved}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAutoApproved, entry.Decision)
}

func TestEvaluateHighICPScoreRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	score := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		icpScore  *float64
		threshold interface{}
		approved  bool
	}{
		{"above default threshold", score(0.9), nil, true},
		{"below default threshold", score(0.5), nil, false},
		{"rule threshold overrides default", score(0.5), 0.4, true},
		{"company without score never matches", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newApprovalService(t, ctrl)
			expectGatesOpen(m)

			rule := &domain.AutoApprovalRule{ID: "r-3", Kind: domain.RuleHighICPScore}
			if tt.threshold != nil {
				rule.Conditions = domain.JSONMap{"threshold": tt.threshold}
			}
			m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
			m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
				Return(&domain.Contact{Email: "jane@acme.com"}, nil)
			m.companyRepo.EXPECT().GetByDomain(gomock.Any(), "acme.com").
				Return(&domain.Company{Domain: "acme.com", ICPScore: tt.icpScore}, nil)
			if tt.approved {
				m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusAutoApproved, gomock.Any()).
					Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusAutoApproved}, nil)
			}
			m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

			entry, err := svc.Evaluate(context.Background(), pendingDraft())
			require.NoError(t, err)
			if tt.approved {
				assert.Equal(t, domain.DecisionAutoApproved, entry.Decision)
			} else {
				assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
			}
		})
	}
}

func TestEvaluateFirstMatchingRuleWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	rules := []*domain.AutoApprovalRule{
		{ID: "r-replied", Kind: domain.RuleRepliedBefore},
		{ID: "r-whitelist", Kind: domain.RuleKnownGoodRecipient},
	}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return(rules, nil)
	// first rule misses, second matches; no rules after the match run
	m.contactRepo.EXPECT().GetByEmail(gomock.Any(), "jane@acme.com").
		Return(&domain.Contact{Email: "jane@acme.com"}, nil)
	m.recipientRepo.EXPECT().Exists(gomock.Any(), "jane@acme.com").Return(true, nil)
	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusAutoApproved, gomock.Any()).
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusAutoApproved}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.AutoApprovalLog) error {
			require.NotNil(t, entry.RuleID)
			assert.Equal(t, "r-whitelist", *entry.RuleID)
			return nil
		})

	_, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
}

func TestEvaluateUnknownRuleKindNeverMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	expectGatesOpen(m)

	rule := &domain.AutoApprovalRule{ID: "r-x", Kind: "coin_flip"}
	m.ruleRepo.EXPECT().ListEnabled(gomock.Any()).Return([]*domain.AutoApprovalRule{rule}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	entry, err := svc.Evaluate(context.Background(), pendingDraft())
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionNeedsReview, entry.Decision)
}

func TestApproveManually(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusApproved, "approved by casey").
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusApproved}, nil)
	m.logRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	draft, err := svc.ApproveManually(context.Background(), "d-1", "casey")
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusApproved, draft.Status)
}

func TestReject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newApprovalService(t, ctrl)

	m.draftRepo.EXPECT().UpdateStatus(gomock.Any(), "d-1", domain.DraftStatusRejected, "tone is off").
		Return(&domain.DraftEmail{ID: "d-1", Status: domain.DraftStatusRejected}, nil)

	draft, err := svc.Reject(context.Background(), "d-1", "casey", "tone is off")
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusRejected, draft.Status)
}
