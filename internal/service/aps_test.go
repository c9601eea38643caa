package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caseyos/caseyos/internal/domain"
)

func TestScoreAPSDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	input := APSInput{
		DealAmount: 50000,
		SignalAt:   now.Add(-2 * time.Hour),
		Now:        now,
		ActionType: domain.ActionSendEmail,
		ICPScore:   0.7,
	}

	a := ScoreAPS(input)
	b := ScoreAPS(input)
	assert.Equal(t, a, b)
}

func TestScoreAPSComponents(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh signal has full urgency", func(t *testing.T) {
		c := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail})
		assert.InDelta(t, 1.0, c.Urgency, 0.0001)
	})

	t.Run("future signal clamps age to zero", func(t *testing.T) {
		c := ScoreAPS(APSInput{SignalAt: now.Add(time.Hour), Now: now, ActionType: domain.ActionSendEmail})
		assert.InDelta(t, 1.0, c.Urgency, 0.0001)
	})

	t.Run("urgency decays with age", func(t *testing.T) {
		fresh := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail})
		stale := ScoreAPS(APSInput{SignalAt: now.Add(-96 * time.Hour), Now: now, ActionType: domain.ActionSendEmail})
		assert.Greater(t, fresh.Urgency, stale.Urgency)
	})

	t.Run("overdue due_by pins urgency to full", func(t *testing.T) {
		overdue := now.Add(-time.Hour)
		c := ScoreAPS(APSInput{SignalAt: now.Add(-96 * time.Hour), Now: now, DueBy: &overdue, ActionType: domain.ActionSendEmail})
		assert.InDelta(t, 1.0, c.Urgency, 0.0001)
	})

	t.Run("future due_by leaves the decay alone", func(t *testing.T) {
		future := now.Add(48 * time.Hour)
		c := ScoreAPS(APSInput{SignalAt: now.Add(-96 * time.Hour), Now: now, DueBy: &future, ActionType: domain.ActionSendEmail})
		assert.Less(t, c.Urgency, 1.0)
	})

	t.Run("revenue caps at 100k", func(t *testing.T) {
		capped := ScoreAPS(APSInput{DealAmount: 100000, SignalAt: now, Now: now, ActionType: domain.ActionSendEmail})
		beyond := ScoreAPS(APSInput{DealAmount: 5000000, SignalAt: now, Now: now, ActionType: domain.ActionSendEmail})
		assert.Equal(t, 1.0, capped.Revenue)
		assert.Equal(t, 1.0, beyond.Revenue)
	})

	t.Run("no deal falls back to icp score", func(t *testing.T) {
		c := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail, ICPScore: 0.7})
		assert.Equal(t, 0.7, c.Revenue)
	})

	t.Run("no deal and no icp uses the baseline", func(t *testing.T) {
		c := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail})
		assert.Equal(t, 0.3, c.Revenue)
	})

	t.Run("cheap actions score higher effort", func(t *testing.T) {
		email := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail})
		social := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionEngageSocial})
		assert.Greater(t, email.Effort, social.Effort)
	})

	t.Run("unknown action gets worst-case effort", func(t *testing.T) {
		c := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: "launch_rocket"})
		assert.Equal(t, 0.0, c.Effort)
	})

	t.Run("strategic sums segment, account, and source", func(t *testing.T) {
		c := ScoreAPS(APSInput{
			SignalAt: now, Now: now, ActionType: domain.ActionSendEmail,
			TargetSegment: true, Strategic: true, Source: domain.SignalSourceForm,
		})
		assert.Equal(t, 1.0, c.Strategic)
	})

	t.Run("strategic account alone scores its increment", func(t *testing.T) {
		c := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail, Strategic: true})
		assert.InDelta(t, 0.3, c.Strategic, 0.0001)
	})

	t.Run("crm source counts, email source does not", func(t *testing.T) {
		crm := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail, Source: domain.SignalSourceCRM})
		email := ScoreAPS(APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail, Source: domain.SignalSourceEmail})
		assert.InDelta(t, 0.2, crm.Strategic, 0.0001)
		assert.Zero(t, email.Strategic)
	})
}

func TestScoreAPSFreshFormLead(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := ScoreAPS(APSInput{
		SignalAt:   now,
		Now:        now,
		ActionType: domain.ActionSendEmail,
		Source:     domain.SignalSourceForm,
	})

	// 100 * (0.40*0.3 + 0.25*1.0 + 0.15*(1 - 5/60) + 0.20*0.2)
	assert.Equal(t, 0.3, c.Revenue)
	assert.InDelta(t, 1.0, c.Urgency, 0.0001)
	assert.InDelta(t, 0.2, c.Strategic, 0.0001)
	assert.InDelta(t, 54.75, c.Score, 0.01)
}

func TestScoreAPSOutcomeFeedbackBounded(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := APSInput{SignalAt: now, Now: now, ActionType: domain.ActionSendEmail, ICPScore: 0.5}

	neutral := ScoreAPS(base)

	positive := base
	positive.OutcomeImpact = 500
	boosted := ScoreAPS(positive)
	assert.InDelta(t, neutral.Score+5, boosted.Score, 0.01, "positive nudge caps at +5")

	negative := base
	negative.OutcomeImpact = -500
	dropped := ScoreAPS(negative)
	assert.InDelta(t, neutral.Score-5, dropped.Score, 0.01, "negative nudge caps at -5")
}

func TestScoreAPSClampedToRange(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	max := ScoreAPS(APSInput{
		DealAmount: 1000000, SignalAt: now, Now: now,
		ActionType: domain.ActionBookMeeting, Strategic: true, OutcomeImpact: 1000,
	})
	assert.LessOrEqual(t, max.Score, 100.0)

	min := ScoreAPS(APSInput{
		SignalAt: now.Add(-1000 * time.Hour), Now: now,
		ActionType: "launch_rocket", OutcomeImpact: -1000,
	})
	assert.GreaterOrEqual(t, min.Score, 0.0)
}

func TestSortQueueItems(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	early := now.Add(-time.Hour)

	items := []*domain.CommandQueueItem{
		{ID: "d", APSScore: 50.0, ReceivedAt: now},
		{ID: "c", APSScore: 50.4, ReceivedAt: early},
		{ID: "b", APSScore: 60, ReceivedAt: now},
		{ID: "e", APSScore: 90, ReceivedAt: now},
	}

	SortQueueItems(items)

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	// highest APS first; c and d sit within half a point of each other, so
	// c's earlier received_at wins despite d's marginally lower score
	assert.Equal(t, []string{"e", "b", "c", "d"}, ids)
}

func TestSortQueueItemsNearTieUsesReceivedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []*domain.CommandQueueItem{
		{ID: "later", APSScore: 70.3, ReceivedAt: now},
		{ID: "older", APSScore: 70.0, ReceivedAt: now.Add(-2 * time.Hour)},
	}
	SortQueueItems(items)
	assert.Equal(t, "older", items[0].ID, "scores within 0.5 fall back to arrival order")
}

func TestSortQueueItemsTieBreaksOnID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []*domain.CommandQueueItem{
		{ID: "z", APSScore: 10, ReceivedAt: now},
		{ID: "a", APSScore: 10, ReceivedAt: now},
	}
	SortQueueItems(items)
	assert.Equal(t, "a", items[0].ID)
}
