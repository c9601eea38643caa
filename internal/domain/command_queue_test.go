package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommandQueueItemValidate(t *testing.T) {
	item := &CommandQueueItem{ActionType: ActionSendEmail, APSScore: 72.5}
	assert.NoError(t, item.Validate())
	assert.Equal(t, QueueDomainSales, item.Domain, "domain defaults to sales")

	assert.Error(t, (&CommandQueueItem{APSScore: 10}).Validate())
	assert.Error(t, (&CommandQueueItem{ActionType: ActionSendEmail, APSScore: -1}).Validate())
	assert.Error(t, (&CommandQueueItem{ActionType: ActionSendEmail, APSScore: 101}).Validate())
}

func TestCommandQueueItemDraftID(t *testing.T) {
	item := &CommandQueueItem{ActionContext: JSONMap{"draft_id": "d-1"}}
	assert.Equal(t, "d-1", item.DraftID())

	assert.Empty(t, (&CommandQueueItem{}).DraftID())
}

func TestCommandQueueItemOverdue(t *testing.T) {
	now := time.Now().UTC()

	assert.False(t, (&CommandQueueItem{}).Overdue(now))

	past := now.Add(-time.Hour)
	assert.True(t, (&CommandQueueItem{DueBy: &past}).Overdue(now))

	future := now.Add(time.Hour)
	assert.False(t, (&CommandQueueItem{DueBy: &future}).Overdue(now))
}

func TestActionEffortMinutesCoversAllActions(t *testing.T) {
	for _, action := range []ActionType{ActionSendEmail, ActionBookMeeting, ActionUpdateDeal, ActionCreateTask, ActionEngageSocial} {
		_, ok := ActionEffortMinutes[action]
		assert.True(t, ok, string(action))
	}
}
