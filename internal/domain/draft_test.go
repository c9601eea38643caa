package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    DraftStatus
		to      DraftStatus
		allowed bool
	}{
		{DraftStatusPending, DraftStatusAutoApproved, true},
		{DraftStatusPending, DraftStatusApproved, true},
		{DraftStatusPending, DraftStatusRejected, true},
		{DraftStatusPending, DraftStatusFailed, true},
		{DraftStatusPending, DraftStatusSent, false},
		{DraftStatusAutoApproved, DraftStatusSent, true},
		{DraftStatusApproved, DraftStatusSent, true},
		{DraftStatusSent, DraftStatusRolledBack, true},
		{DraftStatusSent, DraftStatusPending, false},
		{DraftStatusFailed, DraftStatusPending, true},
		{DraftStatusRejected, DraftStatusPending, false},
		{DraftStatusRolledBack, DraftStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestDraftTransition(t *testing.T) {
	draft := &DraftEmail{Status: DraftStatusPending}

	require.NoError(t, draft.Transition(DraftStatusAutoApproved, "rule matched"))
	assert.Equal(t, DraftStatusAutoApproved, draft.Status)
	assert.Equal(t, "rule matched", draft.StatusReason)
	assert.False(t, draft.StatusChangedAt.IsZero())

	err := draft.Transition(DraftStatusPending, "")
	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, DraftStatusAutoApproved, draft.Status, "failed transition must not change state")
}

func TestDraftApprovable(t *testing.T) {
	approvable := []DraftStatus{DraftStatusPending, DraftStatusAutoApproved, DraftStatusApproved}
	for _, status := range approvable {
		assert.True(t, (&DraftEmail{Status: status}).Approvable(), string(status))
	}

	terminal := []DraftStatus{DraftStatusRejected, DraftStatusSent, DraftStatusFailed, DraftStatusRolledBack}
	for _, status := range terminal {
		assert.False(t, (&DraftEmail{Status: status}).Approvable(), string(status))
	}
}

func TestRollbackWindow(t *testing.T) {
	assert.Equal(t, 30*time.Minute, RollbackWindow)
}
