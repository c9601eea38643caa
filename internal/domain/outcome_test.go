package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeImpactBounds(t *testing.T) {
	for kind, impact := range OutcomeImpact {
		assert.GreaterOrEqual(t, impact, -5.0, string(kind))
		assert.LessOrEqual(t, impact, 10.0, string(kind))
	}
}

func TestOutcomeKindCategory(t *testing.T) {
	assert.Equal(t, CategoryEmail, OutcomeEmailReplied.Category())
	assert.Equal(t, CategoryMeeting, OutcomeMeetingNoShow.Category())
	assert.Equal(t, CategoryDeal, OutcomeDealWon.Category())
	assert.Equal(t, CategoryTask, OutcomeTaskOverdue.Category())
	assert.Equal(t, CategoryGeneral, OutcomeNoResponse.Category())
	assert.Equal(t, CategoryGeneral, OutcomePositiveResponse.Category())
}

func TestOutcomeKindValid(t *testing.T) {
	assert.True(t, OutcomeEmailBounced.Valid())
	assert.True(t, OutcomeDealStageRegressed.Valid())
	assert.False(t, OutcomeKind("email_forwarded").Valid())
	assert.False(t, OutcomeKind("").Valid())
}

func TestOutcomeRecordValidate(t *testing.T) {
	record := &OutcomeRecord{
		SubjectKind: SubjectContact,
		SubjectID:   "a@b.com",
		Kind:        OutcomeEmailReplied,
		Impact:      8,
	}
	assert.NoError(t, record.Validate())

	t.Run("unknown kind", func(t *testing.T) {
		bad := *record
		bad.Kind = "email_forwarded"
		assert.Error(t, bad.Validate())
	})

	t.Run("unknown subject kind", func(t *testing.T) {
		bad := *record
		bad.SubjectKind = "campaign"
		assert.Error(t, bad.Validate())
	})

	t.Run("missing subject id", func(t *testing.T) {
		bad := *record
		bad.SubjectID = ""
		assert.Error(t, bad.Validate())
	})

	t.Run("impact out of range", func(t *testing.T) {
		bad := *record
		bad.Impact = 11
		assert.Error(t, bad.Validate())

		bad.Impact = -6
		assert.Error(t, bad.Validate())
	})
}
