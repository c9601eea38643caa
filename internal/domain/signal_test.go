package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalSourceEssential(t *testing.T) {
	assert.True(t, SignalSourceForm.Essential())
	assert.True(t, SignalSourceCRM.Essential())
	assert.False(t, SignalSourceEmail.Essential())
	assert.False(t, SignalSourceSocial.Essential())
	assert.False(t, SignalSourceCalendar.Essential())
	assert.False(t, SignalSourceManual.Essential())
}

func TestDedupeHashFormSubmission(t *testing.T) {
	a := DedupeHash(SignalSourceForm, "demo_request", []byte(`{"form_submission_id":"sub-1","email":"a@b.com","ts":1}`))
	b := DedupeHash(SignalSourceForm, "demo_request", []byte(`{"form_submission_id":"sub-1","email":"a@b.com","ts":2}`))
	assert.Equal(t, a, b, "non-canonical fields must not change the hash")

	c := DedupeHash(SignalSourceForm, "demo_request", []byte(`{"form_submission_id":"sub-2","email":"a@b.com"}`))
	assert.NotEqual(t, a, c)
}

func TestDedupeHashFormFallback(t *testing.T) {
	// without a submission id the form dedupes on (form_id, email)
	a := DedupeHash(SignalSourceForm, "demo_request", []byte(`{"form_id":"f1","email":"a@b.com"}`))
	b := DedupeHash(SignalSourceForm, "demo_request", []byte(`{"form_id":"f1","email":"a@b.com","utm":"x"}`))
	assert.Equal(t, a, b)
}

func TestDedupeHashEmailEvent(t *testing.T) {
	a := DedupeHash(SignalSourceEmail, "open", []byte(`{"message_id":"m1","event_type":"open"}`))
	b := DedupeHash(SignalSourceEmail, "open", []byte(`{"message_id":"m1","event_type":"open","ip":"1.2.3.4"}`))
	c := DedupeHash(SignalSourceEmail, "click", []byte(`{"message_id":"m1","event_type":"click"}`))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDedupeHashDistinguishesSources(t *testing.T) {
	payload := []byte(`{"object_id":"o1","change_type":"update"}`)
	assert.NotEqual(t,
		DedupeHash(SignalSourceCRM, "change", payload),
		DedupeHash(SignalSourceCalendar, "change", []byte(`{"event_id":"o1","change_type":"update"}`)))
}

func TestDedupeHashUnknownFieldsFallBackToPayload(t *testing.T) {
	a := DedupeHash(SignalSourceSocial, "mention", []byte(`{"post":"p1"}`))
	b := DedupeHash(SignalSourceSocial, "mention", []byte(`{"post":"p2"}`))
	assert.NotEqual(t, a, b, "payload without canonical fields hashes whole body")
}

func TestSignalValidate(t *testing.T) {
	signal := &Signal{Source: SignalSourceForm, Kind: "demo_request", DedupeHash: "h"}
	assert.NoError(t, signal.Validate())

	assert.Error(t, (&Signal{Source: "webhook", Kind: "x", DedupeHash: "h"}).Validate())
	assert.Error(t, (&Signal{Source: SignalSourceForm, DedupeHash: "h"}).Validate())
	assert.Error(t, (&Signal{Source: SignalSourceForm, Kind: "x"}).Validate())
}
