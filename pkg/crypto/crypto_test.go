package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHMAC256(t *testing.T) {
	sig := ComputeHMAC256([]byte("payload"), "secret")

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, ComputeHMAC256([]byte("payload"), "secret"))
	assert.NotEqual(t, sig, ComputeHMAC256([]byte("payload"), "other-secret"))
	assert.NotEqual(t, sig, ComputeHMAC256([]byte("other-payload"), "secret"))
}

func TestVerifyHMAC256(t *testing.T) {
	payload := []byte(`{"form_id":"f1"}`)
	sig := ComputeHMAC256(payload, "secret")

	assert.True(t, VerifyHMAC256("secret", payload, sig))
	assert.False(t, VerifyHMAC256("secret", payload, "deadbeef"))
	assert.False(t, VerifyHMAC256("wrong", payload, sig))
	assert.False(t, VerifyHMAC256("secret", []byte("tampered"), sig))
}

func TestIdempotencyKey(t *testing.T) {
	key := IdempotencyKey("item1", "draft1", "send_email")

	assert.Len(t, key, 64)
	assert.Equal(t, key, IdempotencyKey("item1", "draft1", "send_email"))
	assert.NotEqual(t, key, IdempotencyKey("item2", "draft1", "send_email"))

	// Part boundaries must matter: ("ab","c") != ("a","bc")
	assert.NotEqual(t, IdempotencyKey("ab", "c"), IdempotencyKey("a", "bc"))
}

func TestHashToken(t *testing.T) {
	hash, err := HashToken("admin-token")
	require.NoError(t, err)

	assert.True(t, CheckTokenHash("admin-token", hash))
	assert.False(t, CheckTokenHash("wrong-token", hash))
}
