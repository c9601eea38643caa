package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ComputeHMAC256 signs the payload with the secret and returns the
// hex-encoded signature.
func ComputeHMAC256(toSign []byte, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(toSign)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// VerifyHMAC256 checks the provided hex signature against the payload using
// a constant-time comparison.
func VerifyHMAC256(secretKey string, payload []byte, providedSig string) bool {
	expected := ComputeHMAC256(payload, secretKey)
	return hmac.Equal([]byte(expected), []byte(providedSig))
}

// IdempotencyKey derives a stable key from its parts. Two executor calls
// with the same parts map to the same key.
func IdempotencyKey(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Sha256Hash returns the raw SHA-256 digest of the input.
func Sha256Hash(str string) []byte {
	hash := sha256.Sum256([]byte(str))
	return hash[:]
}

// HashToken hashes an admin token for at-rest comparison.
func HashToken(token string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), 12)
	if err != nil {
		return "", fmt.Errorf("HashToken error: %w", err)
	}
	return string(hashed), nil
}

// CheckTokenHash reports whether the token matches its bcrypt hash.
func CheckTokenHash(token string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
