package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/caseyos/caseyos/pkg/crypto"
)

// csrfTokenLifetime bounds how long an issued token stays valid.
const csrfTokenLifetime = 24 * time.Hour

// CSRF protects state-changing routes with a signed, expiring token carried
// in X-CSRF-Token. Webhooks and health routes are registered outside this
// middleware: providers sign their own payloads.
type CSRF struct {
	secret string
	now    func() time.Time
}

func NewCSRF(secret string) *CSRF {
	return &CSRF{secret: secret, now: time.Now}
}

// Issue mints a token: unix-timestamp.hmac(timestamp).
func (c *CSRF) Issue() string {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	return ts + "." + crypto.ComputeHMAC256([]byte(ts), c.secret)
}

// Verify checks the token signature and age.
func (c *CSRF) Verify(token string) error {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return fmt.Errorf("malformed csrf token")
	}
	if !crypto.VerifyHMAC256(c.secret, []byte(parts[0]), parts[1]) {
		return fmt.Errorf("csrf token signature mismatch")
	}
	issued, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return fmt.Errorf("malformed csrf token timestamp")
	}
	age := c.now().Sub(time.Unix(issued, 0))
	if age < 0 || age > csrfTokenLifetime {
		return fmt.Errorf("csrf token expired")
	}
	return nil
}

// Protect wraps a handler: mutating methods must present a valid token.
// Disabled when no secret is configured (development).
func (c *CSRF) Protect() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c.secret == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			if err := c.Verify(r.Header.Get("X-CSRF-Token")); err != nil {
				http.Error(w, "CSRF token invalid: "+err.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
