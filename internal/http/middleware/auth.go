package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/caseyos/caseyos/pkg/crypto"
)

// AdminAuth guards the operator API with the static admin bearer token.
// ADMIN_TOKEN may hold either the plaintext token or its bcrypt hash, so
// deployments can keep the secret itself out of the environment. Webhook
// and health routes are wired outside this middleware; everything
// state-changing goes through it.
type AdminAuth struct {
	token  string
	hashed bool
}

func NewAdminAuth(token string) *AdminAuth {
	return &AdminAuth{
		token:  token,
		hashed: strings.HasPrefix(token, "$2a$") || strings.HasPrefix(token, "$2b$"),
	}
}

// Require wraps a handler with bearer token verification. Comparison is
// constant time.
func (a *AdminAuth) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.token == "" {
				http.Error(w, "Admin token not configured", http.StatusUnauthorized)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			if !a.matches(parts[1]) {
				http.Error(w, "Invalid admin token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *AdminAuth) matches(presented string) bool {
	if a.hashed {
		return crypto.CheckTokenHash(presented, a.token)
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) == 1
}

// Actor extracts the acting identity for audit entries. The admin API is
// single-operator; the header lets scripts label themselves.
func Actor(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "operator"
}
