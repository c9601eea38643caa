package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps domain error types onto HTTP statuses. Conflicts
// carry the original result so idempotent replays return what the first
// call produced; rate limits carry Retry-After.
func writeDomainError(w http.ResponseWriter, err error) {
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		WriteJSONError(w, notFound.Error(), http.StatusNotFound)
		return
	}

	var validation domain.ValidationError
	if errors.As(err, &validation) {
		WriteJSONError(w, validation.Error(), http.StatusBadRequest)
		return
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		WriteJSONError(w, authErr.Error(), http.StatusUnauthorized)
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error":  conflict.Reason,
			"result": conflict.Result,
		})
		return
	}

	var rateLimited *domain.RateLimitedError
	if errors.As(err, &rateLimited) {
		w.Header().Set("Retry-After", formatSeconds(rateLimited.RetryAfter))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error":       rateLimited.Error(),
			"scope":       rateLimited.Scope,
			"retry_after": rateLimited.RetryAfter.Seconds(),
		})
		return
	}

	var safety *domain.SafetyViolation
	if errors.As(err, &safety) {
		WriteJSONError(w, safety.Error(), http.StatusUnprocessableEntity)
		return
	}

	WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
}

func formatSeconds(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
