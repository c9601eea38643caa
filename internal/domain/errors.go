package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a persistent entity does not exist.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// AuthError represents missing or invalid credentials, including expired
// connector auth that must be surfaced to the operator.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// ConnectorErrorKind classifies connector failures for retry policy.
type ConnectorErrorKind string

const (
	ConnectorErrTransient   ConnectorErrorKind = "transient"
	ConnectorErrPermanent   ConnectorErrorKind = "permanent"
	ConnectorErrRateLimited ConnectorErrorKind = "rate_limited"
	ConnectorErrAuthExpired ConnectorErrorKind = "auth_expired"
	ConnectorErrNotFound    ConnectorErrorKind = "not_found"
)

// ConnectorError is the single failure type surfaced by every connector.
type ConnectorError struct {
	Kind       ConnectorErrorKind
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *ConnectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connector error (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("connector error (%s): %s", e.Kind, e.Message)
}

func (e *ConnectorError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the error should be retried with backoff.
func (e *ConnectorError) Retryable() bool {
	return e.Kind == ConnectorErrTransient || e.Kind == ConnectorErrRateLimited
}

// NewConnectorError wraps err with a classification.
func NewConnectorError(kind ConnectorErrorKind, message string, err error) *ConnectorError {
	return &ConnectorError{Kind: kind, Message: message, Err: err}
}

// AsConnectorError unwraps err into a *ConnectorError if possible.
func AsConnectorError(err error) (*ConnectorError, bool) {
	var ce *ConnectorError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// SafetyViolation blocks a draft permanently: PII detected, prohibited
// content, or sending disabled. Never retried.
type SafetyViolation struct {
	Reason string
}

func (e *SafetyViolation) Error() string {
	return fmt.Sprintf("safety violation: %s", e.Reason)
}

// ConflictError signals an idempotent replay or a gate refusal; the caller
// receives the original result (or the gate reason) with a 409.
type ConflictError struct {
	Reason string
	Result interface{}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// RateLimitedError is returned when the local send limiter blocks an action.
type RateLimitedError struct {
	Scope      string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (%s), retry after %s", e.Scope, e.RetryAfter)
}

// TimeoutError marks a step or workflow budget overrun. Treated as
// transient once, then permanent.
type TimeoutError struct {
	Subject string
	Budget  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Subject, e.Budget)
}

// ErrTaskExecution wraps a background task failure.
type ErrTaskExecution struct {
	TaskID string
	Reason string
	Err    error
}

func (e *ErrTaskExecution) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task execution failed [%s]: %s - %v", e.TaskID, e.Reason, e.Err)
	}
	return fmt.Sprintf("task execution failed [%s]: %s", e.TaskID, e.Reason)
}

func (e *ErrTaskExecution) Unwrap() error {
	return e.Err
}
