package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_audit_repository.go -package mocks github.com/caseyos/caseyos/internal/domain AuditLogRepository

// AuditEntry is one append-only record of a state transition. The audit
// log is never updated or deleted.
type AuditEntry struct {
	ID      string    `json:"id"`
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	Subject string    `json:"subject"`
	Before  JSONMap   `json:"before,omitempty"`
	After   JSONMap   `json:"after,omitempty"`
	At      time.Time `json:"at"`
}

// AuditLogRepository defines audit persistence.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, subject string, limit, offset int) ([]*AuditEntry, int, error)
}
