package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/domain"
)

// ApprovalRuleRepository implements domain.ApprovalRuleRepository using PostgreSQL
type ApprovalRuleRepository struct {
	db *sql.DB
}

// NewApprovalRuleRepository creates a new ApprovalRuleRepository instance
func NewApprovalRuleRepository(db *sql.DB) domain.ApprovalRuleRepository {
	return &ApprovalRuleRepository{db: db}
}

const ruleColumns = `id, kind, conditions, confidence, priority, enabled, created_at, updated_at`

func scanRule(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.AutoApprovalRule, error) {
	var rule domain.AutoApprovalRule
	err := scanner.Scan(
		&rule.ID,
		&rule.Kind,
		&rule.Conditions,
		&rule.Confidence,
		&rule.Priority,
		&rule.Enabled,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create adds a new auto-approval rule
func (r *ApprovalRuleRepository) Create(ctx context.Context, rule *domain.AutoApprovalRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `
		INSERT INTO auto_approval_rules (id, kind, conditions, confidence, priority, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Kind, rule.Conditions, rule.Confidence, rule.Priority, rule.Enabled,
		rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert approval rule: %w", err)
	}
	return nil
}

// Get retrieves a rule by ID
func (r *ApprovalRuleRepository) Get(ctx context.Context, id string) (*domain.AutoApprovalRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM auto_approval_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "approval rule", ID: id}
		}
		return nil, fmt.Errorf("failed to get approval rule: %w", err)
	}
	return rule, nil
}

// Update persists rule changes
func (r *ApprovalRuleRepository) Update(ctx context.Context, rule *domain.AutoApprovalRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	rule.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE auto_approval_rules
		SET kind = $2, conditions = $3, confidence = $4, priority = $5, enabled = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.Kind, rule.Conditions, rule.Confidence, rule.Priority, rule.Enabled, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update approval rule: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "approval rule", ID: rule.ID}
	}
	return nil
}

// Delete removes a rule
func (r *ApprovalRuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auto_approval_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete approval rule: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "approval rule", ID: id}
	}
	return nil
}

// ListEnabled returns enabled rules ordered by (priority asc, id asc)
func (r *ApprovalRuleRepository) ListEnabled(ctx context.Context) ([]*domain.AutoApprovalRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM auto_approval_rules WHERE enabled = TRUE ORDER BY priority ASC, id ASC`)
}

// ListAll returns every rule, enabled or not
func (r *ApprovalRuleRepository) ListAll(ctx context.Context) ([]*domain.AutoApprovalRule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+` FROM auto_approval_rules ORDER BY priority ASC, id ASC`)
}

func (r *ApprovalRuleRepository) list(ctx context.Context, query string) ([]*domain.AutoApprovalRule, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.AutoApprovalRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approval rule rows: %w", err)
	}
	return rules, nil
}

// ApprovedRecipientRepository implements domain.ApprovedRecipientRepository using PostgreSQL
type ApprovedRecipientRepository struct {
	db *sql.DB
}

// NewApprovedRecipientRepository creates a new ApprovedRecipientRepository instance
func NewApprovedRecipientRepository(db *sql.DB) domain.ApprovedRecipientRepository {
	return &ApprovedRecipientRepository{db: db}
}

// Add whitelists an email, a no-op if already present
func (r *ApprovedRecipientRepository) Add(ctx context.Context, recipient *domain.ApprovedRecipient) error {
	recipient.Email = strings.ToLower(strings.TrimSpace(recipient.Email))
	if recipient.AddedAt.IsZero() {
		recipient.AddedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO approved_recipients (email, reason, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, recipient.Email, recipient.Reason, recipient.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add approved recipient: %w", err)
	}
	return nil
}

// Exists reports whether the email is whitelisted
func (r *ApprovedRecipientRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM approved_recipients WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email))).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved recipient: %w", err)
	}
	return exists, nil
}

// Remove deletes a whitelist entry
func (r *ApprovedRecipientRepository) Remove(ctx context.Context, email string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM approved_recipients WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to remove approved recipient: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "approved recipient", ID: email}
	}
	return nil
}

// List returns all whitelisted recipients
func (r *ApprovedRecipientRepository) List(ctx context.Context) ([]*domain.ApprovedRecipient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, reason, added_at FROM approved_recipients ORDER BY added_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved recipients: %w", err)
	}
	defer rows.Close()

	var recipients []*domain.ApprovedRecipient
	for rows.Next() {
		var recipient domain.ApprovedRecipient
		var reason sql.NullString
		if err := rows.Scan(&recipient.Email, &reason, &recipient.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approved recipient row: %w", err)
		}
		recipient.Reason = reason.String
		recipients = append(recipients, &recipient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approved recipient rows: %w", err)
	}
	return recipients, nil
}

// ApprovalLogRepository implements domain.ApprovalLogRepository using PostgreSQL
type ApprovalLogRepository struct {
	db *sql.DB
}

// NewApprovalLogRepository creates a new ApprovalLogRepository instance
func NewApprovalLogRepository(db *sql.DB) domain.ApprovalLogRepository {
	return &ApprovalLogRepository{db: db}
}

// Create appends an evaluation log entry
func (r *ApprovalLogRepository) Create(ctx context.Context, log *domain.AutoApprovalLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.At.IsZero() {
		log.At = time.Now().UTC()
	}

	query := `
		INSERT INTO auto_approval_logs (id, draft_id, decision, rule_id, confidence, reasoning, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.DraftID, log.Decision, log.RuleID, log.Confidence, log.Reasoning, log.At)
	if err != nil {
		return fmt.Errorf("failed to insert approval log: %w", err)
	}
	return nil
}

// GetByDraftID returns all evaluations recorded for a draft, oldest first
func (r *ApprovalLogRepository) GetByDraftID(ctx context.Context, draftID string) ([]*domain.AutoApprovalLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, draft_id, decision, rule_id, confidence, reasoning, at
		FROM auto_approval_logs
		WHERE draft_id = $1
		ORDER BY at ASC
	`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.AutoApprovalLog
	for rows.Next() {
		var log domain.AutoApprovalLog
		var ruleID, reasoning sql.NullString
		if err := rows.Scan(&log.ID, &log.DraftID, &log.Decision, &ruleID, &log.Confidence, &reasoning, &log.At); err != nil {
			return nil, fmt.Errorf("failed to scan approval log row: %w", err)
		}
		if ruleID.Valid {
			log.RuleID = &ruleID.String
		}
		log.Reasoning = reasoning.String
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approval log rows: %w", err)
	}
	return logs, nil
}
