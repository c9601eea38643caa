// Package schema defines the database schema for development.
//
// DEVELOPMENT USE ONLY
// This file contains the current database schema and is used for development and testing.
// Before deploying to production, these table definitions should be converted to proper migrations.
package schema

// TableDefinitions contains all the SQL statements to create the database tables
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS signals (
		id UUID PRIMARY KEY,
		source VARCHAR(20) NOT NULL,
		kind VARCHAR(100) NOT NULL,
		dedupe_hash VARCHAR(64) NOT NULL,
		payload JSONB NOT NULL,
		received_at TIMESTAMP NOT NULL,
		processed_at TIMESTAMP,
		workflow_id UUID,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (source, dedupe_hash)
	)`,
	`CREATE TABLE IF NOT EXISTS workflows (
		id UUID PRIMARY KEY,
		signal_id UUID NOT NULL,
		state VARCHAR(20) NOT NULL,
		step_log JSONB NOT NULL DEFAULT '[]',
		task_id UUID,
		cancelled BOOLEAN NOT NULL DEFAULT FALSE,
		started_at TIMESTAMP,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255),
		company VARCHAR(255),
		title VARCHAR(255),
		timezone VARCHAR(50),
		external_ids JSONB NOT NULL DEFAULT '{}',
		segments JSONB NOT NULL DEFAULT '[]',
		last_reply_at TIMESTAMP,
		suppressed VARCHAR(20) NOT NULL DEFAULT 'none',
		suppressed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS companies (
		id UUID PRIMARY KEY,
		domain VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255),
		industry VARCHAR(255),
		icp_score DECIMAL(4, 3),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		id UUID PRIMARY KEY,
		workflow_id UUID NOT NULL,
		contact_id UUID NOT NULL,
		recipient VARCHAR(255) NOT NULL,
		subject VARCHAR(998) NOT NULL,
		body_text TEXT NOT NULL,
		body_html TEXT,
		thread_headers JSONB NOT NULL DEFAULT '{}',
		voice_profile_id VARCHAR(100),
		status VARCHAR(20) NOT NULL,
		status_reason TEXT,
		external_draft_id VARCHAR(255),
		metadata JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		status_changed_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS send_records (
		id UUID PRIMARY KEY,
		draft_id UUID NOT NULL,
		recipient VARCHAR(255) NOT NULL,
		idempotency_key VARCHAR(64) UNIQUE NOT NULL,
		sent_at TIMESTAMP NOT NULL,
		external_message_id VARCHAR(998),
		thread_id VARCHAR(255),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS command_queue_items (
		id UUID PRIMARY KEY,
		owner VARCHAR(255),
		domain VARCHAR(20) NOT NULL,
		action_type VARCHAR(30) NOT NULL,
		action_context JSONB NOT NULL DEFAULT '{}',
		aps_score DECIMAL(6, 2) NOT NULL DEFAULT 0,
		reasoning TEXT,
		due_by TIMESTAMP,
		status VARCHAR(20) NOT NULL,
		status_reason TEXT,
		signal_ids JSONB NOT NULL DEFAULT '[]',
		received_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auto_approval_rules (
		id UUID PRIMARY KEY,
		kind VARCHAR(40) NOT NULL,
		conditions JSONB NOT NULL DEFAULT '{}',
		confidence DECIMAL(4, 3) NOT NULL,
		priority INTEGER NOT NULL DEFAULT 100,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS approved_recipients (
		email VARCHAR(255) PRIMARY KEY,
		reason VARCHAR(255),
		added_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auto_approval_logs (
		id UUID PRIMARY KEY,
		draft_id UUID NOT NULL,
		decision VARCHAR(20) NOT NULL,
		rule_id UUID,
		confidence DECIMAL(4, 3) NOT NULL DEFAULT 0,
		reasoning TEXT,
		at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outcomes (
		id UUID PRIMARY KEY,
		subject_kind VARCHAR(20) NOT NULL,
		subject_id VARCHAR(255) NOT NULL,
		kind VARCHAR(40) NOT NULL,
		impact DECIMAL(5, 2) NOT NULL,
		source VARCHAR(10) NOT NULL,
		detected_at TIMESTAMP NOT NULL,
		details JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS failed_tasks (
		id UUID PRIMARY KEY,
		task_name VARCHAR(100) NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}',
		error_text TEXT NOT NULL,
		retry_count INTEGER NOT NULL DEFAULT 0,
		next_retry_at TIMESTAMP,
		resolved_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		kind VARCHAR(50) NOT NULL,
		priority VARCHAR(10) NOT NULL,
		title VARCHAR(255) NOT NULL,
		body TEXT,
		related_ids JSONB NOT NULL DEFAULT '{}',
		state VARCHAR(15) NOT NULL DEFAULT 'unread',
		snoozed_until TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		payload JSONB NOT NULL DEFAULT '{}',
		status VARCHAR(20) NOT NULL,
		error_message TEXT,
		retry_count INTEGER NOT NULL DEFAULT 0,
		max_retries INTEGER NOT NULL DEFAULT 3,
		retry_interval INTEGER NOT NULL DEFAULT 60,
		max_runtime INTEGER NOT NULL DEFAULT 300,
		next_run_after TIMESTAMP,
		timeout_after TIMESTAMP,
		last_run_at TIMESTAMP,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(255) PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY,
		actor VARCHAR(255) NOT NULL,
		action VARCHAR(100) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		before JSONB,
		after JSONB,
		at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_received_at ON signals(received_at)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_processed ON signals(processed_at) WHERE processed_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_workflows_state ON workflows(state)`,
	`CREATE INDEX IF NOT EXISTS idx_workflows_signal_id ON workflows(signal_id)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_workflow_id ON drafts(workflow_id)`,
	`CREATE INDEX IF NOT EXISTS idx_send_records_recipient ON send_records(recipient, sent_at)`,
	`CREATE INDEX IF NOT EXISTS idx_send_records_sent_at ON send_records(sent_at)`,
	`CREATE INDEX IF NOT EXISTS idx_command_queue_items_status_aps ON command_queue_items(status, aps_score DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_auto_approval_logs_draft_id ON auto_approval_logs(draft_id)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_subject ON outcomes(subject_kind, subject_id, detected_at)`,
	`CREATE INDEX IF NOT EXISTS idx_failed_tasks_next_retry_at ON failed_tasks(next_retry_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_state ON notifications(state, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_claim ON tasks(status, next_run_after)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_subject ON audit_log(subject, at)`,
}

// TableNames lists all tables in creation order, used by CleanDatabase
var TableNames = []string{
	"signals",
	"workflows",
	"contacts",
	"companies",
	"drafts",
	"send_records",
	"command_queue_items",
	"auto_approval_rules",
	"approved_recipients",
	"auto_approval_logs",
	"outcomes",
	"failed_tasks",
	"notifications",
	"tasks",
	"settings",
	"audit_log",
}
