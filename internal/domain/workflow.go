package domain

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_workflow_repository.go -package mocks github.com/caseyos/caseyos/internal/domain WorkflowRepository

// WorkflowState is the lifecycle of a signal-to-draft computation.
type WorkflowState string

const (
	WorkflowStateTriggered  WorkflowState = "triggered"
	WorkflowStateProcessing WorkflowState = "processing"
	WorkflowStateCompleted  WorkflowState = "completed"
	WorkflowStateFailed     WorkflowState = "failed"
	// WorkflowStateDead marks a cancelled or permanently failed workflow.
	WorkflowStateDead WorkflowState = "dead"
)

// StepStatus tags a step log entry. Failures carry a transient flag so a
// retry knows where to resume.
type StepStatus string

const (
	StepStatusOK      StepStatus = "ok"
	StepStatusSkipped StepStatus = "skipped"
	StepStatusFailed  StepStatus = "failed"
)

// StepName enumerates the draft pipeline steps in order.
type StepName string

const (
	StepValidatePayload StepName = "validate_payload"
	StepResolveContact  StepName = "resolve_contact"
	StepSearchThreads   StepName = "search_threads"
	StepReadThread      StepName = "read_thread_context"
	StepRecallPatterns  StepName = "recall_patterns"
	StepHuntAssets      StepName = "hunt_assets"
	StepProposeSlots    StepName = "propose_slots"
	StepPlanNextStep    StepName = "plan_next_step"
	StepWriteDraft      StepName = "write_draft"
	StepCreateDraft     StepName = "create_external_draft"
	StepFollowUpTask    StepName = "create_followup_task"
)

// PipelineSteps is the canonical step order.
var PipelineSteps = []StepName{
	StepValidatePayload,
	StepResolveContact,
	StepSearchThreads,
	StepReadThread,
	StepRecallPatterns,
	StepHuntAssets,
	StepProposeSlots,
	StepPlanNextStep,
	StepWriteDraft,
	StepCreateDraft,
	StepFollowUpTask,
}

// StepLogEntry records one step execution.
type StepLogEntry struct {
	Step      StepName   `json:"step"`
	Status    StepStatus `json:"status"`
	Detail    string     `json:"detail,omitempty"`
	Transient bool       `json:"transient,omitempty"`
	At        time.Time  `json:"at"`
}

// StepLog is the ordered execution record, stored as JSONB.
type StepLog []StepLogEntry

// Value implements the driver.Valuer interface
func (l StepLog) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StepLog) Scan(value interface{}) error {
	if value == nil {
		*l = StepLog{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return json.Unmarshal(b, l)
}

// LastStatus returns the most recent entry for a step, or nil.
func (l StepLog) LastStatus(step StepName) *StepLogEntry {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Step == step {
			return &l[i]
		}
	}
	return nil
}

// Completed reports whether the step's latest entry is ok or skipped.
func (l StepLog) Completed(step StepName) bool {
	entry := l.LastStatus(step)
	return entry != nil && (entry.Status == StepStatusOK || entry.Status == StepStatusSkipped)
}

// Workflow owns its step log and the draft it produces.
type Workflow struct {
	ID          string        `json:"id"`
	State       WorkflowState `json:"state"`
	SignalID    string        `json:"signal_id"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	StepLog     StepLog       `json:"step_log"`
	TaskID      *string       `json:"task_id,omitempty"`
	Cancelled   bool          `json:"cancelled"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// AppendStep adds an entry to the step log.
func (w *Workflow) AppendStep(step StepName, status StepStatus, detail string, transient bool) {
	w.StepLog = append(w.StepLog, StepLogEntry{
		Step:      step,
		Status:    status,
		Detail:    detail,
		Transient: transient,
		At:        time.Now().UTC(),
	})
}

// WorkflowRepository defines workflow persistence. Status transitions are
// serialized by row-level locks taken inside Update.
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *Workflow) error
	CreateTx(ctx context.Context, tx *sql.Tx, workflow *Workflow) error
	Get(ctx context.Context, id string) (*Workflow, error)
	GetBySignalID(ctx context.Context, signalID string) (*Workflow, error)
	Update(ctx context.Context, workflow *Workflow) error
	SetState(ctx context.Context, id string, state WorkflowState) error
	// MarkCancelled flips the cancellation flag checked between steps.
	MarkCancelled(ctx context.Context, id string) error
	ListByState(ctx context.Context, state WorkflowState, limit int) ([]*Workflow, error)
	CountByStateSince(ctx context.Context, state WorkflowState, since time.Time) (int, error)
}
