package service

import (
	"context"
	"errors"
	"time"

	"github.com/caseyos/caseyos/internal/domain"
)

// WorkflowTaskProcessor runs the draft pipeline for run_workflow tasks.
type WorkflowTaskProcessor struct {
	orchestrator *OrchestratorService
}

func NewWorkflowTaskProcessor(orchestrator *OrchestratorService) *WorkflowTaskProcessor {
	return &WorkflowTaskProcessor{orchestrator: orchestrator}
}

func (p *WorkflowTaskProcessor) CanProcess(taskName string) bool {
	return taskName == domain.TaskRunWorkflow
}

func (p *WorkflowTaskProcessor) Process(ctx context.Context, task *domain.Task) (bool, error) {
	workflowID := task.Payload.String("workflow_id")
	if workflowID == "" {
		return false, domain.NewValidationError("run_workflow task carries no workflow_id")
	}
	return p.orchestrator.Run(ctx, workflowID)
}

// SignalTaskProcessor re-routes stored signals that never produced their
// artifact (process_signal).
type SignalTaskProcessor struct {
	ingest *IngestService
}

func NewSignalTaskProcessor(ingest *IngestService) *SignalTaskProcessor {
	return &SignalTaskProcessor{ingest: ingest}
}

func (p *SignalTaskProcessor) CanProcess(taskName string) bool {
	return taskName == domain.TaskProcessSignal
}

func (p *SignalTaskProcessor) Process(ctx context.Context, task *domain.Task) (bool, error) {
	signalID := task.Payload.String("signal_id")
	if signalID == "" {
		return false, domain.NewValidationError("process_signal task carries no signal_id")
	}
	if err := p.ingest.ProcessStored(ctx, signalID); err != nil {
		return false, err
	}
	return true, nil
}

// MonitorTaskProcessor handles the periodic monitor_scan beat.
type MonitorTaskProcessor struct {
	monitor *MonitorService
}

func NewMonitorTaskProcessor(monitor *MonitorService) *MonitorTaskProcessor {
	return &MonitorTaskProcessor{monitor: monitor}
}

func (p *MonitorTaskProcessor) CanProcess(taskName string) bool {
	return taskName == domain.TaskMonitorScan
}

func (p *MonitorTaskProcessor) Process(ctx context.Context, _ *domain.Task) (bool, error) {
	if err := p.monitor.Scan(ctx, time.Now().UTC()); err != nil {
		return false, err
	}
	return true, nil
}

// ActionTaskProcessor retries dead-lettered executor actions. The queue item
// and its draft are reset to pending, the draft re-runs the approval rules,
// and the action is executed again. A draft left in review is not an error;
// the item just waits for an operator.
type ActionTaskProcessor struct {
	executor  *ExecutorService
	approvals *ApprovalService
	queueRepo domain.CommandQueueRepository
	draftRepo domain.DraftRepository
}

func NewActionTaskProcessor(
	executor *ExecutorService,
	approvals *ApprovalService,
	queueRepo domain.CommandQueueRepository,
	draftRepo domain.DraftRepository,
) *ActionTaskProcessor {
	return &ActionTaskProcessor{
		executor:  executor,
		approvals: approvals,
		queueRepo: queueRepo,
		draftRepo: draftRepo,
	}
}

func (p *ActionTaskProcessor) CanProcess(taskName string) bool {
	return taskName == domain.TaskExecuteAction
}

func (p *ActionTaskProcessor) Process(ctx context.Context, task *domain.Task) (bool, error) {
	itemID := task.Payload.String("queue_item_id")
	if itemID == "" {
		return false, domain.NewValidationError("execute_action task carries no queue_item_id")
	}

	if err := p.queueRepo.SetStatus(ctx, itemID, domain.QueueItemPending, "retrying after failed execution"); err != nil {
		return false, err
	}
	if draftID := task.Payload.String("draft_id"); draftID != "" {
		if draft, err := p.draftRepo.Get(ctx, draftID); err == nil && draft.Status == domain.DraftStatusFailed {
			updated, err := p.draftRepo.UpdateStatus(ctx, draftID, domain.DraftStatusPending, "retrying after failed send")
			if err != nil {
				return false, err
			}
			if _, err := p.approvals.Evaluate(ctx, updated); err != nil {
				return false, err
			}
		}
	}

	if _, err := p.executor.Execute(ctx, itemID, "task-runtime", false); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// OutcomeDetectProcessor handles the periodic detect_outcomes beat.
type OutcomeDetectProcessor struct {
	outcomes *OutcomeService
}

func NewOutcomeDetectProcessor(outcomes *OutcomeService) *OutcomeDetectProcessor {
	return &OutcomeDetectProcessor{outcomes: outcomes}
}

func (p *OutcomeDetectProcessor) CanProcess(taskName string) bool {
	return taskName == domain.TaskDetectOutcomes
}

func (p *OutcomeDetectProcessor) Process(ctx context.Context, _ *domain.Task) (bool, error) {
	if err := p.outcomes.DetectStale(ctx, time.Now().UTC(), 200); err != nil {
		return false, err
	}
	return true, nil
}
