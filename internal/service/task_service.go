package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/pkg/logger"
)

// taskConcurrency bounds how many claimed tasks run at once per worker.
const taskConcurrency = 4

// TaskService is the worker runtime over the tasks table. Workers claim
// batches with row locks, dispatch to registered processors, and apply the
// retry policy: exponential backoff with jitter, then the dead letter queue.
type TaskService struct {
	logger         logger.Logger
	taskRepo       domain.TaskRepository
	failedTaskRepo domain.FailedTaskRepository
	processors     []domain.TaskProcessor
}

func NewTaskService(log logger.Logger, taskRepo domain.TaskRepository, failedTaskRepo domain.FailedTaskRepository) *TaskService {
	return &TaskService{
		logger:         log,
		taskRepo:       taskRepo,
		failedTaskRepo: failedTaskRepo,
	}
}

// RegisterProcessor adds a processor to the dispatch chain.
func (s *TaskService) RegisterProcessor(processor domain.TaskProcessor) {
	s.processors = append(s.processors, processor)
}

// ExecutePendingTasks claims up to maxTasks runnable tasks and runs them.
// Claiming uses FOR UPDATE SKIP LOCKED so concurrent workers partition the
// batch between them.
func (s *TaskService) ExecutePendingTasks(ctx context.Context, maxTasks int) error {
	tasks, err := s.taskRepo.GetNextBatch(ctx, maxTasks)
	if err != nil {
		return fmt.Errorf("failed to claim task batch: %w", err)
	}
	if len(tasks) == 0 {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(taskConcurrency)
	for _, task := range tasks {
		task := task
		group.Go(func() error {
			s.processTask(groupCtx, task)
			return nil
		})
	}
	return group.Wait()
}

// processTask runs one task under its runtime budget and applies the retry
// policy to the result. Errors never propagate: the task row carries them.
func (s *TaskService) processTask(ctx context.Context, task *domain.Task) {
	runtime := time.Duration(task.MaxRuntime) * time.Second
	timeoutAfter := time.Now().UTC().Add(runtime)

	if err := s.taskRepo.MarkAsRunning(ctx, task.ID, timeoutAfter); err != nil {
		s.logger.WithField("task_id", task.ID).Error("Failed to mark task running")
		return
	}

	processor := s.findProcessor(task.Name)
	if processor == nil {
		s.fail(ctx, task, fmt.Errorf("no processor registered for task %q", task.Name), false)
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, runtime)
	defer cancel()

	completed, err := processor.Process(taskCtx, task)
	if err != nil {
		retryable := true
		if _, ok := err.(*domain.SafetyViolation); ok {
			retryable = false
		}
		if connErr, ok := domain.AsConnectorError(err); ok && !connErr.Retryable() {
			retryable = false
		}
		s.fail(ctx, task, err, retryable)
		return
	}

	if !completed {
		// the processor wants another run; not an error, not a retry burn
		next := time.Now().UTC().Add(time.Duration(task.RetryInterval) * time.Second)
		if err := s.taskRepo.MarkAsPaused(ctx, task.ID, next, ""); err != nil {
			s.logger.WithField("task_id", task.ID).Error("Failed to pause task")
		}
		return
	}

	if err := s.taskRepo.MarkAsCompleted(ctx, task.ID); err != nil {
		s.logger.WithField("task_id", task.ID).Error("Failed to mark task completed")
	}
}

// fail applies the retry policy: pause with backoff while retries remain,
// otherwise mark failed and write the DLQ entry.
func (s *TaskService) fail(ctx context.Context, task *domain.Task, taskErr error, retryable bool) {
	attempt := task.RetryCount + 1

	if retryable && attempt < task.MaxRetries {
		next := time.Now().UTC().Add(retryBackoff(task.RetryInterval, task.RetryCount))
		if err := s.taskRepo.MarkAsPaused(ctx, task.ID, next, taskErr.Error()); err != nil {
			s.logger.WithField("task_id", task.ID).Error("Failed to pause task for retry")
		}
		s.logger.WithFields(map[string]interface{}{
			"task_id": task.ID,
			"name":    task.Name,
			"attempt": attempt,
			"error":   taskErr.Error(),
		}).Warn("Task failed, will retry")
		return
	}

	if err := s.taskRepo.MarkAsFailed(ctx, task.ID, taskErr.Error()); err != nil {
		s.logger.WithField("task_id", task.ID).Error("Failed to mark task failed")
	}

	nextRetry := time.Now().UTC().Add(1 * time.Hour)
	entry := &domain.FailedTask{
		TaskName:    task.Name,
		Payload:     task.Payload,
		ErrorText:   taskErr.Error(),
		RetryCount:  attempt,
		NextRetryAt: &nextRetry,
	}
	if err := s.failedTaskRepo.Create(ctx, entry); err != nil {
		s.logger.WithField("task_id", task.ID).Error("Failed to write dead letter entry")
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id": task.ID,
		"name":    task.Name,
		"error":   taskErr.Error(),
	}).Error("Task failed permanently")
}

// retryBackoff is base * 2^n with up to 25% jitter, so a burst of failures
// does not retry in lockstep.
func retryBackoff(baseSeconds, retryCount int) time.Duration {
	if baseSeconds <= 0 {
		baseSeconds = 60
	}
	backoff := time.Duration(baseSeconds) * time.Second << retryCount
	jitter := time.Duration(rand.Int63n(int64(backoff / 4)))
	return backoff + jitter
}

func (s *TaskService) findProcessor(name string) domain.TaskProcessor {
	for _, processor := range s.processors {
		if processor.CanProcess(name) {
			return processor
		}
	}
	return nil
}

// RetryFailedTasks re-enqueues due dead letter entries as fresh tasks. Run
// from the worker beat.
func (s *TaskService) RetryFailedTasks(ctx context.Context, now time.Time, limit int) error {
	entries, err := s.failedTaskRepo.ListDue(ctx, now, limit)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		task := &domain.Task{
			Name:    entry.TaskName,
			Payload: entry.Payload,
		}
		if err := s.taskRepo.Create(ctx, task); err != nil {
			s.logger.WithField("failed_task_id", entry.ID).Error("Failed to re-enqueue dead letter entry")
			continue
		}
		if err := s.failedTaskRepo.MarkResolved(ctx, entry.ID, now); err != nil {
			s.logger.WithField("failed_task_id", entry.ID).Error("Failed to resolve dead letter entry")
		}
		s.logger.WithFields(map[string]interface{}{
			"failed_task_id": entry.ID,
			"task_name":      entry.TaskName,
		}).Info("Dead letter entry re-enqueued")
	}
	return nil
}

// Enqueue creates a pending task.
func (s *TaskService) Enqueue(ctx context.Context, name string, payload domain.JSONMap) (*domain.Task, error) {
	task := &domain.Task{Name: name, Payload: payload}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}
