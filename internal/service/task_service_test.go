package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseyos/caseyos/internal/domain"
	"github.com/caseyos/caseyos/internal/domain/mocks"
	"github.com/caseyos/caseyos/pkg/logger"
)

func newTaskService(t *testing.T, ctrl *gomock.Controller) (*TaskService, *mocks.MockTaskRepository, *mocks.MockFailedTaskRepository) {
	taskRepo := mocks.NewMockTaskRepository(ctrl)
	failedRepo := mocks.NewMockFailedTaskRepository(ctrl)
	svc := NewTaskService(logger.NewTestLogger(t), taskRepo, failedRepo)
	return svc, taskRepo, failedRepo
}

func runnableTask() *domain.Task {
	return &domain.Task{
		ID:            "task-1",
		Name:          domain.TaskRunWorkflow,
		Payload:       domain.JSONMap{"workflow_id": "wf-1"},
		MaxRetries:    3,
		RetryInterval: 60,
		MaxRuntime:    300,
	}
}

func TestExecutePendingTasksEmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, _ := newTaskService(t, ctrl)

	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return(nil, nil)

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestExecutePendingTasksCompletesTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, _ := newTaskService(t, ctrl)

	processor := mocks.NewMockTaskProcessor(ctrl)
	processor.EXPECT().CanProcess(domain.TaskRunWorkflow).Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).Return(true, nil)
	svc.RegisterProcessor(processor)

	task := runnableTask()
	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{task}, nil)
	taskRepo.EXPECT().MarkAsRunning(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	taskRepo.EXPECT().MarkAsCompleted(gomock.Any(), "task-1").Return(nil)

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestExecutePendingTasksPausesUnfinishedTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, _ := newTaskService(t, ctrl)

	processor := mocks.NewMockTaskProcessor(ctrl)
	processor.EXPECT().CanProcess(domain.TaskRunWorkflow).Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).Return(false, nil)
	svc.RegisterProcessor(processor)

	task := runnableTask()
	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{task}, nil)
	taskRepo.EXPECT().MarkAsRunning(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	// wants another run: paused without an error, not failed
	taskRepo.EXPECT().MarkAsPaused(gomock.Any(), "task-1", gomock.Any(), "").Return(nil)

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestExecutePendingTasksRetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, _ := newTaskService(t, ctrl)

	processor := mocks.NewMockTaskProcessor(ctrl)
	processor.EXPECT().CanProcess(domain.TaskRunWorkflow).Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).Return(false, assert.AnError)
	svc.RegisterProcessor(processor)

	task := runnableTask()
	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{task}, nil)
	taskRepo.EXPECT().MarkAsRunning(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	taskRepo.EXPECT().MarkAsPaused(gomock.Any(), "task-1", gomock.Any(), assert.AnError.Error()).DoAndReturn(
		func(_ context.Context, _ string, next time.Time, _ string) error {
			assert.True(t, next.After(time.Now().UTC().Add(30*time.Second)), "backoff pushes the retry out")
			return nil
		})

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestExecutePendingTasksDeadLettersExhaustedTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, failedRepo := newTaskService(t, ctrl)

	processor := mocks.NewMockTaskProcessor(ctrl)
	processor.EXPECT().CanProcess(domain.TaskRunWorkflow).Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).Return(false, assert.AnError)
	svc.RegisterProcessor(processor)

	task := runnableTask()
	task.RetryCount = 2 // this attempt is the third and last

	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{task}, nil)
	taskRepo.EXPECT().MarkAsRunning(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	taskRepo.EXPECT().MarkAsFailed(gomock.Any(), "task-1", assert.AnError.Error()).Return(nil)
	failedRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.FailedTask) error {
			assert.Equal(t, domain.TaskRunWorkflow, entry.TaskName)
			assert.Equal(t, 3, entry.RetryCount)
			require.NotNil(t, entry.NextRetryAt)
			return nil
		})

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestExecutePendingTasksSafetyViolationNeverRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, failedRepo := newTaskService(t, ctrl)

	processor := mocks.NewMockTaskProcessor(ctrl)
	processor.EXPECT().CanProcess(domain.TaskRunWorkflow).Return(true)
	processor.EXPECT().Process(gomock.Any(), gomock.Any()).
		Return(false, &domain.SafetyViolation{Reason: "recipient is suppressed"})
	svc.RegisterProcessor(processor)

	// fresh task with retries remaining still goes straight to the DLQ
	task := runnableTask()
	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{task}, nil)
	taskRepo.EXPECT().MarkAsRunning(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	taskRepo.EXPECT().MarkAsFailed(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	failedRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestExecutePendingTasksUnknownTaskName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, failedRepo := newTaskService(t, ctrl)

	task := runnableTask()
	task.Name = "compact_database"

	taskRepo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{task}, nil)
	taskRepo.EXPECT().MarkAsRunning(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	taskRepo.EXPECT().MarkAsFailed(gomock.Any(), "task-1", gomock.Any()).Return(nil)
	failedRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.ExecutePendingTasks(context.Background(), 10))
}

func TestRetryFailedTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, failedRepo := newTaskService(t, ctrl)

	now := time.Now().UTC()
	entries := []*domain.FailedTask{
		{ID: "f-1", TaskName: domain.TaskRunWorkflow, Payload: domain.JSONMap{"workflow_id": "wf-1"}},
		{ID: "f-2", TaskName: domain.TaskRunWorkflow},
	}

	failedRepo.EXPECT().ListDue(gomock.Any(), now, 20).Return(entries, nil)
	taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *domain.Task) error {
			assert.Equal(t, "wf-1", task.Payload.String("workflow_id"))
			return nil
		})
	failedRepo.EXPECT().MarkResolved(gomock.Any(), "f-1", now).Return(nil)
	// a failed re-enqueue leaves the entry open for the next beat
	taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(assert.AnError)

	require.NoError(t, svc.RetryFailedTasks(context.Background(), now, 20))
}

func TestEnqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, taskRepo, _ := newTaskService(t, ctrl)

	taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *domain.Task) error {
			task.ID = "task-1"
			return nil
		})

	task, err := svc.Enqueue(context.Background(), domain.TaskMonitorScan, nil)
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)
}

func TestRetryBackoffGrows(t *testing.T) {
	first := retryBackoff(60, 0)
	assert.GreaterOrEqual(t, first, 60*time.Second)
	assert.Less(t, first, 76*time.Second)

	third := retryBackoff(60, 2)
	assert.GreaterOrEqual(t, third, 240*time.Second)
	assert.Less(t, third, 301*time.Second)
}
