package mocks

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockTaskRepository is a mock of TaskRepository interface
type MockTaskRepository struct {
	ctrl     *gomock.Controller
	recorder *MockTaskRepositoryMockRecorder
}

// MockTaskRepositoryMockRecorder is the mock recorder for MockTaskRepository
type MockTaskRepositoryMockRecorder struct {
	mock *MockTaskRepository
}

// NewMockTaskRepository creates a new mock instance
func NewMockTaskRepository(ctrl *gomock.Controller) *MockTaskRepository {
	mock := &MockTaskRepository{ctrl: ctrl}
	mock.recorder = &MockTaskRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockTaskRepository) EXPECT() *MockTaskRepositoryMockRecorder {
	return m.recorder
}

// WithTransaction mocks base method
func (m *MockTaskRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "WithTransaction", ctx, fn)
	ret0, _ := ret[0].(error)
	return ret0
}

// WithTransaction indicates an expected call of WithTransaction
func (mr *MockTaskRepositoryMockRecorder) WithTransaction(ctx, fn interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "WithTransaction", reflect.TypeOf((*MockTaskRepository)(nil).WithTransaction), ctx, fn)
}

// Create mocks base method
func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, task)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockTaskRepositoryMockRecorder) Create(ctx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockTaskRepository)(nil).Create), ctx, task)
}

// CreateTx mocks base method
func (m *MockTaskRepository) CreateTx(ctx context.Context, tx *sql.Tx, task *domain.Task) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateTx", ctx, tx, task)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateTx indicates an expected call of CreateTx
func (mr *MockTaskRepositoryMockRecorder) CreateTx(ctx, tx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateTx", reflect.TypeOf((*MockTaskRepository)(nil).CreateTx), ctx, tx, task)
}

// Get mocks base method
func (m *MockTaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Task)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockTaskRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockTaskRepository)(nil).Get), ctx, id)
}

// Update mocks base method
func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, task)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockTaskRepositoryMockRecorder) Update(ctx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockTaskRepository)(nil).Update), ctx, task)
}

// GetNextBatch mocks base method
func (m *MockTaskRepository) GetNextBatch(ctx context.Context, limit int) ([]*domain.Task, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetNextBatch", ctx, limit)
	ret0, _ := ret[0].([]*domain.Task)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetNextBatch indicates an expected call of GetNextBatch
func (mr *MockTaskRepositoryMockRecorder) GetNextBatch(ctx, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetNextBatch", reflect.TypeOf((*MockTaskRepository)(nil).GetNextBatch), ctx, limit)
}

// MarkAsRunning mocks base method
func (m *MockTaskRepository) MarkAsRunning(ctx context.Context, id string, timeoutAfter time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkAsRunning", ctx, id, timeoutAfter)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkAsRunning indicates an expected call of MarkAsRunning
func (mr *MockTaskRepositoryMockRecorder) MarkAsRunning(ctx, id, timeoutAfter interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkAsRunning", reflect.TypeOf((*MockTaskRepository)(nil).MarkAsRunning), ctx, id, timeoutAfter)
}

// MarkAsCompleted mocks base method
func (m *MockTaskRepository) MarkAsCompleted(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkAsCompleted", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkAsCompleted indicates an expected call of MarkAsCompleted
func (mr *MockTaskRepositoryMockRecorder) MarkAsCompleted(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkAsCompleted", reflect.TypeOf((*MockTaskRepository)(nil).MarkAsCompleted), ctx, id)
}

// MarkAsFailed mocks base method
func (m *MockTaskRepository) MarkAsFailed(ctx context.Context, id string, errMsg string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkAsFailed", ctx, id, errMsg)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkAsFailed indicates an expected call of MarkAsFailed
func (mr *MockTaskRepositoryMockRecorder) MarkAsFailed(ctx, id, errMsg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkAsFailed", reflect.TypeOf((*MockTaskRepository)(nil).MarkAsFailed), ctx, id, errMsg)
}

// MarkAsPaused mocks base method
func (m *MockTaskRepository) MarkAsPaused(ctx context.Context, id string, nextRunAfter time.Time, errMsg string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkAsPaused", ctx, id, nextRunAfter, errMsg)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkAsPaused indicates an expected call of MarkAsPaused
func (mr *MockTaskRepositoryMockRecorder) MarkAsPaused(ctx, id, nextRunAfter, errMsg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkAsPaused", reflect.TypeOf((*MockTaskRepository)(nil).MarkAsPaused), ctx, id, nextRunAfter, errMsg)
}

// CountRunnable mocks base method
func (m *MockTaskRepository) CountRunnable(ctx context.Context) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountRunnable", ctx)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountRunnable indicates an expected call of CountRunnable
func (mr *MockTaskRepositoryMockRecorder) CountRunnable(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountRunnable", reflect.TypeOf((*MockTaskRepository)(nil).CountRunnable), ctx)
}
