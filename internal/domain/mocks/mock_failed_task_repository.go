package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockFailedTaskRepository is a mock of FailedTaskRepository interface
type MockFailedTaskRepository struct {
	ctrl     *gomock.Controller
	recorder *MockFailedTaskRepositoryMockRecorder
}

// MockFailedTaskRepositoryMockRecorder is the mock recorder for MockFailedTaskRepository
type MockFailedTaskRepositoryMockRecorder struct {
	mock *MockFailedTaskRepository
}

// NewMockFailedTaskRepository creates a new mock instance
func NewMockFailedTaskRepository(ctrl *gomock.Controller) *MockFailedTaskRepository {
	mock := &MockFailedTaskRepository{ctrl: ctrl}
	mock.recorder = &MockFailedTaskRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockFailedTaskRepository) EXPECT() *MockFailedTaskRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockFailedTaskRepository) Create(ctx context.Context, task *domain.FailedTask) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, task)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockFailedTaskRepositoryMockRecorder) Create(ctx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockFailedTaskRepository)(nil).Create), ctx, task)
}

// Get mocks base method
func (m *MockFailedTaskRepository) Get(ctx context.Context, id string) (*domain.FailedTask, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.FailedTask)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockFailedTaskRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockFailedTaskRepository)(nil).Get), ctx, id)
}

// Update mocks base method
func (m *MockFailedTaskRepository) Update(ctx context.Context, task *domain.FailedTask) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, task)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockFailedTaskRepositoryMockRecorder) Update(ctx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockFailedTaskRepository)(nil).Update), ctx, task)
}

// MarkResolved mocks base method
func (m *MockFailedTaskRepository) MarkResolved(ctx context.Context, id string, at time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkResolved", ctx, id, at)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkResolved indicates an expected call of MarkResolved
func (mr *MockFailedTaskRepositoryMockRecorder) MarkResolved(ctx, id, at interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkResolved", reflect.TypeOf((*MockFailedTaskRepository)(nil).MarkResolved), ctx, id, at)
}

// ListDue mocks base method
func (m *MockFailedTaskRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.FailedTask, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDue", ctx, now, limit)
	ret0, _ := ret[0].([]*domain.FailedTask)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListDue indicates an expected call of ListDue
func (mr *MockFailedTaskRepositoryMockRecorder) ListDue(ctx, now, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDue", reflect.TypeOf((*MockFailedTaskRepository)(nil).ListDue), ctx, now, limit)
}

// ListUnresolved mocks base method
func (m *MockFailedTaskRepository) ListUnresolved(ctx context.Context, limit int, offset int) ([]*domain.FailedTask, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListUnresolved", ctx, limit, offset)
	ret0, _ := ret[0].([]*domain.FailedTask)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// ListUnresolved indicates an expected call of ListUnresolved
func (mr *MockFailedTaskRepositoryMockRecorder) ListUnresolved(ctx, limit, offset interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListUnresolved", reflect.TypeOf((*MockFailedTaskRepository)(nil).ListUnresolved), ctx, limit, offset)
}
