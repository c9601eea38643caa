package mocks

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockWorkflowRepository is a mock of WorkflowRepository interface
type MockWorkflowRepository struct {
	ctrl     *gomock.Controller
	recorder *MockWorkflowRepositoryMockRecorder
}

// MockWorkflowRepositoryMockRecorder is the mock recorder for MockWorkflowRepository
type MockWorkflowRepositoryMockRecorder struct {
	mock *MockWorkflowRepository
}

// NewMockWorkflowRepository creates a new mock instance
func NewMockWorkflowRepository(ctrl *gomock.Controller) *MockWorkflowRepository {
	mock := &MockWorkflowRepository{ctrl: ctrl}
	mock.recorder = &MockWorkflowRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockWorkflowRepository) EXPECT() *MockWorkflowRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockWorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, workflow)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockWorkflowRepositoryMockRecorder) Create(ctx, workflow interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockWorkflowRepository)(nil).Create), ctx, workflow)
}

// CreateTx mocks base method
func (m *MockWorkflowRepository) CreateTx(ctx context.Context, tx *sql.Tx, workflow *domain.Workflow) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateTx", ctx, tx, workflow)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateTx indicates an expected call of CreateTx
func (mr *MockWorkflowRepositoryMockRecorder) CreateTx(ctx, tx, workflow interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateTx", reflect.TypeOf((*MockWorkflowRepository)(nil).CreateTx), ctx, tx, workflow)
}

// Get mocks base method
func (m *MockWorkflowRepository) Get(ctx context.Context, id string) (*domain.Workflow, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Workflow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockWorkflowRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockWorkflowRepository)(nil).Get), ctx, id)
}

// GetBySignalID mocks base method
func (m *MockWorkflowRepository) GetBySignalID(ctx context.Context, signalID string) (*domain.Workflow, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBySignalID", ctx, signalID)
	ret0, _ := ret[0].(*domain.Workflow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBySignalID indicates an expected call of GetBySignalID
func (mr *MockWorkflowRepositoryMockRecorder) GetBySignalID(ctx, signalID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBySignalID", reflect.TypeOf((*MockWorkflowRepository)(nil).GetBySignalID), ctx, signalID)
}

// Update mocks base method
func (m *MockWorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, workflow)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockWorkflowRepositoryMockRecorder) Update(ctx, workflow interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockWorkflowRepository)(nil).Update), ctx, workflow)
}

// SetState mocks base method
func (m *MockWorkflowRepository) SetState(ctx context.Context, id string, state domain.WorkflowState) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetState", ctx, id, state)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetState indicates an expected call of SetState
func (mr *MockWorkflowRepositoryMockRecorder) SetState(ctx, id, state interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetState", reflect.TypeOf((*MockWorkflowRepository)(nil).SetState), ctx, id, state)
}

// MarkCancelled mocks base method
func (m *MockWorkflowRepository) MarkCancelled(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkCancelled", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkCancelled indicates an expected call of MarkCancelled
func (mr *MockWorkflowRepositoryMockRecorder) MarkCancelled(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkCancelled", reflect.TypeOf((*MockWorkflowRepository)(nil).MarkCancelled), ctx, id)
}

// ListByState mocks base method
func (m *MockWorkflowRepository) ListByState(ctx context.Context, state domain.WorkflowState, limit int) ([]*domain.Workflow, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByState", ctx, state, limit)
	ret0, _ := ret[0].([]*domain.Workflow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByState indicates an expected call of ListByState
func (mr *MockWorkflowRepositoryMockRecorder) ListByState(ctx, state, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByState", reflect.TypeOf((*MockWorkflowRepository)(nil).ListByState), ctx, state, limit)
}

// CountByStateSince mocks base method
func (m *MockWorkflowRepository) CountByStateSince(ctx context.Context, state domain.WorkflowState, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountByStateSince", ctx, state, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountByStateSince indicates an expected call of CountByStateSince
func (mr *MockWorkflowRepositoryMockRecorder) CountByStateSince(ctx, state, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountByStateSince", reflect.TypeOf((*MockWorkflowRepository)(nil).CountByStateSince), ctx, state, since)
}
