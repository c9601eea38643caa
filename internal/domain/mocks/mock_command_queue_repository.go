package mocks

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockCommandQueueRepository is a mock of CommandQueueRepository interface
type MockCommandQueueRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCommandQueueRepositoryMockRecorder
}

// MockCommandQueueRepositoryMockRecorder is the mock recorder for MockCommandQueueRepository
type MockCommandQueueRepositoryMockRecorder struct {
	mock *MockCommandQueueRepository
}

// NewMockCommandQueueRepository creates a new mock instance
func NewMockCommandQueueRepository(ctrl *gomock.Controller) *MockCommandQueueRepository {
	mock := &MockCommandQueueRepository{ctrl: ctrl}
	mock.recorder = &MockCommandQueueRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockCommandQueueRepository) EXPECT() *MockCommandQueueRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockCommandQueueRepository) Create(ctx context.Context, item *domain.CommandQueueItem) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, item)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockCommandQueueRepositoryMockRecorder) Create(ctx, item interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockCommandQueueRepository)(nil).Create), ctx, item)
}

// CreateTx mocks base method
func (m *MockCommandQueueRepository) CreateTx(ctx context.Context, tx *sql.Tx, item *domain.CommandQueueItem) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateTx", ctx, tx, item)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateTx indicates an expected call of CreateTx
func (mr *MockCommandQueueRepositoryMockRecorder) CreateTx(ctx, tx, item interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateTx", reflect.TypeOf((*MockCommandQueueRepository)(nil).CreateTx), ctx, tx, item)
}

// Get mocks base method
func (m *MockCommandQueueRepository) Get(ctx context.Context, id string) (*domain.CommandQueueItem, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.CommandQueueItem)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockCommandQueueRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockCommandQueueRepository)(nil).Get), ctx, id)
}

// GetByDraftID mocks base method
func (m *MockCommandQueueRepository) GetByDraftID(ctx context.Context, draftID string) (*domain.CommandQueueItem, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByDraftID", ctx, draftID)
	ret0, _ := ret[0].(*domain.CommandQueueItem)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByDraftID indicates an expected call of GetByDraftID
func (mr *MockCommandQueueRepositoryMockRecorder) GetByDraftID(ctx, draftID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByDraftID", reflect.TypeOf((*MockCommandQueueRepository)(nil).GetByDraftID), ctx, draftID)
}

// Update mocks base method
func (m *MockCommandQueueRepository) Update(ctx context.Context, item *domain.CommandQueueItem) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, item)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockCommandQueueRepositoryMockRecorder) Update(ctx, item interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockCommandQueueRepository)(nil).Update), ctx, item)
}

// SetStatus mocks base method
func (m *MockCommandQueueRepository) SetStatus(ctx context.Context, id string, status domain.QueueItemStatus, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStatus", ctx, id, status, reason)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetStatus indicates an expected call of SetStatus
func (mr *MockCommandQueueRepositoryMockRecorder) SetStatus(ctx, id, status, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStatus", reflect.TypeOf((*MockCommandQueueRepository)(nil).SetStatus), ctx, id, status, reason)
}

// ListToday mocks base method
func (m *MockCommandQueueRepository) ListToday(ctx context.Context, queueDomain domain.QueueDomain, limit int) ([]*domain.CommandQueueItem, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListToday", ctx, queueDomain, limit)
	ret0, _ := ret[0].([]*domain.CommandQueueItem)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListToday indicates an expected call of ListToday
func (mr *MockCommandQueueRepositoryMockRecorder) ListToday(ctx, queueDomain, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListToday", reflect.TypeOf((*MockCommandQueueRepository)(nil).ListToday), ctx, queueDomain, limit)
}

// ListByStatus mocks base method
func (m *MockCommandQueueRepository) ListByStatus(ctx context.Context, status domain.QueueItemStatus, limit int) ([]*domain.CommandQueueItem, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByStatus", ctx, status, limit)
	ret0, _ := ret[0].([]*domain.CommandQueueItem)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByStatus indicates an expected call of ListByStatus
func (mr *MockCommandQueueRepositoryMockRecorder) ListByStatus(ctx, status, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByStatus", reflect.TypeOf((*MockCommandQueueRepository)(nil).ListByStatus), ctx, status, limit)
}
