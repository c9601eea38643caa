package mocks

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockSignalRepository is a mock of SignalRepository interface
type MockSignalRepository struct {
	ctrl     *gomock.Controller
	recorder *MockSignalRepositoryMockRecorder
}

// MockSignalRepositoryMockRecorder is the mock recorder for MockSignalRepository
type MockSignalRepositoryMockRecorder struct {
	mock *MockSignalRepository
}

// NewMockSignalRepository creates a new mock instance
func NewMockSignalRepository(ctrl *gomock.Controller) *MockSignalRepository {
	mock := &MockSignalRepository{ctrl: ctrl}
	mock.recorder = &MockSignalRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockSignalRepository) EXPECT() *MockSignalRepositoryMockRecorder {
	return m.recorder
}

// InsertIfAbsent mocks base method
func (m *MockSignalRepository) InsertIfAbsent(ctx context.Context, signal *domain.Signal) (*domain.Signal, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertIfAbsent", ctx, signal)
	ret0, _ := ret[0].(*domain.Signal)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// InsertIfAbsent indicates an expected call of InsertIfAbsent
func (mr *MockSignalRepositoryMockRecorder) InsertIfAbsent(ctx, signal interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertIfAbsent", reflect.TypeOf((*MockSignalRepository)(nil).InsertIfAbsent), ctx, signal)
}

// Get mocks base method
func (m *MockSignalRepository) Get(ctx context.Context, id string) (*domain.Signal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Signal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockSignalRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockSignalRepository)(nil).Get), ctx, id)
}

// GetByDedupeHash mocks base method
func (m *MockSignalRepository) GetByDedupeHash(ctx context.Context, source domain.SignalSource, hash string) (*domain.Signal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByDedupeHash", ctx, source, hash)
	ret0, _ := ret[0].(*domain.Signal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByDedupeHash indicates an expected call of GetByDedupeHash
func (mr *MockSignalRepositoryMockRecorder) GetByDedupeHash(ctx, source, hash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByDedupeHash", reflect.TypeOf((*MockSignalRepository)(nil).GetByDedupeHash), ctx, source, hash)
}

// MarkProcessed mocks base method
func (m *MockSignalRepository) MarkProcessed(ctx context.Context, id string, workflowID *string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkProcessed", ctx, id, workflowID)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkProcessed indicates an expected call of MarkProcessed
func (mr *MockSignalRepositoryMockRecorder) MarkProcessed(ctx, id, workflowID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkProcessed", reflect.TypeOf((*MockSignalRepository)(nil).MarkProcessed), ctx, id, workflowID)
}

// MarkProcessedTx mocks base method
func (m *MockSignalRepository) MarkProcessedTx(ctx context.Context, tx *sql.Tx, id string, workflowID *string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkProcessedTx", ctx, tx, id, workflowID)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkProcessedTx indicates an expected call of MarkProcessedTx
func (mr *MockSignalRepositoryMockRecorder) MarkProcessedTx(ctx, tx, id, workflowID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkProcessedTx", reflect.TypeOf((*MockSignalRepository)(nil).MarkProcessedTx), ctx, tx, id, workflowID)
}

// ListUnprocessed mocks base method
func (m *MockSignalRepository) ListUnprocessed(ctx context.Context, limit int) ([]*domain.Signal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListUnprocessed", ctx, limit)
	ret0, _ := ret[0].([]*domain.Signal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListUnprocessed indicates an expected call of ListUnprocessed
func (mr *MockSignalRepositoryMockRecorder) ListUnprocessed(ctx, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListUnprocessed", reflect.TypeOf((*MockSignalRepository)(nil).ListUnprocessed), ctx, limit)
}

// CountSince mocks base method
func (m *MockSignalRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountSince", ctx, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountSince indicates an expected call of CountSince
func (mr *MockSignalRepositoryMockRecorder) CountSince(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountSince", reflect.TypeOf((*MockSignalRepository)(nil).CountSince), ctx, since)
}
