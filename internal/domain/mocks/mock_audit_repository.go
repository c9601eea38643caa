package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockAuditLogRepository is a mock of AuditLogRepository interface
type MockAuditLogRepository struct {
	ctrl     *gomock.Controller
	recorder *MockAuditLogRepositoryMockRecorder
}

// MockAuditLogRepositoryMockRecorder is the mock recorder for MockAuditLogRepository
type MockAuditLogRepositoryMockRecorder struct {
	mock *MockAuditLogRepository
}

// NewMockAuditLogRepository creates a new mock instance
func NewMockAuditLogRepository(ctrl *gomock.Controller) *MockAuditLogRepository {
	mock := &MockAuditLogRepository{ctrl: ctrl}
	mock.recorder = &MockAuditLogRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockAuditLogRepository) EXPECT() *MockAuditLogRepositoryMockRecorder {
	return m.recorder
}

// Append mocks base method
func (m *MockAuditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Append", ctx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// Append indicates an expected call of Append
func (mr *MockAuditLogRepositoryMockRecorder) Append(ctx, entry interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Append", reflect.TypeOf((*MockAuditLogRepository)(nil).Append), ctx, entry)
}

// List mocks base method
func (m *MockAuditLogRepository) List(ctx context.Context, subject string, limit int, offset int) ([]*domain.AuditEntry, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, subject, limit, offset)
	ret0, _ := ret[0].([]*domain.AuditEntry)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// List indicates an expected call of List
func (mr *MockAuditLogRepositoryMockRecorder) List(ctx, subject, limit, offset interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockAuditLogRepository)(nil).List), ctx, subject, limit, offset)
}
