package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockOutcomeRepository is a mock of OutcomeRepository interface
type MockOutcomeRepository struct {
	ctrl     *gomock.Controller
	recorder *MockOutcomeRepositoryMockRecorder
}

// MockOutcomeRepositoryMockRecorder is the mock recorder for MockOutcomeRepository
type MockOutcomeRepositoryMockRecorder struct {
	mock *MockOutcomeRepository
}

// NewMockOutcomeRepository creates a new mock instance
func NewMockOutcomeRepository(ctrl *gomock.Controller) *MockOutcomeRepository {
	mock := &MockOutcomeRepository{ctrl: ctrl}
	mock.recorder = &MockOutcomeRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockOutcomeRepository) EXPECT() *MockOutcomeRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockOutcomeRepository) Create(ctx context.Context, record *domain.OutcomeRecord) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockOutcomeRepositoryMockRecorder) Create(ctx, record interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockOutcomeRepository)(nil).Create), ctx, record)
}

// Get mocks base method
func (m *MockOutcomeRepository) Get(ctx context.Context, id string) (*domain.OutcomeRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.OutcomeRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockOutcomeRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockOutcomeRepository)(nil).Get), ctx, id)
}

// ListBySubject mocks base method
func (m *MockOutcomeRepository) ListBySubject(ctx context.Context, kind domain.OutcomeSubjectKind, id string) ([]*domain.OutcomeRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBySubject", ctx, kind, id)
	ret0, _ := ret[0].([]*domain.OutcomeRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListBySubject indicates an expected call of ListBySubject
func (mr *MockOutcomeRepositoryMockRecorder) ListBySubject(ctx, kind, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBySubject", reflect.TypeOf((*MockOutcomeRepository)(nil).ListBySubject), ctx, kind, id)
}

// SumImpactForContact mocks base method
func (m *MockOutcomeRepository) SumImpactForContact(ctx context.Context, contactID string) (float64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SumImpactForContact", ctx, contactID)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SumImpactForContact indicates an expected call of SumImpactForContact
func (mr *MockOutcomeRepositoryMockRecorder) SumImpactForContact(ctx, contactID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SumImpactForContact", reflect.TypeOf((*MockOutcomeRepository)(nil).SumImpactForContact), ctx, contactID)
}

// Stats mocks base method
func (m *MockOutcomeRepository) Stats(ctx context.Context, rng domain.TimeRange) (*domain.OutcomeStats, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Stats", ctx, rng)
	ret0, _ := ret[0].(*domain.OutcomeStats)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Stats indicates an expected call of Stats
func (mr *MockOutcomeRepositoryMockRecorder) Stats(ctx, rng interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Stats", reflect.TypeOf((*MockOutcomeRepository)(nil).Stats), ctx, rng)
}

// ListSince mocks base method
func (m *MockOutcomeRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]*domain.OutcomeRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSince", ctx, since, limit)
	ret0, _ := ret[0].([]*domain.OutcomeRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListSince indicates an expected call of ListSince
func (mr *MockOutcomeRepositoryMockRecorder) ListSince(ctx, since, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSince", reflect.TypeOf((*MockOutcomeRepository)(nil).ListSince), ctx, since, limit)
}
