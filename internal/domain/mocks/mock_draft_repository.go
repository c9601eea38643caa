package mocks

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockDraftRepository is a mock of DraftRepository interface
type MockDraftRepository struct {
	ctrl     *gomock.Controller
	recorder *MockDraftRepositoryMockRecorder
}

// MockDraftRepositoryMockRecorder is the mock recorder for MockDraftRepository
type MockDraftRepositoryMockRecorder struct {
	mock *MockDraftRepository
}

// NewMockDraftRepository creates a new mock instance
func NewMockDraftRepository(ctrl *gomock.Controller) *MockDraftRepository {
	mock := &MockDraftRepository{ctrl: ctrl}
	mock.recorder = &MockDraftRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockDraftRepository) EXPECT() *MockDraftRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockDraftRepository) Create(ctx context.Context, draft *domain.DraftEmail) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, draft)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockDraftRepositoryMockRecorder) Create(ctx, draft interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockDraftRepository)(nil).Create), ctx, draft)
}

// CreateTx mocks base method
func (m *MockDraftRepository) CreateTx(ctx context.Context, tx *sql.Tx, draft *domain.DraftEmail) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateTx", ctx, tx, draft)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateTx indicates an expected call of CreateTx
func (mr *MockDraftRepositoryMockRecorder) CreateTx(ctx, tx, draft interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateTx", reflect.TypeOf((*MockDraftRepository)(nil).CreateTx), ctx, tx, draft)
}

// Get mocks base method
func (m *MockDraftRepository) Get(ctx context.Context, id string) (*domain.DraftEmail, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.DraftEmail)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockDraftRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockDraftRepository)(nil).Get), ctx, id)
}

// GetByWorkflowID mocks base method
func (m *MockDraftRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*domain.DraftEmail, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByWorkflowID", ctx, workflowID)
	ret0, _ := ret[0].(*domain.DraftEmail)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByWorkflowID indicates an expected call of GetByWorkflowID
func (mr *MockDraftRepositoryMockRecorder) GetByWorkflowID(ctx, workflowID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByWorkflowID", reflect.TypeOf((*MockDraftRepository)(nil).GetByWorkflowID), ctx, workflowID)
}

// Update mocks base method
func (m *MockDraftRepository) Update(ctx context.Context, draft *domain.DraftEmail) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, draft)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockDraftRepositoryMockRecorder) Update(ctx, draft interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockDraftRepository)(nil).Update), ctx, draft)
}

// UpdateStatus mocks base method
func (m *MockDraftRepository) UpdateStatus(ctx context.Context, id string, to domain.DraftStatus, reason string) (*domain.DraftEmail, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatus", ctx, id, to, reason)
	ret0, _ := ret[0].(*domain.DraftEmail)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// UpdateStatus indicates an expected call of UpdateStatus
func (mr *MockDraftRepositoryMockRecorder) UpdateStatus(ctx, id, to, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatus", reflect.TypeOf((*MockDraftRepository)(nil).UpdateStatus), ctx, id, to, reason)
}

// ListByStatus mocks base method
func (m *MockDraftRepository) ListByStatus(ctx context.Context, status domain.DraftStatus, limit int) ([]*domain.DraftEmail, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByStatus", ctx, status, limit)
	ret0, _ := ret[0].([]*domain.DraftEmail)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByStatus indicates an expected call of ListByStatus
func (mr *MockDraftRepositoryMockRecorder) ListByStatus(ctx, status, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByStatus", reflect.TypeOf((*MockDraftRepository)(nil).ListByStatus), ctx, status, limit)
}

// MockSendRecordRepository is a mock of SendRecordRepository interface
type MockSendRecordRepository struct {
	ctrl     *gomock.Controller
	recorder *MockSendRecordRepositoryMockRecorder
}

// MockSendRecordRepositoryMockRecorder is the mock recorder for MockSendRecordRepository
type MockSendRecordRepositoryMockRecorder struct {
	mock *MockSendRecordRepository
}

// NewMockSendRecordRepository creates a new mock instance
func NewMockSendRecordRepository(ctrl *gomock.Controller) *MockSendRecordRepository {
	mock := &MockSendRecordRepository{ctrl: ctrl}
	mock.recorder = &MockSendRecordRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockSendRecordRepository) EXPECT() *MockSendRecordRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockSendRecordRepository) Create(ctx context.Context, record *domain.SendRecord) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockSendRecordRepositoryMockRecorder) Create(ctx, record interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockSendRecordRepository)(nil).Create), ctx, record)
}

// CreateTx mocks base method
func (m *MockSendRecordRepository) CreateTx(ctx context.Context, tx *sql.Tx, record *domain.SendRecord) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateTx", ctx, tx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateTx indicates an expected call of CreateTx
func (mr *MockSendRecordRepositoryMockRecorder) CreateTx(ctx, tx, record interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateTx", reflect.TypeOf((*MockSendRecordRepository)(nil).CreateTx), ctx, tx, record)
}

// GetByDraftID mocks base method
func (m *MockSendRecordRepository) GetByDraftID(ctx context.Context, draftID string) (*domain.SendRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByDraftID", ctx, draftID)
	ret0, _ := ret[0].(*domain.SendRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByDraftID indicates an expected call of GetByDraftID
func (mr *MockSendRecordRepositoryMockRecorder) GetByDraftID(ctx, draftID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByDraftID", reflect.TypeOf((*MockSendRecordRepository)(nil).GetByDraftID), ctx, draftID)
}

// GetByIdempotencyKey mocks base method
func (m *MockSendRecordRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.SendRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIdempotencyKey", ctx, key)
	ret0, _ := ret[0].(*domain.SendRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByIdempotencyKey indicates an expected call of GetByIdempotencyKey
func (mr *MockSendRecordRepositoryMockRecorder) GetByIdempotencyKey(ctx, key interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIdempotencyKey", reflect.TypeOf((*MockSendRecordRepository)(nil).GetByIdempotencyKey), ctx, key)
}

// CountForRecipientSince mocks base method
func (m *MockSendRecordRepository) CountForRecipientSince(ctx context.Context, recipient string, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountForRecipientSince", ctx, recipient, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountForRecipientSince indicates an expected call of CountForRecipientSince
func (mr *MockSendRecordRepositoryMockRecorder) CountForRecipientSince(ctx, recipient, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountForRecipientSince", reflect.TypeOf((*MockSendRecordRepository)(nil).CountForRecipientSince), ctx, recipient, since)
}

// CountSince mocks base method
func (m *MockSendRecordRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountSince", ctx, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountSince indicates an expected call of CountSince
func (mr *MockSendRecordRepositoryMockRecorder) CountSince(ctx, since interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountSince", reflect.TypeOf((*MockSendRecordRepository)(nil).CountSince), ctx, since)
}

// ListRecent mocks base method
func (m *MockSendRecordRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SendRecord, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecent", ctx, limit)
	ret0, _ := ret[0].([]*domain.SendRecord)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRecent indicates an expected call of ListRecent
func (mr *MockSendRecordRepositoryMockRecorder) ListRecent(ctx, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecent", reflect.TypeOf((*MockSendRecordRepository)(nil).ListRecent), ctx, limit)
}
