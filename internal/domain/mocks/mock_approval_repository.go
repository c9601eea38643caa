package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockApprovalRuleRepository is a mock of ApprovalRuleRepository interface
type MockApprovalRuleRepository struct {
	ctrl     *gomock.Controller
	recorder *MockApprovalRuleRepositoryMockRecorder
}

// MockApprovalRuleRepositoryMockRecorder is the mock recorder for MockApprovalRuleRepository
type MockApprovalRuleRepositoryMockRecorder struct {
	mock *MockApprovalRuleRepository
}

// NewMockApprovalRuleRepository creates a new mock instance
func NewMockApprovalRuleRepository(ctrl *gomock.Controller) *MockApprovalRuleRepository {
	mock := &MockApprovalRuleRepository{ctrl: ctrl}
	mock.recorder = &MockApprovalRuleRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockApprovalRuleRepository) EXPECT() *MockApprovalRuleRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockApprovalRuleRepository) Create(ctx context.Context, rule *domain.AutoApprovalRule) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, rule)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockApprovalRuleRepositoryMockRecorder) Create(ctx, rule interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockApprovalRuleRepository)(nil).Create), ctx, rule)
}

// Get mocks base method
func (m *MockApprovalRuleRepository) Get(ctx context.Context, id string) (*domain.AutoApprovalRule, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.AutoApprovalRule)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockApprovalRuleRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockApprovalRuleRepository)(nil).Get), ctx, id)
}

// Update mocks base method
func (m *MockApprovalRuleRepository) Update(ctx context.Context, rule *domain.AutoApprovalRule) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, rule)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update
func (mr *MockApprovalRuleRepositoryMockRecorder) Update(ctx, rule interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockApprovalRuleRepository)(nil).Update), ctx, rule)
}

// Delete mocks base method
func (m *MockApprovalRuleRepository) Delete(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete
func (mr *MockApprovalRuleRepositoryMockRecorder) Delete(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockApprovalRuleRepository)(nil).Delete), ctx, id)
}

// ListEnabled mocks base method
func (m *MockApprovalRuleRepository) ListEnabled(ctx context.Context) ([]*domain.AutoApprovalRule, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListEnabled", ctx)
	ret0, _ := ret[0].([]*domain.AutoApprovalRule)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListEnabled indicates an expected call of ListEnabled
func (mr *MockApprovalRuleRepositoryMockRecorder) ListEnabled(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListEnabled", reflect.TypeOf((*MockApprovalRuleRepository)(nil).ListEnabled), ctx)
}

// ListAll mocks base method
func (m *MockApprovalRuleRepository) ListAll(ctx context.Context) ([]*domain.AutoApprovalRule, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListAll", ctx)
	ret0, _ := ret[0].([]*domain.AutoApprovalRule)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListAll indicates an expected call of ListAll
func (mr *MockApprovalRuleRepositoryMockRecorder) ListAll(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListAll", reflect.TypeOf((*MockApprovalRuleRepository)(nil).ListAll), ctx)
}

// MockApprovedRecipientRepository is a mock of ApprovedRecipientRepository interface
type MockApprovedRecipientRepository struct {
	ctrl     *gomock.Controller
	recorder *MockApprovedRecipientRepositoryMockRecorder
}

// MockApprovedRecipientRepositoryMockRecorder is the mock recorder for MockApprovedRecipientRepository
type MockApprovedRecipientRepositoryMockRecorder struct {
	mock *MockApprovedRecipientRepository
}

// NewMockApprovedRecipientRepository creates a new mock instance
func NewMockApprovedRecipientRepository(ctrl *gomock.Controller) *MockApprovedRecipientRepository {
	mock := &MockApprovedRecipientRepository{ctrl: ctrl}
	mock.recorder = &MockApprovedRecipientRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockApprovedRecipientRepository) EXPECT() *MockApprovedRecipientRepositoryMockRecorder {
	return m.recorder
}

// Add mocks base method
func (m *MockApprovedRecipientRepository) Add(ctx context.Context, recipient *domain.ApprovedRecipient) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Add", ctx, recipient)
	ret0, _ := ret[0].(error)
	return ret0
}

// Add indicates an expected call of Add
func (mr *MockApprovedRecipientRepositoryMockRecorder) Add(ctx, recipient interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Add", reflect.TypeOf((*MockApprovedRecipientRepository)(nil).Add), ctx, recipient)
}

// Exists mocks base method
func (m *MockApprovedRecipientRepository) Exists(ctx context.Context, email string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Exists", ctx, email)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Exists indicates an expected call of Exists
func (mr *MockApprovedRecipientRepositoryMockRecorder) Exists(ctx, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Exists", reflect.TypeOf((*MockApprovedRecipientRepository)(nil).Exists), ctx, email)
}

// Remove mocks base method
func (m *MockApprovedRecipientRepository) Remove(ctx context.Context, email string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", ctx, email)
	ret0, _ := ret[0].(error)
	return ret0
}

// Remove indicates an expected call of Remove
func (mr *MockApprovedRecipientRepositoryMockRecorder) Remove(ctx, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockApprovedRecipientRepository)(nil).Remove), ctx, email)
}

// List mocks base method
func (m *MockApprovedRecipientRepository) List(ctx context.Context) ([]*domain.ApprovedRecipient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx)
	ret0, _ := ret[0].([]*domain.ApprovedRecipient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List
func (mr *MockApprovedRecipientRepositoryMockRecorder) List(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockApprovedRecipientRepository)(nil).List), ctx)
}

// MockApprovalLogRepository is a mock of ApprovalLogRepository interface
type MockApprovalLogRepository struct {
	ctrl     *gomock.Controller
	recorder *MockApprovalLogRepositoryMockRecorder
}

// MockApprovalLogRepositoryMockRecorder is the mock recorder for MockApprovalLogRepository
type MockApprovalLogRepositoryMockRecorder struct {
	mock *MockApprovalLogRepository
}

// NewMockApprovalLogRepository creates a new mock instance
func NewMockApprovalLogRepository(ctrl *gomock.Controller) *MockApprovalLogRepository {
	mock := &MockApprovalLogRepository{ctrl: ctrl}
	mock.recorder = &MockApprovalLogRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockApprovalLogRepository) EXPECT() *MockApprovalLogRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method
func (m *MockApprovalLogRepository) Create(ctx context.Context, log *domain.AutoApprovalLog) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, log)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create
func (mr *MockApprovalLogRepositoryMockRecorder) Create(ctx, log interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockApprovalLogRepository)(nil).Create), ctx, log)
}

// GetByDraftID mocks base method
func (m *MockApprovalLogRepository) GetByDraftID(ctx context.Context, draftID string) ([]*domain.AutoApprovalLog, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByDraftID", ctx, draftID)
	ret0, _ := ret[0].([]*domain.AutoApprovalLog)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByDraftID indicates an expected call of GetByDraftID
func (mr *MockApprovalLogRepositoryMockRecorder) GetByDraftID(ctx, draftID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByDraftID", reflect.TypeOf((*MockApprovalLogRepository)(nil).GetByDraftID), ctx, draftID)
}
