package mocks

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockContactRepository is a mock of ContactRepository interface
type MockContactRepository struct {
	ctrl     *gomock.Controller
	recorder *MockContactRepositoryMockRecorder
}

// MockContactRepositoryMockRecorder is the mock recorder for MockContactRepository
type MockContactRepositoryMockRecorder struct {
	mock *MockContactRepository
}

// NewMockContactRepository creates a new mock instance
func NewMockContactRepository(ctrl *gomock.Controller) *MockContactRepository {
	mock := &MockContactRepository{ctrl: ctrl}
	mock.recorder = &MockContactRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockContactRepository) EXPECT() *MockContactRepositoryMockRecorder {
	return m.recorder
}

// Upsert mocks base method
func (m *MockContactRepository) Upsert(ctx context.Context, contact *domain.Contact) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upsert", ctx, contact)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upsert indicates an expected call of Upsert
func (mr *MockContactRepositoryMockRecorder) Upsert(ctx, contact interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upsert", reflect.TypeOf((*MockContactRepository)(nil).Upsert), ctx, contact)
}

// UpsertTx mocks base method
func (m *MockContactRepository) UpsertTx(ctx context.Context, tx *sql.Tx, contact *domain.Contact) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpsertTx", ctx, tx, contact)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpsertTx indicates an expected call of UpsertTx
func (mr *MockContactRepositoryMockRecorder) UpsertTx(ctx, tx, contact interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpsertTx", reflect.TypeOf((*MockContactRepository)(nil).UpsertTx), ctx, tx, contact)
}

// Get mocks base method
func (m *MockContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Contact)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockContactRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockContactRepository)(nil).Get), ctx, id)
}

// GetByEmail mocks base method
func (m *MockContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByEmail", ctx, email)
	ret0, _ := ret[0].(*domain.Contact)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByEmail indicates an expected call of GetByEmail
func (mr *MockContactRepositoryMockRecorder) GetByEmail(ctx, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByEmail", reflect.TypeOf((*MockContactRepository)(nil).GetByEmail), ctx, email)
}

// SetLastReplyAt mocks base method
func (m *MockContactRepository) SetLastReplyAt(ctx context.Context, email string, at time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetLastReplyAt", ctx, email, at)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetLastReplyAt indicates an expected call of SetLastReplyAt
func (mr *MockContactRepositoryMockRecorder) SetLastReplyAt(ctx, email, at interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetLastReplyAt", reflect.TypeOf((*MockContactRepository)(nil).SetLastReplyAt), ctx, email, at)
}

// Suppress mocks base method
func (m *MockContactRepository) Suppress(ctx context.Context, email string, state domain.SuppressionState, at time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Suppress", ctx, email, state, at)
	ret0, _ := ret[0].(error)
	return ret0
}

// Suppress indicates an expected call of Suppress
func (mr *MockContactRepositoryMockRecorder) Suppress(ctx, email, state, at interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Suppress", reflect.TypeOf((*MockContactRepository)(nil).Suppress), ctx, email, state, at)
}

// List mocks base method
func (m *MockContactRepository) List(ctx context.Context, limit int, offset int) ([]*domain.Contact, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, limit, offset)
	ret0, _ := ret[0].([]*domain.Contact)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// List indicates an expected call of List
func (mr *MockContactRepositoryMockRecorder) List(ctx, limit, offset interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockContactRepository)(nil).List), ctx, limit, offset)
}

// MockCompanyRepository is a mock of CompanyRepository interface
type MockCompanyRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCompanyRepositoryMockRecorder
}

// MockCompanyRepositoryMockRecorder is the mock recorder for MockCompanyRepository
type MockCompanyRepositoryMockRecorder struct {
	mock *MockCompanyRepository
}

// NewMockCompanyRepository creates a new mock instance
func NewMockCompanyRepository(ctrl *gomock.Controller) *MockCompanyRepository {
	mock := &MockCompanyRepository{ctrl: ctrl}
	mock.recorder = &MockCompanyRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockCompanyRepository) EXPECT() *MockCompanyRepositoryMockRecorder {
	return m.recorder
}

// Upsert mocks base method
func (m *MockCompanyRepository) Upsert(ctx context.Context, company *domain.Company) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upsert", ctx, company)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upsert indicates an expected call of Upsert
func (mr *MockCompanyRepositoryMockRecorder) Upsert(ctx, company interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upsert", reflect.TypeOf((*MockCompanyRepository)(nil).Upsert), ctx, company)
}

// Get mocks base method
func (m *MockCompanyRepository) Get(ctx context.Context, id string) (*domain.Company, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, id)
	ret0, _ := ret[0].(*domain.Company)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockCompanyRepositoryMockRecorder) Get(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockCompanyRepository)(nil).Get), ctx, id)
}

// GetByDomain mocks base method
func (m *MockCompanyRepository) GetByDomain(ctx context.Context, companyDomain string) (*domain.Company, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByDomain", ctx, companyDomain)
	ret0, _ := ret[0].(*domain.Company)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByDomain indicates an expected call of GetByDomain
func (mr *MockCompanyRepositoryMockRecorder) GetByDomain(ctx, companyDomain interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByDomain", reflect.TypeOf((*MockCompanyRepository)(nil).GetByDomain), ctx, companyDomain)
}
