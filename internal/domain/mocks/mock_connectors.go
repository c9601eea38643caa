package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockEmailConnector is a mock of EmailConnector interface
type MockEmailConnector struct {
	ctrl     *gomock.Controller
	recorder *MockEmailConnectorMockRecorder
}

// MockEmailConnectorMockRecorder is the mock recorder for MockEmailConnector
type MockEmailConnectorMockRecorder struct {
	mock *MockEmailConnector
}

// NewMockEmailConnector creates a new mock instance
func NewMockEmailConnector(ctrl *gomock.Controller) *MockEmailConnector {
	mock := &MockEmailConnector{ctrl: ctrl}
	mock.recorder = &MockEmailConnectorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockEmailConnector) EXPECT() *MockEmailConnectorMockRecorder {
	return m.recorder
}

// SearchThreads mocks base method
func (m *MockEmailConnector) SearchThreads(ctx context.Context, query string, limit int) ([]domain.EmailThreadRef, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SearchThreads", ctx, query, limit)
	ret0, _ := ret[0].([]domain.EmailThreadRef)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SearchThreads indicates an expected call of SearchThreads
func (mr *MockEmailConnectorMockRecorder) SearchThreads(ctx, query, limit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SearchThreads", reflect.TypeOf((*MockEmailConnector)(nil).SearchThreads), ctx, query, limit)
}

// GetThread mocks base method
func (m *MockEmailConnector) GetThread(ctx context.Context, threadID string) (*domain.EmailThread, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetThread", ctx, threadID)
	ret0, _ := ret[0].(*domain.EmailThread)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetThread indicates an expected call of GetThread
func (mr *MockEmailConnectorMockRecorder) GetThread(ctx, threadID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetThread", reflect.TypeOf((*MockEmailConnector)(nil).GetThread), ctx, threadID)
}

// CreateDraft mocks base method
func (m *MockEmailConnector) CreateDraft(ctx context.Context, email domain.OutboundEmail) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateDraft", ctx, email)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateDraft indicates an expected call of CreateDraft
func (mr *MockEmailConnectorMockRecorder) CreateDraft(ctx, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateDraft", reflect.TypeOf((*MockEmailConnector)(nil).CreateDraft), ctx, email)
}

// Send mocks base method
func (m *MockEmailConnector) Send(ctx context.Context, externalDraftID string, email domain.OutboundEmail) (*domain.SendReceipt, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Send", ctx, externalDraftID, email)
	ret0, _ := ret[0].(*domain.SendReceipt)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Send indicates an expected call of Send
func (mr *MockEmailConnectorMockRecorder) Send(ctx, externalDraftID, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Send", reflect.TypeOf((*MockEmailConnector)(nil).Send), ctx, externalDraftID, email)
}

// DeleteDraft mocks base method
func (m *MockEmailConnector) DeleteDraft(ctx context.Context, externalDraftID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteDraft", ctx, externalDraftID)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteDraft indicates an expected call of DeleteDraft
func (mr *MockEmailConnectorMockRecorder) DeleteDraft(ctx, externalDraftID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteDraft", reflect.TypeOf((*MockEmailConnector)(nil).DeleteDraft), ctx, externalDraftID)
}

// MockCRMConnector is a mock of CRMConnector interface
type MockCRMConnector struct {
	ctrl     *gomock.Controller
	recorder *MockCRMConnectorMockRecorder
}

// MockCRMConnectorMockRecorder is the mock recorder for MockCRMConnector
type MockCRMConnectorMockRecorder struct {
	mock *MockCRMConnector
}

// NewMockCRMConnector creates a new mock instance
func NewMockCRMConnector(ctrl *gomock.Controller) *MockCRMConnector {
	mock := &MockCRMConnector{ctrl: ctrl}
	mock.recorder = &MockCRMConnectorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockCRMConnector) EXPECT() *MockCRMConnectorMockRecorder {
	return m.recorder
}

// FindContactByEmail mocks base method
func (m *MockCRMConnector) FindContactByEmail(ctx context.Context, email string) (*domain.CRMContact, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindContactByEmail", ctx, email)
	ret0, _ := ret[0].(*domain.CRMContact)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindContactByEmail indicates an expected call of FindContactByEmail
func (mr *MockCRMConnectorMockRecorder) FindContactByEmail(ctx, email interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindContactByEmail", reflect.TypeOf((*MockCRMConnector)(nil).FindContactByEmail), ctx, email)
}

// FindCompanyByDomain mocks base method
func (m *MockCRMConnector) FindCompanyByDomain(ctx context.Context, companyDomain string) (*domain.CRMCompany, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindCompanyByDomain", ctx, companyDomain)
	ret0, _ := ret[0].(*domain.CRMCompany)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindCompanyByDomain indicates an expected call of FindCompanyByDomain
func (mr *MockCRMConnectorMockRecorder) FindCompanyByDomain(ctx, companyDomain interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindCompanyByDomain", reflect.TypeOf((*MockCRMConnector)(nil).FindCompanyByDomain), ctx, companyDomain)
}

// Associations mocks base method
func (m *MockCRMConnector) Associations(ctx context.Context, contactID string) (*domain.CRMAssociations, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Associations", ctx, contactID)
	ret0, _ := ret[0].(*domain.CRMAssociations)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Associations indicates an expected call of Associations
func (mr *MockCRMConnectorMockRecorder) Associations(ctx, contactID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Associations", reflect.TypeOf((*MockCRMConnector)(nil).Associations), ctx, contactID)
}

// CreateTask mocks base method
func (m *MockCRMConnector) CreateTask(ctx context.Context, contactID string, title string, dueAt time.Time) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateTask", ctx, contactID, title, dueAt)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateTask indicates an expected call of CreateTask
func (mr *MockCRMConnectorMockRecorder) CreateTask(ctx, contactID, title, dueAt interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateTask", reflect.TypeOf((*MockCRMConnector)(nil).CreateTask), ctx, contactID, title, dueAt)
}

// UpdateTask mocks base method
func (m *MockCRMConnector) UpdateTask(ctx context.Context, taskID string, fields domain.JSONMap) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateTask", ctx, taskID, fields)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateTask indicates an expected call of UpdateTask
func (mr *MockCRMConnectorMockRecorder) UpdateTask(ctx, taskID, fields interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateTask", reflect.TypeOf((*MockCRMConnector)(nil).UpdateTask), ctx, taskID, fields)
}

// DeleteTask mocks base method
func (m *MockCRMConnector) DeleteTask(ctx context.Context, taskID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteTask", ctx, taskID)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteTask indicates an expected call of DeleteTask
func (mr *MockCRMConnectorMockRecorder) DeleteTask(ctx, taskID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteTask", reflect.TypeOf((*MockCRMConnector)(nil).DeleteTask), ctx, taskID)
}

// UpdateDeal mocks base method
func (m *MockCRMConnector) UpdateDeal(ctx context.Context, dealID string, fields domain.JSONMap) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateDeal", ctx, dealID, fields)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateDeal indicates an expected call of UpdateDeal
func (mr *MockCRMConnectorMockRecorder) UpdateDeal(ctx, dealID, fields interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateDeal", reflect.TypeOf((*MockCRMConnector)(nil).UpdateDeal), ctx, dealID, fields)
}

// MockCalendarConnector is a mock of CalendarConnector interface
type MockCalendarConnector struct {
	ctrl     *gomock.Controller
	recorder *MockCalendarConnectorMockRecorder
}

// MockCalendarConnectorMockRecorder is the mock recorder for MockCalendarConnector
type MockCalendarConnectorMockRecorder struct {
	mock *MockCalendarConnector
}

// NewMockCalendarConnector creates a new mock instance
func NewMockCalendarConnector(ctrl *gomock.Controller) *MockCalendarConnector {
	mock := &MockCalendarConnector{ctrl: ctrl}
	mock.recorder = &MockCalendarConnectorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockCalendarConnector) EXPECT() *MockCalendarConnectorMockRecorder {
	return m.recorder
}

// FreeBusy mocks base method
func (m *MockCalendarConnector) FreeBusy(ctx context.Context, rng domain.TimeRange, calendars []string) ([]domain.TimeRange, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FreeBusy", ctx, rng, calendars)
	ret0, _ := ret[0].([]domain.TimeRange)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FreeBusy indicates an expected call of FreeBusy
func (mr *MockCalendarConnectorMockRecorder) FreeBusy(ctx, rng, calendars interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FreeBusy", reflect.TypeOf((*MockCalendarConnector)(nil).FreeBusy), ctx, rng, calendars)
}

// ProposeSlots mocks base method
func (m *MockCalendarConnector) ProposeSlots(ctx context.Context, req domain.SlotRequest) ([]domain.TimeRange, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ProposeSlots", ctx, req)
	ret0, _ := ret[0].([]domain.TimeRange)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ProposeSlots indicates an expected call of ProposeSlots
func (mr *MockCalendarConnectorMockRecorder) ProposeSlots(ctx, req interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProposeSlots", reflect.TypeOf((*MockCalendarConnector)(nil).ProposeSlots), ctx, req)
}

// CreateEvent mocks base method
func (m *MockCalendarConnector) CreateEvent(ctx context.Context, event domain.CalendarEvent) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateEvent", ctx, event)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateEvent indicates an expected call of CreateEvent
func (mr *MockCalendarConnectorMockRecorder) CreateEvent(ctx, event interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateEvent", reflect.TypeOf((*MockCalendarConnector)(nil).CreateEvent), ctx, event)
}

// MockAssetConnector is a mock of AssetConnector interface
type MockAssetConnector struct {
	ctrl     *gomock.Controller
	recorder *MockAssetConnectorMockRecorder
}

// MockAssetConnectorMockRecorder is the mock recorder for MockAssetConnector
type MockAssetConnectorMockRecorder struct {
	mock *MockAssetConnector
}

// NewMockAssetConnector creates a new mock instance
func NewMockAssetConnector(ctrl *gomock.Controller) *MockAssetConnector {
	mock := &MockAssetConnector{ctrl: ctrl}
	mock.recorder = &MockAssetConnectorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockAssetConnector) EXPECT() *MockAssetConnectorMockRecorder {
	return m.recorder
}

// Search mocks base method
func (m *MockAssetConnector) Search(ctx context.Context, query string, allowlist []string) ([]domain.AssetRef, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Search", ctx, query, allowlist)
	ret0, _ := ret[0].([]domain.AssetRef)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Search indicates an expected call of Search
func (mr *MockAssetConnectorMockRecorder) Search(ctx, query, allowlist interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Search", reflect.TypeOf((*MockAssetConnector)(nil).Search), ctx, query, allowlist)
}

// MockLLMConnector is a mock of LLMConnector interface
type MockLLMConnector struct {
	ctrl     *gomock.Controller
	recorder *MockLLMConnectorMockRecorder
}

// MockLLMConnectorMockRecorder is the mock recorder for MockLLMConnector
type MockLLMConnectorMockRecorder struct {
	mock *MockLLMConnector
}

// NewMockLLMConnector creates a new mock instance
func NewMockLLMConnector(ctrl *gomock.Controller) *MockLLMConnector {
	mock := &MockLLMConnector{ctrl: ctrl}
	mock.recorder = &MockLLMConnectorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockLLMConnector) EXPECT() *MockLLMConnectorMockRecorder {
	return m.recorder
}

// Generate mocks base method
func (m *MockLLMConnector) Generate(ctx context.Context, prompt string, opts domain.LLMOptions) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Generate", ctx, prompt, opts)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Generate indicates an expected call of Generate
func (mr *MockLLMConnectorMockRecorder) Generate(ctx, prompt, opts interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Generate", reflect.TypeOf((*MockLLMConnector)(nil).Generate), ctx, prompt, opts)
}

// Summarize mocks base method
func (m *MockLLMConnector) Summarize(ctx context.Context, text string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Summarize", ctx, text)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Summarize indicates an expected call of Summarize
func (mr *MockLLMConnectorMockRecorder) Summarize(ctx, text interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Summarize", reflect.TypeOf((*MockLLMConnector)(nil).Summarize), ctx, text)
}
