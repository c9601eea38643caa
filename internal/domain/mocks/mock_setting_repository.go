package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/caseyos/caseyos/internal/domain"
)

// MockSettingRepository is a mock of SettingRepository interface
type MockSettingRepository struct {
	ctrl     *gomock.Controller
	recorder *MockSettingRepositoryMockRecorder
}

// MockSettingRepositoryMockRecorder is the mock recorder for MockSettingRepository
type MockSettingRepositoryMockRecorder struct {
	mock *MockSettingRepository
}

// NewMockSettingRepository creates a new mock instance
func NewMockSettingRepository(ctrl *gomock.Controller) *MockSettingRepository {
	mock := &MockSettingRepository{ctrl: ctrl}
	mock.recorder = &MockSettingRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use
func (m *MockSettingRepository) EXPECT() *MockSettingRepositoryMockRecorder {
	return m.recorder
}

// Get mocks base method
func (m *MockSettingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, key)
	ret0, _ := ret[0].(*domain.Setting)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get
func (mr *MockSettingRepositoryMockRecorder) Get(ctx, key interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockSettingRepository)(nil).Get), ctx, key)
}

// Set mocks base method
func (m *MockSettingRepository) Set(ctx context.Context, key string, value domain.JSONMap) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Set", ctx, key, value)
	ret0, _ := ret[0].(error)
	return ret0
}

// Set indicates an expected call of Set
func (mr *MockSettingRepositoryMockRecorder) Set(ctx, key, value interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Set", reflect.TypeOf((*MockSettingRepository)(nil).Set), ctx, key, value)
}

// GetBool mocks base method
func (m *MockSettingRepository) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBool", ctx, key, fallback)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBool indicates an expected call of GetBool
func (mr *MockSettingRepositoryMockRecorder) GetBool(ctx, key, fallback interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBool", reflect.TypeOf((*MockSettingRepository)(nil).GetBool), ctx, key, fallback)
}

// SetBool mocks base method
func (m *MockSettingRepository) SetBool(ctx context.Context, key string, enabled bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetBool", ctx, key, enabled)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetBool indicates an expected call of SetBool
func (mr *MockSettingRepositoryMockRecorder) SetBool(ctx, key, enabled interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetBool", reflect.TypeOf((*MockSettingRepository)(nil).SetBool), ctx, key, enabled)
}

// GetStrings mocks base method
func (m *MockSettingRepository) GetStrings(ctx context.Context, key string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStrings", ctx, key)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetStrings indicates an expected call of GetStrings
func (mr *MockSettingRepositoryMockRecorder) GetStrings(ctx, key interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStrings", reflect.TypeOf((*MockSettingRepository)(nil).GetStrings), ctx, key)
}
