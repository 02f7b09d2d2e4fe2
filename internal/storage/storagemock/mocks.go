// Package storagemock has testify mocks of the storage interfaces.
package storagemock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/slok/sendtovrc/internal/model"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

// GetSetting provides a mock function with given fields: ctx, key
func (_m *MockRepository) GetSetting(ctx context.Context, key string) (string, error) {
	ret := _m.Called(ctx, key)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, key)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, key)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SetSetting provides a mock function with given fields: ctx, key, value
func (_m *MockRepository) SetSetting(ctx context.Context, key string, value string) error {
	ret := _m.Called(ctx, key, value)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		r0 = rf(ctx, key, value)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// DeleteSetting provides a mock function with given fields: ctx, key
func (_m *MockRepository) DeleteSetting(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, key)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListSettings provides a mock function with given fields: ctx
func (_m *MockRepository) ListSettings(ctx context.Context) (map[string]string, error) {
	ret := _m.Called(ctx)

	var r0 map[string]string
	if rf, ok := ret.Get(0).(func(context.Context) map[string]string); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CreateSend provides a mock function with given fields: ctx, s
func (_m *MockRepository) CreateSend(ctx context.Context, s model.Send) error {
	ret := _m.Called(ctx, s)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Send) error); ok {
		r0 = rf(ctx, s)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ListSends provides a mock function with given fields: ctx, limit
func (_m *MockRepository) ListSends(ctx context.Context, limit int) ([]model.Send, error) {
	ret := _m.Called(ctx, limit)

	var r0 []model.Send
	if rf, ok := ret.Get(0).(func(context.Context, int) []model.Send); ok {
		r0 = rf(ctx, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Send)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
