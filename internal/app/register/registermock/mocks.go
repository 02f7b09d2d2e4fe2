// Package registermock has testify mocks of the register interfaces.
package registermock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/slok/sendtovrc/internal/model"
)

// MockRegistrar is a mock implementation of register.Registrar.
type MockRegistrar struct {
	mock.Mock
}

// TermsOfService provides a mock function with given fields: ctx, baseURL
func (_m *MockRegistrar) TermsOfService(ctx context.Context, baseURL string) (*model.TermsOfService, error) {
	ret := _m.Called(ctx, baseURL)

	var r0 *model.TermsOfService
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.TermsOfService); ok {
		r0 = rf(ctx, baseURL)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.TermsOfService)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, baseURL)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RegisterAnonymously provides a mock function with given fields: ctx, baseURL, tosVersion
func (_m *MockRegistrar) RegisterAnonymously(ctx context.Context, baseURL string, tosVersion int) (string, error) {
	ret := _m.Called(ctx, baseURL, tosVersion)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, int) string); ok {
		r0 = rf(ctx, baseURL, tosVersion)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, baseURL, tosVersion)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockCredentialsStore is a mock implementation of register.CredentialsStore.
type MockCredentialsStore struct {
	mock.Mock
}

// UploaderBaseURL provides a mock function with given fields: ctx
func (_m *MockCredentialsStore) UploaderBaseURL(ctx context.Context) (string, error) {
	ret := _m.Called(ctx)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context) string); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SetUploaderAPIKey provides a mock function with given fields: ctx, key
func (_m *MockCredentialsStore) SetUploaderAPIKey(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, key)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Refresh provides a mock function with given fields: ctx
func (_m *MockCredentialsStore) Refresh(ctx context.Context) error {
	ret := _m.Called(ctx)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
