// Package loginmock has testify mocks of the login interfaces.
package loginmock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/slok/sendtovrc/internal/model"
)

// MockAuthenticator is a mock implementation of login.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

// Login provides a mock function with given fields: ctx, username, password
func (_m *MockAuthenticator) Login(ctx context.Context, username string, password string) (model.TwoFactorKind, error) {
	ret := _m.Called(ctx, username, password)

	var r0 model.TwoFactorKind
	if rf, ok := ret.Get(0).(func(context.Context, string, string) model.TwoFactorKind); ok {
		r0 = rf(ctx, username, password)
	} else {
		r0 = ret.Get(0).(model.TwoFactorKind)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, username, password)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// VerifyOTP provides a mock function with given fields: ctx, kind, code
func (_m *MockAuthenticator) VerifyOTP(ctx context.Context, kind model.TwoFactorKind, code string) error {
	ret := _m.Called(ctx, kind, code)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.TwoFactorKind, string) error); ok {
		r0 = rf(ctx, kind, code)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockCredentialsRefresher is a mock implementation of login.CredentialsRefresher.
type MockCredentialsRefresher struct {
	mock.Mock
}

// Refresh provides a mock function with given fields: ctx
func (_m *MockCredentialsRefresher) Refresh(ctx context.Context) error {
	ret := _m.Called(ctx)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
