// Package logoutmock has testify mocks of the logout interfaces.
package logoutmock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MockSessionCloser is a mock implementation of logout.SessionCloser.
type MockSessionCloser struct {
	mock.Mock
}

// Logout provides a mock function with given fields: ctx
func (_m *MockSessionCloser) Logout(ctx context.Context) error {
	ret := _m.Called(ctx)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
