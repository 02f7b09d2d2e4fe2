// Package whoamimock has testify mocks of the whoami interfaces.
package whoamimock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MockUserGetter is a mock implementation of whoami.UserGetter.
type MockUserGetter struct {
	mock.Mock
}

// CurrentUserName provides a mock function with given fields: ctx
func (_m *MockUserGetter) CurrentUserName(ctx context.Context) (string, error) {
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
