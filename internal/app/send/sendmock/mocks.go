// Package sendmock has testify mocks of the send interfaces.
package sendmock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	imagecheck "github.com/slok/sendtovrc/internal/imagecheck"
	model "github.com/slok/sendtovrc/internal/model"
)

// MockSubmitter is a mock implementation of send.Submitter.
type MockSubmitter struct {
	mock.Mock
}

// Destination provides a mock function with given fields:
func (_m *MockSubmitter) Destination() model.Destination {
	ret := _m.Called()

	var r0 model.Destination
	if rf, ok := ret.Get(0).(func() model.Destination); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(model.Destination)
	}

	return r0
}

// Submit provides a mock function with given fields: ctx, filePath
func (_m *MockSubmitter) Submit(ctx context.Context, filePath string) model.SendState {
	ret := _m.Called(ctx, filePath)

	var r0 model.SendState
	if rf, ok := ret.Get(0).(func(context.Context, string) model.SendState); ok {
		r0 = rf(ctx, filePath)
	} else {
		r0 = ret.Get(0).(model.SendState)
	}

	return r0
}

// MockImageChecker is a mock implementation of send.ImageChecker.
type MockImageChecker struct {
	mock.Mock
}

// Check provides a mock function with given fields: ctx, path
func (_m *MockImageChecker) Check(ctx context.Context, path string) (imagecheck.Validity, *imagecheck.Image) {
	ret := _m.Called(ctx, path)

	var r0 imagecheck.Validity
	if rf, ok := ret.Get(0).(func(context.Context, string) imagecheck.Validity); ok {
		r0 = rf(ctx, path)
	} else {
		r0 = ret.Get(0).(imagecheck.Validity)
	}

	var r1 *imagecheck.Image
	if rf, ok := ret.Get(1).(func(context.Context, string) *imagecheck.Image); ok {
		r1 = rf(ctx, path)
	} else if ret.Get(1) != nil {
		r1 = ret.Get(1).(*imagecheck.Image)
	}

	return r0, r1
}
