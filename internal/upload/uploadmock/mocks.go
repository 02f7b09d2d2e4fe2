// Package uploadmock has testify mocks of the upload interfaces.
package uploadmock

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/slok/sendtovrc/internal/model"
)

// MockUploader is a mock implementation of upload.Uploader.
type MockUploader struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, filePath, creds
func (_m *MockUploader) Upload(ctx context.Context, filePath string, creds model.Credentials) (string, error) {
	ret := _m.Called(ctx, filePath, creds)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string, model.Credentials) string); ok {
		r0 = rf(ctx, filePath, creds)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, model.Credentials) error); ok {
		r1 = rf(ctx, filePath, creds)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockCredentialsReader is a mock implementation of upload.CredentialsReader.
type MockCredentialsReader struct {
	mock.Mock
}

// Credentials provides a mock function with given fields: ctx, d
func (_m *MockCredentialsReader) Credentials(ctx context.Context, d model.Destination) (*model.Credentials, error) {
	ret := _m.Called(ctx, d)

	var r0 *model.Credentials
	if rf, ok := ret.Get(0).(func(context.Context, model.Destination) *model.Credentials); ok {
		r0 = rf(ctx, d)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Credentials)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, model.Destination) error); ok {
		r1 = rf(ctx, d)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockPreparer is a mock implementation of upload.Preparer.
type MockPreparer struct {
	mock.Mock
}

// Prepare provides a mock function with given fields: ctx, filePath
func (_m *MockPreparer) Prepare(ctx context.Context, filePath string) (string, func(), error) {
	ret := _m.Called(ctx, filePath)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, filePath)
	} else {
		r0 = ret.Get(0).(string)
	}

	var r1 func()
	if rf, ok := ret.Get(1).(func()); ok {
		r1 = rf
	}

	var r2 error
	if rf, ok := ret.Get(2).(func(context.Context, string) error); ok {
		r2 = rf(ctx, filePath)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// MockGate is a mock implementation of upload.Gate.
type MockGate struct {
	mock.Mock
}

// Await provides a mock function with given fields: ctx
func (_m *MockGate) Await(ctx context.Context) (struct{}, error) {
	ret := _m.Called(ctx)

	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(0)
	}

	return struct{}{}, r1
}

// MockClipboard is a mock implementation of upload.Clipboard.
type MockClipboard struct {
	mock.Mock
}

// WriteText provides a mock function with given fields: text
func (_m *MockClipboard) WriteText(text string) error {
	ret := _m.Called(text)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(text)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockSettings is a mock implementation of upload.Settings.
type MockSettings struct {
	mock.Mock
}

// ShouldCopyAfterUpload provides a mock function with given fields: ctx
func (_m *MockSettings) ShouldCopyAfterUpload(ctx context.Context) (bool, error) {
	ret := _m.Called(ctx)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context) bool); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(bool)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
