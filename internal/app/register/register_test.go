package register_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/app/register"
	"github.com/slok/sendtovrc/internal/app/register/registermock"
	"github.com/slok/sendtovrc/internal/gate"
	"github.com/slok/sendtovrc/internal/model"
)

type outcome struct {
	resolved bool
	err      error
}

func TestServiceAccept(t *testing.T) {
	tests := map[string]struct {
		mock       func(mr *registermock.MockRegistrar, mc *registermock.MockCredentialsStore)
		expErr     bool
		expOutcome outcome
	}{
		"Accepting should register, store the key and resume the waiting operation.": {
			mock: func(mr *registermock.MockRegistrar, mc *registermock.MockCredentialsStore) {
				mc.On("UploaderBaseURL", mock.Anything).Once().Return("https://upload.test", nil)
				mr.On("RegisterAnonymously", mock.Anything, "https://upload.test", 2).Once().Return("tok-1", nil)
				mc.On("SetUploaderAPIKey", mock.Anything, "tok-1").Once().Return(nil)
				mc.On("Refresh", mock.Anything).Once().Return(nil)
			},
			expOutcome: outcome{resolved: true},
		},

		"A registration failure should keep the operation waiting.": {
			mock: func(mr *registermock.MockRegistrar, mc *registermock.MockCredentialsStore) {
				mc.On("UploaderBaseURL", mock.Anything).Once().Return("https://upload.test", nil)
				mr.On("RegisterAnonymously", mock.Anything, "https://upload.test", 2).Once().Return("", fmt.Errorf("status 503"))
			},
			expErr: true,
		},

		"A key store failure should keep the operation waiting.": {
			mock: func(mr *registermock.MockRegistrar, mc *registermock.MockCredentialsStore) {
				mc.On("UploaderBaseURL", mock.Anything).Once().Return("https://upload.test", nil)
				mr.On("RegisterAnonymously", mock.Anything, "https://upload.test", 2).Once().Return("tok-1", nil)
				mc.On("SetUploaderAPIKey", mock.Anything, "tok-1").Once().Return(fmt.Errorf("read only"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mr := &registermock.MockRegistrar{}
			mc := &registermock.MockCredentialsStore{}
			test.mock(mr, mc)

			g := gate.New[struct{}](gate.Config{Name: "register"})
			var got outcome
			g.Request(func(struct{}) { got.resolved = true }, func(err error) { got.err = err })

			svc, err := register.NewService(register.ServiceConfig{Registrar: mr, Credentials: mc, Gate: g})
			require.NoError(err)

			err = svc.Accept(context.TODO(), 2)

			if test.expErr {
				assert.Error(err)
				assert.True(g.Exists())
			} else {
				assert.NoError(err)
				assert.False(g.Exists())
			}
			assert.Equal(test.expOutcome, got)

			mr.AssertExpectations(t)
			mc.AssertExpectations(t)
		})
	}
}

func TestServiceDecline(t *testing.T) {
	g := gate.New[struct{}](gate.Config{Name: "register"})
	var gotErr error
	g.Request(func(struct{}) {}, func(err error) { gotErr = err })

	svc, err := register.NewService(register.ServiceConfig{
		Registrar:   &registermock.MockRegistrar{},
		Credentials: &registermock.MockCredentialsStore{},
		Gate:        g,
	})
	require.NoError(t, err)

	svc.Decline()

	assert.ErrorIs(t, gotErr, model.ErrCancelled)
	assert.Contains(t, gotErr.Error(), "terms declined")
	assert.False(t, g.Exists())
}

func TestServiceTermsOfService(t *testing.T) {
	mr := &registermock.MockRegistrar{}
	mc := &registermock.MockCredentialsStore{}
	mc.On("UploaderBaseURL", mock.Anything).Once().Return("https://upload.test", nil)
	mr.On("TermsOfService", mock.Anything, "https://upload.test").Once().Return(&model.TermsOfService{Version: 2, Content: "Be nice."}, nil)

	svc, err := register.NewService(register.ServiceConfig{
		Registrar:   mr,
		Credentials: mc,
		Gate:        gate.New[struct{}](gate.Config{}),
	})
	require.NoError(t, err)

	tos, err := svc.TermsOfService(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, &model.TermsOfService{Version: 2, Content: "Be nice."}, tos)
}

func TestNewServiceInvalidConfig(t *testing.T) {
	_, err := register.NewService(register.ServiceConfig{})
	assert.Error(t, err)
}
