package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/login"
	"github.com/slok/sendtovrc/internal/login/loginmock"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/session"
)

func TestSessionLoginGateResolvesOnLogin(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	ma := &loginmock.MockAuthenticator{}
	ma.On("Login", mock.Anything, "alice", "pass").Once().Return(model.TwoFactorNone, nil)
	mr := &loginmock.MockCredentialsRefresher{}
	mr.On("Refresh", mock.Anything).Once().Return(nil)

	s, err := session.New(session.Config{Authenticator: ma, Refresher: mr})
	require.NoError(err)
	defer s.Close()

	// A previous attempt left the machine cancelled.
	s.Login.Dispatch(context.TODO(), login.Cancel{})
	require.Equal(login.StepCancelled, s.Login.State().Step)

	opened := make(chan struct{}, 1)
	s.LoginGate.Subscribe(func(exists bool) {
		if exists {
			opened <- struct{}{}
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.LoginGate.Await(context.TODO())
		done <- err
	}()

	select {
	case <-opened:
	case <-time.After(time.Second):
		t.Fatal("login gate was not opened")
	}

	// Opening the gate resets the machine.
	assert.Equal(login.InitialState(), s.Login.State())

	s.Login.Dispatch(context.TODO(), login.SetUsername{Username: "alice"})
	s.Login.Dispatch(context.TODO(), login.SetPassword{Password: "pass"})
	s.Login.Dispatch(context.TODO(), login.Submit{})

	select {
	case err := <-done:
		assert.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("login gate was not resolved")
	}
	assert.False(s.LoginGate.Exists())

	ma.AssertExpectations(t)
	mr.AssertExpectations(t)
}

func TestSessionLoginGateRejectsOnCancel(t *testing.T) {
	s, err := session.New(session.Config{
		Authenticator: &loginmock.MockAuthenticator{},
		Refresher:     &loginmock.MockCredentialsRefresher{},
	})
	require.NoError(t, err)
	defer s.Close()

	var gotErr error
	s.LoginGate.Request(func(struct{}) {}, func(err error) { gotErr = err })
	s.Login.Dispatch(context.TODO(), login.Cancel{})

	assert.ErrorIs(t, gotErr, model.ErrCancelled)
	assert.Contains(t, gotErr.Error(), "cancelled")
}

func TestSessionInvalidConfig(t *testing.T) {
	_, err := session.New(session.Config{})
	assert.Error(t, err)
}
