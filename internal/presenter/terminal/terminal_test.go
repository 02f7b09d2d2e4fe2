package terminal_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/gate"
	"github.com/slok/sendtovrc/internal/login/loginmock"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/presenter/terminal"
	"github.com/slok/sendtovrc/internal/session"
)

type fakeRegistrar struct {
	tos        *model.TermsOfService
	tosErr     error
	acceptErrs []error
	gate       *gate.Gate[struct{}]

	mu       sync.Mutex
	accepted []int
}

func (f *fakeRegistrar) TermsOfService(context.Context) (*model.TermsOfService, error) {
	return f.tos, f.tosErr
}

func (f *fakeRegistrar) Accept(_ context.Context, v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accepted = append(f.accepted, v)
	if len(f.acceptErrs) > 0 {
		err := f.acceptErrs[0]
		f.acceptErrs = f.acceptErrs[1:]
		if err != nil {
			return err
		}
	}
	f.gate.Resolve(struct{}{})
	return nil
}

func (f *fakeRegistrar) Decline() {
	f.gate.Reject(model.ErrCancelled)
}

func secrets(values ...string) func() (string, error) {
	var mu sync.Mutex
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return "", errors.New("no more secrets")
		}
		v := values[0]
		values = values[1:]
		return v, nil
	}
}

func TestPresenterRegister(t *testing.T) {
	tests := map[string]struct {
		in          string
		tosErr      error
		acceptErrs  []error
		expErr      error
		expAccepted []int
		expOut      string
	}{
		"Accepting the terms should register.": {
			in:          "y\n",
			expAccepted: []int{3},
			expOut:      "Be nice.",
		},

		"Declining the terms should cancel.": {
			in:     "n\n",
			expErr: model.ErrCancelled,
		},

		"An invalid answer should ask again.": {
			in:          "maybe\nyes\n",
			expAccepted: []int{3},
			expOut:      "Please answer y or n.",
		},

		"A failed registration should allow retrying.": {
			in:          "y\ny\n",
			acceptErrs:  []error{errors.New("status 500")},
			expAccepted: []int{3, 3},
			expOut:      "Registration failed: status 500",
		},

		"A failed registration should allow declining.": {
			in:          "y\nn\n",
			acceptErrs:  []error{errors.New("status 500")},
			expAccepted: []int{3},
			expErr:      model.ErrCancelled,
		},

		"Terms that can't be fetched should cancel.": {
			in:     "y\n",
			tosErr: errors.New("connection refused"),
			expErr: model.ErrCancelled,
			expOut: "connection refused",
		},

		"Closed input should cancel.": {
			in:     "",
			expErr: model.ErrCancelled,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			g := gate.New[struct{}](gate.Config{Name: "register"})
			reg := &fakeRegistrar{
				tos:        &model.TermsOfService{Version: 3, Content: "Be nice."},
				tosErr:     test.tosErr,
				acceptErrs: test.acceptErrs,
				gate:       g,
			}

			var out bytes.Buffer
			p, err := terminal.NewPresenter(terminal.PresenterConfig{
				In:           strings.NewReader(test.in),
				Out:          &out,
				NoColor:      true,
				Register:     reg,
				RegisterGate: g,
			})
			require.NoError(err)

			done := make(chan struct{})
			go func() {
				_ = p.Run(ctx)
				close(done)
			}()

			_, err = g.Await(ctx)
			cancel()
			<-done

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}
			assert.Equal(test.expAccepted, reg.accepted)
			assert.Contains(out.String(), test.expOut)
		})
	}
}

func TestPresenterLogin(t *testing.T) {
	tests := map[string]struct {
		in      string
		secrets []string
		mock    func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher)
		expErr  error
	}{
		"A login without second factor should resolve the gate.": {
			in:      "alice\n",
			secrets: []string{"pw"},
			mock: func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {
				a.On("Login", mock.Anything, "alice", "pw").Once().Return(model.TwoFactorNone, nil)
				r.On("Refresh", mock.Anything).Once().Return(nil)
			},
		},

		"A failed login should ask again keeping the username.": {
			in:      "alice\n\n",
			secrets: []string{"bad", "good"},
			mock: func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {
				a.On("Login", mock.Anything, "alice", "bad").Once().Return(model.TwoFactorNone, errors.New("invalid credentials"))
				a.On("Login", mock.Anything, "alice", "good").Once().Return(model.TwoFactorNone, nil)
				r.On("Refresh", mock.Anything).Once().Return(nil)
			},
		},

		"A login with a second factor should ask the code.": {
			in:      "alice\n123456\n",
			secrets: []string{"pw"},
			mock: func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {
				a.On("Login", mock.Anything, "alice", "pw").Once().Return(model.TwoFactorTOTP, nil)
				a.On("VerifyOTP", mock.Anything, model.TwoFactorTOTP, "123456").Once().Return(nil)
				r.On("Refresh", mock.Anything).Once().Return(nil)
			},
		},

		"A wrong code should ask the code again.": {
			in:      "alice\n000000\n123456\n",
			secrets: []string{"pw"},
			mock: func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {
				a.On("Login", mock.Anything, "alice", "pw").Once().Return(model.TwoFactorEmailOTP, nil)
				a.On("VerifyOTP", mock.Anything, model.TwoFactorEmailOTP, "000000").Once().Return(errors.New("invalid code"))
				a.On("VerifyOTP", mock.Anything, model.TwoFactorEmailOTP, "123456").Once().Return(nil)
				r.On("Refresh", mock.Anything).Once().Return(nil)
			},
		},

		"Going back from the code should ask the credentials again.": {
			in:      "alice\nb\n\n654321\n",
			secrets: []string{"pw", "pw"},
			mock: func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {
				a.On("Login", mock.Anything, "alice", "pw").Twice().Return(model.TwoFactorTOTP, nil)
				a.On("VerifyOTP", mock.Anything, model.TwoFactorTOTP, "654321").Once().Return(nil)
				r.On("Refresh", mock.Anything).Once().Return(nil)
			},
		},

		"Cancelling on the code should reject the gate.": {
			in:      "alice\nc\n",
			secrets: []string{"pw"},
			mock: func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {
				a.On("Login", mock.Anything, "alice", "pw").Once().Return(model.TwoFactorTOTP, nil)
			},
			expErr: model.ErrCancelled,
		},

		"An empty username should reject the gate.": {
			in:     "\n",
			mock:   func(a *loginmock.MockAuthenticator, r *loginmock.MockCredentialsRefresher) {},
			expErr: model.ErrCancelled,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			auth := &loginmock.MockAuthenticator{}
			refresher := &loginmock.MockCredentialsRefresher{}
			test.mock(auth, refresher)

			sess, err := session.New(session.Config{Authenticator: auth, Refresher: refresher})
			require.NoError(err)
			defer sess.Close()

			var out bytes.Buffer
			p, err := terminal.NewPresenter(terminal.PresenterConfig{
				In:         strings.NewReader(test.in),
				Out:        &out,
				ReadSecret: secrets(test.secrets...),
				NoColor:    true,
				Login:      sess.Login,
				LoginGate:  sess.LoginGate,
			})
			require.NoError(err)

			done := make(chan struct{})
			go func() {
				_ = p.Run(ctx)
				close(done)
			}()

			_, err = sess.LoginGate.Await(ctx)
			cancel()
			<-done

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else {
				assert.NoError(err)
			}
			auth.AssertExpectations(t)
			refresher.AssertExpectations(t)
		})
	}
}

func TestNewPresenterInvalidConfig(t *testing.T) {
	g := gate.New[struct{}](gate.Config{})

	_, err := terminal.NewPresenter(terminal.PresenterConfig{RegisterGate: g})
	assert.Error(t, err)

	_, err = terminal.NewPresenter(terminal.PresenterConfig{LoginGate: g})
	assert.Error(t, err)
}
