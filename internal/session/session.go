// Package session groups the interactive state shared by the use cases of a
// running app: the authentication gates, the login machine and the send states.
package session

import (
	"fmt"

	"github.com/slok/sendtovrc/internal/gate"
	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/login"
	"github.com/slok/sendtovrc/internal/sendstate"
)

// Config is the configuration of a session.
type Config struct {
	Authenticator login.Authenticator
	Refresher     login.CredentialsRefresher
	Logger        log.Logger
}

func (c *Config) defaults() error {
	if c.Authenticator == nil {
		return fmt.Errorf("authenticator is required")
	}
	if c.Refresher == nil {
		return fmt.Errorf("credentials refresher is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Session is created once per app run.
type Session struct {
	// RegisterGate is opened when the uploader needs an API key, the user must
	// accept the uploader terms.
	RegisterGate *gate.Gate[struct{}]
	// LoginGate is opened when VRChat needs a session. Every new request starts
	// the login machine from scratch.
	LoginGate *gate.Gate[struct{}]
	Login     *login.Machine
	States    *sendstate.Store

	unbind func()
}

// New returns a new session.
func New(cfg Config) (*Session, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	machine, err := login.NewMachine(login.MachineConfig{
		Authenticator: cfg.Authenticator,
		Refresher:     cfg.Refresher,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create login machine: %w", err)
	}

	loginGate := gate.New[struct{}](gate.Config{
		Name:      "login",
		OnCreated: machine.Reset,
		Logger:    cfg.Logger,
	})

	return &Session{
		RegisterGate: gate.New[struct{}](gate.Config{Name: "register", Logger: cfg.Logger}),
		LoginGate:    loginGate,
		Login:        machine,
		States:       sendstate.NewStore(sendstate.StoreConfig{Logger: cfg.Logger}),
		unbind:       login.BindGate(machine, loginGate),
	}, nil
}

// Close detaches the login machine from the login gate.
func (s *Session) Close() {
	s.unbind()
}
