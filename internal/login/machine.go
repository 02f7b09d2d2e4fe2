package login

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/sendtovrc/internal/gate"
	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// Authenticator knows how to log in to the remote session service.
type Authenticator interface {
	// Login returns the kind of second factor required, model.TwoFactorNone when
	// the login is already complete.
	Login(ctx context.Context, username, password string) (model.TwoFactorKind, error)
	VerifyOTP(ctx context.Context, kind model.TwoFactorKind, code string) error
}

// CredentialsRefresher drops any cached credentials so they are read again.
type CredentialsRefresher interface {
	Refresh(ctx context.Context) error
}

// MachineConfig is the configuration of the login machine.
type MachineConfig struct {
	Authenticator Authenticator
	Refresher     CredentialsRefresher
	Logger        log.Logger
}

func (c *MachineConfig) defaults() error {
	if c.Authenticator == nil {
		return fmt.Errorf("authenticator is required")
	}

	if c.Refresher == nil {
		return fmt.Errorf("credentials refresher is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "login.Machine"})

	return nil
}

// Machine drives the login reducer. Actions are applied in order by a single
// loop: the state is updated first and then the effect of the transition (if
// any) is run, the actions the effect produces are queued after the pending ones.
type Machine struct {
	auth      Authenticator
	refresher CredentialsRefresher
	logger    log.Logger

	mu      sync.Mutex
	state   State
	history []Action
	subs    map[int]func(State)
	nextSub int
}

// NewMachine returns a new login machine on the initial state.
func NewMachine(cfg MachineConfig) (*Machine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Machine{
		auth:      cfg.Authenticator,
		refresher: cfg.Refresher,
		logger:    cfg.Logger,
		state:     InitialState(),
		subs:      map[int]func(State){},
	}, nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// History returns the actions applied since the last reset, including the ones
// dispatched by effects.
func (m *Machine) History() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Action(nil), m.history...)
}

// Reset moves the machine back to the initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.state = InitialState()
	m.history = nil
	m.mu.Unlock()

	m.logger.Debugf("Login state reset")
	m.notify(InitialState())
}

// Dispatch applies a and every action dispatched by the effects it triggers. It
// blocks while effects run, other goroutines can still dispatch meanwhile (e.g a
// cancel while logging in) and their actions are applied immediately.
func (m *Machine) Dispatch(ctx context.Context, a Action) {
	queue := []Action{a}
	for len(queue) > 0 {
		a, queue = queue[0], queue[1:]

		eff := m.apply(a)
		if eff == nil {
			continue
		}
		queue = append(queue, m.run(ctx, eff)...)
	}
}

// Subscribe registers fn to be called on every state change.
func (m *Machine) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Machine) apply(a Action) Effect {
	m.mu.Lock()
	prev := m.state
	next, eff := Reduce(prev, a)
	m.state = next
	m.history = append(m.history, a)
	m.mu.Unlock()

	if next != prev {
		m.logger.Debugf("Login step %s -> %s (%T)", prev.Step, next.Step, a)
		m.notify(next)
	}

	return eff
}

func (m *Machine) run(ctx context.Context, eff Effect) []Action {
	switch eff := eff.(type) {
	case LoginEffect:
		kind, err := m.auth.Login(ctx, eff.Username, eff.Password)
		if err != nil {
			m.logger.Warningf("Login failed: %s", err)
			return []Action{LoginFailed{Reason: err.Error()}}
		}
		if kind != model.TwoFactorNone {
			m.logger.Infof("Login requires %s second factor", kind)
			return []Action{OTPRequired{Kind: kind}}
		}
		return []Action{LoginSucceeded{}}

	case VerifyOTPEffect:
		if err := m.auth.VerifyOTP(ctx, eff.Kind, eff.Code); err != nil {
			m.logger.Warningf("OTP verification failed: %s", err)
			return []Action{OTPFailed{Reason: err.Error()}}
		}
		return []Action{LoginSucceeded{}}

	case RefreshCredentialsEffect:
		if err := m.refresher.Refresh(ctx); err != nil {
			m.logger.Errorf("Could not refresh credentials: %s", err)
		}
		return nil
	}

	m.logger.Errorf("Unknown login effect %T", eff)
	return nil
}

func (m *Machine) notify(s State) {
	m.mu.Lock()
	subs := make([]func(State), 0, len(m.subs))
	for i := 0; i < m.nextSub; i++ {
		if fn, ok := m.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// BindGate settles g with the outcome of the login attempts driven by m: finish
// resolves it and cancelled rejects it with model.ErrCancelled.
func BindGate(m *Machine, g *gate.Gate[struct{}]) (unbind func()) {
	return m.Subscribe(func(s State) {
		switch s.Step {
		case StepFinish:
			g.Resolve(struct{}{})
		case StepCancelled:
			g.Reject(fmt.Errorf("login cancelled: %w", model.ErrCancelled))
		}
	})
}
