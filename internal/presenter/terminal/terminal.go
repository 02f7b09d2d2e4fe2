// Package terminal presents the interactive flows the gates ask for on a
// text terminal.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/login"
	"github.com/slok/sendtovrc/internal/model"
)

// Registrar runs the uploader consent flow.
type Registrar interface {
	TermsOfService(ctx context.Context) (*model.TermsOfService, error)
	Accept(ctx context.Context, tosVersion int) error
	Decline()
}

// LoginDriver is the login state machine.
type LoginDriver interface {
	State() login.State
	Dispatch(ctx context.Context, a login.Action)
}

// GateObserver tells when a gate has a pending request.
type GateObserver interface {
	Exists() bool
	Subscribe(fn func(exists bool)) (unsubscribe func())
}

// PresenterConfig is the configuration of the terminal presenter.
type PresenterConfig struct {
	In  io.Reader
	Out io.Writer
	// ReadSecret reads a line without echo, defaults to the terminal password
	// reader when In is a terminal and to a plain line read otherwise.
	ReadSecret func() (string, error)
	NoColor    bool

	// The register flow is disabled when RegisterGate is nil.
	Register     Registrar
	RegisterGate GateObserver
	// The login flow is disabled when LoginGate is nil.
	Login     LoginDriver
	LoginGate GateObserver

	Logger log.Logger
}

func (c *PresenterConfig) defaults() error {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stderr
	}
	if c.RegisterGate != nil && c.Register == nil {
		return fmt.Errorf("registrar is required with a register gate")
	}
	if c.LoginGate != nil && c.Login == nil {
		return fmt.Errorf("login driver is required with a login gate")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "terminal.Presenter"})

	return nil
}

type flow int

const (
	flowRegister flow = iota
	flowLogin
)

// Presenter prompts the user every time a gate opens and settles it with the
// answers. Flows are presented one at a time in the order the gates open.
type Presenter struct {
	in         *bufio.Reader
	rawIn      io.Reader
	out        io.Writer
	readSecret func() (string, error)
	noColor    bool

	register     Registrar
	registerGate GateObserver
	login        LoginDriver
	loginGate    GateObserver

	flows  chan flow
	logger log.Logger

	// pending is a read abandoned by a cancelled ask, the next ask takes its
	// line instead of starting another read on the same input.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewPresenter returns a new terminal presenter.
func NewPresenter(cfg PresenterConfig) (*Presenter, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Presenter{
		in:           bufio.NewReader(cfg.In),
		rawIn:        cfg.In,
		out:          cfg.Out,
		readSecret:   cfg.ReadSecret,
		noColor:      cfg.NoColor,
		register:     cfg.Register,
		registerGate: cfg.RegisterGate,
		login:        cfg.Login,
		loginGate:    cfg.LoginGate,
		flows:        make(chan flow, 8),
		logger:       cfg.Logger,
	}
	if p.readSecret == nil {
		p.readSecret = p.defaultReadSecret
	}

	return p, nil
}

// Run presents the flows until the context is done.
func (p *Presenter) Run(ctx context.Context) error {
	if p.registerGate != nil {
		defer p.watch(p.registerGate, flowRegister)()
	}
	if p.loginGate != nil {
		defer p.watch(p.loginGate, flowLogin)()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-p.flows:
			switch f {
			case flowRegister:
				if p.registerGate.Exists() {
					p.presentRegister(ctx)
				}
			case flowLogin:
				if p.loginGate.Exists() {
					p.presentLogin(ctx)
				}
			}
		}
	}
}

func (p *Presenter) watch(g GateObserver, f flow) (unsubscribe func()) {
	unsubscribe = g.Subscribe(func(exists bool) {
		if exists {
			p.enqueue(f)
		}
	})

	// Requests installed before subscribing.
	if g.Exists() {
		p.enqueue(f)
	}

	return unsubscribe
}

func (p *Presenter) enqueue(f flow) {
	select {
	case p.flows <- f:
	default:
		p.logger.Warningf("Flow queue full, request dropped")
	}
}

func (p *Presenter) presentRegister(ctx context.Context) {
	tos, err := p.register.TermsOfService(ctx)
	if err != nil {
		p.printf(color.FgRed, "Could not get the uploader terms of service: %s\n", err)
		p.register.Decline()
		return
	}

	separator := strings.Repeat("=", 72)
	p.printf(color.FgCyan, "\n%s\n", separator)
	p.printf(color.FgYellow, "Uploader terms of service (version %d)\n", tos.Version)
	p.printf(color.FgCyan, "%s\n", separator)
	fmt.Fprintln(p.out, tos.Content)
	p.printf(color.FgCyan, "%s\n", separator)

	for {
		ok, err := p.confirm(ctx, "Accept the terms and register anonymously?")
		if err != nil || !ok {
			p.register.Decline()
			return
		}

		err = p.register.Accept(ctx, tos.Version)
		if err == nil {
			p.printf(color.FgGreen, "Registered\n")
			return
		}

		p.printf(color.FgRed, "Registration failed: %s\n", err)
	}
}

func (p *Presenter) presentLogin(ctx context.Context) {
	p.printf(color.FgYellow, "\nVRChat login required\n")

	for {
		if ctx.Err() != nil {
			p.login.Dispatch(context.Background(), login.Cancel{})
			return
		}

		st := p.login.State()
		if !st.IsTerminal() && !p.loginGate.Exists() {
			return
		}

		switch st.Step {
		case login.StepIdle, login.StepError:
			if st.Step == login.StepError {
				p.printf(color.FgRed, "Login failed: %s\n", st.Message)
			}
			p.askCredentials(ctx, st)

		case login.StepOTP:
			if st.OTP.VerifyStatus == login.VerifyStatusError {
				p.printf(color.FgRed, "Code verification failed: %s\n", st.Message)
			}
			p.askCode(ctx, st)

		case login.StepFinish:
			p.printf(color.FgGreen, "Logged in\n")
			return

		default:
			return
		}
	}
}

func (p *Presenter) askCredentials(ctx context.Context, st login.State) {
	label := "Username (empty to cancel): "
	if st.Username != "" {
		label = fmt.Sprintf("Username [%s]: ", st.Username)
	}

	username, err := p.ask(ctx, label, false)
	if err != nil {
		p.login.Dispatch(ctx, login.Cancel{})
		return
	}
	if username == "" {
		username = st.Username
	}
	if username == "" {
		p.login.Dispatch(ctx, login.Cancel{})
		return
	}

	password, err := p.ask(ctx, "Password: ", true)
	if err != nil {
		p.login.Dispatch(ctx, login.Cancel{})
		return
	}

	p.login.Dispatch(ctx, login.SetUsername{Username: username})
	p.login.Dispatch(ctx, login.SetPassword{Password: password})
	p.login.Dispatch(ctx, login.Submit{})
}

func (p *Presenter) askCode(ctx context.Context, st login.State) {
	source := "authenticator app"
	if st.OTP.Kind == model.TwoFactorEmailOTP {
		source = "email"
	}

	code, err := p.ask(ctx, fmt.Sprintf("Code from your %s (b to go back, c to cancel): ", source), false)
	if err != nil {
		p.login.Dispatch(ctx, login.Cancel{})
		return
	}

	switch strings.ToLower(code) {
	case "c":
		p.login.Dispatch(ctx, login.Cancel{})
	case "b":
		p.login.Dispatch(ctx, login.OTPCancel{})
	default:
		p.login.Dispatch(ctx, login.SetOTPCode{Code: code})
		p.login.Dispatch(ctx, login.SubmitCode{})
	}
}

func (p *Presenter) confirm(ctx context.Context, question string) (bool, error) {
	for {
		answer, err := p.ask(ctx, question+" [y/n]: ", false)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.printf(color.FgRed, "Please answer y or n.\n")
	}
}

// ask prompts label and reads one line. Asks are not concurrent, they all
// happen in the presenter loop.
func (p *Presenter) ask(ctx context.Context, label string, secret bool) (string, error) {
	p.printf(color.FgCyan, "%s", label)

	resC := p.pending
	p.pending = nil
	if resC == nil {
		resC = make(chan readResult, 1)
		go func() {
			var r readResult
			if secret {
				r.line, r.err = p.readSecret()
				fmt.Fprintln(p.out)
			} else {
				r.line, r.err = p.readLine()
			}
			resC <- r
		}()
	}

	select {
	case <-ctx.Done():
		p.pending = resC
		return "", ctx.Err()
	case r := <-resC:
		if r.err != nil {
			return "", fmt.Errorf("could not read input: %w", r.err)
		}
		return r.line, nil
	}
}

func (p *Presenter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Presenter) defaultReadSecret() (string, error) {
	if f, ok := p.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	return p.readLine()
}

func (p *Presenter) printf(attr color.Attribute, format string, a ...any) {
	text := fmt.Sprintf(format, a...)
	if !p.noColor {
		text = color.New(attr).Sprint(text)
	}
	fmt.Fprint(p.out, text)
}
