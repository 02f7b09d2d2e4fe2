// Package login implements the multi-step VRChat login flow as a pure reducer
// plus a driver that runs the effects the reducer asks for.
package login

import "github.com/slok/sendtovrc/internal/model"

// Step is the active step of a login attempt.
type Step string

const (
	StepIdle      Step = "idle"
	StepError     Step = "error"
	StepLoading   Step = "loading"
	StepOTP       Step = "otp"
	StepFinish    Step = "finish"
	StepCancelled Step = "cancelled"
)

// VerifyStatus is the status of a one-time passcode verification.
type VerifyStatus string

const (
	VerifyStatusIdle    VerifyStatus = "idle"
	VerifyStatusLoading VerifyStatus = "loading"
	VerifyStatusError   VerifyStatus = "error"
)

// OTP is the one-time passcode form, only set on StepOTP.
type OTP struct {
	Kind         model.TwoFactorKind
	Code         string
	VerifyStatus VerifyStatus
}

// State is the login state. Username and Password are kept on idle, error,
// loading and otp steps. Message carries the last failure reason for display.
type State struct {
	Step     Step
	Username string
	Password string
	OTP      OTP
	Message  string
}

// InitialState is the state of a fresh login attempt.
func InitialState() State {
	return State{Step: StepIdle}
}

// IsTerminal returns true on finish and cancelled steps.
func (s State) IsTerminal() bool {
	return s.Step == StepFinish || s.Step == StepCancelled
}

// Action is one of the login actions.
type Action interface{ action() }

type (
	SetUsername    struct{ Username string }
	SetPassword    struct{ Password string }
	Submit         struct{}
	LoginSucceeded struct{}
	LoginFailed    struct{ Reason string }
	OTPRequired    struct{ Kind model.TwoFactorKind }
	SetOTPCode     struct{ Code string }
	SubmitCode     struct{}
	OTPCancel      struct{}
	OTPFailed      struct{ Reason string }
	Cancel         struct{}
)

func (SetUsername) action()    {}
func (SetPassword) action()    {}
func (Submit) action()         {}
func (LoginSucceeded) action() {}
func (LoginFailed) action()    {}
func (OTPRequired) action()    {}
func (SetOTPCode) action()     {}
func (SubmitCode) action()     {}
func (OTPCancel) action()      {}
func (OTPFailed) action()      {}
func (Cancel) action()         {}

// Effect is a side effect requested by a transition, nil means none.
type Effect interface{ effect() }

// LoginEffect logs in with the captured credentials.
type LoginEffect struct {
	Username string
	Password string
}

// VerifyOTPEffect verifies a one-time passcode.
type VerifyOTPEffect struct {
	Kind model.TwoFactorKind
	Code string
}

// RefreshCredentialsEffect refreshes the cached credentials after a login.
type RefreshCredentialsEffect struct{}

func (LoginEffect) effect()              {}
func (VerifyOTPEffect) effect()          {}
func (RefreshCredentialsEffect) effect() {}
