package login

// Reduce returns the next state and the effect to run for action a on state s.
// Actions not accepted by the current step return s unchanged and no effect.
func Reduce(s State, a Action) (State, Effect) {
	if s.IsTerminal() {
		return s, nil
	}

	if _, ok := a.(Cancel); ok {
		return State{Step: StepCancelled}, nil
	}

	switch s.Step {
	case StepIdle, StepError:
		switch a := a.(type) {
		case SetUsername:
			s.Username = a.Username
			return s, nil
		case SetPassword:
			s.Password = a.Password
			return s, nil
		case Submit:
			s.Step = StepLoading
			s.Message = ""
			return s, LoginEffect{Username: s.Username, Password: s.Password}
		}

	case StepLoading:
		switch a := a.(type) {
		case LoginSucceeded:
			s.Step = StepFinish
			return s, RefreshCredentialsEffect{}
		case LoginFailed:
			s.Step = StepError
			s.Message = a.Reason
			return s, nil
		case OTPRequired:
			s.Step = StepOTP
			s.OTP = OTP{Kind: a.Kind, Code: "", VerifyStatus: VerifyStatusIdle}
			return s, nil
		}

	case StepOTP:
		switch a := a.(type) {
		case SetOTPCode:
			s.OTP.Code = a.Code
			return s, nil
		case SubmitCode:
			s.OTP.VerifyStatus = VerifyStatusLoading
			s.Message = ""
			return s, VerifyOTPEffect{Kind: s.OTP.Kind, Code: s.OTP.Code}
		case LoginSucceeded:
			return State{Step: StepFinish}, RefreshCredentialsEffect{}
		case OTPCancel:
			return State{Step: StepIdle, Username: s.Username, Password: s.Password}, nil
		case OTPFailed:
			s.OTP.VerifyStatus = VerifyStatusError
			s.Message = a.Reason
			return s, nil
		}
	}

	return s, nil
}
