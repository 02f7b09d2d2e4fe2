package model

// SendStatus is the status of a submission to a destination.
type SendStatus string

const (
	SendStatusUploading SendStatus = "uploading"
	SendStatusDone      SendStatus = "done"
	SendStatusError     SendStatus = "error"
)

// SendProgress is a hint of the step an in-flight submission is in.
type SendProgress string

const (
	SendProgressStarting    SendProgress = "starting"
	SendProgressCompressing SendProgress = "compressing"
	SendProgressUploading   SendProgress = "uploading"
)

// SendState is the observable state of the last submission of a destination.
//
// Only the fields of the current status are set: Progress for uploading, URL for
// done (optional, print has no URL) and Message for error.
type SendState struct {
	Destination Destination
	Status      SendStatus
	Progress    SendProgress
	URL         string
	Message     string
}

// SendStateUploading returns an uploading state.
func SendStateUploading(d Destination, p SendProgress) SendState {
	return SendState{Destination: d, Status: SendStatusUploading, Progress: p}
}

// SendStateDone returns a successful terminal state.
func SendStateDone(d Destination, url string) SendState {
	return SendState{Destination: d, Status: SendStatusDone, URL: url}
}

// SendStateError returns a failed terminal state.
func SendStateError(d Destination, msg string) SendState {
	return SendState{Destination: d, Status: SendStatusError, Message: msg}
}

// IsTerminal returns true when the state will not change without a new submission.
func (s SendState) IsTerminal() bool {
	return s.Status == SendStatusDone || s.Status == SendStatusError
}

// FileToSend is the file currently targeted by the user.
type FileToSend struct {
	FilePath string
	// RequestedAt is monotonically increasing, distinguishes successive
	// submissions of the same path.
	RequestedAt int64
}
