package model

// Credentials are the credentials a destination needs to accept an upload.
type Credentials struct {
	// APIKey is the uploader API key or the VRChat auth cookie.
	APIKey string
	// BaseURL is the remote base URL, empty when the destination has a fixed one.
	BaseURL string
}

// TwoFactorKind is the kind of one-time passcode a login asks for.
type TwoFactorKind string

const (
	TwoFactorNone     TwoFactorKind = ""
	TwoFactorEmailOTP TwoFactorKind = "emailOtp"
	TwoFactorTOTP     TwoFactorKind = "totp"
)

// TermsOfService are the uploader registration terms.
type TermsOfService struct {
	Version int
	Content string
}
