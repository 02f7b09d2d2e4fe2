package vrchat

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// CookieStore persists the VRChat session cookie.
type CookieStore interface {
	AuthCookie(ctx context.Context) (string, error)
	SetAuthCookie(ctx context.Context, cookie string) error
	ClearAuthCookie(ctx context.Context) error
}

// SessionConfig is the configuration of the session.
type SessionConfig struct {
	Client  *Client
	Cookies CookieStore
	Logger  log.Logger
}

func (c *SessionConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("client is required")
	}
	if c.Cookies == nil {
		return fmt.Errorf("cookie store is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "vrchat.Session"})

	return nil
}

// Session is the VRChat session of the user. It logs in, verifies passcodes,
// and uploads prints with the stored cookie.
//
// The cookie of a login that still needs a passcode is kept in memory and only
// stored once the passcode is verified.
type Session struct {
	client  *Client
	cookies CookieStore
	logger  log.Logger

	mu      sync.Mutex
	pending string
}

// NewSession returns a new session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Session{
		client:  cfg.Client,
		cookies: cfg.Cookies,
		logger:  cfg.Logger,
	}, nil
}

// Login logs in and returns the kind of passcode required to complete it,
// model.TwoFactorNone when the session is ready.
func (s *Session) Login(ctx context.Context, username, password string) (model.TwoFactorKind, error) {
	res, err := s.client.Login(ctx, username, password)
	if err != nil {
		return model.TwoFactorNone, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if res.TwoFactor != model.TwoFactorNone {
		s.pending = res.AuthCookie
		return res.TwoFactor, nil
	}

	s.pending = ""
	if err := s.cookies.SetAuthCookie(ctx, res.AuthCookie); err != nil {
		return model.TwoFactorNone, fmt.Errorf("could not store session: %w", err)
	}
	s.logger.Infof("Logged in as %s", res.DisplayName)

	return model.TwoFactorNone, nil
}

// VerifyOTP completes a login that required a passcode.
func (s *Session) VerifyOTP(ctx context.Context, kind model.TwoFactorKind, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == "" {
		return fmt.Errorf("there is no login waiting for a passcode: %w", model.ErrNotValid)
	}

	if err := s.client.VerifyOTP(ctx, s.pending, kind, code); err != nil {
		return err
	}

	if err := s.cookies.SetAuthCookie(ctx, s.pending); err != nil {
		return fmt.Errorf("could not store session: %w", err)
	}
	s.pending = ""
	s.logger.Infof("Logged in with %s passcode", kind)

	return nil
}

// CurrentUserName returns the display name of the logged in user,
// model.ErrAuthRequired when there is no valid session.
func (s *Session) CurrentUserName(ctx context.Context) (string, error) {
	cookie, err := s.cookies.AuthCookie(ctx)
	if err != nil {
		return "", err
	}
	if cookie == "" {
		return "", fmt.Errorf("not logged in: %w", model.ErrAuthRequired)
	}

	return s.client.CurrentUserName(ctx, cookie)
}

// Logout closes the remote session and forgets the local one. The local
// session is forgotten even when the remote logout fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.pending = ""
	s.mu.Unlock()

	cookie, err := s.cookies.AuthCookie(ctx)
	if err != nil {
		return err
	}
	if cookie == "" {
		return nil
	}

	remoteErr := s.client.Logout(ctx, cookie)
	if remoteErr != nil {
		s.logger.Warningf("Remote logout failed: %s", remoteErr)
	}

	if err := s.cookies.ClearAuthCookie(ctx); err != nil {
		return fmt.Errorf("could not forget session: %w", err)
	}

	return remoteErr
}

// PrintUploader sends files to VRChat Print, the credentials API key is the
// session cookie.
type PrintUploader struct {
	client *Client
}

// NewPrintUploader returns a new print uploader.
func NewPrintUploader(client *Client) *PrintUploader {
	return &PrintUploader{client: client}
}

// Upload uploads the print. Prints have no public URL.
func (p *PrintUploader) Upload(ctx context.Context, filePath string, creds model.Credentials) (string, error) {
	if err := p.client.UploadPrint(ctx, creds.APIKey, filePath); err != nil {
		return "", err
	}
	return "", nil
}
