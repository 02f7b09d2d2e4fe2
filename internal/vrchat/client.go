// Package vrchat is the client of the VRChat API used to log in and to send
// images to VRChat Print.
package vrchat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// DefaultBaseURL is the VRChat API base URL.
const DefaultBaseURL = "https://api.vrchat.cloud/api/1"

const (
	defaultUserAgent   = "SendToVRC/1.0"
	defaultHTTPTimeout = 2 * time.Minute
	authCookieName     = "auth"
	printNote          = "Uploaded via Send to VRC"
)

// ClientConfig is the configuration of the client.
type ClientConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Now        func() time.Time
	Logger     log.Logger
}

func (c *ClientConfig) defaults() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "vrchat.Client"})

	return nil
}

// Client is a stateless VRChat API client, the session cookie is passed on
// every call.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	now       func() time.Time
	logger    log.Logger
}

// NewClient returns a new VRChat client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid config: base url: %w", err)
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		http:      cfg.HTTPClient,
		now:       cfg.Now,
		logger:    cfg.Logger,
	}, nil
}

// LoginResult is the result of a username and password login.
type LoginResult struct {
	AuthCookie string
	// TwoFactor is set when the session needs a one-time passcode before it can
	// be used.
	TwoFactor   model.TwoFactorKind
	DisplayName string
}

type userResponse struct {
	DisplayName           string   `json:"displayName"`
	RequiresTwoFactorAuth []string `json:"requiresTwoFactorAuth"`
}

// Login logs in with the user credentials. Wrong credentials return
// model.ErrAuthRequired.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "auth", "user")
	if err != nil {
		return nil, err
	}
	basic := escapeCredential(username) + ":" + escapeCredential(password)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(basic)))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("invalid username or password: %w", model.ErrAuthRequired)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not decode login response: %w", err)
	}

	cookie := authCookie(resp)
	if cookie == "" {
		return nil, fmt.Errorf("login response without auth cookie")
	}

	if payload.DisplayName != "" {
		return &LoginResult{AuthCookie: cookie, DisplayName: payload.DisplayName}, nil
	}

	if len(payload.RequiresTwoFactorAuth) > 0 {
		kind, err := twoFactorKind(payload.RequiresTwoFactorAuth)
		if err != nil {
			return nil, err
		}
		c.logger.Debugf("Login requires %s two factor authentication", kind)
		return &LoginResult{AuthCookie: cookie, TwoFactor: kind}, nil
	}

	return nil, fmt.Errorf("login failed for unknown reasons")
}

// twoFactorKind picks the passcode kind, TOTP is preferred when the account
// has both.
func twoFactorKind(methods []string) (model.TwoFactorKind, error) {
	var email bool
	for _, m := range methods {
		switch m {
		case string(model.TwoFactorTOTP):
			return model.TwoFactorTOTP, nil
		case string(model.TwoFactorEmailOTP):
			email = true
		}
	}
	if email {
		return model.TwoFactorEmailOTP, nil
	}

	return model.TwoFactorNone, fmt.Errorf("unsupported two factor methods %v", methods)
}

// VerifyOTP verifies the passcode of a session that requires it.
func (c *Client) VerifyOTP(ctx context.Context, authCookie string, kind model.TwoFactorKind, code string) error {
	var path string
	switch kind {
	case model.TwoFactorTOTP:
		path = "totp"
	case model.TwoFactorEmailOTP:
		path = "emailotp"
	default:
		return fmt.Errorf("unknown two factor kind %q: %w", kind, model.ErrNotValid)
	}

	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return fmt.Errorf("could not encode verify request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(body), "auth", "twofactorauth", path, "verify")
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthCookie(req, authCookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("passcode verification failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	return nil
}

// CurrentUserName returns the display name of the session user. An expired or
// incomplete session returns model.ErrAuthRequired.
func (c *Client) CurrentUserName(ctx context.Context, authCookie string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "auth", "user")
	if err != nil {
		return "", err
	}
	c.setAuthCookie(req, authCookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("current user request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("session expired: %w", model.ErrAuthRequired)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get current user failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("could not decode current user response: %w", err)
	}
	if payload.DisplayName == "" {
		return "", fmt.Errorf("session without user: %w", model.ErrAuthRequired)
	}

	return payload.DisplayName, nil
}

// Logout invalidates the session.
func (c *Client) Logout(ctx context.Context, authCookie string) error {
	req, err := c.newRequest(ctx, http.MethodPut, nil, "logout")
	if err != nil {
		return err
	}
	c.setAuthCookie(req, authCookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	// An already invalid session is logged out.
	if resp.StatusCode == http.StatusUnauthorized {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	return nil
}

// UploadPrint sends a PNG image to VRChat Print.
func (c *Client) UploadPrint(ctx context.Context, authCookie, filePath string) error {
	image, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("could not create image part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("could not write image part: %w", err)
	}
	if err := mw.WriteField("timestamp", c.now().UTC().Format("2006-01-02T15:04:05.000Z")); err != nil {
		return fmt.Errorf("could not write timestamp: %w", err)
	}
	if err := mw.WriteField("note", printNote); err != nil {
		return fmt.Errorf("could not write note: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("could not close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, &body, "prints")
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuthCookie(req, authCookie)

	c.logger.Debugf("Uploading print %s (%d bytes)", filePath, len(image))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("print request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("session expired: %w", model.ErrAuthRequired)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("print rejected: %w", model.ErrPlusRequired)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("print upload failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	c.logger.Infof("Print uploaded")

	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader, elem ...string) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath(elem...)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("could not build %s request: %w", strings.Join(elem, "/"), err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	return req, nil
}

func (c *Client) setAuthCookie(req *http.Request, cookie string) {
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: cookie})
}

// escapeCredential percent encodes a Basic auth credential, spaces included.
func escapeCredential(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func authCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == authCookieName {
			return c.Value
		}
	}
	return ""
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(body))
}
