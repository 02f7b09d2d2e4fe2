// Package uploader is the client of the file uploader service used by the video
// player and image viewer destinations.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

const (
	defaultUserAgent   = "SendToVRC/1.0"
	defaultHTTPTimeout = 5 * time.Minute
	registrationDate   = "20060102T150405-0700"
)

// ClientConfig is the configuration of the client.
type ClientConfig struct {
	HTTPClient *http.Client
	UserAgent  string
	Now        func() time.Time
	Logger     log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "uploader.Client"})

	return nil
}

// Client talks to the uploader service. The base URL is part of the
// credentials so the same client serves any uploader instance.
type Client struct {
	http      *http.Client
	userAgent string
	now       func() time.Time
	logger    log.Logger
}

// NewClient returns a new uploader client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		http:      cfg.HTTPClient,
		userAgent: cfg.UserAgent,
		now:       cfg.Now,
		logger:    cfg.Logger,
	}, nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload uploads the file and returns its public URL. A rejected API key
// returns model.ErrAuthRequired.
func (c *Client) Upload(ctx context.Context, filePath string, creds model.Credentials) (string, error) {
	endpoint, err := endpointURL(creds.BaseURL, "upload")
	if err != nil {
		return "", err
	}
	q := endpoint.Query()
	q.Set("ext", strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."))
	endpoint.RawQuery = q.Encode()

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("could not stat file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), f)
	if err != nil {
		return "", fmt.Errorf("could not build upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debugf("Uploading %s (%d bytes)", filePath, info.Size())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("uploader rejected the api key: %w", model.ErrAuthRequired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("could not decode upload response: %w", err)
	}
	if payload.URL == "" {
		return "", fmt.Errorf("upload response without url")
	}

	c.logger.Infof("File uploaded to %s", payload.URL)

	return payload.URL, nil
}

type tosResponse struct {
	Version int    `json:"version"`
	Content string `json:"content"`
}

// TermsOfService returns the current registration terms of the uploader.
func (c *Client) TermsOfService(ctx context.Context, baseURL string) (*model.TermsOfService, error) {
	endpoint, err := endpointURL(baseURL, "registration", "tos")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build tos request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("could not get tos (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	var payload tosResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not decode tos response: %w", err)
	}

	return &model.TermsOfService{Version: payload.Version, Content: payload.Content}, nil
}

type registerRequest struct {
	TOS  registerRequestTOS `json:"tos"`
	Date string             `json:"date"`
}

type registerRequestTOS struct {
	Accept  bool `json:"accept"`
	Version int  `json:"version"`
}

type registerResponse struct {
	Token string `json:"token"`
}

// RegisterAnonymously accepts the terms version and returns a new API key.
func (c *Client) RegisterAnonymously(ctx context.Context, baseURL string, tosVersion int) (string, error) {
	endpoint, err := endpointURL(baseURL, "registration", "anonymous")
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(registerRequest{
		TOS:  registerRequestTOS{Accept: true, Version: tosVersion},
		Date: c.now().UTC().Format(registrationDate),
	})
	if err != nil {
		return "", fmt.Errorf("could not encode registration request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not build registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("anonymous registration failed (%s): %s", resp.Status, readErrorBody(resp.Body))
	}

	var payload registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("could not decode registration response: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("registration response without token")
	}

	c.logger.Infof("Anonymously registered on the uploader")

	return payload.Token, nil
}

func endpointURL(base string, elem ...string) (*url.URL, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = model.DefaultUploaderBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid uploader base url %q: %w", base, err)
	}

	return u.JoinPath(elem...), nil
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(body))
}
