// Package upload coordinates the submission of a file to a destination,
// retrying after interactive authentication when the credentials are missing or
// rejected.
package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// DefaultMaxAttempts is the default attempt budget of a submission. Both the
// authentication rounds and the remote calls consume it.
const DefaultMaxAttempts = 3

// Uploader sends a file to a destination. It returns model.ErrAuthRequired
// (wrapped) when the credentials are rejected.
type Uploader interface {
	Upload(ctx context.Context, filePath string, creds model.Credentials) (url string, err error)
}

// CredentialsReader returns the credentials of a destination, model.ErrNotFound
// when there are none.
type CredentialsReader interface {
	Credentials(ctx context.Context, d model.Destination) (*model.Credentials, error)
}

// Preparer renders a file the way the destination expects it. cleanup
// releases the prepared file.
type Preparer interface {
	Prepare(ctx context.Context, filePath string) (path string, cleanup func(), err error)
}

// Gate suspends the submission until the user authenticates.
type Gate interface {
	Await(ctx context.Context) (struct{}, error)
}

// Clipboard receives the uploaded URLs.
type Clipboard interface {
	WriteText(text string) error
}

// Settings are the user settings the coordinator depends on.
type Settings interface {
	ShouldCopyAfterUpload(ctx context.Context) (bool, error)
}

// StatePublisher publishes the states of the submissions.
type StatePublisher interface {
	Begin(d model.Destination) uint64
	Publish(gen uint64, st model.SendState) bool
}

// CoordinatorConfig is the configuration of the coordinator.
type CoordinatorConfig struct {
	Destination model.Destination
	Uploader    Uploader
	// Preparer is optional, without it the file is uploaded as is.
	Preparer    Preparer
	Credentials CredentialsReader
	// AuthGate is opened when the credentials are missing or rejected.
	AuthGate Gate
	States   StatePublisher
	// Clipboard is optional, without it URLs are never copied.
	Clipboard   Clipboard
	Settings    Settings
	MaxAttempts int
	Logger      log.Logger
}

func (c *CoordinatorConfig) defaults() error {
	if err := c.Destination.Validate(); err != nil {
		return err
	}

	if c.Uploader == nil {
		return fmt.Errorf("uploader is required")
	}

	if c.Credentials == nil {
		return fmt.Errorf("credentials reader is required")
	}

	if c.AuthGate == nil {
		return fmt.Errorf("auth gate is required")
	}

	if c.States == nil {
		return fmt.Errorf("state publisher is required")
	}

	if c.Clipboard != nil && c.Settings == nil {
		return fmt.Errorf("settings are required when clipboard is set")
	}

	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "upload.Coordinator", "destination": c.Destination})

	return nil
}

// Coordinator submits files to a single destination.
type Coordinator struct {
	dest        model.Destination
	uploader    Uploader
	preparer    Preparer
	creds       CredentialsReader
	gate        Gate
	states      StatePublisher
	clipboard   Clipboard
	settings    Settings
	maxAttempts int
	logger      log.Logger
}

// NewCoordinator returns a new coordinator.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Coordinator{
		dest:        cfg.Destination,
		uploader:    cfg.Uploader,
		preparer:    cfg.Preparer,
		creds:       cfg.Credentials,
		gate:        cfg.AuthGate,
		states:      cfg.States,
		clipboard:   cfg.Clipboard,
		settings:    cfg.Settings,
		maxAttempts: cfg.MaxAttempts,
		logger:      cfg.Logger,
	}, nil
}

// Destination returns the destination of the coordinator.
func (c *Coordinator) Destination() model.Destination { return c.dest }

// Submit sends filePath to the destination. The uploading state is published
// before anything else and the returned terminal state is published too, every
// failure ends as an error state.
func (c *Coordinator) Submit(ctx context.Context, filePath string) model.SendState {
	gen := c.states.Begin(c.dest)
	c.states.Publish(gen, model.SendStateUploading(c.dest, model.SendProgressStarting))

	url, err := c.submit(ctx, gen, filePath)
	st := model.SendStateDone(c.dest, url)
	if err != nil {
		c.logger.Errorf("Could not send %s: %s", filePath, err)
		st = model.SendStateError(c.dest, err.Error())
	} else {
		c.logger.Infof("Sent %s", filePath)
	}

	c.states.Publish(gen, st)

	return st
}

func (c *Coordinator) submit(ctx context.Context, gen uint64, filePath string) (string, error) {
	if c.preparer != nil {
		c.states.Publish(gen, model.SendStateUploading(c.dest, model.SendProgressCompressing))
		prepared, cleanup, err := c.preparer.Prepare(ctx, filePath)
		if err != nil {
			return "", fmt.Errorf("could not prepare file: %w", err)
		}
		defer cleanup()
		filePath = prepared
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		logger := c.logger.WithValues(log.Kv{"attempt": attempt, "max-attempts": c.maxAttempts})

		creds, err := c.creds.Credentials(ctx, c.dest)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return "", fmt.Errorf("could not read credentials: %w", err)
		}
		if creds == nil {
			logger.Infof("Missing credentials, waiting for authentication")
			if err := c.authenticate(ctx); err != nil {
				return "", err
			}
			continue
		}

		c.states.Publish(gen, model.SendStateUploading(c.dest, model.SendProgressUploading))
		url, err := c.uploader.Upload(ctx, filePath, *creds)
		if err != nil {
			if errors.Is(err, model.ErrAuthRequired) {
				logger.Infof("Credentials rejected, waiting for authentication")
				if err := c.authenticate(ctx); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("upload failed: %w", err)
		}

		c.copyToClipboard(ctx, url)

		return url, nil
	}

	return "", fmt.Errorf("upload failed after %d attempts: %w", c.maxAttempts, model.ErrExhausted)
}

func (c *Coordinator) authenticate(ctx context.Context) error {
	if _, err := c.gate.Await(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	return nil
}

// copyToClipboard never fails the submission, the upload already happened.
func (c *Coordinator) copyToClipboard(ctx context.Context, url string) {
	if c.clipboard == nil || url == "" {
		return
	}

	copyURL, err := c.settings.ShouldCopyAfterUpload(ctx)
	if err != nil {
		c.logger.Warningf("Could not read copy setting: %s", err)
		return
	}
	if !copyURL {
		return
	}

	if err := c.clipboard.WriteText(url); err != nil {
		c.logger.Warningf("Could not copy URL to clipboard: %s", err)
		return
	}
	c.logger.Debugf("URL copied to clipboard")
}
