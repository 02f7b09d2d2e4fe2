package send

import (
	"context"
	"crypto/rand"
	"fmt"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/sendtovrc/internal/imagecheck"
	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage"
)

// Submitter submits files to a single destination.
type Submitter interface {
	Destination() model.Destination
	Submit(ctx context.Context, filePath string) model.SendState
}

// ImageChecker checks that a file is a sendable image.
type ImageChecker interface {
	Check(ctx context.Context, path string) (imagecheck.Validity, *imagecheck.Image)
}

// FileTargeter tracks the file the user is sending.
type FileTargeter interface {
	SetFileToSend(path string) (model.FileToSend, error)
}

// ServiceConfig is the configuration for the send service.
type ServiceConfig struct {
	Submitters []Submitter
	Checker    ImageChecker
	Files      FileTargeter
	Repository storage.SendRepository
	Now        func() time.Time
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if len(c.Submitters) == 0 {
		return fmt.Errorf("at least one submitter is required")
	}
	if c.Checker == nil {
		return fmt.Errorf("image checker is required")
	}
	if c.Files == nil {
		return fmt.Errorf("file targeter is required")
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Send"})
	return nil
}

// Service sends images to the destinations and keeps the history of the
// submissions.
type Service struct {
	submitters map[model.Destination]Submitter
	checker    ImageChecker
	files      FileTargeter
	repo       storage.SendRepository
	now        func() time.Time
	logger     log.Logger
}

// NewService creates a new send service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	submitters := make(map[model.Destination]Submitter, len(cfg.Submitters))
	for _, s := range cfg.Submitters {
		if _, ok := submitters[s.Destination()]; ok {
			return nil, fmt.Errorf("invalid config: duplicated submitter for %s", s.Destination())
		}
		submitters[s.Destination()] = s
	}

	return &Service{
		submitters: submitters,
		checker:    cfg.Checker,
		files:      cfg.Files,
		repo:       cfg.Repository,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}, nil
}

// Request is a send request.
type Request struct {
	Destination model.Destination
	FilePath    string
}

// Response is the result of a send.
type Response struct {
	Send  model.Send
	State model.SendState
}

// Run validates the image and sends it. A failed submission is not an error,
// it is returned as an error state and recorded in the history.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if err := req.Destination.Validate(); err != nil {
		return nil, err
	}

	submitter, ok := s.submitters[req.Destination]
	if !ok {
		return nil, fmt.Errorf("destination %s is not available: %w", req.Destination, model.ErrNotValid)
	}

	path, err := filepath.Abs(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("invalid file path %q: %w", req.FilePath, model.ErrNotValid)
	}

	validity, img := s.checker.Check(ctx, path)
	if validity != imagecheck.Valid {
		return nil, fmt.Errorf("%s is not a supported image: %w", path, model.ErrNotValid)
	}
	logger := s.logger.WithValues(log.Kv{"destination": req.Destination, "file": path})
	logger.Debugf("Sending %s image %dx%d", img.Format, img.Width, img.Height)

	if _, err := s.files.SetFileToSend(path); err != nil {
		return nil, fmt.Errorf("could not target file: %w", err)
	}

	state := submitter.Submit(ctx, path)

	send := model.Send{
		ID:          ulid.MustNew(ulid.Timestamp(s.now()), rand.Reader).String(),
		Destination: req.Destination,
		FilePath:    path,
		Status:      state.Status,
		URL:         state.URL,
		Error:       state.Message,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateSend(ctx, send); err != nil {
		logger.Warningf("Could not record send: %s", err)
	}

	return &Response{Send: send, State: state}, nil
}
