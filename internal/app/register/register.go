package register

import (
	"context"
	"fmt"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// Registrar registers anonymous users on the uploader.
type Registrar interface {
	TermsOfService(ctx context.Context, baseURL string) (*model.TermsOfService, error)
	RegisterAnonymously(ctx context.Context, baseURL string, tosVersion int) (string, error)
}

// CredentialsStore stores the uploader API key.
type CredentialsStore interface {
	UploaderBaseURL(ctx context.Context) (string, error)
	SetUploaderAPIKey(ctx context.Context, key string) error
	Refresh(ctx context.Context) error
}

// Gate is the register gate waiting for the user consent.
type Gate interface {
	Resolve(struct{})
	Reject(error)
}

// ServiceConfig is the configuration for the register service.
type ServiceConfig struct {
	Registrar   Registrar
	Credentials CredentialsStore
	Gate        Gate
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Registrar == nil {
		return fmt.Errorf("registrar is required")
	}
	if c.Credentials == nil {
		return fmt.Errorf("credentials store is required")
	}
	if c.Gate == nil {
		return fmt.Errorf("gate is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Register"})
	return nil
}

// Service runs the uploader consent flow: the user reads the terms and accepts
// (registering anonymously) or declines them.
type Service struct {
	registrar Registrar
	creds     CredentialsStore
	gate      Gate
	logger    log.Logger
}

// NewService creates a new register service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		registrar: cfg.Registrar,
		creds:     cfg.Credentials,
		gate:      cfg.Gate,
		logger:    cfg.Logger,
	}, nil
}

// TermsOfService returns the terms the user has to accept.
func (s *Service) TermsOfService(ctx context.Context) (*model.TermsOfService, error) {
	base, err := s.creds.UploaderBaseURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get uploader url: %w", err)
	}

	tos, err := s.registrar.TermsOfService(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("could not get terms of service: %w", err)
	}

	return tos, nil
}

// Accept registers the user with the accepted terms version and resumes the
// operation waiting on the gate. On failure the gate is kept pending so the
// user can retry or decline.
func (s *Service) Accept(ctx context.Context, tosVersion int) error {
	base, err := s.creds.UploaderBaseURL(ctx)
	if err != nil {
		return fmt.Errorf("could not get uploader url: %w", err)
	}

	token, err := s.registrar.RegisterAnonymously(ctx, base, tosVersion)
	if err != nil {
		return fmt.Errorf("could not register: %w", err)
	}

	if err := s.creds.SetUploaderAPIKey(ctx, token); err != nil {
		return fmt.Errorf("could not store api key: %w", err)
	}

	if err := s.creds.Refresh(ctx); err != nil {
		return fmt.Errorf("could not refresh credentials: %w", err)
	}

	s.logger.Infof("Registered on the uploader with terms version %d", tosVersion)
	s.gate.Resolve(struct{}{})

	return nil
}

// Decline rejects the operation waiting on the gate.
func (s *Service) Decline() {
	s.logger.Infof("Uploader terms declined")
	s.gate.Reject(fmt.Errorf("terms declined: %w", model.ErrCancelled))
}
