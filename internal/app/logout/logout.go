package logout

import (
	"context"
	"fmt"

	"github.com/slok/sendtovrc/internal/log"
)

// SessionCloser closes the VRChat session.
type SessionCloser interface {
	Logout(ctx context.Context) error
}

// ServiceConfig is the configuration for the logout service.
type ServiceConfig struct {
	Session SessionCloser
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Session == nil {
		return fmt.Errorf("session is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Logout"})
	return nil
}

// Service logs out from VRChat.
type Service struct {
	session SessionCloser
	logger  log.Logger
}

// NewService creates a new logout service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{session: cfg.Session, logger: cfg.Logger}, nil
}

// Run logs out, the local session is forgotten even if the remote logout fails.
func (s *Service) Run(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("could not logout from VRChat: %w", err)
	}

	s.logger.Infof("Logged out from VRChat")
	return nil
}
