package whoami

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// UserGetter returns the logged in VRChat user.
type UserGetter interface {
	CurrentUserName(ctx context.Context) (string, error)
}

// ServiceConfig is the configuration for the whoami service.
type ServiceConfig struct {
	Users  UserGetter
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Users == nil {
		return fmt.Errorf("user getter is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Service tells who is logged in on VRChat.
type Service struct {
	users  UserGetter
	logger log.Logger
}

// NewService creates a new whoami service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{users: cfg.Users, logger: cfg.Logger}, nil
}

// Response is the whoami result.
type Response struct {
	LoggedIn    bool
	DisplayName string
}

// Run returns the logged in user, not being logged in is not an error.
func (s *Service) Run(ctx context.Context) (*Response, error) {
	name, err := s.users.CurrentUserName(ctx)
	if err != nil {
		if errors.Is(err, model.ErrAuthRequired) {
			return &Response{LoggedIn: false}, nil
		}
		return nil, fmt.Errorf("could not get current user: %w", err)
	}

	return &Response{LoggedIn: true, DisplayName: name}, nil
}
