package history

import (
	"context"
	"fmt"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.SendRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists the past submissions.
type Service struct {
	repo   storage.SendRepository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history request parameters.
type Request struct {
	// DestinationFilter is an optional filter to only show the sends of a destination.
	DestinationFilter *model.Destination
	// StatusFilter is an optional filter to only show the sends with this status.
	StatusFilter *model.SendStatus
	// Limit is the max number of sends returned, 0 returns all.
	Limit int
}

// Run lists the sends, newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Send, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit must be positive: %w", model.ErrNotValid)
	}

	filtered := req.DestinationFilter != nil || req.StatusFilter != nil

	// Filters are applied after listing, the limit can't be pushed down.
	limit := req.Limit
	if filtered {
		limit = 0
	}

	sends, err := s.repo.ListSends(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list sends: %w", err)
	}

	if filtered {
		result := make([]model.Send, 0, len(sends))
		for _, snd := range sends {
			if req.DestinationFilter != nil && snd.Destination != *req.DestinationFilter {
				continue
			}
			if req.StatusFilter != nil && snd.Status != *req.StatusFilter {
				continue
			}
			result = append(result, snd)
			if req.Limit > 0 && len(result) == req.Limit {
				break
			}
		}
		sends = result
	}

	s.logger.Debugf("found %d sends", len(sends))
	return sends, nil
}
