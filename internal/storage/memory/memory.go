package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	settings map[string]string
	sends    map[string]model.Send
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		settings: make(map[string]string),
		sends:    make(map[string]model.Send),
		logger:   cfg.Logger,
	}, nil
}

// GetSetting returns the value of a setting.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.settings[key]
	if !ok {
		return "", fmt.Errorf("setting %s: %w", key, model.ErrNotFound)
	}

	return v, nil
}

// SetSetting creates or replaces a setting.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	if err := model.ValidateSettingKey(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[key] = value
	r.logger.Debugf("Setting stored in repository: %s", key)

	return nil
}

// DeleteSetting removes a setting, removing a missing one is not an error.
func (r *Repository) DeleteSetting(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.settings, key)
	r.logger.Debugf("Setting deleted from repository: %s", key)

	return nil
}

// ListSettings returns a copy of all the stored settings.
func (r *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := make(map[string]string, len(r.settings))
	for k, v := range r.settings {
		settings[k] = v
	}

	return settings, nil
}

// CreateSend stores a finished submission.
func (r *Repository) CreateSend(ctx context.Context, s model.Send) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid send: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sends[s.ID]; ok {
		return fmt.Errorf("send with id %s: %w", s.ID, model.ErrAlreadyExists)
	}

	r.sends[s.ID] = s
	r.logger.Debugf("Created send in repository: %s", s.ID)

	return nil
}

// ListSends returns the newest sends first, limit <= 0 returns all of them.
func (r *Repository) ListSends(ctx context.Context, limit int) ([]model.Send, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sends := make([]model.Send, 0, len(r.sends))
	for _, s := range r.sends {
		sends = append(sends, s)
	}

	sort.SliceStable(sends, func(i, j int) bool {
		if sends[i].CreatedAt.Equal(sends[j].CreatedAt) {
			return sends[i].ID > sends[j].ID
		}
		return sends[i].CreatedAt.After(sends[j].CreatedAt)
	})

	if limit > 0 && len(sends) > limit {
		sends = sends[:limit]
	}

	return sends, nil
}
