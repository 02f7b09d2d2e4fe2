package settings

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// Store reads and writes settings.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

// Loader loads settings from a seed file.
type Loader interface {
	GetSettings(ctx context.Context, path string) (map[string]string, error)
}

// ServiceConfig is the configuration for the settings service.
type ServiceConfig struct {
	Store Store
	// Loader is only required to import settings files.
	Loader Loader
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Settings"})

	return nil
}

// Service manages the persisted settings.
type Service struct {
	store  Store
	loader Loader
	logger log.Logger
}

// NewService creates a new settings service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		store:  cfg.Store,
		loader: cfg.Loader,
		logger: cfg.Logger,
	}, nil
}

// Get returns a setting, unset settings return their default.
func (s *Service) Get(ctx context.Context, key string) (*model.Setting, error) {
	v, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("could not get setting: %w", err)
	}

	return &model.Setting{Key: key, Value: v}, nil
}

// List returns all the settings sorted by key.
func (s *Service) List(ctx context.Context) ([]model.Setting, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list settings: %w", err)
	}

	settings := make([]model.Setting, 0, len(all))
	for k, v := range all {
		settings = append(settings, model.Setting{Key: k, Value: v})
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })

	return settings, nil
}

// Set validates and stores a setting.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := validate(key, value); err != nil {
		return err
	}

	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("could not set setting: %w", err)
	}

	return nil
}

// Import loads a settings file and stores every setting it has, it returns
// the number of stored settings. Nothing is stored if any setting is invalid.
func (s *Service) Import(ctx context.Context, path string) (int, error) {
	if s.loader == nil {
		return 0, fmt.Errorf("settings import is not available")
	}

	loaded, err := s.loader.GetSettings(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("could not load settings file: %w", err)
	}

	keys := make([]string, 0, len(loaded))
	for k, v := range loaded {
		if err := validate(k, v); err != nil {
			return 0, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := s.store.Set(ctx, k, loaded[k]); err != nil {
			return 0, fmt.Errorf("could not set setting %q: %w", k, err)
		}
	}

	s.logger.Infof("Imported %d settings from %s", len(keys), path)

	return len(keys), nil
}

func validate(key, value string) error {
	if err := model.ValidateSettingKey(key); err != nil {
		return err
	}

	switch key {
	case model.SettingShouldCopyAfterUpload:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, model.ErrNotValid)
		}
	case model.SettingUploaderBaseURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) URL: %w", key, model.ErrNotValid)
		}
	}

	return nil
}
