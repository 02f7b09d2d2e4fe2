// Package credentials reads and writes the credentials and settings of the app
// on top of the settings repository.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage"
)

// ServiceConfig is the configuration of the service.
type ServiceConfig struct {
	Repository storage.SettingsRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("settings repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "credentials.Service"})

	return nil
}

// Service caches the settings in memory. Writes go through the cache so readers
// never see a value older than the last write, Refresh drops the cache and
// forces a reload from the repository.
type Service struct {
	repo   storage.SettingsRepository
	logger log.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewService returns a new credentials service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Credentials returns the credentials of a destination, model.ErrNotFound when
// the user has none.
func (s *Service) Credentials(ctx context.Context, d model.Destination) (*model.Credentials, error) {
	switch d {
	case model.DestinationVideoPlayer, model.DestinationImageViewer:
		return s.Uploader(ctx)
	case model.DestinationVRChatPrint:
		return s.Print(ctx)
	}

	return nil, fmt.Errorf("unknown destination %q: %w", d, model.ErrNotValid)
}

// Uploader returns the uploader API key and base URL.
func (s *Service) Uploader(ctx context.Context) (*model.Credentials, error) {
	key, err := s.Get(ctx, model.SettingUploaderAPIKey)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("uploader api key: %w", model.ErrNotFound)
	}

	base, err := s.UploaderBaseURL(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Credentials{APIKey: key, BaseURL: base}, nil
}

// Print returns the VRChat session cookie.
func (s *Service) Print(ctx context.Context) (*model.Credentials, error) {
	cookie, err := s.Get(ctx, model.SettingVRChatAuthCookie)
	if err != nil {
		return nil, err
	}
	if cookie == "" {
		return nil, fmt.Errorf("vrchat auth cookie: %w", model.ErrNotFound)
	}

	return &model.Credentials{APIKey: cookie}, nil
}

// UploaderBaseURL returns the uploader base URL.
func (s *Service) UploaderBaseURL(ctx context.Context) (string, error) {
	base, err := s.Get(ctx, model.SettingUploaderBaseURL)
	if err != nil {
		return "", err
	}
	if base == "" {
		return model.DefaultUploaderBaseURL, nil
	}

	return base, nil
}

// ShouldCopyAfterUpload returns true when the uploaded URLs must be copied to
// the clipboard.
func (s *Service) ShouldCopyAfterUpload(ctx context.Context) (bool, error) {
	v, err := s.Get(ctx, model.SettingShouldCopyAfterUpload)
	if err != nil {
		return false, err
	}

	copyURL, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", model.SettingShouldCopyAfterUpload, v, model.ErrNotValid)
	}

	return copyURL, nil
}

// SetUploaderAPIKey stores the uploader API key.
func (s *Service) SetUploaderAPIKey(ctx context.Context, key string) error {
	return s.Set(ctx, model.SettingUploaderAPIKey, key)
}

// SetAuthCookie stores the VRChat session cookie.
func (s *Service) SetAuthCookie(ctx context.Context, cookie string) error {
	return s.Set(ctx, model.SettingVRChatAuthCookie, cookie)
}

// AuthCookie returns the VRChat session cookie, empty when there is none.
func (s *Service) AuthCookie(ctx context.Context) (string, error) {
	return s.Get(ctx, model.SettingVRChatAuthCookie)
}

// ClearAuthCookie forgets the VRChat session.
func (s *Service) ClearAuthCookie(ctx context.Context) error {
	if err := s.repo.DeleteSetting(ctx, model.SettingVRChatAuthCookie); err != nil {
		return fmt.Errorf("could not delete auth cookie: %w", err)
	}

	s.mu.Lock()
	if s.cache != nil {
		delete(s.cache, model.SettingVRChatAuthCookie)
	}
	s.mu.Unlock()

	return nil
}

// Get returns a setting value, its default when it has never been set (empty
// when there is no default).
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if err := model.ValidateSettingKey(key); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return "", err
	}

	if v, ok := s.cache[key]; ok {
		return v, nil
	}

	return model.SettingDefaults[key], nil
}

// Set stores a setting value.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := model.ValidateSettingKey(key); err != nil {
		return err
	}

	if err := s.repo.SetSetting(ctx, key, value); err != nil {
		return fmt.Errorf("could not store setting: %w", err)
	}

	s.mu.Lock()
	if s.cache != nil {
		s.cache[key] = value
	}
	s.mu.Unlock()

	s.logger.Debugf("Setting %s updated", key)

	return nil
}

// All returns every known setting with its current or default value.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	all := make(map[string]string, len(model.SettingKeys))
	for _, k := range model.SettingKeys {
		v, ok := s.cache[k]
		if !ok {
			v = model.SettingDefaults[k]
		}
		all[k] = v
	}

	return all, nil
}

// Refresh drops the cached settings, they are reloaded on the next read.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()

	s.logger.Debugf("Credentials cache invalidated")

	return nil
}

// load must be called with the lock held.
func (s *Service) load(ctx context.Context) error {
	if s.cache != nil {
		return nil
	}

	settings, err := s.repo.ListSettings(ctx)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("could not load settings: %w", err)
	}
	if settings == nil {
		settings = map[string]string{}
	}
	s.cache = settings

	return nil
}
