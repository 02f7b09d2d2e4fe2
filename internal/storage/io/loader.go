package io

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/slok/sendtovrc/internal/model"
)

// SettingsYAMLRepository loads settings seed files written in YAML.
type SettingsYAMLRepository struct {
	fs fs.FS
}

// NewSettingsYAMLRepository creates a new YAML settings repository.
func NewSettingsYAMLRepository(filesystem fs.FS) *SettingsYAMLRepository {
	return &SettingsYAMLRepository{fs: filesystem}
}

// GetSettings loads a settings file and returns the settings it sets, keyed by
// setting key. Missing fields are not returned.
func (r *SettingsYAMLRepository) GetSettings(ctx context.Context, path string) (map[string]string, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var s SettingsFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return s.toModel(), nil
}

// SettingsFile represents the YAML structure of a settings file.
type SettingsFile struct {
	Uploader UploaderSettings `yaml:"uploader"`
	VRChat   VRChatSettings   `yaml:"vrchat"`
}

// UploaderSettings represents the YAML structure of the uploader settings.
type UploaderSettings struct {
	APIKey          string `yaml:"api_key"`
	URLBase         string `yaml:"url_base"`
	CopyAfterUpload *bool  `yaml:"copy_after_upload,omitempty"`
}

// VRChatSettings represents the YAML structure of the VRChat settings.
type VRChatSettings struct {
	AuthCookie string `yaml:"auth_cookie"`
}

func (s SettingsFile) validate() error {
	if s.Uploader.URLBase != "" {
		u, err := url.Parse(s.Uploader.URLBase)
		if err != nil {
			return fmt.Errorf("uploader url_base: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("uploader url_base must be an http(s) URL, got: %q", s.Uploader.URLBase)
		}
		if u.Host == "" {
			return fmt.Errorf("uploader url_base host is required")
		}
	}

	return nil
}

func (s SettingsFile) toModel() map[string]string {
	settings := map[string]string{}
	if s.Uploader.APIKey != "" {
		settings[model.SettingUploaderAPIKey] = s.Uploader.APIKey
	}
	if s.Uploader.URLBase != "" {
		settings[model.SettingUploaderBaseURL] = s.Uploader.URLBase
	}
	if s.Uploader.CopyAfterUpload != nil {
		settings[model.SettingShouldCopyAfterUpload] = strconv.FormatBool(*s.Uploader.CopyAfterUpload)
	}
	if s.VRChat.AuthCookie != "" {
		settings[model.SettingVRChatAuthCookie] = s.VRChat.AuthCookie
	}

	return settings
}
