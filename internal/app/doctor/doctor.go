package doctor

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/slok/sendtovrc/internal/clipboard"
	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// SettingsReader reads all the settings with their defaults applied.
type SettingsReader interface {
	All(ctx context.Context) (map[string]string, error)
}

// ServiceConfig is the configuration for the doctor service.
type ServiceConfig struct {
	Settings SettingsReader
	// ClipboardCheck returns an error when the clipboard can't be used,
	// defaults to the system clipboard.
	ClipboardCheck func() error
	Logger         log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Settings == nil {
		return fmt.Errorf("settings reader is required")
	}

	if c.ClipboardCheck == nil {
		c.ClipboardCheck = func() error {
			_, err := clipboard.NewSystem()
			return err
		}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Doctor"})

	return nil
}

// Service runs local preflight checks, it never calls the remote services.
type Service struct {
	settings       SettingsReader
	clipboardCheck func() error
	logger         log.Logger
}

// NewService creates a new doctor service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		settings:       cfg.Settings,
		clipboardCheck: cfg.ClipboardCheck,
		logger:         cfg.Logger,
	}, nil
}

// Check IDs.
const (
	CheckSettings        = "settings"
	CheckUploaderURL     = "uploader_url"
	CheckUploaderKey     = "uploader_key"
	CheckClipboard       = "clipboard"
	CheckCopyAfterUpload = "copy_after_upload"
	CheckVRChatSession   = "vrchat_session"
)

// Run returns the result of every check. Failing checks are results, not
// errors.
func (s *Service) Run(ctx context.Context) ([]model.CheckResult, error) {
	all, err := s.settings.All(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []model.CheckResult{
			{ID: CheckSettings, Status: model.CheckStatusError, Message: fmt.Sprintf("could not read settings: %s", err)},
		}, nil
	}

	results := []model.CheckResult{
		{ID: CheckSettings, Status: model.CheckStatusOK, Message: "settings readable"},
		checkUploaderURL(all[model.SettingUploaderBaseURL]),
		checkUploaderKey(all[model.SettingUploaderAPIKey]),
	}

	clipboardErr := s.clipboardCheck()
	if clipboardErr != nil {
		results = append(results, model.CheckResult{ID: CheckClipboard, Status: model.CheckStatusWarning, Message: clipboardErr.Error()})
	} else {
		results = append(results, model.CheckResult{ID: CheckClipboard, Status: model.CheckStatusOK, Message: "system clipboard available"})
	}

	results = append(results,
		checkCopyAfterUpload(all[model.SettingShouldCopyAfterUpload], clipboardErr == nil),
		checkVRChatSession(all[model.SettingVRChatAuthCookie]),
	)

	sum := model.SummarizeChecks(results)
	s.logger.Debugf("%d checks ok, %d warnings, %d errors", sum.OK, sum.Warnings, sum.Errors)

	return results, nil
}

func checkUploaderURL(v string) model.CheckResult {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.CheckResult{ID: CheckUploaderURL, Status: model.CheckStatusError, Message: fmt.Sprintf("invalid uploader URL %q", v)}
	}
	return model.CheckResult{ID: CheckUploaderURL, Status: model.CheckStatusOK, Message: v}
}

func checkUploaderKey(v string) model.CheckResult {
	if v == "" {
		return model.CheckResult{ID: CheckUploaderKey, Status: model.CheckStatusWarning, Message: "not registered, the terms of service will be asked on the first upload"}
	}
	return model.CheckResult{ID: CheckUploaderKey, Status: model.CheckStatusOK, Message: "registered"}
}

func checkCopyAfterUpload(v string, clipboardOK bool) model.CheckResult {
	enabled, err := strconv.ParseBool(v)
	switch {
	case err != nil:
		return model.CheckResult{ID: CheckCopyAfterUpload, Status: model.CheckStatusError, Message: fmt.Sprintf("invalid value %q, must be a boolean", v)}
	case enabled && !clipboardOK:
		return model.CheckResult{ID: CheckCopyAfterUpload, Status: model.CheckStatusWarning, Message: "enabled but the clipboard is not available"}
	case enabled:
		return model.CheckResult{ID: CheckCopyAfterUpload, Status: model.CheckStatusOK, Message: "enabled"}
	}
	return model.CheckResult{ID: CheckCopyAfterUpload, Status: model.CheckStatusOK, Message: "disabled"}
}

func checkVRChatSession(v string) model.CheckResult {
	if v == "" {
		return model.CheckResult{ID: CheckVRChatSession, Status: model.CheckStatusWarning, Message: "not logged in, prints will ask for a login"}
	}
	return model.CheckResult{ID: CheckVRChatSession, Status: model.CheckStatusOK, Message: "session stored"}
}
