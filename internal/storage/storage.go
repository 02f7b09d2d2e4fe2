package storage

import (
	"context"

	"github.com/slok/sendtovrc/internal/model"
)

// SettingsRepository is the interface for the persisted user settings.
type SettingsRepository interface {
	// GetSetting returns model.ErrNotFound when the key has never been set.
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	ListSettings(ctx context.Context) (map[string]string, error)
}

// SendRepository is the interface for the history of submissions.
type SendRepository interface {
	CreateSend(ctx context.Context, s model.Send) error
	// ListSends returns the submissions, newest first.
	ListSends(ctx context.Context, limit int) ([]model.Send, error)
}

// Repository is the full persistence of the app.
type Repository interface {
	SettingsRepository
	SendRepository
}
