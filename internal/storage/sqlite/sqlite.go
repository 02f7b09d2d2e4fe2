package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository opens (creating it if required) the database and migrates it
// to the latest schema.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(migrations.MigratorConfig{DB: db, Logger: cfg.Logger})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if _, err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// GetSetting returns the value of a setting.
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("setting %s: %w", key, model.ErrNotFound)
		}
		return "", fmt.Errorf("could not query setting: %w", err)
	}

	return value, nil
}

// SetSetting creates or replaces a setting.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	if err := model.ValidateSettingKey(key); err != nil {
		return err
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("could not upsert setting: %w", err)
	}

	r.logger.Debugf("Setting stored in repository: %s", key)
	return nil
}

// DeleteSetting removes a setting, removing a missing one is not an error.
func (r *Repository) DeleteSetting(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("could not delete setting: %w", err)
	}

	r.logger.Debugf("Setting deleted from repository: %s", key)
	return nil
}

// ListSettings returns all the stored settings.
func (r *Repository) ListSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("could not query settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		settings[k] = v
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return settings, nil
}

// CreateSend stores a finished submission.
func (r *Repository) CreateSend(ctx context.Context, s model.Send) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid send: %w", err)
	}

	query := `
		INSERT INTO sends (id, destination, file_path, status, url, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		s.ID,
		s.Destination,
		s.FilePath,
		s.Status,
		s.URL,
		s.Error,
		s.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: sends.") {
			return fmt.Errorf("send already exists: %w", model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert send: %w", err)
	}

	r.logger.Debugf("Created send in repository: %s", s.ID)
	return nil
}

// ListSends returns the newest sends first, limit <= 0 returns all of them.
func (r *Repository) ListSends(ctx context.Context, limit int) ([]model.Send, error) {
	query := `
		SELECT id, destination, file_path, status, url, error, created_at
		FROM sends
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query sends: %w", err)
	}
	defer rows.Close()

	var sends []model.Send
	for rows.Next() {
		var s model.Send
		var createdAt int64
		err := rows.Scan(&s.ID, &s.Destination, &s.FilePath, &s.Status, &s.URL, &s.Error, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		s.CreatedAt = time.UnixMilli(createdAt).UTC()
		sends = append(sends, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sends, nil
}
