package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/slok/sendtovrc/internal/log"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// MigratorConfig is the configuration of the migrator.
type MigratorConfig struct {
	DB     *sql.DB
	Logger log.Logger
}

func (c *MigratorConfig) defaults() error {
	if c.DB == nil {
		return fmt.Errorf("db is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLiteMigrator"})
	return nil
}

// Migrator applies the embedded schema migrations of the app database.
type Migrator struct {
	db     *sql.DB
	logger log.Logger
}

// NewMigrator returns a new migrator.
func NewMigrator(cfg MigratorConfig) (*Migrator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Migrator{db: cfg.DB, logger: cfg.Logger}, nil
}

// Up applies the pending migrations and returns the resulting schema version.
func (m *Migrator) Up(ctx context.Context) (uint, error) {
	var version uint
	err := m.withInstance(func(inst *migrate.Migrate) error {
		if err := inst.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not run migrations: %w", err)
		}

		v, dirty, err := inst.Version()
		if err != nil {
			return fmt.Errorf("could not get schema version: %w", err)
		}
		if dirty {
			return fmt.Errorf("schema version %d is dirty", v)
		}
		version = v

		return nil
	})
	if err != nil {
		return 0, err
	}

	m.logger.Debugf("Database schema at version %d", version)
	return version, nil
}

// Down reverts all migrations.
func (m *Migrator) Down(ctx context.Context) error {
	err := m.withInstance(func(inst *migrate.Migrate) error {
		if err := inst.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not revert migrations: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debugf("Database schema reverted")
	return nil
}

func (m *Migrator) withInstance(fn func(inst *migrate.Migrate) error) error {
	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return fmt.Errorf("could not create fs: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			m.logger.Errorf("could not close fs: %s", err)
		}
	}()

	inst, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	return fn(inst)
}
