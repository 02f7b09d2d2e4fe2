package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/settings"
	"github.com/slok/sendtovrc/internal/credentials"
	"github.com/slok/sendtovrc/internal/model"
	storageio "github.com/slok/sendtovrc/internal/storage/io"
	"github.com/slok/sendtovrc/internal/storage/sqlite"
)

// NewSettingsCommand returns the settings parent command.
func NewSettingsCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("settings", "Manage the stored settings.")
}

type settingsAction int

const (
	settingsList settingsAction = iota
	settingsGet
	settingsSet
	settingsImport
)

type SettingsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
	action  settingsAction

	key    string
	value  string
	file   string
	format string
}

// NewSettingsListCommand returns the settings list command.
func NewSettingsListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *SettingsCommand {
	c := &SettingsCommand{rootCmd: rootCmd, action: settingsList}
	c.Cmd = parent.Command("list", "List all the settings, credentials are masked.")
	formatFlag(c.Cmd, &c.format)
	return c
}

// NewSettingsGetCommand returns the settings get command.
func NewSettingsGetCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *SettingsCommand {
	c := &SettingsCommand{rootCmd: rootCmd, action: settingsGet}
	c.Cmd = parent.Command("get", "Get a setting.")
	c.Cmd.Arg("key", "Setting key.").Required().EnumVar(&c.key, model.SettingKeys...)
	formatFlag(c.Cmd, &c.format)
	return c
}

// NewSettingsSetCommand returns the settings set command.
func NewSettingsSetCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *SettingsCommand {
	c := &SettingsCommand{rootCmd: rootCmd, action: settingsSet}
	c.Cmd = parent.Command("set", "Set a setting.")
	c.Cmd.Arg("key", "Setting key.").Required().EnumVar(&c.key, model.SettingKeys...)
	c.Cmd.Arg("value", "Setting value.").Required().StringVar(&c.value)
	formatFlag(c.Cmd, &c.format)
	return c
}

// NewSettingsImportCommand returns the settings import command.
func NewSettingsImportCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *SettingsCommand {
	c := &SettingsCommand{rootCmd: rootCmd, action: settingsImport}
	c.Cmd = parent.Command("import", "Import settings from a YAML file.")
	c.Cmd.Arg("file", "YAML settings file.").Required().StringVar(&c.file)
	formatFlag(c.Cmd, &c.format)
	return c
}

func (c SettingsCommand) Name() string { return c.Cmd.FullCommand() }

func (c SettingsCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	creds, err := credentials.NewService(credentials.ServiceConfig{Repository: repo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create credentials service: %w", err)
	}

	cfg := settings.ServiceConfig{Store: creds, Logger: logger}
	file := c.file
	if c.action == settingsImport {
		abs, err := filepath.Abs(c.file)
		if err != nil {
			return fmt.Errorf("invalid settings file path: %w", err)
		}
		cfg.Loader = storageio.NewSettingsYAMLRepository(os.DirFS(filepath.Dir(abs)))
		file = filepath.Base(abs)
	}

	svc, err := settings.NewService(cfg)
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p := c.rootCmd.printer(c.format)
	switch c.action {
	case settingsGet:
		s, err := svc.Get(ctx, c.key)
		if err != nil {
			return err
		}
		return p.PrintSettings([]model.Setting{*s})

	case settingsSet:
		if err := svc.Set(ctx, c.key, c.value); err != nil {
			return err
		}
		return p.PrintMessage(fmt.Sprintf("Setting %s updated", c.key))

	case settingsImport:
		n, err := svc.Import(ctx, file)
		if err != nil {
			return err
		}
		return p.PrintMessage(fmt.Sprintf("Imported %d settings", n))
	}

	all, err := svc.List(ctx)
	if err != nil {
		return err
	}
	return p.PrintSettings(all)
}
