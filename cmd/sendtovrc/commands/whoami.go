package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/whoami"
	"github.com/slok/sendtovrc/internal/printer"
)

type WhoamiCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewWhoamiCommand returns the whoami command.
func NewWhoamiCommand(rootCmd *RootCommand, app *kingpin.Application) *WhoamiCommand {
	c := &WhoamiCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("whoami", "Show the logged in VRChat user.")
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c WhoamiCommand) Name() string { return c.Cmd.FullCommand() }

func (c WhoamiCommand) Run(ctx context.Context) error {
	deps, err := newAppDeps(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc, err := whoami.NewService(whoami.ServiceConfig{Users: deps.account, Logger: c.rootCmd.Logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not get current user: %w", err)
	}

	return c.rootCmd.printer(c.format).PrintWhoami(printer.Whoami{LoggedIn: resp.LoggedIn, DisplayName: resp.DisplayName})
}
