package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/logout"
)

type LogoutCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewLogoutCommand returns the logout command.
func NewLogoutCommand(rootCmd *RootCommand, app *kingpin.Application) *LogoutCommand {
	c := &LogoutCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("logout", "Log out from VRChat and forget the session.")
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c LogoutCommand) Name() string { return c.Cmd.FullCommand() }

func (c LogoutCommand) Run(ctx context.Context) error {
	deps, err := newAppDeps(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc, err := logout.NewService(logout.ServiceConfig{Session: deps.account, Logger: c.rootCmd.Logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("could not log out: %w", err)
	}

	return c.rootCmd.printer(c.format).PrintMessage("Logged out")
}
