package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/whoami"
	"github.com/slok/sendtovrc/internal/printer"
)

type LoginCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	force  bool
	format string
}

// NewLoginCommand returns the login command.
func NewLoginCommand(rootCmd *RootCommand, app *kingpin.Application) *LoginCommand {
	c := &LoginCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("login", "Log in to VRChat.")
	c.Cmd.Flag("force", "Log in even if there is a valid session.").BoolVar(&c.force)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c LoginCommand) Name() string { return c.Cmd.FullCommand() }

func (c LoginCommand) Run(ctx context.Context) error {
	deps, err := newAppDeps(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	svc, err := whoami.NewService(whoami.ServiceConfig{Users: deps.account, Logger: c.rootCmd.Logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if !c.force {
		resp, err := svc.Run(ctx)
		if err != nil {
			return fmt.Errorf("could not get current user: %w", err)
		}
		if resp.LoggedIn {
			return c.rootCmd.printer(c.format).PrintWhoami(printer.Whoami{LoggedIn: true, DisplayName: resp.DisplayName})
		}
	}

	err = deps.interactive(ctx, c.rootCmd, func(ctx context.Context) error {
		_, err := deps.session.LoginGate.Await(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("could not log in: %w", err)
	}

	resp, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not get current user: %w", err)
	}

	return c.rootCmd.printer(c.format).PrintWhoami(printer.Whoami{LoggedIn: resp.LoggedIn, DisplayName: resp.DisplayName})
}
