package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type RegisterCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewRegisterCommand returns the register command.
func NewRegisterCommand(rootCmd *RootCommand, app *kingpin.Application) *RegisterCommand {
	c := &RegisterCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("register", "Accept the uploader terms and get an API key.")
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c RegisterCommand) Name() string { return c.Cmd.FullCommand() }

func (c RegisterCommand) Run(ctx context.Context) error {
	deps, err := newAppDeps(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	err = deps.interactive(ctx, c.rootCmd, func(ctx context.Context) error {
		_, err := deps.session.RegisterGate.Await(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("could not register: %w", err)
	}

	return c.rootCmd.printer(c.format).PrintMessage("Registered on the uploader")
}
