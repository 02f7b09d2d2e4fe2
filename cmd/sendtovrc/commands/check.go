package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/imagecheck"
	"github.com/slok/sendtovrc/internal/printer"
)

type CheckCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	file   string
	format string
}

// NewCheckCommand returns the check command.
func NewCheckCommand(rootCmd *RootCommand, app *kingpin.Application) *CheckCommand {
	c := &CheckCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("check", "Check that a file is an image that can be sent.")
	c.Cmd.Arg("file", "File to check.").Required().StringVar(&c.file)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c CheckCommand) Name() string { return c.Cmd.FullCommand() }

func (c CheckCommand) Run(ctx context.Context) error {
	validity, img := imagecheck.NewChecker(c.rootCmd.Logger).Check(ctx, c.file)

	result := printer.ImageCheck{Path: c.file, Validity: validity, Image: img}
	if fi, err := os.Stat(c.file); err == nil {
		result.SizeBytes = fi.Size()
	}

	if err := c.rootCmd.printer(c.format).PrintImageCheck(result); err != nil {
		return fmt.Errorf("could not print check: %w", err)
	}

	if validity != imagecheck.Valid {
		return fmt.Errorf("%s is not a supported image", c.file)
	}

	return nil
}
