package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/doctor"
	"github.com/slok/sendtovrc/internal/credentials"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage/sqlite"
)

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run local preflight checks.")
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
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

	svc, err := doctor.NewService(doctor.ServiceConfig{Settings: creds, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	results, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not run checks: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintChecks(results); err != nil {
		return fmt.Errorf("could not print checks: %w", err)
	}

	if sum := model.SummarizeChecks(results); sum.Failed() {
		return fmt.Errorf("doctor found %d error(s)", sum.Errors)
	}

	return nil
}
