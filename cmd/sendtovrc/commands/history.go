package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/history"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/storage/sqlite"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	destinationFilter string
	statusFilter      string
	limit             int
	format            string
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List the sent images.")
	c.Cmd.Flag("to", "Filter by destination (video-player, image-viewer, print).").StringVar(&c.destinationFilter)
	c.Cmd.Flag("status", "Filter by status (done, error).").StringVar(&c.statusFilter)
	c.Cmd.Flag("limit", "Max number of sends, 0 lists all.").Default("20").IntVar(&c.limit)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	var destinationFilter *model.Destination
	if c.destinationFilter != "" {
		d, err := model.ParseDestination(c.destinationFilter)
		if err != nil {
			return err
		}
		destinationFilter = &d
	}

	var statusFilter *model.SendStatus
	if c.statusFilter != "" {
		status := model.SendStatus(strings.ToLower(c.statusFilter))
		switch status {
		case model.SendStatusDone, model.SendStatusError:
			statusFilter = &status
		default:
			return fmt.Errorf("invalid status filter: %s (must be: done, error)", c.statusFilter)
		}
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := history.NewService(history.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	sends, err := svc.Run(ctx, history.Request{
		DestinationFilter: destinationFilter,
		StatusFilter:      statusFilter,
		Limit:             c.limit,
	})
	if err != nil {
		return fmt.Errorf("could not list sends: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintHistory(sends); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
