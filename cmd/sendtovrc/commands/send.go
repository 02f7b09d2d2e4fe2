package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/sendtovrc/internal/app/send"
	"github.com/slok/sendtovrc/internal/clipboard"
	"github.com/slok/sendtovrc/internal/imagecheck"
	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/prepare"
	"github.com/slok/sendtovrc/internal/upload"
	"github.com/slok/sendtovrc/internal/vrchat"
)

type SendCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	file        string
	destination string
	noClipboard bool
	maxAttempts int
	format      string
}

// NewSendCommand returns the send command.
func NewSendCommand(rootCmd *RootCommand, app *kingpin.Application) *SendCommand {
	c := &SendCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("send", "Send an image to VRChat.")
	c.Cmd.Arg("file", "Image file to send.").Required().StringVar(&c.file)
	c.Cmd.Flag("to", "Destination (video-player, image-viewer, print).").Short('t').Required().StringVar(&c.destination)
	c.Cmd.Flag("no-clipboard", "Don't copy the uploaded URL to the clipboard.").BoolVar(&c.noClipboard)
	c.Cmd.Flag("max-attempts", "Max upload and authentication attempts.").Default("3").IntVar(&c.maxAttempts)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c SendCommand) Name() string { return c.Cmd.FullCommand() }

func (c SendCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	dest, err := model.ParseDestination(c.destination)
	if err != nil {
		return err
	}

	deps, err := newAppDeps(ctx, c.rootCmd)
	if err != nil {
		return err
	}
	defer deps.Close()

	var clip upload.Clipboard
	if !c.noClipboard {
		sys, err := clipboard.NewSystem()
		if err != nil {
			logger.Warningf("URLs will not be copied: %s", err)
		} else {
			clip = sys
		}
	}

	// Video player and image viewer share the uploader, prints go to VRChat.
	uploaderDests := []model.Destination{model.DestinationVideoPlayer, model.DestinationImageViewer}
	submitters := make([]send.Submitter, 0, len(model.Destinations))
	for _, d := range uploaderDests {
		prep, err := prepare.NewPreparer(prepare.PreparerConfig{Destination: d, Logger: logger})
		if err != nil {
			return fmt.Errorf("could not create %s preparer: %w", d, err)
		}

		coord, err := upload.NewCoordinator(upload.CoordinatorConfig{
			Destination: d,
			Uploader:    deps.uploader,
			Preparer:    prep,
			Credentials: deps.creds,
			AuthGate:    deps.session.RegisterGate,
			States:      deps.session.States,
			Clipboard:   clip,
			Settings:    deps.creds,
			MaxAttempts: c.maxAttempts,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("could not create %s coordinator: %w", d, err)
		}
		submitters = append(submitters, coord)
	}

	printPrep, err := prepare.NewPreparer(prepare.PreparerConfig{Destination: model.DestinationVRChatPrint, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create print preparer: %w", err)
	}

	printCoord, err := upload.NewCoordinator(upload.CoordinatorConfig{
		Destination: model.DestinationVRChatPrint,
		Uploader:    vrchat.NewPrintUploader(deps.vrchat),
		Preparer:    printPrep,
		Credentials: deps.creds,
		AuthGate:    deps.session.LoginGate,
		States:      deps.session.States,
		MaxAttempts: c.maxAttempts,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("could not create print coordinator: %w", err)
	}
	submitters = append(submitters, printCoord)

	svc, err := send.NewService(send.ServiceConfig{
		Submitters: submitters,
		Checker:    imagecheck.NewChecker(logger),
		Files:      deps.session.States,
		Repository: deps.repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	var resp *send.Response
	err = deps.interactive(ctx, c.rootCmd, func(ctx context.Context) error {
		var err error
		resp, err = svc.Run(ctx, send.Request{Destination: dest, FilePath: c.file})
		return err
	})
	if err != nil {
		return fmt.Errorf("could not send image: %w", err)
	}

	if err := c.rootCmd.printer(c.format).PrintSendState(resp.State); err != nil {
		return fmt.Errorf("could not print result: %w", err)
	}

	if resp.State.Status == model.SendStatusError {
		return fmt.Errorf("send failed: %s", resp.State.Message)
	}

	return nil
}
