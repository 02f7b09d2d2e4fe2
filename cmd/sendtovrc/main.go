package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/sendtovrc/cmd/sendtovrc/commands"
	"github.com/slok/sendtovrc/internal/log"
	loglogrus "github.com/slok/sendtovrc/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("sendtovrc", "Send images to VRChat video players, image viewers and prints.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	sendCmd := commands.NewSendCommand(rootCmd, app)
	checkCmd := commands.NewCheckCommand(rootCmd, app)
	cropCmd := commands.NewCropCommand(rootCmd, app)
	loginCmd := commands.NewLoginCommand(rootCmd, app)
	logoutCmd := commands.NewLogoutCommand(rootCmd, app)
	whoamiCmd := commands.NewWhoamiCommand(rootCmd, app)
	registerCmd := commands.NewRegisterCommand(rootCmd, app)
	historyCmd := commands.NewHistoryCommand(rootCmd, app)
	doctorCmd := commands.NewDoctorCommand(rootCmd, app)

	// Settings subcommands share a parent command.
	settingsCmd := commands.NewSettingsCommand(app)
	settingsListCmd := commands.NewSettingsListCommand(rootCmd, settingsCmd)
	settingsGetCmd := commands.NewSettingsGetCommand(rootCmd, settingsCmd)
	settingsSetCmd := commands.NewSettingsSetCommand(rootCmd, settingsCmd)
	settingsImportCmd := commands.NewSettingsImportCommand(rootCmd, settingsCmd)

	cmds := map[string]commands.Command{
		sendCmd.Name():           sendCmd,
		checkCmd.Name():          checkCmd,
		cropCmd.Name():           cropCmd,
		loginCmd.Name():          loginCmd,
		logoutCmd.Name():         logoutCmd,
		whoamiCmd.Name():         whoamiCmd,
		registerCmd.Name():       registerCmd,
		historyCmd.Name():        historyCmd,
		doctorCmd.Name():         doctorCmd,
		settingsListCmd.Name():   settingsListCmd,
		settingsGetCmd.Name():    settingsGetCmd,
		settingsSetCmd.Name():    settingsSetCmd,
		settingsImportCmd.Name(): settingsImportCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Commands that only print don't log unless --debug, interactive commands
	// keep the logs on stderr next to the prompts.
	printerCommands := map[string]bool{
		"history":       true,
		"check":         true,
		"whoami":        true,
		"doctor":        true,
		"settings list": true,
		"settings get":  true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(*rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // Logs go to stderr so stdout only has the printer output.
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled")

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
