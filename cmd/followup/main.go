package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nhle/followup/internal/app"
	"github.com/nhle/followup/internal/model"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	logFile    string
	cfg        *model.AppConfig
	logger     *slog.Logger
	closeLog   func() error
}

func main() {
	// A missing .env is fine; variables may come from the shell.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{closeLog: func() error { return nil }}

	root := &cobra.Command{
		Use:           "followup",
		Short:         "Set follow-up reminders on outgoing mail",
		Long:          "Intercept outgoing messages and flag them for follow-up before they are sent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.closeLog()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", model.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newSendCommand(c),
		newFlaggedCommand(c),
		newLoginCommand(c),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := model.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	var w io.Writer = os.Stderr
	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
		c.closeLog = f.Close
	}

	logger, err := app.NewLogger(w, cfg.Log.Level)
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}
