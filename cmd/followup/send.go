package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/followup/internal/app"
	"github.com/nhle/followup/internal/credential"
	"github.com/nhle/followup/internal/ews"
	"github.com/nhle/followup/internal/host/exchange"
	"github.com/nhle/followup/internal/intercept"
	"github.com/nhle/followup/internal/model"
	"github.com/nhle/followup/internal/rest"
	"github.com/nhle/followup/internal/ui/sendprompt"
	"github.com/nhle/followup/internal/workflow"
)

// Environment variables that override keyring credentials.
const (
	envRESTToken    = "FOLLOWUP_REST_TOKEN"
	envEWSPassword  = "FOLLOWUP_EWS_PASSWORD"
	envIMAPPassword = "FOLLOWUP_IMAP_PASSWORD"
)

func newSendCommand(c *cli) *cobra.Command {
	var plain, accessible bool
	var width int
	var pickFlag string

	cmd := &cobra.Command{
		Use:   "send <message.eml>",
		Short: "Send a composed message through the follow-up prompt",
		Long: "Load a composed message, raise the send event and offer to set a " +
			"follow-up reminder before it goes out.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pick model.QuickPick
			if pickFlag != "" {
				p, err := model.ParseQuickPick(pickFlag)
				if err != nil {
					return err
				}
				pick = p
			}

			var opts []sendprompt.Option
			if plain {
				opts = append(opts, sendprompt.WithPlainText())
			}
			if accessible {
				opts = append(opts, sendprompt.WithAccessible())
			}
			prompter := sendprompt.New(cmd.InOrStdin(), cmd.OutOrStdout(), width, opts...)
			return c.runSend(cmd.Context(), cmd, args[0], pick, prompter)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "render the prompt without colors")
	cmd.Flags().BoolVar(&accessible, "accessible", false, "use line-based prompts")
	cmd.Flags().IntVar(&width, "width", 80, "prompt width in columns")
	cmd.Flags().StringVar(&pickFlag, "pick", "",
		"quick pick to preselect in the reminder pane (today, tomorrow, thisWeek, nextWeek, custom)")
	return cmd
}

func (c *cli) runSend(
	ctx context.Context,
	cmd *cobra.Command,
	path string,
	pick model.QuickPick,
	prompter app.Prompter,
) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening message: %w", err)
	}
	item, err := exchange.ParseItem(f)
	f.Close()
	if err != nil {
		return err
	}

	password, err := credential.Lookup(envEWSPassword, credential.KeyEWSPassword)
	if err != nil {
		return fmt.Errorf("EWS password not found, run `followup login`: %w", err)
	}

	timeout := time.Duration(c.cfg.Mailbox.TimeoutSec) * time.Second
	ewsClient := ews.NewClient(c.cfg.Mailbox.EWSURL, c.cfg.Mailbox.Username, password, timeout)
	token := func(context.Context) (string, error) {
		return credential.Lookup(envRESTToken, credential.KeyRESTToken)
	}

	mailbox := exchange.New(item, ewsClient, token, c.cfg.Mailbox, c.logger)
	wf := workflow.New(mailbox, rest.NewClient(timeout), ewsClient, c.logger)

	registry := intercept.NewRegistry()
	if err := intercept.NewSendInterceptor(c.logger).Register(registry); err != nil {
		return err
	}

	panes := map[string]app.PaneLauncher{
		intercept.OpenPaneCommandID: app.ReminderPane(wf, pick, tea.WithAltScreen()),
	}
	compose, err := app.NewCompose(registry, mailbox, prompter, panes, c.logger)
	if err != nil {
		return err
	}

	outcome, err := compose.Send(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch outcome {
	case app.OutcomeSent:
		fmt.Fprintf(out, "Sent %q to %d recipient(s).\n", item.Subject, len(item.Recipients()))
	case app.OutcomeSendUnavailable:
		fmt.Fprintln(out, "Please click Send to send the email.")
	case app.OutcomeDismissed, app.OutcomeBlocked:
		fmt.Fprintln(out, "Message not sent.")
	}
	return nil
}
