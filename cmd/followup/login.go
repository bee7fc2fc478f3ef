package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/followup/internal/credential"
	"github.com/nhle/followup/internal/model"
)

func newLoginCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store mailbox credentials in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ewsUser := c.cfg.Mailbox.Username
			imapUser := c.cfg.IMAP.Username
			var ewsPassword, restToken, imapPassword string

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Exchange username").
						Placeholder("you@example.com").
						Value(&ewsUser).
						Validate(validateRequired("Username")),
					huh.NewInput().
						Title("Exchange password").
						Description("Used for EWS requests").
						EchoMode(huh.EchoModePassword).
						Value(&ewsPassword),
					huh.NewInput().
						Title("REST token").
						Description("Bearer token for the mail REST API (optional)").
						EchoMode(huh.EchoModePassword).
						Value(&restToken),
				),
				huh.NewGroup(
					huh.NewInput().
						Title("IMAP username").
						Description("Leave empty to reuse the Exchange username").
						Value(&imapUser),
					huh.NewInput().
						Title("IMAP password").
						Description("Leave empty to reuse the Exchange password").
						EchoMode(huh.EchoModePassword).
						Value(&imapPassword),
				),
			).
				WithInput(cmd.InOrStdin()).
				WithOutput(cmd.OutOrStdout())

			if err := form.RunWithContext(cmd.Context()); err != nil {
				return fmt.Errorf("reading credentials: %w", err)
			}

			if imapUser == "" {
				imapUser = ewsUser
			}
			if imapPassword == "" {
				imapPassword = ewsPassword
			}

			secrets := []struct {
				key   string
				value string
			}{
				{credential.KeyEWSPassword, ewsPassword},
				{credential.KeyRESTToken, restToken},
				{credential.KeyIMAPPassword, imapPassword},
			}
			for _, s := range secrets {
				if s.value == "" {
					continue
				}
				if err := credential.Set(s.key, s.value); err != nil {
					return err
				}
			}

			c.cfg.Mailbox.Username = strings.TrimSpace(ewsUser)
			c.cfg.IMAP.Username = strings.TrimSpace(imapUser)
			if err := model.SaveConfig(c.configPath, c.cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for %s.\n", c.cfg.Mailbox.Username)
			return nil
		},
	}
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
