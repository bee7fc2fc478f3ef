package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/followup/internal/credential"
	"github.com/nhle/followup/internal/imapmail"
)

func newFlaggedCommand(c *cli) *cobra.Command {
	var limit int
	var folder string

	cmd := &cobra.Command{
		Use:   "flagged",
		Short: "List sent messages flagged for follow-up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := credential.Lookup(envIMAPPassword, credential.KeyIMAPPassword)
			if err != nil {
				return fmt.Errorf("IMAP password not found, run `followup login`: %w", err)
			}

			if folder == "" {
				folder = c.cfg.IMAP.SentFolder
			}
			client := imapmail.NewClient(c.cfg.IMAP, password, c.logger)
			envs, err := client.FetchFlagged(cmd.Context(), folder, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(envs) == 0 {
				fmt.Fprintf(out, "No flagged messages in %s.\n", folder)
				return nil
			}
			for _, env := range envs {
				fmt.Fprintln(out, imapmail.FormatLine(env))
			}
			c.logger.Debug("listed flagged messages", "folder", folder, "count", len(envs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of messages (0 for all)")
	cmd.Flags().StringVar(&folder, "folder", "", "mailbox folder (defaults to the configured sent folder)")
	return cmd
}
