package imapmail

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/followup/internal/model"
)

// Client lists follow-up flagged messages over IMAP.
type Client struct {
	host     string
	port     string
	username string
	password string
	tls      bool
	logger   *slog.Logger
}

// NewClient creates a client for the configured IMAP server.
func NewClient(cfg model.IMAPConfig, password string, logger *slog.Logger) *Client {
	return &Client{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: password,
		tls:      cfg.TLS,
		logger:   logger,
	}
}

// Connect dials and authenticates. The caller must log out of the
// returned client.
func (c *Client) Connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("IMAP login for %s: %w", c.username, err)
	}

	return client, nil
}

// FetchFlagged returns up to limit of the most recent \Flagged messages in
// folder, newest first. A limit of zero returns all of them.
func (c *Client) FetchFlagged(
	ctx context.Context, folder string, limit int,
) ([]Envelope, error) {
	client, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", folder, err)
	}

	criteria := &imap.SearchCriteria{
		Flag: []imap.Flag{imap.FlagFlagged},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching flagged messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		Envelope: true,
		Flags:    true,
		UID:      true,
	})
	defer fetchCmd.Close()

	var envelopes []Envelope
	skipped := 0
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		var ok bool
		envelopes, ok = c.appendCollected(envelopes, msg)
		if !ok {
			skipped++
		}
	}
	if skipped > 0 {
		c.logger.Warn("flagged listing is incomplete",
			"folder", folder, "skipped", skipped, "listed", len(envelopes))
	}

	if err := fetchCmd.Close(); err != nil {
		return envelopes, fmt.Errorf("fetching envelopes: %w", err)
	}

	SortNewestFirst(envelopes)
	return envelopes, nil
}

// collector is the part of a fetched message the listing reads.
type collector interface {
	Collect() (*imapclient.FetchMessageBuffer, error)
}

// appendCollected adds msg's envelope to envs. A message that cannot be
// collected is logged and reported as not ok.
func (c *Client) appendCollected(envs []Envelope, msg collector) ([]Envelope, bool) {
	buf, err := msg.Collect()
	if err != nil {
		c.logger.Warn("skipping flagged message", "error", err)
		return envs, false
	}
	return append(envs, envelopeFromBuffer(buf)), true
}

// envelopeFromBuffer extracts an Envelope from a FetchMessageBuffer.
func envelopeFromBuffer(buf *imapclient.FetchMessageBuffer) Envelope {
	env := Envelope{
		UID: uint32(buf.UID),
	}

	if buf.Envelope != nil {
		env.MessageID = buf.Envelope.MessageID
		env.Subject = buf.Envelope.Subject
		env.Date = buf.Envelope.Date

		for _, to := range buf.Envelope.To {
			env.To = append(env.To, to.Addr())
		}
	}

	for _, flag := range buf.Flags {
		env.Flags = append(env.Flags, string(flag))
	}

	return env
}

// SortNewestFirst orders envelopes by date, most recent first.
func SortNewestFirst(envs []Envelope) {
	sort.SliceStable(envs, func(i, j int) bool {
		return envs[i].Date.After(envs[j].Date)
	})
}

// FormatLine renders one envelope as a single listing line.
func FormatLine(env Envelope) string {
	subject := env.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	to := strings.Join(env.To, ", ")
	if to == "" {
		to = "(no recipients)"
	}
	return fmt.Sprintf("%s  %-40s  %s", env.Date.Format(model.DateInputLayout), subject, to)
}
