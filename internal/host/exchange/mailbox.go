package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/followup/internal/host"
	"github.com/nhle/followup/internal/model"
)

// sendRequirementSet is the first mailbox API level with programmatic send.
const sendRequirementSet = "1.15"

// DraftStore is the subset of the EWS client the mailbox uses.
type DraftStore interface {
	CreateDraft(ctx context.Context, mime []byte) (string, error)
	SendItem(ctx context.Context, itemID string) error
}

// TokenSource issues the REST bearer token.
type TokenSource func(ctx context.Context) (string, error)

// Mailbox implements host.Mailbox for one compose item against Exchange.
// It is not safe for concurrent use; a send attempt is sequential.
type Mailbox struct {
	item          *Item
	drafts        DraftStore
	token         TokenSource
	restURL       string
	sendSupported bool
	draftID       string
	logger        *slog.Logger
	now           func() time.Time
}

var _ host.Mailbox = (*Mailbox)(nil)

// New creates a mailbox around the compose item.
func New(
	item *Item,
	drafts DraftStore,
	token TokenSource,
	cfg model.MailboxConfig,
	logger *slog.Logger,
) *Mailbox {
	return &Mailbox{
		item:          item,
		drafts:        drafts,
		token:         token,
		restURL:       strings.TrimRight(cfg.RestURL, "/"),
		sendSupported: SupportsRequirementSet(cfg.RequirementSet, sendRequirementSet),
		logger:        logger,
		now:           time.Now,
	}
}

// SaveDraft stores the compose item in Drafts and returns its EWS id.
// The item cannot change once loaded, so later calls return the id of the
// first saved draft.
func (m *Mailbox) SaveDraft(ctx context.Context) (string, error) {
	if m.draftID != "" {
		return m.draftID, nil
	}

	mime, err := m.item.MIME(m.now())
	if err != nil {
		return "", fmt.Errorf("composing draft: %w", err)
	}

	id, err := m.drafts.CreateDraft(ctx, mime)
	if err != nil {
		return "", err
	}

	m.draftID = id
	m.logger.Debug("draft saved", "item_id", id, "subject", m.item.Subject)
	return id, nil
}

// CallbackToken returns the REST bearer token.
func (m *Mailbox) CallbackToken(ctx context.Context) (string, error) {
	return m.token(ctx)
}

// ConvertToRestID converts an EWS id to REST v2.0 form.
func (m *Mailbox) ConvertToRestID(itemID string) string {
	return host.ConvertToRestID(itemID)
}

// RestURL returns the REST base URL.
func (m *Mailbox) RestURL() string {
	return m.restURL
}

// Send sends the saved draft, saving it first if needed. It returns
// host.ErrSendUnavailable when the configured requirement set predates
// programmatic send.
func (m *Mailbox) Send(ctx context.Context) error {
	if !m.sendSupported {
		return host.ErrSendUnavailable
	}

	if m.draftID == "" {
		if _, err := m.SaveDraft(ctx); err != nil {
			return fmt.Errorf("saving draft before send: %w", err)
		}
	}

	if err := m.drafts.SendItem(ctx, m.draftID); err != nil {
		return err
	}

	m.logger.Info("message sent",
		"item_id", m.draftID,
		"recipients", strings.Join(m.item.Recipients(), ", "),
	)
	return nil
}

// SupportsRequirementSet reports whether the version have is at least
// want. Both are "major.minor" strings; malformed input is unsupported.
func SupportsRequirementSet(have, want string) bool {
	hMajor, hMinor, ok := parseRequirementSet(have)
	if !ok {
		return false
	}
	wMajor, wMinor, ok := parseRequirementSet(want)
	if !ok {
		return false
	}
	if hMajor != wMajor {
		return hMajor > wMajor
	}
	return hMinor >= wMinor
}

func parseRequirementSet(s string) (major, minor int, ok bool) {
	majorStr, minorStr, found := strings.Cut(strings.TrimSpace(s), ".")
	if !found {
		minorStr = "0"
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(minorStr)
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
