package host

import (
	"context"
	"errors"
	"strings"
)

// ErrSendUnavailable means the mailbox cannot send programmatically; the
// user has to press Send in the compose window. It is not a failure of
// the operation that preceded the send.
var ErrSendUnavailable = errors.New("SEND_UNAVAILABLE")

// Mailbox is the set of host primitives the send workflow depends on.
// Every call acts on the message currently being composed.
type Mailbox interface {
	// SaveDraft persists the compose item and returns its native (EWS)
	// item id.
	SaveDraft(ctx context.Context) (string, error)

	// CallbackToken returns a short-lived bearer token for the REST API.
	CallbackToken(ctx context.Context) (string, error)

	// ConvertToRestID converts a native item id to its REST v2.0 form.
	ConvertToRestID(itemID string) string

	// RestURL returns the mailbox REST base URL.
	RestURL() string

	// Send sends the compose item. It returns ErrSendUnavailable when the
	// host has no send primitive.
	Send(ctx context.Context) error
}

// ConvertToRestID maps an EWS item id onto the URL-safe alphabet used by
// REST v2.0 ids.
func ConvertToRestID(ewsID string) string {
	return strings.NewReplacer("/", "-", "+", "_").Replace(ewsID)
}
