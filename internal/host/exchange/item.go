package exchange

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"
)

// Item is the message being composed.
type Item struct {
	From      []*mail.Address
	To        []*mail.Address
	Cc        []*mail.Address
	Subject   string
	Body      string
	MessageID string
}

// ParseItem reads an RFC 5322 message and keeps its addressing, subject
// and text/plain body.
func ParseItem(r io.Reader) (*Item, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	item := &Item{}
	if item.From, err = mr.Header.AddressList("From"); err != nil {
		return nil, fmt.Errorf("parsing From: %w", err)
	}
	if item.To, err = mr.Header.AddressList("To"); err != nil {
		return nil, fmt.Errorf("parsing To: %w", err)
	}
	if item.Cc, err = mr.Header.AddressList("Cc"); err != nil {
		return nil, fmt.Errorf("parsing Cc: %w", err)
	}
	if item.Subject, err = mr.Header.Subject(); err != nil {
		return nil, fmt.Errorf("parsing Subject: %w", err)
	}
	item.MessageID, _ = mr.Header.MessageID()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading message part: %w", err)
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if contentType != "" && !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("reading message body: %w", err)
		}
		item.Body = string(body)
		break
	}

	if len(item.To) == 0 && len(item.Cc) == 0 {
		return nil, fmt.Errorf("message has no recipients")
	}

	return item, nil
}

// MIME renders the item as a single-part text/plain message. A Message-ID
// is generated when the item has none.
func (it *Item) MIME(date time.Time) ([]byte, error) {
	if it.MessageID == "" {
		it.MessageID = uuid.New().String() + "@followup"
	}

	var h mail.Header
	h.SetDate(date)
	h.SetMessageID(it.MessageID)
	h.SetSubject(it.Subject)
	if len(it.From) > 0 {
		h.SetAddressList("From", it.From)
	}
	h.SetAddressList("To", it.To)
	if len(it.Cc) > 0 {
		h.SetAddressList("Cc", it.Cc)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(w, it.Body); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Recipients returns the To and Cc addresses as display strings.
func (it *Item) Recipients() []string {
	out := make([]string, 0, len(it.To)+len(it.Cc))
	for _, a := range it.To {
		out = append(out, a.Address)
	}
	for _, a := range it.Cc {
		out = append(out, a.Address)
	}
	return out
}
