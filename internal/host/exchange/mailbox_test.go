package exchange

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neilotoole/slogt"

	"github.com/nhle/followup/internal/host"
	"github.com/nhle/followup/internal/model"
	"github.com/nhle/followup/internal/workflow"
	"github.com/nhle/followup/tests/testutil"
)

const sampleMessage = "From: Ana <ana@example.com>\r\n" +
	"To: Bo <bo@example.com>\r\n" +
	"Cc: cy@example.com\r\n" +
	"Subject: Quarterly numbers\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Please review by Friday.\r\n"

type fakeDrafts struct {
	created [][]byte
	sent    []string
	nextID  string
	sendErr error
}

func (f *fakeDrafts) CreateDraft(_ context.Context, mime []byte) (string, error) {
	f.created = append(f.created, mime)
	return f.nextID, nil
}

func (f *fakeDrafts) SendItem(_ context.Context, itemID string) error {
	f.sent = append(f.sent, itemID)
	return f.sendErr
}

func newTestMailbox(t *testing.T, requirementSet string) (*Mailbox, *fakeDrafts) {
	t.Helper()

	item, err := ParseItem(strings.NewReader(sampleMessage))
	if err != nil {
		t.Fatalf("ParseItem() error: %v", err)
	}

	drafts := &fakeDrafts{nextID: "AAMk/1+2"}
	token := func(context.Context) (string, error) { return "tok", nil }
	cfg := model.MailboxConfig{
		RestURL:        "https://outlook.office.com/api/",
		RequirementSet: requirementSet,
	}

	m := New(item, drafts, token, cfg, slogt.New(t))
	m.now = func() time.Time { return time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC) }
	return m, drafts
}

func TestParseItem(t *testing.T) {
	item, err := ParseItem(strings.NewReader(sampleMessage))
	if err != nil {
		t.Fatalf("ParseItem() error: %v", err)
	}

	if item.Subject != "Quarterly numbers" {
		t.Errorf("Subject = %q", item.Subject)
	}
	if len(item.From) != 1 || item.From[0].Address != "ana@example.com" {
		t.Errorf("From = %v", item.From)
	}
	got := strings.Join(item.Recipients(), ",")
	if got != "bo@example.com,cy@example.com" {
		t.Errorf("Recipients() = %q", got)
	}
	if !strings.Contains(item.Body, "Please review by Friday.") {
		t.Errorf("Body = %q", item.Body)
	}
}

func TestParseItem_NoRecipients(t *testing.T) {
	msg := "From: ana@example.com\r\nSubject: lonely\r\n\r\nhello\r\n"
	if _, err := ParseItem(strings.NewReader(msg)); err == nil {
		t.Fatal("expected error for message without recipients")
	}
}

func TestMailbox_SaveDraft(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.15")

	id, err := m.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}
	if id != "AAMk/1+2" {
		t.Fatalf("SaveDraft() = %q, want %q", id, "AAMk/1+2")
	}
	if len(drafts.created) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts.created))
	}

	mime := strings.ToLower(string(drafts.created[0]))
	for _, want := range []string{"subject: quarterly numbers", "message-id: <", "please review by friday."} {
		if !strings.Contains(mime, want) {
			t.Errorf("draft MIME missing %q:\n%s", want, mime)
		}
	}

	if got := m.ConvertToRestID(id); got != "AAMk-1_2" {
		t.Errorf("ConvertToRestID() = %q, want %q", got, "AAMk-1_2")
	}
	if got := m.RestURL(); got != "https://outlook.office.com/api" {
		t.Errorf("RestURL() = %q", got)
	}
}

func TestMailbox_SaveDraft_ReusesFirstDraft(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.15")

	first, err := m.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}
	drafts.nextID = "AAMk/other"
	second, err := m.SaveDraft(context.Background())
	if err != nil {
		t.Fatalf("second SaveDraft() error: %v", err)
	}

	if first != second {
		t.Fatalf("SaveDraft() ids differ: %q then %q", first, second)
	}
	if len(drafts.created) != 1 {
		t.Fatalf("expected exactly one CreateDraft, got %d", len(drafts.created))
	}
}

func TestMailbox_RetriedWorkflowKeepsSingleDraft(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.15")

	rest := testutil.NewFakeRESTPatcher(nil)
	rest.Err = errors.New("REST PATCH failed (500): oops")
	legacy := testutil.NewFakeLegacyPatcher(nil)
	legacy.Err = errors.New("EWS UpdateItem failed: ErrorAccessDenied")
	svc := workflow.New(m, rest, legacy, slogt.New(t))

	r := model.ReminderRange{
		Start: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Due:   time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.SetFlagAndSend(context.Background(), r); err == nil {
			t.Fatalf("attempt %d: expected flag failure", i+1)
		}
	}

	if len(drafts.created) != 1 {
		t.Fatalf("one compose item produced %d drafts", len(drafts.created))
	}
	if len(legacy.Calls) != 2 || legacy.Calls[0].ItemID != legacy.Calls[1].ItemID {
		t.Fatalf("retries should flag the same draft, got %+v", legacy.Calls)
	}
}

func TestMailbox_Send_SavesDraftFirst(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.15")

	if err := m.Send(context.Background()); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(drafts.created) != 1 {
		t.Fatalf("expected draft to be saved before send, got %d drafts", len(drafts.created))
	}
	if len(drafts.sent) != 1 || drafts.sent[0] != "AAMk/1+2" {
		t.Fatalf("unexpected sends %v", drafts.sent)
	}
}

func TestMailbox_Send_ReusesSavedDraft(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.16")

	if _, err := m.SaveDraft(context.Background()); err != nil {
		t.Fatalf("SaveDraft() error: %v", err)
	}
	if err := m.Send(context.Background()); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(drafts.created) != 1 {
		t.Fatalf("expected a single draft, got %d", len(drafts.created))
	}
}

func TestMailbox_Send_Unavailable(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.14")

	err := m.Send(context.Background())
	if !errors.Is(err, host.ErrSendUnavailable) {
		t.Fatalf("expected ErrSendUnavailable, got %v", err)
	}
	if len(drafts.sent) != 0 {
		t.Fatalf("expected no send, got %v", drafts.sent)
	}
}

func TestMailbox_Send_PropagatesError(t *testing.T) {
	m, drafts := newTestMailbox(t, "1.15")
	drafts.sendErr = errors.New("EWS SendItem failed")

	err := m.Send(context.Background())
	if err == nil || errors.Is(err, host.ErrSendUnavailable) {
		t.Fatalf("expected generic send error, got %v", err)
	}
}

func TestSupportsRequirementSet(t *testing.T) {
	tests := []struct {
		have string
		want bool
	}{
		{"1.15", true},
		{"1.16", true},
		{"2.0", true},
		{"2", true},
		{"1.14", false},
		{"1.9", false},
		{"", false},
		{"latest", false},
	}

	for _, tt := range tests {
		if got := SupportsRequirementSet(tt.have, "1.15"); got != tt.want {
			t.Errorf("SupportsRequirementSet(%q, 1.15) = %v, want %v", tt.have, got, tt.want)
		}
	}
}
