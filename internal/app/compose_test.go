package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neilotoole/slogt"

	"github.com/nhle/followup/internal/host"
	"github.com/nhle/followup/internal/intercept"
	"github.com/nhle/followup/internal/ui/sendprompt"
	"github.com/nhle/followup/tests/testutil"
)

type fakePrompter struct {
	choice sendprompt.Choice
	err    error
	asked  []intercept.EventCompletedOptions
}

func (f *fakePrompter) Ask(
	_ context.Context, opts intercept.EventCompletedOptions,
) (sendprompt.Choice, error) {
	f.asked = append(f.asked, opts)
	return f.choice, f.err
}

type fixture struct {
	mailbox  *testutil.FakeMailbox
	prompter *fakePrompter
	paneRuns int
	paneErr  error
	compose  *Compose
}

func newFixture(t *testing.T, choice sendprompt.Choice) *fixture {
	t.Helper()

	logger := slogt.New(t)
	reg := intercept.NewRegistry()
	if err := intercept.NewSendInterceptor(logger).Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	f := &fixture{
		mailbox:  testutil.NewFakeMailbox(),
		prompter: &fakePrompter{choice: choice},
	}
	panes := map[string]PaneLauncher{
		intercept.OpenPaneCommandID: func(context.Context) error {
			f.paneRuns++
			return f.paneErr
		},
	}

	c, err := NewCompose(reg, f.mailbox, f.prompter, panes, logger)
	if err != nil {
		t.Fatalf("NewCompose() error: %v", err)
	}
	f.compose = c
	return f
}

func TestComposeSend_OpensPane(t *testing.T) {
	f := newFixture(t, sendprompt.ChoiceOpenPane)

	got, err := f.compose.Send(context.Background())
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if got != OutcomePaneClosed {
		t.Fatalf("Send() = %v, want %v", got, OutcomePaneClosed)
	}
	if f.paneRuns != 1 {
		t.Fatalf("pane ran %d times, want 1", f.paneRuns)
	}
	if len(f.mailbox.CallLog()) != 0 {
		t.Fatalf("mailbox must not be touched, got %v", f.mailbox.CallLog())
	}

	if diff := cmp.Diff([]intercept.EventCompletedOptions{intercept.ReminderPrompt()}, f.prompter.asked); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeSend_SendAnyway(t *testing.T) {
	tests := []struct {
		name    string
		sendErr error
		want    Outcome
		wantErr bool
	}{
		{name: "sent", want: OutcomeSent},
		{name: "unavailable", sendErr: host.ErrSendUnavailable, want: OutcomeSendUnavailable},
		{name: "failure", sendErr: errors.New("sendAsync failed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sendprompt.ChoiceSendAnyway)
			f.mailbox.SendErr = tt.sendErr

			got, err := f.compose.Send(context.Background())
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "sendAsync failed") {
					t.Fatalf("expected send failure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Send() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Send() = %v, want %v", got, tt.want)
			}
			if diff := cmp.Diff([]string{"send"}, f.mailbox.CallLog()); diff != "" {
				t.Fatalf("call log mismatch (-want +got):\n%s", diff)
			}
			if f.paneRuns != 0 {
				t.Fatal("pane must not open when sending anyway")
			}
		})
	}
}

func TestComposeSend_Dismissed(t *testing.T) {
	f := newFixture(t, sendprompt.ChoiceDismiss)

	got, err := f.compose.Send(context.Background())
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if got != OutcomeDismissed {
		t.Fatalf("Send() = %v, want %v", got, OutcomeDismissed)
	}
	if len(f.mailbox.CallLog()) != 0 || f.paneRuns != 0 {
		t.Fatal("dismissing the prompt must not send or open the pane")
	}
}

func TestComposeSend_PaneError(t *testing.T) {
	f := newFixture(t, sendprompt.ChoiceOpenPane)
	f.paneErr = errors.New("tty unavailable")

	if _, err := f.compose.Send(context.Background()); err == nil {
		t.Fatal("expected pane error, got nil")
	}
}

func TestComposeSend_AllowEvent(t *testing.T) {
	logger := slogt.New(t)
	reg := intercept.NewRegistry()
	err := reg.Associate(intercept.OnMessageSendHandlerName, func(_ context.Context, e intercept.Event) {
		e.Completed(intercept.EventCompletedOptions{AllowEvent: true})
		e.Completed(intercept.EventCompletedOptions{AllowEvent: false})
	})
	if err != nil {
		t.Fatalf("Associate() error: %v", err)
	}

	mb := testutil.NewFakeMailbox()
	prompter := &fakePrompter{}
	panes := map[string]PaneLauncher{
		intercept.OpenPaneCommandID: func(context.Context) error { return nil },
	}
	c, err := NewCompose(reg, mb, prompter, panes, logger)
	if err != nil {
		t.Fatalf("NewCompose() error: %v", err)
	}

	got, err := c.Send(context.Background())
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if got != OutcomeSent {
		t.Fatalf("Send() = %v, want %v", got, OutcomeSent)
	}
	if len(prompter.asked) != 0 {
		t.Fatal("allowed sends must not prompt")
	}
}

func TestComposeSend_HandlerNeverCompletes(t *testing.T) {
	reg := intercept.NewRegistry()
	err := reg.Associate(intercept.OnMessageSendHandlerName, func(context.Context, intercept.Event) {})
	if err != nil {
		t.Fatalf("Associate() error: %v", err)
	}
	panes := map[string]PaneLauncher{
		intercept.OpenPaneCommandID: func(context.Context) error { return nil },
	}
	c, err := NewCompose(reg, testutil.NewFakeMailbox(), &fakePrompter{}, panes, slogt.New(t))
	if err != nil {
		t.Fatalf("NewCompose() error: %v", err)
	}

	if _, err := c.Send(context.Background()); err == nil {
		t.Fatal("expected error for an uncompleted event")
	}
}

func TestNewCompose_Validation(t *testing.T) {
	logger := slogt.New(t)
	mb := testutil.NewFakeMailbox()

	if _, err := NewCompose(intercept.NewRegistry(), mb, &fakePrompter{}, map[string]PaneLauncher{
		intercept.OpenPaneCommandID: func(context.Context) error { return nil },
	}, logger); err == nil || !strings.Contains(err.Error(), intercept.OnMessageSendHandlerName) {
		t.Fatalf("expected missing handler error, got %v", err)
	}

	reg := intercept.NewRegistry()
	if err := intercept.NewSendInterceptor(logger).Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := NewCompose(reg, mb, &fakePrompter{}, nil, logger); err == nil {
		t.Fatal("expected missing pane error, got nil")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error level should be enabled")
	}

	if _, err := NewLogger(&buf, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
