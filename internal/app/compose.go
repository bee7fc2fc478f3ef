package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nhle/followup/internal/host"
	"github.com/nhle/followup/internal/intercept"
	"github.com/nhle/followup/internal/ui/sendprompt"
)

// Outcome describes how a send attempt from the compose window ended.
type Outcome int

const (
	// OutcomeSent means the message left the outbox.
	OutcomeSent Outcome = iota
	// OutcomeSendUnavailable means the host cannot send; the user has to
	// press Send manually.
	OutcomeSendUnavailable
	// OutcomePaneClosed means the user followed the prompt to a task pane
	// and the pane has been closed again.
	OutcomePaneClosed
	// OutcomeBlocked means the handler blocked the send without offering a
	// choice.
	OutcomeBlocked
	// OutcomeDismissed means the user closed the prompt.
	OutcomeDismissed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeSendUnavailable:
		return "send_unavailable"
	case OutcomePaneClosed:
		return "pane_closed"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Prompter shows the dialog for a blocked send.
type Prompter interface {
	Ask(ctx context.Context, opts intercept.EventCompletedOptions) (sendprompt.Choice, error)
}

// PaneLauncher opens a task pane and blocks until it is closed.
type PaneLauncher func(ctx context.Context) error

// Compose plays the host side of a compose window: it raises the send
// event, honors the handler's completion and routes the user's answer.
type Compose struct {
	registry *intercept.Registry
	mailbox  host.Mailbox
	prompter Prompter
	panes    map[string]PaneLauncher
	logger   *slog.Logger
}

// NewCompose wires a compose window. The registry must hold the send
// handler and panes must hold every command the handler can name.
func NewCompose(
	registry *intercept.Registry,
	mailbox host.Mailbox,
	prompter Prompter,
	panes map[string]PaneLauncher,
	logger *slog.Logger,
) (*Compose, error) {
	if err := registry.Validate(intercept.OnMessageSendHandlerName); err != nil {
		return nil, err
	}
	if _, ok := panes[intercept.OpenPaneCommandID]; !ok {
		return nil, fmt.Errorf("no pane registered for command %q", intercept.OpenPaneCommandID)
	}

	return &Compose{
		registry: registry,
		mailbox:  mailbox,
		prompter: prompter,
		panes:    panes,
		logger:   logger,
	}, nil
}

// Send raises the send event for the composed message and carries out
// whatever the handler and the user decide.
func (c *Compose) Send(ctx context.Context) (Outcome, error) {
	rec := &recordingEvent{}
	event := intercept.Once(rec)

	if err := c.registry.Dispatch(ctx, intercept.OnMessageSendHandlerName, event); err != nil {
		return OutcomeBlocked, fmt.Errorf("dispatching send event: %w", err)
	}
	if n := event.DroppedCompletions(); n > 0 {
		c.logger.Warn("send handler completed more than once", "extra", n)
	}

	opts, ok := rec.result()
	if !ok {
		return OutcomeBlocked, errors.New("send handler did not complete the event")
	}

	if opts.AllowEvent {
		return c.sendNow(ctx)
	}

	if opts.SendModeOverride != intercept.SendModePromptUser && opts.CommandID == "" {
		c.logger.Info("send blocked by handler")
		return OutcomeBlocked, nil
	}

	choice, err := c.prompter.Ask(ctx, opts)
	if err != nil {
		return OutcomeBlocked, err
	}
	c.logger.Debug("send prompt answered", "choice", choice.String())

	switch choice {
	case sendprompt.ChoiceOpenPane:
		launch, ok := c.panes[opts.CommandID]
		if !ok {
			return OutcomeBlocked, fmt.Errorf("no pane registered for command %q", opts.CommandID)
		}
		if err := launch(ctx); err != nil {
			return OutcomeBlocked, fmt.Errorf("running pane %q: %w", opts.CommandID, err)
		}
		return OutcomePaneClosed, nil

	case sendprompt.ChoiceSendAnyway:
		return c.sendNow(ctx)

	default:
		return OutcomeDismissed, nil
	}
}

func (c *Compose) sendNow(ctx context.Context) (Outcome, error) {
	err := c.mailbox.Send(ctx)
	switch {
	case err == nil:
		c.logger.Info("message sent")
		return OutcomeSent, nil
	case errors.Is(err, host.ErrSendUnavailable):
		return OutcomeSendUnavailable, nil
	default:
		return OutcomeBlocked, fmt.Errorf("sending message: %w", err)
	}
}

// recordingEvent keeps the completion handed back by the send handler.
type recordingEvent struct {
	mu   sync.Mutex
	opts intercept.EventCompletedOptions
	done bool
}

func (e *recordingEvent) Completed(opts intercept.EventCompletedOptions) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
	e.done = true
}

func (e *recordingEvent) result() (intercept.EventCompletedOptions, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts, e.done
}
