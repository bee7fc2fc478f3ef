package sendprompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/nhle/followup/internal/intercept"
	"github.com/nhle/followup/internal/theme"
)

// Choice is the user's answer to a blocked send.
type Choice int

const (
	// ChoiceDismiss closes the prompt; the message stays unsent.
	ChoiceDismiss Choice = iota
	// ChoiceOpenPane follows the cancel button to the pane named by the
	// completion's CommandID.
	ChoiceOpenPane
	// ChoiceSendAnyway sends the message as it is.
	ChoiceSendAnyway
)

func (c Choice) String() string {
	switch c {
	case ChoiceOpenPane:
		return "open_pane"
	case ChoiceSendAnyway:
		return "send_anyway"
	default:
		return "dismiss"
	}
}

// Prompter shows the host's "send blocked" dialog in the terminal.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	width      int
	plain      bool
	accessible bool
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithPlainText renders the prompt body without colors.
func WithPlainText() Option {
	return func(p *Prompter) { p.plain = true }
}

// WithAccessible switches the select to huh's line-based accessible mode.
func WithAccessible() Option {
	return func(p *Prompter) { p.accessible = true }
}

// New creates a prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer, width int, opts ...Option) *Prompter {
	if width <= 0 {
		width = 80
	}
	p := &Prompter{in: in, out: out, width: width}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ask renders the completion's markdown body and lets the user pick
// between its cancel label and sending anyway.
func (p *Prompter) Ask(
	ctx context.Context, opts intercept.EventCompletedOptions,
) (Choice, error) {
	style := "dark"
	if p.plain {
		style = "notty"
	}
	body, err := RenderMessage(opts.ErrorMessageMarkdown, p.width, style)
	if err != nil {
		return ChoiceDismiss, err
	}
	fmt.Fprint(p.out, body)

	choice := ChoiceOpenPane
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Choice]().
				Title("Send blocked").
				Options(Options(opts)...).
				Value(&choice),
		),
	).
		WithInput(p.in).
		WithOutput(p.out).
		WithAccessible(p.accessible).
		WithWidth(p.width)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ChoiceDismiss, nil
		}
		return ChoiceDismiss, fmt.Errorf("running send prompt: %w", err)
	}
	return choice, nil
}

// Options returns the select options for a blocked send. The cancel
// button only leads somewhere when the completion names a command.
func Options(opts intercept.EventCompletedOptions) []huh.Option[Choice] {
	var out []huh.Option[Choice]
	if opts.CommandID != "" {
		label := opts.CancelLabel
		if label == "" {
			label = "Don't Send"
		}
		out = append(out, huh.NewOption(label, ChoiceOpenPane))
	}
	if opts.SendModeOverride == intercept.SendModePromptUser {
		out = append(out, huh.NewOption(intercept.SendAnywayLabel, ChoiceSendAnyway))
	}
	out = append(out, huh.NewOption("Cancel", ChoiceDismiss))
	return out
}

// RenderMessage renders a markdown prompt body for the terminal using the
// named glamour style ("dark", "light" or "notty").
func RenderMessage(markdown string, width int, style string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return theme.PromptStyle.Render(strings.TrimRight(out, "\n")) + "\n", nil
}
