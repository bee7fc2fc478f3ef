package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/followup/internal/keys"
	"github.com/nhle/followup/internal/model"
	"github.com/nhle/followup/internal/ui/reminderform"
)

// ReminderPane returns a launcher that runs the reminder pane as a full
// screen Bubble Tea program bound to ctx, with pick selected up front when
// it is not empty.
func ReminderPane(
	wf reminderform.Workflow, pick model.QuickPick, opts ...tea.ProgramOption,
) PaneLauncher {
	return func(ctx context.Context) error {
		m := reminderform.New(ctx, wf, keys.DefaultKeyMap(), time.Now).Preselect(pick)

		progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
		if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
			return fmt.Errorf("running reminder pane: %w", err)
		}
		return nil
	}
}

// NewLogger builds the application logger writing text records at the
// named level ("debug", "info", "warn" or "error").
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
