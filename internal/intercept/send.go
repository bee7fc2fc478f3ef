package intercept

import (
	"context"
	"fmt"
	"log/slog"
)

// Names used to wire the send interceptor to the host.
const (
	OnMessageSendHandlerName = "onMessageSendHandler"
	OpenPaneCommandID        = "msgComposeOpenPaneButton"
	SetReminderLabel         = "Set Reminder"
	SendAnywayLabel          = "Send Anyway"
)

const promptMarkdown = "**Would you like to set a follow-up reminder?**\n\n" +
	"Click **Set Reminder** to pick a date, or **Send Anyway** to send without a reminder."

// SendInterceptor blocks every outgoing message and asks the user
// whether to set a follow-up reminder first.
type SendInterceptor struct {
	logger *slog.Logger
	prompt func() EventCompletedOptions
}

// NewSendInterceptor creates the interceptor.
func NewSendInterceptor(logger *slog.Logger) *SendInterceptor {
	return &SendInterceptor{
		logger: logger,
		prompt: ReminderPrompt,
	}
}

// ReminderPrompt returns the completion that blocks the send and offers
// the reminder pane.
func ReminderPrompt() EventCompletedOptions {
	return EventCompletedOptions{
		AllowEvent:           false,
		CancelLabel:          SetReminderLabel,
		CommandID:            OpenPaneCommandID,
		SendModeOverride:     SendModePromptUser,
		ErrorMessageMarkdown: promptMarkdown,
	}
}

// fallbackPrompt is used when the regular prompt could not be built.
func fallbackPrompt() EventCompletedOptions {
	return EventCompletedOptions{
		AllowEvent:           false,
		CancelLabel:          SetReminderLabel,
		CommandID:            OpenPaneCommandID,
		SendModeOverride:     SendModePromptUser,
		ErrorMessageMarkdown: "Would you like to set a follow-up reminder?",
	}
}

// OnMessageSend completes the event exactly once on every path, even if
// building the prompt panics.
func (s *SendInterceptor) OnMessageSend(ctx context.Context, event Event) {
	completed := false
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("building send prompt panicked", "panic", fmt.Sprint(r))
		}
		if !completed {
			completed = true
			event.Completed(fallbackPrompt())
		}
	}()

	opts := s.prompt()

	completed = true
	event.Completed(opts)
	s.logger.Debug("send intercepted", "command_id", opts.CommandID)
}

// Register associates the interceptor with its handler name.
func (s *SendInterceptor) Register(r *Registry) error {
	return r.Associate(OnMessageSendHandlerName, s.OnMessageSend)
}
