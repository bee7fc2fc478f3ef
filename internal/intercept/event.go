package intercept

import "sync"

// SendModeOverride tells the host how to treat a blocked send.
type SendModeOverride int

const (
	// SendModeDefault keeps the send blocked with no further choice.
	SendModeDefault SendModeOverride = iota
	// SendModePromptUser asks the user to pick between the cancel label
	// and sending anyway.
	SendModePromptUser
	// SendModeSoftBlock blocks unless the user changes the item.
	SendModeSoftBlock
)

func (s SendModeOverride) String() string {
	switch s {
	case SendModePromptUser:
		return "promptUser"
	case SendModeSoftBlock:
		return "softBlock"
	default:
		return "default"
	}
}

// EventCompletedOptions is the decision an event handler hands back to
// the host.
type EventCompletedOptions struct {
	// AllowEvent lets the send proceed unconditionally when true.
	AllowEvent bool

	// CancelLabel replaces the "Don't Send" button text.
	CancelLabel string

	// CommandID names the pane the cancel button opens.
	CommandID string

	// SendModeOverride selects the prompt the host shows.
	SendModeOverride SendModeOverride

	// ErrorMessageMarkdown is the prompt body.
	ErrorMessageMarkdown string
}

// Event is a host event awaiting completion. Completed must be called
// exactly once; until then the host operation stays pending.
type Event interface {
	Completed(opts EventCompletedOptions)
}

// OnceEvent forwards only the first completion to the wrapped event.
type OnceEvent struct {
	mu     sync.Mutex
	inner  Event
	done   bool
	extras int
}

// Once wraps an event so that repeated completions are dropped.
func Once(e Event) *OnceEvent {
	return &OnceEvent{inner: e}
}

// Completed forwards opts on the first call and counts later calls.
func (o *OnceEvent) Completed(opts EventCompletedOptions) {
	o.mu.Lock()
	if o.done {
		o.extras++
		o.mu.Unlock()
		return
	}
	o.done = true
	o.mu.Unlock()

	o.inner.Completed(opts)
}

// Done reports whether the event has been completed.
func (o *OnceEvent) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.done
}

// DroppedCompletions returns how many extra completions were ignored.
func (o *OnceEvent) DroppedCompletions() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.extras
}
