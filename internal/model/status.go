package model

// StatusKind is the phase of the reminder form.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// UIStatus drives what the reminder form renders below its controls.
// Message is empty for StatusIdle.
type UIStatus struct {
	Kind    StatusKind
	Message string
}

// Loading reports whether a workflow call is in flight.
func (s UIStatus) Loading() bool {
	return s.Kind == StatusLoading
}
