package imapmail

import "time"

// Envelope holds the envelope data of a flagged message.
type Envelope struct {
	MessageID string
	Subject   string
	To        []string
	Date      time.Time
	Flags     []string // \Seen, \Flagged, \Answered
	UID       uint32
}

// Flagged reports whether the envelope carries the \Flagged flag.
func (e Envelope) Flagged() bool {
	for _, f := range e.Flags {
		if f == `\Flagged` {
			return true
		}
	}
	return false
}
