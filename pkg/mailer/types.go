package mailer

import "time"

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
// Providers without tag support ignore them.
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Headers map[string]string // Custom headers
	Tags    Tags              // Provider-specific tags/categories
	Subject string            // Email subject
	HTML    string            // HTML body content
	Text    string            // Plain text alternative
	From    User              // Sender, also used as the envelope sender
	ReplyTo *User             // Reply-to address, defaults to From
	To      []User            // Recipients (at least one required)
	CC      []User            // Carbon copy recipients
	BCC     []User            // Blind carbon copy recipients

	// Date and MessageID are generated when the payload is built if unset.
	Date      time.Time
	MessageID string
}

// Recipients returns To, CC and BCC in that order. These are the envelope
// recipients; BCC never shows up in the payload headers.
func (e *Email) Recipients() []User {
	out := make([]User, 0, len(e.To)+len(e.CC)+len(e.BCC))
	out = append(out, e.To...)
	out = append(out, e.CC...)
	out = append(out, e.BCC...)
	return out
}

// replyTo returns the explicit reply-to address or the sender.
func (e *Email) replyTo() User {
	if e.ReplyTo != nil && !e.ReplyTo.IsZero() {
		return *e.ReplyTo
	}
	return e.From
}
