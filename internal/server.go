package internal

import (
	"slices"

	"github.com/joshinkan/mailserver/pkg/formdata"
	"github.com/joshinkan/mailserver/pkg/mailer"
)

// ServerContext is the process-wide configuration shared read-only by every
// request. Build it once at startup with NewServerContext.
type ServerContext struct {
	// Domain is the public site URL used for links in mails, e.g.
	// https://joshinkan.de. Request hosts are only used when it is empty.
	Domain string

	// Sender is the envelope and header From of every mail.
	Sender mailer.User

	// ReplyTo receives registration mails and is the Reply-To of every mail.
	// Nil when not configured.
	ReplyTo *mailer.User

	CC  []mailer.User
	BCC []mailer.User

	// Mailer sends the rendered mails.
	Mailer *mailer.Mailer

	// Linebreak separates lines inside multipart bodies.
	Linebreak string

	// Debug enables introspection routes.
	Debug bool
}

// NewServerContext copies the slices and the reply-to address so later
// changes by the caller cannot leak into running requests.
func NewServerContext(sc ServerContext) *ServerContext {
	out := sc
	out.CC = slices.Clone(sc.CC)
	out.BCC = slices.Clone(sc.BCC)
	if sc.ReplyTo != nil {
		replyTo := *sc.ReplyTo
		out.ReplyTo = &replyTo
	}
	if out.Linebreak == "" {
		out.Linebreak = formdata.CRLF
	}
	return &out
}
