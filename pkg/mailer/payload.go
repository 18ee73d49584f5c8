package mailer

import (
	"bytes"
	"maps"
	"mime"
	"mime/quotedprintable"
	"net/textproto"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// reserved headers are always generated by Payload and cannot be overridden
// through Email.Headers.
var reservedHeaders = map[string]struct{}{
	"To":                        {},
	"From":                      {},
	"Subject":                   {},
	"Reply-To":                  {},
	"Cc":                        {},
	"Bcc":                       {},
	"Date":                      {},
	"Message-Id":                {},
	"Mime-Version":              {},
	"Content-Type":              {},
	"Content-Transfer-Encoding": {},
}

// Payload serializes e as an RFC 5322 message with CRLF line endings:
// To, From, Subject and Reply-To first, then the remaining headers, a blank
// line and the quoted-printable HTML body.
//
// Payload panics if e has no To recipient. Callers check Validate first.
func (e *Email) Payload() []byte {
	if len(e.To) == 0 {
		panic("mailer: payload requested for an email without recipients")
	}

	date := e.Date
	if date.IsZero() {
		date = time.Now()
	}
	messageID := e.MessageID
	if messageID == "" {
		messageID = NewMessageID(e.From)
	}

	var b bytes.Buffer
	writeHeader(&b, "To", joinAddresses(e.To))
	writeHeader(&b, "From", e.From.Address())
	writeHeader(&b, "Subject", mime.QEncoding.Encode("utf-8", e.Subject))
	writeHeader(&b, "Reply-To", e.replyTo().Address())
	if len(e.CC) > 0 {
		writeHeader(&b, "Cc", joinAddresses(e.CC))
	}
	writeHeader(&b, "Date", date.Format(time.RFC1123Z))
	writeHeader(&b, "Message-ID", "<"+messageID+">")
	writeHeader(&b, "MIME-Version", "1.0")
	writeHeader(&b, "Content-Type", "text/html; charset=UTF-8")
	writeHeader(&b, "Content-Transfer-Encoding", "quoted-printable")

	for _, key := range slices.Sorted(maps.Keys(e.Headers)) {
		canonical := textproto.CanonicalMIMEHeaderKey(key)
		if _, ok := reservedHeaders[canonical]; ok {
			continue
		}
		writeHeader(&b, canonical, e.Headers[key])
	}
	b.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&b)
	qp.Write([]byte(e.HTML))
	qp.Close()

	return b.Bytes()
}

// Validate checks the invariants a Sender relies on.
func (e *Email) Validate() error {
	switch {
	case len(e.To) == 0:
		return ErrNoRecipient
	case e.From.IsZero():
		return ErrNoSender
	case e.Subject == "":
		return ErrNoSubject
	case e.HTML == "":
		return ErrNoContent
	}
	return nil
}

// NewMessageID generates a globally unique Message-ID (without angle
// brackets) in the sender's domain.
func NewMessageID(from User) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from.Email, "@"); ok && d != "" {
		domain = d
	}
	return uuid.NewString() + "@" + domain
}

var headerValueReplacer = strings.NewReplacer("\r", " ", "\n", " ")

func writeHeader(b *bytes.Buffer, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(headerValueReplacer.Replace(value))
	b.WriteString("\r\n")
}

func joinAddresses(users []User) string {
	addrs := make([]string, len(users))
	for i, u := range users {
		addrs[i] = u.Address()
	}
	return strings.Join(addrs, ", ")
}
