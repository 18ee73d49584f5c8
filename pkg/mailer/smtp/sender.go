package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/joshinkan/mailserver/pkg/mailer"
)

const dialTimeout = 30 * time.Second

// Sender implements mailer.Sender by opening one SMTP session per email.
type Sender struct {
	endpoint  endpoint
	username  string
	password  string
	localName string
	tlsConfig *tls.Config
	logger    *slog.Logger
}

// New creates a new SMTP sender. No connection is made until Send.
func New(cfg Config, opts ...Option) (*Sender, error) {
	rawURL := cfg.URL
	if rawURL == "" {
		rawURL = DefaultURL
	}
	ep, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	s := &Sender{
		endpoint:  ep,
		username:  cfg.Username,
		password:  cfg.Password,
		localName: cfg.LocalName,
		logger:    slog.New(slog.DiscardHandler),
	}
	if s.localName == "" {
		s.localName = "localhost"
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tlsConfig == nil {
		s.tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if s.tlsConfig.ServerName == "" {
		s.tlsConfig.ServerName = ep.host
	}
	return s, nil
}

// Send implements mailer.Sender. The envelope sender is email.From and the
// envelope recipients are To, CC and BCC. The connection is closed on every
// return path.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &Error{Stage: StageDial, Err: err}
	}

	c, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Hello(s.localName); err != nil {
		return &Error{Stage: StageHello, Err: err}
	}

	if s.username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return &Error{Stage: StageAuth, Err: ErrAuthUnsupported}
		}
		if err := c.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
			return &Error{Stage: StageAuth, Err: err}
		}
	}

	if err := c.Mail(email.From.Email, nil); err != nil {
		return &Error{Stage: StageMail, Err: err}
	}
	for _, rcpt := range envelopeRecipients(email) {
		if err := c.Rcpt(rcpt, nil); err != nil {
			return &Error{Stage: StageRcpt, Err: err}
		}
	}

	w, err := c.Data()
	if err != nil {
		return &Error{Stage: StageData, Err: err}
	}
	if _, err := io.Copy(w, newPayloadReader(email.Payload())); err != nil {
		return &Error{Stage: StageData, Err: errors.Join(err, w.Close())}
	}
	if err := w.Close(); err != nil {
		return &Error{Stage: StageData, Err: err}
	}

	// the message is accepted at this point
	if err := c.Quit(); err != nil {
		s.logger.WarnContext(ctx, "smtp quit failed",
			slog.String("stage", string(StageQuit)),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// dial connects according to the endpoint security. For STARTTLS the
// upgrade happens before Hello, so the pre-TLS EHLO uses the go-smtp default
// name; a server without STARTTLS is an error, never a plaintext fallback.
func (s *Sender) dial(ctx context.Context) (*gosmtp.Client, error) {
	d := &net.Dialer{Timeout: dialTimeout}

	if s.endpoint.security == securityTLS {
		td := &tls.Dialer{NetDialer: d, Config: s.tlsConfig}
		conn, err := td.DialContext(ctx, "tcp", s.endpoint.addr)
		if err != nil {
			return nil, &Error{Stage: StageDial, Err: err}
		}
		return gosmtp.NewClient(conn), nil
	}

	conn, err := d.DialContext(ctx, "tcp", s.endpoint.addr)
	if err != nil {
		return nil, &Error{Stage: StageDial, Err: err}
	}
	if s.endpoint.security == securityNone {
		return gosmtp.NewClient(conn), nil
	}

	c, err := gosmtp.NewClientStartTLS(conn, s.tlsConfig)
	if err != nil {
		return nil, &Error{Stage: StageStartTLS, Err: err}
	}
	return c, nil
}

// envelopeRecipients lists every address once, keeping the first occurrence.
func envelopeRecipients(email *mailer.Email) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range email.Recipients() {
		key := strings.ToLower(u.Email)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u.Email)
	}
	return out
}
