package smtp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/url"
)

// DefaultURL is Gmail's implicit TLS submission endpoint.
const DefaultURL = "smtps://smtp.gmail.com:465"

// Config holds SMTP provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// URL is smtps://host[:port] for implicit TLS (default port 465),
	// smtp://host[:port] for STARTTLS (default port 587, the server must
	// offer it) or smtp+plain://host[:port] for an unencrypted local relay
	// (default port 25).
	URL      string `env:"SMTP_HOSTNAME" envDefault:"smtps://smtp.gmail.com:465"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`

	// LocalName is sent with EHLO.
	LocalName string `env:"SMTP_LOCAL_NAME" envDefault:"localhost"`
}

// Option configures a Sender.
type Option func(*Sender)

// WithTLSConfig sets the TLS configuration for implicit TLS and STARTTLS.
// The server name is filled in from the URL when empty.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Sender) {
		if cfg != nil {
			s.tlsConfig = cfg.Clone()
		}
	}
}

// WithLogger sets the logger used for non-fatal session events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type security int

const (
	securityStartTLS security = iota
	securityTLS
	securityNone
)

type endpoint struct {
	addr     string
	host     string
	security security
}

func parseURL(raw string) (endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var ep endpoint
	port := u.Port()
	switch u.Scheme {
	case "smtps":
		ep.security = securityTLS
		if port == "" {
			port = "465"
		}
	case "smtp":
		ep.security = securityStartTLS
		if port == "" {
			port = "587"
		}
	case "smtp+plain":
		ep.security = securityNone
		if port == "" {
			port = "25"
		}
	default:
		return endpoint{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	ep.host = u.Hostname()
	if ep.host == "" {
		return endpoint{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	ep.addr = net.JoinHostPort(ep.host, port)
	return ep, nil
}
