// Package config loads the process configuration from the environment and
// turns it into the values the server runs with.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/internal/handlers"
	"github.com/joshinkan/mailserver/pkg/formdata"
	"github.com/joshinkan/mailserver/pkg/logger"
	"github.com/joshinkan/mailserver/pkg/mailer"
	"github.com/joshinkan/mailserver/pkg/mailer/resend"
	"github.com/joshinkan/mailserver/pkg/mailer/smtp"
)

// Mail providers.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// Form line breaks.
const (
	LinebreakCRLF = "crlf"
	LinebreakLF   = "lf"
)

var (
	ErrMissingSender   = errors.New("sender email is required")
	ErrMissingPassword = errors.New("smtp password is required")
	ErrMissingAPIKey   = errors.New("resend api key is required")
	ErrMissingDomain   = errors.New("domain is required")
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidOption   = errors.New("invalid option")
)

// Config is the complete process configuration. Values come from the
// environment, optionally seeded from .env files, and may be overridden by
// command line flags before Validate is called.
type Config struct {
	// Email is the sender, "Name <email>" or a bare address.
	Email string `env:"SMTP_EMAIL"`

	// ReplyTo receives registration mails.
	ReplyTo string   `env:"SMTP_REPLY_TO"`
	CC      []string `env:"SMTP_CC" envSeparator:","`
	BCC     []string `env:"SMTP_BCC" envSeparator:","`

	// Domain is the public site URL, e.g. https://joshinkan.de.
	Domain string `env:"DOMAIN"`

	// Listen is the FastCGI socket, "host:port" or a unix socket path. When
	// empty the socket is inherited on stdin.
	Listen string `env:"FCGI_LISTEN"`

	Debug     bool   `env:"DEBUG"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Provider  string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	Linebreak string `env:"FORM_LINEBREAK" envDefault:"crlf"`

	SMTP   smtp.Config
	Resend resend.Config
	Mailer mailer.Config
	Sentry logger.SentryConfig
}

// Load reads the given .env files, skipping missing ones, then parses the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, ErrMissingSender)
	} else if _, err := mailer.ParseUser(c.Email); err != nil {
		errs = append(errs, fmt.Errorf("%w: sender: %w", ErrInvalidAddress, err))
	}
	if c.ReplyTo != "" {
		if _, err := mailer.ParseUser(c.ReplyTo); err != nil {
			errs = append(errs, fmt.Errorf("%w: reply-to: %w", ErrInvalidAddress, err))
		}
	}
	if _, err := parseUsers(c.CC); err != nil {
		errs = append(errs, fmt.Errorf("%w: cc: %w", ErrInvalidAddress, err))
	}
	if _, err := parseUsers(c.BCC); err != nil {
		errs = append(errs, fmt.Errorf("%w: bcc: %w", ErrInvalidAddress, err))
	}
	if strings.TrimSpace(c.Domain) == "" {
		errs = append(errs, ErrMissingDomain)
	}

	switch c.Provider {
	case ProviderSMTP:
		if c.SMTP.Password == "" {
			errs = append(errs, ErrMissingPassword)
		}
	case ProviderResend:
		if c.Resend.APIKey == "" {
			errs = append(errs, ErrMissingAPIKey)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: provider %q", ErrInvalidOption, c.Provider))
	}

	if _, err := c.FormLinebreak(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: log level %q", ErrInvalidOption, c.LogLevel))
	}

	return errors.Join(errs...)
}

// Level returns the configured log level, info when it does not parse.
func (c Config) Level() slog.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// FormLinebreak returns the line break multipart bodies are split on.
func (c Config) FormLinebreak() (string, error) {
	switch strings.ToLower(c.Linebreak) {
	case "", LinebreakCRLF:
		return formdata.CRLF, nil
	case LinebreakLF:
		return formdata.LF, nil
	}
	return "", fmt.Errorf("%w: linebreak %q", ErrInvalidOption, c.Linebreak)
}

// ListenAddr splits Listen into a network and an address. Paths are unix
// sockets, everything else is TCP. An empty network means stdin.
func (c Config) ListenAddr() (network, address string) {
	switch {
	case c.Listen == "":
		return "", ""
	case strings.HasPrefix(c.Listen, "unix:"):
		return "unix", strings.TrimPrefix(c.Listen, "unix:")
	case strings.HasPrefix(c.Listen, "/"), strings.HasPrefix(c.Listen, "./"):
		return "unix", c.Listen
	}
	return "tcp", c.Listen
}

// NewSender creates the mail transport for the configured provider. The SMTP
// username defaults to the sender address.
func (c Config) NewSender(log *slog.Logger) (mailer.Sender, error) {
	switch c.Provider {
	case ProviderSMTP:
		smtpCfg := c.SMTP
		if smtpCfg.Username == "" {
			sender, err := mailer.ParseUser(c.Email)
			if err != nil {
				return nil, fmt.Errorf("%w: sender: %w", ErrInvalidAddress, err)
			}
			smtpCfg.Username = sender.Email
		}
		s, err := smtp.New(smtpCfg, smtp.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderResend:
		s, err := resend.New(c.Resend)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: provider %q", ErrInvalidOption, c.Provider)
}

// ServerContext builds the shared request configuration around sender. The
// config must be valid.
func (c Config) ServerContext(sender mailer.Sender) (*internal.ServerContext, error) {
	from, err := mailer.ParseUser(c.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: sender: %w", ErrInvalidAddress, err)
	}

	var replyTo *mailer.User
	if c.ReplyTo != "" {
		u, err := mailer.ParseUser(c.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("%w: reply-to: %w", ErrInvalidAddress, err)
		}
		replyTo = &u
	}

	cc, err := parseUsers(c.CC)
	if err != nil {
		return nil, fmt.Errorf("%w: cc: %w", ErrInvalidAddress, err)
	}
	bcc, err := parseUsers(c.BCC)
	if err != nil {
		return nil, fmt.Errorf("%w: bcc: %w", ErrInvalidAddress, err)
	}

	linebreak, err := c.FormLinebreak()
	if err != nil {
		return nil, err
	}

	mailerCfg := c.Mailer
	mailerCfg.From = from

	return internal.NewServerContext(internal.ServerContext{
		Domain:    strings.TrimSuffix(c.Domain, "/"),
		Sender:    from,
		ReplyTo:   replyTo,
		CC:        cc,
		BCC:       bcc,
		Mailer:    mailer.New(sender, handlers.NewRenderer(), mailerCfg),
		Linebreak: linebreak,
		Debug:     c.Debug,
	}), nil
}

// parseUsers parses a list of addresses, ignoring blank entries left by
// trailing commas.
func parseUsers(descriptions []string) ([]mailer.User, error) {
	var out []string
	for _, d := range descriptions {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return mailer.ParseUsers(out)
}
