package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/joshinkan/mailserver/internal/config"
	"github.com/joshinkan/mailserver/pkg/mailer/smtp"
)

type flags struct {
	envFiles  []string
	hostname  string
	email     string
	password  string
	cc        []string
	bcc       []string
	replyTo   string
	domain    string
	listen    string
	debug     bool
	logLevel  string
	provider  string
	linebreak string
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.envFiles, "env-file", []string{".env"}, "env files to load, missing files are skipped")
	fs.StringVar(&f.hostname, "hostname", smtp.DefaultURL, "SMTP server URL: smtps:// (implicit TLS), smtp:// (STARTTLS) or smtp+plain:// (local relay)")
	fs.StringVar(&f.email, "email", "", `sender address, "Name <email>" or a bare email`)
	fs.StringVar(&f.password, "password", "", "SMTP password of the sender")
	fs.StringArrayVar(&f.cc, "cc", nil, "carbon copy address, repeatable")
	fs.StringArrayVar(&f.bcc, "bcc", nil, "blind carbon copy address, repeatable")
	fs.StringVar(&f.replyTo, "reply-to", "", "address that receives registrations")
	fs.StringVar(&f.domain, "domain", "", "public site URL, e.g. https://joshinkan.de")
	fs.StringVar(&f.listen, "listen", "", "FastCGI socket, host:port or a unix socket path (default: socket on stdin)")
	fs.BoolVar(&f.debug, "debug", false, "enable /api/print-env")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&f.provider, "provider", config.ProviderSMTP, "mail provider (smtp, resend)")
	fs.StringVar(&f.linebreak, "linebreak", config.LinebreakCRLF, "line break of multipart bodies (crlf, lf)")
}

// config loads the environment and applies the flags that were set
// explicitly, so defaults < environment < flags.
func (f *flags) config(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(f.envFiles...)
	if err != nil {
		return config.Config{}, err
	}
	f.apply(fs, &cfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (f *flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("hostname") {
		cfg.SMTP.URL = f.hostname
	}
	if fs.Changed("email") {
		cfg.Email = f.email
	}
	if fs.Changed("password") {
		cfg.SMTP.Password = f.password
	}
	if fs.Changed("cc") {
		cfg.CC = f.cc
	}
	if fs.Changed("bcc") {
		cfg.BCC = f.bcc
	}
	if fs.Changed("reply-to") {
		cfg.ReplyTo = f.replyTo
	}
	if fs.Changed("domain") {
		cfg.Domain = f.domain
	}
	if fs.Changed("listen") {
		cfg.Listen = f.listen
	}
	if fs.Changed("debug") {
		cfg.Debug = f.debug
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("provider") {
		cfg.Provider = f.provider
	}
	if fs.Changed("linebreak") {
		cfg.Linebreak = f.linebreak
	}
}
