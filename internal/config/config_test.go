package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshinkan/mailserver/internal/config"
	"github.com/joshinkan/mailserver/pkg/formdata"
	"github.com/joshinkan/mailserver/pkg/mailer"
	"github.com/joshinkan/mailserver/pkg/mailer/resend"
	"github.com/joshinkan/mailserver/pkg/mailer/smtp"
)

func validConfig() config.Config {
	cfg := config.Config{
		Email:     "Joshinkan <info@joshinkan.de>",
		ReplyTo:   "team@joshinkan.de",
		CC:        []string{"cc@joshinkan.de"},
		BCC:       []string{"Archiv <bcc@joshinkan.de>", " "},
		Domain:    "https://joshinkan.de/",
		LogLevel:  "info",
		Provider:  config.ProviderSMTP,
		Linebreak: config.LinebreakCRLF,
	}
	cfg.SMTP.Password = "secret"
	return cfg
}

func TestLoad(t *testing.T) {
	t.Setenv("SMTP_EMAIL", "info@joshinkan.de")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_CC", "a@joshinkan.de,b@joshinkan.de")
	t.Setenv("DOMAIN", "https://joshinkan.de")
	t.Setenv("DEBUG", "true")
	t.Setenv("FORM_LINEBREAK", "lf")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "info@joshinkan.de", cfg.Email)
	require.Equal(t, "secret", cfg.SMTP.Password)
	require.Equal(t, []string{"a@joshinkan.de", "b@joshinkan.de"}, cfg.CC)
	require.Equal(t, "https://joshinkan.de", cfg.Domain)
	require.True(t, cfg.Debug)
	require.Equal(t, "lf", cfg.Linebreak)

	require.Equal(t, smtp.DefaultURL, cfg.SMTP.URL)
	require.Equal(t, config.ProviderSMTP, cfg.Provider)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "base.html", cfg.Mailer.DefaultLayout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvFile(t *testing.T) {
	// the file sets variables for the whole process; restore them afterwards
	t.Setenv("SMTP_REPLY_TO", "")
	require.NoError(t, os.Unsetenv("SMTP_REPLY_TO"))
	t.Setenv("DOMAIN", "https://from-env.de")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("SMTP_REPLY_TO=team@joshinkan.de\nDOMAIN=https://from-file.de\n"), 0o600))

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"), file)
	require.NoError(t, err)
	require.Equal(t, "team@joshinkan.de", cfg.ReplyTo)
	require.Equal(t, "https://from-env.de", cfg.Domain)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
		err    error
	}{
		{"missing sender", func(c *config.Config) { c.Email = "" }, config.ErrMissingSender},
		{"invalid sender", func(c *config.Config) { c.Email = "invalid@invalid" }, mailer.ErrInvalidEmail},
		{"invalid reply-to", func(c *config.Config) { c.ReplyTo = "<team>" }, config.ErrInvalidAddress},
		{"invalid cc", func(c *config.Config) { c.CC = []string{"nope"} }, config.ErrInvalidAddress},
		{"invalid bcc", func(c *config.Config) { c.BCC = []string{"x@y"} }, config.ErrInvalidAddress},
		{"missing domain", func(c *config.Config) { c.Domain = " " }, config.ErrMissingDomain},
		{"missing password", func(c *config.Config) { c.SMTP.Password = "" }, config.ErrMissingPassword},
		{"resend without key", func(c *config.Config) { c.Provider = config.ProviderResend }, config.ErrMissingAPIKey},
		{"unknown provider", func(c *config.Config) { c.Provider = "sendmail" }, config.ErrInvalidOption},
		{"unknown linebreak", func(c *config.Config) { c.Linebreak = "cr" }, config.ErrInvalidOption},
		{"unknown log level", func(c *config.Config) { c.LogLevel = "verbose" }, config.ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validConfig().Validate())
	})

	t.Run("resend with key", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.Provider = config.ProviderResend
		cfg.SMTP.Password = ""
		cfg.Resend.APIKey = "re_123"
		require.NoError(t, cfg.Validate())
	})

	t.Run("reports every problem", func(t *testing.T) {
		t.Parallel()

		err := config.Config{Provider: config.ProviderSMTP}.Validate()
		require.ErrorIs(t, err, config.ErrMissingSender)
		require.ErrorIs(t, err, config.ErrMissingDomain)
		require.ErrorIs(t, err, config.ErrMissingPassword)
	})
}

func TestFormLinebreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  string
	}{
		{"", formdata.CRLF},
		{"crlf", formdata.CRLF},
		{"CRLF", formdata.CRLF},
		{"lf", formdata.LF},
	}
	for _, tt := range tests {
		got, err := config.Config{Linebreak: tt.value}.FormLinebreak()
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		listen  string
		network string
		address string
	}{
		{"", "", ""},
		{"127.0.0.1:9000", "tcp", "127.0.0.1:9000"},
		{":9000", "tcp", ":9000"},
		{"/run/mailserver.sock", "unix", "/run/mailserver.sock"},
		{"./mailserver.sock", "unix", "./mailserver.sock"},
		{"unix:mailserver.sock", "unix", "mailserver.sock"},
	}
	for _, tt := range tests {
		network, address := config.Config{Listen: tt.listen}.ListenAddr()
		require.Equal(t, tt.network, network, tt.listen)
		require.Equal(t, tt.address, address, tt.listen)
	}
}

func TestServerContext(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Linebreak = config.LinebreakLF
	cfg.Debug = true

	sc, err := cfg.ServerContext(mailer.SenderFunc(nil))
	require.NoError(t, err)

	require.Equal(t, "https://joshinkan.de", sc.Domain)
	require.Equal(t, mailer.User{Name: "Joshinkan", Email: "info@joshinkan.de"}, sc.Sender)
	require.Equal(t, &mailer.User{Email: "team@joshinkan.de"}, sc.ReplyTo)
	require.Equal(t, []mailer.User{{Email: "cc@joshinkan.de"}}, sc.CC)
	require.Equal(t, []mailer.User{{Name: "Archiv", Email: "bcc@joshinkan.de"}}, sc.BCC)
	require.Equal(t, formdata.LF, sc.Linebreak)
	require.True(t, sc.Debug)
	require.NotNil(t, sc.Mailer)

	cfg.ReplyTo = ""
	sc, err = cfg.ServerContext(mailer.SenderFunc(nil))
	require.NoError(t, err)
	require.Nil(t, sc.ReplyTo)
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	s, err := cfg.NewSender(nil)
	require.NoError(t, err)
	require.IsType(t, &smtp.Sender{}, s)

	cfg.SMTP.URL = "http://smtp.example.com"
	_, err = cfg.NewSender(nil)
	require.ErrorIs(t, err, smtp.ErrInvalidURL)

	cfg = validConfig()
	cfg.Provider = config.ProviderResend
	_, err = cfg.NewSender(nil)
	require.ErrorIs(t, err, resend.ErrMissingAPIKey)

	cfg.Resend.APIKey = "re_123"
	s, err = cfg.NewSender(nil)
	require.NoError(t, err)
	require.IsType(t, &resend.Sender{}, s)
}
