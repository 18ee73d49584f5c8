package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/internal/config"
	"github.com/joshinkan/mailserver/internal/handlers"
	"github.com/joshinkan/mailserver/middlewares"
	"github.com/joshinkan/mailserver/pkg/fcgi"
	"github.com/joshinkan/mailserver/pkg/logger"
)

const flushTimeout = 2 * time.Second

func run(ctx context.Context, cfg config.Config) error {
	log := logger.NewWithSentry(cfg.Sentry, cfg.Level(),
		middlewares.RequestIDExtractor(),
	)
	defer logger.Flush(flushTimeout)

	if cfg.ReplyTo == "" {
		log.Warn("no reply-to address configured, registration mails cannot be delivered")
	}

	sender, err := cfg.NewSender(log.With(slog.String("component", cfg.Provider)))
	if err != nil {
		return err
	}
	server, err := cfg.ServerContext(sender)
	if err != nil {
		return err
	}

	l, err := listen(cfg, log.With(slog.String("component", "fcgi")))
	if err != nil {
		return err
	}

	app := internal.New(server,
		internal.WithCustomLogger(log),
		internal.WithMiddleware(
			middlewares.RequestID(),
			middlewares.AccessLog(),
			middlewares.Recover(),
		),
		internal.WithHandlers(
			handlers.NewRegistration(),
			handlers.NewDebug(),
		),
	)

	log.Info("mailserver started",
		slog.String("version", version),
		slog.String("provider", cfg.Provider),
		slog.Bool("debug", cfg.Debug),
	)
	return app.Run(ctx, l)
}

func listen(cfg config.Config, log *slog.Logger) (*fcgi.Listener, error) {
	network, address := cfg.ListenAddr()
	if network == "" {
		return fcgi.FromStdin(fcgi.WithLogger(log))
	}
	return fcgi.Listen(network, address, fcgi.WithLogger(log))
}
