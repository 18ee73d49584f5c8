package internal

import (
	"log/slog"

	"github.com/joshinkan/mailserver/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided, the first one outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithLogger creates a JSON logger at the given level tagged with the
// component name.
func WithLogger(component string, level slog.Level, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		l := logger.New(level, extractors...)
		if component != "" {
			l = l.With(slog.String("component", component))
		}
		a.logger = l
	}
}

// WithCustomLogger sets a pre-configured logger.
// If nil, the default no-op logger is kept.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLineTerminator sets the line terminator of response headers.
// Defaults to CRLF.
func WithLineTerminator(t string) Option {
	return func(a *App) {
		if t != "" {
			a.terminator = t
		}
	}
}
