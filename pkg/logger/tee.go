package logger

import (
	"context"
	"errors"
	"log/slog"
)

// tee writes every record to stdout and to Sentry. A failing destination
// does not keep the record from the other one.
type tee struct {
	stdout slog.Handler
	sentry slog.Handler
}

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	return t.stdout.Enabled(ctx, level) || t.sentry.Enabled(ctx, level)
}

func (t tee) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	if t.stdout.Enabled(ctx, rec.Level) {
		errs = append(errs, t.stdout.Handle(ctx, rec.Clone()))
	}
	if t.sentry.Enabled(ctx, rec.Level) {
		errs = append(errs, t.sentry.Handle(ctx, rec.Clone()))
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tee{stdout: t.stdout.WithAttrs(attrs), sentry: t.sentry.WithAttrs(attrs)}
}

func (t tee) WithGroup(name string) slog.Handler {
	return tee{stdout: t.stdout.WithGroup(name), sentry: t.sentry.WithGroup(name)}
}
