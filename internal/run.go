package internal

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// Run serves requests from l until ctx is canceled or the process receives
// SIGINT or SIGTERM. Shutdown waits for the in-flight request, then closes
// the listener.
func (a *App) Run(ctx context.Context, l Listener) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// a closed listener ends the watcher below too
		defer cancel()
		a.logger.InfoContext(gctx, "accepting requests", slog.Int("routes", len(a.routes.routes)))
		return a.Serve(gctx, l)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.InfoContext(ctx, "shutting down")

		a.serving.Lock()
		defer a.serving.Unlock()
		return l.Close()
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("shutdown completed with errors", slog.String("error", err.Error()))
		return err
	}
	a.logger.Info("shutdown completed")
	return nil
}
