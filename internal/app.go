package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"sync"

	"github.com/joshinkan/mailserver/pkg/fcgi"
	"github.com/joshinkan/mailserver/pkg/logger"
)

// Listener yields FastCGI requests one at a time.
type Listener interface {
	Accept() (*fcgi.Request, error)
	Close() error
}

// App routes FastCGI requests to handlers. It serves one request at a time
// and is immutable after New; only the ServerContext is shared between
// requests, read-only.
type App struct {
	server      *ServerContext
	routes      *RouteTable
	handler     HandlerFunc
	logger      *slog.Logger
	terminator  string
	middlewares []Middleware
	handlers    []Handler

	// held while a request is being served
	serving sync.Mutex
}

// New creates a new application with the given options.
//
// Example:
//
//	app := internal.New(server,
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithHandlers(handlers.NewRegistration()),
//	)
func New(server *ServerContext, opts ...Option) *App {
	if server == nil {
		server = NewServerContext(ServerContext{})
	}
	a := &App{
		server:     server,
		routes:     NewRouteTable(),
		logger:     logger.NewNope(),
		terminator: "\r\n",
	}

	for _, opt := range opts {
		opt(a)
	}

	for _, h := range a.handlers {
		h.Routes(a.routes)
	}
	a.handler = chain(a.routes.Match, a.middlewares...)
	return a
}

// Server returns the shared configuration.
func (a *App) Server() *ServerContext {
	return a.server
}

// Routes returns the registered routes in match order.
func (a *App) Routes() []Route {
	return a.routes.Routes()
}

// Handle runs c through the global middleware and the route table. A panic
// that escapes the middleware becomes a 500 response.
func (a *App) Handle(c Context) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			c.LogError("unrecovered panic", slog.Any("panic", r), slog.String("stack", string(stack)))
			resp = ErrorMessage(http.StatusInternalServerError, "Internal server error.")
		}
	}()
	return a.handler(c)
}

// ServeRequest handles a single request and finishes it.
func (a *App) ServeRequest(ctx context.Context, req *fcgi.Request) error {
	ctx = logger.WithAttrs(ctx, slog.Int("fcgi_request", int(req.ID)))
	c := NewContext(ctx, a.server, req.Params(), req.Body(), a.logger)
	resp := a.Handle(c)

	rw := NewResponseWriter(req.Stdout(), WithTerminator(a.terminator))
	err := rw.Write(resp)
	return errors.Join(err, req.Finish())
}

// Serve accepts and serves requests until the listener is closed. Requests
// run under a context that is not canceled with ctx, so an in-flight request
// always completes.
func (a *App) Serve(ctx context.Context, l Listener) error {
	reqCtx := context.WithoutCancel(ctx)
	for {
		req, err := l.Accept()
		if err != nil {
			if errors.Is(err, fcgi.ErrListenerClosed) {
				return nil
			}
			return err
		}

		a.serving.Lock()
		err = a.ServeRequest(reqCtx, req)
		a.serving.Unlock()
		if err != nil {
			a.logger.WarnContext(ctx, "failed to complete request",
				slog.Int("request_id", int(req.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
}
