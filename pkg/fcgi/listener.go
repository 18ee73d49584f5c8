package fcgi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
)

// DefaultMaxBodySize caps the stdin stream of a single request.
const DefaultMaxBodySize int64 = 10 << 20

var errAborted = errors.New("fcgi: request aborted by web server")

// Listener accepts FastCGI requests one at a time.
type Listener struct {
	ln          net.Listener
	logger      *slog.Logger
	maxBodySize int64

	mu     sync.Mutex
	c      *conn
	closed atomic.Bool

	rec record
}

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger used for protocol diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxBodySize limits the number of stdin bytes buffered per request.
// A value <= 0 disables the limit.
func WithMaxBodySize(n int64) Option {
	return func(l *Listener) {
		l.maxBodySize = n
	}
}

// NewListener wraps a listening socket.
func NewListener(ln net.Listener, opts ...Option) *Listener {
	l := &Listener{
		ln:          ln,
		logger:      slog.New(slog.DiscardHandler),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromStdin uses the listening socket passed as file descriptor 0, the way
// spawn-fcgi and most FastCGI process managers start responders.
func FromStdin(opts ...Option) (*Listener, error) {
	ln, err := net.FileListener(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("fcgi: stdin is not a listening socket: %w", err)
	}
	return NewListener(ln, opts...), nil
}

// Listen opens a listening socket on the given address.
func Listen(network, address string, opts ...Option) (*Listener, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("fcgi: listen %s %s: %w", network, address, err)
	}
	return NewListener(ln, opts...), nil
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting requests. A blocked Accept returns ErrListenerClosed.
func (l *Listener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := l.ln.Close()

	l.mu.Lock()
	c := l.c
	l.c = nil
	l.mu.Unlock()
	if c != nil {
		err = errors.Join(err, c.Close())
	}
	return err
}

// Accept blocks until a complete request has been received. Connection level
// failures are logged and the listener moves on to the next connection; only
// a failure of the listening socket itself is returned.
//
// The previous request must be finished before Accept is called again.
func (l *Listener) Accept() (*Request, error) {
	for {
		if l.closed.Load() {
			return nil, ErrListenerClosed
		}

		c, err := l.current()
		if err != nil {
			if l.closed.Load() {
				return nil, ErrListenerClosed
			}
			return nil, err
		}

		req, err := l.readRequest(c)
		if err == nil {
			return req, nil
		}

		switch {
		case errors.Is(err, io.EOF), errors.Is(err, errAborted):
			l.logger.Debug("fcgi connection closed", slog.String("reason", err.Error()))
		case l.closed.Load():
		default:
			l.logger.Warn("fcgi connection dropped", slog.String("error", err.Error()))
		}
		l.drop(c)
	}
}

func (l *Listener) current() (*conn, error) {
	l.mu.Lock()
	c := l.c
	l.mu.Unlock()
	if c != nil {
		return c, nil
	}

	rwc, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	c = newConn(rwc)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed.Load() {
		c.Close()
		return nil, ErrListenerClosed
	}
	l.c = c
	return c, nil
}

func (l *Listener) drop(c *conn) {
	l.mu.Lock()
	if l.c == c {
		l.c = nil
	}
	l.mu.Unlock()
	c.Close()
}

// readRequest reads records from c until one request has both its params and
// its stdin stream complete.
func (l *Listener) readRequest(c *conn) (*Request, error) {
	var (
		req        *Request
		params     bytes.Buffer
		stdin      bytes.Buffer
		paramsDone bool
	)

	for {
		if err := l.rec.read(c.rwc); err != nil {
			return nil, err
		}
		h := l.rec.h
		content := l.rec.content()

		switch h.Type {
		case typeGetValues:
			query, err := parsePairs(content)
			if err != nil {
				return nil, err
			}
			if err := c.writePairs(typeGetValuesResult, 0, managementValues(query)); err != nil {
				return nil, err
			}

		case typeBeginRequest:
			if req != nil {
				if err := c.writeEndRequest(h.ID, 0, statusCantMultiplex); err != nil {
					return nil, err
				}
				continue
			}
			var br beginRequest
			if err := br.read(content); err != nil {
				return nil, err
			}
			if br.role != roleResponder {
				l.logger.Debug("fcgi role rejected", slog.Int("role", int(br.role)))
				if err := c.writeEndRequest(h.ID, 0, statusUnknownRole); err != nil {
					return nil, err
				}
				continue
			}
			req = newRequest(l, c, h.ID, br.flags&flagKeepConn != 0)

		case typeParams:
			if req == nil || h.ID != req.ID {
				continue
			}
			if len(content) == 0 {
				p, err := parsePairs(params.Bytes())
				if err != nil {
					return nil, err
				}
				req.params = p
				paramsDone = true
				continue
			}
			params.Write(content)

		case typeStdin:
			if req == nil || h.ID != req.ID {
				continue
			}
			if len(content) == 0 {
				if !paramsDone {
					p, err := parsePairs(params.Bytes())
					if err != nil {
						return nil, err
					}
					req.params = p
				}
				req.body = stdin.Bytes()
				return req, nil
			}
			if l.maxBodySize > 0 && int64(stdin.Len()+len(content)) > l.maxBodySize {
				_ = c.writeEndRequest(req.ID, 0, statusOverloaded)
				return nil, ErrBodyTooLarge
			}
			stdin.Write(content)

		case typeAbortRequest:
			if req == nil || h.ID != req.ID {
				continue
			}
			if err := c.writeEndRequest(req.ID, 0, statusRequestComplete); err != nil {
				return nil, err
			}
			if !req.keepConn {
				return nil, errAborted
			}
			req = nil
			paramsDone = false
			params.Reset()
			stdin.Reset()

		case typeData:
			// only used by the filter role

		default:
			b := make([]byte, 8)
			b[0] = byte(h.Type)
			if err := c.writeRecord(typeUnknownType, 0, b); err != nil {
				return nil, err
			}
		}
	}
}

// managementValues answers an FCGI_GET_VALUES query. Unknown variables are
// omitted from the result.
func managementValues(query map[string]string) map[string]string {
	known := map[string]string{
		"FCGI_MAX_CONNS":  "1",
		"FCGI_MAX_REQS":   "1",
		"FCGI_MPXS_CONNS": "0",
	}
	out := make(map[string]string, len(query))
	for k := range query {
		if v, ok := known[k]; ok {
			out[k] = v
		}
	}
	return out
}
