package fcgi

import (
	"bytes"
	"errors"
	"io"
	"maps"
)

// Request is a fully received FastCGI request. It is not safe for concurrent
// use.
type Request struct {
	ID uint16

	keepConn bool
	params   map[string]string
	body     []byte

	l        *Listener
	c        *conn
	stdout   *bufWriter
	stderr   *bufWriter
	finished bool
}

func newRequest(l *Listener, c *conn, id uint16, keepConn bool) *Request {
	return &Request{
		ID:       id,
		keepConn: keepConn,
		params:   map[string]string{},
		l:        l,
		c:        c,
		stdout:   newWriter(c, typeStdout, id),
	}
}

// Param returns a single request parameter.
func (r *Request) Param(name string) (string, bool) {
	v, ok := r.params[name]
	return v, ok
}

// Params returns a copy of all request parameters.
func (r *Request) Params() map[string]string {
	return maps.Clone(r.params)
}

// Stdin returns the complete request body as sent by the web server.
func (r *Request) Stdin() io.Reader {
	return bytes.NewReader(r.body)
}

// Body returns the complete request body. The slice must not be modified.
func (r *Request) Body() []byte {
	return r.body
}

// Stdout is the response stream. Output is buffered until Finish.
func (r *Request) Stdout() io.Writer {
	return r.stdout
}

// Stderr is forwarded to the web server's error log.
func (r *Request) Stderr() io.Writer {
	if r.stderr == nil {
		r.stderr = newWriter(r.c, typeStderr, r.ID)
	}
	return r.stderr
}

// KeepConn reports whether the web server asked to reuse the connection.
func (r *Request) KeepConn() bool {
	return r.keepConn
}

// Finish flushes the output streams and completes the request with
// application status 0.
func (r *Request) Finish() error {
	return r.FinishStatus(0)
}

// FinishStatus flushes the output streams and completes the request with the
// given application status. The connection is closed unless the web server
// asked to keep it.
func (r *Request) FinishStatus(appStatus int) error {
	if r.finished {
		return ErrRequestFinished
	}
	r.finished = true

	err := r.stdout.Close()
	if r.stderr != nil {
		err = errors.Join(err, r.stderr.Close())
	}
	err = errors.Join(err, r.c.writeEndRequest(r.ID, appStatus, statusRequestComplete))

	if !r.keepConn || err != nil {
		r.l.drop(r.c)
	}
	return err
}
