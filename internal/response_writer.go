package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// fallbackJSON replaces a JSON body that cannot be encoded.
const fallbackJSON = `{"error":"internal error","message":"could not construct response"}`

// ErrResponseWritten is returned when a second response is written for the
// same request.
var ErrResponseWritten = errors.New("response already written")

var headerValueReplacer = strings.NewReplacer("\r", "", "\n", "")

// ResponseWriter serializes a Response onto the FastCGI stdout stream as a
// status line, header lines sorted by name, a blank line and the body.
type ResponseWriter struct {
	w          io.Writer
	terminator string

	status  int
	size    int64
	written bool
}

// ResponseWriterOption configures a ResponseWriter.
type ResponseWriterOption func(*ResponseWriter)

// WithTerminator sets the line terminator. Defaults to CRLF.
func WithTerminator(t string) ResponseWriterOption {
	return func(w *ResponseWriter) {
		if t != "" {
			w.terminator = t
		}
	}
}

// NewResponseWriter creates a new ResponseWriter.
func NewResponseWriter(w io.Writer, opts ...ResponseWriterOption) *ResponseWriter {
	rw := &ResponseWriter{
		w:          w,
		terminator: "\r\n",
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Write emits resp. Content-Length and Status are computed and override any
// value set by the handler. A JSON value that cannot be encoded is replaced
// by a 500 response with a fixed body.
func (w *ResponseWriter) Write(resp Response) error {
	if w.written {
		return ErrResponseWritten
	}
	w.written = true

	status, headers, body := w.prepare(resp)
	w.status = status

	var b bytes.Buffer
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(status))
	b.WriteByte(' ')
	b.WriteString(statusText(status))
	b.WriteString(w.terminator)

	for _, name := range slices.Sorted(maps.Keys(headers)) {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(headerValueReplacer.Replace(headers[name]))
		b.WriteString(w.terminator)
	}
	b.WriteString(w.terminator)
	b.Write(body)

	n, err := w.w.Write(b.Bytes())
	w.size += int64(n)
	return err
}

func (w *ResponseWriter) prepare(resp Response) (int, map[string]string, []byte) {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	headers := make(map[string]string, len(resp.Headers)+3)
	for name, value := range resp.Headers {
		name = http.CanonicalHeaderKey(strings.TrimSpace(name))
		if name == "" || name == "Content-Length" || name == "Status" {
			continue
		}
		headers[name] = value
	}

	var body []byte
	if resp.IsJSON() {
		encoded, err := json.Marshal(resp.Value())
		if err != nil {
			status = http.StatusInternalServerError
			headers = map[string]string{}
			encoded = []byte(fallbackJSON)
		}
		headers["Content-Type"] = ContentTypeJSON
		body = encoded
	} else {
		body = []byte(resp.Body())
	}

	headers["Content-Length"] = strconv.Itoa(len(body))
	// nginx ignores the status line of FastCGI responses and reads this header
	headers["Status"] = strconv.Itoa(status) + " " + statusText(status)
	return status, headers, body
}

// Status returns the status code written, or 0 before Write.
func (w *ResponseWriter) Status() int {
	return w.status
}

// Size returns the number of bytes written, including the header block.
func (w *ResponseWriter) Size() int64 {
	return w.size
}

// Written reports whether a response has been written.
func (w *ResponseWriter) Written() bool {
	return w.written
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown"
}
