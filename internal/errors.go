package internal

import (
	"errors"
	"log/slog"
	"net/http"
)

// HTTPError carries a status code and a user-facing message. The wrapped
// error is logged but never written to the client.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code (e.g., 400, 500).
	Code int
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// Response renders e as a JSON {"error": message} response.
func (e *HTTPError) Response() Response {
	return ErrorMessage(e.Code, e.Message)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain if present.
// Returns nil if the error is not an HTTPError.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// ErrorResponse logs err and converts it into a response. An HTTPError
// keeps its code and message; any other error becomes a generic 500.
func ErrorResponse(c Context, err error) Response {
	httpErr := AsHTTPError(err)
	if httpErr == nil {
		httpErr = ErrInternal("Internal server error.", WithError(err))
	}

	level := slog.LevelWarn
	if httpErr.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	attrs := []any{slog.Int("status", httpErr.Code), slog.String("message", httpErr.Message)}
	if httpErr.Err != nil {
		attrs = append(attrs, slog.String("error", httpErr.Err.Error()))
	}
	c.Logger().Log(c, level, "request failed", attrs...)

	return httpErr.Response()
}
