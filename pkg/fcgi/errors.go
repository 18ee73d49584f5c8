package fcgi

import "errors"

var (
	// ErrInvalidHeader indicates a record with an unsupported version or a
	// malformed fixed-size body.
	ErrInvalidHeader = errors.New("fcgi: invalid record header")

	// ErrInvalidParams indicates a truncated name-value pair stream.
	ErrInvalidParams = errors.New("fcgi: invalid params stream")

	// ErrBodyTooLarge indicates the stdin stream exceeded the configured limit.
	ErrBodyTooLarge = errors.New("fcgi: request body too large")

	// ErrRequestFinished is returned when writing to or finishing a request
	// that has already been finished.
	ErrRequestFinished = errors.New("fcgi: request already finished")

	// ErrListenerClosed is returned by Accept after Close.
	ErrListenerClosed = errors.New("fcgi: listener closed")
)
