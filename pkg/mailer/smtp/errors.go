package smtp

import "errors"

var (
	// ErrInvalidURL is returned by New for a malformed server URL.
	ErrInvalidURL = errors.New("smtp: invalid server url")

	// ErrAuthUnsupported is returned when credentials are configured but the
	// server does not offer AUTH.
	ErrAuthUnsupported = errors.New("smtp: server does not support authentication")
)

// Stage names the step of the SMTP session that failed.
type Stage string

const (
	StageDial     Stage = "dial"
	StageHello    Stage = "hello"
	StageStartTLS Stage = "starttls"
	StageAuth     Stage = "auth"
	StageMail     Stage = "mail"
	StageRcpt     Stage = "rcpt"
	StageData     Stage = "data"
	StageQuit     Stage = "quit"
)

// Error is a failed SMTP session. Server replies can be inspected with
// errors.As and *gosmtp.SMTPError.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return "smtp: " + string(e.Stage) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
