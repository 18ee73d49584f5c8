package mailer

import "context"

// Sender defines the minimal interface that email providers must implement.
// It accepts a fully-prepared Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message to every address in Recipients.
	// The Email passed Validate. Returns an error if delivery fails.
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

// Send calls f(ctx, email).
func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
