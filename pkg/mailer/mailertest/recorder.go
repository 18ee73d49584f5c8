// Package mailertest provides an in-memory mailer.Sender for tests.
package mailertest

import (
	"context"
	"slices"
	"sync"

	"github.com/joshinkan/mailserver/pkg/mailer"
)

// Recorder records every email it is asked to send. Set Fail to make Send
// return an error (or panic) for selected emails; failed emails are not
// recorded.
type Recorder struct {
	// Fail is consulted before an email is recorded.
	Fail func(email *mailer.Email) error

	mu     sync.Mutex
	emails []mailer.Email
}

// Send implements mailer.Sender.
func (r *Recorder) Send(_ context.Context, email *mailer.Email) error {
	if r.Fail != nil {
		if err := r.Fail(email); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, *email)
	return nil
}

// Emails returns the recorded emails in send order.
func (r *Recorder) Emails() []mailer.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.emails)
}

// Reset forgets every recorded email.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = nil
}
