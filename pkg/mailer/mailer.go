package mailer

import (
	"context"
	"errors"
)

// Mailer provides high-level email sending with template rendering.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a new Mailer with the given sender and renderer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// SendParams contains parameters for sending a templated email.
type SendParams struct {
	To       []User // Recipients, at least one
	Template string // Template filename (e.g., "welcome.md")
	Data     any    // Template data

	// Optional overrides
	Subject string            // Override template subject
	Layout  string            // Override default layout
	From    *User             // Override default sender
	ReplyTo *User             // Reply-to address
	CC      []User            // Carbon copy
	BCC     []User            // Blind carbon copy
	Tags    Tags              // Provider-specific tags
	Headers map[string]string // Custom headers
}

// Send renders a template and sends an email.
// Subject resolution: params.Subject > template frontmatter > config fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if len(params.To) == 0 {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		subject = result.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	from := m.config.From
	if params.From != nil {
		from = *params.From
	}

	email := &Email{
		To:      params.To,
		Subject: subject,
		HTML:    result.HTML,
		Text:    result.Text,
		From:    from,
		ReplyTo: params.ReplyTo,
		CC:      params.CC,
		BCC:     params.BCC,
		Tags:    params.Tags,
		Headers: params.Headers,
	}

	return m.SendRaw(ctx, email)
}

// SendRaw sends a pre-built email without template rendering. A missing
// sender is filled in from the config.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if email.From.IsZero() {
		email.From = m.config.From
	}
	if err := email.Validate(); err != nil {
		return err
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}
