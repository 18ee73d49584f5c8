// Package mailer builds and sends HTML emails rendered from markdown templates.
//
// The package separates email sending (via providers) from template rendering,
// so the SMTP transport used in production can be swapped for the Resend API
// or an in-memory recorder without touching the templates.
//
// # Architecture
//
//   - User: a mailbox parsed from "Name <email>", "<email>" or a bare address
//   - Email: a prepared message; Payload serializes it as RFC 5322 text
//   - Sender: interface that email providers implement
//   - Renderer: converts markdown templates with YAML frontmatter to HTML
//   - Mailer: high-level client combining Sender and Renderer
//
// # Usage
//
//	from, err := mailer.ParseUser("Joshinkan <info@joshinkan.de>")
//	if err != nil {
//		return err
//	}
//
//	sender, err := smtp.New(smtp.Config{
//		URL:      "smtps://smtp.gmail.com:465",
//		Username: from.Email,
//		Password: password,
//	})
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(sender, mailer.NewRenderer(emails.FS), mailer.Config{
//		FallbackSubject: "Joshinkan",
//		DefaultLayout:   "base.html",
//		From:            from,
//	})
//
//	err = m.Send(ctx, mailer.SendParams{
//		To:       []mailer.User{user},
//		Template: "acknowledgement.md",
//		Data:     data,
//	})
//
// # Templates
//
// Templates are markdown files with optional YAML frontmatter:
//
//	---
//	Subject: "Anmeldung zum Probetraining: Kinder ({{len .Children}})"
//	---
//	Name: {{.FirstName}} {{.LastName}}
//	Alter: {{.Age}}
//
// The Subject is executed with the same data as the body. Quote subjects that contain a
// colon. Single line breaks inside a paragraph are rendered as <br>. Raw HTML
// in templates or data is omitted by the markdown renderer.
//
// # Errors
//
// Errors returned by a Sender are joined with ErrSendFailed, so callers can
// tell delivery failures from validation and rendering failures
// (ErrNoRecipient, ErrRenderFailed, ErrTemplateNotFound, ...).
package mailer
