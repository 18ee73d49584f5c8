package handlers

import (
	"embed"

	"github.com/joshinkan/mailserver/pkg/mailer"
)

//go:embed emails
var templates embed.FS

const (
	templateDir = "emails"
	layoutDir   = "emails/layouts"

	// Layout wraps every mail body.
	Layout = "base.html"
)

// Mail templates.
const (
	registrationAdult       = "registration_adult.md"
	registrationChildren    = "registration_children.md"
	acknowledgementAdult    = "acknowledgement_adult.md"
	acknowledgementChildren = "acknowledgement_children.md"
)

// NewRenderer returns a renderer for the embedded mail templates.
func NewRenderer() *mailer.Renderer {
	return mailer.NewRenderer(templates,
		mailer.WithTemplateDir(templateDir),
		mailer.WithLayoutDir(layoutDir),
	)
}
