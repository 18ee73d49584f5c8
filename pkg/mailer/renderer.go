package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns a markdown template into a subject, a plain text body and
// an HTML body wrapped in a layout. Single line breaks inside a paragraph
// are kept as <br> so address-like blocks render the way they are written.
// Parsed templates are cached; Render is safe for concurrent use.
type Renderer struct {
	fs          fs.FS
	templateDir string
	layoutDir   string
	md          goldmark.Markdown

	mu        sync.Mutex
	templates map[string]*mailTemplate
	layouts   map[string]*template.Template
}

// mailTemplate is a parsed template file. subject is nil when the
// frontmatter has no Subject.
type mailTemplate struct {
	subject *texttemplate.Template
	body    *texttemplate.Template
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithTemplateDir sets the directory of the markdown templates. Defaults to
// the root of the file system.
func WithTemplateDir(dir string) RendererOption {
	return func(r *Renderer) { r.templateDir = dir }
}

// WithLayoutDir sets the directory of the HTML layouts. Defaults to
// "layouts".
func WithLayoutDir(dir string) RendererOption {
	return func(r *Renderer) { r.layoutDir = dir }
}

// NewRenderer creates a renderer reading templates and layouts from fsys.
func NewRenderer(fsys fs.FS, opts ...RendererOption) *Renderer {
	r := &Renderer{
		fs:          fsys,
		templateDir: ".",
		layoutDir:   "layouts",
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		templates: make(map[string]*mailTemplate),
		layouts:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rendered is a rendered template. Subject is empty when the template
// declares none.
type Rendered struct {
	Subject string
	HTML    string
	Text    string // markdown after template execution
}

// Render executes the template with data, converts the markdown to HTML and
// places it into the layout as .Content. The layout also sees .Subject.
func (r *Renderer) Render(layout, name string, data any) (*Rendered, error) {
	tmpl, err := r.template(name)
	if err != nil {
		return nil, err
	}
	layoutTmpl, err := r.layout(layout)
	if err != nil {
		return nil, err
	}

	var out Rendered
	if tmpl.subject != nil {
		var subject bytes.Buffer
		if err := tmpl.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: %s: subject: %v", ErrRenderFailed, name, err)
		}
		out.Subject = subject.String()
	}

	var markdown bytes.Buffer
	if err := tmpl.body.Execute(&markdown, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	out.Text = markdown.String()

	var content bytes.Buffer
	if err := r.md.Convert(markdown.Bytes(), &content); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %v", ErrRenderFailed, name, err)
	}

	var page bytes.Buffer
	err = layoutTmpl.Execute(&page, map[string]any{
		"Content": template.HTML(content.String()), //nolint:gosec // goldmark output, raw HTML is omitted
		"Subject": out.Subject,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, layout, err)
	}
	out.HTML = page.String()

	return &out, nil
}

func (r *Renderer) template(name string) (*mailTemplate, error) {
	return load(&r.mu, r.templates, name, func() (*mailTemplate, error) {
		content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
		}
		parsed, err := ParseTemplate(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
		}

		var t mailTemplate
		if raw, ok := parsed.Metadata["Subject"]; ok {
			subject, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s: Subject is not a string", ErrInvalidFrontmatter, name)
			}
			if t.subject, err = texttemplate.New(name + ":subject").Parse(subject); err != nil {
				return nil, fmt.Errorf("%w: %s: subject: %v", ErrRenderFailed, name, err)
			}
		}
		if t.body, err = texttemplate.New(name).Parse(parsed.Body); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
		}
		return &t, nil
	})
}

func (r *Renderer) layout(name string) (*template.Template, error) {
	return load(&r.mu, r.layouts, name, func() (*template.Template, error) {
		content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
		}
		t, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: layout %s: %v", ErrRenderFailed, name, err)
		}
		return t, nil
	})
}

// load returns cache[name], parsing it on first use. Failures are not
// cached.
func load[T any](mu *sync.Mutex, cache map[string]T, name string, parse func() (T, error)) (T, error) {
	mu.Lock()
	defer mu.Unlock()

	if v, ok := cache[name]; ok {
		return v, nil
	}
	v, err := parse()
	if err != nil {
		return v, err
	}
	cache[name] = v
	return v, nil
}
