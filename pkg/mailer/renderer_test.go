package mailer

import (
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func registrationFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`<html><head><title>{{.Subject}}</title></head><body>{{.Content}}</body></html>`),
		},
		"children.md": &fstest.MapFile{
			Data: []byte("---\nSubject: \"Kinder ({{len .Children}})\"\n---\n{{range .Children}}- {{.}}\n{{end}}"),
		},
		"nosubject.md": &fstest.MapFile{
			Data: []byte("Body only\n"),
		},
		"numbersubject.md": &fstest.MapFile{
			Data: []byte("---\nSubject: 42\n---\nBody\n"),
		},
		"registration.md": &fstest.MapFile{
			Data: []byte(`---
Subject: "Anmeldung zum Probetraining: Erwachsene"
---
Neuanmeldung zum Probetraining für **Erwachsene**.

Name: {{.FirstName}} {{.LastName}}
Alter: {{.Age}}
`),
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(registrationFS())

	result, err := renderer.Render("base.html", "registration.md", map[string]string{
		"FirstName": "Sven",
		"LastName":  "Mkw",
		"Age":       "23",
	})
	require.NoError(t, err)

	require.Equal(t, "Anmeldung zum Probetraining: Erwachsene", result.Subject)

	require.Contains(t, result.Text, "Name: Sven Mkw\nAlter: 23")
	require.NotContains(t, result.Text, "<strong>")

	require.Contains(t, result.HTML, "<title>Anmeldung zum Probetraining: Erwachsene</title>")
	require.Contains(t, result.HTML, "<strong>Erwachsene</strong>")
	// single line breaks survive as <br>
	require.Contains(t, result.HTML, "Name: Sven Mkw<br>\nAlter: 23")
}

func TestRenderer_Render_Subject(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(registrationFS())

	result, err := renderer.Render("base.html", "children.md", map[string][]string{
		"Children": {"Boi", "Girl"},
	})
	require.NoError(t, err)
	require.Equal(t, "Kinder (2)", result.Subject)
	require.Equal(t, "- Boi\n- Girl\n", result.Text)
	require.Contains(t, result.HTML, "<li>Boi</li>")

	result, err = renderer.Render("base.html", "nosubject.md", nil)
	require.NoError(t, err)
	require.Empty(t, result.Subject)

	_, err = renderer.Render("base.html", "numbersubject.md", nil)
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestRenderer_Render_Dirs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"emails/layouts/base.html": &fstest.MapFile{Data: []byte(`<main>{{.Content}}</main>`)},
		"emails/hello.md":          &fstest.MapFile{Data: []byte("Hallo **{{.}}**\n")},
	}
	renderer := NewRenderer(fsys, WithTemplateDir("emails"), WithLayoutDir("emails/layouts"))

	result, err := renderer.Render("base.html", "hello.md", "Sven")
	require.NoError(t, err)
	require.Equal(t, "<main><p>Hallo <strong>Sven</strong></p>\n</main>", result.HTML)
}

func TestRenderer_Render_RawHTMLOmitted(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(registrationFS())

	result, err := renderer.Render("base.html", "registration.md", map[string]string{
		"FirstName": "<script>alert(1)</script>",
		"LastName":  "Mkw",
		"Age":       "23",
	})
	require.NoError(t, err)
	require.NotContains(t, result.HTML, "<script>")
}

func TestRenderer_Render_Missing(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(registrationFS())

	_, err := renderer.Render("base.html", "missing.md", nil)
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = renderer.Render("missing.html", "registration.md", map[string]string{})
	require.ErrorIs(t, err, ErrLayoutNotFound)
}

func TestRenderer_Render_CachesTemplates(t *testing.T) {
	t.Parallel()

	var openCount atomic.Int32
	cfs := &countingFS{MapFS: registrationFS(), openCount: &openCount}
	renderer := NewRenderer(cfs)

	data := map[string]string{"FirstName": "A", "LastName": "B", "Age": "1"}

	_, err := renderer.Render("base.html", "registration.md", data)
	require.NoError(t, err)
	require.Equal(t, int32(2), openCount.Load(), "template and layout are read once")

	_, err = renderer.Render("base.html", "registration.md", data)
	require.NoError(t, err)
	require.Equal(t, int32(2), openCount.Load())
}

func TestRenderer_Render_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(registrationFS())

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := renderer.Render("base.html", "registration.md", map[string]string{"Age": "5"})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
}

// countingFS wraps MapFS and counts ReadFile calls.
type countingFS struct {
	fstest.MapFS
	openCount *atomic.Int32
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.openCount.Add(1)
	return c.MapFS.ReadFile(name)
}
