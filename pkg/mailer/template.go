package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Template represents an email template with metadata and body.
type Template struct {
	Metadata map[string]any
	Body     string
}

// ParseTemplate splits a template into its YAML frontmatter and markdown
// body. Content that does not start with "---" has no metadata.
func ParseTemplate(content []byte) (*Template, error) {
	rest, ok := bytes.CutPrefix(content, []byte(frontmatterDelimiter))
	if !ok {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	rest = bytes.TrimLeft(rest, "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	front, body, ok := bytes.Cut(rest, []byte(frontmatterDelimiter))
	if !ok {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	// one line break belongs to the closing delimiter
	if b, ok := bytes.CutPrefix(body, []byte("\r\n")); ok {
		body = b
	} else {
		body = bytes.TrimPrefix(body, []byte("\n"))
	}

	metadata := map[string]any{}
	if len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Template{Metadata: metadata, Body: string(body)}, nil
}
