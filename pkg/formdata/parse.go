package formdata

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Line breaks accepted by Parse. Browsers send CRLF.
const (
	CRLF = "\r\n"
	LF   = "\n"
)

const listSuffix = "[]"

var contentTypeRegex = regexp.MustCompile(`^multipart/form-data;\s*boundary=(.+)$`)

// BoundaryFromContentType extracts the boundary from a
// "multipart/form-data; boundary=..." content type.
func BoundaryFromContentType(contentType string) (string, error) {
	m := contentTypeRegex.FindStringSubmatch(contentType)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	boundary := strings.Trim(m[1], `"`)
	if boundary == "" {
		return "", fmt.Errorf("%w: empty boundary", ErrUnsupportedContentType)
	}
	return boundary, nil
}

// Parse decodes a multipart/form-data body. Every part must carry a
// `Content-Disposition: form-data; name="..."` header; any structural
// deviation fails the whole parse with ErrMalformedBody and no partial result.
//
// Fields whose name ends in "[]" are collected into a List under the name
// without the suffix. Other fields are Plain and the last occurrence wins.
func Parse(body []byte, boundary, linebreak string) (Data, error) {
	if boundary == "" {
		return nil, fmt.Errorf("%w: empty boundary", ErrMalformedBody)
	}

	segments := strings.Split(string(body), "--"+boundary)
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: boundary not found", ErrMalformedBody)
	}
	if last := segments[len(segments)-1]; last != "--"+linebreak {
		return nil, fmt.Errorf("%w: invalid closing delimiter", ErrMalformedBody)
	}

	title := cases.Title(language.Und)
	data := make(Data)

	// the first segment is the preamble, the last one the closing "--"
	for i, segment := range segments[1 : len(segments)-1] {
		name, content, err := parsePart(segment, linebreak, title)
		if err != nil {
			return nil, fmt.Errorf("%w: part %d: %w", ErrMalformedBody, i, err)
		}

		if base, ok := strings.CutSuffix(name, listSuffix); ok {
			if existing, ok := data[base]; ok && existing.kind == List {
				data[base] = existing.appendValue(content)
			} else {
				data[base] = ListValue(content)
			}
			continue
		}
		data[name] = PlainValue(content)
	}

	return data, nil
}

func parsePart(segment, linebreak string, title cases.Caser) (name, content string, err error) {
	head, rest, found := strings.Cut(segment, linebreak+linebreak)
	if !found {
		return "", "", errMissingSeparator
	}

	headers := make(map[string]string)
	for line := range strings.SplitSeq(strings.TrimSpace(head), linebreak) {
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return "", "", fmt.Errorf("%w: %q", errInvalidHeaderLine, line)
		}
		headers[title.String(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	disposition, ok := headers["Content-Disposition"]
	if !ok {
		return "", "", errMissingDisposition
	}
	name, err = dispositionName(disposition)
	if err != nil {
		return "", "", err
	}
	return name, strings.TrimSpace(rest), nil
}

// dispositionName extracts the field name from `form-data; name="field"`.
func dispositionName(disposition string) (string, error) {
	parts := splitNonEmpty(disposition, ";")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", errInvalidDisposition, disposition)
	}

	statement := splitNonEmpty(strings.TrimSpace(parts[1]), "=")
	if len(statement) != 2 || statement[0] != "name" {
		return "", fmt.Errorf("%w: %q", errInvalidDisposition, disposition)
	}

	return strings.Trim(statement[1], `"`), nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for part := range strings.SplitSeq(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
