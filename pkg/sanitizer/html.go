package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// StripHTML removes every tag from s and returns the remaining text with
// surrounding whitespace trimmed. Script and style contents are dropped
// entirely. Entities are decoded so the result is plain text again.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	initPolicies()
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// StripHTMLAll applies StripHTML to each value and returns a new slice.
func StripHTMLAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = StripHTML(v)
	}
	return out
}
