package sanitizer

import "strings"

// markdownReplacer backslash-escapes the ASCII punctuation that opens inline
// markdown (emphasis, code, links, images, autolinks, raw HTML, entities,
// strikethrough, tables) and joins lines so a value cannot start a block.
var markdownReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"!", `\!`,
	"&", `\&`,
	"~", `\~`,
	"|", `\|`,
	"#", `\#`,
)

// EscapeMarkdown makes s render as literal text when interpolated into a
// markdown template.
//
//	sanitizer.EscapeMarkdown("[hier](https://evil.example)") // `\[hier\](https://evil.example)`
func EscapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}
