package rendering

import "strings"

// markdownEscaper escapes characters that would change inline Markdown formatting
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
)

// EscapeMarkdown escapes inline Markdown metacharacters in text and folds newlines,
// so the result is safe inside a single heading line
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	return markdownEscaper.Replace(text)
}
