package extraction

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFirstLineName = 80

// Name sources recorded on the IR part
const (
	nameSourceComment   = "comment:# Part: ..."
	nameSourceFirstLine = "first_line"
	nameSourceFileStem  = "fallback:file_stem"
)

func setterNameSource(setter string) string {
	return "call:" + setter + "(...)"
}

// fileStem returns the base name of path without its extension.
func fileStem(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// titleFromPath turns "widget_housing-v2.txt" into "Widget Housing V2".
// Only the first rune of each word is changed so CamelCase stems survive.
func titleFromPath(path string) string {
	stem := fileStem(path)
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	words := strings.Fields(stem)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// firstLineName returns the first non-empty line when it reads like a title rather than a sentence.
// A leading Markdown heading marker is dropped from the name but kept in the returned line.
func firstLineName(lines []string) (name, line string, lineNo int, ok bool) {
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if utf8.RuneCountInString(trimmed) > maxFirstLineName || strings.HasSuffix(trimmed, ".") {
			return "", "", 0, false
		}
		name = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if name == "" {
			return "", "", 0, false
		}
		return name, trimmed, i + 1, true
	}
	return "", "", 0, false
}

// splitLines splits on newlines and drops carriage returns left by CRLF input.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
