// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Window is a byte range [Start, End) inside the source text.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Evidence is a verbatim snippet of the source text plus its location.
// Script extraction fills Line; plain-text extraction fills Window.
type Evidence struct {
	Snippet string  `json:"snippet"`
	Line    int     `json:"line,omitempty"`
	Window  *Window `json:"window,omitempty"`
}

// LineEvidence builds evidence for a 1-based source line.
func LineEvidence(lineNo int, text string) Evidence {
	return Evidence{Snippet: text, Line: lineNo}
}

// WindowEvidence builds evidence from a byte range of src, clamped to its bounds.
func WindowEvidence(src string, start, end int) Evidence {
	start = max(start, 0)
	end = min(end, len(src))
	if start > end {
		start = end
	}
	return Evidence{
		Snippet: src[start:end],
		Window:  &Window{Start: start, End: end},
	}
}

// String renders evidence the way it appears in prompts and summaries.
func (e Evidence) String() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("L%d: %s", e.Line, e.Snippet)
	case e.Window != nil:
		return fmt.Sprintf("@%d-%d: %s", e.Window.Start, e.Window.End, e.Snippet)
	default:
		return e.Snippet
	}
}
