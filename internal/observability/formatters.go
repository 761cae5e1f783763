// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathan/nxrag/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out  io.Writer
	ok   *color.Color
	fail *color.Color
}

// NewPrinter creates a new Printer that writes to the given writer.
// Color is only used on stdout, and only when stdout is a terminal.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:  out,
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
	}
	if out != os.Stdout {
		p.ok.DisableColor()
		p.fail.DisableColor()
	}
	return p
}

func (p *Printer) status(ok bool) string {
	if ok {
		return p.ok.Sprint("OK")
	}
	return p.fail.Sprint("FAIL")
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to n runes, marking the cut with "..."
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintIR outputs a human-readable summary of the extracted facts.
func (p *Printer) PrintIR(ir *types.IR) {
	if ir == nil {
		return
	}

	var sb strings.Builder
	name := ir.PartName()
	if name == "" {
		name = "(not detected)"
	}
	sb.WriteString(fmt.Sprintf("Part:     %s\n", name))
	if ir.Part.NameSource != "" {
		sb.WriteString(fmt.Sprintf("Source:   %s\n", ir.Part.NameSource))
	}
	sb.WriteString(fmt.Sprintf("Units:    %s\n", ir.Part.Units))
	sb.WriteString(fmt.Sprintf("Input:    %s\n", ir.Source.Type))
	sb.WriteString("\n")

	if len(ir.Materials) > 0 {
		sb.WriteString("Materials:\n")
		for i, m := range ir.Materials {
			if i == maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ir.Materials)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", m.Value))
		}
	}

	if len(ir.Tolerances) > 0 {
		sb.WriteString("Tolerances:\n")
		for i, tol := range ir.Tolerances {
			if i == maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(ir.Tolerances)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", tol.Value))
		}
	}

	kinds := ir.FeatureKinds()
	if len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		sb.WriteString(fmt.Sprintf("Features: %d (%s)\n", len(ir.Features), strings.Join(names, ", ")))
	}
	if len(ir.Parameters) > 0 {
		sb.WriteString(fmt.Sprintf("Parameters: %d\n", len(ir.Parameters)))
	}

	p.printBox("EXTRACTED PART FACTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRetrieval outputs which corpus files were selected.
func (p *Printer) PrintRetrieval(log *types.RetrievalLog) {
	if log == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Corpus:   %s (%s)\n", log.CorpusRoot, log.PathBase))
	sb.WriteString(fmt.Sprintf("Eligible: %d templates, %d exemplars, %d style, %d glossary\n",
		log.Eligible.Templates, log.Eligible.Exemplars, log.Eligible.StyleRules, log.Eligible.Glossary))
	sb.WriteString("\n")

	if len(log.FilesUsed) == 0 {
		sb.WriteString("No files selected\n")
	} else {
		sb.WriteString(fmt.Sprintf("Selected %d files:\n", len(log.FilesUsed)))
		for _, f := range log.FilesUsed {
			sb.WriteString(fmt.Sprintf("  • %s\n", f))
		}
	}

	for _, f := range log.Truncated {
		sb.WriteString(fmt.Sprintf("✂ truncated %s\n", f))
	}
	for _, f := range log.Skipped {
		sb.WriteString(fmt.Sprintf("⚠ skipped %s\n", f))
	}

	p.printBox("RETRIEVED CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the validation outcome of the accepted completion.
func (p *Printer) PrintValidation(v types.Validation, attempts int, retryUsed bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Result:    %s\n", p.status(v.OK)))
	sb.WriteString(fmt.Sprintf("Attempts:  %d", attempts))
	if retryUsed {
		sb.WriteString(" (corrective retry used)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Exemplars: %s\n", p.status(v.Exemplars.OK)))
	sb.WriteString(fmt.Sprintf("Claims:    %s\n", p.status(v.Claims.OK)))

	if len(v.Missing) > 0 {
		sb.WriteString("\nMissing:\n")
		for _, m := range v.Missing {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", m))
		}
	}

	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs which required headings the completion contains.
func (p *Printer) PrintSections(report types.SectionReport) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sections:  %s\n", p.status(report.OK)))
	for _, s := range report.Found {
		sb.WriteString(fmt.Sprintf("  ✓ %s\n", s))
	}
	for _, s := range report.Missing {
		sb.WriteString(fmt.Sprintf("  ✗ %s\n", s))
	}

	p.printBox("DOCUMENT SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}
