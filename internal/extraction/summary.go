package extraction

import (
	"fmt"
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

const notDetected = "Not detected"

// RenderSummary renders the human-readable ir_summary.txt for an IR.
func RenderSummary(ir *types.IR) string {
	var b strings.Builder

	fmt.Fprintf(&b, "IR version: %s\n", ir.Version)
	fmt.Fprintf(&b, "Source: %s  (%s)\n", ir.Source.Type, ir.Source.Path)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Part name: %s\n", orNotDetected(ir.PartName()))
	fmt.Fprintf(&b, "Units: %s\n", unitsLabel(ir.Part.Units))
	b.WriteString("\n")

	b.WriteString("Materials:\n")
	items := make([]string, 0, len(ir.Materials))
	for _, m := range ir.Materials {
		items = append(items, fmt.Sprintf("%s  [%s]", m.Value, m.Evidence))
	}
	writeList(&b, items)

	b.WriteString("\nTolerances:\n")
	items = items[:0]
	for _, t := range ir.Tolerances {
		items = append(items, fmt.Sprintf("%s  [%s]", t.Value, t.Evidence))
	}
	writeList(&b, items)

	b.WriteString("\nFeatures:\n")
	items = items[:0]
	for _, f := range ir.Features {
		items = append(items, fmt.Sprintf("%s  [%s]", f.Kind, f.Evidence))
	}
	writeList(&b, items)

	b.WriteString("\nParameters:\n")
	items = items[:0]
	for _, p := range ir.Parameters {
		items = append(items, fmt.Sprintf("%s = %s  [%s]", p.Name, p.Value, p.Evidence))
	}
	writeList(&b, items)

	b.WriteString("\n")
	b.WriteString(strings.TrimSpace("Notes: " + ir.Notes))
	b.WriteString("\n")
	return b.String()
}

// FormatFacts renders the compact facts block substituted for {facts} in the prompt template.
func FormatFacts(ir *types.IR) string {
	lines := []string{
		"- Part name: " + orNotDetected(ir.PartName()),
		"- Units: " + unitsLabel(ir.Part.Units),
	}

	if len(ir.Materials) == 0 {
		lines = append(lines, "- Material: "+notDetected)
	}
	for _, m := range ir.Materials {
		lines = append(lines, fmt.Sprintf("- Material: %s  [evidence: %s]", m.Value, m.Evidence))
	}

	if len(ir.Tolerances) == 0 {
		lines = append(lines, "- Tolerance: "+notDetected)
	}
	for _, t := range ir.Tolerances {
		lines = append(lines, fmt.Sprintf("- Tolerance: %s  [evidence: %s]", t.Value, t.Evidence))
	}

	if len(ir.Features) == 0 {
		lines = append(lines, "- Feature: "+notDetected)
	}
	for _, f := range ir.Features {
		lines = append(lines, fmt.Sprintf("- Feature: %s  [evidence: %s]", f.Kind, f.Evidence))
	}

	return strings.Join(lines, "\n")
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}

func orNotDetected(s string) string {
	if s == "" {
		return notDetected
	}
	return s
}

func unitsLabel(u types.Units) string {
	if u == "" || u == types.UnitsUnknown {
		return notDetected
	}
	return string(u)
}
