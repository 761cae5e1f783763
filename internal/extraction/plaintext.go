package extraction

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/nxrag/internal/types"
)

// windowRadius is how much context surrounds a plain-text match, in characters on each side.
const windowRadius = 60

const plainTextNotes = "IR extracted from plain text with window evidence. " +
	"Parameters are never inferred from plain text."

type span struct {
	start, end int
	kind       types.FeatureKind
}

// extractPlainText runs the detectors over the whole text. Evidence is a window around each match.
func extractPlainText(ir *types.IR, rawText, sourcePath string) {
	lines := splitLines(rawText)

	if name, line, lineNo, ok := firstLineName(lines); ok {
		setName(ir, name, nameSourceFirstLine, types.LineEvidence(lineNo, line))
	} else if title := titleFromPath(sourcePath); title != "" {
		ir.Part.Name = &title
		ir.Part.NameSource = nameSourceFileStem
	}

	ir.Part.Units, ir.Part.UnitsEvidence = plainTextUnits(rawText)

	for _, loc := range materialToken.FindAllStringIndex(rawText, -1) {
		ir.Materials = append(ir.Materials, types.Material{
			Value:    strings.TrimSpace(rawText[loc[0]:loc[1]]),
			Evidence: window(rawText, loc[0], loc[1]),
		})
	}

	for _, loc := range tolerancesInText(rawText) {
		ir.Tolerances = append(ir.Tolerances, types.Tolerance{
			Value:    strings.TrimSpace(rawText[loc[0]:loc[1]]),
			Evidence: window(rawText, loc[0], loc[1]),
		})
	}

	for _, s := range featureSpans(rawText) {
		ir.Features = append(ir.Features, types.Feature{
			Kind:     s.kind,
			Evidence: window(rawText, s.start, s.end),
		})
	}

	ir.Notes = plainTextNotes
}

func plainTextUnits(text string) (types.Units, *types.Evidence) {
	classes := []struct {
		units   types.Units
		pattern *regexp.Regexp
	}{
		{types.UnitsMillimeters, unitsEnumMM},
		{types.UnitsMillimeters, partUnitsMM},
		{types.UnitsInches, unitsEnumIn},
		{types.UnitsInches, partUnitsIn},
		{types.UnitsMillimeters, unitsWordMM},
		{types.UnitsInches, unitsWordIn},
	}
	for _, class := range classes {
		if loc := class.pattern.FindStringIndex(text); loc != nil {
			ev := window(text, loc[0], loc[1])
			return class.units, &ev
		}
	}
	return types.UnitsUnknown, nil
}

// tolerancesInText returns ± and +N/-M matches in text order.
func tolerancesInText(text string) [][]int {
	locs := append(tolerancePlusMinus.FindAllStringIndex(text, -1), toleranceAsym.FindAllStringIndex(text, -1)...)
	sort.SliceStable(locs, func(i, j int) bool { return locs[i][0] < locs[j][0] })
	return locs
}

// featureSpans applies the keyword table in priority order. A match that overlaps a span
// already claimed by an earlier table entry is dropped, so "mounting interface holes"
// yields one mounting-interface and one hole.
func featureSpans(text string) []span {
	var accepted []span
	for _, entry := range keywordPatterns {
		for _, loc := range entry.pattern.FindAllStringIndex(text, -1) {
			candidate := span{start: loc[0], end: loc[1], kind: entry.kind}
			if !overlapsAny(candidate, accepted) {
				accepted = append(accepted, candidate)
			}
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })
	return accepted
}

func overlapsAny(s span, spans []span) bool {
	for _, other := range spans {
		if s.start < other.end && other.start < s.end {
			return true
		}
	}
	return false
}

// window builds evidence for text[start:end] widened by windowRadius characters on each side.
// Offsets stay in bytes.
func window(text string, start, end int) types.Evidence {
	lo := start
	for i := 0; i < windowRadius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < windowRadius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return types.WindowEvidence(text, lo, hi)
}
