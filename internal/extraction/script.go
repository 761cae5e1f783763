package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

const (
	materialAPIValue  = "material_api_call"
	toleranceAPIValue = "tolerance_api_usage"

	scriptNotes = "IR extracted from NXOpen script text using a line-based heuristic parser. " +
		"Features, materials and tolerances are best-effort and backed by line evidence."
)

// extractScript scans an NXOpen script line by line. Every fact carries its line number.
func extractScript(ir *types.IR, rawText, sourcePath string) {
	lines := splitLines(rawText)

	ir.Part.Units, ir.Part.UnitsEvidence = scriptUnits(lines)
	applyScriptName(ir, lines, sourcePath)

	for i, line := range lines {
		snippet := strings.TrimSpace(line)
		if snippet == "" {
			continue
		}
		lineNo := i + 1
		ev := types.LineEvidence(lineNo, snippet)

		if kind, ok := firstKind(builderPatterns, line); ok {
			ir.Features = append(ir.Features, types.Feature{Kind: kind, Evidence: ev})
		}

		if value, ok := scriptMaterial(line); ok {
			ir.Materials = append(ir.Materials, types.Material{Value: value, Evidence: ev})
		}

		if value, ok := scriptTolerance(line); ok {
			ir.Tolerances = append(ir.Tolerances, types.Tolerance{Value: value, Evidence: ev})
		}

		if param, ok := scriptParameter(line); ok {
			param.Evidence = ev
			ir.Parameters = append(ir.Parameters, param)
		}
	}

	ir.Notes = scriptNotes
}

// scriptUnits tries each unit signal class in priority order and returns the first line that matches.
func scriptUnits(lines []string) (types.Units, *types.Evidence) {
	classes := []struct {
		units    types.Units
		patterns []*regexp.Regexp
	}{
		{types.UnitsMillimeters, []*regexp.Regexp{unitsEnumMM, partUnitsMM}},
		{types.UnitsInches, []*regexp.Regexp{unitsEnumIn, partUnitsIn}},
		{types.UnitsMillimeters, []*regexp.Regexp{unitsWordMM}},
		{types.UnitsInches, []*regexp.Regexp{unitsWordIn}},
	}
	for _, class := range classes {
		for i, line := range lines {
			for _, re := range class.patterns {
				if re.MatchString(line) {
					ev := types.LineEvidence(i+1, strings.TrimSpace(line))
					return class.units, &ev
				}
			}
		}
	}
	return types.UnitsUnknown, nil
}

// applyScriptName sets the part name: setter call, then "# Part:" comment, then the file stem.
func applyScriptName(ir *types.IR, lines []string, sourcePath string) {
	for i, line := range lines {
		if m := partNameSetter.FindStringSubmatch(line); m != nil {
			if name := strings.TrimSpace(m[2]); name != "" {
				setName(ir, name, setterNameSource(m[1]), types.LineEvidence(i+1, strings.TrimSpace(line)))
				return
			}
		}
	}
	for i, line := range lines {
		if m := partNameComment.FindStringSubmatch(line); m != nil {
			setName(ir, strings.TrimSpace(m[1]), nameSourceComment, types.LineEvidence(i+1, strings.TrimSpace(line)))
			return
		}
	}
	if stem := fileStem(sourcePath); stem != "" {
		name := stem
		ir.Part.Name = &name
		ir.Part.NameSource = nameSourceFileStem
	}
}

func setName(ir *types.IR, name, source string, ev types.Evidence) {
	ir.Part.Name = &name
	ir.Part.NameSource = source
	ir.Part.NameEvidence = &ev
}

func firstKind(table []kindPattern, line string) (types.FeatureKind, bool) {
	for _, entry := range table {
		if entry.pattern.MatchString(line) {
			return entry.kind, true
		}
	}
	return "", false
}

func scriptMaterial(line string) (string, bool) {
	if m := materialToken.FindString(line); m != "" {
		return strings.TrimSpace(m), true
	}
	if materialCall.MatchString(line) {
		return materialAPIValue, true
	}
	return "", false
}

func scriptTolerance(line string) (string, bool) {
	if m := tolerancePlusMinus.FindString(line); m != "" {
		return strings.TrimSpace(m), true
	}
	if m := toleranceAsym.FindString(line); m != "" {
		return strings.TrimSpace(m), true
	}
	if toleranceCall.MatchString(line) {
		return toleranceAPIValue, true
	}
	return "", false
}

// scriptParameter keeps a key-path assignment only when its left side names a dimension.
func scriptParameter(line string) (types.Parameter, bool) {
	m := keyPathAssign.FindStringSubmatch(line)
	if m == nil {
		return types.Parameter{}, false
	}
	lhs := m[keyPathAssign.SubexpIndex("lhs")]
	rhs := m[keyPathAssign.SubexpIndex("rhs")]
	if !isDimensional(lhs) {
		return types.Parameter{}, false
	}
	value := strings.Trim(strings.TrimSpace(rhs), `"'`)
	return types.Parameter{Name: lhs, Value: value}, true
}

func isDimensional(keyPath string) bool {
	lower := strings.ToLower(keyPath)
	for _, kw := range dimensionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
