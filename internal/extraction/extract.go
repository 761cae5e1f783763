package extraction

import (
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

// Extract builds an IR from raw input text. It never fails: missing signals are
// left as nil or empty lists and units stay unknown.
func Extract(rawText, sourcePath string, sourceType types.SourceType) *types.IR {
	ir := types.NewIR(sourceType, sourcePath)

	switch detectMode(rawText, sourceType) {
	case modeScript:
		extractScript(ir, rawText, sourcePath)
	default:
		extractPlainText(ir, rawText, sourcePath)
	}

	ir.Materials = dedupeMaterials(ir.Materials)
	ir.Tolerances = dedupeTolerances(ir.Tolerances)
	return ir
}

// normalizeValue is the dedupe key: lower-cased with runs of whitespace collapsed.
func normalizeValue(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

func dedupeMaterials(in []types.Material) []types.Material {
	seen := make(map[string]bool)
	out := make([]types.Material, 0, len(in))
	for _, m := range in {
		key := normalizeValue(m.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func dedupeTolerances(in []types.Tolerance) []types.Tolerance {
	seen := make(map[string]bool)
	out := make([]types.Tolerance, 0, len(in))
	for _, t := range in {
		key := normalizeValue(t.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
