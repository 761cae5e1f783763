package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/nxrag/internal/types"
)

func TestRenderSummary_Sample(t *testing.T) {
	ir := Extract(sampleScript, "inputs/widget.py", types.SourceNXOpenScript)
	summary := RenderSummary(ir)

	assert.True(t, strings.HasPrefix(summary, "IR version: v1\nSource: nxopen_script_text  (inputs/widget.py)\n"))
	assert.Contains(t, summary, "Part name: WidgetHousing_v1\n")
	assert.Contains(t, summary, "Units: mm\n")
	assert.Contains(t, summary, "- 6061-T6  [L20: mat_note = \"Material: 6061-T6 aluminum\"]\n")
	assert.Contains(t, summary, "- holeBuilder.Diameter.RightHandSide = 6.0  [L15: ")
	assert.True(t, strings.HasSuffix(summary, "Notes: "+scriptNotes+"\n"))
}

func TestRenderSummary_Empty(t *testing.T) {
	ir := types.NewIR(types.SourcePlainText, "x.txt")
	summary := RenderSummary(ir)

	assert.Contains(t, summary, "Part name: Not detected\n")
	assert.Contains(t, summary, "Units: Not detected\n")
	assert.Equal(t, 4, strings.Count(summary, "- (none)\n"))
	assert.True(t, strings.HasSuffix(summary, "Notes:\n"))
}

func TestFormatFacts(t *testing.T) {
	ir := Extract(sampleScript, "inputs/widget.py", types.SourceNXOpenScript)
	facts := FormatFacts(ir)
	lines := strings.Split(facts, "\n")

	assert.Equal(t, "- Part name: WidgetHousing_v1", lines[0])
	assert.Equal(t, "- Units: mm", lines[1])
	assert.Contains(t, facts, "- Tolerance: ±0.05 mm  [evidence: L21: ")
	assert.Contains(t, facts, "- Feature: hole  [evidence: L14: ")
	assert.NotContains(t, facts, "Parameter")
}

func TestFormatFacts_NotDetected(t *testing.T) {
	ir := types.NewIR(types.SourcePlainText, "")
	assert.Equal(t, strings.Join([]string{
		"- Part name: Not detected",
		"- Units: Not detected",
		"- Material: Not detected",
		"- Tolerance: Not detected",
		"- Feature: Not detected",
	}, "\n"), FormatFacts(ir))
}
