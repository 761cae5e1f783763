package rendering

import (
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/nxrag/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completion = "## Overview\nA bracket.\n\n## Materials & tolerances\n6061-T6, ±0.05 mm.\n\n## Vibration reliability practices\n- Torque to 4.5 N·m.\n"

func namedIR(name string) *types.IR {
	ir := types.NewIR(types.SourceNXOpenScript, "inputs/bracket.py")
	ir.Part.Name = &name
	ir.Part.Units = types.UnitsMillimeters
	return ir
}

func TestRenderDocument(t *testing.T) {
	doc, err := RenderDocument(namedIR("Mounting_Bracket"), "\n"+completion+"\n\n")
	require.NoError(t, err)

	want := "# Part description: Mounting\\_Bracket\n\n" +
		"## Overview\nA bracket.\n\n## Materials & tolerances\n6061-T6, ±0.05 mm.\n\n## Vibration reliability practices\n- Torque to 4.5 N·m.\n"
	assert.Equal(t, want, doc)
}

func TestRenderDocument_NoName(t *testing.T) {
	doc, err := RenderDocument(types.NewIR(types.SourcePlainText, ""), completion)
	require.NoError(t, err)
	assert.Contains(t, doc, "# Part description: Unnamed part\n")

	doc, err = RenderDocument(nil, completion)
	require.NoError(t, err)
	assert.Contains(t, doc, "# Part description: Unnamed part\n")
}

func TestTemplateErrors(t *testing.T) {
	var tmplErr *TemplateError

	_, err := parseTemplate("bad", "{{.Title")
	require.True(t, errors.As(err, &tmplErr))
	assert.Contains(t, err.Error(), "failed to parse template")

	tmpl, err := parseTemplate("unknown", "{{.Author}}")
	require.NoError(t, err)
	_, err = execute(tmpl, NewDocumentData(nil, completion))
	require.True(t, errors.As(err, &tmplErr))
	assert.Contains(t, err.Error(), "failed to execute template")
}

func TestNewDocumentData(t *testing.T) {
	data := NewDocumentData(namedIR("Bracket"), "\n"+completion)
	assert.Equal(t, "Bracket", data.Title)
	assert.Equal(t, types.UnitsMillimeters, data.Units)
	assert.Equal(t, types.SourceNXOpenScript, data.SourceType)
	assert.Equal(t, "inputs/bracket.py", data.SourcePath)
	assert.Equal(t, strings.TrimSpace(completion), data.Body)
}
