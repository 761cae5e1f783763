package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the nxrag binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "nxrag"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath, err := filepath.Abs(filepath.Join("..", "..", "bin", binaryName))
	require.NoError(t, err)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/nxrag ./cmd/nxrag'", binaryPath)
	}

	return binaryPath
}

// writeTestCorpus builds a one-exemplar corpus under a temp dir and returns its root
func writeTestCorpus(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "corpus")
	files := map[string]string{
		"templates/part_description.md": "# Template\n\nDescribe the part in three sections.\n",
		"exemplars/bracket.md":          "# Bracket\n\nMaterial: 6061-T6 aluminum.\nTolerance: ±0.05 mm.\nUse threadlocker and torque to 4.5 N·m.\n",
		"style_rules/style.md":          "# Style\n\nUse SI units.\n",
		"glossary/terms.md":             "# Glossary\n\nThreadlocker: thread adhesive.\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

const sampleScript = `# Part: Bracket_v2
import NXOpen
part_units = NXOpen.Part.Units.Millimeters
mat_note = "Material: 6061-T6 aluminum"
`
