package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/nxrag/internal/artifacts"
	"github.com/jonathan/nxrag/internal/llm"
)

func writeInputsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestBatchInputs(t *testing.T) {
	dir := writeInputsDir(t, map[string]string{
		"b.py":     widgetScript,
		"a.txt":    "Bracket.\n",
		".hidden":  "ignored",
		"notes.md": "# Notes\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	inputs, err := BatchInputs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.py"),
		filepath.Join(dir, "notes.md"),
	}, inputs)
}

func TestBatchInputs_MissingDir(t *testing.T) {
	_, err := BatchInputs(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeInputsDir(t, map[string]string{
		"one.py":    widgetScript,
		"two.py":    widgetScript,
		"three.txt": "Bracket with 4x M5 holes.\n",
	})
	var out strings.Builder

	result, err := RunBatch(context.Background(), BatchOptions{
		InputsDir:   dir,
		Concurrency: 2,
		Base: func() Options {
			opts := baseOptions(t, llm.NewStubClient(""))
			opts.Out = &out
			return opts
		}(),
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Empty(t, result.Failed())

	seen := map[string]bool{}
	for _, item := range result.Items {
		require.NoError(t, item.Err)
		require.NotNil(t, item.Result)
		assert.False(t, seen[item.Result.RunDir], "run dirs must be distinct")
		seen[item.Result.RunDir] = true
		assert.FileExists(t, filepath.Join(item.Result.RunDir, artifacts.OutputFile))
	}
	assert.Equal(t, filepath.Join(dir, "one.py"), result.Items[0].InputPath)
	assert.Equal(t, 3, strings.Count(out.String(), "Step 1/6: Reading input..."))
}

func TestRunBatch_RecordsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeInputsDir(t, map[string]string{
		"good.py": widgetScript,
	})
	opts := baseOptions(t, llm.NewStubClient(""))
	opts.TemplatePath = filepath.Join(t.TempDir(), "missing.md")

	result, err := RunBatch(context.Background(), BatchOptions{InputsDir: dir, Base: opts})
	require.NoError(t, err)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(dir, "good.py"), failed[0].InputPath)
	var tmplErr *TemplateError
	assert.ErrorAs(t, failed[0].Err, &tmplErr)
}
