package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/nxrag/internal/config"
	"github.com/jonathan/nxrag/internal/corpus"
	"github.com/jonathan/nxrag/internal/prompts"
)

var initCorpusCommand = &cobra.Command{
	Use:   "init-corpus",
	Short: "Write the default config, prompt template and an empty corpus layout",
	Long:  "Creates configs/app.yaml, the default prompt template and the corpus category directories under --root. Existing files are never overwritten.",
	RunE:  runInitCorpus,
}

var initRoot string

func init() {
	initCorpusCommand.Flags().StringVar(&initRoot, "root", ".", "Project root to initialize")

	rootCmd.AddCommand(initCorpusCommand)
}

// writeIfAbsent writes data to path unless it already exists; it reports whether it wrote
func writeIfAbsent(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	return true, writeFile(path, data)
}

func runInitCorpus(_ *cobra.Command, _ []string) error {
	defaults := config.DefaultConfig()

	configYAML, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to render default config: %w", err)
	}

	var created []string
	files := []struct {
		path string
		data []byte
	}{
		{filepath.Join(initRoot, config.DefaultPath), configYAML},
		{filepath.Join(initRoot, defaults.Paths.Template), []byte(prompts.DefaultTemplate())},
	}
	for _, f := range files {
		wrote, err := writeIfAbsent(f.path, f.data)
		if err != nil {
			return err
		}
		if wrote {
			created = append(created, f.path)
		}
	}

	dirs, err := corpus.InitLayout(filepath.Join(initRoot, defaults.Paths.Corpus))
	if err != nil {
		return err
	}
	created = append(created, dirs...)

	if len(created) == 0 {
		fmt.Println("Nothing to do: layout already present")
		return nil
	}
	fmt.Println("Created:")
	for _, path := range created {
		fmt.Printf("  - %s\n", filepath.ToSlash(path))
	}
	return nil
}
