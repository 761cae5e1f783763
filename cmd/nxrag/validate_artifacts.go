package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/artifacts"
	"github.com/jonathan/nxrag/internal/schemas"
)

var validateArtifactsCommand = &cobra.Command{
	Use:   "validate-artifacts",
	Short: "Check a run folder's JSON artifacts against their schemas",
	RunE:  runValidateArtifacts,
}

var validateRunDir string

func init() {
	validateArtifactsCommand.Flags().StringVar(&validateRunDir, "run", "", "Run folder to check")

	_ = validateArtifactsCommand.MarkFlagRequired("run")

	rootCmd.AddCommand(validateArtifactsCommand)
}

// runArtifacts are the schema-backed files a run folder can hold, in report order
var runArtifacts = []string{artifacts.GenerationFile, artifacts.IRFile, artifacts.RetrievedFile}

func runValidateArtifacts(_ *cobra.Command, _ []string) error {
	run, err := artifacts.Open(validateRunDir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(runArtifacts))
	for _, name := range runArtifacts {
		if run.Exists(name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no schema-backed artifacts found in %s", run.Path)
	}

	failed := 0
	for _, name := range names {
		err := schemas.ValidateArtifactFile(run.File(name))
		var validationErr *schemas.ValidationError
		switch {
		case err == nil:
			fmt.Printf("  ✅ %s\n", name)
		case errors.As(err, &validationErr):
			failed++
			fmt.Printf("  ❌ %s\n", name)
			for _, fe := range validationErr.Errors {
				fmt.Printf("     - %s: %s\n", fe.Field, fe.Message)
			}
		default:
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d artifacts failed schema validation", failed, len(names))
	}
	fmt.Printf("All %d artifacts valid\n", len(names))
	return nil
}
