package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/observability"
	"github.com/jonathan/nxrag/internal/validation"
)

var validateOutputCommand = &cobra.Command{
	Use:   "validate-output",
	Short: "Validate a completion against exemplar text",
	Long: `Runs only the validator. Every signal category present in the exemplars (explicit tolerance,
material, torque value, fastener practice) must appear in the output, and no embellishment phrase
may appear unless the prompt contains it. Exits non-zero when validation fails.`,
	RunE: runValidateOutput,
}

var (
	validateOutputPath    string
	validateExemplarsPath string
	validatePromptPath    string
	validateResultPath    string
)

func init() {
	validateOutputCommand.Flags().StringVar(&validateOutputPath, "output", "", "Path to the completion (output.md)")
	validateOutputCommand.Flags().StringVar(&validateExemplarsPath, "exemplars", "", "Path to the exemplar text")
	validateOutputCommand.Flags().StringVar(&validatePromptPath, "prompt", "", "Path to the prompt used as claim evidence (defaults to the exemplar text)")
	validateOutputCommand.Flags().StringVarP(&validateResultPath, "out", "o", "", "Optional path for the validation result JSON")

	_ = validateOutputCommand.MarkFlagRequired("output")
	_ = validateOutputCommand.MarkFlagRequired("exemplars")

	rootCmd.AddCommand(validateOutputCommand)
}

func readText(path, what string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &validation.FileReadError{Message: what + " " + path, Cause: err}
	}
	return string(data), nil
}

func runValidateOutput(_ *cobra.Command, _ []string) error {
	output, err := readText(validateOutputPath, "output file")
	if err != nil {
		return err
	}
	exemplars, err := readText(validateExemplarsPath, "exemplar file")
	if err != nil {
		return err
	}
	prompt := exemplars
	if validatePromptPath != "" {
		if prompt, err = readText(validatePromptPath, "prompt file"); err != nil {
			return err
		}
	}

	result := validation.Validate(exemplars, prompt, output)
	if validateResultPath != "" {
		if err := writeJSONFile(validateResultPath, "", result); err != nil {
			return err
		}
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintValidation(result, 1, false)
	}
	if !result.OK {
		return fmt.Errorf("validation failed: %s", strings.Join(result.Missing, "; "))
	}
	fmt.Println("✅ Validation passed")
	return nil
}
