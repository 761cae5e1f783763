package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/extraction"
	"github.com/jonathan/nxrag/internal/ingestion"
	"github.com/jonathan/nxrag/internal/observability"
	"github.com/jonathan/nxrag/internal/schemas"
)

var extractIRCommand = &cobra.Command{
	Use:   "extract-ir",
	Short: "Extract part facts from an input into ir.json",
	Long:  "Runs only the fact extractor: units, part name, features, materials, tolerances and parameters, each with evidence.",
	RunE:  runExtractIR,
}

var (
	extractInput      string
	extractOutput     string
	extractSummary    string
	extractSourceType string
)

func init() {
	extractIRCommand.Flags().StringVarP(&extractInput, "in", "i", "", "Path to the input file")
	extractIRCommand.Flags().StringVarP(&extractOutput, "out", "o", "", "Path to output ir.json")
	extractIRCommand.Flags().StringVar(&extractSummary, "summary", "", "Optional path for the plain-text IR summary")
	extractIRCommand.Flags().StringVar(&extractSourceType, "source-type", "", "Override source type detection")

	_ = extractIRCommand.MarkFlagRequired("in")
	_ = extractIRCommand.MarkFlagRequired("out")

	rootCmd.AddCommand(extractIRCommand)
}

func runExtractIR(_ *cobra.Command, _ []string) error {
	sourceType, err := parseSourceType(extractSourceType)
	if err != nil {
		return err
	}
	input, err := ingestion.ReadInput(extractInput, sourceType)
	if err != nil {
		return err
	}

	ir := extraction.Extract(input.Text, filepath.ToSlash(input.Path), input.SourceType)
	if err := writeJSONFile(extractOutput, schemas.KindIR, ir); err != nil {
		return err
	}
	if extractSummary != "" {
		if err := writeFile(extractSummary, []byte(extraction.RenderSummary(ir))); err != nil {
			return err
		}
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintIR(ir)
	}
	fmt.Printf("Extracted %d features, %d materials, %d tolerances (%s)\n",
		len(ir.Features), len(ir.Materials), len(ir.Tolerances), extraction.ModeName(input.Text, input.SourceType))
	fmt.Printf("Wrote %s\n", extractOutput)
	return nil
}
