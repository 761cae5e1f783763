package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/corpus"
	"github.com/jonathan/nxrag/internal/observability"
	"github.com/jonathan/nxrag/internal/schemas"
)

var retrieveCommand = &cobra.Command{
	Use:   "retrieve",
	Short: "Select reference context from the corpus into retrieved.json",
	Long: `Runs only the context selector: one template, up to --max-exemplars exemplars, one style-rules
file and one glossary, chosen by sorted file name. The exemplar and framing text can be written
alongside the log for use with validate-output.`,
	RunE: runRetrieve,
}

var (
	retrieveCorpus       string
	retrieveOutput       string
	retrieveMaxExemplars int
	retrieveMaxChars     int
	retrieveExemplarsOut string
	retrieveContextOut   string
)

func init() {
	retrieveCommand.Flags().StringVar(&retrieveCorpus, "corpus", "", "Corpus root (overrides paths.corpus)")
	retrieveCommand.Flags().StringVarP(&retrieveOutput, "out", "o", "", "Path to output retrieved.json")
	retrieveCommand.Flags().IntVar(&retrieveMaxExemplars, "max-exemplars", 0, "Maximum exemplars (overrides limits.max_exemplars)")
	retrieveCommand.Flags().IntVar(&retrieveMaxChars, "max-chars", 0, "Per-document character limit (overrides limits.max_chars_per_doc)")
	retrieveCommand.Flags().StringVar(&retrieveExemplarsOut, "exemplars-out", "", "Optional path for the exemplar text")
	retrieveCommand.Flags().StringVar(&retrieveContextOut, "context-out", "", "Optional path for the framing context text")

	_ = retrieveCommand.MarkFlagRequired("out")

	rootCmd.AddCommand(retrieveCommand)
}

func runRetrieve(cmd *cobra.Command, _ []string) error {
	opts := corpus.SelectOptions{
		CorpusRoot:     appConfig.Paths.Corpus,
		MaxExemplars:   appConfig.Limits.MaxExemplars,
		MaxCharsPerDoc: appConfig.Limits.MaxCharsPerDoc,
	}
	if cmd.Flags().Changed("corpus") {
		opts.CorpusRoot = retrieveCorpus
	}
	if cmd.Flags().Changed("max-exemplars") {
		opts.MaxExemplars = retrieveMaxExemplars
	}
	if cmd.Flags().Changed("max-chars") {
		opts.MaxCharsPerDoc = retrieveMaxChars
	}
	if wd, err := os.Getwd(); err == nil {
		opts.RepoRoot = wd
	}

	selection, err := corpus.Select(opts)
	if err != nil {
		return err
	}
	if err := writeJSONFile(retrieveOutput, schemas.KindRetrievalLog, selection.Log); err != nil {
		return err
	}
	if retrieveExemplarsOut != "" {
		if err := writeFile(retrieveExemplarsOut, []byte(selection.ExemplarText)); err != nil {
			return err
		}
	}
	if retrieveContextOut != "" {
		if err := writeFile(retrieveContextOut, []byte(selection.FramingText)); err != nil {
			return err
		}
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintRetrieval(&selection.Log)
	}
	fmt.Printf("Selected %d files (%d exemplars) from %s\n",
		len(selection.Log.FilesUsed), selection.Log.Counts.Exemplars, selection.Log.CorpusRoot)
	fmt.Printf("Wrote %s\n", retrieveOutput)
	return nil
}
