package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/artifacts"
)

var exportRunsCommand = &cobra.Command{
	Use:   "export-runs",
	Short: "Copy run artifacts into one flat directory",
	Long:  "Copies every file directly inside each run folder into --dest, named <run id>__<file> so runs never overwrite each other.",
	RunE:  runExportRuns,
}

var (
	exportRunsRoot string
	exportDest     string
)

func init() {
	exportRunsCommand.Flags().StringVar(&exportRunsRoot, "runs", "", "Runs root (overrides paths.outputs)")
	exportRunsCommand.Flags().StringVar(&exportDest, "dest", "", "Destination directory")

	_ = exportRunsCommand.MarkFlagRequired("dest")

	rootCmd.AddCommand(exportRunsCommand)
}

func runExportRuns(cmd *cobra.Command, _ []string) error {
	root := appConfig.Paths.Outputs
	if cmd.Flags().Changed("runs") {
		root = exportRunsRoot
	}

	written, err := artifacts.Export(root, exportDest)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d artifacts from %s to %s\n", len(written), root, exportDest)
	return nil
}
