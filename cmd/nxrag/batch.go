package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/pipeline"
)

var batchCommand = &cobra.Command{
	Use:   "batch",
	Short: "Run the pipeline for every file in a directory",
	Long: `Runs every regular, non-hidden file directly inside --inputs through the full pipeline.
Each input gets its own run folder; one failing input does not stop the others. Runs share a
single generation client, so requests_per_minute applies across the batch.`,
	RunE: runBatch,
}

var (
	batchInputs      string
	batchConcurrency int
	batchOpts        runFlags
)

func init() {
	batchCommand.Flags().StringVar(&batchInputs, "inputs", "", "Directory of input files")
	batchCommand.Flags().IntVar(&batchConcurrency, "concurrency", pipeline.DefaultConcurrency, "Number of inputs processed at once")
	batchOpts.register(batchCommand)

	_ = batchCommand.MarkFlagRequired("inputs")

	rootCmd.AddCommand(batchCommand)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	opts, err := batchOpts.options(cmd)
	if err != nil {
		return err
	}
	if opts.Client == nil {
		opts.Client, err = llm.NewClient(ctx, &opts.LLM)
		if err != nil {
			return err
		}
	}
	defer func() { _ = opts.Client.Close() }()

	result, err := pipeline.RunBatch(ctx, pipeline.BatchOptions{
		InputsDir:   batchInputs,
		Concurrency: batchConcurrency,
		Base:        opts,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nBatch complete: %d inputs\n", len(result.Items))
	for _, item := range result.Items {
		switch {
		case item.Err != nil:
			fmt.Printf("  ❌ %s: %v\n", item.InputPath, item.Err)
		case !item.Result.Generation.Validation.OK:
			fmt.Printf("  ⚠️ %s -> %s (validation failing)\n", item.InputPath, item.Result.RunDir)
		default:
			fmt.Printf("  ✅ %s -> %s\n", item.InputPath, item.Result.RunDir)
		}
	}

	if failed := result.Failed(); len(failed) > 0 {
		logger.Warn("batch finished with failures", zap.Int("failed", len(failed)), zap.Int("total", len(result.Items)))
		return fmt.Errorf("%d of %d inputs failed", len(failed), len(result.Items))
	}
	return nil
}
