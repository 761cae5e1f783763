package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/nxrag/internal/config"
	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/pipeline"
	"github.com/jonathan/nxrag/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run <input>",
	Short: "Run the full part description pipeline on one input",
	Long: `Runs one input through extraction -> selection -> prompt packing -> generation -> validation
(with at most one corrective retry) -> rendering, writing every artifact into a new run folder.

Values come from --config; command-line flags override them.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipelineCmd,
}

var runOpts runFlags

func init() {
	runOpts.register(runCommand)
	rootCmd.AddCommand(runCommand)
}

// runFlags are the pipeline flags shared by run and batch
type runFlags struct {
	template     string
	provider     string
	model        string
	maxTokens    int
	corpus       string
	maxExemplars int
	maxChars     int
	outRoot      string
	dbURL        string
	sourceType   string
	replay       []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Path to the prompt template (overrides paths.template)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "Generation provider: stub or gemini (overrides llm.provider)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model id (overrides llm.model)")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "Maximum completion tokens (overrides limits.max_tokens)")
	cmd.Flags().StringVar(&f.corpus, "corpus", "", "Corpus root (overrides paths.corpus)")
	cmd.Flags().IntVar(&f.maxExemplars, "max-exemplars", 0, "Maximum exemplars to retrieve (overrides limits.max_exemplars)")
	cmd.Flags().IntVar(&f.maxChars, "max-chars", 0, "Per-document character limit (overrides limits.max_chars_per_doc)")
	cmd.Flags().StringVar(&f.outRoot, "out-root", "", "Directory that receives run folders (overrides paths.outputs)")

	// Database URL for run mirroring, also read from DATABASE_URL
	cmd.Flags().StringVar(&f.dbURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	cmd.Flags().StringVar(&f.sourceType, "source-type", "", "Override source type detection (nxopen_script_text, plain_text, markdown)")
	cmd.Flags().StringSliceVar(&f.replay, "replay", nil, "Completion files replayed in order instead of calling a provider")
}

// apply copies every explicitly set flag over cfg
func (f *runFlags) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("template") {
		cfg.Paths.Template = f.template
	}
	if cmd.Flags().Changed("provider") {
		cfg.LLM.Provider = string(llm.ParseProvider(f.provider))
	}
	if cmd.Flags().Changed("model") {
		cfg.LLM.Model = f.model
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.Limits.MaxTokens = f.maxTokens
	}
	if cmd.Flags().Changed("corpus") {
		cfg.Paths.Corpus = f.corpus
	}
	if cmd.Flags().Changed("max-exemplars") {
		cfg.Limits.MaxExemplars = f.maxExemplars
	}
	if cmd.Flags().Changed("max-chars") {
		cfg.Limits.MaxCharsPerDoc = f.maxChars
	}
	if cmd.Flags().Changed("out-root") {
		cfg.Paths.Outputs = f.outRoot
	}
	if cmd.Flags().Changed("db-url") {
		cfg.Database.URL = f.dbURL
	}
	return cfg
}

// options resolves config and flags into pipeline options. The caller closes opts.Client
// when it is set.
func (f *runFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	cfg := f.apply(cmd, *appConfig)
	cfg = cfg.MergeWithDefaults(*config.DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	sourceType, err := parseSourceType(f.sourceType)
	if err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		SourceType:     sourceType,
		TemplatePath:   f.templatePath(cmd, cfg.Paths.Template),
		CorpusRoot:     cfg.Paths.Corpus,
		MaxExemplars:   cfg.Limits.MaxExemplars,
		MaxCharsPerDoc: cfg.Limits.MaxCharsPerDoc,
		OutRoot:        cfg.Paths.Outputs,
		LLM: llm.Config{
			Provider:          llm.ParseProvider(cfg.LLM.Provider),
			Model:             cfg.Model(),
			MaxTokens:         cfg.Limits.MaxTokens,
			Temperature:       llm.DefaultTemperature,
			APIKey:            cfg.LLM.APIKey,
			RequestsPerMinute: cfg.Limits.RequestsPerMinute,
		},
		DatabaseURL: cfg.Database.URL,
		Logger:      logger,
		Out:         os.Stdout,
		Verbose:     verbose,
	}

	if len(f.replay) > 0 {
		client, err := llm.NewScriptedClientFromFiles(cfg.Model(), f.replay)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Client = client
	}
	return opts, nil
}

// templatePath keeps an explicit or configured template, and falls back to the built-in
// one only when neither a config file nor --template named it and the default is absent
func (f *runFlags) templatePath(cmd *cobra.Command, path string) string {
	if cmd.Flags().Changed("template") || configLoaded {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

func parseSourceType(name string) (types.SourceType, error) {
	switch st := types.SourceType(name); st {
	case "":
		return "", nil
	case types.SourceNXOpenScript, types.SourcePlainText, types.SourceMarkdown:
		return st, nil
	default:
		return "", fmt.Errorf("invalid --source-type %q (expected %s, %s or %s)",
			name, types.SourceNXOpenScript, types.SourcePlainText, types.SourceMarkdown)
	}
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	opts, err := runOpts.options(cmd)
	if err != nil {
		return err
	}
	if opts.Client != nil {
		defer func() { _ = opts.Client.Close() }()
	}
	opts.InputPath = args[0]

	result, err := pipeline.RunPipeline(ctx, opts)
	if err != nil {
		if result != nil {
			fmt.Fprintf(os.Stderr, "Partial artifacts kept in %s\n", result.RunDir)
		}
		return err
	}

	printRunSummary(result)
	if replayed, ok := opts.Client.(*llm.ScriptedClient); ok {
		if unused := len(runOpts.replay) - replayed.Calls(); unused > 0 {
			fmt.Printf("Note: %d replay file(s) not used\n", unused)
		}
	}
	return nil
}

//nolint:errcheck // stdout summary
func printRunSummary(result *pipeline.Result) {
	fmt.Printf("\n✅ Run complete: %s\n", result.RunID)
	fmt.Printf("Run folder: %s\n", result.RunDir)
	status := "OK"
	if !result.Generation.Validation.OK {
		status = "FAIL"
	}
	fmt.Printf("Validation: %s (attempts: %d, retry used: %t)\n",
		status, result.Generation.Attempts, result.Generation.RetryUsed)
	fmt.Println("Artifacts:")
	for _, path := range result.Artifacts {
		fmt.Printf("  - %s\n", filepath.ToSlash(path))
	}
}
