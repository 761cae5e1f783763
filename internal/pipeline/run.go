// Package pipeline provides the high-level orchestration for part description runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/nxrag/internal/artifacts"
	"github.com/jonathan/nxrag/internal/corpus"
	"github.com/jonathan/nxrag/internal/db"
	"github.com/jonathan/nxrag/internal/extraction"
	"github.com/jonathan/nxrag/internal/ingestion"
	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/observability"
	"github.com/jonathan/nxrag/internal/pipeline/steps"
	"github.com/jonathan/nxrag/internal/prompts"
	"github.com/jonathan/nxrag/internal/rendering"
	"github.com/jonathan/nxrag/internal/repair"
	"github.com/jonathan/nxrag/internal/schemas"
	"github.com/jonathan/nxrag/internal/types"
	"github.com/jonathan/nxrag/internal/validation"
)

// generationNotes is recorded in every generation.json
const generationNotes = "Validator is lexical: it requires exemplar-backed details when present in retrieved exemplars " +
	"and rejects embellishments that do not appear in the prompt."

// Options holds configuration for running the pipeline
type Options struct {
	InputPath string
	// SourceType overrides extension-based detection when set
	SourceType types.SourceType
	// TemplatePath is the prompt template; empty means the built-in template
	TemplatePath string

	CorpusRoot string
	// RepoRoot is what retrieved.json paths are relative to; empty means the working directory
	RepoRoot       string
	MaxExemplars   int
	MaxCharsPerDoc int
	OutRoot        string

	// LLM configures the generation client and is recorded in generation.json
	LLM llm.Config
	// Client overrides LLM when set; the caller keeps ownership
	Client llm.Client

	DatabaseURL string
	// Store overrides DatabaseURL when set
	Store RunStore

	Logger  *zap.Logger
	Out     io.Writer
	Verbose bool
	Now     func() time.Time
}

// Result describes a finished run
type Result struct {
	RunID      string
	RunDir     string
	DBRunID    uuid.UUID
	Input      *ingestion.Input
	IR         *types.IR
	Selection  *corpus.Selection
	Packed     types.PackedPrompt
	Generation *types.GenerationLog
	Completion string
	States     []repair.State
	Artifacts  []string
}

// runner carries the state shared by the steps of one run
type runner struct {
	opts    Options
	out     io.Writer
	logger  *zap.Logger
	printer *observability.Printer
	tracker *steps.Tracker
	run     *artifacts.RunDir
	mirror  *mirror
}

//nolint:errcheck // progress output; errors are not recoverable
func (r *runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// begin enforces step order and prints the step banner
func (r *runner) begin(step string) error {
	if err := r.tracker.Start(step); err != nil {
		return err
	}
	r.printf("%s\n", steps.Banner(step))
	return nil
}

func (r *runner) done(step string, fields ...zap.Field) {
	r.tracker.Complete(step)
	r.logger.Info("step completed", append([]zap.Field{zap.String("step", step)}, fields...)...)
}

// writeJSON writes v into the run folder, checking it against its schema first when kind
// is set, and mirrors it
func (r *runner) writeJSON(ctx context.Context, name, step string, kind schemas.Kind, v any) error {
	var check func([]byte) error
	if kind != "" {
		check = func(data []byte) error {
			if err := schemas.ValidateArtifact(kind, data); err != nil {
				return &ArtifactError{Name: name, Cause: err}
			}
			return nil
		}
	}
	data, err := r.run.WriteJSON(name, v, check)
	if err != nil {
		return err
	}
	r.mirror.saveJSON(ctx, step, data)
	return nil
}

func (r *runner) writeText(ctx context.Context, name, step, text string) (string, error) {
	path, err := r.run.WriteText(name, text)
	if err != nil {
		return "", err
	}
	r.mirror.saveText(ctx, step, text)
	return path, nil
}

// RunPipeline runs one input through extraction, selection, packing, generation with one
// corrective retry, and rendering. Input and template errors are returned before anything
// is written; a generation error leaves the artifacts written so far.
func RunPipeline(ctx context.Context, opts Options) (_ *Result, err error) {
	r := &runner{
		opts:    opts,
		out:     opts.Out,
		logger:  opts.Logger,
		tracker: steps.NewTracker(),
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.printer = observability.NewPrinter(r.out)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Step 1: Read input and template
	if err := r.begin(steps.IngestInput); err != nil {
		return nil, err
	}
	input, err := ingestion.ReadInput(opts.InputPath, opts.SourceType)
	if err != nil {
		return nil, err
	}
	templateText, err := loadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client, err = llm.NewClient(ctx, &opts.LLM)
		if err != nil {
			return nil, err
		}
		defer func() { _ = client.Close() }()
	}

	r.run, err = artifacts.Create(opts.OutRoot, input.Path, now())
	if err != nil {
		return nil, err
	}
	r.logger = r.logger.With(zap.String("run_dir", r.run.Path))
	r.mirror = r.connectStore(ctx)
	if r.mirror.store != nil {
		if closer, ok := r.mirror.store.(*db.DB); ok && opts.Store == nil {
			defer closer.Close()
		}
	}

	result := &Result{RunID: r.run.ID, RunDir: r.run.Path, Input: input}

	if _, err := r.run.CopyFrom(input.Path, ingestion.SnapshotName(input.Path)); err != nil {
		return nil, err
	}
	if err := r.writeJSON(ctx, artifacts.InputMetaFile, db.StepInputMeta, "", input.Metadata); err != nil {
		return nil, err
	}
	r.done(steps.IngestInput, zap.String("source_type", string(input.SourceType)), zap.Int("bytes", input.Metadata.SizeBytes))

	// Step 2: Extract facts
	if err := r.begin(steps.ExtractIR); err != nil {
		return nil, err
	}
	ir := extraction.Extract(input.Text, filepath.ToSlash(input.Path), input.SourceType)
	result.IR = ir

	r.mirror.createRun(ctx, db.RunInput{
		RunDir:     filepath.ToSlash(r.run.Path),
		InputPath:  filepath.ToSlash(input.Path),
		SourceType: string(input.SourceType),
		PartName:   ir.PartName(),
		Provider:   string(client.Provider()),
		Model:      client.Model(),
	})
	result.DBRunID = r.mirror.id()
	defer func() {
		if err != nil {
			r.mirror.fail(context.WithoutCancel(ctx), err)
		}
	}()
	if meta, err := r.run.ReadFile(artifacts.InputMetaFile); err == nil {
		r.mirror.saveJSON(ctx, db.StepInputMeta, meta)
	}

	if err := r.writeJSON(ctx, artifacts.IRFile, db.StepIR, schemas.KindIR, ir); err != nil {
		return nil, err
	}
	if _, err := r.writeText(ctx, artifacts.IRSummaryFile, db.StepIRSummary, extraction.RenderSummary(ir)); err != nil {
		return nil, err
	}
	if opts.Verbose {
		r.printer.PrintIR(ir)
	}
	r.done(steps.ExtractIR,
		zap.String("mode", extraction.ModeName(input.Text, input.SourceType)),
		zap.Int("materials", len(ir.Materials)),
		zap.Int("tolerances", len(ir.Tolerances)),
		zap.Int("features", len(ir.Features)))

	// Step 3: Select reference context
	if err := r.begin(steps.SelectContext); err != nil {
		return nil, err
	}
	repoRoot := opts.RepoRoot
	if repoRoot == "" {
		repoRoot, _ = os.Getwd()
	}
	selection, err := corpus.Select(corpus.SelectOptions{
		CorpusRoot:     opts.CorpusRoot,
		RepoRoot:       repoRoot,
		MaxExemplars:   opts.MaxExemplars,
		MaxCharsPerDoc: opts.MaxCharsPerDoc,
	})
	if err != nil {
		return nil, err
	}
	result.Selection = selection
	if err := r.writeJSON(ctx, artifacts.RetrievedFile, db.StepRetrieval, schemas.KindRetrievalLog, selection.Log); err != nil {
		return nil, err
	}
	if opts.Verbose {
		r.printer.PrintRetrieval(&selection.Log)
	}
	r.done(steps.SelectContext, zap.Int("files_used", len(selection.Log.FilesUsed)))

	// Step 4: Pack prompt
	if err := r.begin(steps.PackPrompt); err != nil {
		return nil, err
	}
	packed := prompts.Pack(templateText,
		strings.TrimSpace(input.Text),
		extraction.FormatFacts(ir),
		selection.ExemplarText,
		selection.FramingText)
	result.Packed = packed
	if _, err := r.writeText(ctx, artifacts.PromptFile, db.StepPrompt, packed.Prompt); err != nil {
		return nil, err
	}
	r.done(steps.PackPrompt, zap.Int("prompt_chars", len(packed.Prompt)))

	// Step 5: Generate, validate, retry once
	if err := r.begin(steps.Generate); err != nil {
		return nil, err
	}
	outcome, genErr := repair.RunCorrectiveRetry(ctx, client, packed, func(output string) types.Validation {
		return validation.Validate(packed.ExemplarText, packed.Prompt, output)
	})

	var retryPromptPath *string
	if outcome.RetryPrompt != "" {
		path, err := r.writeText(ctx, artifacts.RetryPromptFile, db.StepRetryPrompt, outcome.RetryPrompt)
		if err != nil {
			return nil, err
		}
		slashed := filepath.ToSlash(path)
		retryPromptPath = &slashed
		r.printf("First completion failed validation; retried once with corrective instruction\n")
	}
	if genErr != nil {
		r.logger.Error("generation failed",
			zap.Int("attempts", outcome.Attempts),
			zap.Strings("completed_steps", r.tracker.Completed()),
			zap.Error(genErr))
		return result, genErr
	}
	result.Completion = outcome.Completion
	result.States = outcome.States

	sections := validation.CheckSections(outcome.Completion)
	notes := generationNotes
	if retryPromptPath != nil {
		notes += fmt.Sprintf(" Retry prompt stored at %s.", *retryPromptPath)
	}
	maxTokens := opts.LLM.MaxTokens
	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}
	genLog := &types.GenerationLog{
		Provider:        string(client.Provider()),
		Model:           client.Model(),
		MaxTokens:       maxTokens,
		Attempts:        outcome.Attempts,
		RetryUsed:       outcome.RetryUsed,
		RetryPromptPath: retryPromptPath,
		Validation:      outcome.Validation,
		Sections:        sections,
		Notes:           notes,
	}
	result.Generation = genLog
	if err := r.writeJSON(ctx, artifacts.GenerationFile, db.StepGeneration, schemas.KindGeneration, genLog); err != nil {
		return nil, err
	}
	if _, err := r.writeText(ctx, artifacts.OutputFile, db.StepOutput, outcome.Completion+"\n"); err != nil {
		return nil, err
	}
	if opts.Verbose {
		r.printer.PrintValidation(outcome.Validation, outcome.Attempts, outcome.RetryUsed)
		r.printer.PrintSections(sections)
	}
	r.done(steps.Generate,
		zap.Int("attempts", outcome.Attempts),
		zap.Bool("retry_used", outcome.RetryUsed),
		zap.Bool("ok", outcome.Validation.OK),
		zap.Strings("missing", outcome.Validation.Missing))

	// Step 6: Render document
	if err := r.begin(steps.RenderDocument); err != nil {
		return nil, err
	}
	doc, err := rendering.RenderDocument(ir, outcome.Completion)
	if err != nil {
		return nil, err
	}
	if _, err := r.writeText(ctx, artifacts.DocumentFile, db.StepDocument, doc); err != nil {
		return nil, err
	}
	r.done(steps.RenderDocument)

	r.mirror.complete(ctx, db.RunOutcome{
		Attempts:     outcome.Attempts,
		RetryUsed:    outcome.RetryUsed,
		ValidationOK: outcome.Validation.OK,
	})

	if !outcome.Validation.OK {
		r.printf("⚠️ Warning: validation still failing after retry: %s\n", strings.Join(outcome.Validation.Missing, "; "))
	}
	result.Artifacts = r.run.Written()
	return result, nil
}

// loadTemplate reads the prompt template, or returns the built-in one for an empty path
func loadTemplate(path string) (string, error) {
	if path == "" {
		return prompts.DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &TemplateError{Message: "template not found", Path: path, Cause: err}
		}
		return "", &TemplateError{Message: "failed to read template", Path: path, Cause: err}
	}
	return string(data), nil
}

// connectStore returns the mirror for this run. A connection failure is a warning.
func (r *runner) connectStore(ctx context.Context) *mirror {
	m := &mirror{store: r.opts.Store, out: r.out, logger: r.logger}
	if m.store != nil || r.opts.DatabaseURL == "" {
		return m
	}

	database, err := db.Connect(ctx, r.opts.DatabaseURL)
	if err != nil {
		r.printf("Warning: Failed to connect to database: %v\n", err)
		r.printf("Continuing without database persistence...\n")
		return m
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		r.printf("Warning: %v\n", err)
		r.printf("Continuing without database persistence...\n")
		return m
	}
	m.store = database
	return m
}
