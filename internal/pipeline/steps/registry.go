// Package steps provides step definitions and dependency validation for the part
// description pipeline.
package steps

import (
	"fmt"
	"sync"

	dbpkg "github.com/jonathan/nxrag/internal/db"
)

// Step names, in execution order
const (
	IngestInput    = "ingest_input"
	ExtractIR      = "extract_ir"
	SelectContext  = "select_context"
	PackPrompt     = "pack_prompt"
	Generate       = "generate"
	RenderDocument = "render_document"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Title        string
	Dependencies []string
}

// Pipeline lists every step in the order a run executes them
var Pipeline = []StepDefinition{
	{
		Name:         IngestInput,
		Category:     dbpkg.CategoryIngestion,
		Title:        "Reading input",
		Dependencies: []string{},
	},
	{
		Name:         ExtractIR,
		Category:     dbpkg.CategoryExtraction,
		Title:        "Extracting part facts",
		Dependencies: []string{IngestInput},
	},
	{
		Name:         SelectContext,
		Category:     dbpkg.CategoryRetrieval,
		Title:        "Selecting reference context",
		Dependencies: []string{},
	},
	{
		Name:         PackPrompt,
		Category:     dbpkg.CategoryPrompt,
		Title:        "Packing prompt",
		Dependencies: []string{ExtractIR, SelectContext},
	},
	{
		Name:         Generate,
		Category:     dbpkg.CategoryGeneration,
		Title:        "Generating and validating",
		Dependencies: []string{PackPrompt},
	},
	{
		Name:         RenderDocument,
		Category:     dbpkg.CategoryRendering,
		Title:        "Rendering document",
		Dependencies: []string{Generate},
	},
}

// StepRegistry indexes Pipeline by step name
var StepRegistry = func() map[string]StepDefinition {
	registry := make(map[string]StepDefinition, len(Pipeline))
	for _, def := range Pipeline {
		registry[def.Name] = def
	}
	return registry
}()

// Banner returns the progress line for a step, e.g. "Step 2/6: Extracting part facts..."
func Banner(stepName string) string {
	for i, def := range Pipeline {
		if def.Name == stepName {
			return fmt.Sprintf("Step %d/%d: %s...", i+1, len(Pipeline), def.Title)
		}
	}
	return fmt.Sprintf("Step ?/%d: %s...", len(Pipeline), stepName)
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s has missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of stepName is in completed
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}

// Tracker records completed steps for one run and enforces dependency order
type Tracker struct {
	mu        sync.Mutex
	completed map[string]bool
	order     []string
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{completed: make(map[string]bool)}
}

// Start returns an error when stepName cannot run yet
func (t *Tracker) Start(stepName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ValidateDependencies(t.completed, stepName)
}

// Complete marks stepName as done
func (t *Tracker) Complete(stepName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.completed[stepName] {
		t.completed[stepName] = true
		t.order = append(t.order, stepName)
	}
}

// Completed returns completed steps in completion order
func (t *Tracker) Completed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}
