package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a pipeline run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	RunDir       string     `json:"run_dir"`
	InputPath    string     `json:"input_path"`
	SourceType   string     `json:"source_type"`
	PartName     *string    `json:"part_name,omitempty"`
	Provider     string     `json:"provider"`
	Model        string     `json:"model"`
	Status       string     `json:"status"`
	Attempts     *int       `json:"attempts,omitempty"`
	RetryUsed    *bool      `json:"retry_used,omitempty"`
	ValidationOK *bool      `json:"validation_ok,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// RunInput holds the fields known when a run starts
type RunInput struct {
	RunDir     string
	InputPath  string
	SourceType string
	PartName   string
	Provider   string
	Model      string
}

// RunOutcome holds the fields recorded when a run completes
type RunOutcome struct {
	Attempts     int
	RetryUsed    bool
	ValidationOK bool
}

// Artifact step names, one per file in the run folder
const (
	StepInputMeta   = "input_meta"
	StepIR          = "ir"
	StepIRSummary   = "ir_summary"
	StepRetrieval   = "retrieval"
	StepPrompt      = "prompt"
	StepRetryPrompt = "prompt_retry_1"
	StepGeneration  = "generation"
	StepOutput      = "output"
	StepDocument    = "document"
)

// Artifact categories, one per pipeline stage
const (
	CategoryIngestion  = "ingestion"
	CategoryExtraction = "extraction"
	CategoryRetrieval  = "retrieval"
	CategoryPrompt     = "prompt"
	CategoryGeneration = "generation"
	CategoryRendering  = "rendering"
)

// StepCategory maps each artifact step to its stage category
var StepCategory = map[string]string{
	StepInputMeta:   CategoryIngestion,
	StepIR:          CategoryExtraction,
	StepIRSummary:   CategoryExtraction,
	StepRetrieval:   CategoryRetrieval,
	StepPrompt:      CategoryPrompt,
	StepRetryPrompt: CategoryPrompt,
	StepGeneration:  CategoryGeneration,
	StepOutput:      CategoryGeneration,
	StepDocument:    CategoryRendering,
}

// Artifact represents an artifact record
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"run_id"`
	Step        string    `json:"step"`
	Category    string    `json:"category"`
	Content     any       `json:"content,omitempty"`
	TextContent string    `json:"text_content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArtifactSummary is a lightweight view of an artifact for listing
type ArtifactSummary struct {
	ID        uuid.UUID `json:"id"`
	Step      string    `json:"step"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	HasJSON   bool      `json:"has_json"`
	HasText   bool      `json:"has_text"`
}
