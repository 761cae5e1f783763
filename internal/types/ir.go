// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// IRVersion is the schema version written into every IR.
const IRVersion = "v1"

// SourceType tags the kind of input the IR was extracted from
type SourceType string

// Known source types
const (
	SourceNXOpenScript SourceType = "nxopen_script_text"
	SourcePlainText    SourceType = "plain_text"
	SourceMarkdown     SourceType = "markdown"
	SourceUnknown      SourceType = "unknown"
)

// Units is the part unit system. UnitsUnknown means no unit signal was found.
type Units string

// Supported unit values
const (
	UnitsMillimeters Units = "mm"
	UnitsInches      Units = "in"
	UnitsUnknown     Units = "unknown"
)

// FeatureKind tags a detected geometric or functional feature
type FeatureKind string

// Feature kinds, in no particular order. Detection order lives in the extractor tables.
const (
	FeatureHole              FeatureKind = "hole"
	FeatureFillet            FeatureKind = "fillet"
	FeatureChamfer           FeatureKind = "chamfer"
	FeatureSlot              FeatureKind = "slot"
	FeaturePocket            FeatureKind = "pocket"
	FeatureBoss              FeatureKind = "boss"
	FeatureThread            FeatureKind = "thread"
	FeatureMountingInterface FeatureKind = "mounting-interface"
	FeatureVent              FeatureKind = "vent"
	FeatureSeal              FeatureKind = "seal"
	FeatureFastener          FeatureKind = "fastener"
	FeatureBlock             FeatureKind = "block"
	FeatureExtrude           FeatureKind = "extrude"
	FeatureRevolve           FeatureKind = "revolve"
	FeatureSketch            FeatureKind = "sketch"
	FeaturePattern           FeatureKind = "pattern"
)

// IR is the intermediate representation: every fact extracted from one input, with evidence.
// It is built once per run and never mutated afterwards.
type IR struct {
	Version    string      `json:"ir_version"`
	Source     Source      `json:"source"`
	Part       Part        `json:"part"`
	Materials  []Material  `json:"materials"`
	Tolerances []Tolerance `json:"tolerances"`
	Features   []Feature   `json:"features"`
	Parameters []Parameter `json:"parameters"`
	Notes      string      `json:"notes"`
}

// Source identifies where the IR came from
type Source struct {
	Type SourceType `json:"type"`
	Path string     `json:"path"`
}

// Part holds part-level facts. Name is nil when nothing (not even a file name) was available.
type Part struct {
	Name          *string   `json:"name"`
	NameSource    string    `json:"name_source,omitempty"`
	NameEvidence  *Evidence `json:"name_evidence,omitempty"`
	Units         Units     `json:"units"`
	UnitsEvidence *Evidence `json:"units_evidence,omitempty"`
}

// Material is a detected material mention
type Material struct {
	Value    string   `json:"value"`
	Evidence Evidence `json:"evidence"`
}

// Tolerance is a detected tolerance notation or tolerance API usage
type Tolerance struct {
	Value    string   `json:"value"`
	Evidence Evidence `json:"evidence"`
}

// Feature is a detected feature occurrence
type Feature struct {
	Kind     FeatureKind `json:"kind"`
	Evidence Evidence    `json:"evidence"`
}

// Parameter is a dimensional key-path assignment found in a script
type Parameter struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Evidence Evidence `json:"evidence"`
}

// NewIR returns an IR with empty (non-nil) fact lists and unknown units.
func NewIR(sourceType SourceType, sourcePath string) *IR {
	return &IR{
		Version:    IRVersion,
		Source:     Source{Type: sourceType, Path: sourcePath},
		Part:       Part{Units: UnitsUnknown},
		Materials:  []Material{},
		Tolerances: []Tolerance{},
		Features:   []Feature{},
		Parameters: []Parameter{},
	}
}

// PartName returns the detected part name, or "" when not detected.
func (ir *IR) PartName() string {
	if ir == nil || ir.Part.Name == nil {
		return ""
	}
	return *ir.Part.Name
}

// FeatureKinds returns the distinct feature kinds in first-seen order.
func (ir *IR) FeatureKinds() []FeatureKind {
	seen := make(map[FeatureKind]bool)
	kinds := make([]FeatureKind, 0)
	for _, f := range ir.Features {
		if !seen[f.Kind] {
			seen[f.Kind] = true
			kinds = append(kinds, f.Kind)
		}
	}
	return kinds
}
