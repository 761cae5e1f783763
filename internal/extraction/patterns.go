// Package extraction turns raw request text or NXOpen script source into an evidence-backed IR.
package extraction

import (
	"regexp"

	"github.com/jonathan/nxrag/internal/types"
)

// kindPattern pairs a feature kind with its matcher. Tables of these are ordered:
// the first matching entry wins, so order is part of the contract.
type kindPattern struct {
	kind    types.FeatureKind
	pattern *regexp.Regexp
}

var importNXOpen = regexp.MustCompile(`(?im)^\s*(import\s+NXOpen|from\s+NXOpen\b)`)

// Units. Enum-qualified mentions are trusted over bare words.
var (
	unitsEnumMM  = regexp.MustCompile(`(?i)NXOpen\.\w*\.Units\.(Millimeters|Millimetres)\b`)
	unitsEnumIn  = regexp.MustCompile(`(?i)NXOpen\.\w*\.Units\.Inches\b`)
	partUnitsMM  = regexp.MustCompile(`(?i)\bPartUnits\s*=\s*.*Millimet(?:er|re)s\b`)
	partUnitsIn  = regexp.MustCompile(`(?i)\bPartUnits\s*=\s*.*Inches\b`)
	unitsWordMM  = regexp.MustCompile(`(?i)(?:\d\s*|\b)(mm|millimet(?:er|re)s?)\b`)
	// bare "in" counts only right after a standalone number, so "for x2 in" stays unitless
	unitsWordIn  = regexp.MustCompile(`(?i)(?:\d\s*|\b)inch(?:es)?\b|(?:^|[^\w.])\d+(?:\.\d+)?\s*in\b`)
	unitsEnumAny = []*regexp.Regexp{unitsEnumMM, partUnitsMM, unitsEnumIn, partUnitsIn}
)

// Part name signals, highest priority first.
var (
	partNameSetter  = regexp.MustCompile(`\b(SetPartName|SetName)\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	partNameComment = regexp.MustCompile(`(?i)^\s*#\s*Part\s*[:=]\s*(.+?)\s*$`)
)

var (
	materialToken = regexp.MustCompile(`(?i)\b(6061[-\s]?T6|7075[-\s]?T6|stainless\s+steel|steel|aluminum|aluminium|titanium|inconel)\b`)
	materialCall  = regexp.MustCompile(`(?i)\b(LoadFromLibrary|FindMaterial|AssignMaterial)\s*\(`)
)

var (
	tolerancePlusMinus = regexp.MustCompile(`(?i)±\s*\d+(?:\.\d+)?\s*(?:mm|in)?\b`)
	toleranceAsym      = regexp.MustCompile(`(?i)\+\s*\d+(?:\.\d+)?\s*/\s*-\s*\d+(?:\.\d+)?\s*(?:mm|in)?\b`)
	toleranceCall      = regexp.MustCompile(`(?i)\b(Tolerance|PlusMinus|SetTolerance|ToleranceType)\b`)
)

// keyPathAssign matches dotted assignments such as holeBuilder.Diameter.RightHandSide = "6.0".
var keyPathAssign = regexp.MustCompile(`(?P<lhs>\b[A-Za-z_]\w*(?:\.[A-Za-z_]\w*){1,6})\s*=\s*(?P<rhs>["'][^"']+["']|\d+(?:\.\d+)?)`)

// dimensionKeywords filters key-path assignments down to geometry parameters.
var dimensionKeywords = []string{"diam", "radius", "length", "width", "height", "thick", "tol", "angle"}

// builderPatterns detects NXOpen feature builders, one kind per line.
var builderPatterns = []kindPattern{
	{types.FeatureHole, regexp.MustCompile(`\b(CreateHoleBuilder|HoleBuilder|CreateHolePackageBuilder|HolePackageBuilder)\b`)},
	{types.FeatureFillet, regexp.MustCompile(`\b(CreateEdgeBlendBuilder|EdgeBlendBuilder)\b`)},
	{types.FeatureChamfer, regexp.MustCompile(`\b(CreateChamferBuilder|ChamferBuilder)\b`)},
	{types.FeatureSlot, regexp.MustCompile(`\b(CreateSlotBuilder|SlotBuilder)\b`)},
	{types.FeaturePocket, regexp.MustCompile(`\b(CreatePocketBuilder|PocketBuilder)\b`)},
	{types.FeatureBoss, regexp.MustCompile(`\b(CreateBossBuilder|BossBuilder)\b`)},
	{types.FeatureThread, regexp.MustCompile(`\b(CreateThreadBuilder|ThreadBuilder|SymbolicThreadBuilder)\b`)},
	{types.FeatureBlock, regexp.MustCompile(`\b(CreateBlockFeatureBuilder|BlockFeatureBuilder|CreateBlockBuilder)\b`)},
	{types.FeatureExtrude, regexp.MustCompile(`\b(CreateExtrudeBuilder|ExtrudeBuilder)\b`)},
	{types.FeatureRevolve, regexp.MustCompile(`\b(CreateRevolveBuilder|RevolveBuilder)\b`)},
	{types.FeatureSketch, regexp.MustCompile(`\b(CreateSketch|SketchBuilder)\b`)},
	{types.FeaturePattern, regexp.MustCompile(`\b(CreatePatternFeatureBuilder|PatternFeatureBuilder)\b`)},
}

// keywordPatterns detects features described in prose.
var keywordPatterns = []kindPattern{
	{types.FeatureMountingInterface, regexp.MustCompile(`(?i)\bmounting\s+(?:interface|face|flange|surface)s?\b`)},
	{types.FeatureHole, regexp.MustCompile(`(?i)\b(?:through[- ]?holes?|holes?|bores?)\b`)},
	{types.FeatureFillet, regexp.MustCompile(`(?i)\bfillets?\b`)},
	{types.FeatureChamfer, regexp.MustCompile(`(?i)\bchamfer(?:s|ed)?\b`)},
	{types.FeatureSlot, regexp.MustCompile(`(?i)\bslots?\b`)},
	{types.FeaturePocket, regexp.MustCompile(`(?i)\bpockets?\b`)},
	{types.FeatureBoss, regexp.MustCompile(`(?i)\b(?:bosses|boss)\b`)},
	{types.FeatureThread, regexp.MustCompile(`(?i)\b(?:threads?|threaded|tapped)\b`)},
	{types.FeatureVent, regexp.MustCompile(`(?i)\bvent(?:s|ed|ing)?\b`)},
	{types.FeatureSeal, regexp.MustCompile(`(?i)\b(?:seals?|gaskets?|o-rings?)\b`)},
	{types.FeatureFastener, regexp.MustCompile(`(?i)\b(?:fasteners?|screws?|bolts?)\b`)},
}
