package validation

import (
	"regexp"
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

var (
	explicitTolerance = regexp.MustCompile(`(?i)±\s*\d+(?:\.\d+)?\s*(?:mm|in)\b`)
	genericTolerance  = regexp.MustCompile(`(?i)\btolerances?\b|\+\s*\d+(?:\.\d+)?\s*/\s*-\s*\d+(?:\.\d+)?`)
	materialMention   = regexp.MustCompile(`(?i)\b(6061[-\s]?T6|7075[-\s]?T6|stainless\s+steel|aluminum|aluminium)\b`)
	torqueValue       = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*N[·. ]?m\b`)
)

// fastenerHints are fastening-practice phrases matched case-insensitively
var fastenerHints = []string{"threadlocker", "anti-seize", "socket head cap screws", "torque"}

// Missing-item messages, also used verbatim in the corrective retry prompt
const (
	MissingExplicitTolerance = "explicit tolerance from exemplars (e.g., ±0.05 mm)"
	MissingTolerance         = "tolerance from exemplars (e.g., +0.1/-0.0 mm)"
	MissingMaterial          = "material from exemplars (e.g., 6061-T6)"
	MissingTorque            = "torque value from exemplars (e.g., 4.5 N·m)"
	MissingFastenerPractice  = "fastener practice from exemplars (e.g., threadlocker / anti-seize)"
)

// CheckExemplars requires the output to carry every signal category present in the exemplar text.
// An explicit ± tolerance in the exemplars must appear as ± in the output; a generic tolerance
// mention is only enough when the exemplars themselves are generic.
func CheckExemplars(exemplarText, outputText string) types.ValidationResult {
	missing := newOrderedSet()
	out := strings.TrimSpace(outputText)

	switch {
	case explicitTolerance.MatchString(exemplarText):
		if !explicitTolerance.MatchString(out) {
			missing.add(MissingExplicitTolerance)
		}
	case genericTolerance.MatchString(exemplarText):
		if !explicitTolerance.MatchString(out) && !genericTolerance.MatchString(out) {
			missing.add(MissingTolerance)
		}
	}

	if materialMention.MatchString(exemplarText) && !materialMention.MatchString(out) {
		missing.add(MissingMaterial)
	}

	if torqueValue.MatchString(exemplarText) && !torqueValue.MatchString(out) {
		missing.add(MissingTorque)
	}

	if containsAny(exemplarText, fastenerHints) && !containsAny(out, fastenerHints) {
		missing.add(MissingFastenerPractice)
	}

	return missing.result()
}

func containsAny(haystack string, needles []string) bool {
	h := strings.ToLower(haystack)
	for _, n := range needles {
		if strings.Contains(h, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
