package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

// DefaultEmbellishments are marketing phrases that signal a claim the sources do not support
var DefaultEmbellishments = []string{
	"known for",
	"ensures",
	"crucial role",
	"providing",
	"corrosion resistance",
	"strength and",
	"ideal for",
	"renowned",
	"industry-leading",
	"guarantees",
}

// CheckClaims flags every phrase that appears in the output but nowhere in the source text.
// A phrase present in the sources is evidenced, so it is allowed. Matching ignores case
// and collapses whitespace, so a phrase wrapped across lines still counts.
func CheckClaims(outputText, sourceText string, phrases []string) types.ValidationResult {
	missing := newOrderedSet()
	out := normalizeForMatching(outputText)
	src := normalizeForMatching(sourceText)

	for _, phrase := range phrases {
		p := normalizeForMatching(phrase)
		if p == "" {
			continue
		}
		if strings.Contains(out, p) && !strings.Contains(src, p) {
			missing.add(UnsupportedClaim(phrase))
		}
	}
	return missing.result()
}

// UnsupportedClaim formats the missing-item message for a flagged phrase.
func UnsupportedClaim(phrase string) string {
	return fmt.Sprintf("remove unsupported claim not found in sources: %q", strings.TrimSpace(phrase))
}

// normalizeForMatching lower-cases text and collapses runs of whitespace
func normalizeForMatching(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
