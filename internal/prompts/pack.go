package prompts

import (
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

// Template placeholders filled by Pack
const (
	PlaceholderRequest          = "{request}"
	PlaceholderFacts            = "{facts}"
	PlaceholderApprovedDefaults = "{approved_defaults}"
	PlaceholderContext          = "{context}"
)

// Pack fills the four template placeholders in one pass. Inserted text is never
// re-scanned, so a request containing "{facts}" stays literal. A placeholder the template
// lacks simply drops its value from the prompt; ExemplarText is returned either way.
func Pack(templateText, requestText, factsText, approvedDefaultsText, framingText string) types.PackedPrompt {
	r := strings.NewReplacer(
		PlaceholderRequest, requestText,
		PlaceholderFacts, factsText,
		PlaceholderApprovedDefaults, approvedDefaultsText,
		PlaceholderContext, framingText,
	)
	return types.PackedPrompt{
		Prompt:       r.Replace(templateText),
		ExemplarText: approvedDefaultsText,
	}
}

// CorrectiveSuffix renders the text appended to a prompt for the single retry.
func CorrectiveSuffix(missing []string) string {
	items := make([]string, 0, len(missing))
	for _, m := range missing {
		items = append(items, "* "+m)
	}
	return Format(MustGet(GenerationFile, KeyCorrectiveRetry), map[string]string{
		"MissingItems": strings.Join(items, "\n"),
	})
}
