package validation

import "github.com/jonathan/nxrag/internal/types"

// Validate runs the exemplar-inclusion and no-new-claims checks and merges their missing
// items in first-seen order. promptText is the full packed prompt: anything in it counts
// as evidenced.
func Validate(exemplarText, promptText, outputText string) types.Validation {
	exemplars := CheckExemplars(exemplarText, outputText)
	claims := CheckClaims(outputText, promptText, DefaultEmbellishments)

	merged := newOrderedSet()
	merged.addAll(exemplars.Missing)
	merged.addAll(claims.Missing)
	result := merged.result()

	return types.Validation{
		OK:        result.OK,
		Missing:   result.Missing,
		Exemplars: exemplars,
		Claims:    claims,
	}
}

// orderedSet keeps insertion order and drops duplicates
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(item string) {
	if s.seen[item] {
		return
	}
	s.seen[item] = true
	s.items = append(s.items, item)
}

func (s *orderedSet) addAll(items []string) {
	for _, item := range items {
		s.add(item)
	}
}

func (s *orderedSet) result() types.ValidationResult {
	return types.ValidationResult{OK: len(s.items) == 0, Missing: s.items}
}
