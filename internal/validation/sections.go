package validation

import (
	"regexp"

	"github.com/jonathan/nxrag/internal/types"
)

// RequiredSections are the headings every part description must have, in order
var RequiredSections = []string{
	"Overview",
	"Materials & tolerances",
	"Vibration reliability practices",
}

var markdownHeading = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+(.+?)\s*#*\s*$`)

// CheckSections reports which required headings appear in a completion.
// The result is recorded for review only.
func CheckSections(outputText string) types.SectionReport {
	present := make(map[string]bool)
	for _, m := range markdownHeading.FindAllStringSubmatch(outputText, -1) {
		present[normalizeForMatching(m[1])] = true
	}

	report := types.SectionReport{Found: []string{}, Missing: []string{}}
	for _, heading := range RequiredSections {
		if present[normalizeForMatching(heading)] {
			report.Found = append(report.Found, heading)
		} else {
			report.Missing = append(report.Missing, heading)
		}
	}
	report.OK = len(report.Missing) == 0
	return report
}
