package extraction

import (
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

// mode selects which extractor handles an input. It is decided once per call.
type mode int

const (
	modePlainText mode = iota
	modeScript
)

func (m mode) String() string {
	if m == modeScript {
		return "script"
	}
	return "plain_text"
}

// detectMode reports script mode when the declared type says so or the text imports NXOpen.
func detectMode(rawText string, sourceType types.SourceType) mode {
	if strings.HasPrefix(strings.ToLower(string(sourceType)), "nxopen") {
		return modeScript
	}
	if LooksLikeNXOpen(rawText) {
		return modeScript
	}
	return modePlainText
}

// LooksLikeNXOpen reports whether text carries an NXOpen import line.
func LooksLikeNXOpen(text string) bool {
	return importNXOpen.MatchString(text)
}

// ModeName reports which extractor Extract would use, for logging.
func ModeName(rawText string, sourceType types.SourceType) string {
	return detectMode(rawText, sourceType).String()
}
