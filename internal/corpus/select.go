package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/nxrag/internal/types"
)

// Retriever is the name recorded in every retrieval log
const Retriever = "static_v1"

// Corpus category subdirectories
const (
	TemplatesDir  = "templates"
	ExemplarsDir  = "exemplars"
	StyleRulesDir = "style_rules"
	GlossaryDir   = "glossary"
)

// Placeholders used when a channel has no blocks
const (
	NoExemplarsText = "(no exemplars retrieved)"
	NoFramingText   = "(no framing context retrieved)"
)

// TruncationMarker is appended to a document body cut at the per-document limit
const TruncationMarker = "\n\n[TRUNCATED]\n"

const selectionNotes = "Deterministic retrieval: first eligible files by sorted name. " +
	"Exemplars feed the validator; template, style rules and glossary are framing only."

// Defaults applied when options leave limits unset
const (
	DefaultMaxExemplars   = 2
	DefaultMaxCharsPerDoc = 2000
)

// SelectOptions configures a selection
type SelectOptions struct {
	CorpusRoot     string
	RepoRoot       string
	MaxExemplars   int
	MaxCharsPerDoc int
}

// Selection is the selector output: the framing channel, the exemplar channel and the audit log.
type Selection struct {
	FramingText  string
	ExemplarText string
	Log          types.RetrievalLog
}

type category struct {
	kind string
	dir  string
}

// Select picks one template, up to MaxExemplars exemplars, one style-rules file and one glossary.
// A file that cannot be read is listed as skipped and the next eligible file takes its place.
// Output depends only on the corpus contents and the options.
func Select(opts SelectOptions) (*Selection, error) {
	if strings.TrimSpace(opts.CorpusRoot) == "" {
		return nil, &SelectError{Message: "corpus root is required"}
	}
	if opts.MaxExemplars < 0 {
		return nil, &SelectError{Message: fmt.Sprintf("max exemplars must be >= 0, got %d", opts.MaxExemplars)}
	}
	if opts.MaxCharsPerDoc <= 0 {
		opts.MaxCharsPerDoc = DefaultMaxCharsPerDoc
	}

	templates := category{kind: "TEMPLATE", dir: filepath.Join(opts.CorpusRoot, TemplatesDir)}
	exemplars := category{kind: "EXEMPLAR", dir: filepath.Join(opts.CorpusRoot, ExemplarsDir)}
	styleRules := category{kind: "STYLE RULES", dir: filepath.Join(opts.CorpusRoot, StyleRulesDir)}
	glossary := category{kind: "GLOSSARY", dir: filepath.Join(opts.CorpusRoot, GlossaryDir)}

	eligibleTemplates := eligibleFiles(templates.dir)
	eligibleExemplars := eligibleFiles(exemplars.dir)
	eligibleStyle := eligibleFiles(styleRules.dir)
	eligibleGlossary := eligibleFiles(glossary.dir)

	allPaths := []string{opts.CorpusRoot, templates.dir, exemplars.dir, styleRules.dir, glossary.dir}
	allPaths = append(allPaths, eligibleTemplates...)
	allPaths = append(allPaths, eligibleExemplars...)
	allPaths = append(allPaths, eligibleStyle...)
	allPaths = append(allPaths, eligibleGlossary...)
	paths := choosePathBase(opts.RepoRoot, opts.CorpusRoot, allPaths)

	r := &blockReader{paths: paths, maxChars: opts.MaxCharsPerDoc, truncated: []string{}, skipped: []string{}}

	templateBlocks, usedTemplate := r.blocks(templates.kind, eligibleTemplates, 1)
	exemplarBlocks, usedExemplars := r.blocks(exemplars.kind, eligibleExemplars, opts.MaxExemplars)
	styleBlocks, usedStyle := r.blocks(styleRules.kind, eligibleStyle, 1)
	glossaryBlocks, usedGlossary := r.blocks(glossary.kind, eligibleGlossary, 1)

	framing := joinBlocks(append(append(templateBlocks, styleBlocks...), glossaryBlocks...), NoFramingText)
	exemplarText := joinBlocks(exemplarBlocks, NoExemplarsText)

	filesUsed := make([]string, 0)
	for _, used := range [][]string{usedTemplate, usedExemplars, usedStyle, usedGlossary} {
		filesUsed = append(filesUsed, paths.renderAll(used)...)
	}

	log := types.RetrievalLog{
		Retriever:  Retriever,
		PathBase:   paths.base,
		CorpusRoot: paths.render(opts.CorpusRoot),
		Dirs: types.CategoryDirs{
			Templates:  paths.render(templates.dir),
			Exemplars:  paths.render(exemplars.dir),
			StyleRules: paths.render(styleRules.dir),
			Glossary:   paths.render(glossary.dir),
		},
		Selected: types.SelectedFiles{
			Template:   paths.renderPtr(firstOrEmpty(usedTemplate)),
			Exemplars:  paths.renderAll(usedExemplars),
			StyleRules: paths.renderPtr(firstOrEmpty(usedStyle)),
			Glossary:   paths.renderPtr(firstOrEmpty(usedGlossary)),
		},
		FilesUsed: filesUsed,
		Counts: types.CategoryCounts{
			Templates:  len(usedTemplate),
			Exemplars:  len(usedExemplars),
			StyleRules: len(usedStyle),
			Glossary:   len(usedGlossary),
		},
		Eligible: types.CategoryCounts{
			Templates:  len(eligibleTemplates),
			Exemplars:  len(eligibleExemplars),
			StyleRules: len(eligibleStyle),
			Glossary:   len(eligibleGlossary),
		},
		Truncated: r.truncated,
		Skipped:   r.skipped,
		Limits: types.RetrievalLimits{
			MaxExemplars:   opts.MaxExemplars,
			MaxCharsPerDoc: opts.MaxCharsPerDoc,
		},
		Notes: selectionNotes,
	}

	return &Selection{FramingText: framing, ExemplarText: exemplarText, Log: log}, nil
}

// blockReader renders selected files into blocks and tracks truncations and read failures.
type blockReader struct {
	paths     pathRenderer
	maxChars  int
	truncated []string
	skipped   []string
}

// blocks reads files in order until limit of them have been used.
func (r *blockReader) blocks(kind string, files []string, limit int) (blocks []string, used []string) {
	for _, file := range files {
		if len(used) >= limit {
			break
		}
		data, err := os.ReadFile(file)
		if err != nil {
			r.skipped = append(r.skipped, r.paths.render(file))
			continue
		}
		body, cut := truncateRunes(strings.ToValidUTF8(string(data), "�"), r.maxChars)
		if cut {
			r.truncated = append(r.truncated, r.paths.render(file))
		}
		blocks = append(blocks, renderBlock(kind, r.paths.render(file), body))
		used = append(used, file)
	}
	return blocks, used
}

// renderBlock formats one document as "### KIND: path", its body and a rule.
func renderBlock(kind, path, body string) string {
	return fmt.Sprintf("### %s: %s\n\n%s\n\n---\n", kind, path, strings.TrimSpace(body))
}

// truncateRunes cuts s to maxChars runes and appends the truncation marker when it had to cut.
func truncateRunes(s string, maxChars int) (string, bool) {
	if utf8.RuneCountInString(s) <= maxChars {
		return s, false
	}
	count := 0
	for i := range s {
		if count == maxChars {
			return s[:i] + TruncationMarker, true
		}
		count++
	}
	return s, false
}

func joinBlocks(blocks []string, placeholder string) string {
	text := strings.TrimSpace(strings.Join(blocks, "\n"))
	if text == "" {
		return placeholder
	}
	return text
}

func firstOrEmpty(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return files[0]
}
