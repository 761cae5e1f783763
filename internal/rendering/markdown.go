package rendering

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/jonathan/nxrag/internal/types"
)

// UnnamedPart is the title used when the IR has no part name
const UnnamedPart = "Unnamed part"

//go:embed templates/document.md.tmpl
var defaultTemplate string

// DocumentData is passed to the document template
type DocumentData struct {
	Title      string
	Body       string
	Units      types.Units
	SourceType types.SourceType
	SourcePath string
}

// NewDocumentData builds template data from the IR and the accepted completion
func NewDocumentData(ir *types.IR, completion string) DocumentData {
	title := UnnamedPart
	data := DocumentData{Units: types.UnitsUnknown}
	if ir != nil {
		if name := ir.PartName(); name != "" {
			title = name
		}
		data.Units = ir.Part.Units
		data.SourceType = ir.Source.Type
		data.SourcePath = ir.Source.Path
	}
	data.Title = EscapeMarkdown(title)
	data.Body = strings.TrimSpace(completion)
	return data
}

// RenderDocument renders the built-in document template: a "# Part description: <name>"
// title followed by the completion.
func RenderDocument(ir *types.IR, completion string) (string, error) {
	tmpl, err := parseTemplate("document", defaultTemplate)
	if err != nil {
		return "", err
	}
	return execute(tmpl, NewDocumentData(ir, completion))
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"escape": EscapeMarkdown,
	}).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data DocumentData) (string, error) {
	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}
