package view

import (
	_ "embed"
	"html/template"
	"strings"
)

//go:embed templates/document.html
var documentHTML string

var documentTmpl = template.Must(template.New("document").Parse(documentHTML))

// Render lays out doc as an HTML fragment. Escaped fields are inserted as-is;
// alert texts and compose values are plain strings and are escaped by the
// template.
func Render(doc Document) (string, error) {
	var b strings.Builder
	if err := documentTmpl.Execute(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// View renders the current document.
func (m *Model) View() string {
	out, err := Render(m.Document())
	if err != nil {
		m.logger.Error("render document", "error", err)
		return ""
	}
	return out
}
