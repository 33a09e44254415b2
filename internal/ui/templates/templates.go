// Package templates holds the console's embedded HTML templates.
//
// Each page template defines a "content" block rendered inside the base
// layout; fragments (table, token panel) are parsed into every page set so
// SSE patches and full pages share the same markup.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed *.html
var files embed.FS

// Fragment and page template files shared by every page set.
var shared = []string{"base.html", "table.html", "token.html"}

// Page template names; each corresponds to a <name>.html file defining a
// "content" block.
var pages = []string{"login", "hosts", "activation_keys", "cas"}

// Templates is the parsed template cache.
type Templates struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// New parses all embedded templates.
func New() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template)}

	for _, name := range pages {
		paths := append([]string{}, shared...)
		paths = append(paths, name+".html")
		tmpl, err := template.New("base.html").ParseFS(files, paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}

	fragments, err := template.ParseFS(files, "table.html", "token.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragments: %w", err)
	}
	t.fragments = fragments

	return t, nil
}

// RenderPage writes a full page through the base layout.
func (t *Templates) RenderPage(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template: %s", name)
	}
	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// Fragment renders a named fragment to a string, for SSE element patches.
func (t *Templates) Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render fragment %s: %w", name, err)
	}
	return buf.String(), nil
}
