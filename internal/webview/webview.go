// Package webview renders the HTML documents shown inside the Kanban Board
// webview panel. Every function is a pure string producer: the host supplies
// a resource URI resolver and optional markup producers, and gets back HTML
// it can hand to the panel as is.
package webview

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// DefaultTitle is the product name shown in the window and navigation bar.
const DefaultTitle = "Kanban Board"

var (
	// ErrNoResolver is returned when ResolveResourceURI is nil.
	ErrNoResolver = errors.New("webview: resource uri resolver is nil")
	// ErrNoFileName is returned when a script, style or document name is empty.
	ErrNoFileName = errors.New("webview: script or style file name is empty")
)

// ResourceURIResolver maps a relative asset path such as "css/style.css" to a
// URI the webview sandbox can load.
type ResourceURIResolver func(path string) string

// HTMLProducer returns a fragment of markup. A nil producer renders as "".
type HTMLProducer func() string

func (p HTMLProducer) markup() template.HTML {
	if p == nil {
		return ""
	}
	return template.HTML(p())
}

// PrefixResolver resolves paths relative to base, e.g. "/assets" or
// "vscode-resource:/ext/resources".
func PrefixResolver(base string) ResourceURIResolver {
	base = strings.TrimRight(base, "/")
	return func(path string) string {
		return base + "/" + strings.TrimLeft(path, "/")
	}
}

// FormatTitle returns the display title. The result is not escaped.
func FormatTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	return DefaultTitle + " (" + title + ")"
}

// page is the data every fragment template executes against.
type page struct {
	Title      string
	StylePath  string
	ScriptPath string
	Buttons    template.HTML
	Footer     template.HTML

	resolve ResourceURIResolver
}

// Resource resolves an asset path through the host resolver. Host URIs are
// trusted, they often use schemes html/template would otherwise reject.
func (p page) Resource(path string) template.URL {
	return template.URL(p.resolve(path))
}

func execute(t *template.Template, data page) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
