// Package markdown renders operator-supplied markdown (the portal intro and
// API group descriptions) to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to HTML fragments.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with GFM and syntax highlighting. Raw HTML in the
// source is dropped unless unsafe is set.
func New(unsafe bool) *Renderer {
	var rendererOpts []goldmark.Option
	if unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	opts := append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)

	return &Renderer{md: goldmark.New(opts...)}
}

// Render converts src to HTML. Blank input renders to an empty fragment.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderFile reads and renders the markdown file at path. title is the
// file's first level-one heading, empty when it has none.
func (r *Renderer) RenderFile(path string) (body template.HTML, title string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	body, err = r.Render(content)
	if err != nil {
		return "", "", err
	}
	return body, Title(content, ""), nil
}

// Title returns the text of the first level-one heading in src, or fallback.
func Title(src []byte, fallback string) string {
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}
