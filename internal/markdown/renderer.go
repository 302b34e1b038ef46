package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-portfolio/internal/slug"
)

// Renderer converts Markdown into HTML using the goldmark engine. Headings
// receive slugified id attributes so rendered documents carry stable anchors,
// and fenced code blocks are highlighted according to their language tag.
// The renderer is stateless and safe for reuse across documents.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer constructs a renderer with GFM extensions and chroma-backed
// syntax highlighting. Unknown or absent language tags fall back to a plain
// wrapped code block; rendering never fails because of a fence tag.
func NewRenderer() *Renderer {
	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Renderer{engine: engine}
}

// Render converts Markdown source into HTML. Empty input yields empty output.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	ids := parser.NewContext(parser.WithIDs(newSlugIDs()))
	if err := r.engine.Convert(source, &buf, parser.WithContext(ids)); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// slugIDs generates heading anchors with the same normalization used for
// post and project slugs, de-duplicating repeated headings within a document.
type slugIDs struct {
	used map[string]struct{}
}

func newSlugIDs() parser.IDs {
	return &slugIDs{used: map[string]struct{}{}}
}

func (s *slugIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	anchor := slug.Slugify(string(value))
	if anchor == "" {
		anchor = "heading"
	}

	candidate := anchor
	for i := 1; ; i++ {
		if _, taken := s.used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", anchor, i)
	}
	s.used[candidate] = struct{}{}
	return []byte(candidate)
}

func (s *slugIDs) Put(value []byte) {}
