package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TocEntry is a single table-of-contents item derived from rendered HTML.
// Entries are never persisted; they are recomputed on demand from stored HTML.
type TocEntry struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// ExtractTOC scans rendered HTML for heading tags h2 through h6 that carry an
// id attribute and returns them in document order. Nested inline tags are
// stripped from the heading text. Level-1 headings are excluded; they are
// reserved for the document title.
func ExtractTOC(rendered []byte) ([]TocEntry, error) {
	if len(rendered) == 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("markdown toc: %w", err)
	}

	var entries []TocEntry
	doc.Find("h2[id], h3[id], h4[id], h5[id], h6[id]").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("id")
		if !ok {
			return
		}
		name := goquery.NodeName(sel)
		level := int(name[1] - '0')
		entries = append(entries, TocEntry{
			Level: level,
			ID:    id,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})

	return entries, nil
}
