package markdown

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFrontMatter(t *testing.T) {
	source := []byte("---\ntitle: Sample Post\ntags:\n  - go\n  - web\npublished: true\n---\n\n# Sample Post\n\nBody text.\n")

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if meta["title"] != "Sample Post" {
		t.Fatalf("title mismatch, got %#v", meta["title"])
	}
	if meta["published"] != true {
		t.Fatalf("published mismatch: %#v", meta["published"])
	}
	tags, ok := meta["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "go" {
		t.Fatalf("tags mismatch: %#v", meta["tags"])
	}
	if !strings.HasPrefix(string(body), "# Sample Post") {
		t.Fatalf("body not returned correctly: %q", string(body))
	}
}

func TestParseFrontMatter_NoFrontmatter(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty input", ""},
		{"plain markdown", "# Just a Heading\n\nNo metadata here.\n"},
		{"single delimiter", "---\ntitle: Dangling\n"},
		{"delimiter not at start", "intro line\n---\ntitle: Late\n---\nbody\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta, body, err := ParseFrontMatter([]byte(tc.source))
			if err != nil {
				t.Fatalf("ParseFrontMatter: %v", err)
			}
			if len(meta) != 0 {
				t.Fatalf("expected empty metadata, got %#v", meta)
			}
			if string(body) != tc.source {
				t.Fatalf("expected body to be the full source, got %q", string(body))
			}
		})
	}
}

func TestParseFrontMatter_EmptyBlock(t *testing.T) {
	meta, body, err := ParseFrontMatter([]byte("---\n---\nBody only.\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if len(meta) != 0 {
		t.Fatalf("expected empty metadata, got %#v", meta)
	}
	if string(body) != "Body only.\n" {
		t.Fatalf("body mismatch: %q", string(body))
	}
}

func TestParseFrontMatter_NonMapping(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\n- one\n- two\n---\nbody\n"))
	if err == nil {
		t.Fatal("expected an error for a non-mapping header")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrFrontmatterNotMapping) {
		t.Fatalf("expected ErrFrontmatterNotMapping, got %v", err)
	}
}

func TestParseFrontMatter_InvalidYAML(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	if err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
	if !errors.Is(err, ErrFrontmatterInvalid) {
		t.Fatalf("expected ErrFrontmatterInvalid, got %v", err)
	}
}

func TestParseFrontMatter_RoundTrip(t *testing.T) {
	header := "title: Round Trip\nslug: round-trip"
	body := "First paragraph.\n\nSecond paragraph.\n"
	source := "---\n" + header + "\n---\n\n" + body

	meta, got, err := ParseFrontMatter([]byte(source))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta["slug"] != "round-trip" {
		t.Fatalf("slug mismatch: %#v", meta["slug"])
	}
	if string(got) != body {
		t.Fatalf("body round trip failed: %q != %q", string(got), body)
	}
}
