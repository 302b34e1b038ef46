package markdown

import (
	"bytes"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Matches lines consisting solely of the --- delimiter, surrounding
// whitespace ignored.
var frontmatterDelimiter = regexp.MustCompile(`(?m)^[ \t]*---[ \t]*\r?$`)

// ParseFrontMatter splits a YAML frontmatter block from the Markdown body.
//
// The block must be delimited by --- lines with the first delimiter at the
// very start of the source. When fewer than two delimiter lines exist, or the
// first is not at the start, the whole source is returned as body with empty
// metadata and no error. An empty block yields an empty map. A block that is
// present but not parseable as a YAML mapping returns a *ParseError.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	matches := frontmatterDelimiter.FindAllIndex(source, -1)
	if len(matches) < 2 || matches[0][0] != 0 {
		return map[string]any{}, source, nil
	}

	block := bytes.TrimSpace(source[matches[0][1]:matches[1][0]])
	body := bytes.TrimLeft(source[matches[1][1]:], "\r\n")

	if len(block) == 0 {
		return map[string]any{}, body, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return nil, nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrFrontmatterInvalid, err)}
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return nil, nil, &ParseError{Err: ErrFrontmatterNotMapping}
	}

	meta := map[string]any{}
	if err := node.Content[0].Decode(&meta); err != nil {
		return nil, nil, &ParseError{Err: fmt.Errorf("%w: %v", ErrFrontmatterInvalid, err)}
	}

	return meta, body, nil
}
