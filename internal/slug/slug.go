// Package slug normalizes arbitrary text into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes to NFD and removes combining marks, turning
// "Café" into "Cafe" before ASCII folding.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts text to a URL-safe slug. It strips accents, lowercases,
// replaces every run of non-alphanumeric characters with a single hyphen,
// and trims leading and trailing hyphens. The function is total and
// idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}

	var ascii strings.Builder
	ascii.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}

	lowered := strings.ToLower(ascii.String())
	hyphenated := nonAlphanumeric.ReplaceAllString(lowered, "-")
	return strings.Trim(hyphenated, "-")
}

// IsValid reports whether the value already satisfies the default slug rules.
// Author-supplied frontmatter slugs are checked with this before they reach
// the durable store.
func IsValid(value string) bool {
	return goslug.IsValid(value)
}
