package markdown

import (
	"errors"
	"fmt"
)

var (
	// ErrFrontmatterInvalid reports a frontmatter block that is not valid YAML.
	ErrFrontmatterInvalid = errors.New("markdown: frontmatter is not valid YAML")
	// ErrFrontmatterNotMapping reports frontmatter that parses to something
	// other than a key/value mapping (e.g. a list or a scalar).
	ErrFrontmatterNotMapping = errors.New("markdown: frontmatter must be a mapping")
	// ErrMissingField reports a mandatory frontmatter field that is absent.
	ErrMissingField = errors.New("markdown: required frontmatter field missing")
	// ErrTimestampInvalid reports a date-like frontmatter value that cannot
	// be coerced into an instant.
	ErrTimestampInvalid = errors.New("markdown: invalid date or timestamp")
)

// ParseError reports frontmatter that is present but structurally invalid.
// Callers are expected to catch and isolate it per document rather than
// aborting a whole run.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markdown: parse frontmatter: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingFieldError reports a document whose frontmatter lacks a mandatory key.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("markdown: %s: missing required frontmatter field %q", e.Path, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }
