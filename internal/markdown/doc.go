// Package markdown turns a directory tree of Markdown documents into
// structured post, project, and page records: it splits YAML frontmatter
// from the body, renders the body to HTML with anchored headings and
// highlighted code fences, and derives a table of contents from the
// rendered output.
package markdown
