package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	gopath "path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-portfolio/internal/slug"
)

const (
	// PostsDir holds dated blog posts under the content root.
	PostsDir = "posts"
	// ProjectsDir holds portfolio project pages under the content root.
	ProjectsDir = "projects"
	// PagesDir holds free-form static pages under the content root.
	PagesDir = "pages"
)

// Matches filenames like 2024-01-15-my-post-slug (extension already stripped).
var dateSlugPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// ParsedPost is the in-memory form of a post document. Records are built per
// file during a sync run, handed to the reconciliation engine, and discarded.
type ParsedPost struct {
	SourcePath      string
	Title           string
	Slug            string
	Excerpt         *string
	ContentMarkdown string
	ContentHTML     string
	Published       bool
	PublishedAt     *time.Time
	Tags            []string
	Toc             []TocEntry
}

// ParsedProject is the in-memory form of a project document.
type ParsedProject struct {
	SourcePath      string
	Title           string
	Slug            string
	Description     *string
	ContentMarkdown string
	ContentHTML     string
	URL             *string
	RepoURL         *string
	Featured        bool
	SortOrder       int
}

// ParsedPage is the in-memory form of a static page. Pages keep their entire
// frontmatter mapping for presentation-layer use and are never persisted.
type ParsedPage struct {
	SourcePath      string
	Title           string
	Slug            string
	ContentMarkdown string
	ContentHTML     string
	FrontMatter     map[string]any
}

// Loader reads Markdown documents from a filesystem rooted at the content
// directory and produces parsed records. It performs no persistence and no
// root-existence checks; callers own those concerns.
type Loader struct {
	fsys     fs.FS
	renderer *Renderer
}

// NewLoader constructs a Loader over the supplied filesystem. When renderer
// is nil a default goldmark renderer is created.
func NewLoader(fsys fs.FS, renderer *Renderer) *Loader {
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Loader{
		fsys:     fsys,
		renderer: renderer,
	}
}

// NewLoaderFromDir constructs a Loader rooted at an on-disk directory.
func NewLoaderFromDir(dir string, renderer *Renderer) *Loader {
	return NewLoader(os.DirFS(dir), renderer)
}

// LoadPost parses a single post document. The filename convention
// YYYY-MM-DD-slug.md supplies default date and slug values; frontmatter
// fields override them. Returns a *MissingFieldError when the frontmatter
// lacks a title.
func (l *Loader) LoadPost(ctx context.Context, path string) (*ParsedPost, error) {
	meta, body, err := l.parse(ctx, path)
	if err != nil {
		return nil, err
	}

	title, err := requireTitle(meta, path)
	if err != nil {
		return nil, err
	}

	stem := fileStem(path)
	slugValue := stem
	var filenameDate string
	if m := dateSlugPattern.FindStringSubmatch(stem); m != nil {
		filenameDate = m[1]
		slugValue = m[2]
	}
	if v, ok := meta["slug"]; ok {
		slugValue = fmt.Sprint(v)
	}

	publishedAt, err := resolvePublishedAt(meta, filenameDate)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}

	html, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}
	toc, err := ExtractTOC(html)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}

	return &ParsedPost{
		SourcePath:      path,
		Title:           title,
		Slug:            slugValue,
		Excerpt:         optionalString(meta, "excerpt"),
		ContentMarkdown: string(body),
		ContentHTML:     string(html),
		Published:       boolValue(meta, "published"),
		PublishedAt:     publishedAt,
		Tags:            parseTags(meta["tags"]),
		Toc:             toc,
	}, nil
}

// LoadProject parses a single project document. The slug defaults to the
// slugified filename stem; there is no date-prefix convention.
func (l *Loader) LoadProject(ctx context.Context, path string) (*ParsedProject, error) {
	meta, body, err := l.parse(ctx, path)
	if err != nil {
		return nil, err
	}

	title, err := requireTitle(meta, path)
	if err != nil {
		return nil, err
	}

	slugValue := slug.Slugify(fileStem(path))
	if v, ok := meta["slug"]; ok {
		slugValue = fmt.Sprint(v)
	}

	html, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}

	return &ParsedProject{
		SourcePath:      path,
		Title:           title,
		Slug:            slugValue,
		Description:     optionalString(meta, "description"),
		ContentMarkdown: string(body),
		ContentHTML:     string(html),
		URL:             optionalString(meta, "url"),
		RepoURL:         optionalString(meta, "repo_url"),
		Featured:        boolValue(meta, "featured"),
		SortOrder:       intValue(meta, "sort_order"),
	}, nil
}

// LoadPage parses a single static page document, keeping the full frontmatter
// mapping verbatim.
func (l *Loader) LoadPage(ctx context.Context, path string) (*ParsedPage, error) {
	meta, body, err := l.parse(ctx, path)
	if err != nil {
		return nil, err
	}

	title, err := requireTitle(meta, path)
	if err != nil {
		return nil, err
	}

	slugValue := slug.Slugify(fileStem(path))
	if v, ok := meta["slug"]; ok {
		slugValue = fmt.Sprint(v)
	}

	html, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}

	return &ParsedPage{
		SourcePath:      path,
		Title:           title,
		Slug:            slugValue,
		ContentMarkdown: string(body),
		ContentHTML:     string(html),
		FrontMatter:     meta,
	}, nil
}

// PostFiles lists post documents in lexical filename order. A missing posts
// directory yields an empty list, not an error.
func (l *Loader) PostFiles(ctx context.Context) ([]string, error) {
	return l.files(ctx, PostsDir)
}

// ProjectFiles lists project documents in lexical filename order.
func (l *Loader) ProjectFiles(ctx context.Context) ([]string, error) {
	return l.files(ctx, ProjectsDir)
}

// PageFiles lists page documents in lexical filename order.
func (l *Loader) PageFiles(ctx context.Context) ([]string, error) {
	return l.files(ctx, PagesDir)
}

// LoadPosts loads every post under the content root, sorted by published
// timestamp descending. Posts without a timestamp sort last; ties keep the
// lexical filename order of the directory scan.
func (l *Loader) LoadPosts(ctx context.Context) ([]*ParsedPost, error) {
	files, err := l.PostFiles(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]*ParsedPost, 0, len(files))
	for _, file := range files {
		post, err := l.LoadPost(ctx, file)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return publishedSortKey(posts[i]).After(publishedSortKey(posts[j]))
	})
	return posts, nil
}

// LoadProjects loads every project under the content root in lexical order.
func (l *Loader) LoadProjects(ctx context.Context) ([]*ParsedProject, error) {
	files, err := l.ProjectFiles(ctx)
	if err != nil {
		return nil, err
	}

	projects := make([]*ParsedProject, 0, len(files))
	for _, file := range files {
		project, err := l.LoadProject(ctx, file)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// LoadPages loads every static page under the content root in lexical order.
func (l *Loader) LoadPages(ctx context.Context) ([]*ParsedPage, error) {
	files, err := l.PageFiles(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]*ParsedPage, 0, len(files))
	for _, file := range files {
		page, err := l.LoadPage(ctx, file)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (l *Loader) parse(ctx context.Context, path string) (map[string]any, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("markdown loader read %s: %w", path, err)
	}

	meta, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, nil, fmt.Errorf("markdown loader %s: %w", path, err)
	}
	return meta, body, nil
}

func (l *Loader) files(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("markdown loader scan %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		files = append(files, gopath.Join(dir, entry.Name()))
	}
	return files, nil
}

func requireTitle(meta map[string]any, path string) (string, error) {
	value, ok := meta["title"]
	if !ok {
		return "", &MissingFieldError{Path: path, Field: "title"}
	}
	return strings.TrimSpace(fmt.Sprint(value)), nil
}

func fileStem(path string) string {
	base := gopath.Base(path)
	return strings.TrimSuffix(base, gopath.Ext(base))
}

// resolvePublishedAt picks the publish instant: explicit published_at wins,
// then an explicit date, then the date embedded in the filename.
func resolvePublishedAt(meta map[string]any, filenameDate string) (*time.Time, error) {
	if v, ok := meta["published_at"]; ok {
		return coercedInstant(v)
	}
	if v, ok := meta["date"]; ok {
		return coercedInstant(v)
	}
	if filenameDate != "" {
		return coercedInstant(filenameDate)
	}
	return nil, nil
}

// coercedInstant normalizes any accepted date-like value to a UTC instant.
// Bare calendar dates become midnight UTC; timezone-naive timestamps are
// assumed UTC.
func coercedInstant(value any) (*time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		utc := v.UTC()
		return &utc, nil
	case string:
		trimmed := strings.TrimSpace(v)
		layouts := []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				utc := parsed.UTC()
				return &utc, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrTimestampInvalid, v)
	default:
		return nil, fmt.Errorf("%w: %v", ErrTimestampInvalid, value)
	}
}

// parseTags accepts tags as a YAML list or a comma-separated string and
// normalizes both forms to a list of trimmed, non-empty strings.
func parseTags(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if tag := strings.TrimSpace(fmt.Sprint(item)); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags
	default:
		parts := strings.Split(fmt.Sprint(v), ",")
		tags := make([]string, 0, len(parts))
		for _, part := range parts {
			if tag := strings.TrimSpace(part); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags
	}
}

func optionalString(meta map[string]any, key string) *string {
	value, ok := meta[key]
	if !ok {
		return nil
	}
	s := fmt.Sprint(value)
	return &s
}

func boolValue(meta map[string]any, key string) bool {
	if v, ok := meta[key].(bool); ok {
		return v
	}
	return false
}

func intValue(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func publishedSortKey(post *ParsedPost) time.Time {
	if post.PublishedAt == nil {
		return time.Time{}
	}
	return *post.PublishedAt
}
