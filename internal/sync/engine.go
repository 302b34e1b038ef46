// Package sync reconciles the durable store against a directory of Markdown
// content, one file at a time.
package sync

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-portfolio/internal/github"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/internal/storage"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// PostStore is the slice of the post repository the engine writes through.
type PostStore interface {
	SyncFromContent(ctx context.Context, input posts.SyncInput) (*posts.Post, error)
	DeleteOrphans(ctx context.Context, keep []string) (int64, error)
}

// ProjectStore is the slice of the project repository the engine writes
// through.
type ProjectStore interface {
	SyncFromContent(ctx context.Context, input projects.SyncInput) (*projects.Project, error)
	DeleteOrphans(ctx context.Context, keep []string) (int64, error)
}

// MetadataFetcher resolves best-effort repository metadata for a project. A
// nil result means no enrichment; it is never an error.
type MetadataFetcher interface {
	FetchRepoMetadata(ctx context.Context, repoURL string) *github.RepoMeta
}

// Summary reports what a run changed.
type Summary struct {
	PostsSynced      int `json:"posts_synced"`
	ProjectsSynced   int `json:"projects_synced"`
	ProjectsEnriched int `json:"projects_enriched"`
	PagesFound       int `json:"pages_found"`
	PostsDeleted     int `json:"posts_deleted"`
	ProjectsDeleted  int `json:"projects_deleted"`
}

// Config wires the engine's collaborators. Posts and Projects are required;
// Metadata, Renderer and Logger are optional.
type Config struct {
	Posts    PostStore
	Projects ProjectStore
	Metadata MetadataFetcher
	Renderer *markdown.Renderer
	Logger   interfaces.Logger
}

// Engine drives one reconciliation pass: load each document, upsert it in its
// own transaction, enrich projects, then remove orphans. A bad file never
// aborts the run; only a missing content root does.
type Engine struct {
	posts    PostStore
	projects ProjectStore
	metadata MetadataFetcher
	renderer *markdown.Renderer
	logger   interfaces.Logger
}

func New(cfg Config) (*Engine, error) {
	if cfg.Posts == nil {
		return nil, errors.New("sync: post store is required")
	}
	if cfg.Projects == nil {
		return nil, errors.New("sync: project store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	return &Engine{
		posts:    cfg.Posts,
		projects: cfg.Projects,
		metadata: cfg.Metadata,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Run reconciles the store against the Markdown tree under contentRoot.
func (e *Engine) Run(ctx context.Context, contentRoot string) (*Summary, error) {
	info, err := os.Stat(contentRoot)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentRootMissing, contentRoot)
	}

	loader := markdown.NewLoader(os.DirFS(contentRoot), e.renderer)
	summary := &Summary{}

	postKeep, err := e.syncPosts(ctx, loader, summary)
	if err != nil {
		return nil, err
	}
	projectKeep, err := e.syncProjects(ctx, loader, summary)
	if err != nil {
		return nil, err
	}

	postsDeleted, err := e.posts.DeleteOrphans(ctx, postKeep)
	if err != nil {
		return nil, fmt.Errorf("sync: post orphan cleanup: %w", err)
	}
	summary.PostsDeleted = int(postsDeleted)

	projectsDeleted, err := e.projects.DeleteOrphans(ctx, projectKeep)
	if err != nil {
		return nil, fmt.Errorf("sync: project orphan cleanup: %w", err)
	}
	summary.ProjectsDeleted = int(projectsDeleted)

	if err := e.countPages(ctx, loader, summary); err != nil {
		return nil, err
	}

	e.logger.Info("sync.complete",
		"posts_synced", summary.PostsSynced,
		"projects_synced", summary.ProjectsSynced,
		"projects_enriched", summary.ProjectsEnriched,
		"pages_found", summary.PagesFound,
		"posts_deleted", summary.PostsDeleted,
		"projects_deleted", summary.ProjectsDeleted,
	)
	return summary, nil
}

// syncPosts processes post files in lexical order and returns the source
// paths that synced successfully.
func (e *Engine) syncPosts(ctx context.Context, loader *markdown.Loader, summary *Summary) ([]string, error) {
	files, err := loader.PostFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: scan posts: %w", err)
	}

	keep := make([]string, 0, len(files))
	for _, file := range files {
		parsed, err := loader.LoadPost(ctx, file)
		if err != nil {
			e.logger.Warn("sync.post.skipped", "file", file, "error", err)
			continue
		}

		if _, err := e.posts.SyncFromContent(ctx, posts.SyncInput{
			SourcePath:      parsed.SourcePath,
			Slug:            parsed.Slug,
			Title:           parsed.Title,
			Excerpt:         parsed.Excerpt,
			ContentMarkdown: parsed.ContentMarkdown,
			ContentHTML:     parsed.ContentHTML,
			Published:       parsed.Published,
			PublishedAt:     parsed.PublishedAt,
			Tags:            parsed.Tags,
		}); err != nil {
			if storage.IsConstraintViolation(err) {
				e.logger.Warn("sync.post.conflict", "file", file, "slug", parsed.Slug, "error", err)
			} else {
				e.logger.Warn("sync.post.failed", "file", file, "error", err)
			}
			continue
		}

		keep = append(keep, parsed.SourcePath)
		summary.PostsSynced++
	}
	return keep, nil
}

// syncProjects mirrors syncPosts and additionally fetches provider metadata
// before each upsert so enrichment lands inside the same unit of work.
func (e *Engine) syncProjects(ctx context.Context, loader *markdown.Loader, summary *Summary) ([]string, error) {
	files, err := loader.ProjectFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: scan projects: %w", err)
	}

	keep := make([]string, 0, len(files))
	for _, file := range files {
		parsed, err := loader.LoadProject(ctx, file)
		if err != nil {
			e.logger.Warn("sync.project.skipped", "file", file, "error", err)
			continue
		}

		meta := e.fetchMetadata(ctx, parsed)
		if _, err := e.projects.SyncFromContent(ctx, projects.SyncInput{
			SourcePath:      parsed.SourcePath,
			Slug:            parsed.Slug,
			Title:           parsed.Title,
			Description:     parsed.Description,
			ContentMarkdown: parsed.ContentMarkdown,
			ContentHTML:     parsed.ContentHTML,
			URL:             parsed.URL,
			RepoURL:         parsed.RepoURL,
			Featured:        parsed.Featured,
			SortOrder:       parsed.SortOrder,
			Meta:            meta,
		}); err != nil {
			if storage.IsConstraintViolation(err) {
				e.logger.Warn("sync.project.conflict", "file", file, "slug", parsed.Slug, "error", err)
			} else {
				e.logger.Warn("sync.project.failed", "file", file, "error", err)
			}
			continue
		}

		keep = append(keep, parsed.SourcePath)
		summary.ProjectsSynced++
		if meta != nil {
			summary.ProjectsEnriched++
		}
	}
	return keep, nil
}

func (e *Engine) fetchMetadata(ctx context.Context, parsed *markdown.ParsedProject) *projects.RepoMetadata {
	if e.metadata == nil || parsed.RepoURL == nil || *parsed.RepoURL == "" {
		return nil
	}
	meta := e.metadata.FetchRepoMetadata(ctx, *parsed.RepoURL)
	if meta == nil {
		return nil
	}
	return &projects.RepoMetadata{
		Stars:        meta.Stars,
		Forks:        meta.Forks,
		Language:     meta.Language,
		LastPushedAt: meta.LastPushedAt,
	}
}

// countPages loads page documents for reporting only; nothing is persisted.
func (e *Engine) countPages(ctx context.Context, loader *markdown.Loader, summary *Summary) error {
	files, err := loader.PageFiles(ctx)
	if err != nil {
		return fmt.Errorf("sync: scan pages: %w", err)
	}
	for _, file := range files {
		if _, err := loader.LoadPage(ctx, file); err != nil {
			e.logger.Warn("sync.page.skipped", "file", file, "error", err)
			continue
		}
		summary.PagesFound++
	}
	return nil
}
