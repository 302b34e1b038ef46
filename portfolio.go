// Package portfolio keeps a relational store in step with a directory of
// Markdown content: blog posts, project pages and static pages, plus
// best-effort repository metadata enrichment.
package portfolio

import (
	"context"

	"github.com/uptrace/bun"

	contentcmd "github.com/goliatone/go-portfolio/internal/commands/content"
	projectscmd "github.com/goliatone/go-portfolio/internal/commands/projects"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/github"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/internal/sync"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Post exports the durable post record.
type Post = posts.Post

// Tag exports the durable tag record.
type Tag = posts.Tag

// Project exports the durable project record.
type Project = projects.Project

// RepoMetadata exports the provider enrichment fields.
type RepoMetadata = projects.RepoMetadata

// Summary exports the per-run reconciliation report.
type Summary = sync.Summary

// ParsedPost exports the in-memory post form for presentation layers.
type ParsedPost = markdown.ParsedPost

// ParsedProject exports the in-memory project form.
type ParsedProject = markdown.ParsedProject

// ParsedPage exports the in-memory page form.
type ParsedPage = markdown.ParsedPage

// TocEntry exports a single table-of-contents item.
type TocEntry = markdown.TocEntry

// SyncContentCommand exports the dispatchable sync message.
type SyncContentCommand = contentcmd.SyncContentCommand

// RefreshProjectMetadataCommand exports the metadata refresh message.
type RefreshProjectMetadataCommand = projectscmd.RefreshProjectMetadataCommand

// Option overrides a runtime collaborator during construction.
type Option = di.Option

// WithBunDB supplies an externally managed database handle.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithLoggerProvider replaces the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(renderer *markdown.Renderer) Option {
	return di.WithRenderer(renderer)
}

// Module is the top level portfolio runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a portfolio module from the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Sync runs one reconciliation pass over the configured content root.
func (m *Module) Sync(ctx context.Context) (*Summary, error) {
	return m.container.SyncEngine().Run(ctx, m.container.Config.Content.Root)
}

// SyncDir runs one reconciliation pass over an explicit content root.
func (m *Module) SyncDir(ctx context.Context, contentRoot string) (*Summary, error) {
	return m.container.SyncEngine().Run(ctx, contentRoot)
}

// Posts returns the durable post store.
func (m *Module) Posts() *posts.BunPostRepository {
	return m.container.PostRepository()
}

// Projects returns the durable project store.
func (m *Module) Projects() *projects.BunProjectRepository {
	return m.container.ProjectRepository()
}

// GitHub returns the repository metadata client, or nil when enrichment is
// disabled.
func (m *Module) GitHub() *github.Client {
	return m.container.GitHubClient()
}

// Loader builds a document loader over the configured content root for
// presentation-layer reads that bypass the database.
func (m *Module) Loader() *markdown.Loader {
	return markdown.NewLoaderFromDir(m.container.Config.Content.Root, m.container.Renderer())
}

// SyncHandler builds the dispatchable sync command handler. OnComplete, when
// non-nil, receives each successful run's summary.
func (m *Module) SyncHandler(onComplete func(*Summary)) *contentcmd.SyncContentHandler {
	return m.container.SyncContentHandler(onComplete)
}

// RefreshMetadataHandler builds the metadata refresh command handler, or nil
// when enrichment is disabled.
func (m *Module) RefreshMetadataHandler() *projectscmd.RefreshProjectMetadataHandler {
	return m.container.RefreshProjectMetadataHandler()
}

// Close releases module resources.
func (m *Module) Close() error {
	return m.container.Close()
}
