// Package projectscmd exposes project maintenance operations as dispatchable
// commands.
package projectscmd

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/github"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const refreshMetadataMessageType = "portfolio.project.refresh_metadata"

// ProjectStore is the slice of the project repository this command needs.
type ProjectStore interface {
	GetBySlug(ctx context.Context, slug string) (*projects.Project, error)
	UpdateRepoMetadata(ctx context.Context, id uuid.UUID, meta projects.RepoMetadata) error
}

// MetadataFetcher resolves repository metadata from the hosting provider.
type MetadataFetcher interface {
	FetchRepoMetadata(ctx context.Context, repoURL string) *github.RepoMeta
}

// RefreshProjectMetadataCommand re-fetches provider metadata for one project
// outside a full sync run.
type RefreshProjectMetadataCommand struct {
	Slug string `json:"slug"`
}

// Type implements command.Message.
func (RefreshProjectMetadataCommand) Type() string { return refreshMetadataMessageType }

// Validate ensures the message names a project.
func (m RefreshProjectMetadataCommand) Validate() error {
	errs := validation.Errors{}
	if m.Slug == "" {
		errs["slug"] = validation.NewError("portfolio.project.refresh_metadata.slug_required", "slug is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RefreshProjectMetadataHandler resolves the project, queries the provider
// and stores whatever it reports. A provider miss is an error here, unlike
// during sync, because the operator asked for fresh numbers explicitly.
type RefreshProjectMetadataHandler struct {
	inner *commands.Handler[RefreshProjectMetadataCommand]
}

func NewRefreshProjectMetadataHandler(store ProjectStore, fetcher MetadataFetcher, logger interfaces.Logger, opts ...commands.HandlerOption[RefreshProjectMetadataCommand]) *RefreshProjectMetadataHandler {
	exec := func(ctx context.Context, msg RefreshProjectMetadataCommand) error {
		project, err := store.GetBySlug(ctx, msg.Slug)
		if err != nil {
			return err
		}
		if project.RepoURL == nil || *project.RepoURL == "" {
			return fmt.Errorf("project %s has no repo_url", msg.Slug)
		}

		meta := fetcher.FetchRepoMetadata(ctx, *project.RepoURL)
		if meta == nil {
			return fmt.Errorf("no metadata available for %s", *project.RepoURL)
		}

		return store.UpdateRepoMetadata(ctx, project.ID, projects.RepoMetadata{
			Stars:        meta.Stars,
			Forks:        meta.Forks,
			Language:     meta.Language,
			LastPushedAt: meta.LastPushedAt,
		})
	}

	handlerOpts := []commands.HandlerOption[RefreshProjectMetadataCommand]{
		commands.WithLogger[RefreshProjectMetadataCommand](logger),
		commands.WithOperation[RefreshProjectMetadataCommand]("project.refresh_metadata"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RefreshProjectMetadataHandler{
		inner: commands.NewHandler[RefreshProjectMetadataCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RefreshProjectMetadataCommand].Execute.
func (h *RefreshProjectMetadataHandler) Execute(ctx context.Context, msg RefreshProjectMetadataCommand) error {
	return h.inner.Execute(ctx, msg)
}
