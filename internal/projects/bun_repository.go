package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-portfolio/internal/slug"
)

// RepoMetadata mirrors the fields the hosting provider reports for a linked
// repository.
type RepoMetadata struct {
	Stars        int
	Forks        int
	Language     *string
	LastPushedAt *time.Time
}

// SyncInput carries the fields that content sync writes onto a project. Meta
// is optional provider enrichment; when nil, stored enrichment is left alone.
type SyncInput struct {
	SourcePath      string
	Slug            string
	Title           string
	Description     *string
	ContentMarkdown string
	ContentHTML     string
	URL             *string
	RepoURL         *string
	Featured        bool
	SortOrder       int
	Meta            *RepoMetadata
}

// BunProjectRepository stores projects with bun.
type BunProjectRepository struct {
	db   *bun.DB
	repo repository.Repository[*Project]
}

func NewBunProjectRepository(db *bun.DB) *BunProjectRepository {
	return NewBunProjectRepositoryWithCache(db, nil, nil)
}

// NewBunProjectRepositoryWithCache constructs a project repository with
// optional read-path caching.
func NewBunProjectRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProjectRepository {
	return &BunProjectRepository{
		db:   db,
		repo: wrapWithCache(NewProjectRepository(db), cacheService, keySerializer),
	}
}

func (r *BunProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	project, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "project", id.String())
	}
	return project, nil
}

func (r *BunProjectRepository) GetBySlug(ctx context.Context, projectSlug string) (*Project, error) {
	project, err := r.repo.GetByIdentifier(ctx, projectSlug)
	if err != nil {
		return nil, mapRepositoryError(err, "project", projectSlug)
	}
	return project, nil
}

// List returns projects ordered for display: featured first, then by sort
// order, then by title.
func (r *BunProjectRepository) List(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("featured DESC", "sort_order ASC", "title ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "project", "list")
	}
	return records, nil
}

// ListFeatured returns only projects flagged featured, in display order.
func (r *BunProjectRepository) ListFeatured(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.featured = ?", true).
				Order("sort_order ASC", "title ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "project", "list featured")
	}
	return records, nil
}

// SyncFromContent upserts a project keyed by its source path inside a single
// transaction. Content fields always track the input; enrichment fields are
// only written when Meta is present, so a failed provider fetch on a later
// run never wipes previously stored numbers.
func (r *BunProjectRepository) SyncFromContent(ctx context.Context, input SyncInput) (*Project, error) {
	projectSlug := input.Slug
	if !slug.IsValid(projectSlug) {
		projectSlug = slug.Slugify(projectSlug)
	}
	if projectSlug == "" {
		return nil, fmt.Errorf("%w: %q", ErrSlugInvalid, input.Slug)
	}

	var project *Project
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		existing := new(Project)
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.source_path = ?", input.SourcePath).
			Limit(1).
			Scan(ctx)
		switch {
		case err == nil:
			existing.Slug = projectSlug
			existing.Title = input.Title
			existing.Description = input.Description
			existing.ContentMarkdown = input.ContentMarkdown
			existing.ContentHTML = input.ContentHTML
			existing.URL = input.URL
			existing.RepoURL = input.RepoURL
			existing.Featured = input.Featured
			existing.SortOrder = input.SortOrder
			existing.UpdatedAt = now
			applyMetadata(existing, input.Meta)
			if _, err := tx.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("update project %s: %w", input.SourcePath, err)
			}
			project = existing
		case errors.Is(err, sql.ErrNoRows):
			sourcePath := input.SourcePath
			project = &Project{
				ID:              uuid.New(),
				SourcePath:      &sourcePath,
				Slug:            projectSlug,
				Title:           input.Title,
				Description:     input.Description,
				ContentMarkdown: input.ContentMarkdown,
				ContentHTML:     input.ContentHTML,
				URL:             input.URL,
				RepoURL:         input.RepoURL,
				Featured:        input.Featured,
				SortOrder:       input.SortOrder,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			applyMetadata(project, input.Meta)
			if _, err := tx.NewInsert().Model(project).Exec(ctx); err != nil {
				return fmt.Errorf("insert project %s: %w", input.SourcePath, err)
			}
		default:
			return fmt.Errorf("lookup project by source path %s: %w", input.SourcePath, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateRepoMetadata refreshes the enrichment fields for a stored project
// without touching its content fields.
func (r *BunProjectRepository) UpdateRepoMetadata(ctx context.Context, id uuid.UUID, meta RepoMetadata) error {
	res, err := r.db.NewUpdate().
		Model((*Project)(nil)).
		Set("stars = ?", meta.Stars).
		Set("forks = ?", meta.Forks).
		Set("language = ?", meta.Language).
		Set("last_pushed_at = ?", meta.LastPushedAt).
		Set("updated_at = ?", time.Now().UTC()).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update project metadata: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Resource: "project", Key: id.String()}
	}
	return nil
}

// DeleteOrphans removes synced projects whose source path is no longer
// present on disk. Rows without a source path are never touched.
func (r *BunProjectRepository) DeleteOrphans(ctx context.Context, keep []string) (int64, error) {
	q := r.db.NewDelete().
		Model((*Project)(nil)).
		Where("?TableAlias.source_path IS NOT NULL")
	if len(keep) > 0 {
		q = q.Where("?TableAlias.source_path NOT IN (?)", bun.In(keep))
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned projects: %w", err)
	}
	removed, _ := res.RowsAffected()
	return removed, nil
}

func applyMetadata(p *Project, meta *RepoMetadata) {
	if meta == nil {
		return
	}
	p.Stars = meta.Stars
	p.Forks = meta.Forks
	p.Language = meta.Language
	p.LastPushedAt = meta.LastPushedAt
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
