package posts

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

// SyncInput carries the fields that content sync writes onto a post. The
// source path is the upsert key; everything else replaces what is stored.
type SyncInput struct {
	SourcePath      string
	Slug            string
	Title           string
	Excerpt         *string
	ContentMarkdown string
	ContentHTML     string
	Published       bool
	PublishedAt     *time.Time
	Tags            []string
}

// BunPostRepository stores posts with bun.
type BunPostRepository struct {
	db   *bun.DB
	repo repository.Repository[*Post]
	tags repository.Repository[*Tag]
}

// NewBunPostRepository creates a post repository backed by bun.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache constructs a post repository with optional
// read-path caching.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPostRepository {
	return &BunPostRepository{
		db:   db,
		repo: wrapWithCache(NewPostRepository(db), cacheService, keySerializer),
		tags: wrapWithCache(NewTagRepository(db), cacheService, keySerializer),
	}
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	post, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return post, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	post, err := r.repo.GetByIdentifier(ctx, postSlug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", postSlug)
	}
	return post, nil
}

// List returns posts in reverse chronological order. Unpublished drafts sort
// after dated posts.
func (r *BunPostRepository) List(ctx context.Context, limit, offset int) ([]*Post, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectPaginate(limit, offset),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("published_at DESC NULLS LAST", "created_at DESC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "post", "list")
	}
	return records, nil
}

// ListPublished returns only posts flagged published, newest first.
func (r *BunPostRepository) ListPublished(ctx context.Context, limit, offset int) ([]*Post, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectPaginate(limit, offset),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.published = ?", true).
				Order("published_at DESC NULLS LAST", "created_at DESC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "post", "list published")
	}
	return records, nil
}

// GetTagBySlug resolves a tag by its slug.
func (r *BunPostRepository) GetTagBySlug(ctx context.Context, tagSlug string) (*Tag, error) {
	tag, err := r.tags.GetByIdentifier(ctx, tagSlug)
	if err != nil {
		return nil, mapRepositoryError(err, "tag", tagSlug)
	}
	return tag, nil
}

// ListTags returns the tags attached to a post, ordered by slug.
func (r *BunPostRepository) ListTags(ctx context.Context, postID uuid.UUID) ([]*Tag, error) {
	var tags []*Tag
	err := r.db.NewSelect().
		Model(&tags).
		Join("JOIN post_tags AS pt ON pt.tag_id = t.id").
		Where("pt.post_id = ?", postID).
		Order("t.slug ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}
	return tags, nil
}

// SyncFromContent upserts a post keyed by its source path and replaces its tag
// set, all inside a single transaction. Insert and update both leave the row
// matching the input exactly; associations are rebuilt rather than merged.
func (r *BunPostRepository) SyncFromContent(ctx context.Context, input SyncInput) (*Post, error) {
	postSlug := input.Slug
	if !slug.IsValid(postSlug) {
		postSlug = slug.Slugify(postSlug)
	}
	if postSlug == "" {
		return nil, fmt.Errorf("%w: %q", ErrSlugInvalid, input.Slug)
	}

	var post *Post
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		existing := new(Post)
		err := tx.NewSelect().
			Model(existing).
			Where("?TableAlias.source_path = ?", input.SourcePath).
			Limit(1).
			Scan(ctx)
		switch {
		case err == nil:
			existing.Slug = postSlug
			existing.Title = input.Title
			existing.Excerpt = input.Excerpt
			existing.ContentMarkdown = input.ContentMarkdown
			existing.ContentHTML = input.ContentHTML
			existing.Published = input.Published
			existing.PublishedAt = input.PublishedAt
			existing.UpdatedAt = now
			if _, err := tx.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
				return fmt.Errorf("update post %s: %w", input.SourcePath, err)
			}
			post = existing
		case errors.Is(err, sql.ErrNoRows):
			sourcePath := input.SourcePath
			post = &Post{
				ID:              uuid.New(),
				SourcePath:      &sourcePath,
				Slug:            postSlug,
				Title:           input.Title,
				Excerpt:         input.Excerpt,
				ContentMarkdown: input.ContentMarkdown,
				ContentHTML:     input.ContentHTML,
				Published:       input.Published,
				PublishedAt:     input.PublishedAt,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if _, err := tx.NewInsert().Model(post).Exec(ctx); err != nil {
				return fmt.Errorf("insert post %s: %w", input.SourcePath, err)
			}
		default:
			return fmt.Errorf("lookup post by source path %s: %w", input.SourcePath, err)
		}

		return r.replaceTags(ctx, tx, post.ID, input.Tags, now)
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// replaceTags rebuilds the post's tag associations from scratch. Tags are
// resolved by slug, get-or-create, so the same label shares one row across
// every post referencing it.
func (r *BunPostRepository) replaceTags(ctx context.Context, tx bun.Tx, postID uuid.UUID, names []string, now time.Time) error {
	if _, err := tx.NewDelete().
		Model((*PostTag)(nil)).
		Where("?TableAlias.post_id = ?", postID).
		Exec(ctx); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	seen := map[string]bool{}
	for _, name := range names {
		tagSlug := slug.Slugify(name)
		if tagSlug == "" || seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true

		tag := new(Tag)
		err := tx.NewSelect().
			Model(tag).
			Where("?TableAlias.slug = ?", tagSlug).
			Limit(1).
			Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			tag = &Tag{ID: uuid.New(), Slug: tagSlug, Name: name, CreatedAt: now}
			if _, err := tx.NewInsert().Model(tag).Exec(ctx); err != nil {
				return fmt.Errorf("insert tag %s: %w", tagSlug, err)
			}
		} else if err != nil {
			return fmt.Errorf("lookup tag %s: %w", tagSlug, err)
		}

		link := &PostTag{PostID: postID, TagID: tag.ID}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return fmt.Errorf("link tag %s: %w", tagSlug, err)
		}
	}
	return nil
}

// DeleteOrphans removes synced posts whose source path is no longer present
// on disk. Rows without a source path are never touched. Returns the number
// of posts removed.
func (r *BunPostRepository) DeleteOrphans(ctx context.Context, keep []string) (int64, error) {
	var removed int64
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewDelete().
			Model((*Post)(nil)).
			Where("?TableAlias.source_path IS NOT NULL")
		if len(keep) > 0 {
			q = q.Where("?TableAlias.source_path NOT IN (?)", bun.In(keep))
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete orphaned posts: %w", err)
		}
		removed, _ = res.RowsAffected()

		// Junction rows for deleted posts go with them.
		if _, err := tx.NewDelete().
			Model((*PostTag)(nil)).
			Where("?TableAlias.post_id NOT IN (SELECT id FROM posts)").
			Exec(ctx); err != nil {
			return fmt.Errorf("prune orphaned tag links: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
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
