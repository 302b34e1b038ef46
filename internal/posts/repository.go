package posts

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Post) string {
			return p.Slug
		},
	})
}

func NewTagRepository(db *bun.DB) repository.Repository[*Tag] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Tag]{
		NewRecord: func() *Tag { return &Tag{} },
		GetID: func(t *Tag) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Tag, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(t *Tag) string {
			return t.Slug
		},
	})
}
