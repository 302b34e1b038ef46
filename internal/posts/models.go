package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the durable record for a Markdown-authored blog post. SourcePath is
// the natural key used for upsert matching during sync; Slug is the separate
// unique key used for public lookup.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID              uuid.UUID  `bun:",pk,type:uuid"                 json:"id"`
	SourcePath      *string    `bun:"source_path,unique"            json:"source_path,omitempty"`
	Slug            string     `bun:"slug,notnull,unique"           json:"slug"`
	Title           string     `bun:"title,notnull"                 json:"title"`
	Excerpt         *string    `bun:"excerpt"                       json:"excerpt,omitempty"`
	ContentMarkdown string     `bun:"content_markdown,notnull"      json:"content_markdown"`
	ContentHTML     string     `bun:"content_html,notnull"          json:"content_html"`
	Published       bool       `bun:"published,notnull,default:false" json:"published"`
	PublishedAt     *time.Time `bun:"published_at,nullzero"         json:"published_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Tags []*Tag `bun:"m2m:post_tags,join:Post=Tag" json:"tags,omitempty"`
}

// Tag is a durable label shared across posts. At most one tag exists per
// distinct slug.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID        uuid.UUID `bun:",pk,type:uuid"       json:"id"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	Name      string    `bun:"name,notnull"        json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// PostTag is the explicit junction between posts and tags. Associations are
// reconciled by full replace during sync rather than relying on ORM cascade
// behaviour.
type PostTag struct {
	bun.BaseModel `bun:"table:post_tags,alias:pt"`

	PostID uuid.UUID `bun:"post_id,pk,type:uuid" json:"post_id"`
	Post   *Post     `bun:"rel:belongs-to,join:post_id=id" json:"-"`
	TagID  uuid.UUID `bun:"tag_id,pk,type:uuid"  json:"tag_id"`
	Tag    *Tag      `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
