package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Project is the durable record for a portfolio project. Content fields come
// from the Markdown source; Stars, Forks, Language and LastPushedAt are
// best-effort enrichment pulled from the hosting provider.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:pr"`

	ID              uuid.UUID  `bun:",pk,type:uuid"        json:"id"`
	SourcePath      *string    `bun:"source_path,unique"   json:"source_path,omitempty"`
	Slug            string     `bun:"slug,notnull,unique"  json:"slug"`
	Title           string     `bun:"title,notnull"        json:"title"`
	Description     *string    `bun:"description"          json:"description,omitempty"`
	ContentMarkdown string     `bun:"content_markdown,notnull" json:"content_markdown"`
	ContentHTML     string     `bun:"content_html,notnull" json:"content_html"`
	URL             *string    `bun:"url"                  json:"url,omitempty"`
	RepoURL         *string    `bun:"repo_url"             json:"repo_url,omitempty"`
	Featured        bool       `bun:"featured,notnull,default:false" json:"featured"`
	SortOrder       int        `bun:"sort_order,notnull,default:0"   json:"sort_order"`
	Stars           int        `bun:"stars,notnull,default:0"        json:"stars"`
	Forks           int        `bun:"forks,notnull,default:0"        json:"forks"`
	Language        *string    `bun:"language"             json:"language,omitempty"`
	LastPushedAt    *time.Time `bun:"last_pushed_at,nullzero" json:"last_pushed_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
