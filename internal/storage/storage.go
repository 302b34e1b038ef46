// Package storage opens the portfolio database and prepares its schema.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/projects"
)

// Open connects to the SQLite database at dsn and returns a bun handle with
// the portfolio models registered. SQLite serializes writers, so the pool is
// capped at a single connection.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	RegisterModels(db)
	return db, nil
}

// RegisterModels registers junction tables so bun can resolve many-to-many
// relations. Required before any query touches Post.Tags.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*posts.PostTag)(nil))
}

// Migrate creates the portfolio tables when they do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*posts.Post)(nil),
		(*posts.Tag)(nil),
		(*posts.PostTag)(nil),
		(*projects.Project)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}
