// Command sync reconciles the portfolio database against a Markdown content
// tree. Intended to run once per deploy or on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	portfolio "github.com/goliatone/go-portfolio"
)

func main() {
	_ = godotenv.Load()

	if err := runSync(os.Args[1:]); err != nil {
		log.Fatalf("sync: %v", err)
	}
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("portfolio-sync", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	dsn := fs.String("db", "file:portfolio.db", "SQLite data source name")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	logFormat := fs.String("log-format", "console", "Log format (json, console, pretty)")
	timeout := fs.Duration("timeout", 10*time.Second, "Timeout for each repository metadata lookup")
	noGitHub := fs.Bool("no-github", false, "Skip repository metadata enrichment")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := portfolio.DefaultConfig()
	cfg.Content.Root = *contentDir
	cfg.Storage.DSN = *dsn
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = *logFormat
	cfg.GitHub.Enabled = !*noGitHub
	cfg.GitHub.Timeout = *timeout
	cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")

	module, err := portfolio.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	var summary *portfolio.Summary
	handler := module.SyncHandler(func(s *portfolio.Summary) { summary = s })
	if err := handler.Execute(context.Background(), portfolio.SyncContentCommand{
		ContentRoot: *contentDir,
	}); err != nil {
		return fmt.Errorf("execute sync command: %w", err)
	}

	fmt.Printf("synced %d posts, %d projects (%d enriched), found %d pages, removed %d posts and %d projects\n",
		summary.PostsSynced,
		summary.ProjectsSynced,
		summary.ProjectsEnriched,
		summary.PagesFound,
		summary.PostsDeleted,
		summary.ProjectsDeleted,
	)
	return nil
}
