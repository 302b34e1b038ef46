// Command refresh-metadata re-fetches repository statistics for one stored
// project without running a full sync.
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

	if err := runRefresh(os.Args[1:]); err != nil {
		log.Fatalf("refresh-metadata: %v", err)
	}
}

func runRefresh(args []string) error {
	fs := flag.NewFlagSet("portfolio-refresh-metadata", flag.ExitOnError)
	slug := fs.String("slug", "", "Slug of the project to refresh")
	dsn := fs.String("db", "file:portfolio.db", "SQLite data source name")
	logLevel := fs.String("log-level", "info", "Log level (trace, debug, info, warn, error, fatal)")
	timeout := fs.Duration("timeout", 10*time.Second, "Timeout for the metadata lookup")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *slug == "" {
		return fmt.Errorf("slug is required")
	}

	cfg := portfolio.DefaultConfig()
	cfg.Storage.DSN = *dsn
	cfg.Logging.Level = *logLevel
	cfg.Logging.Format = "console"
	cfg.GitHub.Timeout = *timeout
	cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")

	module, err := portfolio.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	handler := module.RefreshMetadataHandler()
	if handler == nil {
		return fmt.Errorf("repository enrichment is disabled")
	}

	if err := handler.Execute(context.Background(), portfolio.RefreshProjectMetadataCommand{
		Slug: *slug,
	}); err != nil {
		return fmt.Errorf("execute refresh command: %w", err)
	}

	fmt.Printf("refreshed metadata for %s\n", *slug)
	return nil
}
