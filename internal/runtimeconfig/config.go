// Package runtimeconfig holds the module-level configuration surface and its
// consistency checks.
package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrStorageDSNRequired indicates the database location is missing.
var ErrStorageDSNRequired = errors.New("portfolio config: storage DSN is required")

// ErrContentRootRequired indicates no content directory was configured.
var ErrContentRootRequired = errors.New("portfolio config: content root is required")

var ErrLoggingProviderUnknown = errors.New("portfolio config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("portfolio config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("portfolio config: logging format is invalid")
var ErrGitHubTimeoutInvalid = errors.New("portfolio config: github timeout must be zero or positive")

// Config is the top level module configuration.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Content ContentConfig `json:"content"`
	GitHub  GitHubConfig  `json:"github"`
	Cache   CacheConfig   `json:"cache"`
	Logging LoggingConfig `json:"logging"`
}

// StorageConfig locates the durable store.
type StorageConfig struct {
	// DSN is a SQLite data source name, e.g. file:portfolio.db.
	DSN string `json:"dsn"`
	// RunMigrations creates missing tables during module construction.
	RunMigrations bool `json:"run_migrations"`
}

// ContentConfig locates the Markdown tree.
type ContentConfig struct {
	// Root is the directory holding posts/, projects/ and pages/.
	Root string `json:"root"`
}

// GitHubConfig controls best-effort repository enrichment.
type GitHubConfig struct {
	// Enabled toggles metadata lookups entirely.
	Enabled bool `json:"enabled"`
	// Token is attached as a bearer credential when non-empty.
	Token string `json:"token"`
	// Timeout bounds each lookup request.
	Timeout time.Duration `json:"timeout"`
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string `json:"base_url"`
}

// CacheConfig toggles the repository read cache.
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	TTL     time.Duration `json:"ttl"`
}

// LoggingConfig selects and tunes the logger provider.
type LoggingConfig struct {
	Provider  string `json:"provider"`
	Level     string `json:"level"`
	Format    string `json:"format"`
	AddSource bool   `json:"add_source"`
}

// DefaultConfig returns the baseline configuration hosts amend.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			DSN:           "file:portfolio.db",
			RunMigrations: true,
		},
		Content: ContentConfig{
			Root: "content",
		},
		GitHub: GitHubConfig{
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if strings.TrimSpace(cfg.Content.Root) == "" {
		return ErrContentRootRequired
	}
	if cfg.GitHub.Timeout < 0 {
		return ErrGitHubTimeoutInvalid
	}
	if provider := normalizeToken(cfg.Logging.Provider); provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalizeToken(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := normalizeToken(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
