// Package di assembles the portfolio runtime: storage, logging, the metadata
// client, repositories, the reconciliation engine and command handlers.
package di

import (
	"context"
	"fmt"
	"sync"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	contentcmd "github.com/goliatone/go-portfolio/internal/commands/content"
	projectscmd "github.com/goliatone/go-portfolio/internal/commands/projects"
	"github.com/goliatone/go-portfolio/internal/github"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/logging/gologger"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/projects"
	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
	"github.com/goliatone/go-portfolio/internal/storage"
	syncengine "github.com/goliatone/go-portfolio/internal/sync"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Container owns the wired runtime collaborators.
type Container struct {
	Config runtimeconfig.Config

	mu             sync.Mutex
	db             *bun.DB
	ownsDB         bool
	loggerProvider interfaces.LoggerProvider
	postRepo       *posts.BunPostRepository
	projectRepo    *projects.BunProjectRepository
	githubClient   *github.Client
	renderer       *markdown.Renderer
	engine         *syncengine.Engine
}

// Option overrides a container collaborator before wiring completes.
type Option func(*Container)

// WithBunDB supplies an externally managed database handle. The container
// will not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.db = db
		c.ownsDB = false
	}
}

// WithLoggerProvider replaces the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRenderer replaces the default goldmark renderer.
func WithRenderer(renderer *markdown.Renderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// NewContainer validates the configuration and wires the runtime.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := buildLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if c.db == nil {
		db, err := storage.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		c.db = db
		c.ownsDB = true
	} else {
		storage.RegisterModels(c.db)
	}

	if cfg.Storage.RunMigrations {
		if err := storage.Migrate(context.Background(), c.db); err != nil {
			if c.ownsDB {
				_ = c.db.Close()
			}
			return nil, err
		}
	}

	var cacheService repocache.CacheService
	var keySerializer repocache.KeySerializer
	if cfg.Cache.Enabled {
		cacheCfg := repocache.DefaultConfig()
		if cfg.Cache.TTL > 0 {
			cacheCfg.TTL = cfg.Cache.TTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			if c.ownsDB {
				_ = c.db.Close()
			}
			return nil, fmt.Errorf("build repository cache: %w", err)
		}
		cacheService = service
		keySerializer = repocache.NewDefaultKeySerializer()
	}

	c.postRepo = posts.NewBunPostRepositoryWithCache(c.db, cacheService, keySerializer)
	c.projectRepo = projects.NewBunProjectRepositoryWithCache(c.db, cacheService, keySerializer)

	if cfg.GitHub.Enabled {
		c.githubClient = github.NewClient(github.Config{
			Token:   cfg.GitHub.Token,
			Timeout: cfg.GitHub.Timeout,
			BaseURL: cfg.GitHub.BaseURL,
			Logger:  logging.GitHubLogger(c.loggerProvider),
		})
	}

	if c.renderer == nil {
		c.renderer = markdown.NewRenderer()
	}

	engineCfg := syncengine.Config{
		Posts:    c.postRepo,
		Projects: c.projectRepo,
		Renderer: c.renderer,
		Logger:   logging.SyncLogger(c.loggerProvider),
	}
	if c.githubClient != nil {
		engineCfg.Metadata = c.githubClient
	}
	engine, err := syncengine.New(engineCfg)
	if err != nil {
		if c.ownsDB {
			_ = c.db.Close()
		}
		return nil, err
	}
	c.engine = engine

	return c, nil
}

func buildLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch cfg.Provider {
	case "", "noop":
		return noopProvider{}, nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

// DB exposes the database handle for host integrations.
func (c *Container) DB() *bun.DB {
	return c.db
}

// LoggerProvider exposes the logger provider used by the runtime.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// PostRepository returns the durable post store.
func (c *Container) PostRepository() *posts.BunPostRepository {
	return c.postRepo
}

// ProjectRepository returns the durable project store.
func (c *Container) ProjectRepository() *projects.BunProjectRepository {
	return c.projectRepo
}

// GitHubClient returns the metadata client, or nil when enrichment is
// disabled.
func (c *Container) GitHubClient() *github.Client {
	return c.githubClient
}

// Renderer returns the shared markdown renderer.
func (c *Container) Renderer() *markdown.Renderer {
	return c.renderer
}

// SyncEngine returns the reconciliation engine.
func (c *Container) SyncEngine() *syncengine.Engine {
	return c.engine
}

// SyncContentHandler builds the dispatchable sync command handler.
func (c *Container) SyncContentHandler(onComplete func(*syncengine.Summary)) *contentcmd.SyncContentHandler {
	return contentcmd.NewSyncContentHandler(
		c.engine,
		logging.SyncLogger(c.loggerProvider),
		onComplete,
	)
}

// RefreshProjectMetadataHandler builds the metadata refresh command handler.
// Returns nil when enrichment is disabled.
func (c *Container) RefreshProjectMetadataHandler() *projectscmd.RefreshProjectMetadataHandler {
	if c.githubClient == nil {
		return nil
	}
	return projectscmd.NewRefreshProjectMetadataHandler(
		c.projectRepo,
		c.githubClient,
		logging.ContentLogger(c.loggerProvider),
	)
}

// Close releases resources the container owns.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ownsDB && c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}
