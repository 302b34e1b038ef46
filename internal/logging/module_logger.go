package logging

import (
	"context"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	rootModule     = "portfolio"
	contentModule  = "portfolio.content"
	markdownModule = "portfolio.markdown"
	syncModule     = "portfolio.sync"
	githubModule   = "portfolio.github"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for the durable store.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown loading.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// SyncLogger returns the logger namespace reserved for the reconciliation engine.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// GitHubLogger returns the logger namespace reserved for repository metadata lookups.
func GitHubLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, githubModule)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
