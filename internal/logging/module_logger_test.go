package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

type recordingLogger struct {
	fields map[string]any
	infos  []string
}

func (l *recordingLogger) Trace(string, ...any)      {}
func (l *recordingLogger) Debug(string, ...any)      {}
func (l *recordingLogger) Info(msg string, _ ...any) { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(string, ...any)       {}
func (l *recordingLogger) Error(string, ...any)      {}
func (l *recordingLogger) Fatal(string, ...any)      {}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &recordingLogger{fields: merged}
}

type recordingProvider struct {
	names []string
	last  *recordingLogger
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	p.names = append(p.names, name)
	p.last = &recordingLogger{}
	return p.last
}

func TestModuleLoggerScopesByName(t *testing.T) {
	provider := &recordingProvider{}

	logger := SyncLogger(provider)
	if logger == nil {
		t.Fatal("expected logger")
	}
	if len(provider.names) != 1 || provider.names[0] != "portfolio.sync" {
		t.Fatalf("unexpected logger names: %v", provider.names)
	}

	rec, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected fields-applied recording logger, got %T", logger)
	}
	if rec.fields["module"] != "portfolio.sync" {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerNilProviderFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "anything")
	if logger == nil {
		t.Fatal("expected a usable logger")
	}
	// Must not panic.
	logger.Info("dropped")
	logger.Warn("dropped", "k", "v")
}

func TestWithFieldsHandlesNoOpAndNil(t *testing.T) {
	base := NoOp()
	got := WithFields(base, map[string]any{"k": "v"})
	if got == nil {
		t.Fatal("expected logger back")
	}

	if got := WithFields(nil, map[string]any{"k": "v"}); got != nil {
		t.Fatalf("expected nil passthrough, got %T", got)
	}
}
