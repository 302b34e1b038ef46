package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("portfolio.test")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("expected logger to implement interfaces.FieldsLogger")
	}

	child := fl.WithFields(map[string]any{"module": "portfolio.test"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	// Ensure chained operations do not panic.
	child.Debug("adapter.initialised")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty", "PRETTY "} {
		if _, err := NewProvider(Config{Format: format}); err != nil {
			t.Fatalf("format %q: unexpected error %v", format, err)
		}
	}

	if _, err := NewProvider(Config{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"trace", glog.Trace},
		{"debug", glog.Debug},
		{"info", glog.Info},
		{"INFO", glog.Info},
		{" warn ", glog.Warn},
		{"warning", glog.Warn},
		{"error", glog.Error},
		{"fatal", glog.Fatal},
		{"verbose", ""},
	}

	for _, tc := range tests {
		if got := normalizeLevel(tc.in); got != tc.want {
			t.Fatalf("normalizeLevel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeFocus(t *testing.T) {
	got := normalizeFocus([]string{" portfolio.sync ", "", "  ", "portfolio.github"})
	want := []string{"portfolio.sync", "portfolio.github"}
	if len(got) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("name %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fl, ok := adapted.(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("expected adapter to implement interfaces.FieldsLogger")
	}

	fields := map[string]any{"entity": "post"}
	child := fl.WithFields(fields)
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["entity"] = "project"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["entity"] != "post" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["entity"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

func TestAdapterWithFieldsEmptyReturnsSame(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	fl, ok := adapted.(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("expected adapter to implement interfaces.FieldsLogger")
	}

	if got := fl.WithFields(nil); got != adapted {
		t.Fatal("expected nil fields to return the same logger")
	}
	if len(stub.fields) != 0 {
		t.Fatalf("expected no delegation for empty fields, got %d", len(stub.fields))
	}
}

func TestGetLoggerOnNilProviderFallsBack(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("portfolio.sync")
	if logger == nil {
		t.Fatal("expected no-op logger, got nil")
	}
	logger.Info("sync.noop")
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
