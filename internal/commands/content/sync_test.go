package contentcmd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-portfolio/internal/commands"
	contentcmd "github.com/goliatone/go-portfolio/internal/commands/content"
	"github.com/goliatone/go-portfolio/internal/sync"
)

type stubRunner struct {
	summary *sync.Summary
	err     error
	roots   []string
}

func (s *stubRunner) Run(_ context.Context, root string) (*sync.Summary, error) {
	s.roots = append(s.roots, root)
	return s.summary, s.err
}

func TestSyncContentHandler_Execute(t *testing.T) {
	runner := &stubRunner{summary: &sync.Summary{PostsSynced: 3}}

	var got *sync.Summary
	h := contentcmd.NewSyncContentHandler(runner, nil, func(s *sync.Summary) {
		got = s
	})

	err := h.Execute(context.Background(), contentcmd.SyncContentCommand{ContentRoot: "/srv/content"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(runner.roots) != 1 || runner.roots[0] != "/srv/content" {
		t.Fatalf("unexpected runner calls: %v", runner.roots)
	}
	if got == nil || got.PostsSynced != 3 {
		t.Fatalf("expected summary via callback, got %+v", got)
	}
}

func TestSyncContentHandler_ValidationRequiresRoot(t *testing.T) {
	runner := &stubRunner{}
	h := contentcmd.NewSyncContentHandler(runner, nil, nil)

	err := h.Execute(context.Background(), contentcmd.SyncContentCommand{})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(runner.roots) != 0 {
		t.Fatal("runner must not execute on validation failure")
	}
}

type deadlineRunner struct {
	hasDeadline bool
}

func (d *deadlineRunner) Run(ctx context.Context, _ string) (*sync.Summary, error) {
	_, d.hasDeadline = ctx.Deadline()
	return &sync.Summary{}, nil
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, _ string) (*sync.Summary, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// Large content trees with slow enrichment can legitimately run for minutes,
// so the handler must not impose a deadline of its own.
func TestSyncContentHandler_RunIsNotTimeBounded(t *testing.T) {
	runner := &deadlineRunner{}
	h := contentcmd.NewSyncContentHandler(runner, nil, nil)

	err := h.Execute(context.Background(), contentcmd.SyncContentCommand{ContentRoot: "/srv/content"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if runner.hasDeadline {
		t.Fatal("sync run must not carry an execution deadline by default")
	}
}

func TestSyncContentHandler_ExplicitTimeoutStillBounds(t *testing.T) {
	h := contentcmd.NewSyncContentHandler(blockingRunner{}, nil, nil,
		commands.WithTimeout[contentcmd.SyncContentCommand](10*time.Millisecond))

	err := h.Execute(context.Background(), contentcmd.SyncContentCommand{ContentRoot: "/srv/content"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSyncContentHandler_EngineErrorTagged(t *testing.T) {
	runErr := errors.New("engine down")
	runner := &stubRunner{err: runErr}
	h := contentcmd.NewSyncContentHandler(runner, nil, nil)

	err := h.Execute(context.Background(), contentcmd.SyncContentCommand{ContentRoot: "/srv/content"})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, runErr) {
		t.Fatalf("expected engine error retained, got %v", err)
	}
}
