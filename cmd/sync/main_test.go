package main

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-portfolio/pkg/testsupport"
)

func TestRunSyncEndToEnd(t *testing.T) {
	contentRoot := t.TempDir()
	if err := testsupport.WriteContentTree(contentRoot, map[string]string{
		"posts/2024-02-02-cli.md": "---\ntitle: CLI Post\n---\nbody.\n",
		"projects/tool.md":        "---\ntitle: Tool\n---\nt.\n",
	}); err != nil {
		t.Fatalf("write content: %v", err)
	}

	dsn := "file:" + filepath.Join(t.TempDir(), "portfolio.db")

	err := runSync([]string{
		"-content-dir", contentRoot,
		"-db", dsn,
		"-log-level", "error",
		"-no-github",
	})
	if err != nil {
		t.Fatalf("run sync: %v", err)
	}

	// A second pass over the same tree must also succeed (idempotent store).
	if err := runSync([]string{
		"-content-dir", contentRoot,
		"-db", dsn,
		"-log-level", "error",
		"-no-github",
	}); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestRunSyncMissingRoot(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "portfolio.db")

	err := runSync([]string{
		"-content-dir", filepath.Join(t.TempDir(), "missing"),
		"-db", dsn,
		"-no-github",
	})
	if err == nil {
		t.Fatal("expected error for missing content root")
	}
}
