package importers

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/byronwade/filerisk/internal/analysisctx"
)

func initContext(t *testing.T) *analysisctx.Context {
	t.Helper()
	dir := t.TempDir()
	if err := exec.Command("git", "init", dir).Run(); err != nil {
		t.Skip("git not available")
	}
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		_ = cmd.Run()
	}
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test User")
	run("commit", "--allow-empty", "-m", "initial")

	ac, err := analysisctx.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ac
}

func TestDetectFindsStaticImporter(t *testing.T) {
	ac := initContext(t)

	if err := os.WriteFile(filepath.Join(ac.RepoRoot, "widget.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(ac.RepoRoot, "app.js"), []byte("import widget from './widget'\n"), 0644); err != nil {
		t.Fatal(err)
	}

	importers := Detect(context.Background(), ac, "widget.go")
	if len(importers) != 1 || importers[0] != "app.js" {
		t.Fatalf("expected [app.js], got %v", importers)
	}
}

func TestDetectExcludesSelf(t *testing.T) {
	ac := initContext(t)
	if err := os.WriteFile(filepath.Join(ac.RepoRoot, "lonely.go"), []byte("package main\n// lonely has no mentions\n"), 0644); err != nil {
		t.Fatal(err)
	}

	importers := Detect(context.Background(), ac, "lonely.go")
	if len(importers) != 0 {
		t.Fatalf("expected no importers, got %v", importers)
	}
}
