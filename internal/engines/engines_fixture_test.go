package engines

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

func writeFile(t *testing.T, ac *analysisctx.Context, relPath, content string) {
	t.Helper()
	full := filepath.Join(ac.RepoRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
