package git

import (
	"context"
	"os"
	"os/exec"
	"testing"
)

func TestRepoRootResolvesTopLevel(t *testing.T) {
	tmpDir := t.TempDir()
	if err := exec.Command("git", "init", tmpDir).Run(); err != nil {
		t.Skip("git not available")
	}

	nested := tmpDir + "/a/b"
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := RepoRoot(context.Background(), nested)
	if err != nil {
		t.Fatalf("RepoRoot() error = %v", err)
	}
	if root == "" {
		t.Fatal("expected non-empty repo root")
	}
}

func TestRepoRootErrorsOutsideRepository(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := RepoRoot(context.Background(), tmpDir); err == nil {
		t.Error("expected error outside a repository")
	}
}
