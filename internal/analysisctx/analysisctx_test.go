package analysisctx

import (
	"context"
	"os/exec"
	"testing"
)

func TestBuildFailsOutsideRepository(t *testing.T) {
	_, err := Build(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected error outside a repository")
	}
}

func TestBuildSucceedsInsideRepository(t *testing.T) {
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

	ac, err := Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ac.Config == nil {
		t.Fatal("expected configuration to be loaded")
	}
	if ac.Ignore == nil {
		t.Fatal("expected ignore filter to be compiled")
	}
	if ac.Thresholds.CouplingPercent == 0 {
		t.Fatal("expected adaptive thresholds to be computed")
	}
}
