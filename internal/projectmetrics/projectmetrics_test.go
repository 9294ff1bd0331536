package projectmetrics

import (
	"context"
	"os/exec"
	"testing"
)

func TestDefaultFallback(t *testing.T) {
	d := Default()
	if d.TotalCommits != 0 || d.CommitsPerWeek != 10 || d.AvgFilesPerCommit != 3 {
		t.Fatalf("unexpected default: %+v", d)
	}
}

func TestProbeOnNonRepositoryReturnsDefault(t *testing.T) {
	m := Probe(context.Background(), t.TempDir())
	if m != Default() {
		t.Fatalf("expected default metrics outside a repository, got %+v", m)
	}
}

func TestProbeOnRealRepository(t *testing.T) {
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		_ = cmd.Run()
	}
	if err := exec.Command("git", "init", dir).Run(); err != nil {
		t.Skip("git not available")
	}
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test User")
	run("commit", "--allow-empty", "-m", "one")
	run("commit", "--allow-empty", "-m", "two")

	m := Probe(context.Background(), dir)
	if m.TotalCommits < 2 {
		t.Fatalf("expected at least 2 commits sampled, got %d", m.TotalCommits)
	}
}
