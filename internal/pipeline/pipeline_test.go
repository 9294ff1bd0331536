package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/byronwade/filerisk/internal/history"
)

func initRepo(t *testing.T) string {
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
	return dir
}

func commitFile(t *testing.T, dir, relPath, content, message string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	add := exec.Command("git", "add", relPath)
	add.Dir = dir
	require.NoError(t, add.Run())
	commit := exec.Command("git", "commit", "-m", message)
	commit.Dir = dir
	out, err := commit.CombinedOutput()
	require.NoErrorf(t, err, "commit failed: %s", out)
}

func TestAnalyzeRejectsRelativePath(t *testing.T) {
	_, err := Analyze(context.Background(), "relative/path.go")
	require.Error(t, err)
}

func TestAnalyzeAssemblesFullResult(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "billing.go", "package main\nfunc Charge() {}\n", "critical hotfix for billing crash")
	commitFile(t, dir, "billing_test.go", "package main\nfunc TestCharge(t *testing.T) {}\n", "add billing test")

	result, err := Analyze(context.Background(), filepath.Join(dir, "billing.go"))
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "billing.go", result.TargetPath)
	require.NotEmpty(t, result.RequestID)
	require.NotNil(t, result.Volatility)
	require.GreaterOrEqual(t, result.Risk.Score, 0)
	require.LessOrEqual(t, result.Risk.Score, 100)
	require.Contains(t, result.ThresholdsUsed, "couplingPercent")
}

func TestAnalyzeUsesSiblingGuidanceForNewFile(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "lib/userController.ts", "export function handleUser() {}\n", "add user controller")

	newFile := filepath.Join(dir, "lib", "orderController.ts")
	require.NoError(t, os.WriteFile(newFile, []byte("export function handleOrder() {}\n"), 0644))

	result, err := Analyze(context.Background(), newFile)
	require.NoError(t, err)
	require.Nil(t, result.Volatility)
	require.NotNil(t, result.SiblingGuidance)
}

func TestSearchHistoryRequiresQueryOrRange(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.go", "package main\n", "init")

	_, err := SearchHistory(context.Background(), dir, history.Options{})
	require.Error(t, err)
}

func TestSearchHistoryFindsCommitByMessage(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.go", "package main\n", "fix critical billing bug")

	result, err := SearchHistory(context.Background(), dir, history.Options{Query: "billing"})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	require.Equal(t, history.CommitBugfix, result.Entries[0].CommitType)
}
