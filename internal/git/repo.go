// Package git resolves the repository root the analysis context is built
// from. The rest of the git-subprocess surface (log, grep, show) lives in
// internal/vcs, which every engine and the history-search package consume
// directly; this package is kept narrowly scoped to the one root-resolution
// concern the context factory needs before anything else can run.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// RepoRoot resolves the top-level directory of the repository containing
// startDir, per §4.2: this is the factory's mandatory first step, since
// every downstream probe is rooted there.
func RepoRoot(ctx context.Context, startDir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = startDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a repository: %w", err)
	}
	return filepath.Clean(strings.TrimSpace(string(output))), nil
}
