// Package projectmetrics samples recent repository activity to drive the
// adaptive-thresholds calculation in §4.2. Grounded on the teacher's
// internal/git history helpers for git subprocess conventions and on the
// now-retired internal/metrics adaptive classifier for the shape of the
// derived fields.
package projectmetrics

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/byronwade/filerisk/internal/limiter"
)

const (
	sinceWindowDays  = 30
	maxSampledCommits = 500
	shaSampleSize     = 10
	shaSampleLimit    = 5
)

// Metrics is the set of derived fields §4.2 feeds into the adaptive
// threshold calculation.
type Metrics struct {
	TotalCommits     int
	CommitsPerWeek   float64
	AvgFilesPerCommit float64
}

// Default is the defensible fallback returned whenever the probe fails.
func Default() Metrics {
	return Metrics{TotalCommits: 0, CommitsPerWeek: 10, AvgFilesPerCommit: 3}
}

// Probe queries commits in the last thirty days (capped) and samples the
// first ten for changed-file counts, with at most five concurrent git
// invocations, per §4.2. Any failure anywhere in the probe yields Default().
func Probe(ctx context.Context, repoRoot string) Metrics {
	shas, err := recentCommitSHAs(ctx, repoRoot)
	if err != nil {
		return Default()
	}

	total := len(shas)
	if total == 0 {
		return Default()
	}

	sample := shas
	if len(sample) > shaSampleSize {
		sample = sample[:shaSampleSize]
	}

	counts, errs, err := limiter.Map(ctx, shaSampleLimit, sample, func(ctx context.Context, sha string) (int, error) {
		return changedFileCount(ctx, repoRoot, sha)
	})
	if err != nil {
		return Default()
	}

	sum, n := 0, 0
	for i, c := range counts {
		if errs[i] != nil {
			return Default()
		}
		sum += c
		n++
	}
	if n == 0 {
		return Default()
	}

	avgFiles := float64(sum) / float64(n)
	commitsPerWeek := float64(total) / (float64(sinceWindowDays) / 7.0)

	return Metrics{
		TotalCommits:      total,
		CommitsPerWeek:    commitsPerWeek,
		AvgFilesPerCommit: avgFiles,
	}
}

func recentCommitSHAs(ctx context.Context, repoRoot string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "log",
		"--since", strconv.Itoa(sinceWindowDays)+".days",
		"--max-count", strconv.Itoa(maxSampledCommits),
		"--format=%H")
	cmd.Dir = repoRoot

	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var shas []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			shas = append(shas, line)
		}
	}
	return shas, nil
}

func changedFileCount(ctx context.Context, repoRoot, sha string) (int, error) {
	cmd := exec.CommandContext(ctx, "git", "show", "--name-only", "--format=", sha)
	cmd.Dir = repoRoot

	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count, nil
}
