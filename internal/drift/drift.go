// Package drift implements §4.5: on-disk modification-time skew of
// co-changed files relative to the target, computed after the co-change
// engine (its only input) has run.
package drift

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/engines"
	"github.com/byronwade/filerisk/internal/limiter"
)

const statConcurrency = 5

// Alert is §3's Drift alert: (file, days-of-skew) pair.
type Alert struct {
	Path string
	Days int
}

// Detect stats targetPath and every git-coupled file concurrently and
// emits an alert wherever the sibling's mtime lags the target's by more
// than the adaptive drift-days threshold. Missing siblings are skipped
// silently, per §4.5.
func Detect(ctx context.Context, ac *analysisctx.Context, targetPath string, coChanged []engines.CoupledFile) []Alert {
	targetInfo, err := os.Stat(filepath.Join(ac.RepoRoot, targetPath))
	if err != nil || len(coChanged) == 0 {
		return nil
	}
	targetModTime := targetInfo.ModTime()

	results, errs, _ := limiter.Map(ctx, statConcurrency, coChanged, func(_ context.Context, cf engines.CoupledFile) (os.FileInfo, error) {
		return os.Stat(filepath.Join(ac.RepoRoot, cf.Path))
	})

	var alerts []Alert
	for i, info := range results {
		if errs[i] != nil {
			continue // missing sibling: skip silently
		}
		daysDiff := int(math.Floor(targetModTime.Sub(info.ModTime()).Hours() / 24))
		if daysDiff > ac.Thresholds.DriftDays {
			alerts = append(alerts, Alert{Path: coChanged[i].Path, Days: daysDiff})
		}
	}
	return alerts
}
