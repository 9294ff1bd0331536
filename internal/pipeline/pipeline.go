// Package pipeline implements §8's two tool operations, Analyze and
// SearchHistory, fanning the eleven concurrent coupling/volatility/importer
// tasks out over one analysis context and assembling their results into a
// single report. Grounded on the teacher's internal/analysis/phase0 staged
// fan-out and internal/risk/calculator.go result-assembly idiom.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/drift"
	"github.com/byronwade/filerisk/internal/engines"
	fierrors "github.com/byronwade/filerisk/internal/errors"
	"github.com/byronwade/filerisk/internal/history"
	"github.com/byronwade/filerisk/internal/importers"
	"github.com/byronwade/filerisk/internal/merge"
	"github.com/byronwade/filerisk/internal/riskscore"
	"github.com/byronwade/filerisk/internal/sibling"
	"github.com/byronwade/filerisk/internal/volatility"
)

// AnalysisResult is §3's top-level Analysis result record.
type AnalysisResult struct {
	RequestID        string
	TargetPath       string
	RepoRoot         string
	Risk             riskscore.Assessment
	CoupledFiles     []engines.CoupledFile
	DriftAlerts      []drift.Alert
	Volatility       *volatility.Result
	SiblingGuidance  *sibling.Guidance
	StaticImporters  []string
	ThresholdsUsed   map[string]int
	DurationMillis   int64
}

// HistorySearchResult is §3's History-search result wrapper.
type HistorySearchResult struct {
	RequestID string
	Entries   []history.Entry
}

// Analyze implements §8's analyse-file operation: it resolves the analysis
// context, fans out to all eleven concurrent tasks, runs drift after
// co-change, and merges the evidence into one ranked, risk-scored result.
//
// path must be an absolute path to an existing file inside a git repository;
// any other condition yields an Input or Environment error per §9.
func Analyze(ctx context.Context, path string) (*AnalysisResult, error) {
	start := time.Now()

	if !filepath.IsAbs(path) {
		return nil, fierrors.NewInputError("path must be absolute; retry with an absolute path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fierrors.NewInputError("path does not exist; retry with an absolute path to an existing file")
	}

	ac, err := analysisctx.Build(ctx, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	targetPath, err := filepath.Rel(ac.RepoRoot, path)
	if err != nil {
		return nil, fierrors.NewInputError("path must be absolute; retry with an absolute path")
	}

	g, gctx := errgroup.WithContext(ctx)

	var vol volatility.Result
	var coChanged, docsR, typeR, contentR, testR, envR, schemaR, apiR, transitiveR []engines.CoupledFile
	var staticImporters []string

	g.Go(func() error { vol = volatility.Analyze(gctx, ac, targetPath, start); return nil })
	g.Go(func() error { coChanged = engines.CoChange(gctx, ac, targetPath); return nil })
	g.Go(func() error { staticImporters = importers.Detect(gctx, ac, targetPath); return nil })
	g.Go(func() error { docsR = engines.Documentation(gctx, ac, targetPath); return nil })
	g.Go(func() error { typeR = engines.SharedTypes(gctx, ac, targetPath); return nil })
	g.Go(func() error { contentR = engines.Content(gctx, ac, targetPath); return nil })
	g.Go(func() error { testR = engines.Tests(gctx, ac, targetPath); return nil })
	g.Go(func() error { envR = engines.Environment(gctx, ac, targetPath); return nil })
	g.Go(func() error { schemaR = engines.Schema(gctx, ac, targetPath); return nil })
	g.Go(func() error { apiR = engines.APIEndpoints(gctx, ac, targetPath); return nil })
	g.Go(func() error { transitiveR = engines.Transitive(gctx, ac, targetPath); return nil })

	// No branch above returns an error: §4.10 requires every engine to
	// swallow its own failures, so Wait only propagates cancellation.
	_ = g.Wait()

	driftAlerts := drift.Detect(ctx, ac, targetPath, coChanged)

	merged := merge.Merge(merge.EngineResults{
		engines.SourceGit:        coChanged,
		engines.SourceTest:       testR,
		engines.SourceAPI:        apiR,
		engines.SourceSchema:     schemaR,
		engines.SourceEnv:        envR,
		engines.SourceDocs:       docsR,
		engines.SourceType:       typeR,
		engines.SourceTransitive: transitiveR,
		engines.SourceContent:    contentR,
	})

	topScores := topCouplingScores(merged)
	risk := riskscore.Compute(riskscore.Inputs{
		PanicScore:        vol.PanicScore,
		TopCouplingScores: topScores,
		StaleCount:        len(driftAlerts),
		ImporterCount:     len(staticImporters),
		CommitCount:       vol.CommitCount,
		Weights:           ac.Config.Weights,
	})

	result := &AnalysisResult{
		RequestID:       ac.RequestID,
		TargetPath:      targetPath,
		RepoRoot:        ac.RepoRoot,
		Risk:            risk,
		CoupledFiles:    merged,
		DriftAlerts:     driftAlerts,
		StaticImporters: staticImporters,
		ThresholdsUsed: map[string]int{
			"couplingPercent":   ac.Thresholds.CouplingPercent,
			"driftDays":         ac.Thresholds.DriftDays,
			"window":            ac.Thresholds.Window,
			"maxFilesPerCommit": ac.Thresholds.MaxFilesPerCommit,
		},
		DurationMillis: time.Since(start).Milliseconds(),
	}

	if vol.CommitCount == 0 {
		guidance := sibling.Analyze(ctx, ac, targetPath)
		result.SiblingGuidance = &guidance
	} else {
		result.Volatility = &vol
	}

	if ac.Log != nil {
		ac.Log.Info("analysis complete", "target", targetPath, "risk_score", risk.Score, "duration_ms", result.DurationMillis)
	}

	return result, nil
}

func topCouplingScores(merged []engines.CoupledFile) []int {
	n := len(merged)
	if n > 3 {
		n = 3
	}
	scores := make([]int, n)
	for i := 0; i < n; i++ {
		scores[i] = merged[i].Score
	}
	return scores
}

// SearchHistory implements §8's search-history operation.
func SearchHistory(ctx context.Context, repoPath string, opts history.Options) (*HistorySearchResult, error) {
	lineRange := opts.StartLine > 0 || opts.EndLine > 0
	if opts.Query == "" && !lineRange {
		return nil, fierrors.NewInputError("query is required unless a line range is supplied")
	}
	if lineRange && opts.Path == "" {
		return nil, fierrors.NewInputError("path is required for a line-range search")
	}
	if lineRange && opts.EndLine < opts.StartLine {
		return nil, fierrors.NewInputError("invalid line range: end must not be before start")
	}

	ac, err := analysisctx.Build(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	result := history.Search(ctx, ac, opts)
	return &HistorySearchResult{RequestID: ac.RequestID, Entries: result.Entries}, nil
}
