package engines

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/diffsum"
	"github.com/byronwade/filerisk/internal/vcs"
)

const (
	minCommitsForCoupling = 3
	diffSnippetMaxChars   = 1000
)

type coChangeCandidate struct {
	count        int
	lastCommit   string
}

// CoChange implements §4.3.1 Engine 1 (source git).
func CoChange(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:cochange", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}

	result := coChange(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func coChange(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	commits, err := vcs.FileLog(ctx, ac.RepoRoot, targetPath, ac.Thresholds.Window)
	if err != nil || len(commits) < minCommitsForCoupling {
		return nil
	}

	targetBase := filepath.Base(targetPath)
	candidates := map[string]*coChangeCandidate{}

	for _, c := range commits {
		files, err := vcs.ChangedFiles(ctx, ac.RepoRoot, c.Hash)
		if err != nil {
			continue
		}
		if len(files) > ac.Config.Thresholds.MaxFilesPerCommit {
			continue
		}
		for _, f := range files {
			if filepath.Base(f) == targetBase {
				continue
			}
			if ac.Ignore.Match(f) {
				continue
			}
			cand, ok := candidates[f]
			if !ok {
				cand = &coChangeCandidate{}
				candidates[f] = cand
			}
			cand.count++
			if cand.lastCommit == "" {
				cand.lastCommit = c.Hash
			}
		}
	}

	type ranked struct {
		path string
		*coChangeCandidate
	}
	var all []ranked
	for p, c := range candidates {
		all = append(all, ranked{p, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].path < all[j].path
	})
	if len(all) > maxResultsPerEngine {
		all = all[:maxResultsPerEngine]
	}

	total := len(commits)
	var out []CoupledFile
	for _, r := range all {
		score := int(round(float64(r.count) / float64(total) * 100))
		if score < ac.Thresholds.CouplingPercent {
			continue
		}

		diffStr, err := vcs.ShowFileDiff(ctx, ac.RepoRoot, r.lastCommit, r.path, diffSnippetMaxChars)
		var evidence Evidence
		if err == nil {
			s := diffsum.Parse(diffStr)
			evidence.DiffSummary = &s
		}

		out = append(out, CoupledFile{
			Path:       r.path,
			Score:      score,
			Source:     SourceGit,
			Reason:     "Co-changed in commit history",
			Evidence:   evidence,
			CommitHash: r.lastCommit,
		})
	}
	return out
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}
