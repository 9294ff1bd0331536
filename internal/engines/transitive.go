package engines

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/vcs"
)

const (
	barrelScore    = 60
	barrelImporter = 55
	maxBarrels     = 3
)

// Transitive implements §4.3.9 Engine 13 (source transitive): barrel files
// that re-export the target, and files that import via those barrels.
func Transitive(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:transitive", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := transitive(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func transitive(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	base := filepath.Base(targetPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	pattern := `export.*from.*` + escapeRegex(stem)
	barrels, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{ExtendedRegex: true})
	if err != nil || len(barrels) == 0 {
		return nil
	}

	var out []CoupledFile
	seen := map[string]bool{}
	count := 0
	for _, barrel := range barrels {
		if barrel == targetPath || ac.Ignore.Match(barrel) || seen[barrel] {
			continue
		}
		if count >= maxBarrels {
			break
		}
		seen[barrel] = true
		count++
		out = append(out, CoupledFile{
			Path:     barrel,
			Score:    barrelScore,
			Source:   SourceTransitive,
			Reason:   "Re-exports this file.",
			Evidence: detail("export ... from ... " + stem),
		})

		barrelBase := filepath.Base(barrel)
		barrelStem := strings.TrimSuffix(barrelBase, filepath.Ext(barrelBase))
		barrelDir := filepath.Dir(barrel)
		importerPattern := `(import|require|from).*['"][^'"]*(` + escapeRegex(barrelStem) + `|` + escapeRegex(barrelDir) + `)['"]`
		importers, err := vcs.GrepFiles(ctx, ac.RepoRoot, importerPattern, vcs.GrepOptions{ExtendedRegex: true})
		if err != nil {
			continue
		}
		for _, imp := range importers {
			if imp == targetPath || imp == barrel || ac.Ignore.Match(imp) || seen[imp] {
				continue
			}
			if len(out) >= maxResultsPerEngine {
				break
			}
			seen[imp] = true
			out = append(out, CoupledFile{
				Path:     imp,
				Score:    barrelImporter,
				Source:   SourceTransitive,
				Reason:   "Imports via " + barrel + ".",
				Evidence: detail(barrel),
			})
		}
	}

	return capResults(out)
}
