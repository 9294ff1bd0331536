// Package importers implements §4.6's static-importer engine: a text
// search for files that reference the target by its basename in an
// import/from/require statement.
package importers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/engines"
	"github.com/byronwade/filerisk/internal/vcs"
)

// Detect returns the deduplicated list of files statically importing
// targetPath, normalised per §4.6: the target itself, ignored files, and
// (when the target is itself a test file) other test files are dropped.
func Detect(ctx context.Context, ac *analysisctx.Context, targetPath string) []string {
	key := cache.Key("importers", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]string)
	}
	result := detect(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func detect(ctx context.Context, ac *analysisctx.Context, targetPath string) []string {
	base := filepath.Base(targetPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	pattern := escapeForFormat(stem)
	candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{ExtendedRegex: true})
	if err != nil {
		return nil
	}

	targetIsTest := engines.IsTestFile(targetPath)

	seen := map[string]bool{}
	var out []string
	for _, cand := range candidates {
		if cand == targetPath || filepath.Base(cand) == base {
			continue
		}
		if ac.Ignore.Match(cand) {
			continue
		}
		if targetIsTest && engines.IsTestFile(cand) {
			continue
		}
		if seen[cand] {
			continue
		}
		seen[cand] = true
		out = append(out, cand)
	}
	return out
}

func escapeForFormat(stem string) string {
	return "(import|from|require)" + `.{0,80}` + regexpQuote(stem)
}

func regexpQuote(s string) string {
	special := `\.+*?()|[]{}^$`
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		for j := 0; j < len(special); j++ {
			if c == special[j] {
				b = append(b, '\\')
				break
			}
		}
		b = append(b, c)
	}
	return string(b)
}
