package engines

import (
	"context"
	"sort"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/vcs"
)

// Documentation implements §4.3.2 Engine 6 (source docs): finds markdown
// files that mention the target's exported identifiers.
func Documentation(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:docs", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := documentation(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func documentation(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err != nil {
		return nil
	}

	identifiers := ExtractExportedIdentifiers(source)
	if len(identifiers) == 0 {
		return nil
	}

	pattern := alternation(identifiers)
	candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{
		ExtendedRegex: true,
		IgnoreCase:    true,
		Globs:         []string{"*.md", "**/*.md"},
	})
	if err != nil || len(candidates) == 0 {
		return nil
	}

	var out []CoupledFile
	for _, cand := range candidates {
		if cand == targetPath || ac.Ignore.Match(cand) {
			continue
		}
		content, err := vcs.ReadFile(ctx, ac.RepoRoot, cand)
		if err != nil {
			continue
		}
		matched := wordBoundaryMatches(content, identifiers)
		if len(matched) == 0 {
			continue
		}
		score := min(70, 40+10*len(matched))
		out = append(out, CoupledFile{
			Path:     cand,
			Score:    score,
			Source:   SourceDocs,
			Reason:   "References this file's exported identifiers",
			Evidence: detail("Mentions " + strings.Join(matched, ", ")),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return capResults(out)
}

// alternation builds an extended-regex alternation over literal names,
// used by several engines to turn a candidate-name list into a single grep
// invocation instead of one per name.
func alternation(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "|"
		}
		out += "\\b" + escapeRegex(n) + "\\b"
	}
	return out
}

func escapeRegex(s string) string {
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
