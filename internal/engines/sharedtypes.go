package engines

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/vcs"
)

var typeDeclRe = regexp.MustCompile(`(?m)^(?:export\s+)?(?:interface|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

var genericTypeNames = map[string]bool{
	"Props": true, "State": true, "Options": true, "Config": true,
	"Data": true, "Result": true, "Response": true, "Request": true,
}

const maxTypeNames = 5

var sourceExtGlobs = []string{"*.ts", "*.tsx", "*.js", "*.jsx", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx"}

// SharedTypes implements §4.3.3 Engine 7 (source type): finds files that
// reference a type/interface/enum this file declares.
func SharedTypes(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:type", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := sharedTypes(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func sharedTypes(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err != nil {
		return nil
	}

	names := extractTypeNames(source)
	if len(names) == 0 {
		return nil
	}

	sharedByFile := map[string]map[string]bool{}
	for _, name := range names {
		pattern := typeUsagePattern(name)
		candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{
			ExtendedRegex: true,
			Globs:         sourceExtGlobs,
		})
		if err != nil {
			continue
		}
		for _, cand := range candidates {
			if cand == targetPath || ac.Ignore.Match(cand) {
				continue
			}
			if sharedByFile[cand] == nil {
				sharedByFile[cand] = map[string]bool{}
			}
			sharedByFile[cand][name] = true
		}
	}

	var out []CoupledFile
	for file, types := range sharedByFile {
		score := min(65, 35+15*len(types))
		out = append(out, CoupledFile{
			Path:     file,
			Score:    score,
			Source:   SourceType,
			Reason:   "Shares type definitions with this file",
			Evidence: detail("Shared types: " + strings.Join(sortedKeys(types), ", ")),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	return capResults(out)
}

func extractTypeNames(source string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range typeDeclRe.FindAllStringSubmatch(source, -1) {
		name := m[1]
		if genericTypeNames[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) >= maxTypeNames {
			break
		}
	}
	return out
}

// typeUsagePattern matches an import of name, a type-annotation colon
// before it, generic brackets around it, or extends/implements referencing
// it.
func typeUsagePattern(name string) string {
	n := escapeRegex(name)
	return `(import\s*\{[^}]*\b` + n + `\b[^}]*\}|:\s*` + n + `\b|<` + n + `(\s*[,>]|\[)|extends\s+` + n + `\b|implements\s+` + n + `\b)`
}
