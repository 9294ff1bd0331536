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

var stringLiteralRe = regexp.MustCompile(`["']([^"'\n]{15,80})["']`)

var (
	localURLRe     = regexp.MustCompile(`(?i)^(https?://)?(localhost|127\.0\.0\.1|0\.0\.0\.0)`)
	kebabOnlyRe    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)
	digitsOnlyRe   = regexp.MustCompile(`^[0-9]+$`)
	relativePathRe = regexp.MustCompile(`^\.{1,2}/[A-Za-z0-9_./-]*$`)

	errorVocabRe    = regexp.MustCompile(`(?i)\b(error|failed|invalid|exception|unable to|could not)\b`)
	apiPathPrefixRe = regexp.MustCompile(`^/(api|v[0-9]+)/`)
	templateMarkRe  = regexp.MustCompile(`%[sdifv]|\$\{|\{\{`)
)

const maxContentLiterals = 5

// Content implements §4.3.4 Engine 8 (source content): candidate strings
// carried by this file, cross-referenced by exact text elsewhere.
func Content(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:content", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := content(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func content(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err != nil {
		return nil
	}

	literals := extractContentLiterals(source)
	if len(literals) == 0 {
		return nil
	}

	sharedByFile := map[string]int{}
	vocabByFile := map[string]string{}
	literalByFile := map[string]string{}
	for _, lit := range literals {
		candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, lit, vcs.GrepOptions{FixedString: true})
		if err != nil {
			continue
		}
		for _, cand := range candidates {
			if cand == targetPath || ac.Ignore.Match(cand) {
				continue
			}
			sharedByFile[cand]++
			if vocabByFile[cand] == "" {
				vocabByFile[cand] = classifyContentVocabulary(lit)
				literalByFile[cand] = lit
			}
		}
	}

	var out []CoupledFile
	for file, shared := range sharedByFile {
		score := min(50, 25+10*shared)
		out = append(out, CoupledFile{
			Path:     file,
			Score:    score,
			Source:   SourceContent,
			Reason:   "Shares " + vocabByFile[file] + " literal content with this file",
			Evidence: detail(literalByFile[file]),
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

func extractContentLiterals(source string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range stringLiteralRe.FindAllStringSubmatch(source, -1) {
		lit := m[1]
		if !keepContentLiteral(lit) || seen[lit] {
			continue
		}
		seen[lit] = true
		out = append(out, lit)
		if len(out) >= maxContentLiterals {
			break
		}
	}
	return out
}

// keepContentLiteral implements the aggressive filter of §4.3.4: drop noise
// (local URLs, whitespace, CSS-like kebab tokens, pure digits, simple
// relative paths), keep anything matching error vocabulary, an API path
// prefix, template/printf markers, or long descriptive prose.
func keepContentLiteral(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if localURLRe.MatchString(s) || kebabOnlyRe.MatchString(s) || digitsOnlyRe.MatchString(s) || relativePathRe.MatchString(s) {
		return false
	}
	if errorVocabRe.MatchString(s) || apiPathPrefixRe.MatchString(s) || templateMarkRe.MatchString(s) {
		return true
	}
	return len(s) > 40 && strings.Contains(s, " ")
}

// classifyContentVocabulary labels a shared string's match as error,
// endpoint, or content, for rendering purposes.
func classifyContentVocabulary(s string) string {
	switch {
	case errorVocabRe.MatchString(s):
		return "error"
	case apiPathPrefixRe.MatchString(s):
		return "endpoint"
	default:
		return "content"
	}
}
