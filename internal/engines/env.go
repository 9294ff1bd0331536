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

var envTokenRe = regexp.MustCompile(`\b[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+\b`)

var envProtocolPrefixes = []string{
	"HTTP_", "HTML_", "CSS_", "JSON_", "XML_", "UTF_", "CONTENT_TYPE", "STATUS_",
}

var envKnownPrefixes = []string{
	"API_", "DATABASE_", "DB_", "STRIPE_", "AUTH_", "JWT_", "AWS_", "GOOGLE_",
	"GITHUB_", "REDIS_", "MONGO_", "POSTGRES_", "MYSQL_", "SECRET_", "PRIVATE_",
	"PUBLIC_", "NEXT_", "VITE_", "REACT_APP_", "VUE_APP_",
}

var envKnownSuffixes = []string{
	"_KEY", "_SECRET", "_TOKEN", "_URL", "_URI", "_HOST", "_PORT", "_PASSWORD",
}

const (
	maxEnvTokens          = 10
	maxEnvCandidateFiles  = 20
)

// Environment implements §4.3.6 Engine 10 (source env).
func Environment(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:env", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := environment(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func environment(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err != nil {
		return nil
	}

	tokens := extractEnvTokens(source)
	if len(tokens) == 0 {
		return nil
	}

	pattern := alternation(tokens)
	candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{ExtendedRegex: true})
	if err != nil || len(candidates) == 0 {
		return nil
	}
	if len(candidates) > maxEnvCandidateFiles {
		candidates = candidates[:maxEnvCandidateFiles]
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
		matched := wordBoundaryMatches(content, tokens)
		if len(matched) == 0 {
			continue
		}
		score := min(75, 40+10*len(matched))
		out = append(out, CoupledFile{
			Path:     cand,
			Score:    score,
			Source:   SourceEnv,
			Reason:   "Shares environment-variable references with this file",
			Evidence: detail(strings.Join(matched, ", ")),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return capResults(out)
}

func extractEnvTokens(source string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range envTokenRe.FindAllString(source, -1) {
		if seen[tok] || !isEnvCandidate(tok) {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
		if len(out) >= maxEnvTokens {
			break
		}
	}
	return out
}

func isEnvCandidate(tok string) bool {
	for _, p := range envProtocolPrefixes {
		if strings.HasPrefix(tok, p) {
			return false
		}
	}
	for _, p := range envKnownPrefixes {
		if strings.HasPrefix(tok, p) {
			return true
		}
	}
	for _, s := range envKnownSuffixes {
		if strings.HasSuffix(tok, s) {
			return true
		}
	}
	return false
}
