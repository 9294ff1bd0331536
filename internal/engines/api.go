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

// apiGateRe gates engine 12: the target must itself define routes (a
// method-call route, a decorator route, router/app registration, or a
// Next-style named HTTP export).
var apiGateRe = regexp.MustCompile(`(?i)(router\.(get|post|put|delete|patch)\(|app\.(get|post|put|delete|patch)\(|@(route|get|post|put|delete|patch)mapping|export\s+(async\s+)?function\s+(GET|POST|PUT|DELETE|PATCH)\b)`)

var endpointPathRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:router|app)\.(?:get|post|put|delete|patch)\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)@(?:route|get|post|put|delete|patch)mapping\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)export\s+(?:async\s+)?function\s+(?:GET|POST|PUT|DELETE|PATCH)\b`),
}

var dynamicSegmentRe = regexp.MustCompile(`:[A-Za-z_][A-Za-z0-9_]*`)

const maxEndpoints = 10
const minEndpointLen = 2

// APIEndpoints implements §4.3.8 Engine 12 (source api).
func APIEndpoints(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:api", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := apiEndpoints(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func apiEndpoints(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err != nil || !apiGateRe.MatchString(source) {
		return nil
	}

	endpoints := extractEndpoints(source)
	if len(endpoints) == 0 {
		return nil
	}

	sharedByFile := map[string]map[string]bool{}
	for _, ep := range endpoints {
		candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, ep, vcs.GrepOptions{FixedString: true})
		if err != nil {
			continue
		}
		for _, cand := range candidates {
			if cand == targetPath || ac.Ignore.Match(cand) {
				continue
			}
			// Suppress server-to-server false pairing: a candidate that is
			// itself a route-definition file is not evidence this file's
			// caller needs updating.
			candSource, err := vcs.ReadFile(ctx, ac.RepoRoot, cand)
			if err == nil && apiGateRe.MatchString(candSource) {
				continue
			}
			if sharedByFile[cand] == nil {
				sharedByFile[cand] = map[string]bool{}
			}
			sharedByFile[cand][ep] = true
		}
	}

	var out []CoupledFile
	for file, shared := range sharedByFile {
		score := min(85, 50+12*len(shared))
		out = append(out, CoupledFile{
			Path:     file,
			Score:    score,
			Source:   SourceAPI,
			Reason:   "Calls an endpoint this file defines",
			Evidence: detail(strings.Join(sortedKeys(shared), ", ")),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return capResults(out)
}

func extractEndpoints(source string) []string {
	seen := map[string]bool{}
	var out []string
	for _, re := range endpointPathRes {
		for _, m := range re.FindAllStringSubmatch(source, -1) {
			if len(m) < 2 {
				continue
			}
			ep := normalizeEndpoint(m[1])
			if ep == "" || seen[ep] {
				continue
			}
			seen[ep] = true
			out = append(out, ep)
			if len(out) >= maxEndpoints {
				return out
			}
		}
	}
	return out
}

func normalizeEndpoint(raw string) string {
	ep := dynamicSegmentRe.ReplaceAllString(raw, "")
	ep = strings.TrimSuffix(ep, "/")
	if len(ep) <= minEndpointLen {
		return ""
	}
	return ep
}
