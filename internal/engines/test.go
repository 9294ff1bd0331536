package engines

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/vcs"
)

// testSuffixRe recognises the six test-naming conventions §4.3.5 checks the
// target's own basename against.
var testSuffixRe = regexp.MustCompile(`(?i)(\.test\.|\.spec\.|_test\.|^test_|-test\.|-spec\.)`)

// IsTestFile reports whether path's basename itself looks like a test file,
// shared with the static-importer engine (§4.6) and engine 9's own gate.
func IsTestFile(path string) bool {
	return testSuffixRe.MatchString(filepath.Base(path))
}

const testEvidenceScore = 85
const mockEvidenceScore = 70

// Tests implements §4.3.5 Engine 9 (source test).
func Tests(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	key := cache.Key("engine:test", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.([]CoupledFile)
	}
	result := tests(ctx, ac, targetPath)
	ac.Cache.Set(key, result)
	return result
}

func tests(ctx context.Context, ac *analysisctx.Context, targetPath string) []CoupledFile {
	if IsTestFile(targetPath) {
		return nil
	}

	base := filepath.Base(targetPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	patterns := []string{
		":(glob)**/" + stem + ".test" + ext,
		":(glob)**/" + stem + ".spec" + ext,
		":(glob)**/" + stem + "_test" + ext,
		":(glob)**/test_" + stem + ext,
		":(glob)**/" + stem + "-test" + ext,
		":(glob)**/" + stem + "-spec" + ext,
	}

	out := map[string]CoupledFile{}

	testFiles, err := vcs.ListFiles(ctx, ac.RepoRoot, patterns)
	if err == nil {
		for _, f := range testFiles {
			if ac.Ignore.Match(f) {
				continue
			}
			out[f] = CoupledFile{
				Path:     f,
				Score:    testEvidenceScore,
				Source:   SourceTest,
				Reason:   "Update when changing this file's exports",
				Evidence: detail("Matches naming convention for " + stem + ext),
			}
		}
	}

	source, err := vcs.ReadFile(ctx, ac.RepoRoot, targetPath)
	if err == nil {
		identifiers := ExtractExportedIdentifiers(source)
		if len(identifiers) > 0 {
			pattern := `(mock|fake|stub).*(` + alternationNames(identifiers) + `)`
			candidates, err := vcs.GrepFiles(ctx, ac.RepoRoot, pattern, vcs.GrepOptions{
				ExtendedRegex: true,
				IgnoreCase:    true,
			})
			if err == nil {
				for _, f := range candidates {
					if f == targetPath || ac.Ignore.Match(f) {
						continue
					}
					if _, exists := out[f]; !exists {
						out[f] = CoupledFile{
							Path:     f,
							Score:    mockEvidenceScore,
							Source:   SourceTest,
							Reason:   "Mocks or stubs this file's exports",
							Evidence: detail("mock/fake/stub of " + strings.Join(identifiers, ", ")),
						}
					}
				}
			}
		}
	}

	var result []CoupledFile
	for _, v := range out {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Path < result[j].Path
	})
	return capResults(result)
}

func alternationNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "|"
		}
		out += escapeRegex(n)
	}
	return out
}
