// Package sibling implements §4.9's sibling-guidance fallback, used in
// place of history-derived text when a target file has no commits of its
// own (volatility.Result.CommitCount == 0). Grounded on internal/engines'
// shared identifier-extraction idiom and internal/vcs's working-tree reader.
package sibling

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/limiter"
	"github.com/byronwade/filerisk/internal/vcs"
	"github.com/byronwade/filerisk/internal/volatility"
)

const maxSiblings = 5
const importScanLines = 30
const commonImportThreshold = 0.5
const namingSharedMinCount = 2
const statConcurrency = 5

const (
	stableMax   = 25
	moderateMax = 50
)

// Guidance is §3's Sibling guidance record, reported in place of history
// text when the target has zero commits.
type Guidance struct {
	Siblings           []string
	TestFileExpected   bool
	CommonImports      []string
	NamingConventions  []string
	MeanPanicScore     int
	VolatilityTag      string // stable, moderate, volatile
}

var (
	importFromRe  = regexp.MustCompile(`import\s+.*\s+from\s+['"]([^'"]+)['"]`)
	requireRe     = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	pythonFromRe  = regexp.MustCompile(`^from\s+([\w.]+)\s+import`)
)

var testSuffixRe = regexp.MustCompile(`(?i)(_test|\.test|\.spec)$`)

// Analyze implements §4.9: list targetPath's directory, keep same-extension
// siblings excluding the target, cap five, and derive the three pattern
// signals plus the aggregate volatility tag.
func Analyze(ctx context.Context, ac *analysisctx.Context, targetPath string) Guidance {
	dir := filepath.Dir(targetPath)
	ext := filepath.Ext(targetPath)
	targetBase := filepath.Base(targetPath)

	entries, err := os.ReadDir(filepath.Join(ac.RepoRoot, dir))
	if err != nil {
		return Guidance{}
	}

	var siblings []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == targetBase {
			continue
		}
		if filepath.Ext(e.Name()) != ext {
			continue
		}
		if ac.Ignore != nil && ac.Ignore.Match(filepath.Join(dir, e.Name())) {
			continue
		}
		siblings = append(siblings, filepath.Join(dir, e.Name()))
		if len(siblings) >= maxSiblings {
			break
		}
	}

	if len(siblings) == 0 {
		return Guidance{}
	}

	contents := readSiblings(ac.RepoRoot, siblings)
	meanPanic := meanPanicScore(ctx, ac, siblings)

	return Guidance{
		Siblings:          siblings,
		TestFileExpected:  testFileExpected(targetBase, siblings),
		CommonImports:     commonImports(contents),
		NamingConventions: namingConventions(siblings),
		MeanPanicScore:    meanPanic,
		VolatilityTag:     volatilityTag(meanPanic),
	}
}

func testFileExpected(targetBase string, siblings []string) bool {
	if testSuffixRe.MatchString(stripExt(targetBase)) {
		return false
	}
	for _, s := range siblings {
		if testSuffixRe.MatchString(stripExt(filepath.Base(s))) {
			return true
		}
	}
	return false
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func readSiblings(repoRoot string, siblings []string) []string {
	contents := make([]string, len(siblings))
	for i, s := range siblings {
		data, err := vcs.ReadFile(context.Background(), repoRoot, s)
		if err != nil {
			continue
		}
		lines := strings.Split(data, "\n")
		if len(lines) > importScanLines {
			lines = lines[:importScanLines]
		}
		contents[i] = strings.Join(lines, "\n")
	}
	return contents
}

func commonImports(contents []string) []string {
	counts := map[string]int{}
	nonEmpty := 0
	for _, c := range contents {
		if c == "" {
			continue
		}
		nonEmpty++
		seen := map[string]bool{}
		for _, imp := range extractImports(c) {
			if !seen[imp] {
				seen[imp] = true
				counts[imp]++
			}
		}
	}
	if nonEmpty == 0 {
		return nil
	}

	var out []string
	for imp, count := range counts {
		if float64(count)/float64(nonEmpty) >= commonImportThreshold {
			out = append(out, imp)
		}
	}
	return out
}

func extractImports(source string) []string {
	var out []string
	for _, m := range importFromRe.FindAllStringSubmatch(source, -1) {
		out = append(out, m[1])
	}
	for _, m := range requireRe.FindAllStringSubmatch(source, -1) {
		out = append(out, m[1])
	}
	for _, line := range strings.Split(source, "\n") {
		if m := pythonFromRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

// namingConventions implements §4.9's prefix/suffix detection: count
// lowerCase-to-UpperCase transitions to find camelCase/PascalCase segment
// boundaries, then keep any prefix or suffix segment shared by at least two
// siblings.
func namingConventions(siblings []string) []string {
	prefixCounts := map[string]int{}
	suffixCounts := map[string]int{}

	for _, s := range siblings {
		name := stripExt(filepath.Base(s))
		segments := splitCamel(name)
		if len(segments) < 2 {
			continue
		}
		prefixCounts[segments[0]]++
		suffixCounts[segments[len(segments)-1]]++
	}

	var out []string
	for prefix, count := range prefixCounts {
		if count >= namingSharedMinCount {
			out = append(out, "prefix:"+prefix)
		}
	}
	for suffix, count := range suffixCounts {
		if count >= namingSharedMinCount {
			out = append(out, "suffix:"+suffix)
		}
	}
	return out
}

// splitCamel splits an identifier on lowerCase-to-UpperCase transitions,
// e.g. "userController" -> ["user", "Controller"].
func splitCamel(name string) []string {
	var segments []string
	start := 0
	runes := []rune(name)
	for i := 1; i < len(runes); i++ {
		prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
		curUpper := runes[i] >= 'A' && runes[i] <= 'Z'
		if prevLower && curUpper {
			segments = append(segments, string(runes[start:i]))
			start = i
		}
	}
	segments = append(segments, string(runes[start:]))
	return segments
}

func meanPanicScore(ctx context.Context, ac *analysisctx.Context, siblings []string) int {
	results, errs, _ := limiter.Map(ctx, statConcurrency, siblings, func(ctx context.Context, path string) (volatility.Result, error) {
		return volatility.Analyze(ctx, ac, path, timeNow()), nil
	})

	sum, count := 0, 0
	for i, r := range results {
		if errs[i] != nil {
			continue
		}
		sum += r.PanicScore
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

func volatilityTag(mean int) string {
	switch {
	case mean < stableMax:
		return "stable"
	case mean < moderateMax:
		return "moderate"
	default:
		return "volatile"
	}
}

func timeNow() time.Time {
	return time.Now()
}
