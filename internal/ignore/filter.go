// Package ignore implements the compiled glob matcher that combines a
// universal baseline, the repository's ignore file, and configuration
// patterns.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Baseline lists build-output, IDE, VCS, and binary patterns common across
// the language ecosystems the engines encounter: node, python, java, c,
// rust, go, ruby, php, dotnet.
var Baseline = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/.svn/**",
	"**/.hg/**",
	"**/dist/**",
	"**/build/**",
	"**/out/**",
	"**/target/**",       // rust, java (maven/gradle)
	"**/bin/**",
	"**/obj/**",           // dotnet
	"**/__pycache__/**",
	"**/*.pyc",
	"**/.venv/**",
	"**/venv/**",
	"**/vendor/**",        // go, php, ruby
	"**/.bundle/**",
	"**/.idea/**",
	"**/.vscode/**",
	"**/*.log",
	"**/*.class",
	"**/*.jar",
	"**/*.war",
	"**/*.o",
	"**/*.so",
	"**/*.dll",
	"**/*.exe",
	"**/*.zip",
	"**/*.tar.gz",
	"**/coverage/**",
	"**/.next/**",
	"**/.nuxt/**",
}

// Filter matches a repository-relative path against the combined pattern
// set. Matching always normalises back-slashes to forward-slashes first.
type Filter struct {
	patterns []string
}

// Compile builds a Filter from the baseline, the repository's top-level
// ignore file (read from repoRoot/.gitignore if present), and explicit
// configuration patterns appended last.
func Compile(repoRoot string, configPatterns []string) *Filter {
	patterns := make([]string, 0, len(Baseline)+len(configPatterns)+8)
	patterns = append(patterns, Baseline...)
	patterns = append(patterns, readRepoIgnoreFile(repoRoot)...)
	patterns = append(patterns, configPatterns...)
	return &Filter{patterns: patterns}
}

func readRepoIgnoreFile(repoRoot string) []string {
	if repoRoot == "" {
		return nil
	}
	f, err := os.Open(filepath.Join(repoRoot, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, toDoublestarPattern(line))
	}
	return patterns
}

// toDoublestarPattern adapts a .gitignore-style line to a doublestar glob:
// a bare name without a slash matches at any depth.
func toDoublestarPattern(line string) string {
	line = strings.TrimPrefix(line, "/")
	if !strings.Contains(line, "/") {
		return "**/" + line
	}
	return line
}

func normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// Match reports whether path (repository-relative) matches any configured
// pattern.
func (f *Filter) Match(path string) bool {
	path = normalize(path)
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
		// Also try a direct basename/prefix match for simple patterns that
		// are not valid doublestar globs on their own (e.g. "*.log" applied
		// mid-path is handled above; this covers exact directory names).
		if !strings.ContainsAny(p, "*?[") {
			name := strings.Trim(p, "/")
			if path == name || strings.HasPrefix(path, name+"/") ||
				strings.HasSuffix(path, "/"+name) || strings.Contains(path, "/"+name+"/") {
				return true
			}
		}
	}
	return false
}

// cache memoises compiled filters keyed by repository root and a
// comma-joined configuration-pattern list, per §4.1's ignore-filter
// lifetime note.
var (
	cacheMu sync.Mutex
	cache   = map[string]*Filter{}
)

// CompileCached returns a memoised Filter for (repoRoot, configPatterns).
func CompileCached(repoRoot string, configPatterns []string) *Filter {
	key := repoRoot + "|" + strings.Join(configPatterns, ",")

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if f, ok := cache[key]; ok {
		return f
	}
	f := Compile(repoRoot, configPatterns)
	cache[key] = f
	return f
}
