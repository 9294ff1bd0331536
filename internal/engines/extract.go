package engines

import (
	"regexp"
	"strings"
)

// Exported-identifier extraction shared by the docs (§4.3.2) and test
// (§4.3.5) engines: four regex families covering declaration-level exports,
// named export blocks, default-function exports, and re-exports. Style
// grounded on internal/analysis/phase0/modification_types.go's
// classification-table-and-denylist idiom.
var (
	declExportRe    = regexp.MustCompile(`(?m)^export\s+(?:const|function|class|interface|type|enum)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	namedExportRe   = regexp.MustCompile(`(?m)^export\s*\{([^}]+)\}`)
	defaultFuncRe   = regexp.MustCompile(`(?m)^export\s+default\s+function\s+([A-Za-z_$][A-Za-z0-9_$]*)`)
	reExportRe      = regexp.MustCompile(`(?m)^export\s*(?:\*|\{[^}]*\})\s*(?:as\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*)?from`)
	namedMemberSplit = regexp.MustCompile(`\s+as\s+`)
)

var genericIdentifiers = map[string]bool{
	"default": true,
	"module":  true,
	"exports": true,
	"index":   true,
}

const maxIdentifiers = 10

// ExtractExportedIdentifiers returns up to maxIdentifiers exported names
// from source, generic names and names of length <= 2 dropped, in
// first-seen order.
func ExtractExportedIdentifiers(source string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || len(name) <= 2 || genericIdentifiers[strings.ToLower(name)] || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, m := range declExportRe.FindAllStringSubmatch(source, -1) {
		add(m[1])
	}
	for _, m := range namedExportRe.FindAllStringSubmatch(source, -1) {
		for _, member := range strings.Split(m[1], ",") {
			parts := namedMemberSplit.Split(strings.TrimSpace(member), -1)
			if len(parts) > 0 {
				add(strings.TrimSpace(parts[len(parts)-1]))
			}
		}
	}
	for _, m := range defaultFuncRe.FindAllStringSubmatch(source, -1) {
		add(m[1])
	}
	for _, m := range reExportRe.FindAllStringSubmatch(source, -1) {
		if m[1] != "" {
			add(m[1])
		}
	}

	if len(out) > maxIdentifiers {
		out = out[:maxIdentifiers]
	}
	return out
}

// wordBoundaryCount counts how many of needles occur on a word boundary in
// haystack.
func wordBoundaryCount(haystack string, needles []string) int {
	return len(wordBoundaryMatches(haystack, needles))
}

// wordBoundaryMatches returns the subset of needles that occur on a word
// boundary in haystack, in needle order. Engines 6 and 10 use it to score
// candidate files by shared-name overlap and to report which names matched.
func wordBoundaryMatches(haystack string, needles []string) []string {
	var out []string
	for _, n := range needles {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(n) + `\b`)
		if re.MatchString(haystack) {
			out = append(out, n)
		}
	}
	return out
}
