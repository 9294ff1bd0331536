// Package diffsum implements the diff parser (§4.1 of SPEC_FULL.md): it
// turns a raw unified diff string into a structured Summary with change
// classification and a breaking-change flag. Regex families are compiled
// once at package init, grounded on the teacher's phase0 classification
// style (internal/analysis/phase0/modification_types.go).
package diffsum

import (
	"regexp"
	"strings"
)

// ChangeType classifies the semantic shape of a diff.
type ChangeType string

const (
	ChangeSchema  ChangeType = "schema"
	ChangeAPI     ChangeType = "api"
	ChangeConfig  ChangeType = "config"
	ChangeImport  ChangeType = "import"
	ChangeTest    ChangeType = "test"
	ChangeStyle   ChangeType = "style"
	ChangeUnknown ChangeType = "unknown"
)

const maxSurfacedLines = 10

// BinaryMarker is the sentinel the caller passes instead of a real diff when
// it already knows the file is binary; a real `git diff` binary message is
// also recognised.
const BinaryMarker = "[Binary file]"

// Summary is the structured result of parsing one unified diff.
type Summary struct {
	Added      []string
	Removed    []string
	HunkCount  int
	NetChange  int
	Breaking   bool
	ChangeType ChangeType
}

var (
	hunkHeader   = regexp.MustCompile(`^@@`)
	gitBinaryMsg = regexp.MustCompile(`(?i)^Binary files .* differ$`)

	removalKeywordRe = regexp.MustCompile(`(?i)\b(remove|delete|deprecate)\b`)
	removedExportRe  = regexp.MustCompile(`^-\s*export\s+(const|function|class|interface|type|default)\b`)
	removedPublicRe  = regexp.MustCompile(`^-\s*(public|pub\s+fn|pub\s+struct)\b`)
	removedFuncRe    = regexp.MustCompile(`^-\s*(func|function|def)\s+\w+\s*\(`)
	removedTypeRe    = regexp.MustCompile(`^-\s*(interface|type|class|struct|enum)\s+\w+`)

	schemaRe = regexp.MustCompile(`(?i)(create\s+table|alter\s+table|@(entity|table|column)|mongoose\.schema|sequelize\.define|migration)`)
	apiRe    = regexp.MustCompile(`(?i)(router\.(get|post|put|delete|patch)|app\.(get|post|put|delete|patch)|@(route|get|post|put|delete|patch)mapping|export\s+(async\s+)?function\s+(GET|POST|PUT|DELETE|PATCH)\b)`)
	configRe = regexp.MustCompile(`(?i)(\.env|config\.(yml|yaml|json|toml)|process\.env\.|os\.environ|viper\.|dotenv)`)
	importRe = regexp.MustCompile(`^[+-]\s*(import\s|from\s+\S+\s+import|require\(|package\s+\w+)`)
	testRe   = regexp.MustCompile(`(?i)(\bdescribe\(|\bit\(|\btest\(|func\s+Test\w+|def\s+test_|@Test\b|expect\()`)
)

// Parse implements §4.1's Diff parser. A binary marker or git binary message
// yields the empty summary with ChangeType=unknown.
func Parse(raw string) Summary {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == BinaryMarker || gitBinaryMsg.MatchString(trimmed) {
		return Summary{ChangeType: ChangeUnknown}
	}

	lines := strings.Split(raw, "\n")

	var allAdded, allRemoved []string
	hunks := 0
	breaking := false

	for _, line := range lines {
		if hunkHeader.MatchString(line) {
			hunks++
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			content := strings.TrimSpace(line[1:])
			if content != "" {
				allAdded = append(allAdded, content)
			}
		case strings.HasPrefix(line, "-"):
			content := strings.TrimSpace(line[1:])
			if content != "" {
				allRemoved = append(allRemoved, content)
				if isBreakingRemoval(line) {
					breaking = true
				}
			}
		}
	}

	netChange := len(allAdded) - len(allRemoved)

	added := allAdded
	if len(added) > maxSurfacedLines {
		added = added[:maxSurfacedLines]
	}
	removed := allRemoved
	if len(removed) > maxSurfacedLines {
		removed = removed[:maxSurfacedLines]
	}

	return Summary{
		Added:      added,
		Removed:    removed,
		HunkCount:  hunks,
		NetChange:  netChange,
		Breaking:   breaking,
		ChangeType: classify(allAdded, allRemoved),
	}
}

func isBreakingRemoval(rawLine string) bool {
	content := strings.TrimSpace(rawLine[1:])
	if removalKeywordRe.MatchString(content) {
		return true
	}
	if removedExportRe.MatchString(rawLine) || removedPublicRe.MatchString(rawLine) {
		return true
	}
	if removedFuncRe.MatchString(rawLine) {
		return true
	}
	if removedTypeRe.MatchString(rawLine) {
		return true
	}
	return false
}

// classify runs the pre-compiled regex families in a fixed precedence
// (schema, api, import, config, test); falling back to style when the
// added/removed multisets match up to whitespace, else unknown.
func classify(added, removed []string) ChangeType {
	all := append(append([]string{}, added...), removed...)
	joined := strings.Join(all, "\n")

	switch {
	case schemaRe.MatchString(joined):
		return ChangeSchema
	case apiRe.MatchString(joined):
		return ChangeAPI
	case hasImportLine(added) || hasImportLine(removed):
		return ChangeImport
	case configRe.MatchString(joined):
		return ChangeConfig
	case testRe.MatchString(joined):
		return ChangeTest
	}

	if isStyleOnly(added, removed) {
		return ChangeStyle
	}
	return ChangeUnknown
}

func hasImportLine(lines []string) bool {
	for _, l := range lines {
		if importRe.MatchString("+" + l) {
			return true
		}
	}
	return false
}

// isStyleOnly reports whether additions and removals are the same multiset
// of lines once all whitespace is removed — a pure reformat.
func isStyleOnly(added, removed []string) bool {
	if len(added) == 0 && len(removed) == 0 {
		return false
	}
	if len(added) != len(removed) {
		return false
	}
	counts := map[string]int{}
	for _, l := range added {
		counts[collapseWhitespace(l)]++
	}
	for _, l := range removed {
		counts[collapseWhitespace(l)]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}
