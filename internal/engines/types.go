// Package engines implements the nine independent coupling-evidence engines
// of §4.3: each takes a target path and the shared analysis context and
// returns coupled-file records sorted by score descending, capped at five,
// swallowing its own errors into an empty result. Grounded throughout on
// internal/analysis/phase0/modification_types.go's regex-family,
// generic-name-denylist classification style.
package engines

import (
	"sort"

	"github.com/byronwade/filerisk/internal/diffsum"
)

// Source tags which engine produced a CoupledFile, used by the merger's
// fixed-priority de-duplication.
type Source string

const (
	SourceGit        Source = "git"
	SourceTest       Source = "test"
	SourceAPI        Source = "api"
	SourceSchema     Source = "schema"
	SourceEnv        Source = "env"
	SourceDocs       Source = "docs"
	SourceType       Source = "type"
	SourceTransitive Source = "transitive"
	SourceContent    Source = "content"
)

// Evidence is §3's "either a diff summary (for git-source) or a short
// string (for others)" slot, represented as a struct with both arms
// optional rather than a runtime type switch: consumers branch on the
// record's Source tag, never on which field of Evidence is non-nil.
type Evidence struct {
	DiffSummary *diffsum.Summary // set only when Source == SourceGit
	Detail      *string          // set by every other source
}

// CoupledFile is one piece of evidence that targetPath is coupled to Path.
type CoupledFile struct {
	Path       string
	Score      int
	Source     Source
	Reason     string
	Evidence   Evidence
	CommitHash string // set only by the co-change engine
}

func detail(s string) Evidence {
	return Evidence{Detail: &s}
}

// sortedKeys returns the keys of a string-set map in sorted order, used to
// render deterministic evidence-detail strings from a matched-name set.
func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

const maxResultsPerEngine = 5

func capResults(files []CoupledFile) []CoupledFile {
	if len(files) > maxResultsPerEngine {
		return files[:maxResultsPerEngine]
	}
	return files
}
