// Package merge implements §4.3.10's result merger: priority-ordered
// de-duplication of the nine coupling engines' outputs into one ranked
// list.
package merge

import (
	"sort"

	"github.com/byronwade/filerisk/internal/engines"
)

const maxMerged = 15

// sourcePriority is the fixed first-seen priority order of §4.3.10: git co-change
// is the strongest evidence; tests must be updated whenever exports
// change; API/schema/env coupling implies a runtime contract; structural
// evidence (docs/type/transitive) ranks above weak lexical evidence
// (content).
var sourcePriority = []engines.Source{
	engines.SourceGit,
	engines.SourceTest,
	engines.SourceAPI,
	engines.SourceSchema,
	engines.SourceEnv,
	engines.SourceDocs,
	engines.SourceType,
	engines.SourceTransitive,
	engines.SourceContent,
}

// EngineResults carries one slice per engine, keyed by source tag, for
// Merge to consume in the fixed priority order.
type EngineResults map[engines.Source][]engines.CoupledFile

// Merge de-duplicates by file path, keeping the first-seen record in
// sourcePriority order, then sorts the unique set by score descending and
// caps it at 15.
func Merge(results EngineResults) []engines.CoupledFile {
	seen := map[string]bool{}
	var merged []engines.CoupledFile

	for _, src := range sourcePriority {
		for _, cf := range results[src] {
			if seen[cf.Path] {
				continue
			}
			seen[cf.Path] = true
			merged = append(merged, cf)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })

	if len(merged) > maxMerged {
		merged = merged[:maxMerged]
	}
	return merged
}
