// Package history implements §4.8's three-mode cached commit search:
// message grep, content pickaxe, and line-range log, sharing one cache and
// output shape. Grounded on internal/vcs's git-log wrapper and
// internal/diffsum's diff-line parsing style.
package history

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/limiter"
	"github.com/byronwade/filerisk/internal/vcs"
)

// SearchType selects which VCS search mode(s) to run.
type SearchType string

const (
	SearchMessage SearchType = "message"
	SearchDiff    SearchType = "diff"
	SearchBoth    SearchType = "both"
)

// MatchType tags which mode produced an entry.
type MatchType string

const (
	MatchMessageType MatchType = "message"
	MatchDiffType    MatchType = "diff"
)

// CommitType classifies a commit subject into one of six categories.
type CommitType string

const (
	CommitBugfix   CommitType = "bugfix"
	CommitFeature  CommitType = "feature"
	CommitRefactor CommitType = "refactor"
	CommitDocs     CommitType = "docs"
	CommitTest     CommitType = "test"
	CommitChore    CommitType = "chore"
	CommitUnknown  CommitType = "unknown"
)

const defaultLimit = 20
const fileChangeConcurrency = 5
const maxSnippetResults = 5
const maxSnippetChars = 500
const snippetContextLines = 5

// Snippet is the optional relevance excerpt attached to a search result.
type Snippet struct {
	Text       string
	ChangeType string // added, removed, modified
}

// Entry is one commit in §3's History-search result.
type Entry struct {
	Hash        string
	Date        string
	Author      string
	Subject     string
	Files       []string
	MatchType   MatchType
	CommitType  CommitType
	Snippet     *Snippet
}

// Options configures Search, mirroring §8's Search history tool input.
type Options struct {
	Query        string
	Path         string
	SearchType   SearchType
	Limit        int
	StartLine    int
	EndLine      int
	Since        string
	Until        string
	Author       string
	IncludeDiff  bool
	CommitTypes  []CommitType
}

// Result is §3's History-search result.
type Result struct {
	Entries []Entry
}

// Search implements §4.8. A malformed line-range (end < start) yields an
// empty result, not an error.
func Search(ctx context.Context, ac *analysisctx.Context, opts Options) Result {
	opts.normalize()

	key := cache.Key(cacheKey(opts), ac.RepoRoot, strconv.FormatBool(opts.IncludeDiff))
	if v, ok := ac.Cache.Get(key); ok {
		return v.(Result)
	}

	result := search(ctx, ac, opts)
	ac.Cache.Set(key, result)
	return result
}

func (o *Options) normalize() {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.StartLine <= 0 {
		o.StartLine = 1
	}
	if o.SearchType == "" {
		o.SearchType = SearchMessage
	}
}

func cacheKey(o Options) string {
	typesFingerprint := make([]string, len(o.CommitTypes))
	for i, t := range o.CommitTypes {
		typesFingerprint[i] = string(t)
	}
	fingerprint := cache.Fingerprint(o.Since, o.Until, o.Author, cache.Fingerprint(typesFingerprint...))
	return cache.Key("history", o.Query, o.Path, string(o.SearchType),
		strconv.Itoa(o.StartLine), strconv.Itoa(o.EndLine), fingerprint)
}

func search(ctx context.Context, ac *analysisctx.Context, opts Options) Result {
	if opts.Path != "" && opts.StartLine > 0 && opts.EndLine > 0 {
		return lineRangeSearch(ctx, ac, opts)
	}

	filters := vcs.LogFilters{Since: opts.Since, Until: opts.Until, Author: opts.Author}
	seen := map[string]bool{}
	var entries []Entry

	runMessage := opts.SearchType == SearchMessage || opts.SearchType == SearchBoth
	runDiff := opts.SearchType == SearchDiff || opts.SearchType == SearchBoth

	if runMessage {
		commits, err := vcs.LogGrep(ctx, ac.RepoRoot, opts.Query, defaultLimit*2, filters)
		if err == nil {
			entries = append(entries, toEntries(commits, MatchMessageType, seen)...)
		}
	}
	if runDiff {
		commits, err := vcs.LogPickaxe(ctx, ac.RepoRoot, opts.Query, opts.Path, defaultLimit*2, filters)
		if err == nil {
			entries = append(entries, toEntries(commits, MatchDiffType, seen)...)
		}
	}

	entries = fetchChangedFiles(ctx, ac, entries)
	entries = filterByCommitTypes(entries, opts.CommitTypes)
	if opts.IncludeDiff {
		entries = attachSnippets(ctx, ac, entries, opts.Query)
	}

	return finalize(entries, opts.Limit)
}

func lineRangeSearch(ctx context.Context, ac *analysisctx.Context, opts Options) Result {
	if opts.EndLine < opts.StartLine {
		return Result{}
	}

	raw, err := vcs.LogLineRange(ctx, ac.RepoRoot, opts.Path, opts.StartLine, opts.EndLine)
	if err != nil {
		return Result{}
	}

	commits := vcs.ParseLineRangeLog(raw)
	seen := map[string]bool{}
	entries := toEntries(commits, MatchMessageType, seen)

	if opts.Query != "" {
		entries = filterBySubjectContains(entries, opts.Query)
	}

	entries = fetchChangedFiles(ctx, ac, entries)
	entries = filterByCommitTypes(entries, opts.CommitTypes)

	return finalize(entries, opts.Limit)
}

func toEntries(commits []vcs.Commit, matchType MatchType, seen map[string]bool) []Entry {
	var out []Entry
	for _, c := range commits {
		if seen[c.Hash] {
			continue
		}
		seen[c.Hash] = true
		out = append(out, Entry{
			Hash:       shortHash(c.Hash),
			Date:       isoDate(c.Date),
			Author:     c.Author,
			Subject:    c.Subject,
			MatchType:  matchType,
			CommitType: classifyCommitType(c.Subject),
		})
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func isoDate(aiDate string) string {
	if len(aiDate) >= 10 {
		return aiDate[:10]
	}
	return aiDate
}

const maxFilesPerEntry = 5

func fetchChangedFiles(ctx context.Context, ac *analysisctx.Context, entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}
	hashes := make([]string, len(entries))
	for i, e := range entries {
		hashes[i] = e.Hash
	}
	results, errs, _ := limiter.Map(ctx, fileChangeConcurrency, hashes, func(ctx context.Context, hash string) ([]string, error) {
		return vcs.ChangedFiles(ctx, ac.RepoRoot, hash)
	})
	for i := range entries {
		if errs[i] != nil {
			continue
		}
		files := results[i]
		if len(files) > maxFilesPerEntry {
			files = files[:maxFilesPerEntry]
		}
		entries[i].Files = files
	}
	return entries
}

func filterBySubjectContains(entries []Entry, query string) []Entry {
	var out []Entry
	lowerQuery := strings.ToLower(query)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Subject), lowerQuery) {
			out = append(out, e)
		}
	}
	return out
}

func filterByCommitTypes(entries []Entry, types []CommitType) []Entry {
	if len(types) == 0 {
		return entries
	}
	allow := map[CommitType]bool{}
	for _, t := range types {
		allow[t] = true
	}
	var out []Entry
	for _, e := range entries {
		if allow[e.CommitType] {
			out = append(out, e)
		}
	}
	return out
}

func finalize(entries []Entry, limit int) Result {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return Result{Entries: entries}
}

// commitTypeRes classifies a subject in the fixed precedence order
// {bugfix, feature, refactor, docs, test, chore}, per §4.8.
var commitTypeRes = []struct {
	kind CommitType
	re   *regexp.Regexp
}{
	{CommitBugfix, regexp.MustCompile(`(?i)\b(fix|bug|patch|hotfix)\b`)},
	{CommitFeature, regexp.MustCompile(`(?i)\b(feat|feature|add|implement)\b`)},
	{CommitRefactor, regexp.MustCompile(`(?i)\b(refactor|restructure|reorganize)\b`)},
	{CommitDocs, regexp.MustCompile(`(?i)\b(docs?|documentation)\b`)},
	{CommitTest, regexp.MustCompile(`(?i)\b(test|spec)\b`)},
	{CommitChore, regexp.MustCompile(`(?i)\b(chore|bump|deps?|dependency)\b`)},
}

func classifyCommitType(subject string) CommitType {
	for _, c := range commitTypeRes {
		if c.re.MatchString(subject) {
			return c.kind
		}
	}
	return CommitUnknown
}

// attachSnippets implements §4.8's diff-snippet extraction for up to five
// results: show the commit with 3 lines of context, find the first line
// case-insensitively containing query, extract +-5 lines around it, cap at
// 500 chars, and label added/removed/modified by which side contains it.
func attachSnippets(ctx context.Context, ac *analysisctx.Context, entries []Entry, query string) []Entry {
	n := len(entries)
	if n > maxSnippetResults {
		n = maxSnippetResults
	}
	for i := 0; i < n; i++ {
		snippet := extractSnippet(ctx, ac, entries[i].Hash, query)
		entries[i].Snippet = snippet
	}
	return entries
}

func extractSnippet(ctx context.Context, ac *analysisctx.Context, hash, query string) *Snippet {
	diff, err := vcs.ShowFileDiff(ctx, ac.RepoRoot, hash, "", maxSnippetChars*4)
	if err != nil || diff == "" {
		return nil
	}

	lines := strings.Split(diff, "\n")
	lowerQuery := strings.ToLower(query)
	matchIdx := -1
	for i, l := range lines {
		if strings.Contains(strings.ToLower(l), lowerQuery) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		return nil
	}

	start := matchIdx - snippetContextLines
	if start < 0 {
		start = 0
	}
	end := matchIdx + snippetContextLines + 1
	if end > len(lines) {
		end = len(lines)
	}
	excerpt := strings.Join(lines[start:end], "\n")
	if len(excerpt) > maxSnippetChars {
		excerpt = excerpt[:maxSnippetChars]
	}

	return &Snippet{Text: excerpt, ChangeType: classifySnippetChange(lines, lowerQuery)}
}

// classifySnippetChange reports which sides of the diff have a line
// containing lowerQuery: added, removed, or modified when both or neither do.
func classifySnippetChange(lines []string, lowerQuery string) string {
	added, removed := false, false
	for _, l := range lines {
		if !strings.Contains(strings.ToLower(l), lowerQuery) {
			continue
		}
		switch {
		case strings.HasPrefix(l, "+") && !strings.HasPrefix(l, "+++"):
			added = true
		case strings.HasPrefix(l, "-") && !strings.HasPrefix(l, "---"):
			removed = true
		}
	}
	switch {
	case added && removed:
		return "modified"
	case added:
		return "added"
	case removed:
		return "removed"
	default:
		return "modified"
	}
}
