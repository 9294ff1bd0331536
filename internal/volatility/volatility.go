// Package volatility implements §4.4's commit-message severity engine:
// panic-keyword weighting with recency decay, plus an authorship breakdown.
// Grounded on the teacher's "map keyed by author, sorted by count" ownership
// idiom and internal/vcs's git-log wrapper.
package volatility

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/byronwade/filerisk/internal/analysisctx"
	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/vcs"
)

const (
	sampleSize       = 20
	maxWeight        = 3.0
	halfLifeDays     = 30.0
	maxExcerpts      = 3
	maxExcerptChars  = 60
	busFactorPercent = 70.0
)

// basePanicKeywords is the severity table of §4.4, overlaid with any
// configuration overrides before scoring.
var basePanicKeywords = map[string]float64{
	"critical": 3, "security": 3, "cve": 3, "exploit": 3, "crash": 3,
	"data loss": 3, "corruption": 3, "breach": 3,
	"revert": 2, "hotfix": 2, "urgent": 2, "breaking": 2, "emergency": 2,
	"rollback": 2, "regression": 2,
	"fix": 1, "bug": 1, "patch": 1, "oops": 1, "typo": 1, "issue": 1,
	"error": 1, "wrong": 1, "mistake": 1, "broken": 1,
	"refactor": 0.5, "cleanup": 0.5, "lint": 0.5, "format": 0.5,
}

// AuthorStat is one entry of the ordered author breakdown.
type AuthorStat struct {
	Name       string
	Email      string
	Commits    int
	Percentage float64
	First      time.Time
	Last       time.Time
}

// RecencyStats summarises commit ages over the sample.
type RecencyStats struct {
	OldestDays float64
	NewestDays float64
	MeanDecay  float64
}

// Result is §3's Volatility result.
type Result struct {
	CommitCount         int
	PanicScore          int
	HighSeverityExcerpts []string
	MostRecentCommit    time.Time
	AuthorCount         int
	Authors             []AuthorStat
	TopAuthor           *AuthorStat
	Recency             RecencyStats
}

// Analyze implements §4.4: fetch up to 20 commits touching targetPath,
// compute panic score with recency decay, and summarise authorship.
func Analyze(ctx context.Context, ac *analysisctx.Context, targetPath string, now time.Time) Result {
	key := cache.Key("volatility", targetPath, ac.RepoRoot)
	if v, ok := ac.Cache.Get(key); ok {
		return v.(Result)
	}
	result := analyze(ctx, ac, targetPath, now)
	ac.Cache.Set(key, result)
	return result
}

func analyze(ctx context.Context, ac *analysisctx.Context, targetPath string, now time.Time) Result {
	commits, err := vcs.FileLog(ctx, ac.RepoRoot, targetPath, sampleSize)
	if err != nil || len(commits) == 0 {
		return Result{}
	}

	keywords := effectiveKeywords(ac)

	var weightedScore float64
	var excerpts []string
	authors := map[string]*AuthorStat{}
	var mostRecent time.Time
	var oldestDays, newestDays float64
	var decaySum float64
	decayCount := 0

	for i, c := range commits {
		when, perr := time.Parse(time.RFC3339, c.Date)
		ageDays := 0.0
		if perr == nil {
			ageDays = now.Sub(when).Hours() / 24
			if ageDays < 0 {
				ageDays = 0
			}
			if when.After(mostRecent) {
				mostRecent = when
			}
		}

		subject := strings.ToLower(c.Subject)
		weight := maxMatchWeight(subject, keywords)
		decay := CalculateRecencyDecay(ageDays)
		weightedScore += weight * decay
		decaySum += decay
		decayCount++

		if i == 0 {
			oldestDays, newestDays = ageDays, ageDays
		} else {
			if ageDays > oldestDays {
				oldestDays = ageDays
			}
			if ageDays < newestDays {
				newestDays = ageDays
			}
		}

		if weight >= 2 && len(excerpts) < maxExcerpts {
			excerpts = append(excerpts, truncate(c.Subject, maxExcerptChars))
		}

		author := authors[c.Email]
		if author == nil {
			author = &AuthorStat{Name: c.Author, Email: c.Email}
			authors[c.Email] = author
		}
		author.Commits++
		if perr == nil {
			if author.First.IsZero() || when.Before(author.First) {
				author.First = when
			}
			if when.After(author.Last) {
				author.Last = when
			}
		}
	}

	total := len(commits)
	panicScore := int(math.Round(100 * weightedScore / (sampleSize * maxWeight)))
	panicScore = clamp(panicScore, 0, 100)

	var authorList []AuthorStat
	for _, a := range authors {
		a.Percentage = 100 * float64(a.Commits) / float64(total)
		authorList = append(authorList, *a)
	}
	sort.Slice(authorList, func(i, j int) bool { return authorList[i].Commits > authorList[j].Commits })

	var topAuthor *AuthorStat
	if len(authorList) > 0 {
		top := authorList[0]
		topAuthor = &top
	}

	meanDecay := 0.0
	if decayCount > 0 {
		meanDecay = decaySum / float64(decayCount)
	}

	return Result{
		CommitCount:          total,
		PanicScore:           panicScore,
		HighSeverityExcerpts: excerpts,
		MostRecentCommit:     mostRecent,
		AuthorCount:          len(authorList),
		Authors:              authorList,
		TopAuthor:            topAuthor,
		Recency: RecencyStats{
			OldestDays: oldestDays,
			NewestDays: newestDays,
			MeanDecay:  meanDecay,
		},
	}
}

// CalculateRecencyDecay implements §4.4's exponential half-life decay:
// decay(0) = 1, decay(30) = 0.5, monotonic non-increasing in age.
func CalculateRecencyDecay(ageDays float64) float64 {
	return math.Pow(0.5, ageDays/halfLifeDays)
}

// HasBusFactorRisk reports whether the top author's share of commits meets
// the §4.4 bus-factor note threshold.
func HasBusFactorRisk(top *AuthorStat) bool {
	return top != nil && top.Percentage >= busFactorPercent
}

func effectiveKeywords(ac *analysisctx.Context) map[string]float64 {
	keywords := make(map[string]float64, len(basePanicKeywords))
	for k, v := range basePanicKeywords {
		keywords[k] = v
	}
	if ac.Config != nil {
		for k, v := range ac.Config.PanicKeywords {
			keywords[k] = float64(v)
		}
	}
	return keywords
}

func maxMatchWeight(subject string, keywords map[string]float64) float64 {
	max := 0.0
	for kw, weight := range keywords {
		if strings.Contains(subject, kw) && weight > max {
			max = weight
		}
	}
	return max
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
