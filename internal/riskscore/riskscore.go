// Package riskscore implements §4.7's compound risk function: a weighted
// combination of volatility, coupling, drift, and importer components into
// a single score and qualitative level. Grounded on the teacher's
// internal/risk/calculator.go weighted-sum-plus-factor-list idiom (removed
// after grounding — see DESIGN.md).
package riskscore

import (
	"fmt"
	"math"

	"github.com/byronwade/filerisk/internal/config"
)

// Level is the qualitative risk level of §3's Risk assessment.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

const couplingMultiplier = 1.5
const driftPerStale = 25
const importerPerFile = 10

// Assessment is §3's Risk assessment record.
type Assessment struct {
	Score             int
	Level             Level
	Factors           []string
	RecommendedAction string
}

// Inputs bundles the per-request signals §4.7 combines.
type Inputs struct {
	PanicScore       int
	TopCouplingScores []int // sorted desc, caller passes at most the top 3
	StaleCount       int
	ImporterCount    int
	CommitCount      int
	Weights          config.RiskWeights
}

// Compute implements §4.7.
func Compute(in Inputs) Assessment {
	volatilityComponent := float64(in.PanicScore)
	couplingComponent := math.Min(100, meanTopThree(in.TopCouplingScores)*couplingMultiplier)
	driftComponent := math.Min(100, float64(driftPerStale*in.StaleCount))
	importerComponent := math.Min(100, float64(importerPerFile*in.ImporterCount))

	weighted := volatilityComponent*in.Weights.Volatility +
		couplingComponent*in.Weights.Coupling +
		driftComponent*in.Weights.Drift +
		importerComponent*in.Weights.Importers

	score := int(math.Round(weighted))
	score = clamp(score, 0, 100)

	var factors []string
	if in.PanicScore > 0 {
		factors = append(factors, fmt.Sprintf("High volatility (%d%%)", in.PanicScore))
	}
	if len(in.TopCouplingScores) > 0 {
		factors = append(factors, fmt.Sprintf("Tightly coupled (%d files)", len(in.TopCouplingScores)))
	}
	if in.StaleCount > 0 {
		factors = append(factors, fmt.Sprintf("%d stale dependencies", in.StaleCount))
	}
	if in.ImporterCount > 0 {
		factors = append(factors, fmt.Sprintf("Heavily imported (%d files depend on this)", in.ImporterCount))
	}
	if in.CommitCount == 0 {
		factors = append(factors, "No git history (new file)")
	}

	return Assessment{
		Score:             score,
		Level:             classify(score),
		Factors:           factors,
		RecommendedAction: recommendedAction(classify(score)),
	}
}

func meanTopThree(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	n := len(scores)
	if n > 3 {
		n = 3
	}
	sum := 0
	for _, s := range scores[:n] {
		sum += s
	}
	return float64(sum) / float64(n)
}

func classify(score int) Level {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelMedium
	default:
		return LevelLow
	}
}

func recommendedAction(l Level) string {
	switch l {
	case LevelCritical:
		return "Review with a second engineer before merging; verify every coupled file listed above."
	case LevelHigh:
		return "Inspect the coupled files and stale dependencies before merging."
	case LevelMedium:
		return "Skim the coupled files for anything this change should also update."
	default:
		return "Low risk; proceed with standard review."
	}
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
