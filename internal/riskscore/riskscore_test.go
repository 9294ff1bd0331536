package riskscore

import (
	"testing"

	"github.com/byronwade/filerisk/internal/config"
)

func defaultWeights() config.RiskWeights {
	return config.RiskWeights{Volatility: 0.35, Coupling: 0.30, Drift: 0.20, Importers: 0.15}
}

func TestComputeLowRiskWhenAllSignalsQuiet(t *testing.T) {
	a := Compute(Inputs{Weights: defaultWeights(), CommitCount: 5})
	if a.Level != LevelLow {
		t.Fatalf("expected low level, got %s (score %d)", a.Level, a.Score)
	}
	if len(a.Factors) != 0 {
		t.Fatalf("expected no factors, got %v", a.Factors)
	}
}

func TestComputeCriticalWhenAllSignalsHot(t *testing.T) {
	a := Compute(Inputs{
		PanicScore:        100,
		TopCouplingScores: []int{100, 90, 80},
		StaleCount:        10,
		ImporterCount:     20,
		CommitCount:       5,
		Weights:           defaultWeights(),
	})
	if a.Level != LevelCritical {
		t.Fatalf("expected critical level, got %s (score %d)", a.Level, a.Score)
	}
	if a.Score < 75 || a.Score > 100 {
		t.Fatalf("score %d out of critical range", a.Score)
	}
}

func TestComputeScoreInBounds(t *testing.T) {
	cases := []Inputs{
		{PanicScore: 0, Weights: defaultWeights()},
		{PanicScore: 50, TopCouplingScores: []int{200}, StaleCount: 50, ImporterCount: 50, Weights: defaultWeights()},
	}
	for _, in := range cases {
		a := Compute(in)
		if a.Score < 0 || a.Score > 100 {
			t.Fatalf("score %d out of [0,100] for %+v", a.Score, in)
		}
	}
}

func TestComputeNoHistoryFactor(t *testing.T) {
	a := Compute(Inputs{Weights: defaultWeights(), CommitCount: 0})
	found := false
	for _, f := range a.Factors {
		if f == "No git history (new file)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected no-history factor, got %v", a.Factors)
	}
}
