package projectmetrics

import "github.com/byronwade/filerisk/internal/config"

const (
	lowVelocityCommitsPerWeek  = 5
	highVelocityCommitsPerWeek = 50
	largeCommitFileCount       = 5
	largeCommitCouplingBonus   = 5
)

// AdaptiveThresholds computes §4.2's adaptive thresholds from sampled
// velocity, then applies configuration overrides field-wise. A configured
// threshold overrides the computed one only when it differs from
// config.Default()'s value for that field; a configured value equal to the
// default leaves the computed value in place.
func AdaptiveThresholds(m Metrics, cfg *config.Config) config.Thresholds {
	t := config.Thresholds{
		CouplingPercent:   15,
		DriftDays:         7,
		Window:            50,
		MaxFilesPerCommit: cfg.Thresholds.MaxFilesPerCommit,
	}

	switch {
	case m.CommitsPerWeek < lowVelocityCommitsPerWeek:
		t.CouplingPercent = 20
		t.DriftDays = 14
		t.Window = 30
	case m.CommitsPerWeek > highVelocityCommitsPerWeek:
		t.CouplingPercent = 10
		t.DriftDays = 3
		t.Window = 100
	}

	if m.AvgFilesPerCommit > largeCommitFileCount {
		t.CouplingPercent += largeCommitCouplingBonus
	}

	applyOverrides(&t, cfg)
	return t
}

// applyOverrides lets any explicit configuration threshold win over the
// computed adaptive value, field by field. Default() zero-free config
// always carries a value, so this only has effect when the caller passed a
// genuinely configured threshold distinct from the package default.
func applyOverrides(t *config.Thresholds, cfg *config.Config) {
	d := config.Default()
	if cfg.Thresholds.CouplingPercent != d.Thresholds.CouplingPercent {
		t.CouplingPercent = cfg.Thresholds.CouplingPercent
	}
	if cfg.Thresholds.DriftDays != d.Thresholds.DriftDays {
		t.DriftDays = cfg.Thresholds.DriftDays
	}
	if cfg.Thresholds.Window != d.Thresholds.Window {
		t.Window = cfg.Thresholds.Window
	}
	if cfg.Thresholds.MaxFilesPerCommit != d.Thresholds.MaxFilesPerCommit {
		t.MaxFilesPerCommit = cfg.Thresholds.MaxFilesPerCommit
	}
}
