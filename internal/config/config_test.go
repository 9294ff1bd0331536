package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()
	if cfg.Thresholds.CouplingPercent != 15 || cfg.Thresholds.DriftDays != 7 || cfg.Thresholds.Window != 50 {
		t.Fatalf("unexpected defaults: %+v", cfg.Thresholds)
	}
}

func TestLoadWithNoConfigFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Thresholds.CouplingPercent != 15 {
		t.Fatalf("expected default coupling percent, got %d", cfg.Thresholds.CouplingPercent)
	}
}

func TestLoadMergesConfigFile(t *testing.T) {
	dir := t.TempDir()
	contents := "thresholds:\n  coupling_percent: 30\n  drift_days: 10\n"
	if err := os.WriteFile(filepath.Join(dir, ".filerisk.yml"), []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Thresholds.CouplingPercent != 30 {
		t.Fatalf("expected overridden coupling percent 30, got %d", cfg.Thresholds.CouplingPercent)
	}
	if cfg.Thresholds.DriftDays != 10 {
		t.Fatalf("expected overridden drift days 10, got %d", cfg.Thresholds.DriftDays)
	}
	// Window was not set in the fixture, so the default should survive.
	if cfg.Thresholds.Window != 50 {
		t.Fatalf("expected default window 50 to survive partial merge, got %d", cfg.Thresholds.Window)
	}
}

func TestLoadMalformedConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	contents := "thresholds: [this, is, not, a, map}"
	if err := os.WriteFile(filepath.Join(dir, ".filerisk.yml"), []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("malformed config must not error, got: %v", err)
	}
	if cfg.Thresholds.CouplingPercent != 15 {
		t.Fatalf("expected defaults on malformed config, got %+v", cfg.Thresholds)
	}
}

func TestValidateClampsOutOfRangeThresholds(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.CouplingPercent = 500
	cfg.Thresholds.DriftDays = -3
	cfg.Thresholds.Window = 5
	cfg.Thresholds.MaxFilesPerCommit = 1000
	Validate(cfg)

	d := Default()
	if cfg.Thresholds.CouplingPercent != d.Thresholds.CouplingPercent {
		t.Fatalf("expected out-of-range coupling percent to clamp to default")
	}
	if cfg.Thresholds.DriftDays != d.Thresholds.DriftDays {
		t.Fatalf("expected out-of-range drift days to clamp to default")
	}
	if cfg.Thresholds.Window != d.Thresholds.Window {
		t.Fatalf("expected out-of-range window to clamp to default")
	}
	if cfg.Thresholds.MaxFilesPerCommit != d.Thresholds.MaxFilesPerCommit {
		t.Fatalf("expected out-of-range max files per commit to clamp to default")
	}
}

func TestValidateRejectsWeightsThatDoNotSumNear1(t *testing.T) {
	cfg := Default()
	cfg.Weights = RiskWeights{Volatility: 0.9, Coupling: 0.9, Drift: 0.9, Importers: 0.9}
	Validate(cfg)
	d := Default()
	if cfg.Weights != d.Weights {
		t.Fatalf("expected invalid weights to fall back to default weights, got %+v", cfg.Weights)
	}
}

func TestEnvOverrideWinsOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	contents := "thresholds:\n  coupling_percent: 30\n"
	if err := os.WriteFile(filepath.Join(dir, ".filerisk.yml"), []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}
	t.Setenv("FILERISK_COUPLING_PERCENT", "42")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Thresholds.CouplingPercent != 42 {
		t.Fatalf("expected env override 42, got %d", cfg.Thresholds.CouplingPercent)
	}
}
