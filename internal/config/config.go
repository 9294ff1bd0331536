// Package config loads the optional per-repository configuration document
// described in §3/§6: thresholds, ignore patterns, panic-keyword overrides,
// and risk weights. A malformed or absent document is never fatal — the
// loader falls back to Default() field by field.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	fierrors "github.com/byronwade/filerisk/internal/errors"
)

// Thresholds bounds coupling percent, drift days, analysis window, and max
// files per commit, per §3.
type Thresholds struct {
	CouplingPercent  int `yaml:"coupling_percent" mapstructure:"coupling_percent"`
	DriftDays        int `yaml:"drift_days" mapstructure:"drift_days"`
	Window           int `yaml:"window"`
	MaxFilesPerCommit int `yaml:"max_files_per_commit" mapstructure:"max_files_per_commit"`
}

// RiskWeights carries the four compound-risk component weights. Validate
// checks only their sum: a sum that is not positive or exceeds 1.0 resets all
// four to the defaults; individual weights are not bounded.
type RiskWeights struct {
	Volatility float64 `yaml:"volatility"`
	Coupling   float64 `yaml:"coupling"`
	Drift      float64 `yaml:"drift"`
	Importers  float64 `yaml:"importers"`
}

// Config is the optional record described in §3 Configuration.
type Config struct {
	Thresholds     Thresholds        `yaml:"thresholds"`
	IgnorePatterns []string          `yaml:"ignore_patterns" mapstructure:"ignore_patterns"`
	PanicKeywords  map[string]int    `yaml:"panic_keywords" mapstructure:"panic_keywords"`
	Weights        RiskWeights       `yaml:"weights"`
}

const (
	minCouplingPercent, maxCouplingPercent   = 0, 100
	minDriftDays, maxDriftDays               = 1, 365
	minWindow, maxWindow                     = 10, 500
	minFilesPerCommit, maxFilesPerCommit     = 5, 100
)

// Default returns the hard-coded defaults referenced by §4.2's adaptive
// baseline (coupling=15%, drift=7d, window=50) and a max-files-per-commit of
// 15, matched to §4.3.1's bulk-commit cutoff.
func Default() *Config {
	return &Config{
		Thresholds: Thresholds{
			CouplingPercent:   15,
			DriftDays:         7,
			Window:            50,
			MaxFilesPerCommit: 15,
		},
		IgnorePatterns: nil,
		PanicKeywords:  map[string]int{},
		Weights: RiskWeights{
			Volatility: 0.35,
			Coupling:   0.30,
			Drift:      0.20,
			Importers:  0.15,
		},
	}
}

// configFileNames are searched, in order, at the repository root.
var configFileNames = []string{".filerisk.yml", ".filerisk.yaml"}

// Load searches repoRoot for a configuration document, merges it over
// Default(), applies environment-variable threshold overrides loaded via
// godotenv/viper, and validates the result. Any error reading or decoding
// the document is treated identically to the document being absent (§7
// Configuration error) — Load itself never returns an error for that case.
func Load(repoRoot string) (*Config, error) {
	loadEnvFiles(repoRoot)

	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FILERISK")
	v.AutomaticEnv()

	found := false
	for _, name := range configFileNames {
		path := filepath.Join(repoRoot, name)
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			found = true
			break
		}
	}

	if found {
		if err := v.ReadInConfig(); err == nil {
			decoded := &Config{}
			if err := v.Unmarshal(decoded); err == nil {
				mergeOverDefault(cfg, decoded)
			}
			// A decode error is swallowed: the document is treated as absent.
		}
	}

	applyEnvOverrides(cfg)
	Validate(cfg)

	return cfg, nil
}

// mergeOverDefault copies any non-zero field of decoded onto base, leaving
// base's default for anything the document left unset.
func mergeOverDefault(base, decoded *Config) {
	if decoded.Thresholds.CouplingPercent != 0 {
		base.Thresholds.CouplingPercent = decoded.Thresholds.CouplingPercent
	}
	if decoded.Thresholds.DriftDays != 0 {
		base.Thresholds.DriftDays = decoded.Thresholds.DriftDays
	}
	if decoded.Thresholds.Window != 0 {
		base.Thresholds.Window = decoded.Thresholds.Window
	}
	if decoded.Thresholds.MaxFilesPerCommit != 0 {
		base.Thresholds.MaxFilesPerCommit = decoded.Thresholds.MaxFilesPerCommit
	}
	if len(decoded.IgnorePatterns) > 0 {
		base.IgnorePatterns = decoded.IgnorePatterns
	}
	for k, w := range decoded.PanicKeywords {
		base.PanicKeywords[k] = w
	}
	if decoded.Weights != (RiskWeights{}) {
		base.Weights = decoded.Weights
	}
}

// loadEnvFiles loads .env.local then .env from the repository root, in that
// precedence order, before environment overrides are read.
func loadEnvFiles(repoRoot string) {
	for _, name := range []string{".env.local", ".env"} {
		path := filepath.Join(repoRoot, name)
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// applyEnvOverrides applies FILERISK_-prefixed environment overrides to the
// four threshold fields and appends comma-separated FILERISK_IGNORE_PATTERNS
// to the ignore patterns.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FILERISK_COUPLING_PERCENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thresholds.CouplingPercent = n
		}
	}
	if v := os.Getenv("FILERISK_DRIFT_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thresholds.DriftDays = n
		}
	}
	if v := os.Getenv("FILERISK_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thresholds.Window = n
		}
	}
	if v := os.Getenv("FILERISK_MAX_FILES_PER_COMMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Thresholds.MaxFilesPerCommit = n
		}
	}
	if v := os.Getenv("FILERISK_IGNORE_PATTERNS"); v != "" {
		cfg.IgnorePatterns = append(cfg.IgnorePatterns, strings.Split(v, ",")...)
	}
}

// Validate resets each out-of-range threshold to its Default() value rather
// than rejecting the document, matching §6: "out-of-range is treated the same
// as absent for that field."
func Validate(cfg *Config) {
	d := Default()
	cfg.Thresholds.CouplingPercent = clamp(cfg.Thresholds.CouplingPercent, minCouplingPercent, maxCouplingPercent, d.Thresholds.CouplingPercent)
	cfg.Thresholds.DriftDays = clamp(cfg.Thresholds.DriftDays, minDriftDays, maxDriftDays, d.Thresholds.DriftDays)
	cfg.Thresholds.Window = clamp(cfg.Thresholds.Window, minWindow, maxWindow, d.Thresholds.Window)
	cfg.Thresholds.MaxFilesPerCommit = clamp(cfg.Thresholds.MaxFilesPerCommit, minFilesPerCommit, maxFilesPerCommit, d.Thresholds.MaxFilesPerCommit)

	sum := cfg.Weights.Volatility + cfg.Weights.Coupling + cfg.Weights.Drift + cfg.Weights.Importers
	if sum <= 0 || sum > 1.0001 {
		cfg.Weights = d.Weights
	}
}

func clamp(v, min, max, fallback int) int {
	if v < min || v > max {
		return fallback
	}
	return v
}

// LoadOrError wraps Load for callers that want a *fierrors.Error on the
// (normally unreachable) I/O failure path rather than swallowing silently.
func LoadOrError(repoRoot string) (*Config, error) {
	cfg, err := Load(repoRoot)
	if err != nil {
		return nil, fierrors.NewConfigurationError(err, "failed to load configuration")
	}
	return cfg, nil
}
