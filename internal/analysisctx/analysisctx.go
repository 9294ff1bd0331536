// Package analysisctx builds the per-request AnalysisContext described in
// §4.2: repository root resolution must complete before configuration,
// project metrics, and the ignore filter are built, because all three
// downstream steps consume the root. Orchestration style is grounded on the
// teacher's internal/analysis/phase0.RunPhase0 staged-decision flow.
package analysisctx

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/byronwade/filerisk/internal/cache"
	"github.com/byronwade/filerisk/internal/config"
	fierrors "github.com/byronwade/filerisk/internal/errors"
	"github.com/byronwade/filerisk/internal/git"
	"github.com/byronwade/filerisk/internal/ignore"
	"github.com/byronwade/filerisk/internal/logging"
	"github.com/byronwade/filerisk/internal/projectmetrics"
)

// Context carries everything the engines, volatility, drift, and history
// packages need for one request, built once and passed by reference. Cache
// is process-global (shared across requests, §5 Shared resource policy);
// the rest is written once per request lifetime and read-only thereafter.
type Context struct {
	RequestID  string
	TargetPath string
	RepoRoot   string
	Config     *config.Config
	Metrics    projectmetrics.Metrics
	Thresholds config.Thresholds
	Ignore     *ignore.Filter
	Cache      *cache.Manager
	Log        *logging.Logger
}

// sharedCache is the process-global cache instance every request's Context
// points at.
var sharedCache = cache.NewManager(nil)

// ensureLogger lazily initialises the package-global structured logger the
// first time a request builds a Context, matching §6's "package-level
// default logger guarded by sync.Once".
func ensureLogger() {
	_ = logging.Initialize(logging.DefaultConfig(false))
}

// Build resolves the repository root for targetDir, then loads
// configuration and samples project metrics concurrently, and compiles the
// ignore filter once configuration is available.
//
// Root resolution failure is fatal and reported as an Environment error
// ("not a repository"), matching §4.2.
func Build(ctx context.Context, targetDir string) (*Context, error) {
	ensureLogger()
	requestID := uuid.NewString()

	root, err := git.RepoRoot(ctx, targetDir)
	if err != nil {
		return nil, fierrors.NewEnvironmentError("not a repository")
	}

	ac := &Context{RepoRoot: root, RequestID: requestID, TargetPath: targetDir}
	if base := logging.With("component", "analysisctx"); base != nil {
		ac.Log = base.ForRequest(requestID, targetDir)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		ac.Config = cfg
		return nil
	})

	g.Go(func() error {
		ac.Metrics = projectmetrics.Probe(gctx, root)
		return nil
	})

	if err := g.Wait(); err != nil {
		if ac.Log != nil {
			ac.Log.Warn("failed to build analysis context", "error", err)
		}
		return nil, fierrors.NewEngineError(err, "failed to build analysis context")
	}

	ac.Thresholds = projectmetrics.AdaptiveThresholds(ac.Metrics, ac.Config)
	ac.Ignore = ignore.CompileCached(root, ac.Config.IgnorePatterns)
	ac.Cache = sharedCache

	if ac.Log != nil {
		ac.Log.Debug("analysis context built", "repo_root", root, "coupling_percent", ac.Thresholds.CouplingPercent)
	}

	return ac, nil
}
