package grepcache

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/jobs"
	"github.com/yaklabco/peek/pkg/preview"
)

// RefreshedMessage is shown once a stale index has been regenerated.
const RefreshedMessage = "Out-dated cache refreshed"

var _ preview.StaleGuard = (*Guard)(nil)

// Guard refreshes the index of a session when a result line no longer
// matches the file it points to. It satisfies preview.StaleGuard.
type Guard struct {
	pctx      *preview.Context
	refresher *Refresher
	registry  *jobs.Registry
	logger    *log.Logger

	wg sync.WaitGroup
}

// NewGuard returns a guard for the session pctx. Refreshes are
// deduplicated through registry; nil means a private registry.
func NewGuard(pctx *preview.Context, refresher *Refresher, registry *jobs.Registry) *Guard {
	if registry == nil {
		registry = jobs.NewRegistry()
	}
	return &Guard{pctx: pctx, refresher: refresher, registry: registry}
}

// WithLogger sets the logger used by background refreshes.
func (g *Guard) WithLogger(logger *log.Logger) *Guard {
	g.logger = logger
	return g
}

// Restore publishes the index recorded for the session directory as the
// provider source. It reports false when no index was recorded or the
// refresher has no store.
func (g *Guard) Restore(ctx context.Context) (bool, error) {
	if g.refresher.Store == nil {
		return false, nil
	}

	digest, ok, err := g.refresher.Store.Get(ctx, g.pctx.Cwd, g.refresher.ShellCommand())
	if err != nil || !ok {
		return false, err
	}

	g.pctx.SetProviderSource(preview.ProviderSource{
		Kind:  preview.SourceCachedFile,
		Total: digest.Total,
		Path:  digest.CachedPath,
	})
	return true, nil
}

// Refreshing reports whether the index of the session directory is being
// regenerated.
func (g *Guard) Refreshing() bool {
	return g.registry.InFlight(g.refresher.JobID(g.pctx.Cwd))
}

// Check starts a background refresh when observed differs from latest and
// no identical refresh is running. It reports whether a refresh started.
func (g *Guard) Check(ctx context.Context, observed, latest string) bool {
	if observed == latest {
		return false
	}

	logger := g.log(ctx)
	cwd := g.pctx.Cwd
	id := g.refresher.JobID(cwd)

	logger.Debug("grep cache is probably outdated",
		logging.FieldObserved, observed,
		logging.FieldLatest, latest,
	)

	release, ok := g.registry.Reserve(id)
	if !ok {
		logger.Debug("another refresh is running, skipping",
			logging.FieldWorkingDir, cwd,
			logging.FieldJobID, uint64(id),
		)
		return false
	}

	bg := logging.WithLogger(context.WithoutCancel(ctx), logger)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer release()

		g.refresh(bg, cwd, release)
	}()

	return true
}

func (g *Guard) refresh(ctx context.Context, cwd string, release func()) {
	logger := logging.FromContext(ctx)
	logger.Debug("refreshing grep cache", logging.FieldWorkingDir, cwd)

	digest, err := g.refresher.Refresh(ctx, cwd)
	if err != nil {
		logger.Error("failed to refresh grep cache", logging.FieldError, err)
		return
	}

	logger.Debug("refreshed grep cache", logging.FieldTotal, digest.Total)

	g.pctx.SetProviderSource(preview.ProviderSource{
		Kind:      preview.SourceCachedFile,
		Total:     digest.Total,
		Path:      digest.CachedPath,
		Refreshed: true,
	})
	release()

	if g.pctx.Terminated() {
		return
	}
	if err := g.pctx.EchoInfo(ctx, RefreshedMessage); err != nil {
		logger.Debug("could not notify refresh", logging.FieldError, err)
	}
}

// Wait blocks until every refresh started by Check has finished.
func (g *Guard) Wait() {
	g.wg.Wait()
}

func (g *Guard) log(ctx context.Context) *log.Logger {
	if g.logger != nil {
		return g.logger
	}
	if g.pctx.Logger != nil {
		return g.pctx.Logger
	}
	return logging.FromContext(ctx)
}
