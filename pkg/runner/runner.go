package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/target"
)

// Runner previews many lines of one session concurrently, filling the
// session cache.
type Runner struct {
	// Context is the session whose cache is warmed.
	Context *preview.Context

	// Registry resolves lines. Nil means target.DefaultRegistry().
	Registry *target.Registry

	// Preview configures every previewer.
	Preview preview.Options
}

// New returns a runner for the session pctx.
func New(pctx *preview.Context, registry *target.Registry, opts preview.Options) *Runner {
	if registry == nil {
		registry = target.DefaultRegistry()
	}
	return &Runner{Context: pctx, Registry: registry, Preview: opts}
}

type job struct {
	index int
	line  string
}

type done struct {
	index   int
	outcome LineOutcome
}

// Run previews lines with opts.Jobs workers and returns their outcomes in
// input order. Failed lines are recorded in the result, not returned as an
// error; the error is only set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, lines []string, opts Options) (*Result, error) {
	result := &Result{Lines: make([]LineOutcome, 0, len(lines))}
	result.Stats.Lines = len(lines)

	if len(lines) == 0 {
		return result, nil
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(lines))

	workCh := make(chan job)
	outCh := make(chan done)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for idx, line := range lines {
			select {
			case <-ctx.Done():
				return
			case workCh <- job{index: idx, line: line}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[int]LineOutcome, len(lines))
	for d := range outCh {
		outcomes[d.index] = d.outcome
	}

	seen := make(map[target.Target]struct{})
	for idx := range lines {
		if outcome, ok := outcomes[idx]; ok {
			result.accumulate(outcome, seen)
		}
	}

	logging.FromContext(ctx).Debug("warmed preview cache",
		logging.FieldLines, result.Stats.Lines,
		logging.FieldHits, result.Stats.Hits,
		logging.FieldMisses, result.Stats.Misses,
		logging.FieldFailures, result.Stats.Failures,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("warm cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan job, outCh chan<- done) {
	for j := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.previewLine(ctx, j.line)

		select {
		case <-ctx.Done():
			return
		case outCh <- done{index: j.index, outcome: outcome}:
		}
	}
}

// previewLine resolves and previews one line.
func (r *Runner) previewLine(ctx context.Context, line string) LineOutcome {
	outcome := LineOutcome{Line: line}

	p, err := preview.New(r.Context, r.Registry, line, r.Preview)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Target = p.Target()

	if r.Context.Cache != nil {
		_, outcome.CacheHit = r.Context.Cache.Get(outcome.Target)
	}

	_, out, err := p.Get(ctx)
	if err != nil {
		outcome.Error = fmt.Errorf("preview %s: %w", outcome.Target, err)
		return outcome
	}
	outcome.Preview = out

	return outcome
}
