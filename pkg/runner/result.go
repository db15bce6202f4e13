package runner

import (
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/target"
)

// LineOutcome is the result of previewing one line.
type LineOutcome struct {
	// Line is the raw result line.
	Line string

	// Target is the resolved target. It is the zero Target when resolution
	// failed.
	Target target.Target

	// Preview is nil when Error is set.
	Preview *preview.Preview

	// CacheHit is true when the preview was already cached.
	CacheHit bool

	// Error is set when the line could not be resolved or previewed.
	Error error
}

// Stats counts the outcomes of a run.
type Stats struct {
	// Lines is the number of lines submitted.
	Lines int

	// Previewed is the number of lines that produced a preview.
	Previewed int

	// Hits is the number of previews served from the cache.
	Hits int

	// Misses is the number of previews computed.
	Misses int

	// Failures is the number of lines that failed.
	Failures int

	// Targets is the number of distinct targets previewed.
	Targets int
}

// Result is the outcome of a run, in input order.
type Result struct {
	Lines []LineOutcome
	Stats Stats
}

// HasFailures reports whether any line failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Failures > 0
}

// Errors returns the errors of failed lines, in input order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}

	var errs []error
	for _, o := range r.Lines {
		if o.Error != nil {
			errs = append(errs, o.Error)
		}
	}
	return errs
}

func (r *Result) accumulate(outcome LineOutcome, seen map[target.Target]struct{}) {
	r.Lines = append(r.Lines, outcome)

	if outcome.Error != nil {
		r.Stats.Failures++
		return
	}

	r.Stats.Previewed++
	if outcome.CacheHit {
		r.Stats.Hits++
	} else {
		r.Stats.Misses++
	}

	if _, ok := seen[outcome.Target]; !ok {
		seen[outcome.Target] = struct{}{}
		r.Stats.Targets++
	}
}
