// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Preview fields.
	FieldProvider = "provider"
	FieldLine     = "line"
	FieldLnum     = "lnum"
	FieldTarget   = "target"
	FieldEngine   = "engine"
	FieldTheme    = "theme"
	FieldTimeout  = "timeout"
	FieldCacheHit = "cache_hit"

	// Grep cache fields.
	FieldObserved = "observed"
	FieldLatest   = "latest"
	FieldJobID    = "job_id"
	FieldTotal    = "total"
	FieldCommand  = "command"

	// Warm-up statistics.
	FieldJobs     = "jobs"
	FieldLines    = "lines"
	FieldHits     = "hits"
	FieldMisses   = "misses"
	FieldFailures = "failures"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
