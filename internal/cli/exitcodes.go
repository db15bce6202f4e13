package cli

import "github.com/yaklabco/peek/pkg/runner"

// Exit codes for peek.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitWarmFailures indicates warm finished but some lines failed.
	ExitWarmFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code of a warm run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitWarmFailures
	}
	return ExitSuccess
}
