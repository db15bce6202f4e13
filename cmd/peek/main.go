// Package main is the entry point for the peek CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/peek/internal/cli"
	"github.com/yaklabco/peek/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// The warm summary already lists failed lines.
		if errors.Is(err, cli.ErrWarmFailures) {
			return cli.ExitWarmFailures
		}
		logging.Default().Error("command failed", logging.FieldError, err)
		return cli.ExitInternalError
	}

	return cli.ExitSuccess
}
