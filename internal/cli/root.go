// Package cli provides the Cobra command structure for peek.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/peek/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root peek command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "peek",
		Short: "Preview fuzzy-finder results",
		Long: `peek builds the preview shown next to a fuzzy-finder result.

It resolves a result line into a file, a line in a file, a directory, a git
commit or a help tag, reads the excerpt around it and decorates it with a
title, context lines, syntax highlighting and a scrollbar. Previews are
printed as JSON for editors or rendered for the terminal.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newWarmCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
