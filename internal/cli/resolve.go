package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/internal/ui/pretty"
	"github.com/yaklabco/peek/pkg/config"
	"github.com/yaklabco/peek/pkg/target"
)

// resolveFlags holds the flags for the resolve command.
type resolveFlags struct {
	sessionFlags
	format string
}

// resolvedOutput is the JSON form of a resolved line.
type resolvedOutput struct {
	Target       target.Target `json:"target"`
	ObservedLine *string       `json:"observed_line,omitempty"`
}

func newResolveCommand() *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve [line]",
		Short: "Show the target a result line points to",
		Long: `Resolve a result line with the given provider without building a preview.

Prints the target kind with its path, line, revision or help topic, plus the
matched text reported by grep-like providers.

Examples:
  peek resolve -p grep 'src/app.go:10:1:func run() error {'
  peek resolve -p commits '* 2024-01-02 1a2b3c4 Fix typo' --format pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, flags, args)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(config.FormatJSON), "Output format: json or pretty")

	return cmd
}

func runResolve(cmd *cobra.Command, flags *resolveFlags, args []string) error {
	line, err := inputLine(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cliCfg := flags.cliConfig(cmd)
	cliCfg.Format = config.OutputFormat(flags.format)

	sess, err := openSession(cmd, &flags.sessionFlags, cliCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			sess.logger.Warn("close session", logging.FieldError, cerr)
		}
	}()

	resolved, err := sess.registry.Resolve(sess.pctx.Provider, line, sess.pctx.TargetEnv())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if sess.cfg.Format != config.FormatPretty {
		return writeJSON(w, resolvedOutput{Target: resolved.Target, ObservedLine: resolved.ObservedLine})
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))
	return writeResolved(w, styles, resolved)
}

func writeResolved(w io.Writer, styles *pretty.Styles, resolved target.Resolved) error {
	rows := [][2]string{{"Kind", resolved.Target.Kind().String()}}

	tgt := resolved.Target
	switch tgt.Kind() {
	case target.KindDirectory, target.KindFile:
		path, _ := tgt.Path()
		rows = append(rows, [2]string{"Path", path})
	case target.KindLineInFile:
		path, _ := tgt.Path()
		rows = append(rows,
			[2]string{"Path", path},
			[2]string{"Line", fmt.Sprint(tgt.Line())},
		)
	case target.KindGitCommit:
		rows = append(rows, [2]string{"Revision", tgt.Revision()})
	case target.KindHelpTags:
		help := tgt.Help()
		rows = append(rows,
			[2]string{"Subject", help.Subject},
			[2]string{"Doc", help.DocFilename},
		)
	}

	if resolved.ObservedLine != nil {
		rows = append(rows, [2]string{"Observed", *resolved.ObservedLine})
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s %s\n",
			styles.Bold.Render(fmt.Sprintf("%-9s", row[0]+":")), row[1]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
