package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/internal/ui/pretty"
	"github.com/yaklabco/peek/pkg/config"
	"github.com/yaklabco/peek/pkg/runner"
)

// ErrWarmFailures is returned when at least one line could not be previewed.
var ErrWarmFailures = errors.New("some lines could not be previewed")

// warmFlags holds the flags for the warm command.
type warmFlags struct {
	sessionFlags
	format         string
	jobs           int
	include        []string
	exclude        []string
	extensions     []string
	followSymlinks bool
	table          bool
}

// warmOutput is the JSON form of a warm run.
type warmOutput struct {
	Lines     int        `json:"lines"`
	Previewed int        `json:"previewed"`
	Hits      int        `json:"hits"`
	Misses    int        `json:"misses"`
	Failures  int        `json:"failures"`
	Targets   int        `json:"targets"`
	Errors    []lineFail `json:"errors,omitempty"`
}

type lineFail struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

func newWarmCommand() *cobra.Command {
	flags := &warmFlags{}

	cmd := &cobra.Command{
		Use:   "warm [paths...]",
		Short: "Compute previews ahead of time",
		Long: `Preview many result lines concurrently and report cache statistics.

Lines are read from stdin when it is piped. Otherwise the files under the
given paths (default: the working directory) are listed the way the files
provider prints them.

Examples:
  peek warm                          Warm every file under the current directory
  peek warm --ext .go --ext .md src  Warm Go and Markdown files under src
  rg --vimgrep TODO | peek warm -p grep --table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWarm(cmd, flags, args)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(config.FormatPretty), "Output format: json or pretty")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Number of parallel previews (default: number of CPUs)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "Only list files matching these globs")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "Skip files and directories matching these globs")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "Only list files with these extensions")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "Follow directory symlinks")
	cmd.Flags().BoolVar(&flags.table, "table", false, "Show one row per line")

	return cmd
}

func runWarm(cmd *cobra.Command, flags *warmFlags, args []string) error {
	cliCfg := flags.cliConfig(cmd)
	cliCfg.Format = config.OutputFormat(flags.format)
	cliCfg.Jobs = flags.jobs

	sess, err := openSession(cmd, &flags.sessionFlags, cliCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			sess.logger.Warn("close session", logging.FieldError, cerr)
		}
	}()

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     sess.pctx.Cwd,
		Extensions:     flags.extensions,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           sess.cfg.Jobs,
	}

	var lines []string
	if len(args) == 0 {
		lines, err = pipedLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	if len(lines) == 0 {
		lines, err = runner.DiscoverLines(sess.ctx, runOpts)
		if err != nil {
			return fmt.Errorf("discover files: %w", err)
		}
	}

	sess.logger.Debug("starting warm run",
		logging.FieldLines, len(lines),
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(sess.pctx, sess.registry, sess.options).Run(sess.ctx, lines, runOpts)
	if err != nil {
		return err
	}

	if err := writeWarm(cmd, sess.cfg, flags.table, result); err != nil {
		return err
	}

	if result.HasFailures() {
		return ErrWarmFailures
	}
	return nil
}

func writeWarm(cmd *cobra.Command, cfg *config.Config, table bool, result *runner.Result) error {
	w := cmd.OutOrStdout()

	if cfg.Format != config.FormatPretty {
		out := warmOutput{
			Lines:     result.Stats.Lines,
			Previewed: result.Stats.Previewed,
			Hits:      result.Stats.Hits,
			Misses:    result.Stats.Misses,
			Failures:  result.Stats.Failures,
			Targets:   result.Stats.Targets,
		}
		for _, o := range result.Lines {
			if o.Error != nil {
				out.Errors = append(out.Errors, lineFail{Line: o.Line, Error: o.Error.Error()})
			}
		}
		return writeJSON(w, out)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))

	var builder strings.Builder
	if table {
		builder.WriteString(pretty.NewTableFormatter(styles, outputWidth(w)).FormatTable(result))
		builder.WriteString(styles.FormatSummaryOneLine(result.Stats))
	} else {
		builder.WriteString(styles.FormatSummary(result.Stats))
	}

	if _, err := io.WriteString(w, builder.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// pipedLines reads non-empty lines from r unless r is a terminal.
func pipedLines(r io.Reader) ([]string, error) {
	if f, ok := r.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return nil, nil
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}

// outputWidth returns the terminal width of w, or zero when w is not a
// terminal.
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
