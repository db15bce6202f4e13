package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/internal/ui/pretty"
	"github.com/yaklabco/peek/pkg/config"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/target"
)

// ErrNoLine is returned when no result line is given.
var ErrNoLine = errors.New("no result line given")

// previewFlags holds the flags for the preview command.
type previewFlags struct {
	sessionFlags
	format string
}

func newPreviewCommand() *cobra.Command {
	flags := &previewFlags{}

	cmd := &cobra.Command{
		Use:   "preview [line]",
		Short: "Preview one fuzzy-finder result line",
		Long: `Resolve a result line with the given provider and print its preview.

The line is read from the first argument, or from the first line of stdin
when no argument is given. JSON output carries the lines, highlight spans,
the highlighted line index and the scrollbar for an editor to draw.

Examples:
  peek preview README.md
  peek preview -p grep 'main.go:12:3:func main() {'
  rg --vimgrep foo | head -1 | peek preview -p grep --format pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, flags, args)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(config.FormatJSON), "Output format: json or pretty")

	return cmd
}

func runPreview(cmd *cobra.Command, flags *previewFlags, args []string) error {
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

	previewer, err := preview.New(sess.pctx, sess.registry, line, sess.options)
	if err != nil {
		return err
	}

	tgt, out, err := previewer.Get(sess.ctx)
	if err != nil {
		return err
	}

	sess.logger.Debug("previewed",
		logging.FieldLine, line,
		logging.FieldTarget, tgt.String(),
	)

	w := cmd.OutOrStdout()
	if sess.cfg.Format == config.FormatPretty {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))
		_, err := io.WriteString(w, styles.FormatPreview(*out, pretty.PreviewOptions{
			Width:  sess.cfg.Display.LineWidth,
			Header: tgt.Kind() != target.KindGitCommit,
			Border: sess.cfg.BorderEnabled(),
		}))
		return err
	}

	return writeJSON(w, out)
}

// inputLine returns the line from args, or the first line of r.
func inputLine(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	return "", ErrNoLine
}

// colorMode returns the --color flag, defaulting to auto.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
