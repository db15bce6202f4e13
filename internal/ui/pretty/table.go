package pretty

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/peek/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minLineWidth     = 20
	kindColumnWidth  = 12
	stateColumnWidth = 6
	heavySeparator   = "="
	defaultTermWidth = 100
	ellipsis         = "…"
)

// Cache states shown in the STATE column.
const (
	stateHit   = "hit"
	stateMiss  = "miss"
	stateError = "error"
)

// TableFormatter formats warm outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatTable formats one row per input line: the line, the target kind,
// the cache state and, for failures, the error.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Lines) == 0 {
		return ""
	}

	lineWidth := max(t.termWidth-kindColumnWidth-stateColumnWidth-2*tablePadding, minLineWidth)
	gap := strings.Repeat(" ", tablePadding)

	var builder strings.Builder

	builder.WriteString(t.styles.TableHeader.Render(
		pad("LINE", lineWidth) + gap + pad("KIND", kindColumnWidth) + gap + "STATE"))
	builder.WriteString("\n")
	builder.WriteString(t.separator(lineWidth))
	builder.WriteString("\n")

	for _, outcome := range result.Lines {
		kind := "-"
		if outcome.Error == nil {
			kind = outcome.Target.Kind().String()
		}

		builder.WriteString(pad(runewidth.Truncate(outcome.Line, lineWidth, ellipsis), lineWidth))
		builder.WriteString(gap)
		builder.WriteString(t.styles.Dim.Render(pad(kind, kindColumnWidth)))
		builder.WriteString(gap)
		builder.WriteString(t.state(outcome))
		builder.WriteString("\n")

		if outcome.Error != nil {
			builder.WriteString("  ")
			builder.WriteString(t.styles.TableError.Render(outcome.Error.Error()))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.separator(lineWidth))
	builder.WriteString("\n")

	return builder.String()
}

func (t *TableFormatter) state(outcome runner.LineOutcome) string {
	switch {
	case outcome.Error != nil:
		return t.styles.TableError.Render(stateError)
	case outcome.CacheHit:
		return t.styles.TableHit.Render(stateHit)
	default:
		return t.styles.TableMiss.Render(stateMiss)
	}
}

func (t *TableFormatter) separator(lineWidth int) string {
	total := lineWidth + kindColumnWidth + stateColumnWidth + 2*tablePadding
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total))
}

// pad right-pads s with spaces to width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
