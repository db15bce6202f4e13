package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/peek/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats warm statistics as a single line.
// Example: "120 lines previewed, 80 cached, 40 computed, 2 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Lines == 0 {
		return s.Dim.Render("No lines to preview") + "\n"
	}

	lineWord := "lines"
	if stats.Previewed == 1 {
		lineWord = "line"
	}

	parts := []string{
		fmt.Sprintf("%d %s previewed", stats.Previewed, lineWord),
		s.TableHit.Render(fmt.Sprintf("%d cached", stats.Hits)),
		s.TableMiss.Render(fmt.Sprintf("%d computed", stats.Misses)),
	}
	if stats.Failures > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.Failures)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats warm statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	rows := []struct {
		label string
		value int
		style func(...string) string
	}{
		{"Lines:", stats.Lines, s.SummaryValue.Render},
		{"Targets:", stats.Targets, s.SummaryValue.Render},
		{"Cache hits:", stats.Hits, s.TableHit.Render},
		{"Computed:", stats.Misses, s.TableMiss.Render},
		{"Failures:", stats.Failures, s.Failure.Render},
	}
	for _, row := range rows {
		if row.label == "Failures:" && row.value == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("  %-12s %s\n", row.label, row.style(strconv.Itoa(row.value))))
	}

	builder.WriteString("\n")

	switch {
	case stats.Failures > 0:
		builder.WriteString(s.Failure.Render("Warm finished with failures"))
	case stats.Lines == 0:
		builder.WriteString(s.Warning.Render("Nothing to warm"))
	default:
		builder.WriteString(s.Success.Render("Cache warmed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
