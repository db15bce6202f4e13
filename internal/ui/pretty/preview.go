package pretty

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/scrollbar"
)

// Preview gutter glyphs.
const (
	markerCurrent = ">"
	markerNone    = " "
	thumbGlyph    = "\u2503"
	trackGlyph    = "\u2502"
)

// treeSitterColors maps tree-sitter highlight groups to ANSI colors.
//
//nolint:gochecknoglobals // Read-only lookup table.
var treeSitterColors = map[string]string{
	highlight.GroupComment:     "8",
	highlight.GroupString:      "10",
	highlight.GroupSpecialChar: "13",
	highlight.GroupNumber:      "13",
	highlight.GroupBoolean:     "13",
	highlight.GroupConstant:    "13",
	highlight.GroupType:        "11",
	highlight.GroupFunction:    "12",
	highlight.GroupKeyword:     "9",
	highlight.GroupMacro:       "14",
	highlight.GroupLabel:       "14",
}

// PreviewOptions controls how a preview is drawn in a terminal.
type PreviewOptions struct {
	// Width is the display width lines are cut to. Zero means the widest
	// line.
	Width int

	// Header styles the first line as a title.
	Header bool

	// Border draws a frame around the preview.
	Border bool
}

// FormatPreview renders p with its highlight spans, a marker on the
// matched line and the scrollbar in the rightmost column.
func (s *Styles) FormatPreview(p preview.Preview, opts PreviewOptions) string {
	width := opts.Width
	if width <= 0 {
		for _, line := range p.Lines {
			width = max(width, runewidth.StringWidth(line))
		}
	}

	spans := s.spansByIndex(p)
	current := -1
	if p.HiLnum != nil {
		current = *p.HiLnum
	}

	rows := make([]string, 0, len(p.Lines))
	for idx, line := range p.Lines {
		text := runewidth.Truncate(line, width, "")
		pad := strings.Repeat(" ", max(width-runewidth.StringWidth(text), 0))

		var row strings.Builder
		if idx == current {
			row.WriteString(s.Highlighted.Render(markerCurrent))
		} else {
			row.WriteString(markerNone)
		}
		row.WriteByte(' ')

		switch {
		case idx == 0 && opts.Header:
			row.WriteString(s.Header.Render(text))
		case len(spans[idx]) > 0:
			row.WriteString(s.paint(text, spans[idx], p.SublimeHighlights != nil))
		default:
			row.WriteString(s.Body.Render(text))
		}

		if p.Scrollbar != nil {
			row.WriteString(pad + " " + s.scrollbarCell(idx, *p.Scrollbar))
		}

		rows = append(rows, row.String())
	}

	out := strings.Join(rows, "\n")
	if opts.Border {
		return s.Frame.Render(out)
	}
	return out + "\n"
}

// spansByIndex keys highlight spans by 0-based index in Lines. Grammar
// engine lines are 1-based; tree-sitter lines are 0-based.
func (s *Styles) spansByIndex(p preview.Preview) map[int][]highlight.Span {
	out := make(map[int][]highlight.Span)
	for _, l := range p.SublimeHighlights {
		out[l.Line-1] = l.Spans
	}
	for _, l := range p.TreeSitterHighlights {
		out[l.Line] = l.Spans
	}
	return out
}

// paint applies spans (byte ranges) to line. Overlapping spans and spans
// that do not start on a rune boundary are skipped.
func (s *Styles) paint(line string, spans []highlight.Span, sublime bool) string {
	sorted := make([]highlight.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var b strings.Builder
	cursor := 0
	for _, span := range sorted {
		if span.Offset < cursor || span.Offset >= len(line) || span.Length <= 0 {
			continue
		}
		end := min(span.Offset+span.Length, len(line))
		if !utf8.RuneStart(line[span.Offset]) || (end < len(line) && !utf8.RuneStart(line[end])) {
			continue
		}

		b.WriteString(line[cursor:span.Offset])
		b.WriteString(s.groupStyle(span.Group, sublime).Render(line[span.Offset:end]))
		cursor = end
	}
	b.WriteString(line[cursor:])

	return b.String()
}

// groupStyle returns the style for a highlight group. Grammar engine
// groups carry their color in the name.
func (s *Styles) groupStyle(group string, sublime bool) lipgloss.Style {
	if !s.colorEnabled {
		return lipgloss.NewStyle()
	}

	if sublime {
		hex, ok := strings.CutPrefix(group, highlight.GroupPrefix)
		if !ok {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#" + hex))
	}

	color, ok := treeSitterColors[group]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (s *Styles) scrollbarCell(row int, bar scrollbar.Bar) string {
	if row >= bar.Top && row < bar.Top+bar.Length {
		return s.Thumb.Render(thumbGlyph)
	}
	return s.Gutter.Render(trackGlyph)
}
