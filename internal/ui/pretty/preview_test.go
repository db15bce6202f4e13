package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/internal/ui/pretty"
	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/scrollbar"
)

func intp(n int) *int { return &n }

func samplePreview() preview.Preview {
	return preview.Preview{
		Lines:     []string{"main.go:3", "package main", "", "func main() {}"},
		HiLnum:    intp(3),
		Scrollbar: &scrollbar.Bar{Top: 1, Length: 2},
	}
}

func TestFormatPreview_Plain(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatPreview(samplePreview(), pretty.PreviewOptions{Header: true})

	want := strings.Join([]string{
		"  main.go:3      │",
		"  package main   ┃",
		"                 ┃",
		"> func main() {} │",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestFormatPreview_NoScrollbar(t *testing.T) {
	t.Parallel()

	p := samplePreview()
	p.Scrollbar = nil
	p.HiLnum = nil

	out := pretty.NewStyles(false).FormatPreview(p, pretty.PreviewOptions{})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  package main", lines[1])
	assert.NotContains(t, out, ">")
}

func TestFormatPreview_Truncates(t *testing.T) {
	t.Parallel()

	p := preview.FromLines([]string{"main.go:3", "日本語のテキスト"})
	out := pretty.NewStyles(false).FormatPreview(p, pretty.PreviewOptions{Width: 6})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  main.g", lines[0])
	assert.Equal(t, "  日本語", lines[1])
}

func TestFormatPreview_Spans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    preview.Preview
	}{
		{
			name: "sublime lines are 1-based",
			p: preview.Preview{
				Lines: []string{"main.go", "package main"},
				SublimeHighlights: []highlight.Line{
					{Line: 2, Spans: []highlight.Span{{Offset: 0, Length: 7, Group: highlight.GroupPrefix + "ff79c6"}}},
				},
			},
		},
		{
			name: "tree-sitter lines are 0-based",
			p: preview.Preview{
				Lines: []string{"main.go", "package main"},
				TreeSitterHighlights: []highlight.Line{
					{Line: 1, Spans: []highlight.Span{{Offset: 0, Length: 7, Group: highlight.GroupKeyword}}},
				},
			},
		},
		{
			name: "out of range spans are ignored",
			p: preview.Preview{
				Lines: []string{"main.go", "package main"},
				TreeSitterHighlights: []highlight.Line{
					{Line: 1, Spans: []highlight.Span{
						{Offset: 40, Length: 3, Group: highlight.GroupKeyword},
						{Offset: 0, Length: 0, Group: highlight.GroupKeyword},
					}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, color := range []bool{false, true} {
				out := pretty.NewStyles(color).FormatPreview(tt.p, pretty.PreviewOptions{})
				assert.Contains(t, out, "package")
				assert.Contains(t, out, " main")
			}
		})
	}
}

func TestFormatPreview_Border(t *testing.T) {
	t.Parallel()

	out := pretty.NewStyles(false).FormatPreview(samplePreview(), pretty.PreviewOptions{Border: true})
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "main.go:3")
}
