package preview_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/scrollbar"
)

func TestPreviewJSON(t *testing.T) {
	t.Parallel()

	t.Run("zero value", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(preview.Preview{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lines": []}`, string(data))
	})

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()

		hi := 3
		p := preview.Preview{
			Lines:      []string{"a", "b"},
			SyntaxInfo: preview.SyntaxName("go"),
			HiLnum:     &hi,
			Scrollbar:  &scrollbar.Bar{Top: 1, Length: 4},
		}

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"lines": ["a", "b"],
			"vim_syntax_info": {"syntax": "go", "fname": ""},
			"hi_lnum": 3,
			"scrollbar": [1, 4]
		}`, string(data))
	})

	t.Run("highlights", func(t *testing.T) {
		t.Parallel()

		p := preview.FromLines([]string{"x"})
		p.ApplyHighlights(highlight.TreeSitter{Lines: []highlight.Line{
			{Line: 2, Spans: []highlight.Span{{Offset: 0, Length: 3, Group: "Keyword"}}},
		}}, "main.go", "main.go")

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"lines": ["x"],
			"tree_sitter_highlights": [[2, [[0, 3, "Keyword"]]]]
		}`, string(data))
	})
}

func TestApplyHighlights(t *testing.T) {
	t.Parallel()

	sublime := []highlight.Line{{Line: 3, Spans: []highlight.Span{{Offset: 0, Length: 1, Group: "g"}}}}

	tests := []struct {
		name        string
		outcome     highlight.Outcome
		path        string
		wantSublime bool
		wantTS      bool
		wantInfo    preview.SyntaxInfo
	}{
		{name: "sublime", outcome: highlight.Sublime{Lines: sublime}, path: "a.go", wantSublime: true},
		{name: "tree-sitter", outcome: highlight.TreeSitter{Lines: sublime}, path: "a.go", wantTS: true},
		{name: "neither known syntax", outcome: highlight.Neither{}, path: "a.go", wantInfo: preview.SyntaxName("go")},
		{name: "neither unknown syntax", outcome: highlight.Neither{}, path: "a.zzzunknown", wantInfo: preview.SyntaxFromFname("a.zzzunknown")},
		{name: "nil outcome", outcome: nil, path: "a.zzzunknown", wantInfo: preview.SyntaxFromFname("a.zzzunknown")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Start from a preview carrying every field to check they are reset.
			p := preview.Preview{
				SublimeHighlights:    sublime,
				TreeSitterHighlights: sublime,
				SyntaxInfo:           preview.SyntaxName("stale"),
			}
			p.ApplyHighlights(tt.outcome, tt.path, tt.path)

			assert.Equal(t, tt.wantSublime, len(p.SublimeHighlights) > 0)
			assert.Equal(t, tt.wantTS, len(p.TreeSitterHighlights) > 0)
			assert.False(t, len(p.SublimeHighlights) > 0 && len(p.TreeSitterHighlights) > 0)
			assert.Equal(t, tt.wantInfo, p.SyntaxInfo)
		})
	}
}

func TestSyntaxInfo(t *testing.T) {
	t.Parallel()

	assert.True(t, preview.SyntaxInfo{}.IsEmpty())
	assert.False(t, preview.SyntaxName("diff").IsEmpty())
	assert.False(t, preview.SyntaxFromFname("x.txt").IsEmpty())
}
