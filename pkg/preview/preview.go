// Package preview builds the preview shown next to a fuzzy-finder result:
// it resolves the result line, reads the excerpt, decorates it and caches
// the outcome per target.
package preview

import (
	"encoding/json"
	"strings"

	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/langdetect"
	"github.com/yaklabco/peek/pkg/scrollbar"
)

// Placeholder lines rendered instead of blank output.
const (
	EmptyFile      = "<Empty file>"
	EmptyDirectory = "<Empty directory>"
	HelpNotFound   = "Can not find the preview help lines"
)

// SyntaxInfo tells the host how to highlight a preview without spans. At
// most one field is set.
type SyntaxInfo struct {
	// Syntax is a syntax name such as "go" or "diff".
	Syntax string `json:"syntax"`

	// Fname is a file name the host derives the syntax from.
	Fname string `json:"fname"`
}

// SyntaxName returns info naming a syntax.
func SyntaxName(syntax string) SyntaxInfo {
	return SyntaxInfo{Syntax: syntax}
}

// SyntaxFromFname returns info naming a file.
func SyntaxFromFname(fname string) SyntaxInfo {
	return SyntaxInfo{Fname: fname}
}

// IsEmpty reports whether neither field is set.
func (s SyntaxInfo) IsEmpty() bool {
	return s.Syntax == "" && s.Fname == ""
}

// Preview is the rendered preview. The zero value is an empty preview.
type Preview struct {
	// Lines is the text shown, including synthesized header and context lines.
	Lines []string `json:"lines"`

	// SyntaxInfo is set only when there are no highlight spans.
	SyntaxInfo SyntaxInfo `json:"vim_syntax_info,omitzero"`

	// SublimeHighlights holds grammar engine spans.
	SublimeHighlights []highlight.Line `json:"sublime_syntax_highlights,omitempty"`

	// TreeSitterHighlights holds tree-sitter engine spans.
	TreeSitterHighlights []highlight.Line `json:"tree_sitter_highlights,omitempty"`

	// HiLnum is the 0-based index in Lines of the matched line. Lines[0]
	// is the header, so it is also the 1-based row below the header.
	HiLnum *int `json:"hi_lnum,omitempty"`

	// Scrollbar is the thumb drawn next to the preview.
	Scrollbar *scrollbar.Bar `json:"scrollbar,omitempty"`
}

// FromLines returns a preview showing lines.
func FromLines(lines []string) Preview {
	return Preview{Lines: lines}
}

type previewJSON Preview

// MarshalJSON encodes the preview, always emitting lines as an array.
func (p Preview) MarshalJSON() ([]byte, error) {
	out := previewJSON(p)
	if out.Lines == nil {
		out.Lines = []string{}
	}
	return json.Marshal(out)
}

// ApplyHighlights stores outcome in p. When no engine produced spans the
// syntax info falls back to the syntax of path, then to fname.
func (p *Preview) ApplyHighlights(outcome highlight.Outcome, path, fname string) {
	p.SublimeHighlights = nil
	p.TreeSitterHighlights = nil
	p.SyntaxInfo = SyntaxInfo{}

	switch out := outcome.(type) {
	case highlight.Sublime:
		p.SublimeHighlights = out.Lines
	case highlight.TreeSitter:
		p.TreeSitterHighlights = out.Lines
	default:
		p.SyntaxInfo = fallbackSyntax(path, fname)
	}
}

func fallbackSyntax(path, fname string) SyntaxInfo {
	if syntax, ok := langdetect.SyntaxFor(path); ok {
		return SyntaxName(syntax)
	}
	return SyntaxFromFname(fname)
}

// contentSyntax names the syntax of path, consulting its first lines when
// the name is not conclusive.
func contentSyntax(path string, head []string) SyntaxInfo {
	if syntax, ok := langdetect.SyntaxForContent(path, []byte(strings.Join(head, "\n"))); ok {
		return SyntaxName(syntax)
	}
	return SyntaxFromFname(path)
}

func intPtr(n int) *int {
	return &n
}
