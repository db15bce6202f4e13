package tags

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/peek/pkg/fsutil"
)

// HeadingKind is the Tag kind of Markdown headings.
const HeadingKind = "heading"

//nolint:gochecknoglobals // Read-only extension list.
var markdownExtensions = []string{".md", ".markdown", ".mdown", ".mkd"}

// Markdown is a Lookup that returns the section heading enclosing a line of
// a Markdown document.
type Markdown struct {
	// MaxBytes caps the size of parsed files. Zero means fsutil.MaxSourceBytes.
	MaxBytes int64

	md goldmark.Markdown
}

// NewMarkdown returns a lookup parsing GitHub flavored Markdown.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// ContextTag returns the last heading at or above line. Files that are not
// Markdown fail with ErrNoGrammar.
func (m *Markdown) ContextTag(ctx context.Context, path string, line int) (*Tag, error) {
	if !slices.Contains(markdownExtensions, strings.ToLower(filepath.Ext(path))) {
		return nil, fmt.Errorf("%w: %s", ErrNoGrammar, path)
	}

	limit := m.MaxBytes
	if limit == 0 {
		limit = fsutil.MaxSourceBytes
	}

	src, _, err := fsutil.ReadFile(ctx, path, limit)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	return m.FindHeading(ctx, src, line)
}

// FindHeading returns the innermost section heading of src that encloses
// the 1-based line, or nil when the line precedes every heading.
func (m *Markdown) FindHeading(ctx context.Context, src []byte, line int) (*Tag, error) {
	md := m.md
	if md == nil {
		md = goldmark.New(goldmark.WithExtensions(extension.GFM))
	}

	doc := md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context lookup: %w", err)
	}

	var best *Tag
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		start := bytes.Count(src[:heading.Lines().At(0).Start], []byte{'\n'})
		if start+1 > line {
			return ast.WalkStop, nil
		}

		pattern := sourceLine(src, start)
		best = &Tag{
			Name:       headingName(pattern),
			Kind:       HeadingKind,
			LineNumber: start + 1,
			Pattern:    pattern,
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return best, nil
}

// headingName strips ATX markers from a heading line.
func headingName(pattern string) string {
	name := strings.TrimSpace(pattern)
	name = strings.TrimLeft(name, "#")
	name = strings.TrimRight(name, "#")
	return strings.TrimSpace(name)
}
