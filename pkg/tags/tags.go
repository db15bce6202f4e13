// Package tags finds the structural element (function, type, class)
// enclosing a line of source code.
package tags

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/peek/pkg/fsutil"
	"github.com/yaklabco/peek/pkg/grammar"
)

// ErrNoGrammar is returned for files no grammar is registered for.
var ErrNoGrammar = errors.New("no grammar for file")

// Tag is a structural element of a source file.
type Tag struct {
	// Name is the identifier of the element, when the grammar captures one.
	Name string

	// Kind is the syntax node type, for example "function_declaration".
	Kind string

	// LineNumber is the 1-based line the element starts on.
	LineNumber int

	// Pattern is the source text of LineNumber.
	Pattern string
}

// TrimmedPattern returns the pattern without surrounding whitespace.
func (t Tag) TrimmedPattern() string {
	return strings.TrimSpace(t.Pattern)
}

// Lookup finds the element enclosing a 1-based line. A nil tag with a nil
// error means nothing encloses the line.
type Lookup interface {
	ContextTag(ctx context.Context, path string, line int) (*Tag, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, path string, line int) (*Tag, error)

// ContextTag calls f.
func (f LookupFunc) ContextTag(ctx context.Context, path string, line int) (*Tag, error) {
	return f(ctx, path, line)
}

// Chain tries each lookup in order until one knows the file type.
type Chain []Lookup

// ContextTag returns the result of the first lookup that does not fail
// with ErrNoGrammar.
func (c Chain) ContextTag(ctx context.Context, path string, line int) (*Tag, error) {
	for _, lookup := range c {
		tag, err := lookup.ContextTag(ctx, path, line)
		if errors.Is(err, ErrNoGrammar) {
			continue
		}
		return tag, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNoGrammar, path)
}

// TreeSitter is a Lookup backed by tree-sitter context queries.
type TreeSitter struct {
	// Grammars resolves the language of a file. Nil means grammar.Default().
	Grammars *grammar.Registry

	// MaxBytes caps the size of parsed files. Zero means fsutil.MaxSourceBytes.
	MaxBytes int64
}

// NewTreeSitter returns a lookup using the built-in grammars.
func NewTreeSitter() *TreeSitter {
	return &TreeSitter{Grammars: grammar.Default()}
}

// ContextTag parses path and returns the innermost element whose span
// contains line.
func (ts *TreeSitter) ContextTag(ctx context.Context, path string, line int) (*Tag, error) {
	grammars := ts.Grammars
	if grammars == nil {
		grammars = grammar.Default()
	}

	spec, ok := grammars.ForPath(path)
	if !ok || spec.ContextQuery == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoGrammar, path)
	}

	limit := ts.MaxBytes
	if limit == 0 {
		limit = fsutil.MaxSourceBytes
	}

	src, _, err := fsutil.ReadFile(ctx, path, limit)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	return FindEnclosing(ctx, spec, src, line)
}

// FindEnclosing returns the innermost element of src captured by the
// spec's context query whose span contains the 1-based line.
func FindEnclosing(ctx context.Context, spec *grammar.Spec, src []byte, line int) (*Tag, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(spec.Language)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", spec.Name, err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(spec.ContextQuery), spec.Language)
	if err != nil {
		return nil, fmt.Errorf("compile context query for %s: %w", spec.Name, err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	row := uint32(max(line-1, 0)) //nolint:gosec // line is clamped to be non-negative.

	var best *Tag
	var bestSize uint32
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context lookup: %w", err)
		}

		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		var node *sitter.Node
		var name string
		for _, capture := range match.Captures {
			switch query.CaptureNameForId(capture.Index) {
			case "context":
				node = capture.Node
			case "name":
				name = capture.Node.Content(src)
			}
		}
		if node == nil || node.StartPoint().Row > row || node.EndPoint().Row < row {
			continue
		}

		size := node.EndByte() - node.StartByte()
		if best != nil && size >= bestSize {
			continue
		}

		start := int(node.StartPoint().Row)
		best = &Tag{
			Name:       name,
			Kind:       node.Type(),
			LineNumber: start + 1,
			Pattern:    sourceLine(src, start),
		}
		bestSize = size
	}

	return best, nil
}

func sourceLine(src []byte, row int) string {
	for i := 0; i < row; i++ {
		idx := bytes.IndexByte(src, '\n')
		if idx < 0 {
			return ""
		}
		src = src[idx+1:]
	}
	if idx := bytes.IndexByte(src, '\n'); idx >= 0 {
		src = src[:idx]
	}
	return strings.TrimRight(string(src), "\r")
}
