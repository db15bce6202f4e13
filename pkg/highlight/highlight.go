// Package highlight produces syntax highlight spans for preview excerpts
// using either a grammar (chroma) engine or a tree-sitter engine.
package highlight

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/grammar"
)

// Engine selects how previews are highlighted.
type Engine string

// Highlight engines.
const (
	// EngineSublime tokenizes excerpt lines with a declarative grammar.
	EngineSublime Engine = "sublime"

	// EngineTreeSitter parses the whole file with tree-sitter.
	EngineTreeSitter Engine = "tree-sitter"

	// EngineVim leaves highlighting to the host editor.
	EngineVim Engine = "vim"
)

// Engines lists the valid engine names.
func Engines() []Engine {
	return []Engine{EngineSublime, EngineTreeSitter, EngineVim}
}

// Span is one highlighted range of a line. It encodes as
// [offset, length, group].
type Span struct {
	// Offset is the byte offset of the span within its line.
	Offset int

	// Length is the byte length of the span.
	Length int

	// Group is the highlight group the host applies.
	Group string
}

// MarshalJSON encodes the span as a 3-element array.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Offset, s.Length, s.Group})
}

// UnmarshalJSON decodes a 3-element array.
func (s *Span) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode span: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("decode span: want 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Offset); err != nil {
		return fmt.Errorf("decode span offset: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.Length); err != nil {
		return fmt.Errorf("decode span length: %w", err)
	}
	if err := json.Unmarshal(raw[2], &s.Group); err != nil {
		return fmt.Errorf("decode span group: %w", err)
	}
	return nil
}

// Line holds the spans of one preview line. It encodes as [line, spans].
type Line struct {
	// Line is the line number in the preview the spans apply to.
	Line int

	Spans []Span
}

// MarshalJSON encodes the line as a 2-element array.
func (l Line) MarshalJSON() ([]byte, error) {
	spans := l.Spans
	if spans == nil {
		spans = []Span{}
	}
	return json.Marshal([]any{l.Line, spans})
}

// UnmarshalJSON decodes a 2-element array.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode line highlights: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("decode line highlights: want 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.Line); err != nil {
		return fmt.Errorf("decode line number: %w", err)
	}
	if err := json.Unmarshal(raw[1], &l.Spans); err != nil {
		return fmt.Errorf("decode line spans: %w", err)
	}
	return nil
}

// Outcome is the result of highlighting: exactly one of Sublime,
// TreeSitter or Neither.
type Outcome interface {
	outcome()
}

// Sublime holds spans from the grammar engine.
type Sublime struct {
	Lines []Line
}

// TreeSitter holds spans from the tree-sitter engine.
type TreeSitter struct {
	Lines []Line
}

// Neither means no engine produced spans and the host should highlight by
// syntax name or file name.
type Neither struct{}

func (Sublime) outcome()    {}
func (TreeSitter) outcome() {}
func (Neither) outcome()    {}

// Request describes an excerpt to highlight.
type Request struct {
	// Path is the file the excerpt was read from.
	Path string

	// Lines is the excerpt.
	Lines []string

	// LineOffset is added to the 0-based index of an excerpt line to get
	// its line number in grammar engine output.
	LineOffset int

	// WindowStart and WindowEnd are the 0-based, half-open range of file
	// rows the excerpt covers.
	WindowStart int
	WindowEnd   int

	// ContextLines is the number of context lines shown above the excerpt.
	ContextLines int

	// MaxLineWidth bounds the bytes of each line that get highlighted.
	MaxLineWidth int
}

// Options configures a Dispatcher.
type Options struct {
	// Engine selects the highlighter. Empty means EngineSublime.
	Engine Engine

	// Theme names the chroma style used by the grammar engine. Empty or
	// unknown names fall back to DefaultTheme.
	Theme string

	// Grammars resolves tree-sitter languages. Nil means grammar.Default().
	Grammars *grammar.Registry

	// MaxSourceBytes caps files parsed by the tree-sitter engine.
	MaxSourceBytes int64

	// Logger receives warnings. Nil means the logger in the context.
	Logger *log.Logger
}

// Dispatcher selects the configured engine for each request.
type Dispatcher struct {
	engine  Engine
	sublime *sublimeEngine
	ts      *treeSitterEngine
}

// NewDispatcher builds a dispatcher from opts. An unknown theme is logged
// once and replaced with DefaultTheme.
func NewDispatcher(opts Options) *Dispatcher {
	engine := opts.Engine
	if engine == "" {
		engine = EngineSublime
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	grammars := opts.Grammars
	if grammars == nil {
		grammars = grammar.Default()
	}

	d := &Dispatcher{engine: engine}
	switch engine {
	case EngineSublime:
		d.sublime = newSublimeEngine(opts.Theme, logger)
	case EngineTreeSitter:
		d.ts = &treeSitterEngine{grammars: grammars, maxBytes: opts.MaxSourceBytes}
	case EngineVim:
	}

	return d
}

// Engine returns the configured engine.
func (d *Dispatcher) Engine() Engine {
	return d.engine
}

// Highlight runs the configured engine. Missing grammars, unreadable files,
// parse failures and excerpts without any span all yield Neither.
func (d *Dispatcher) Highlight(ctx context.Context, req Request) Outcome {
	switch {
	case d.sublime != nil:
		if lines := d.sublime.highlight(req); len(lines) > 0 {
			return Sublime{Lines: lines}
		}
	case d.ts != nil:
		lines, err := d.ts.highlight(ctx, req)
		if err != nil {
			logging.FromContext(ctx).Debug("tree-sitter highlight unavailable",
				logging.FieldPath, req.Path, logging.FieldError, err)
			return Neither{}
		}
		if len(lines) > 0 {
			return TreeSitter{Lines: lines}
		}
	}

	return Neither{}
}

// truncateBytes cuts s to at most n bytes without splitting a character.
func truncateBytes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
