package highlight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/peek/pkg/fsutil"
	"github.com/yaklabco/peek/pkg/grammar"
)

var errNoGrammar = errors.New("no tree-sitter grammar")

type treeSitterEngine struct {
	grammars *grammar.Registry
	maxBytes int64
}

// highlight parses the whole file, collects spans for the excerpt rows and
// renumbers them into preview lines.
func (e *treeSitterEngine) highlight(ctx context.Context, req Request) ([]Line, error) {
	spec, ok := e.grammars.ForPath(req.Path)
	if !ok {
		return nil, fmt.Errorf("%w for %s", errNoGrammar, req.Path)
	}

	limit := e.maxBytes
	if limit == 0 {
		limit = fsutil.MaxSourceBytes
	}

	src, _, err := fsutil.ReadFile(ctx, req.Path, limit)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	rows, err := SpansByRow(ctx, spec, src, req.WindowStart, req.WindowEnd)
	if err != nil {
		return nil, err
	}

	out := make([]Line, 0, len(rows))
	for _, row := range sortedRows(rows) {
		var spans []Span
		for _, span := range rows[row] {
			if req.MaxLineWidth > 0 && span.Offset+span.Length > req.MaxLineWidth {
				continue
			}
			spans = append(spans, span)
		}
		if len(spans) == 0 {
			continue
		}

		out = append(out, Line{
			Line:  row - req.WindowStart + 1 + req.ContextLines,
			Spans: spans,
		})
	}

	return out, nil
}

// SpansByRow parses src and returns highlight spans keyed by 0-based file
// row, limited to rows in [startRow, endRow).
func SpansByRow(ctx context.Context, spec *grammar.Spec, src []byte, startRow, endRow int) (map[int][]Span, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(spec.Language)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s source: %w", spec.Name, err)
	}
	defer tree.Close()

	w := &spanWalker{
		lineEnds: lineEnds(src),
		startRow: startRow,
		endRow:   endRow,
		rows:     make(map[int][]Span),
	}
	w.walk(tree.RootNode())

	for row := range w.rows {
		sort.SliceStable(w.rows[row], func(i, j int) bool {
			return w.rows[row][i].Offset < w.rows[row][j].Offset
		})
	}

	return w.rows, nil
}

type spanWalker struct {
	lineEnds []int
	startRow int
	endRow   int
	rows     map[int][]Span
}

func (w *spanWalker) walk(node *sitter.Node) {
	if node == nil || node.IsNull() {
		return
	}

	first := int(node.StartPoint().Row)
	last := int(node.EndPoint().Row)
	if last < w.startRow || first >= w.endRow {
		return
	}

	if group := groupFor(node); group != "" {
		w.emit(node, group)
		return
	}

	for i := range int(node.ChildCount()) {
		w.walk(node.Child(i))
	}
}

// emit records node on every row it covers, clipping multi-line nodes to
// each row's extent.
func (w *spanWalker) emit(node *sitter.Node, group string) {
	start := node.StartPoint()
	end := node.EndPoint()

	for row := max(int(start.Row), w.startRow); row <= int(end.Row) && row < w.endRow; row++ {
		from := 0
		if row == int(start.Row) {
			from = int(start.Column)
		}

		to := w.rowLength(row)
		if row == int(end.Row) {
			to = int(end.Column)
		}

		if to > from {
			w.rows[row] = append(w.rows[row], Span{Offset: from, Length: to - from, Group: group})
		}
	}
}

func (w *spanWalker) rowLength(row int) int {
	if row >= len(w.lineEnds) {
		return 0
	}
	begin := 0
	if row > 0 {
		begin = w.lineEnds[row-1] + 1
	}
	return w.lineEnds[row] - begin
}

// lineEnds returns the byte offset of the end of every line, excluding
// the newline.
func lineEnds(src []byte) []int {
	var ends []int
	offset := 0
	for {
		idx := bytes.IndexByte(src[offset:], '\n')
		if idx < 0 {
			return append(ends, len(src))
		}
		ends = append(ends, offset+idx)
		offset += idx + 1
	}
}

func sortedRows(rows map[int][]Span) []int {
	keys := make([]int, 0, len(rows))
	for row := range rows {
		keys = append(keys, row)
	}
	sort.Ints(keys)
	return keys
}
