// Package contextline builds the block of lines shown above a preview
// excerpt that names the function or type the excerpt sits in.
package contextline

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/langdetect"
	"github.com/yaklabco/peek/pkg/tags"
)

// DefaultTimeout bounds the structural context lookup.
const DefaultTimeout = 300 * time.Millisecond

const (
	borderRune    = "\u2500"
	marker        = "  \U0001F4A1"
	markerTrimmed = "..  \U0001F4A1"

	// markerWidth is the number of cells reserved on the right of the
	// pattern line.
	markerWidth = 4
)

// skippedExtensions never get context lines.
//
//nolint:gochecknoglobals // Read-only deny list.
var skippedExtensions = []string{"log", "txt", "lock", "toml", "yaml", "mod", "conf"}

// Request describes the excerpt context lines are computed for.
type Request struct {
	// Path is the previewed file.
	Path string

	// Line is the 1-based target line in the file.
	Line int

	// WindowStart is the 0-based index in the file of the first excerpt
	// line. Elements starting before it get context lines.
	WindowStart int

	// HighlightLine is the 1-based position of the target within Lines.
	HighlightLine int

	// Lines is the excerpt.
	Lines []string

	// ContainerWidth is the width of the preview window in cells.
	ContainerWidth int

	// HostBorder is true when the host draws its own border inside the
	// container, which takes two cells.
	HostBorder bool
}

// Provider computes context lines with a bounded lookup.
type Provider struct {
	// Lookup finds the enclosing element. Nil disables context lines.
	Lookup tags.Lookup

	// Timeout bounds Lookup. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives debug output. Nil means the logger in the context.
	Logger *log.Logger
}

// New returns a provider backed by lookup with the default timeout.
func New(lookup tags.Lookup) *Provider {
	return &Provider{Lookup: lookup, Timeout: DefaultTimeout}
}

// Lines returns either no lines or exactly three: a border, the trimmed
// pattern of the element enclosing req.Line and a closing border. Nothing
// is returned when the file type is skipped, the target line is a comment,
// the lookup fails or times out, or the element already starts inside the
// excerpt.
func (p *Provider) Lines(ctx context.Context, req Request) []string {
	if p == nil || p.Lookup == nil {
		return nil
	}
	if req.HighlightLine < 1 || req.HighlightLine > len(req.Lines) {
		return nil
	}

	ext := strings.TrimPrefix(filepath.Ext(req.Path), ".")
	if ext == "" {
		return nil
	}
	if slices.Contains(skippedExtensions, ext) || langdetect.IsComment(req.Lines[req.HighlightLine-1], ext) {
		return nil
	}

	logger := p.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tag := p.lookup(ctx, req, timeout, logger)
	if tag == nil || tag.LineNumber >= req.WindowStart {
		return nil
	}

	border := Border(req.ContainerWidth, req.HostBorder)
	return []string{border, PatternLine(tag.TrimmedPattern(), req.ContainerWidth), border}
}

func (p *Provider) lookup(ctx context.Context, req Request, timeout time.Duration, logger *log.Logger) *tags.Tag {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		tag *tags.Tag
		err error
	}

	done := make(chan result, 1)
	go func() {
		tag, err := p.Lookup.ContextTag(ctx, req.Path, req.Line)
		done <- result{tag: tag, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				logger.Debug("context tag lookup timed out",
					logging.FieldTimeout, timeout, logging.FieldPath, req.Path, logging.FieldLnum, req.Line)
			} else if !errors.Is(res.err, tags.ErrNoGrammar) {
				logger.Debug("context tag lookup failed",
					logging.FieldPath, req.Path, logging.FieldError, res.err)
			}
			return nil
		}
		return res.tag
	case <-ctx.Done():
		logger.Debug("context tag lookup timed out",
			logging.FieldTimeout, timeout, logging.FieldPath, req.Path, logging.FieldLnum, req.Line)
		return nil
	}
}

// Border returns the horizontal rule drawn around the pattern line. It
// spans the container, minus two cells when the host draws a border.
func Border(containerWidth int, hostBorder bool) string {
	width := containerWidth
	if hostBorder {
		width -= 2
	}
	return strings.Repeat(borderRune, max(width, 0))
}

// PatternLine formats pattern for a container of the given width, cutting
// it at a character boundary when it does not fit next to the marker. The
// result is never wider than containerWidth.
func PatternLine(pattern string, containerWidth int) string {
	maxLen := containerWidth - markerWidth

	var line string
	if runewidth.StringWidth(pattern) <= maxLen {
		line = pattern + marker
	} else {
		keep := max(maxLen-markerWidth-2, 0)
		line = runewidth.Truncate(pattern, keep, "") + markerTrimmed
	}

	if runewidth.StringWidth(line) > containerWidth {
		return runewidth.Truncate(line, max(containerWidth, 0), "")
	}
	return line
}
