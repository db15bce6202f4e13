package preview

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/contextline"
	"github.com/yaklabco/peek/pkg/fsutil"
	"github.com/yaklabco/peek/pkg/helptags"
	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/scrollbar"
	"github.com/yaklabco/peek/pkg/target"
)

// DefaultHeight is the number of excerpt lines used when neither the
// options nor the environment set one.
const DefaultHeight = 30

// Errors returned by Get.
var (
	// ErrNotAFile is returned when a File target is not a regular file.
	ErrNotAFile = errors.New("not a file")

	// ErrNoExecutor is returned when a commit preview has no command runner.
	ErrNoExecutor = errors.New("no command executor")
)

// Providers whose window header shows a cwd-relative path when the host
// renders the file name as a window title.
//
//nolint:gochecknoglobals // Read-only provider set.
var cwdRelativeHeaderProviders = []string{
	target.ProviderFiles,
	target.ProviderGitFiles,
	target.ProviderGrep,
	target.ProviderLiveGrep,
	target.ProviderCocLocation,
	target.ProviderDumbJump,
	target.ProviderProjTags,
}

// Providers whose results come from a cached search index.
//
//nolint:gochecknoglobals // Read-only provider set.
var cachedIndexProviders = []string{
	target.ProviderGrep,
	target.ProviderLiveGrep,
}

// Highlighter computes highlight spans for an excerpt.
type Highlighter interface {
	Highlight(ctx context.Context, req highlight.Request) highlight.Outcome
}

// ContextLineSource computes the context lines shown above an excerpt.
type ContextLineSource interface {
	Lines(ctx context.Context, req contextline.Request) []string
}

// StaleGuard compares the line a search index reported with the line read
// from disk and refreshes the index when they differ. It reports whether a
// refresh was started.
type StaleGuard interface {
	Check(ctx context.Context, observed, latest string) bool
}

// FileReader is the file access used to build previews.
type FileReader interface {
	ReadWindow(path string, lnum, height int) (*fsutil.Window, error)
	ReadHead(path string, n int) ([]string, error)
	CountLines(path string) (int, error)
}

type fsReader struct{}

func (fsReader) ReadWindow(path string, lnum, height int) (*fsutil.Window, error) {
	return fsutil.ReadWindow(path, lnum, height)
}

func (fsReader) ReadHead(path string, n int) ([]string, error) {
	return fsutil.ReadHead(path, n)
}

func (fsReader) CountLines(path string) (int, error) {
	return fsutil.CountLines(path)
}

// Options configures a Previewer.
type Options struct {
	// Height is the number of excerpt lines. Zero means the environment
	// window height, then DefaultHeight.
	Height int

	// Highlighter produces highlight spans. Nil means no spans.
	Highlighter Highlighter

	// ContextLines produces context lines. Nil means none.
	ContextLines ContextLineSource

	// Guard checks cached search results for staleness. Nil disables it.
	Guard StaleGuard

	// Reader reads files. Nil means the file system.
	Reader FileReader

	// Logger receives diagnostics. Nil means the session logger.
	Logger *log.Logger
}

// Previewer builds the preview of one target.
type Previewer struct {
	pctx     *Context
	target   target.Target
	observed *string
	height   int

	highlighter  Highlighter
	contextLines ContextLineSource
	guard        StaleGuard
	reader       FileReader
	logger       *log.Logger
}

// New resolves line with the resolver registered for the session provider.
// A nil registry means target.DefaultRegistry().
func New(pctx *Context, registry *target.Registry, line string, opts Options) (*Previewer, error) {
	if registry == nil {
		registry = target.DefaultRegistry()
	}

	resolved, err := registry.Resolve(pctx.Provider, line, pctx.TargetEnv())
	if err != nil {
		return nil, err
	}

	p := NewForTarget(pctx, resolved.Target, opts)
	p.observed = resolved.ObservedLine

	return p, nil
}

// NewForTarget returns a previewer for an already resolved target.
func NewForTarget(pctx *Context, t target.Target, opts Options) *Previewer {
	height := opts.Height
	if height <= 0 {
		height = pctx.Env.DisplayWinHeight
	}
	if height <= 0 {
		height = DefaultHeight
	}

	reader := opts.Reader
	if reader == nil {
		reader = fsReader{}
	}

	return &Previewer{
		pctx:         pctx,
		target:       t,
		height:       height,
		highlighter:  opts.Highlighter,
		contextLines: opts.ContextLines,
		guard:        opts.Guard,
		reader:       reader,
		logger:       opts.Logger,
	}
}

// Target returns the target being previewed.
func (p *Previewer) Target() target.Target {
	return p.target
}

// ObservedLine returns the line text the search result reported, if any.
func (p *Previewer) ObservedLine() (string, bool) {
	if p.observed == nil {
		return "", false
	}
	return *p.observed, true
}

// Height returns the number of excerpt lines.
func (p *Previewer) Height() int {
	return p.height
}

// Get returns the preview of the target, from the cache when possible. A
// computed preview is cached before it is returned.
func (p *Previewer) Get(ctx context.Context) (target.Target, *Preview, error) {
	logger := p.log(ctx)

	if p.pctx.Cache != nil {
		if cached, ok := p.pctx.Cache.Get(p.target); ok {
			logger.Debug("preview cache hit", logging.FieldTarget, p.target.String())
			return p.target, &cached, nil
		}
	}

	var (
		out Preview
		err error
	)

	switch p.target.Kind() {
	case target.KindDirectory:
		out, err = p.previewDirectory()
	case target.KindFile:
		out, err = p.previewFile(ctx)
	case target.KindLineInFile:
		out, err = p.previewLineInFile(ctx)
	case target.KindGitCommit:
		out, err = p.previewCommit(ctx)
	case target.KindHelpTags:
		out = p.previewHelp(ctx)
	default:
		err = fmt.Errorf("preview %s: %w", p.target, target.ErrNoPath)
	}
	if err != nil {
		return p.target, nil, err
	}

	if p.pctx.Cache != nil {
		p.pctx.Cache.Put(p.target, out)
	}

	return p.target, &out, nil
}

func (p *Previewer) previewDirectory() (Preview, error) {
	dir, _ := p.target.Path()

	lines, err := fsutil.ReadDirEntries(dir, p.pctx.Env.Icons, p.height)
	if err != nil {
		return Preview{}, fmt.Errorf("preview directory: %w", err)
	}
	if len(lines) == 0 {
		lines = []string{EmptyDirectory}
	}

	title := strings.TrimSuffix(dir, string(filepath.Separator)) + ":"

	return FromLines(append([]string{title}, lines...)), nil
}

func (p *Previewer) previewFile(ctx context.Context) (Preview, error) {
	path, _ := p.target.Path()
	env := p.pctx.Env

	if !fsutil.IsRegularFile(path) {
		if _, err := fsutil.Stat(path); errors.Is(err, fsutil.ErrNotFound) {
			p.log(ctx).Debug("file does not exist, the provider cache may be outdated",
				logging.FieldPath, path,
				logging.FieldProvider, p.pctx.Provider,
			)
		}
		return Preview{}, fmt.Errorf("failed to preview as %s is %w", path, ErrNotAFile)
	}

	head, err := p.reader.ReadHead(path, p.height)
	if err != nil {
		return Preview{}, fmt.Errorf("preview file: %w", err)
	}

	var header string
	if env.IsNvim && !env.HasNvim09 {
		header = fsutil.TruncateAbsolutePath(path, env.DisplayLineWidth-1)
	} else {
		header = fsutil.CwdRelative(path, p.pctx.Cwd)
	}

	lines := make([]string, 0, len(head)+2)
	lines = append(lines, header)
	lines = append(lines, fsutil.TruncateLines(head, env.MaxLineWidth())...)

	total, err := p.reader.CountLines(path)
	if err != nil {
		return Preview{}, fmt.Errorf("preview file: %w", err)
	}

	out := Preview{}

	end := len(lines)
	if env.ShouldAddScrollbar(end) {
		if bar, ok := scrollbar.ForFile(end, total, p.geometry()); ok {
			out.Scrollbar = &bar
		}
	}

	info, err := fsutil.Stat(path)
	if err != nil {
		return Preview{}, fmt.Errorf("preview file: %w", err)
	}

	if info.Size() == 0 {
		lines = append(lines, EmptyFile)
		out.SyntaxInfo = SyntaxFromFname(path)
	} else {
		out.SyntaxInfo = contentSyntax(path, head)
	}
	out.Lines = lines

	return out, nil
}

func (p *Previewer) previewLineInFile(ctx context.Context) (Preview, error) {
	path, _ := p.target.Path()
	lnum := p.target.Line()
	env := p.pctx.Env
	logger := p.log(ctx)

	logger.Debug("previewing file", logging.FieldPath, path, logging.FieldLnum, lnum)

	containerWidth, err := p.containerWidth(ctx)
	if err != nil {
		return Preview{}, err
	}

	header := p.windowHeader(path, lnum, containerWidth)

	win, err := p.reader.ReadWindow(path, lnum, p.height)
	if err != nil {
		logger.Error("could not read preview window",
			logging.FieldPath, path,
			logging.FieldProvider, p.pctx.Provider,
			logging.FieldError, err,
		)
		return Preview{
			Lines:      []string{header, fmt.Sprintf("Error while previewing %s: %v", path, err)},
			SyntaxInfo: SyntaxFromFname(path),
		}, nil
	}

	var contextLines []string
	if p.contextLines != nil {
		contextLines = p.contextLines.Lines(ctx, contextline.Request{
			Path:           path,
			Line:           lnum,
			WindowStart:    win.Start,
			HighlightLine:  win.HighlightLine,
			Lines:          win.Lines,
			ContainerWidth: containerWidth,
			HostBorder:     !env.IsNvim,
		})
	}

	var outcome highlight.Outcome = highlight.Neither{}
	if p.highlighter != nil {
		outcome = p.highlighter.Highlight(ctx, highlight.Request{
			Path: path,
			// One header line, plus one for 1-based numbering.
			LineOffset:   len(contextLines) + 2,
			Lines:        win.Lines,
			WindowStart:  win.Start,
			WindowEnd:    win.End,
			ContextLines: len(contextLines),
			MaxLineWidth: env.MaxLineWidth(),
		})
	}

	lines := make([]string, 0, 1+len(contextLines)+len(win.Lines))
	lines = append(lines, header)
	lines = append(lines, contextLines...)
	lines = append(lines, fsutil.TruncateLines(win.Lines, env.MaxLineWidth())...)

	out := Preview{Lines: lines}
	if win.HighlightLine >= 1 && win.HighlightLine <= len(win.Lines) {
		out.HiLnum = intPtr(win.HighlightLine + len(contextLines))
	}

	if env.ShouldAddScrollbar(win.Total) {
		start := win.Start
		if len(contextLines) == 0 {
			start = max(start-3, 0)
		}
		if bar, ok := scrollbar.ForWindow(start, win.End, win.Total, p.geometry()); ok {
			out.Scrollbar = &bar
		}
	}

	out.ApplyHighlights(outcome, path, path)

	p.checkStale(ctx, win)

	return out, nil
}

func (p *Previewer) previewCommit(ctx context.Context) (Preview, error) {
	if p.pctx.Executor == nil {
		return Preview{}, fmt.Errorf("preview commit %s: %w", p.target.Revision(), ErrNoExecutor)
	}

	stdout, err := p.pctx.Executor.Exec(ctx, "git show "+p.target.Revision())
	if err != nil {
		return Preview{}, fmt.Errorf("preview commit %s: %w", p.target.Revision(), err)
	}

	lines := strings.Split(strings.ToValidUTF8(string(stdout), "\uFFFD"), "\n")
	if len(lines) > p.height {
		lines = lines[:p.height]
	}

	out := FromLines(lines)
	out.SyntaxInfo = SyntaxName("diff")

	return out, nil
}

func (p *Previewer) previewHelp(ctx context.Context) Preview {
	topic := p.target.Help()

	match, ok := helptags.Find(ctx, topic.Subject, topic.DocFilename, topic.Runtimepath, p.height)
	if !ok {
		p.log(ctx).Debug("help tag not found",
			logging.FieldTarget, topic.Subject,
			logging.FieldPath, topic.DocFilename,
		)
		return FromLines([]string{HelpNotFound})
	}

	return Preview{
		Lines:      append([]string{match.Path}, match.Lines...),
		HiLnum:     intPtr(1),
		SyntaxInfo: SyntaxName("help"),
	}
}

// windowHeader returns the first line of a windowed preview.
func (p *Previewer) windowHeader(path string, lnum, containerWidth int) string {
	suffix := ":" + strconv.Itoa(lnum)

	if p.pctx.Env.SupportsFloatTitle() && slices.Contains(cwdRelativeHeaderProviders, p.pctx.Provider) {
		return fsutil.CwdRelative(path, p.pctx.Cwd) + suffix
	}

	maxWidth := containerWidth - 1 - fsutil.DisplayWidth(strconv.Itoa(lnum))
	return fsutil.TruncateAbsolutePath(path, maxWidth) + suffix
}

func (p *Previewer) containerWidth(ctx context.Context) (int, error) {
	if p.pctx.UI == nil {
		return p.pctx.Env.DisplayLineWidth, nil
	}

	width, err := p.pctx.UI.PreviewWinWidth(ctx)
	if err != nil {
		return 0, fmt.Errorf("query preview window width: %w", err)
	}
	return width, nil
}

func (p *Previewer) checkStale(ctx context.Context, win *fsutil.Window) {
	if p.guard == nil || p.observed == nil {
		return
	}
	if !slices.Contains(cachedIndexProviders, p.pctx.Provider) {
		return
	}
	if win.HighlightLine < 1 {
		return
	}

	// A line past the end of the file no longer exists on disk.
	var latest string
	if win.HighlightLine <= len(win.Lines) {
		latest = win.Lines[win.HighlightLine-1]
	}

	p.guard.Check(ctx, *p.observed, latest)
}

func (p *Previewer) geometry() scrollbar.Geometry {
	return scrollbar.Geometry{
		WinHeight: p.pctx.Env.DisplayWinHeight,
		Border:    p.pctx.Env.PreviewBorder,
	}
}

func (p *Previewer) log(ctx context.Context) *log.Logger {
	if p.logger != nil {
		return p.logger
	}
	return p.pctx.logger(ctx)
}
