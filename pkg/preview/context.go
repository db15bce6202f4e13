package preview

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/target"
)

// Env holds the host editor capabilities and display settings.
type Env struct {
	// IsNvim is true when the host is Neovim.
	IsNvim bool

	// HasNvim09 is true when the host is Neovim 0.9 or newer, which can
	// show titles on floating windows.
	HasNvim09 bool

	// Icons is true when result lines carry file-type glyphs.
	Icons bool

	// DisplayLineWidth is the width of the result list in cells.
	DisplayLineWidth int

	// DisplayWinHeight is the height of the preview window in rows.
	DisplayWinHeight int

	// PreviewBorder is true when the preview window has a border.
	PreviewBorder bool

	// ScrollbarEnabled turns the preview scrollbar on.
	ScrollbarEnabled bool

	// StartBufferPath is the file open when the finder started.
	StartBufferPath string

	// Runtimepath is the comma-separated editor runtimepath.
	Runtimepath string
}

// ShouldAddScrollbar reports whether a scrollbar is drawn for content of n
// rows.
func (e Env) ShouldAddScrollbar(n int) bool {
	return e.ScrollbarEnabled && n > 0
}

// SupportsFloatTitle reports whether the host shows the file name as a
// window title.
func (e Env) SupportsFloatTitle() bool {
	return !e.IsNvim || e.HasNvim09
}

// MaxLineWidth is the longest line, in cells, put in a preview.
func (e Env) MaxLineWidth() int {
	return 2 * e.DisplayLineWidth
}

// Executor runs a shell command in the session's working directory.
type Executor interface {
	Exec(ctx context.Context, cmd string) ([]byte, error)
}

// UI is the part of the host editor the previewer talks to.
type UI interface {
	// PreviewWinWidth returns the width of the preview window in cells.
	PreviewWinWidth(ctx context.Context) (int, error)

	// EchoInfo shows an informational message.
	EchoInfo(ctx context.Context, msg string) error
}

// Cache stores previews by target. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(t target.Target) (Preview, bool)
	Put(t target.Target, p Preview)
}

// SourceKind describes where a provider reads its results from.
type SourceKind int

// Source kinds.
const (
	SourceUnknown SourceKind = iota
	SourceSmall
	SourceFile
	SourceCachedFile
)

// ProviderSource describes the result source of the running provider.
type ProviderSource struct {
	Kind SourceKind

	// Total is the number of result lines.
	Total int

	// Path is the file holding the results, for file sources.
	Path string

	// Refreshed is true when a stale cached file was regenerated.
	Refreshed bool
}

// Context is the state of one finder session shared by every preview.
// A Context must not be copied after first use.
type Context struct {
	// Provider is the id of the running provider.
	Provider string

	// Cwd is the session working directory.
	Cwd string

	Env      Env
	Executor Executor
	UI       UI
	Cache    Cache

	// Logger receives diagnostics. Nil means logging.Default().
	Logger *log.Logger

	terminated atomic.Bool

	mu     sync.Mutex
	source ProviderSource
}

// Terminate marks the session as ended.
func (c *Context) Terminate() {
	c.terminated.Store(true)
}

// Terminated reports whether the session has ended.
func (c *Context) Terminated() bool {
	return c.terminated.Load()
}

// SetProviderSource replaces the provider source.
func (c *Context) SetProviderSource(src ProviderSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = src
}

// ProviderSource returns the current provider source.
func (c *Context) ProviderSource() ProviderSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// TargetEnv returns the environment line resolution runs against.
func (c *Context) TargetEnv() target.Env {
	return target.Env{
		Cwd:             c.Cwd,
		StartBufferPath: c.Env.StartBufferPath,
		Runtimepath:     c.Env.Runtimepath,
		Icons:           c.Env.Icons,
	}
}

// EchoInfo shows msg through the UI, if any.
func (c *Context) EchoInfo(ctx context.Context, msg string) error {
	if c.UI == nil {
		return nil
	}
	return c.UI.EchoInfo(ctx, msg)
}

func (c *Context) logger(ctx context.Context) *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.FromContext(ctx)
}

// MemoryCache is a Cache backed by a map.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[target.Target]Preview
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[target.Target]Preview)}
}

// Get returns the preview cached for t.
func (m *MemoryCache) Get(t target.Target) (Preview, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.entries[t]
	return p, ok
}

// Put caches p for t.
func (m *MemoryCache) Put(t target.Target, p Preview) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries == nil {
		m.entries = make(map[target.Target]Preview)
	}
	m.entries[t] = p
}

// Len returns the number of cached previews.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
