// Package config defines core configuration types for peek.
// These types are pure data structures with no dependency on the loader.
package config

import (
	"os"
	"path/filepath"
)

// Highlight engine names accepted in preview.highlight_engine.
const (
	EngineSublime    = "sublime"
	EngineTreeSitter = "tree-sitter"
	EngineVim        = "vim"
)

// Default values for a fresh configuration.
const (
	DefaultPreviewHeight = 30
	DefaultLineWidth     = 80
	DefaultWinHeight     = 30
	DefaultLogLevel      = "warn"
	DefaultGrepCommand   = "rg --column --line-number --no-heading --color=never --smart-case ''"
)

// OutputFormat specifies how a preview is written by the CLI.
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"
	FormatPretty OutputFormat = "pretty"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatPretty:
		return true
	default:
		return false
	}
}

// PreviewConfig controls how previews are computed.
type PreviewConfig struct {
	// Height is the number of lines a preview carries.
	Height int `yaml:"height"`

	// HighlightEngine is one of sublime, tree-sitter or vim.
	HighlightEngine string `yaml:"highlight_engine"`

	// ColorScheme names the chroma style for the sublime engine.
	ColorScheme string `yaml:"color_scheme"`

	Scrollbar    *bool `yaml:"scrollbar"`
	Border       *bool `yaml:"border"`
	ContextLines *bool `yaml:"context_lines"`
}

// DisplayConfig describes the host preview window.
type DisplayConfig struct {
	LineWidth int `yaml:"line_width"`
	WinHeight int `yaml:"winheight"`
}

// GrepConfig controls the grep index refreshed by the stale-cache guard.
type GrepConfig struct {
	// CacheDir holds regenerated grep indexes and the digest database.
	CacheDir string `yaml:"cache_dir"`

	// Command produces the grep index, one match per line.
	Command string `yaml:"command"`
}

// Config is the root configuration structure for peek.
type Config struct {
	Preview PreviewConfig `yaml:"preview"`
	Display DisplayConfig `yaml:"display"`

	// Icons enables icon-prefixed result lines and directory listings.
	Icons *bool `yaml:"icons"`

	Grep GrepConfig `yaml:"grep"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Format specifies the preview output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers for warm.
	Jobs int `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Preview: PreviewConfig{
			Height:          DefaultPreviewHeight,
			HighlightEngine: EngineSublime,
			Scrollbar:       Bool(true),
			Border:          Bool(false),
			ContextLines:    Bool(true),
		},
		Display: DisplayConfig{
			LineWidth: DefaultLineWidth,
			WinHeight: DefaultWinHeight,
		},
		Icons: Bool(false),
		Grep: GrepConfig{
			CacheDir: DefaultGrepCacheDir(),
			Command:  DefaultGrepCommand,
		},
		LogLevel: DefaultLogLevel,
		Format:   FormatJSON,
		Jobs:     0, // 0 means use GOMAXPROCS
	}
}

// DefaultGrepCacheDir returns $XDG_CACHE_HOME/peek/grep, falling back to
// the user cache directory.
func DefaultGrepCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "peek", "grep")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "peek", "grep")
	}
	return filepath.Join(os.TempDir(), "peek", "grep")
}

// ScrollbarEnabled reports preview.scrollbar, defaulting to true.
func (c *Config) ScrollbarEnabled() bool {
	return BoolValue(c.Preview.Scrollbar, true)
}

// BorderEnabled reports preview.border, defaulting to false.
func (c *Config) BorderEnabled() bool {
	return BoolValue(c.Preview.Border, false)
}

// ContextLinesEnabled reports preview.context_lines, defaulting to true.
func (c *Config) ContextLinesEnabled() bool {
	return BoolValue(c.Preview.ContextLines, true)
}

// IconsEnabled reports icons, defaulting to false.
func (c *Config) IconsEnabled() bool {
	return BoolValue(c.Icons, false)
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// BoolValue dereferences p, returning def when p is nil.
func BoolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
