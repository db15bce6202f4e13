package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/peek/pkg/config"
)

// hermetic returns options that only look at dir and ignore the host.
func hermetic(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), hermetic(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	if result.Config.Preview.Height != config.DefaultPreviewHeight {
		t.Errorf("expected height %d, got %d", config.DefaultPreviewHeight, result.Config.Preview.Height)
	}
	if result.Config.Preview.HighlightEngine != config.EngineSublime {
		t.Errorf("expected engine %q, got %q", config.EngineSublime, result.Config.Preview.HighlightEngine)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), `
preview:
  height: 12
  highlight_engine: tree-sitter
  scrollbar: false
icons: true
`)

	result, err := Load(context.Background(), hermetic(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Preview.Height != 12 {
		t.Errorf("expected height 12, got %d", cfg.Preview.Height)
	}
	if cfg.Preview.HighlightEngine != config.EngineTreeSitter {
		t.Errorf("expected engine %q, got %q", config.EngineTreeSitter, cfg.Preview.HighlightEngine)
	}
	if cfg.ScrollbarEnabled() {
		t.Error("expected scrollbar disabled by project config")
	}
	if !cfg.IconsEnabled() {
		t.Error("expected icons enabled by project config")
	}
	if !cfg.ContextLinesEnabled() {
		t.Error("expected context lines to keep their default")
	}
	if cfg.Display.LineWidth != config.DefaultLineWidth {
		t.Errorf("expected default line width, got %d", cfg.Display.LineWidth)
	}
}

func TestLoad_ProjectConfigFromSubdirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".peek.yaml"), "preview:\n  height: 7\n")

	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result, err := Load(context.Background(), hermetic(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Preview.Height != 7 {
		t.Errorf("expected height 7 from parent config, got %d", result.Config.Preview.Height)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".peek.yml"), "preview:\n  height: 7\n")

	repo := filepath.Join(root, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at VCS root, found %s", path)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), "preview:\n  height: 12\n")

	customPath := filepath.Join(tmpDir, "custom-config.yml")
	writeFile(t, customPath, `
preview:
  height: 40
display:
  line_width: 120
`)

	opts := hermetic(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Preview.Height != 40 {
		t.Errorf("expected explicit config to win, got height %d", result.Config.Preview.Height)
	}
	if result.Config.Display.LineWidth != 120 {
		t.Errorf("expected line width 120, got %d", result.Config.Display.LineWidth)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != customPath {
		t.Errorf("expected project then explicit, got %v", result.LoadedFrom)
	}
	if result.Paths.Explicit != customPath {
		t.Errorf("expected explicit path recorded, got %q", result.Paths.Explicit)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), `
preview:
  height: 12
  border: true
`)

	opts := hermetic(tmpDir)
	opts.CLIConfig = &config.Config{
		Preview: config.PreviewConfig{Height: 9, Border: config.Bool(false)},
		Format:  config.FormatPretty,
		Jobs:    8,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Preview.Height != 9 {
		t.Errorf("expected height 9 (CLI override), got %d", result.Config.Preview.Height)
	}
	if result.Config.BorderEnabled() {
		t.Error("expected border false (CLI override)")
	}
	if result.Config.Format != config.FormatPretty {
		t.Errorf("expected format pretty, got %q", result.Config.Format)
	}
	if result.Config.Jobs != 8 {
		t.Errorf("expected jobs 8 (CLI override), got %d", result.Config.Jobs)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), "preview:\n  height: 12\n")

	t.Setenv("PEEK_PREVIEW_HEIGHT", "21")
	t.Setenv("PEEK_PREVIEW_CONTEXT_LINES", "false")
	t.Setenv("PEEK_GREP_COMMAND", "rg --vimgrep ''")

	opts := hermetic(tmpDir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Preview.Height != 21 {
		t.Errorf("expected env height 21, got %d", result.Config.Preview.Height)
	}
	if result.Config.ContextLinesEnabled() {
		t.Error("expected context lines disabled by env")
	}
	if result.Config.Grep.Command != "rg --vimgrep ''" {
		t.Errorf("unexpected grep command %q", result.Config.Grep.Command)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("PEEK_PREVIEW_SCROLLBAR", "sometimes")

	opts := hermetic(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "PEEK_PREVIEW_SCROLLBAR") {
		t.Fatalf("expected boolean parse error, got %v", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), "preview:\n  highlight_engine: emacs\n")

	_, err := Load(context.Background(), hermetic(tmpDir))
	if err == nil {
		t.Fatal("expected validation error for invalid engine")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if vErr.Field != "preview.highlight_engine" {
		t.Errorf("expected field preview.highlight_engine, got %q", vErr.Field)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), "preview: [oops\n")

	_, err := Load(context.Background(), hermetic(tmpDir))
	if err == nil || !strings.Contains(err.Error(), "load project config") {
		t.Fatalf("expected project config parse error, got %v", err)
	}
}

func TestLoad_UnknownColorSchemeWarns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".peek.yml"), "preview:\n  color_scheme: no-such-scheme\n")

	result, err := Load(context.Background(), hermetic(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "no-such-scheme") {
		t.Errorf("expected one color scheme warning, got %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, hermetic(t.TempDir()))
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".peek.yml")

	if err := WriteConfig(path, []byte("icons: true\n"), false); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	if err := WriteConfig(path, []byte("icons: false\n"), false); err == nil {
		t.Fatal("expected refusal to overwrite without force")
	}
	if err := WriteConfig(path, []byte("icons: false\n"), true); err != nil {
		t.Fatalf("WriteConfig(force) error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != "icons: false\n" {
		t.Errorf("unexpected content %q", content)
	}
}
