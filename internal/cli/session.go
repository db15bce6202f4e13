package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/peek/internal/configloader"
	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/config"
	"github.com/yaklabco/peek/pkg/contextline"
	"github.com/yaklabco/peek/pkg/grepcache"
	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/jobs"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/tags"
	"github.com/yaklabco/peek/pkg/target"
)

// digestDBName is the digest database inside the grep cache directory.
const digestDBName = "digests.db"

// cacheDirPermissions is the mode of the grep cache directory.
const cacheDirPermissions = 0o755

// sessionFlags are the flags shared by commands that build previews.
type sessionFlags struct {
	provider    string
	cwd         string
	buffer      string
	runtimepath string
	height      int
	width       int
	nvim        bool
	nvim09      bool
	icons       bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.provider, "provider", "p", target.ProviderFiles,
		"Provider that produced the line")
	cmd.Flags().StringVar(&f.cwd, "cwd", "", "Working directory of the session (default: current directory)")
	cmd.Flags().StringVar(&f.buffer, "buffer", "", "File open when the finder started")
	cmd.Flags().StringVar(&f.runtimepath, "runtimepath", "", "Comma-separated editor runtimepath for help tags")
	cmd.Flags().IntVar(&f.height, "height", 0, "Excerpt height in lines (default: preview.height)")
	cmd.Flags().IntVar(&f.width, "width", 0, "Preview width in cells (default: display.line_width)")
	cmd.Flags().BoolVar(&f.nvim, "nvim", false, "Host is Neovim")
	cmd.Flags().BoolVar(&f.nvim09, "nvim09", false, "Host is Neovim 0.9 or newer")
	cmd.Flags().BoolVar(&f.icons, "icons", false, "Result lines carry file-type icons")
}

// cliConfig returns the configuration set by flags.
func (f *sessionFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	cfg.Preview.Height = f.height
	cfg.Display.LineWidth = f.width
	if cmd.Flags().Changed("icons") {
		cfg.Icons = config.Bool(f.icons)
	}
	return cfg
}

// session is the state shared by every preview of one command run.
type session struct {
	ctx      context.Context
	cfg      *config.Config
	logger   *log.Logger
	pctx     *preview.Context
	registry *target.Registry
	options  preview.Options

	store *grepcache.Store
	guard *grepcache.Guard
}

// openSession loads configuration and wires the preview collaborators.
func openSession(cmd *cobra.Command, flags *sessionFlags, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cwd := flags.cwd
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := loadConfig(cmd, cwd, cliCfg)
	if err != nil {
		return nil, err
	}

	registry := target.DefaultRegistry()
	if !registry.Has(flags.provider) {
		return nil, fmt.Errorf("%w: %s (known: %s)", target.ErrUnknownProvider, flags.provider,
			strings.Join(registry.Providers(), ", "))
	}

	ctx, logger := logging.WithSession(ctx, newCommandLogger(cmd, cfg), flags.provider, cwd)

	pctx := &preview.Context{
		Provider: flags.provider,
		Cwd:      cwd,
		Env: preview.Env{
			IsNvim:           flags.nvim || flags.nvim09,
			HasNvim09:        flags.nvim09,
			Icons:            cfg.IconsEnabled(),
			DisplayLineWidth: cfg.Display.LineWidth,
			DisplayWinHeight: cfg.Display.WinHeight,
			PreviewBorder:    cfg.BorderEnabled(),
			ScrollbarEnabled: cfg.ScrollbarEnabled(),
			StartBufferPath:  flags.buffer,
			Runtimepath:      flags.runtimepath,
		},
		Executor: preview.ShellExecutor{Dir: cwd},
		UI:       cliUI{width: cfg.Display.LineWidth, logger: logger},
		Cache:    preview.NewMemoryCache(),
		Logger:   logger,
	}

	sess := &session{
		ctx:      ctx,
		cfg:      cfg,
		logger:   logger,
		pctx:     pctx,
		registry: registry,
	}

	sess.options = preview.Options{
		Height: cfg.Preview.Height,
		Highlighter: highlight.NewDispatcher(highlight.Options{
			Engine: highlight.Engine(cfg.Preview.HighlightEngine),
			Theme:  cfg.Preview.ColorScheme,
			Logger: logger,
		}),
		Logger: logger,
	}

	if cfg.ContextLinesEnabled() {
		sess.options.ContextLines = contextline.New(tags.Chain{tags.NewMarkdown(), tags.NewTreeSitter()})
	}

	sess.openGuard()

	logger.Debug("session ready",
		logging.FieldEngine, cfg.Preview.HighlightEngine,
		logging.FieldTheme, cfg.Preview.ColorScheme,
	)

	return sess, nil
}

// openGuard wires the stale grep cache guard. A cache directory that
// cannot be opened disables the guard.
func (s *session) openGuard() {
	dir := s.cfg.Grep.CacheDir
	if dir == "" {
		return
	}

	if err := os.MkdirAll(dir, cacheDirPermissions); err != nil {
		s.logger.Warn("grep cache disabled", logging.FieldPath, dir, logging.FieldError, err)
		return
	}

	store, err := grepcache.OpenStore(filepath.Join(dir, digestDBName))
	if err != nil {
		s.logger.Warn("grep cache disabled", logging.FieldPath, dir, logging.FieldError, err)
		return
	}

	refresher := &grepcache.Refresher{
		Dir:     dir,
		Command: s.cfg.Grep.Command,
		Store:   store,
	}

	s.store = store
	s.guard = grepcache.NewGuard(s.pctx, refresher, jobs.NewRegistry()).WithLogger(s.logger)
	s.options.Guard = s.guard

	restored, err := s.guard.Restore(s.ctx)
	if err != nil {
		s.logger.Warn("could not read grep cache digest", logging.FieldError, err)
		return
	}
	if restored {
		src := s.pctx.ProviderSource()
		s.logger.Debug("restored grep cache", logging.FieldPath, src.Path, logging.FieldTotal, src.Total)
	}
}

// Close waits for background refreshes and releases the digest store.
func (s *session) Close() error {
	s.pctx.Terminate()

	if s.guard != nil {
		if s.guard.Refreshing() {
			s.logger.Debug("waiting for grep cache refresh")
		}
		s.guard.Wait()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close grep cache: %w", err)
		}
	}
	return nil
}

// loadConfig resolves the configuration for a command run in workDir.
func loadConfig(cmd *cobra.Command, workDir string, cliCfg *config.Config) (*config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:      workDir,
		ExplicitPath:    configPath,
		DetectLineWidth: true,
		CLIConfig:       cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	logger := logging.Default()
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

// newCommandLogger returns a logger on the command's error stream at the
// configured level, or debug when --debug is set.
func newCommandLogger(cmd *cobra.Command, cfg *config.Config) *log.Logger {
	level := cfg.LogLevel
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		level = "debug"
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level)
}

// cliUI stands in for the host editor when peek runs from a terminal.
type cliUI struct {
	width  int
	logger *log.Logger
}

func (u cliUI) PreviewWinWidth(_ context.Context) (int, error) {
	return u.width, nil
}

func (u cliUI) EchoInfo(_ context.Context, msg string) error {
	u.logger.Info(msg)
	return nil
}
