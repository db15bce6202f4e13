package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/peek/pkg/fsutil"
)

// appDir is the directory name of peek under XDG config directories.
const appDir = "peek"

// defaultConfigDirs is the XDG_CONFIG_DIRS fallback.
const defaultConfigDirs = "/etc/xdg"

// ConfigPaths holds the configuration files a session reads, lowest
// precedence first. Empty fields were not found.
type ConfigPaths struct {
	// System is the first config.{yml,yaml,json} under $XDG_CONFIG_DIRS/peek or /etc/peek.
	System string

	// User is config.{yml,yaml,json} under $XDG_CONFIG_HOME/peek.
	User string

	// Project is the nearest .peek.{yml,yaml,json} above the session directory.
	Project string

	// Explicit is the --config path.
	Explicit string
}

// projectConfigFiles are searched in each directory, first match wins.
// "peek init" writes the first or the last.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{".peek.yml", ".peek.yaml", "peek.yml", "peek.yaml", ".peek.json"}

//nolint:gochecknoglobals // Read-only lookup table.
var sharedConfigFiles = []string{"config.yml", "config.yaml", "config.json"}

//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn", ".jj"}

// DiscoverPaths locates the system, user and project configuration for a
// session started in workDir. Missing files are not errors.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstConfigIn(systemConfigDirs()...),
		User:    firstConfigIn(userConfigDir()),
		Project: project,
	}, nil
}

// systemConfigDirs lists $XDG_CONFIG_DIRS entries followed by /etc.
func systemConfigDirs() []string {
	xdg := os.Getenv("XDG_CONFIG_DIRS")
	if xdg == "" {
		xdg = defaultConfigDirs
	}

	var dirs []string
	for _, dir := range filepath.SplitList(xdg) {
		if filepath.IsAbs(dir) {
			dirs = append(dirs, filepath.Join(dir, appDir))
		}
	}
	return append(dirs, filepath.Join("/etc", appDir))
}

func userConfigDir() string {
	home := os.Getenv("XDG_CONFIG_HOME")
	if home == "" {
		home = fsutil.ExpandTilde("~/.config")
		if home == "~/.config" {
			return ""
		}
	}
	return filepath.Join(home, appDir)
}

// firstConfigIn returns the first shared config file found in dirs.
func firstConfigIn(dirs ...string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if path := firstFileIn(dir, sharedConfigFiles); path != "" {
			return path
		}
	}
	return ""
}

func firstFileIn(dir string, names []string) string {
	for _, name := range names {
		if path := filepath.Join(dir, name); fsutil.IsRegularFile(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig returns the nearest project config at or above
// startDir. The search ends at a repository root, the home directory or
// the file system root. An empty startDir means the process directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstFileIn(dir, projectConfigFiles); path != "" {
			return path, nil
		}
		if isRepositoryRoot(dir) || dir == home {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isRepositoryRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if fsutil.IsDir(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}
