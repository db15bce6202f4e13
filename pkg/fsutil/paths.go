package fsutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ExpandTilde replaces a leading "~" with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// JoinCwd resolves path against cwd unless it is already absolute.
func JoinCwd(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

// CwdRelative replaces a leading cwd in path with ".". Paths outside cwd
// are returned unchanged.
func CwdRelative(path, cwd string) string {
	if cwd == "" {
		return path
	}
	if path == cwd {
		return "."
	}

	prefix := strings.TrimSuffix(cwd, string(filepath.Separator)) + string(filepath.Separator)
	if rest, ok := strings.CutPrefix(path, prefix); ok {
		return "." + string(filepath.Separator) + rest
	}
	return path
}

// TruncateAbsolutePath shortens path to at most maxWidth display cells by
// abbreviating the home directory and then dropping leading characters,
// which are replaced with "…". The file name is kept whenever it fits.
func TruncateAbsolutePath(path string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(path) <= maxWidth {
		return path
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(path, home) {
		path = "~" + strings.TrimPrefix(path, home)
		if runewidth.StringWidth(path) <= maxWidth {
			return path
		}
	}

	const ellipsis = "…"
	excess := runewidth.StringWidth(path) - maxWidth + runewidth.StringWidth(ellipsis)

	return ellipsis + runewidth.TruncateLeft(path, excess, "")
}

// DisplayWidth returns the number of display cells needed for s.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}
