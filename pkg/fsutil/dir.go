package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadDirEntries lists the entries of dir, directories first then files,
// each sorted by name. Directories carry a trailing separator. When icons is
// true every entry is prefixed with its file-type glyph. A limit above zero
// caps the number of entries returned.
func ReadDirEntries(dir string, icons bool, limit int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, dir, err)
		case errors.Is(err, os.ErrPermission):
			return nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, dir, err)
		default:
			return nil, fmt.Errorf("read dir %s: %w", dir, err)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += string(filepath.Separator)
		}
		if icons {
			name = IconFor(entry.Name(), entry.IsDir()) + " " + name
		}
		lines = append(lines, name)
	}

	return lines, nil
}

// iconsByExt maps lowercase extensions (without dot) to Nerd Font glyphs.
//
//nolint:gochecknoglobals // Read-only lookup table.
var iconsByExt = map[string]string{
	"c":    "\ue61e",
	"cpp":  "\ue61d",
	"css":  "\ue749",
	"go":   "\ue627",
	"h":    "\uf0fd",
	"html": "\ue736",
	"java": "\ue738",
	"js":   "\ue74e",
	"json": "\ue60b",
	"lua":  "\ue620",
	"md":   "\ue73e",
	"py":   "\ue606",
	"rb":   "\ue739",
	"rs":   "\ue7a8",
	"sh":   "\uf489",
	"toml": "\ue615",
	"ts":   "\ue628",
	"vim":  "\ue62b",
	"yaml": "\ue615",
	"yml":  "\ue615",
}

const (
	iconDirectory = "\uf115"
	iconDefault   = "\uf15b"
)

// IconFor returns the glyph shown before a file name.
func IconFor(name string, isDir bool) string {
	if isDir {
		return iconDirectory
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if icon, ok := iconsByExt[ext]; ok {
		return icon
	}
	return iconDefault
}
