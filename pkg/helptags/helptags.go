// Package helptags finds the definition of a help tag in the help files
// of an editor runtimepath.
package helptags

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/yaklabco/peek/pkg/fsutil"
)

// Match is a help tag found in a help file.
type Match struct {
	// Path is the help file defining the tag.
	Path string

	// Line is the 1-based line of the tag definition.
	Line int

	// Lines holds the definition line and the lines after it.
	Lines []string
}

// Dirs splits a comma-separated runtimepath into directories, expanding a
// leading "~" and dropping empty entries.
func Dirs(runtimepath string) []string {
	var dirs []string
	for _, entry := range strings.Split(runtimepath, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		dirs = append(dirs, fsutil.ExpandTilde(entry))
	}
	return dirs
}

// Find looks for "*subject*" in doc/docFilename under every runtimepath
// directory, in order, and returns up to height lines starting at the
// first definition found.
func Find(ctx context.Context, subject, docFilename, runtimepath string, height int) (*Match, bool) {
	if subject == "" || docFilename == "" {
		return nil, false
	}

	needle := []byte("*" + subject + "*")

	for _, dir := range Dirs(runtimepath) {
		path := filepath.Join(dir, "doc", docFilename)

		content, _, err := fsutil.ReadFile(ctx, path, fsutil.MaxSourceBytes)
		if err != nil {
			continue
		}

		if match, ok := findIn(path, content, needle, height); ok {
			return match, true
		}
	}

	return nil, false
}

func findIn(path string, content, needle []byte, height int) (*Match, bool) {
	lines := bytes.Split(content, []byte("\n"))

	for idx, line := range lines {
		if !bytes.Contains(line, needle) {
			continue
		}

		end := len(lines)
		if height > 0 {
			end = min(idx+height, len(lines))
		}

		out := make([]string, 0, end-idx)
		for _, l := range lines[idx:end] {
			out = append(out, strings.TrimRight(string(l), "\r"))
		}

		return &Match{Path: path, Line: idx + 1, Lines: out}, true
	}

	return nil, false
}
