// Package runner warms the preview cache by previewing many result lines
// concurrently, and discovers the file lines a files provider would list.
package runner

// Options controls discovery and warming.
type Options struct {
	// Paths are the files or directories to list. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and is the base of listed lines.
	// Empty means the process working directory.
	WorkingDir string

	// Extensions restricts listed files to these extensions (with the
	// leading dot, any case). Empty lists every file.
	Extensions []string

	// IncludeGlobs, when set, keep only files matching one of them.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks walks directory symlinks.
	FollowSymlinks bool

	// Jobs is the number of concurrent previews. Zero or less means
	// runtime.NumCPU().
	Jobs int
}

// effectivePaths returns the paths to list, defaulting to ".".
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
