// Package grepcache keeps the on-disk index behind cached grep providers
// fresh. It regenerates the index with ripgrep, records a digest of every
// index in a SQLite store and refreshes stale indexes in the background.
package grepcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/yaklabco/peek/pkg/fsutil"
	"github.com/yaklabco/peek/pkg/jobs"
	"github.com/yaklabco/peek/pkg/preview"
)

// DefaultCommand lists every line of every searchable file in vimgrep
// format, which the grep resolvers parse.
const DefaultCommand = "rg --column --line-number --no-heading --color=never --smart-case ''"

// ExecutorFunc returns the executor a refresh runs its command with.
type ExecutorFunc func(cwd string) preview.Executor

// Refresher regenerates cached search indexes.
type Refresher struct {
	// Dir is where index files are written.
	Dir string

	// Command regenerates the index. Empty means DefaultCommand.
	Command string

	// Store records digests. Nil skips recording.
	Store *Store

	// Executor runs Command in a directory. Nil means preview.ShellExecutor.
	Executor ExecutorFunc

	// Now returns the refresh time. Nil means time.Now.
	Now func() time.Time
}

// ShellCommand returns the command run to regenerate an index.
func (r *Refresher) ShellCommand() string {
	if r.Command == "" {
		return DefaultCommand
	}
	return r.Command
}

// JobID identifies the refresh of the index for cwd.
func (r *Refresher) JobID(cwd string) jobs.ID {
	return jobs.IDFor(cwd, r.ShellCommand())
}

// CachedPath returns the index file for cwd.
func (r *Refresher) CachedPath(cwd string) string {
	return filepath.Join(r.Dir, fmt.Sprintf("%016x.txt", uint64(r.JobID(cwd))))
}

// Refresh runs the command in cwd, replaces the index file and records the
// new digest.
func (r *Refresher) Refresh(ctx context.Context, cwd string) (Digest, error) {
	command := r.ShellCommand()

	out, err := r.executor(cwd).Exec(ctx, command)
	if err != nil && !noMatches(err) {
		return Digest{}, fmt.Errorf("refresh grep cache in %s: %w", cwd, err)
	}

	path := r.CachedPath(cwd)
	if _, err := fsutil.WriteAtomic(ctx, path, bytes.NewReader(out), 0); err != nil {
		return Digest{}, fmt.Errorf("write grep cache: %w", err)
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	digest := Digest{
		Cwd:         cwd,
		Command:     command,
		Total:       countLines(out),
		CachedPath:  path,
		RefreshedAt: now(),
	}

	if r.Store != nil {
		if err := r.Store.Put(ctx, digest); err != nil {
			return Digest{}, err
		}
	}

	return digest, nil
}

func (r *Refresher) executor(cwd string) preview.Executor {
	if r.Executor != nil {
		return r.Executor(cwd)
	}
	return preview.ShellExecutor{Dir: cwd}
}

// noMatches reports whether err is ripgrep's exit status for an empty
// result.
func noMatches(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

func countLines(out []byte) int {
	if len(out) == 0 {
		return 0
	}
	n := bytes.Count(out, []byte{'\n'})
	if out[len(out)-1] != '\n' {
		n++
	}
	return n
}
