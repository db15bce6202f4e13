package preview_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/pkg/contextline"
	"github.com/yaklabco/peek/pkg/fsutil"
	"github.com/yaklabco/peek/pkg/highlight"
)

// countingReader counts calls made to the file system.
type countingReader struct {
	windows atomic.Int32
	heads   atomic.Int32
	counts  atomic.Int32
}

func (r *countingReader) ReadWindow(path string, lnum, height int) (*fsutil.Window, error) {
	r.windows.Add(1)
	return fsutil.ReadWindow(path, lnum, height)
}

func (r *countingReader) ReadHead(path string, n int) ([]string, error) {
	r.heads.Add(1)
	return fsutil.ReadHead(path, n)
}

func (r *countingReader) CountLines(path string) (int, error) {
	r.counts.Add(1)
	return fsutil.CountLines(path)
}

func (r *countingReader) calls() int32 {
	return r.windows.Load() + r.heads.Load() + r.counts.Load()
}

// fixedHighlighter returns one outcome and records the last request.
type fixedHighlighter struct {
	outcome highlight.Outcome

	mu  sync.Mutex
	req highlight.Request
}

func (h *fixedHighlighter) Highlight(_ context.Context, req highlight.Request) highlight.Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.req = req
	return h.outcome
}

func (h *fixedHighlighter) lastRequest() highlight.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.req
}

type fixedContextLines []string

func (f fixedContextLines) Lines(context.Context, contextline.Request) []string {
	return f
}

type recordingGuard struct {
	mu    sync.Mutex
	calls [][2]string
}

func (g *recordingGuard) Check(_ context.Context, observed, latest string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, [2]string{observed, latest})
	return observed != latest
}

func (g *recordingGuard) recorded() [][2]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][2]string(nil), g.calls...)
}

type fakeExecutor struct {
	out []byte
	err error

	mu   sync.Mutex
	cmds []string
}

func (e *fakeExecutor) Exec(_ context.Context, cmd string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cmds = append(e.cmds, cmd)
	return e.out, e.err
}

type fakeUI struct {
	width int
	err   error
}

func (u fakeUI) PreviewWinWidth(context.Context) (int, error) {
	return u.width, u.err
}

func (u fakeUI) EchoInfo(context.Context, string) error {
	return nil
}

// writeGoFile writes a Go source file with n numbered statement lines.
func writeGoFile(t *testing.T, dir string, n int) string {
	t.Helper()

	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "var v%d = %d\n", i, i)
	}

	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	return path
}
