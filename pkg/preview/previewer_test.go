package preview_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/internal/logging"
	"github.com/yaklabco/peek/pkg/highlight"
	"github.com/yaklabco/peek/pkg/preview"
	"github.com/yaklabco/peek/pkg/scrollbar"
	"github.com/yaklabco/peek/pkg/target"
)

func newContext(provider, cwd string) *preview.Context {
	return &preview.Context{
		Provider: provider,
		Cwd:      cwd,
		Env: preview.Env{
			DisplayLineWidth: 80,
			DisplayWinHeight: 10,
		},
		UI:    fakeUI{width: 200},
		Cache: preview.NewMemoryCache(),
	}
}

func TestGet_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.go")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	pctx := newContext(target.ProviderFiles, dir)
	p := preview.NewForTarget(pctx, target.File(path), preview.Options{})

	_, got, err := p.Get(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, got.Lines)
	assert.Equal(t, preview.EmptyFile, got.Lines[len(got.Lines)-1])
	assert.Equal(t, "./empty.go", got.Lines[0])
	assert.Equal(t, preview.SyntaxFromFname(path), got.SyntaxInfo)
	assert.Nil(t, got.Scrollbar)
}

func TestGet_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeGoFile(t, dir, 100)

	t.Run("cwd relative title", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderFiles, dir)
		pctx.Env.ScrollbarEnabled = true

		_, got, err := preview.NewForTarget(pctx, target.File(path), preview.Options{}).Get(context.Background())
		require.NoError(t, err)

		require.Len(t, got.Lines, 11)
		assert.Equal(t, "./main.go", got.Lines[0])
		assert.Equal(t, "var v1 = 1", got.Lines[1])
		assert.Equal(t, preview.SyntaxName("go"), got.SyntaxInfo)
		require.NotNil(t, got.Scrollbar)
		assert.Equal(t, scrollbar.Bar{Top: 0, Length: 1}, *got.Scrollbar)
		assert.Nil(t, got.HiLnum)
	})

	t.Run("embedded title without float windows", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderFiles, dir)
		pctx.Env.IsNvim = true
		pctx.Env.DisplayLineWidth = 500

		_, got, err := preview.NewForTarget(pctx, target.File(path), preview.Options{}).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, path, got.Lines[0])
	})

	t.Run("extensionless script detected from shebang", func(t *testing.T) {
		t.Parallel()

		script := filepath.Join(t.TempDir(), "deploy")
		require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho deploying\n"), 0o644))

		pctx := newContext(target.ProviderFiles, filepath.Dir(script))

		_, got, err := preview.NewForTarget(pctx, target.File(script), preview.Options{}).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, preview.SyntaxName("sh"), got.SyntaxInfo)
	})

	t.Run("missing file hints at an outdated cache", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		pctx := newContext(target.ProviderFiles, dir)
		opts := preview.Options{Logger: logging.NewWithWriter(&buf, "debug")}

		_, got, err := preview.NewForTarget(pctx, target.File(filepath.Join(dir, "gone.go")), opts).Get(context.Background())
		require.ErrorIs(t, err, preview.ErrNotAFile)
		assert.Nil(t, got)
		assert.Contains(t, buf.String(), "cache may be outdated")
		assert.Contains(t, buf.String(), "gone.go")
	})

	t.Run("directory is not a file", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderFiles, dir)

		_, got, err := preview.NewForTarget(pctx, target.File(dir), preview.Options{}).Get(context.Background())
		require.ErrorIs(t, err, preview.ErrNotAFile)
		assert.Nil(t, got)
		assert.Zero(t, pctx.Cache.(*preview.MemoryCache).Len())
	})
}

func TestGet_CacheRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeGoFile(t, dir, 100)

	tests := []struct {
		name   string
		target target.Target
	}{
		{name: "file", target: target.File(path)},
		{name: "line in file", target: target.LineInFile(path, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader := &countingReader{}
			pctx := newContext(target.ProviderGrep, dir)
			opts := preview.Options{Reader: reader}

			gotTarget, first, err := preview.NewForTarget(pctx, tt.target, opts).Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.target, gotTarget)

			calls := reader.calls()
			require.Positive(t, calls)

			_, second, err := preview.NewForTarget(pctx, tt.target, opts).Get(context.Background())
			require.NoError(t, err)

			assert.Equal(t, *first, *second)
			assert.Equal(t, calls, reader.calls(), "cache hit must not read files")
			assert.Equal(t, 1, pctx.Cache.(*preview.MemoryCache).Len())
		})
	}
}

func TestGet_LineInFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeGoFile(t, dir, 100)

	t.Run("header and highlight index", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderGrep, dir)
		p := preview.NewForTarget(pctx, target.LineInFile(path, 50), preview.Options{})

		_, got, err := p.Get(context.Background())
		require.NoError(t, err)

		require.Len(t, got.Lines, 11)
		assert.Equal(t, "./main.go:50", got.Lines[0])
		require.NotNil(t, got.HiLnum)
		assert.Equal(t, 5, *got.HiLnum)
		assert.Equal(t, "var v50 = 50", got.Lines[*got.HiLnum])
		assert.Equal(t, preview.SyntaxName("go"), got.SyntaxInfo)
	})

	t.Run("absolute header without float title", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderGrep, dir)
		pctx.Env.IsNvim = true

		_, got, err := preview.NewForTarget(pctx, target.LineInFile(path, 50), preview.Options{}).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, path+":50", got.Lines[0])
	})

	t.Run("absolute header for other providers", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderBlines, dir)

		_, got, err := preview.NewForTarget(pctx, target.LineInFile(path, 7), preview.Options{}).Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, path+":7", got.Lines[0])
	})

	t.Run("context lines shift highlights", func(t *testing.T) {
		t.Parallel()

		hl := &fixedHighlighter{outcome: highlight.Sublime{Lines: []highlight.Line{
			{Line: 9, Spans: []highlight.Span{{Offset: 0, Length: 3, Group: "PeekSyntax_f92672"}}},
		}}}
		ctxLines := fixedContextLines{"---", "func main() {  \U0001F4A1", "---"}

		pctx := newContext(target.ProviderGrep, dir)
		pctx.Env.ScrollbarEnabled = true
		p := preview.NewForTarget(pctx, target.LineInFile(path, 50), preview.Options{
			Highlighter:  hl,
			ContextLines: ctxLines,
		})

		_, got, err := p.Get(context.Background())
		require.NoError(t, err)

		require.Len(t, got.Lines, 14)
		assert.Equal(t, []string(ctxLines), got.Lines[1:4])
		require.NotNil(t, got.HiLnum)
		assert.Equal(t, 8, *got.HiLnum)
		assert.Equal(t, "var v50 = 50", got.Lines[*got.HiLnum])

		req := hl.lastRequest()
		assert.Equal(t, 5, req.LineOffset)
		assert.Equal(t, 3, req.ContextLines)
		assert.Equal(t, 45, req.WindowStart)
		assert.Equal(t, 55, req.WindowEnd)
		assert.Equal(t, 160, req.MaxLineWidth)

		assert.NotEmpty(t, got.SublimeHighlights)
		assert.Empty(t, got.TreeSitterHighlights)
		assert.True(t, got.SyntaxInfo.IsEmpty())

		require.NotNil(t, got.Scrollbar)
		assert.Equal(t, scrollbar.Bar{Top: 4, Length: 1}, *got.Scrollbar)
	})

	t.Run("scrollbar start moves back without context lines", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderGrep, dir)
		pctx.Env.ScrollbarEnabled = true
		pctx.Env.DisplayWinHeight = 20

		_, got, err := preview.NewForTarget(pctx, target.LineInFile(path, 50), preview.Options{Height: 10}).Get(context.Background())
		require.NoError(t, err)

		// Rows 42..55 of 100 in a 20 row window.
		require.NotNil(t, got.Scrollbar)
		assert.Equal(t, scrollbar.Bar{Top: 8, Length: 2}, *got.Scrollbar)
	})

	t.Run("tree-sitter outcome", func(t *testing.T) {
		t.Parallel()

		hl := &fixedHighlighter{outcome: highlight.TreeSitter{Lines: []highlight.Line{
			{Line: 2, Spans: []highlight.Span{{Offset: 0, Length: 3, Group: "Keyword"}}},
		}}}

		pctx := newContext(target.ProviderGrep, dir)
		_, got, err := preview.NewForTarget(pctx, target.LineInFile(path, 3), preview.Options{Highlighter: hl}).Get(context.Background())
		require.NoError(t, err)

		assert.NotEmpty(t, got.TreeSitterHighlights)
		assert.Empty(t, got.SublimeHighlights)
		assert.True(t, got.SyntaxInfo.IsEmpty())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(dir, "gone.go")
		pctx := newContext(target.ProviderGrep, dir)

		_, got, err := preview.NewForTarget(pctx, target.LineInFile(missing, 3), preview.Options{}).Get(context.Background())
		require.NoError(t, err)

		require.Len(t, got.Lines, 2)
		assert.Equal(t, "./gone.go:3", got.Lines[0])
		assert.True(t, strings.HasPrefix(got.Lines[1], "Error while previewing "+missing+": "))
		assert.Equal(t, preview.SyntaxFromFname(missing), got.SyntaxInfo)
		assert.Nil(t, got.HiLnum)
	})

	t.Run("window width failure", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderGrep, dir)
		pctx.UI = fakeUI{err: errors.New("host gone")}

		_, _, err := preview.NewForTarget(pctx, target.LineInFile(path, 3), preview.Options{}).Get(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "host gone")
	})
}

func TestGet_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	empty := filepath.Join(dir, "sub")

	tests := []struct {
		name string
		path string
		want []string
	}{
		{
			name: "entries",
			path: dir + string(filepath.Separator),
			want: []string{dir + ":", "sub" + string(filepath.Separator), "a.txt"},
		},
		{
			name: "empty",
			path: empty,
			want: []string{empty + ":", preview.EmptyDirectory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pctx := newContext(target.ProviderFiler, dir)
			_, got, err := preview.NewForTarget(pctx, target.Directory(tt.path), preview.Options{}).Get(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Lines)
		})
	}
}

func TestGet_Commit(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{out: []byte("commit abc1234\nAuthor: A <a@b>\n\n    subject\n")}
	pctx := newContext(target.ProviderCommits, t.TempDir())
	pctx.Executor = exec

	p := preview.NewForTarget(pctx, target.GitCommit("abc1234"), preview.Options{Height: 2})
	_, got, err := p.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"commit abc1234", "Author: A <a@b>"}, got.Lines)
	assert.Equal(t, preview.SyntaxName("diff"), got.SyntaxInfo)
	assert.Equal(t, []string{"git show abc1234"}, exec.cmds)

	t.Run("executor failure", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderCommits, t.TempDir())
		pctx.Executor = &fakeExecutor{err: errors.New("not a git repository")}

		_, _, err := preview.NewForTarget(pctx, target.GitCommit("abc1234"), preview.Options{}).Get(context.Background())
		require.Error(t, err)
	})

	t.Run("no executor", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderCommits, t.TempDir())
		_, _, err := preview.NewForTarget(pctx, target.GitCommit("abc1234"), preview.Options{}).Get(context.Background())
		require.ErrorIs(t, err, preview.ErrNoExecutor)
	})
}

func TestGet_Help(t *testing.T) {
	t.Parallel()

	rtp := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(rtp, "doc"), 0o755))
	doc := filepath.Join(rtp, "doc", "peek.txt")
	require.NoError(t, os.WriteFile(doc, []byte("intro\n*peek-usage*\nRun it.\n"), 0o644))

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderHelpTags, rtp)
		_, got, err := preview.NewForTarget(pctx, target.HelpTags("peek-usage", "peek.txt", rtp), preview.Options{}).Get(context.Background())
		require.NoError(t, err)

		require.NotEmpty(t, got.Lines)
		assert.Equal(t, doc, got.Lines[0])
		assert.Equal(t, "*peek-usage*", got.Lines[1])
		require.NotNil(t, got.HiLnum)
		assert.Equal(t, 1, *got.HiLnum)
		assert.Equal(t, preview.SyntaxName("help"), got.SyntaxInfo)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderHelpTags, rtp)
		pctx.Env.ScrollbarEnabled = true
		_, got, err := preview.NewForTarget(pctx, target.HelpTags("nothing-here", "peek.txt", rtp), preview.Options{}).Get(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{preview.HelpNotFound}, got.Lines)
		assert.Empty(t, got.SublimeHighlights)
		assert.Empty(t, got.TreeSitterHighlights)
		assert.Nil(t, got.Scrollbar)
		assert.Nil(t, got.HiLnum)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeGoFile(t, dir, 20)

	t.Run("resolves with the session provider", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderGrep, dir)
		p, err := preview.New(pctx, nil, "main.go:12:1:var v12 = 12", preview.Options{})
		require.NoError(t, err)

		assert.Equal(t, target.LineInFile(path, 12), p.Target())
		observed, ok := p.ObservedLine()
		require.True(t, ok)
		assert.Equal(t, "var v12 = 12", observed)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		pctx := newContext("no_such_provider", dir)
		_, err := preview.New(pctx, nil, "main.go", preview.Options{})

		var perr *target.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "no_such_provider", perr.Provider)
		assert.ErrorIs(t, err, target.ErrUnknownProvider)
	})

	t.Run("height falls back to the window height", func(t *testing.T) {
		t.Parallel()

		pctx := newContext(target.ProviderFiles, dir)
		pctx.Env.DisplayWinHeight = 0
		assert.Equal(t, preview.DefaultHeight, preview.NewForTarget(pctx, target.File(path), preview.Options{}).Height())

		pctx.Env.DisplayWinHeight = 12
		assert.Equal(t, 12, preview.NewForTarget(pctx, target.File(path), preview.Options{}).Height())
		assert.Equal(t, 4, preview.NewForTarget(pctx, target.File(path), preview.Options{Height: 4}).Height())
	})
}

func TestGet_StaleGuard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeGoFile(t, dir, 20)

	tests := []struct {
		name      string
		provider  string
		line      string
		wantCalls [][2]string
	}{
		{
			name:      "grep line differs from disk",
			provider:  target.ProviderGrep,
			line:      "main.go:12:1:var v12 = 0",
			wantCalls: [][2]string{{"var v12 = 0", "var v12 = 12"}},
		},
		{
			name:      "live grep line matches disk",
			provider:  target.ProviderLiveGrep,
			line:      "main.go:3:1:var v3 = 3",
			wantCalls: [][2]string{{"var v3 = 3", "var v3 = 3"}},
		},
		{
			name:      "grep line past the end of the file",
			provider:  target.ProviderGrep,
			line:      "main.go:500:1:var v500 = 500",
			wantCalls: [][2]string{{"var v500 = 500", ""}},
		},
		{
			name:     "providers without an index are not checked",
			provider: target.ProviderCocLocation,
			line:     "main.go:3:1:var v3 = 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			guard := &recordingGuard{}
			pctx := newContext(tt.provider, dir)

			p, err := preview.New(pctx, nil, tt.line, preview.Options{Guard: guard})
			require.NoError(t, err)

			_, _, err = p.Get(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantCalls, guard.recorded())
		})
	}
}

func TestGet_LineBeyondEndOfFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeGoFile(t, dir, 2)

	pctx := newContext(target.ProviderGrep, dir)

	p, err := preview.New(pctx, nil, "main.go:500:1:var v500 = 500", preview.Options{})
	require.NoError(t, err)

	_, out, err := p.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Nil(t, out.HiLnum, "no highlight for a line that is not in the preview")
	assert.Len(t, out.Lines, 1)
}

func TestContext(t *testing.T) {
	t.Parallel()

	pctx := &preview.Context{Provider: target.ProviderGrep, Cwd: "/repo"}
	pctx.Env.Icons = true
	pctx.Env.StartBufferPath = "/repo/main.go"

	assert.False(t, pctx.Terminated())
	pctx.Terminate()
	assert.True(t, pctx.Terminated())

	src := preview.ProviderSource{Kind: preview.SourceCachedFile, Total: 42, Path: "/cache/x", Refreshed: true}
	pctx.SetProviderSource(src)
	assert.Equal(t, src, pctx.ProviderSource())

	env := pctx.TargetEnv()
	assert.Equal(t, "/repo", env.Cwd)
	assert.True(t, env.Icons)
	assert.Equal(t, "/repo/main.go", env.StartBufferPath)

	require.NoError(t, pctx.EchoInfo(context.Background(), "ignored without a UI"))
}

func TestEnv(t *testing.T) {
	t.Parallel()

	env := preview.Env{ScrollbarEnabled: true, DisplayLineWidth: 50}
	assert.True(t, env.ShouldAddScrollbar(1))
	assert.False(t, env.ShouldAddScrollbar(0))
	assert.Equal(t, 100, env.MaxLineWidth())

	assert.True(t, preview.Env{}.SupportsFloatTitle())
	assert.False(t, preview.Env{IsNvim: true}.SupportsFloatTitle())
	assert.True(t, preview.Env{IsNvim: true, HasNvim09: true}.SupportsFloatTitle())
	assert.False(t, preview.Env{}.ShouldAddScrollbar(10))
}
