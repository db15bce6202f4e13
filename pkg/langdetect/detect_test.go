package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/peek/pkg/langdetect"
)

func TestSyntaxFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected string
		found    bool
	}{
		{name: "go source", path: "/repo/main.go", expected: "go", found: true},
		{name: "rust source", path: "src/lib.rs", expected: "rust", found: true},
		{name: "python source", path: "tool.py", expected: "python", found: true},
		{name: "shell script", path: "install.sh", expected: "sh", found: true},
		{name: "c++ source", path: "engine.cpp", expected: "cpp", found: true},
		{name: "makefile by name", path: "/repo/Makefile", expected: "make", found: true},
		{name: "dockerfile by name", path: "Dockerfile", expected: "dockerfile", found: true},
		{name: "ambiguous header", path: "include/peek.h", expected: "c", found: true},
		{name: "unknown extension", path: "data.zzzunknown", expected: "", found: false},
		{name: "no extension", path: "README_NOEXT", expected: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := langdetect.SyntaxFor(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSyntaxForContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		head     string
		expected string
		found    bool
	}{
		{name: "extension wins", path: "main.go", head: "#!/bin/bash\n", expected: "go", found: true},
		{name: "bash shebang", path: "bin/run", head: "#!/bin/bash\necho hi\n", expected: "sh", found: true},
		{name: "env python shebang", path: "bin/tool", head: "#!/usr/bin/env python3\nprint(1)\n", expected: "python", found: true},
		{name: "empty head", path: "bin/empty", head: "", expected: "", found: false},
		{name: "binary head", path: "bin/blob", head: "\x00\x01\x02\x00", expected: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := langdetect.SyntaxForContent(tt.path, []byte(tt.head))
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVimSyntax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sh", langdetect.VimSyntax("Shell"))
	assert.Equal(t, "javascript", langdetect.VimSyntax("JavaScript"))
	assert.Equal(t, "lisp", langdetect.VimSyntax("Emacs Lisp"))
	assert.Equal(t, "commonlisp", langdetect.VimSyntax("Common Lisp"))
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Go", langdetect.Language("x/y/main.go"))
	assert.Equal(t, "Rust", langdetect.Language("lib.rs"))
	assert.Empty(t, langdetect.Language("nothing.zzzunknown"))
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rs", langdetect.Extension("/repo/src/main.rs"))
	assert.Equal(t, "gz", langdetect.Extension("archive.tar.gz"))
	assert.Empty(t, langdetect.Extension("Makefile"))
}
