package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/peek/pkg/langdetect"
)

func TestIsComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		ext      string
		expected bool
	}{
		{name: "go line comment", line: "\t// Handle errors.", ext: "go", expected: true},
		{name: "go block continuation", line: " * more text", ext: "go", expected: true},
		{name: "go code", line: "\treturn nil", ext: "go", expected: false},
		{name: "rust doc comment", line: "    /// Returns the path.", ext: "rs", expected: true},
		{name: "python hash", line: "# comment", ext: "py", expected: true},
		{name: "python code with hash", line: "x = '#'", ext: "py", expected: false},
		{name: "lua dashes", line: "-- config", ext: "lua", expected: true},
		{name: "shell comment", line: "  # setup", ext: "sh", expected: true},
		{name: "unknown extension", line: "// looks like a comment", ext: "zzzunknown", expected: false},
		{name: "empty extension", line: "# hash", ext: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, langdetect.IsComment(tt.line, tt.ext))
		})
	}
}
