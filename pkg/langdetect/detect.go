// Package langdetect maps files to the syntax names the host editor
// understands. It uses go-enry to identify the language of a path, falling
// back to the file content for extensionless scripts.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Syntax names that differ from the lowercased linguist language name.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vimSyntaxByLanguage = map[string]string{
	"C#":                 "cs",
	"C++":                "cpp",
	"Dockerfile":         "dockerfile",
	"Emacs Lisp":         "lisp",
	"Git Commit":         "gitcommit",
	"Git Config":         "gitconfig",
	"Ignore List":        "gitignore",
	"JSON with Comments": "jsonc",
	"Makefile":           "make",
	"Objective-C":        "objc",
	"Shell":              "sh",
	"Text":               "text",
	"Vim Help File":      "help",
	"Vim Script":         "vim",
	"Vim Snippet":        "snippets",
}

// classifierCandidates bounds the content classifier to languages that
// commonly appear without an extension.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Shell", "Python", "Ruby", "Perl", "Lua", "JavaScript", "Makefile", "Dockerfile",
}

// preferredByExtension settles extensions linguist shares between several
// languages, keyed by extension without the dot.
//
//nolint:gochecknoglobals // Read-only lookup table.
var preferredByExtension = map[string]string{
	"h":   "C",
	"m":   "Objective-C",
	"md":  "Markdown",
	"pl":  "Perl",
	"rs":  "Rust",
	"sql": "SQL",
	"ts":  "TypeScript",
	"v":   "Verilog",
}

// SyntaxFor returns the editor syntax name for path based on its file name
// and extension. It reports false when the language is unknown.
func SyntaxFor(path string) (string, bool) {
	if lang := Language(path); lang != "" {
		return VimSyntax(lang), true
	}
	return "", false
}

// SyntaxForContent returns the syntax name for path, consulting head (the
// first bytes of the file) when the name alone is not conclusive.
func SyntaxForContent(path string, head []byte) (string, bool) {
	if syntax, ok := SyntaxFor(path); ok {
		return syntax, true
	}

	if len(head) == 0 || enry.IsBinary(head) {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(head); safe {
		return VimSyntax(lang), true
	}

	if lang, safe := enry.GetLanguageByClassifier(head, classifierCandidates); safe && lang != "" {
		return VimSyntax(lang), true
	}

	return "", false
}

// Language returns the linguist language name for path, or "" if unknown.
func Language(path string) string {
	name := filepath.Base(path)

	if lang, _ := enry.GetLanguageByFilename(name); lang != "" {
		return lang
	}

	if lang, ok := preferredByExtension[strings.ToLower(Extension(name))]; ok {
		return lang
	}

	lang, _ := enry.GetLanguageByExtension(name)
	return lang
}

// VimSyntax converts a linguist language name to an editor syntax name.
func VimSyntax(lang string) string {
	if syntax, ok := vimSyntaxByLanguage[lang]; ok {
		return syntax
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "")
}

// Extension returns the extension of path without the leading dot.
func Extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
