package langdetect

import "strings"

// commentPrefixes lists the line-comment markers of each language.
//
//nolint:gochecknoglobals // Read-only lookup table.
var commentPrefixes = map[string][]string{
	"C":          {"//", "/*", "*"},
	"C#":         {"//", "/*", "*"},
	"C++":        {"//", "/*", "*"},
	"CSS":        {"/*", "*"},
	"Dart":       {"//", "/*", "*"},
	"Elixir":     {"#"},
	"Erlang":     {"%"},
	"Go":         {"//", "/*", "*"},
	"Haskell":    {"--", "{-"},
	"Java":       {"//", "/*", "*"},
	"JavaScript": {"//", "/*", "*"},
	"Kotlin":     {"//", "/*", "*"},
	"Lua":        {"--"},
	"Makefile":   {"#"},
	"Perl":       {"#"},
	"PHP":        {"//", "#", "/*", "*"},
	"Python":     {"#"},
	"R":          {"#"},
	"Ruby":       {"#"},
	"Rust":       {"//", "/*", "*"},
	"Scala":      {"//", "/*", "*"},
	"Shell":      {"#"},
	"SQL":        {"--"},
	"Swift":      {"//", "/*", "*"},
	"TSX":        {"//", "/*", "*"},
	"TypeScript": {"//", "/*", "*"},
	"Vim Script": {"\""},
	"Zig":        {"//"},
}

// IsComment reports whether line is a comment in the language identified
// by the file extension ext (without the leading dot). Unknown languages
// never have comments.
func IsComment(line, ext string) bool {
	if ext == "" {
		return false
	}

	prefixes, ok := commentPrefixes[Language("file."+ext)]
	if !ok {
		return false
	}

	trimmed := strings.TrimSpace(line)
	for _, prefix := range prefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}

	return false
}
