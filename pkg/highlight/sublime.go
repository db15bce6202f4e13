package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/log"

	"github.com/yaklabco/peek/internal/logging"
)

// DefaultTheme is the chroma style used when none or an unknown one is
// configured.
const DefaultTheme = "monokai"

// GroupPrefix starts every grammar engine highlight group. The rest of the
// name is the hex foreground color, so the host can define the group from
// its name alone.
const GroupPrefix = "PeekSyntax_"

// ThemeExists reports whether chroma knows the named style.
func ThemeExists(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	if ok {
		return true
	}
	_, ok = styles.Registry[name]
	return ok
}

// Themes returns the names of all chroma styles.
func Themes() []string {
	return styles.Names()
}

type sublimeEngine struct {
	style *chroma.Style
}

func newSublimeEngine(theme string, logger *log.Logger) *sublimeEngine {
	switch {
	case theme == "":
		theme = DefaultTheme
	case !ThemeExists(theme):
		logger.Warn("preview color theme not found, falling back",
			logging.FieldTheme, theme, "fallback", DefaultTheme)
		theme = DefaultTheme
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	return &sublimeEngine{style: style}
}

// lexerFor returns the chroma lexer for path, or nil.
func lexerFor(path string) chroma.Lexer {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// highlight tokenizes the excerpt as one document so constructs spanning
// lines keep their state, then splits tokens back into lines.
func (e *sublimeEngine) highlight(req Request) []Line {
	lexer := lexerFor(req.Path)
	if lexer == nil {
		return nil
	}

	src := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		src[i] = truncateBytes(line, req.MaxLineWidth)
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(src, "\n"))
	if err != nil {
		return nil
	}

	var out []Line
	for idx, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		if idx >= len(src) {
			break
		}

		var spans []Span
		offset := 0
		for _, token := range tokens {
			value := strings.TrimSuffix(token.Value, "\n")
			if value == "" {
				continue
			}

			if group, ok := e.group(token.Type); ok && strings.TrimSpace(value) != "" {
				spans = append(spans, Span{Offset: offset, Length: len(value), Group: group})
			}
			offset += len(value)
		}

		if len(spans) > 0 {
			out = append(out, Line{Line: idx + req.LineOffset, Spans: spans})
		}
	}

	return out
}

// group names the highlight group for a token type from the style's
// foreground color. Tokens without a color get no group.
func (e *sublimeEngine) group(tt chroma.TokenType) (string, bool) {
	entry := e.style.Get(tt)
	if !entry.Colour.IsSet() {
		return "", false
	}
	return GroupPrefix + strings.TrimPrefix(entry.Colour.String(), "#"), true
}
