package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// ColorSchemes lists the color scheme names documented in the full
	// template.
	ColorSchemes []string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

preview:
  # Number of lines in a preview
  height: 30
  # Highlight engine: sublime, tree-sitter or vim
  highlight_engine: sublime
  # color_scheme: monokai

# display:
#   line_width: 80
#   winheight: 30

# icons: false
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template with every setting documented.
func generateFullTemplate(opts TemplateOptions) []byte {
	defaults := NewConfig()

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# This template includes every setting with its default value.\n\n")

	buf.WriteString("preview:\n")
	buf.WriteString("  # Number of lines in a preview\n")
	fmt.Fprintf(&buf, "  height: %d\n", defaults.Preview.Height)
	buf.WriteString("  # Highlight engine: sublime, tree-sitter or vim\n")
	fmt.Fprintf(&buf, "  highlight_engine: %s\n", defaults.Preview.HighlightEngine)
	buf.WriteString("  # Color scheme for the sublime engine (empty = built-in)\n")
	if len(opts.ColorSchemes) > 0 {
		buf.WriteString("  # Available: " + wrapComment(strings.Join(opts.ColorSchemes, ", "), commentWrapWidth) + "\n")
	}
	buf.WriteString("  color_scheme: \"\"\n")
	buf.WriteString("  # Attach a scrollbar to previews\n")
	fmt.Fprintf(&buf, "  scrollbar: %t\n", defaults.ScrollbarEnabled())
	buf.WriteString("  # The preview window has a border\n")
	fmt.Fprintf(&buf, "  border: %t\n", defaults.BorderEnabled())
	buf.WriteString("  # Show enclosing scopes above windowed previews\n")
	fmt.Fprintf(&buf, "  context_lines: %t\n\n", defaults.ContextLinesEnabled())

	buf.WriteString("display:\n")
	fmt.Fprintf(&buf, "  line_width: %d\n", defaults.Display.LineWidth)
	fmt.Fprintf(&buf, "  winheight: %d\n\n", defaults.Display.WinHeight)

	buf.WriteString("# Strip icons from result lines and show them in directory listings\n")
	fmt.Fprintf(&buf, "icons: %t\n\n", defaults.IconsEnabled())

	buf.WriteString("grep:\n")
	buf.WriteString("  # Where refreshed grep indexes are stored (empty = user cache dir)\n")
	buf.WriteString("  cache_dir: \"\"\n")
	buf.WriteString("  # Command producing the grep index\n")
	fmt.Fprintf(&buf, "  command: %q\n\n", defaults.Grep.Command)

	buf.WriteString("# Log level: debug, info, warn or error\n")
	fmt.Fprintf(&buf, "log_level: %s\n", defaults.LogLevel)

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  #   ")
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	cfg.Grep.CacheDir = ""

	yamlBytes, err := cfg.ToYAML()
	if err != nil {
		return nil, err
	}

	var tree map[string]any
	if err := yaml.Unmarshal(yamlBytes, &tree); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# peek configuration
# See: https://github.com/yaklabco/peek`
}
