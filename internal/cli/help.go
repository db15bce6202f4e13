package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/peek/internal/ui/pretty"
)

// helpTemplate renders command help. Sections without content are left out.
const helpTemplate = `{{with (or .Long .Short)}}{{ trimLines . }}

{{end}}{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}{{if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (pad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}{{if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}{{if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

// HelpFormatter renders Cobra help with terminal styles.
type HelpFormatter struct {
	heading    lipgloss.Style
	command    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	dim        lipgloss.Style
}

// NewHelpFormatter creates a help formatter for writer in the given color
// mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	plain := lipgloss.NewStyle()
	h := &HelpFormatter{heading: plain, command: plain, subcommand: plain, flag: plain, dim: plain}

	if pretty.IsColorEnabled(colorMode, writer) {
		h.heading = plain.Foreground(lipgloss.Color("11")).Bold(true)
		h.command = plain.Foreground(lipgloss.Color("14")).Bold(true)
		h.subcommand = plain.Foreground(lipgloss.Color("10"))
		h.flag = plain.Foreground(lipgloss.Color("12"))
		h.dim = plain.Foreground(lipgloss.Color("8"))
	}

	return h
}

// ApplyToCommand installs the help and usage functions on cmd. Subcommands
// inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	tmpl := template.Must(template.New("help").Funcs(template.FuncMap{
		"heading":    h.heading.Render,
		"command":    h.command.Render,
		"subcommand": h.subcommand.Render,
		"flags":      h.flagUsages,
		"pad":        runewidth.FillRight,
		"trimLines":  trimTrailingWhitespaces,
	}).Parse(helpTemplate))

	render := func(command *cobra.Command) error {
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			return fmt.Errorf("render help: %w", err)
		}
		return nil
	}

	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// flagUsages styles pflag's usage block: flag names in color, value types
// dimmed, descriptions as they are.
func (h *HelpFormatter) flagUsages(fs *pflag.FlagSet) string {
	lines := strings.Split(strings.TrimSuffix(fs.FlagUsages(), "\n"), "\n")

	for idx, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		names, desc, ok := strings.Cut(trimmed, "   ")
		if !ok {
			continue
		}

		tokens := strings.Fields(names)
		for i, token := range tokens {
			if strings.HasPrefix(token, "-") {
				clean := strings.TrimSuffix(token, ",")
				tokens[i] = h.flag.Render(clean) + strings.TrimPrefix(token, clean)
			} else {
				tokens[i] = h.dim.Render(token)
			}
		}

		indent := line[:len(line)-len(trimmed)]
		lines[idx] = indent + strings.Join(tokens, " ") + "   " + strings.TrimLeft(desc, " ")
	}

	return strings.Join(lines, "\n")
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
