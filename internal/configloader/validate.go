package configloader

import (
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/yaklabco/peek/pkg/config"
	"github.com/yaklabco/peek/pkg/highlight"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "preview.height").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown color schemes).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Preview.HighlightEngine != "" && !IsValidEngine(cfg.Preview.HighlightEngine) {
		result.fail("preview.highlight_engine", cfg.Preview.HighlightEngine,
			"invalid highlight engine %q; must be one of: %s", cfg.Preview.HighlightEngine, engineList())
	}

	if cfg.Preview.ColorScheme != "" && !highlight.ThemeExists(cfg.Preview.ColorScheme) {
		result.warn("preview.color_scheme", cfg.Preview.ColorScheme,
			"unknown color scheme %q; falling back to %s", cfg.Preview.ColorScheme, highlight.DefaultTheme)
	}

	positives := []struct {
		field string
		value int
	}{
		{"preview.height", cfg.Preview.Height},
		{"display.line_width", cfg.Display.LineWidth},
		{"display.winheight", cfg.Display.WinHeight},
	}
	for _, p := range positives {
		if p.value <= 0 {
			result.fail(p.field, p.value, "must be > 0")
		}
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: json, pretty", cfg.Format)
	}

	if cfg.LogLevel != "" && !IsValidLogLevel(cfg.LogLevel) {
		result.fail("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	validateGrepCommand(cfg, result)

	return result
}

// validateGrepCommand checks that grep.command splits into at least a program.
func validateGrepCommand(cfg *config.Config, result *ValidationResult) {
	if cfg.Grep.Command == "" {
		return
	}

	args, err := shlex.Split(cfg.Grep.Command)
	switch {
	case err != nil:
		result.fail("grep.command", cfg.Grep.Command, "invalid command: %v", err)
	case len(args) == 0:
		result.fail("grep.command", cfg.Grep.Command, "command is empty")
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidEngine returns true if name is a known highlight engine.
func IsValidEngine(name string) bool {
	for _, e := range highlight.Engines() {
		if string(e) == name {
			return true
		}
	}
	return false
}

// knownLogLevels lists valid log_level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// IsValidLogLevel returns true if level is a known log level.
func IsValidLogLevel(level string) bool {
	return knownLogLevels[strings.ToLower(level)]
}

func engineList() string {
	engines := highlight.Engines()
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
