package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/yaklabco/peek/pkg/config"
)

// envVarPrefix is the prefix for all peek environment variables.
const envVarPrefix = "PEEK_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"PREVIEW_HEIGHT":           {"preview.height", envTypeInt, "Number of lines in a preview"},
	"PREVIEW_HIGHLIGHT_ENGINE": {"preview.highlight_engine", envTypeString, "Highlight engine: sublime, tree-sitter or vim"},
	"PREVIEW_COLOR_SCHEME":     {"preview.color_scheme", envTypeString, "Color scheme for the sublime engine"},
	"PREVIEW_SCROLLBAR":        {"preview.scrollbar", envTypeBool, "Attach a scrollbar: true or false"},
	"PREVIEW_BORDER":           {"preview.border", envTypeBool, "Preview window has a border: true or false"},
	"PREVIEW_CONTEXT_LINES":    {"preview.context_lines", envTypeBool, "Show enclosing scopes: true or false"},
	"DISPLAY_LINE_WIDTH":       {"display.line_width", envTypeInt, "Width of the preview window"},
	"DISPLAY_WINHEIGHT":        {"display.winheight", envTypeInt, "Height of the preview window"},
	"ICONS":                    {"icons", envTypeBool, "Result lines carry icons: true or false"},
	"GREP_CACHE_DIR":           {"grep.cache_dir", envTypeString, "Directory for refreshed grep indexes"},
	"GREP_COMMAND":             {"grep.command", envTypeString, "Command producing the grep index"},
	"LOG_LEVEL":                {"log_level", envTypeString, "Log level: debug, info, warn or error"},
	"JOBS":                     {"jobs", envTypeInt, "Number of parallel workers for warm (0 = auto)"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with PEEK_ (e.g., PEEK_PREVIEW_HEIGHT).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "preview.highlight_engine":
		cfg.Preview.HighlightEngine = value
	case "preview.color_scheme":
		cfg.Preview.ColorScheme = value
	case "grep.cache_dir":
		cfg.Grep.CacheDir = value
	case "grep.command":
		cfg.Grep.Command = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "preview.scrollbar":
		cfg.Preview.Scrollbar = config.Bool(value)
	case "preview.border":
		cfg.Preview.Border = config.Bool(value)
	case "preview.context_lines":
		cfg.Preview.ContextLines = config.Bool(value)
	case "icons":
		cfg.Icons = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "preview.height":
		cfg.Preview.Height = value
	case "display.line_width":
		cfg.Display.LineWidth = value
	case "display.winheight":
		cfg.Display.WinHeight = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}

// EnvVarNames returns the supported environment variable names, sorted.
func EnvVarNames() []string {
	names := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		names = append(names, envVarPrefix+suffix)
	}
	sort.Strings(names)
	return names
}
