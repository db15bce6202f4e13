package configloader

import "github.com/yaklabco/peek/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans are pointers: a non-nil override wins, so files can turn
//     a default off
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	mergePreview(&result.Preview, override.Preview)

	if override.Display.LineWidth != 0 {
		result.Display.LineWidth = override.Display.LineWidth
	}
	if override.Display.WinHeight != 0 {
		result.Display.WinHeight = override.Display.WinHeight
	}

	if override.Icons != nil {
		result.Icons = config.Bool(*override.Icons)
	}

	if override.Grep.CacheDir != "" {
		result.Grep.CacheDir = override.Grep.CacheDir
	}
	if override.Grep.Command != "" {
		result.Grep.Command = override.Grep.Command
	}

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	return result
}

// mergePreview merges the preview section of override into dst.
func mergePreview(dst *config.PreviewConfig, override config.PreviewConfig) {
	if override.Height != 0 {
		dst.Height = override.Height
	}
	if override.HighlightEngine != "" {
		dst.HighlightEngine = override.HighlightEngine
	}
	if override.ColorScheme != "" {
		dst.ColorScheme = override.ColorScheme
	}
	if override.Scrollbar != nil {
		dst.Scrollbar = config.Bool(*override.Scrollbar)
	}
	if override.Border != nil {
		dst.Border = config.Bool(*override.Border)
	}
	if override.ContextLines != nil {
		dst.ContextLines = config.Bool(*override.ContextLines)
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
