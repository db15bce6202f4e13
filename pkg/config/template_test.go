package config_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Run("minimal template parses", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "# peek configuration"))

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.Preview.Height)
		assert.Equal(t, config.EngineSublime, cfg.Preview.HighlightEngine)
		assert.Nil(t, cfg.Icons)
	})

	t.Run("full template carries every default", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{
			Full:         true,
			ColorSchemes: []string{"dracula", "monokai", "nord"},
		})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Available: dracula, monokai, nord")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)

		defaults := config.NewConfig()
		assert.Equal(t, defaults.Preview.Height, cfg.Preview.Height)
		assert.Equal(t, defaults.Display, cfg.Display)
		assert.Equal(t, defaults.Grep.Command, cfg.Grep.Command)
		assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
		assert.True(t, cfg.ScrollbarEnabled())
		assert.False(t, cfg.IconsEnabled())
		require.NotNil(t, cfg.Preview.Border)
	})

	t.Run("long scheme list is wrapped", func(t *testing.T) {
		schemes := make([]string, 0, 30)
		for range 30 {
			schemes = append(schemes, "solarized-light")
		}
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, ColorSchemes: schemes})
		require.NoError(t, err)

		for _, line := range strings.Split(string(data), "\n") {
			if strings.Contains(line, "solarized-light") {
				assert.LessOrEqual(t, len(line), 90)
			}
		}

		_, err = config.FromYAML(data)
		require.NoError(t, err)
	})

	t.Run("json template", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var tree map[string]any
		require.NoError(t, json.Unmarshal(data, &tree))
		require.Contains(t, tree, "preview")
		preview, ok := tree["preview"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 30, preview["height"], 0)
		assert.Equal(t, "sublime", preview["highlight_engine"])
	})
}
