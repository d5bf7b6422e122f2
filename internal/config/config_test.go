package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peak-overlay.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Greys256", cfg.Palette)
	assert.True(t, cfg.InvertPalette)
	assert.Equal(t, time.Second, cfg.PollInterval.Duration)
	assert.Equal(t, 10, cfg.OutputLines)
	assert.Equal(t, 4, cfg.BatchBuffer)
	assert.Equal(t, "circle", cfg.Symbol.Shape)
	assert.Equal(t, 5, cfg.Caption.XOffset)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
palette = "Viridis256"
invert_palette = false
poll_interval = "250ms"
image_backend = "tiff"
rotation = 90
flip = "H"

[symbol]
shape = "cross"
size = 14

[caption]
font_size = "12px"
visible = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Viridis256", cfg.Palette)
	assert.False(t, cfg.InvertPalette)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval.Duration)
	assert.Equal(t, BackendTIFF, cfg.ImageBackend)
	assert.Equal(t, "cross", cfg.Symbol.Shape)
	assert.Equal(t, 14, cfg.Symbol.Size)
	assert.Equal(t, 2, cfg.Symbol.LineWidth)
	assert.Equal(t, "Arial", cfg.Caption.Font)

	state := cfg.RenderState()
	assert.Equal(t, models.Rotate90, state.Rotation)
	assert.Equal(t, models.FlipHorizontal, state.Flip)
	assert.False(t, state.Caption.Visible)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
palette = "Greys256"
colour = "red"

[symbol]
sides = 5
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
	assert.Contains(t, err.Error(), "symbol.sides")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"palette":  `palette = "Rainbow"`,
		"rotation": `rotation = 45`,
		"flip":     `flip = "X"`,
		"backend":  `image_backend = "magick"`,
		"shape":    "[symbol]\nshape = \"star\"",
		"color":    "[caption]\ncolor = \"rgba(1,2)\"",
		"duration": `poll_interval = "soon"`,
		"level":    `log_level = "loud"`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	t.Setenv(EnvPath, writeConfig(t, `output_lines = 25`))
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.OutputLines)
}

func TestLevelPrecedence(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"

	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	assert.Equal(t, logger.WarnLevel, cfg.Level(getenv))

	env["DEBUG"] = "1"
	assert.Equal(t, logger.DebugLevel, cfg.Level(getenv))

	env["LOG_LEVEL"] = "error"
	assert.Equal(t, logger.ErrorLevel, cfg.Level(getenv))
}
