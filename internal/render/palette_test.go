package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteSizes(t *testing.T) {
	for _, name := range PaletteNames {
		colors, ok := LookupPalette(name, false)
		require.True(t, ok, name)

		switch name {
		case "Bokeh8":
			assert.Len(t, colors, 8)
		case "Spectral11", "RdGy11", "PiYG11":
			assert.Len(t, colors, 11)
		default:
			assert.Len(t, colors, 256, name)
		}
	}
}

func TestGreysRunsBlackToWhite(t *testing.T) {
	colors, _ := LookupPalette("Greys256", false)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, colors[0])
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, colors[255])
	assert.Equal(t, colors[128].R, colors[128].G)
}

func TestInvertReversesWithoutTouchingDictionary(t *testing.T) {
	plain, _ := LookupPalette("Viridis256", false)
	inverted, _ := LookupPalette("Viridis256", true)

	assert.Equal(t, plain[0], inverted[255])
	assert.Equal(t, plain[255], inverted[0])

	again, _ := LookupPalette("Viridis256", false)
	assert.Equal(t, plain, again)
}

func TestUnknownPaletteFallsBackToGreys(t *testing.T) {
	colors, ok := LookupPalette("Rainbow9000", false)
	greys, _ := LookupPalette(DefaultPalette, false)

	assert.False(t, ok)
	assert.Equal(t, greys, colors)
	assert.False(t, IsKnownPalette("Rainbow9000"))
	assert.True(t, IsKnownPalette("Turbo256"))
}
