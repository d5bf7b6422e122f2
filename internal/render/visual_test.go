package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak-overlay/internal/models"
)

func greys(t *testing.T) []color.NRGBA {
	t.Helper()
	colors, ok := LookupPalette("Greys256", false)
	require.True(t, ok)
	return colors
}

func TestColorMapperSaturates(t *testing.T) {
	m := ColorMapper{Palette: greys(t), Low: 10, High: 20}

	assert.Equal(t, m.Palette[0], m.Map(-5))
	assert.Equal(t, m.Palette[0], m.Map(10))
	assert.Equal(t, m.Palette[128], m.Map(15))
	assert.Equal(t, m.Palette[255], m.Map(20))
	assert.Equal(t, m.Palette[255], m.Map(1e9))
}

func TestColorMapperDegenerateRange(t *testing.T) {
	m := ColorMapper{Palette: greys(t), Low: 5, High: 5}
	assert.Equal(t, m.Palette[0], m.Map(5))
	assert.Equal(t, m.Palette[255], m.Map(6))
}

func TestComposePutsRowZeroAtBottom(t *testing.T) {
	grid, err := models.NewGridFromData(2, 2, []float64{0, 0, 1, 1})
	require.NoError(t, err)

	v := NewVisual(VisualName, grid, ColorMapper{Palette: greys(t), Low: 0, High: 1})
	img := v.Compose()

	assert.Equal(t, uint8(0), img.RGBAAt(0, 1).R)
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).R)
	assert.Same(t, img, v.Compose())
}

func TestComposeDrawsMarkerFillAndOutline(t *testing.T) {
	grid, err := models.NewGrid(20, 20)
	require.NoError(t, err)

	v := NewVisual(VisualName, grid, ColorMapper{Palette: greys(t), Low: 0, High: 1})
	v.Markers = []Marker{{
		X: 5, Y: 5, Shape: models.ShapeCircle, Size: 10, LineWidth: 2,
		Line: color.NRGBA{255, 255, 255, 255},
		Fill: color.NRGBA{255, 0, 0, 255},
	}}
	img := v.Compose()

	center := img.RGBAAt(5, 15)
	assert.Greater(t, center.R, uint8(200))
	assert.Less(t, center.G, uint8(50))

	ring := img.RGBAAt(9, 15)
	assert.Greater(t, ring.G, uint8(200))

	corner := img.RGBAAt(19, 0)
	assert.Equal(t, uint8(0), corner.R)
}

func TestComposeDrawsEveryShape(t *testing.T) {
	for _, shape := range models.Shapes {
		t.Run(shape, func(t *testing.T) {
			grid, err := models.NewGrid(30, 30)
			require.NoError(t, err)

			v := NewVisual(VisualName, grid, ColorMapper{Palette: greys(t), Low: 0, High: 1})
			v.Markers = []Marker{{
				X: 15, Y: 15, Shape: shape, Size: 12, LineWidth: 2,
				Line: color.NRGBA{255, 255, 255, 255},
			}, {
				X: 0, Y: 0, Shape: shape, Size: 12, LineWidth: 2,
				Line: color.NRGBA{255, 255, 255, 255},
			}}
			assert.Greater(t, litPixels(v), 0)
		})
	}
}

func TestComposeDrawsLabels(t *testing.T) {
	grid, err := models.NewGrid(100, 40)
	require.NoError(t, err)

	v := NewVisual(VisualName, grid, ColorMapper{Palette: greys(t), Low: 0, High: 1})
	v.Labels = []Label{{
		X: 2, Y: 2, Text: "(1, 2, 3)", XOffset: 5, YOffset: 5,
		SizePx: 16, Color: color.NRGBA{255, 255, 255, 255},
	}}
	assert.Greater(t, litPixels(v), 0)
}

func TestValueAt(t *testing.T) {
	grid, err := models.NewGridFromData(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	v := NewVisual(VisualName, grid, ColorMapper{})

	val, ok := v.ValueAt(1.5, 1.2)
	require.True(t, ok)
	assert.Equal(t, 4.0, val)

	_, ok = v.ValueAt(2, 0)
	assert.False(t, ok)
	_, ok = v.ValueAt(-0.5, 0)
	assert.False(t, ok)
}

func litPixels(v *Visual) int {
	img := v.Compose()
	lit := 0
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.RGBAAt(x, y).R > 0 {
				lit++
			}
		}
	}
	return lit
}
