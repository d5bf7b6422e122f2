package render

import (
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"rgba(255,255,255,1)", color.NRGBA{255, 255, 255, 255}},
		{"rgba(0, 0, 0, 0.1)", color.NRGBA{0, 0, 0, 26}},
		{"rgba(255,255,255,0)", color.NRGBA{255, 255, 255, 0}},
		{"rgb(10,20,30)", color.NRGBA{10, 20, 30, 255}},
		{"#ff0000", color.NRGBA{255, 0, 0, 255}},
		{"#0f0", color.NRGBA{0, 255, 0, 255}},
		{"#0000ff80", color.NRGBA{0, 0, 255, 128}},
		{"White", color.NRGBA{255, 255, 255, 255}},
		{"transparent", color.NRGBA{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#12", "rgba(1,2,3)", "rgb(300,0,0)", "rgba(0,0,0,2)", "notacolor", "rgb(1,2,3"} {
		_, err := ParseColor(in)
		assert.True(t, errors.Is(err, ErrBadColor), in)
	}
}

func TestParseFontSize(t *testing.T) {
	px, err := ParseFontSize("1em")
	require.NoError(t, err)
	assert.Equal(t, 16.0, px)

	px, err = ParseFontSize("12px")
	require.NoError(t, err)
	assert.Equal(t, 12.0, px)

	px, err = ParseFontSize("15pt")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, px, 1e-9)

	_, err = ParseFontSize("big")
	assert.Error(t, err)
	_, err = ParseFontSize("-2em")
	assert.Error(t, err)
}
