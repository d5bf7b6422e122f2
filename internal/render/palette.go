package render

import (
	"image/color"
	"math"
)

// DefaultPalette is used whenever a palette name is not recognized.
const DefaultPalette = "Greys256"

// PaletteNames lists the palettes offered in the UI, in display order.
var PaletteNames = []string{
	"Greys256", "Inferno256", "Magma256", "Plasma256", "Viridis256",
	"Cividis256", "Turbo256", "Bokeh8", "Spectral11", "RdGy11", "PiYG11",
}

var palettes = map[string][]color.NRGBA{
	"Greys256": gradient(256, "#000000", "#ffffff"),
	"Inferno256": gradient(256,
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"),
	"Magma256": gradient(256,
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"),
	"Plasma256": gradient(256,
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"),
	"Viridis256": gradient(256,
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"),
	"Cividis256": gradient(256,
		"#00204c", "#213d6b", "#555b6c", "#7b7a77", "#a59c74",
		"#d3c064", "#ffe945"),
	"Turbo256": gradient(256,
		"#30123b", "#4662d7", "#36aaf9", "#1ae4b6", "#72fe5e",
		"#c7ef34", "#fabe3a", "#f66b19", "#ca2a04", "#7a0403"),
	"Bokeh8": discrete(
		"#ec1557", "#f05223", "#f6a91b", "#a5cd39",
		"#20b254", "#00aaae", "#4998d3", "#892889"),
	"Spectral11": discrete(
		"#5e4fa2", "#3288bd", "#66c2a5", "#abdda4", "#e6f598", "#ffffbf",
		"#fee08b", "#fdae61", "#f46d43", "#d53e4f", "#9e0142"),
	"RdGy11": discrete(
		"#1a1a1a", "#4d4d4d", "#878787", "#bababa", "#e0e0e0", "#ffffff",
		"#fddbc7", "#f4a582", "#d6604d", "#b2182b", "#67001f"),
	"PiYG11": discrete(
		"#276419", "#4d9221", "#7fbc41", "#b8e186", "#e6f5d0", "#f7f7f7",
		"#fde0ef", "#f1b6da", "#de77ae", "#c51b7d", "#8e0152"),
}

// LookupPalette returns a copy of the named palette, reversed when invert is
// set. Unknown names yield the default greyscale and ok == false.
func LookupPalette(name string, invert bool) (colors []color.NRGBA, ok bool) {
	base, ok := palettes[name]
	if !ok {
		base = palettes[DefaultPalette]
	}

	colors = make([]color.NRGBA, len(base))
	copy(colors, base)
	if invert {
		for i, j := 0, len(colors)-1; i < j; i, j = i+1, j-1 {
			colors[i], colors[j] = colors[j], colors[i]
		}
	}
	return colors, ok
}

// IsKnownPalette reports whether name is in the palette dictionary.
func IsKnownPalette(name string) bool {
	_, ok := palettes[name]
	return ok
}

func discrete(hex ...string) []color.NRGBA {
	out := make([]color.NRGBA, len(hex))
	for i, h := range hex {
		out[i] = mustHex(h)
	}
	return out
}

// gradient samples n evenly spaced colors from a piecewise linear sRGB ramp.
func gradient(n int, hex ...string) []color.NRGBA {
	stops := discrete(hex...)
	out := make([]color.NRGBA, n)
	for i := range out {
		x := float64(i) / float64(n-1) * float64(len(stops)-1)
		ip, fr := math.Modf(x)
		idx := int(ip)
		if idx >= len(stops)-1 {
			out[i] = stops[len(stops)-1]
			continue
		}
		out[i] = blend(stops[idx], stops[idx+1], fr)
	}
	return out
}

func blend(a, b color.NRGBA, x float64) color.NRGBA {
	lerp := func(p, q uint8) uint8 {
		return uint8(math.Round(float64(p) + (float64(q)-float64(p))*x))
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func mustHex(h string) color.NRGBA {
	c, err := parseHex(h)
	if err != nil {
		panic(err)
	}
	return c
}
