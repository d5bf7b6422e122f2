package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"peak-overlay/internal/models"
)

// VisualName is the name the image visual is registered under in a Document.
const VisualName = "data"

// Range is a mutable visible interval along one axis. The same *Range is
// handed from one visual to its replacement so pan and zoom survive redraws.
type Range struct {
	mu    sync.RWMutex
	start float64
	end   float64
}

func NewRange(start, end float64) *Range {
	return &Range{start: start, end: end}
}

func (r *Range) Bounds() (float64, float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.start, r.end
}

func (r *Range) Set(start, end float64) {
	r.mu.Lock()
	r.start, r.end = start, end
	r.mu.Unlock()
}

// Span is the length of the visible interval.
func (r *Range) Span() float64 {
	s, e := r.Bounds()
	return e - s
}

// AxisStyle holds the fixed presentation constants of the plot frame.
type AxisStyle struct {
	Width              int
	Height             int
	LabelFontSize      string
	AxisLineWidth      int
	MajorTickLineWidth int
	MinorTickLineWidth int
	RangePadding       float64
	ExtraAxes          []string
}

// DefaultAxisStyle mirrors the plot frame of the desktop tool: a 1000x1000
// canvas, axes on all four sides, no padding around the image.
var DefaultAxisStyle = AxisStyle{
	Width:              1000,
	Height:             1000,
	LabelFontSize:      "2em",
	AxisLineWidth:      2,
	MajorTickLineWidth: 2,
	MinorTickLineWidth: 2,
	RangePadding:       0,
	ExtraAxes:          []string{"above", "right"},
}

// ColorMapper maps intensities linearly onto a palette between Low and High.
type ColorMapper struct {
	Palette []color.NRGBA
	Low     float64
	High    float64
}

// Map returns the palette entry for v. Values outside [Low, High] saturate.
func (m ColorMapper) Map(v float64) color.NRGBA {
	n := len(m.Palette)
	if n == 0 {
		return color.NRGBA{}
	}
	if math.IsNaN(v) {
		return color.NRGBA{}
	}

	span := m.High - m.Low
	if span <= 0 {
		if v <= m.Low {
			return m.Palette[0]
		}
		return m.Palette[n-1]
	}

	idx := int(math.Floor((v - m.Low) / span * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return m.Palette[idx]
}

// Marker is one peak symbol in data coordinates.
type Marker struct {
	X, Y      float64
	Shape     string
	Size      int
	LineWidth int
	Line      color.NRGBA
	Fill      color.NRGBA
}

// Label is one caption anchored at a data coordinate and offset in pixels.
type Label struct {
	X, Y       float64
	Text       string
	XOffset    int
	YOffset    int
	Font       string
	SizePx     float64
	Color      color.NRGBA
	Background color.NRGBA
}

// Visual is one fully built image layer: the color-mapped grid, its axis
// ranges and any peak overlays. Once attached it is treated as immutable
// apart from its ranges.
type Visual struct {
	Name    string
	Grid    *models.Grid
	Mapper  ColorMapper
	XRange  *Range
	YRange  *Range
	Axis    AxisStyle
	Markers []Marker
	Labels  []Label

	composeOnce sync.Once
	composed    *image.RGBA
}

// NewVisual builds a visual over grid. Fresh ranges span the whole image.
func NewVisual(name string, grid *models.Grid, mapper ColorMapper) *Visual {
	return &Visual{
		Name:   name,
		Grid:   grid,
		Mapper: mapper,
		XRange: NewRange(0, float64(grid.Width)),
		YRange: NewRange(0, float64(grid.Height)),
		Axis:   DefaultAxisStyle,
	}
}

func (v *Visual) Width() int  { return v.Grid.Width }
func (v *Visual) Height() int { return v.Grid.Height }

// ValueAt returns the intensity under the data coordinate (x, y).
func (v *Visual) ValueAt(x, y float64) (float64, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	ix, iy := int(x), int(y)
	if ix >= v.Grid.Width || iy >= v.Grid.Height {
		return 0, false
	}
	return v.Grid.At(ix, iy), true
}

// Compose rasterizes the visual once. Data row 0 is the bottom image row.
func (v *Visual) Compose() *image.RGBA {
	v.composeOnce.Do(func() {
		v.composed = v.compose()
	})
	return v.composed
}

func (v *Visual) compose() *image.RGBA {
	w, h := v.Grid.Width, v.Grid.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for py := 0; py < h; py++ {
		gy := h - 1 - py
		for px := 0; px < w; px++ {
			img.Set(px, py, v.Mapper.Map(v.Grid.At(px, gy)))
		}
	}

	for _, m := range v.Markers {
		drawMarker(img, m, h)
	}
	for _, l := range v.Labels {
		drawLabel(img, l, h)
	}
	return img
}
