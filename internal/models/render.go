package models

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Rotation is the image rotation in degrees, counter-clockwise.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Rotations lists the rotations offered by the UI, in display order.
var Rotations = []Rotation{Rotate0, Rotate90, Rotate180, Rotate270}

func ParseRotation(s string) (Rotation, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Rotate0, errors.Wrapf(err, "invalid rotation %q", s)
	}
	r := Rotation(v)
	if !r.Valid() {
		return Rotate0, errors.Errorf("rotation must be one of 0, 90, 180, 270, got %d", v)
	}
	return r, nil
}

func (r Rotation) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

func (r Rotation) QuarterTurns() int {
	return int(r) / 90
}

func (r Rotation) String() string {
	return strconv.Itoa(int(r))
}

// Flip is the mirror applied after rotation.
type Flip string

const (
	FlipNone       Flip = "None"
	FlipHorizontal Flip = "H"
	FlipVertical   Flip = "V"
)

var Flips = []Flip{FlipNone, FlipHorizontal, FlipVertical}

func ParseFlip(s string) (Flip, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return FlipNone, nil
	case "H":
		return FlipHorizontal, nil
	case "V":
		return FlipVertical, nil
	}
	return FlipNone, errors.Errorf("flip must be one of None, H, V, got %q", s)
}

// Marker shapes supported by the overlay renderer.
const (
	ShapeCircle   = "circle"
	ShapeSquare   = "square"
	ShapeTriangle = "triangle"
	ShapeCross    = "cross"
)

var Shapes = []string{ShapeCircle, ShapeSquare, ShapeTriangle, ShapeCross}

// SymbolStyle controls the peak markers.
type SymbolStyle struct {
	Shape     string
	Size      int
	LineWidth int
	LineColor string
	FillColor string
	Visible   bool
}

// Complete reports whether every field needed to draw markers is set.
func (s *SymbolStyle) Complete() bool {
	return s != nil && s.Shape != "" && s.LineColor != "" && s.FillColor != ""
}

// CaptionStyle controls the Miller-index labels.
type CaptionStyle struct {
	XOffset         int
	YOffset         int
	Font            string
	FontSize        string
	TextColor       string
	BackgroundColor string
	Visible         bool
}

// Complete reports whether every field needed to draw labels is set.
func (c *CaptionStyle) Complete() bool {
	return c != nil && c.Font != "" && c.FontSize != "" && c.TextColor != ""
}

// IntensityBounds is the displayed intensity window.
type IntensityBounds struct {
	Low  float64
	High float64
}

// Clamp keeps the bounds inside [lo, hi] and ordered.
func (b IntensityBounds) Clamp(lo, hi float64) IntensityBounds {
	if b.Low > b.High {
		b.Low, b.High = b.High, b.Low
	}
	b.Low = clamp(b.Low, lo, hi)
	b.High = clamp(b.High, lo, hi)
	return b
}

// FilterRange is the slider domain and value of the caption intensity filter.
type FilterRange struct {
	Min   float64
	Max   float64
	Value float64
}

// RenderState is everything a redraw depends on.
type RenderState struct {
	Image         *ImageData
	Palette       string
	Invert        bool
	Bounds        IntensityBounds
	Rotation      Rotation
	Flip          Flip
	Peaks         []PeakRecord
	CaptionFilter float64
	FilterActive  bool
	Symbol        *SymbolStyle
	Caption       *CaptionStyle
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
