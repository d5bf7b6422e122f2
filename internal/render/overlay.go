package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"peak-overlay/internal/models"
)

var (
	ErrIncompleteStyle = errors.New("style is incomplete")
	ErrUnknownShape    = errors.New("unknown marker shape")
)

// BuildMarkers turns peaks into markers with the given symbol style. A hidden
// style yields no markers and no error.
func BuildMarkers(peaks []models.PeakRecord, style *models.SymbolStyle) ([]Marker, error) {
	if !style.Complete() {
		return nil, errors.Wrap(ErrIncompleteStyle, "symbol")
	}
	if !style.Visible {
		return nil, nil
	}
	if !knownShape(style.Shape) {
		return nil, errors.Wrapf(ErrUnknownShape, "%q", style.Shape)
	}
	if style.Size <= 0 {
		return nil, errors.Errorf("symbol size must be positive, got %d", style.Size)
	}

	line, err := ParseColor(style.LineColor)
	if err != nil {
		return nil, errors.Wrap(err, "symbol line color")
	}
	fill, err := ParseColor(style.FillColor)
	if err != nil {
		return nil, errors.Wrap(err, "symbol fill color")
	}

	markers := make([]Marker, 0, len(peaks))
	for _, p := range peaks {
		markers = append(markers, Marker{
			X:         float64(p.DetX),
			Y:         float64(p.DetY),
			Shape:     style.Shape,
			Size:      style.Size,
			LineWidth: style.LineWidth,
			Line:      line,
			Fill:      fill,
		})
	}
	return markers, nil
}

// BuildLabels captions every peak whose intensity is not below filter.
func BuildLabels(peaks []models.PeakRecord, filter float64, style *models.CaptionStyle) ([]Label, error) {
	if !style.Complete() {
		return nil, errors.Wrap(ErrIncompleteStyle, "caption")
	}
	if !style.Visible {
		return nil, nil
	}

	size, err := ParseFontSize(style.FontSize)
	if err != nil {
		return nil, err
	}
	text, err := ParseColor(style.TextColor)
	if err != nil {
		return nil, errors.Wrap(err, "caption text color")
	}
	var bg color.NRGBA
	if style.BackgroundColor != "" {
		if bg, err = ParseColor(style.BackgroundColor); err != nil {
			return nil, errors.Wrap(err, "caption background color")
		}
	}

	var labels []Label
	for _, p := range peaks {
		if p.Intensity < filter {
			continue
		}
		labels = append(labels, Label{
			X:          float64(p.DetX),
			Y:          float64(p.DetY),
			Text:       p.Caption(),
			XOffset:    style.XOffset,
			YOffset:    style.YOffset,
			Font:       style.Font,
			SizePx:     size,
			Color:      text,
			Background: bg,
		})
	}
	return labels, nil
}

func knownShape(shape string) bool {
	for _, s := range models.Shapes {
		if strings.EqualFold(s, shape) {
			return true
		}
	}
	return false
}

type point struct{ x, y float32 }

func drawMarker(dst *image.RGBA, m Marker, height int) {
	r := float32(m.Size) / 2
	lw := float32(m.LineWidth)
	cx, cy := float32(m.X), float32(float64(height)-m.Y)

	pad := int(math.Ceil(float64(r))) + 1
	box := image.Rect(int(cx)-pad, int(cy)-pad, int(cx)+pad, int(cy)+pad)
	ox, oy := cx-float32(box.Min.X), cy-float32(box.Min.Y)

	switch strings.ToLower(m.Shape) {
	case models.ShapeCross:
		t := lw / 2
		if t < 0.5 {
			t = 0.5
		}
		fillPaths(dst, box, m.Line,
			rect(ox-r, oy-t, ox+r, oy+t),
			rect(ox-t, oy-r, ox+t, oy-t),
			rect(ox-t, oy+t, ox+t, oy+r))
		return
	}

	outline := func(radius float32) []point {
		switch strings.ToLower(m.Shape) {
		case models.ShapeSquare:
			return rect(ox-radius, oy-radius, ox+radius, oy+radius)
		case models.ShapeTriangle:
			return regular(ox, oy, radius, 3, -math.Pi/2)
		default:
			return regular(ox, oy, radius, 32, 0)
		}
	}

	inner := r - lw
	if strings.EqualFold(m.Shape, models.ShapeTriangle) {
		inner = r - 2*lw
	}
	if inner <= 0 {
		fillPaths(dst, box, m.Line, outline(r))
		return
	}
	if m.Fill.A > 0 {
		fillPaths(dst, box, m.Fill, outline(inner))
	}
	if lw > 0 {
		fillPaths(dst, box, m.Line, outline(r), reverse(outline(inner)))
	}
}

// fillPaths rasterizes closed paths (non-zero winding) into a mask sized to
// box and composites col through it onto dst.
func fillPaths(dst *image.RGBA, box image.Rectangle, col color.NRGBA, paths ...[]point) {
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		z.MoveTo(path[0].x, path[0].y)
		for _, p := range path[1:] {
			z.LineTo(p.x, p.y)
		}
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, box, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

func rect(x0, y0, x1, y1 float32) []point {
	return []point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func regular(cx, cy, radius float32, sides int, phase float64) []point {
	pts := make([]point, sides)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(sides)
		pts[i] = point{cx + radius*float32(math.Cos(a)), cy + radius*float32(math.Sin(a))}
	}
	return pts
}

func reverse(pts []point) []point {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts
}

// drawLabel renders text with its bottom-left corner at the offset anchor.
// Glyphs come from the 7x13 bitmap face, scaled by whole multiples to
// approximate the requested size.
func drawLabel(dst *image.RGBA, l Label, height int) {
	face := basicfont.Face7x13
	scale := int(math.Round(l.SizePx / float64(face.Height)))
	if scale < 1 {
		scale = 1
	}

	d := &font.Drawer{Face: face}
	width := d.MeasureString(l.Text).Ceil()
	if width == 0 {
		return
	}

	text := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	if l.Background.A > 0 {
		draw.Draw(text, text.Bounds(), image.NewUniform(l.Background), image.Point{}, draw.Src)
	}
	d.Dst = text
	d.Src = image.NewUniform(l.Color)
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(l.Text)

	x := int(math.Round(l.X)) + l.XOffset
	y := height - int(math.Round(l.Y)) - l.YOffset
	target := image.Rect(x, y-face.Height*scale, x+width*scale, y)
	xdraw.NearestNeighbor.Scale(dst, target, text, text.Bounds(), draw.Over, nil)
}
