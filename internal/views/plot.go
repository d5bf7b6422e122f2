package views

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"peak-overlay/internal/render"
)

const (
	zoomStep    = 1.25
	minSpan     = 4.0
	plotMinSide = 480
)

var plotBackground = color.RGBA{R: 32, G: 32, B: 32, A: 255}

// Plot shows the current image visual and lets the user pan (drag), zoom
// (wheel) and reset (double tap). It is the render.Document of the window.
type Plot struct {
	widget.BaseWidget

	mu      sync.RWMutex
	visuals map[string]*render.Visual
	raster  *canvas.Raster

	onHover func(x, y, value float64, inside bool)
}

func NewPlot() *Plot {
	p := &Plot{visuals: make(map[string]*render.Visual)}
	p.raster = canvas.NewRaster(p.paint)
	p.raster.SetMinSize(fyne.NewSize(plotMinSide, plotMinSide))
	p.ExtendBaseWidget(p)
	return p
}

func (p *Plot) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.raster)
}

func (p *Plot) ModelByName(name string) (*render.Visual, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.visuals[name]
	return v, ok
}

func (p *Plot) Remove(name string) {
	p.mu.Lock()
	delete(p.visuals, name)
	p.mu.Unlock()
}

func (p *Plot) Attach(name string, v *render.Visual) {
	p.mu.Lock()
	p.visuals[name] = v
	p.mu.Unlock()
	p.raster.Refresh()
}

// SetHoverHandler receives the data coordinate and value under the pointer.
func (p *Plot) SetHoverHandler(fn func(x, y, value float64, inside bool)) {
	p.onHover = fn
}

func (p *Plot) current() *render.Visual {
	v, _ := p.ModelByName(render.VisualName)
	return v
}

func (p *Plot) paint(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(plotBackground), image.Point{}, draw.Src)

	v := p.current()
	if v == nil || w == 0 || h == 0 {
		return out
	}

	composed := v.Compose()
	x0, x1 := v.XRange.Bounds()
	y0, y1 := v.YRange.Bounds()
	imgW, imgH := v.Width(), v.Height()

	for py := 0; py < h; py++ {
		dy := y1 - (float64(py)+0.5)/float64(h)*(y1-y0)
		if dy < 0 || dy >= float64(imgH) {
			continue
		}
		sy := imgH - 1 - int(dy)
		for px := 0; px < w; px++ {
			dx := x0 + (float64(px)+0.5)/float64(w)*(x1-x0)
			if dx < 0 || dx >= float64(imgW) {
				continue
			}
			out.SetRGBA(px, py, composed.RGBAAt(int(dx), sy))
		}
	}
	return out
}

// dataAt converts a widget position to data coordinates.
func (p *Plot) dataAt(v *render.Visual, pos fyne.Position) (float64, float64) {
	size := p.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return 0, 0
	}
	x0, x1 := v.XRange.Bounds()
	y0, y1 := v.YRange.Bounds()
	fx := float64(pos.X / size.Width)
	fy := float64(pos.Y / size.Height)
	return x0 + fx*(x1-x0), y1 - fy*(y1-y0)
}

func (p *Plot) Scrolled(ev *fyne.ScrollEvent) {
	v := p.current()
	if v == nil || ev.Scrolled.DY == 0 {
		return
	}

	factor := 1 / zoomStep
	if ev.Scrolled.DY < 0 {
		factor = zoomStep
	}

	cx, cy := p.dataAt(v, ev.Position)
	zoomRange(v.XRange, cx, factor)
	zoomRange(v.YRange, cy, factor)
	p.raster.Refresh()
}

func zoomRange(r *render.Range, center, factor float64) {
	start, end := r.Bounds()
	span := (end - start) * factor
	if span < minSpan {
		span = minSpan
	}
	frac := 0.5
	if end != start {
		frac = (center - start) / (end - start)
	}
	newStart := center - frac*span
	r.Set(newStart, newStart+span)
}

func (p *Plot) Dragged(ev *fyne.DragEvent) {
	v := p.current()
	size := p.Size()
	if v == nil || size.Width <= 0 || size.Height <= 0 {
		return
	}

	x0, x1 := v.XRange.Bounds()
	y0, y1 := v.YRange.Bounds()
	dx := -float64(ev.Dragged.DX/size.Width) * (x1 - x0)
	dy := float64(ev.Dragged.DY/size.Height) * (y1 - y0)
	v.XRange.Set(x0+dx, x1+dx)
	v.YRange.Set(y0+dy, y1+dy)
	p.raster.Refresh()
}

func (p *Plot) DragEnd() {}

// DoubleTapped resets the view to the whole image.
func (p *Plot) DoubleTapped(_ *fyne.PointEvent) {
	v := p.current()
	if v == nil {
		return
	}
	v.XRange.Set(0, float64(v.Width()))
	v.YRange.Set(0, float64(v.Height()))
	p.raster.Refresh()
}

func (p *Plot) MouseIn(ev *desktop.MouseEvent) {
	p.MouseMoved(ev)
}

func (p *Plot) MouseMoved(ev *desktop.MouseEvent) {
	if p.onHover == nil {
		return
	}
	v := p.current()
	if v == nil {
		p.onHover(0, 0, 0, false)
		return
	}
	x, y := p.dataAt(v, ev.Position)
	value, inside := v.ValueAt(x, y)
	p.onHover(x, y, value, inside)
}

func (p *Plot) MouseOut() {
	if p.onHover != nil {
		p.onHover(0, 0, 0, false)
	}
}

var (
	_ render.Document     = (*Plot)(nil)
	_ fyne.Scrollable     = (*Plot)(nil)
	_ fyne.Draggable      = (*Plot)(nil)
	_ fyne.DoubleTappable = (*Plot)(nil)
	_ desktop.Hoverable   = (*Plot)(nil)
)

// MainThreadSurface runs redraw tasks on the Fyne UI goroutine, in order.
func MainThreadSurface() render.Surface {
	return render.SurfaceFunc(fyne.Do)
}
