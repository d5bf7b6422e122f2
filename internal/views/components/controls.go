package components

import (
	"fmt"
	"math"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"peak-overlay/internal/models"
)

const sliderSteps = 1000

// GraphControls holds the intensity window, palette, orientation and caption
// filter controls.
type GraphControls struct {
	container *fyne.Container

	lowSlider   *widget.Slider
	highSlider  *widget.Slider
	rangeLabel  *widget.Label
	palette     *widget.Select
	invert      *widget.Check
	rotation    *widget.RadioGroup
	flip        *widget.RadioGroup
	filter      *widget.Slider
	filterLabel *widget.Label

	intensityHandler func(lo, hi float64)
	paletteHandler   func(string, bool)
	rotationHandler  func(models.Rotation)
	flipHandler      func(models.Flip)
	filterHandler    func(float64)
}

func NewGraphControls(palettes []string, initial models.RenderState) *GraphControls {
	g := &GraphControls{}
	g.createComponents(palettes, initial)
	g.buildLayout()
	g.setupEventHandlers()
	return g
}

func (g *GraphControls) createComponents(palettes []string, initial models.RenderState) {
	g.lowSlider = widget.NewSlider(0, 1)
	g.highSlider = widget.NewSlider(0, 1)
	g.highSlider.SetValue(1)
	g.rangeLabel = widget.NewLabel("--")

	g.palette = widget.NewSelect(palettes, nil)
	g.palette.SetSelected(initial.Palette)
	g.invert = widget.NewCheck("Invert", nil)
	g.invert.SetChecked(initial.Invert)

	rotations := make([]string, len(models.Rotations))
	for i, r := range models.Rotations {
		rotations[i] = r.String()
	}
	g.rotation = widget.NewRadioGroup(rotations, nil)
	g.rotation.Horizontal = true
	g.rotation.Required = true
	g.rotation.SetSelected(initial.Rotation.String())

	flips := make([]string, len(models.Flips))
	for i, f := range models.Flips {
		flips[i] = string(f)
	}
	g.flip = widget.NewRadioGroup(flips, nil)
	g.flip.Horizontal = true
	g.flip.Required = true
	g.flip.SetSelected(string(initial.Flip))

	g.filter = widget.NewSlider(0, 1)
	g.filterLabel = widget.NewLabel("--")
}

func (g *GraphControls) buildLayout() {
	form := widget.NewForm(
		widget.NewFormItem("Intensity min", g.lowSlider),
		widget.NewFormItem("Intensity max", g.highSlider),
		widget.NewFormItem("", g.rangeLabel),
		widget.NewFormItem("Palette", container.NewHBox(g.palette, g.invert)),
		widget.NewFormItem("Rotation", g.rotation),
		widget.NewFormItem("Flip", g.flip),
		widget.NewFormItem("Caption filter", g.filter),
		widget.NewFormItem("", g.filterLabel),
	)
	g.container = container.NewVBox(form)
}

func (g *GraphControls) setupEventHandlers() {
	g.lowSlider.OnChanged = func(float64) { g.updateRangeLabel() }
	g.highSlider.OnChanged = func(float64) { g.updateRangeLabel() }
	commit := func(float64) {
		g.updateRangeLabel()
		if g.intensityHandler != nil {
			g.intensityHandler(g.lowSlider.Value, g.highSlider.Value)
		}
	}
	g.lowSlider.OnChangeEnded = commit
	g.highSlider.OnChangeEnded = commit

	g.palette.OnChanged = func(name string) {
		if g.paletteHandler != nil {
			g.paletteHandler(name, g.invert.Checked)
		}
	}
	g.invert.OnChanged = func(invert bool) {
		if g.paletteHandler != nil {
			g.paletteHandler(g.palette.Selected, invert)
		}
	}
	g.rotation.OnChanged = func(value string) {
		r, err := models.ParseRotation(value)
		if err == nil && g.rotationHandler != nil {
			g.rotationHandler(r)
		}
	}
	g.flip.OnChanged = func(value string) {
		f, err := models.ParseFlip(value)
		if err == nil && g.flipHandler != nil {
			g.flipHandler(f)
		}
	}

	g.filter.OnChanged = func(v float64) { g.filterLabel.SetText(formatIntensity(v)) }
	g.filter.OnChangeEnded = func(v float64) {
		if g.filterHandler != nil {
			g.filterHandler(v)
		}
	}
}

func (g *GraphControls) SetIntensityHandler(h func(lo, hi float64)) { g.intensityHandler = h }
func (g *GraphControls) SetPaletteHandler(h func(string, bool)) { g.paletteHandler = h }
func (g *GraphControls) SetRotationHandler(h func(models.Rotation)) { g.rotationHandler = h }
func (g *GraphControls) SetFlipHandler(h func(models.Flip)) { g.flipHandler = h }
func (g *GraphControls) SetCaptionFilterHandler(h func(v float64)) { g.filterHandler = h }

// ResetIntensity sets the slider domain to the image range and the handles
// to bounds. Must run on the UI goroutine.
func (g *GraphControls) ResetIntensity(stats models.GridStats, bounds models.IntensityBounds) {
	hi := stats.Max
	if hi <= stats.Min {
		hi = stats.Min + 1
	}
	for _, s := range []*widget.Slider{g.lowSlider, g.highSlider} {
		s.Min = stats.Min
		s.Max = hi
		s.Step = stepFor(stats.Min, hi)
		s.Refresh()
	}
	g.SetIntensityValue(bounds)
}

func (g *GraphControls) SetIntensityValue(bounds models.IntensityBounds) {
	g.lowSlider.SetValue(bounds.Low)
	g.highSlider.SetValue(bounds.High)
	g.updateRangeLabel()
}

// SetFilterRange moves the caption filter domain to the latest batch.
func (g *GraphControls) SetFilterRange(r models.FilterRange) {
	hi := r.Max
	if hi <= r.Min {
		hi = r.Min + 1
	}
	g.filter.Min = r.Min
	g.filter.Max = hi
	g.filter.Step = stepFor(r.Min, hi)
	g.filter.Refresh()
	g.filter.SetValue(r.Value)
	g.filterLabel.SetText(formatIntensity(r.Value))
}

func (g *GraphControls) EnableIntensity(enabled bool) {
	for _, s := range []*widget.Slider{g.lowSlider, g.highSlider} {
		d, ok := fyne.CanvasObject(s).(fyne.Disableable)
		if !ok {
			continue
		}
		if enabled {
			d.Enable()
		} else {
			d.Disable()
		}
	}
}

func (g *GraphControls) updateRangeLabel() {
	g.rangeLabel.SetText(fmt.Sprintf("%s .. %s", formatIntensity(g.lowSlider.Value), formatIntensity(g.highSlider.Value)))
}

func (g *GraphControls) GetContainer() *fyne.Container {
	return g.container
}

func stepFor(lo, hi float64) float64 {
	step := (hi - lo) / sliderSteps
	if step <= 0 || math.IsNaN(step) {
		return 1
	}
	return step
}

func formatIntensity(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
