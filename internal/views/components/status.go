package components

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"peak-overlay/internal/models"
)

// StatusBar shows the last action, the loaded image and the pointer readout.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imageInfo   *widget.Label
	hoverInfo   *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.imageInfo = widget.NewLabel("No image loaded")
	sb.hoverInfo = widget.NewLabel("x: -- y: -- value: --")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.imageInfo,
		widget.NewSeparator(),
		sb.hoverInfo,
	)
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) SetImageInfo(img *models.ImageData) {
	if img == nil {
		sb.imageInfo.SetText("No image loaded")
		return
	}
	sb.imageInfo.SetText(fmt.Sprintf("%s  %dx%d  min %.1f  max %.1f  avg %.1f",
		img.Name(), img.Grid.Width, img.Grid.Height, img.Stats.Min, img.Stats.Max, img.Stats.Mean))
}

func (sb *StatusBar) SetHover(x, y, value float64, inside bool) {
	if !inside {
		sb.hoverInfo.SetText("x: -- y: -- value: --")
		return
	}
	sb.hoverInfo.SetText(fmt.Sprintf("x: %.0f y: %.0f value: %.1f", x, y, value))
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// OutputPanel lists the most recent log lines.
type OutputPanel struct {
	container *fyne.Container
	grid      *widget.TextGrid
}

func NewOutputPanel(visible bool) *OutputPanel {
	op := &OutputPanel{grid: widget.NewTextGrid()}
	op.container = container.NewVBox(widget.NewLabel("Output"), op.grid)
	if !visible {
		op.container.Hide()
	}
	return op
}

func (op *OutputPanel) SetLines(lines []string) {
	op.grid.SetText(strings.Join(lines, "\n"))
}

func (op *OutputPanel) GetContainer() *fyne.Container {
	return op.container
}
