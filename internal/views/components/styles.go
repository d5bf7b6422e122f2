package components

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"peak-overlay/internal/models"
)

// StylePanel edits marker and caption appearance. Text fields apply on
// Enter; selects and checks apply immediately.
type StylePanel struct {
	container *fyne.Container

	shape       *widget.Select
	size        *widget.Entry
	lineWidth   *widget.Entry
	lineColor   *widget.Entry
	fillColor   *widget.Entry
	symbolShown *widget.Check

	xOffset      *widget.Entry
	yOffset      *widget.Entry
	font         *widget.Entry
	fontSize     *widget.Entry
	textColor    *widget.Entry
	bgColor      *widget.Entry
	captionShown *widget.Check

	symbol  models.SymbolStyle
	caption models.CaptionStyle

	symbolHandler  func(models.SymbolStyle)
	captionHandler func(models.CaptionStyle)
}

// NewStylePanel seeds the forms from the given styles; nil leaves them blank.
func NewStylePanel(symbol *models.SymbolStyle, caption *models.CaptionStyle) *StylePanel {
	p := &StylePanel{}
	if symbol != nil {
		p.symbol = *symbol
	}
	if caption != nil {
		p.caption = *caption
	}
	p.createComponents()
	p.buildLayout()
	p.setupEventHandlers()
	return p
}

func newEntry(text string) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(text)
	return e
}

func (p *StylePanel) createComponents() {
	p.shape = widget.NewSelect(models.Shapes, nil)
	p.shape.SetSelected(p.symbol.Shape)
	p.size = newEntry(strconv.Itoa(p.symbol.Size))
	p.lineWidth = newEntry(strconv.Itoa(p.symbol.LineWidth))
	p.lineColor = newEntry(p.symbol.LineColor)
	p.fillColor = newEntry(p.symbol.FillColor)
	p.symbolShown = widget.NewCheck("Visible", nil)
	p.symbolShown.SetChecked(p.symbol.Visible)

	p.xOffset = newEntry(strconv.Itoa(p.caption.XOffset))
	p.yOffset = newEntry(strconv.Itoa(p.caption.YOffset))
	p.font = newEntry(p.caption.Font)
	p.fontSize = newEntry(p.caption.FontSize)
	p.textColor = newEntry(p.caption.TextColor)
	p.bgColor = newEntry(p.caption.BackgroundColor)
	p.captionShown = widget.NewCheck("Visible", nil)
	p.captionShown.SetChecked(p.caption.Visible)
}

func (p *StylePanel) buildLayout() {
	symbolForm := widget.NewForm(
		widget.NewFormItem("Shape", p.shape),
		widget.NewFormItem("Size", p.size),
		widget.NewFormItem("Line width", p.lineWidth),
		widget.NewFormItem("Line color", p.lineColor),
		widget.NewFormItem("Fill color", p.fillColor),
		widget.NewFormItem("", p.symbolShown),
	)
	captionForm := widget.NewForm(
		widget.NewFormItem("X offset", p.xOffset),
		widget.NewFormItem("Y offset", p.yOffset),
		widget.NewFormItem("Font", p.font),
		widget.NewFormItem("Font size", p.fontSize),
		widget.NewFormItem("Color", p.textColor),
		widget.NewFormItem("Background", p.bgColor),
		widget.NewFormItem("", p.captionShown),
	)

	accordion := widget.NewAccordion(
		widget.NewAccordionItem("Symbols", symbolForm),
		widget.NewAccordionItem("Captions", captionForm),
	)
	p.container = container.NewVBox(accordion)
}

func (p *StylePanel) setupEventHandlers() {
	symbolChanged := func() {
		p.symbol.Shape = p.shape.Selected
		p.symbol.Size = atoiOr(p.size.Text, p.symbol.Size)
		p.symbol.LineWidth = atoiOr(p.lineWidth.Text, p.symbol.LineWidth)
		p.symbol.LineColor = p.lineColor.Text
		p.symbol.FillColor = p.fillColor.Text
		p.symbol.Visible = p.symbolShown.Checked
		if p.symbolHandler != nil {
			p.symbolHandler(p.symbol)
		}
	}
	captionChanged := func() {
		p.caption.XOffset = atoiOr(p.xOffset.Text, p.caption.XOffset)
		p.caption.YOffset = atoiOr(p.yOffset.Text, p.caption.YOffset)
		p.caption.Font = p.font.Text
		p.caption.FontSize = p.fontSize.Text
		p.caption.TextColor = p.textColor.Text
		p.caption.BackgroundColor = p.bgColor.Text
		p.caption.Visible = p.captionShown.Checked
		if p.captionHandler != nil {
			p.captionHandler(p.caption)
		}
	}

	p.shape.OnChanged = func(string) { symbolChanged() }
	p.symbolShown.OnChanged = func(bool) { symbolChanged() }
	for _, e := range []*widget.Entry{p.size, p.lineWidth, p.lineColor, p.fillColor} {
		e.OnSubmitted = func(string) { symbolChanged() }
	}

	p.captionShown.OnChanged = func(bool) { captionChanged() }
	for _, e := range []*widget.Entry{p.xOffset, p.yOffset, p.font, p.fontSize, p.textColor, p.bgColor} {
		e.OnSubmitted = func(string) { captionChanged() }
	}
}

func (p *StylePanel) SetSymbolHandler(h func(models.SymbolStyle)) { p.symbolHandler = h }
func (p *StylePanel) SetCaptionHandler(h func(models.CaptionStyle)) { p.captionHandler = h }

func (p *StylePanel) GetContainer() *fyne.Container {
	return p.container
}

func atoiOr(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
