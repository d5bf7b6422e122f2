package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"peak-overlay/internal/models"
	"peak-overlay/internal/views/components"
)

// Options seeds the widgets with the startup configuration.
type Options struct {
	Palettes   []string
	Initial    models.RenderState
	Debug      bool
	Extensions []string
}

// MainView owns the window content. Update methods may be called from any
// goroutine; they hop onto the UI thread with fyne.Do.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	controls      *components.GraphControls
	styles        *components.StylePanel
	statusBar     *components.StatusBar
	output        *components.OutputPanel
	plot          *Plot

	extensions  []string
	openHandler func(path string)
}

func NewMainView(window fyne.Window, opts Options) *MainView {
	view := &MainView{
		window:     window,
		extensions: opts.Extensions,
	}

	view.initializeComponents(opts)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(opts Options) {
	mv.toolbar = components.NewToolbar()
	mv.controls = components.NewGraphControls(opts.Palettes, opts.Initial)
	mv.styles = components.NewStylePanel(opts.Initial.Symbol, opts.Initial.Caption)
	mv.statusBar = components.NewStatusBar()
	mv.output = components.NewOutputPanel(opts.Debug)
	mv.plot = NewPlot()
}

func (mv *MainView) buildLayout() {
	side := container.NewVScroll(container.NewVBox(
		mv.controls.GetContainer(),
		mv.styles.GetContainer(),
	))

	content := container.NewHSplit(mv.plot, side)
	content.SetOffset(0.72)

	bottom := container.NewVBox(
		mv.output.GetContainer(),
		mv.statusBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		bottom,
		nil,
		nil,
		content,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetOpenHandler(mv.showOpenDialog)
	mv.plot.SetHoverHandler(mv.statusBar.SetHover)
}

func (mv *MainView) showOpenDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mv.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if mv.openHandler != nil {
			mv.openHandler(path)
		}
	}, mv.window)

	if len(mv.extensions) > 0 {
		fd.SetFilter(storage.NewExtensionFileFilter(mv.extensions))
	}
	fd.Show()
}

// Plot returns the drawing surface the render executor attaches visuals to.
func (mv *MainView) Plot() *Plot {
	return mv.plot
}

func (mv *MainView) SetOpenHandler(h func(path string)) { mv.openHandler = h }
func (mv *MainView) SetClipboardToggleHandler(h func(bool)) { mv.toolbar.SetClipboardHandler(h) }
func (mv *MainView) SetUpdateHandler(h func()) { mv.toolbar.SetUpdateHandler(h) }
func (mv *MainView) SetAutoscaleHandler(h func()) { mv.toolbar.SetAutoscaleHandler(h) }
func (mv *MainView) SetCopyPositionsHandler(h func()) { mv.toolbar.SetCopyHandler(h) }
func (mv *MainView) SetIntensityHandler(h func(lo, hi float64)) { mv.controls.SetIntensityHandler(h) }
func (mv *MainView) SetPaletteHandler(h func(string, bool)) { mv.controls.SetPaletteHandler(h) }
func (mv *MainView) SetRotationHandler(h func(models.Rotation)) { mv.controls.SetRotationHandler(h) }
func (mv *MainView) SetFlipHandler(h func(models.Flip)) { mv.controls.SetFlipHandler(h) }
func (mv *MainView) SetCaptionFilterHandler(h func(float64)) { mv.controls.SetCaptionFilterHandler(h) }
func (mv *MainView) SetSymbolStyleHandler(h func(models.SymbolStyle)) { mv.styles.SetSymbolHandler(h) }
func (mv *MainView) SetCaptionStyleHandler(h func(models.CaptionStyle)) { mv.styles.SetCaptionHandler(h) }

// ResetIntensitySync must not be called from the UI goroutine.
func (mv *MainView) ResetIntensitySync(stats models.GridStats, bounds models.IntensityBounds) {
	fyne.DoAndWait(func() {
		mv.controls.ResetIntensity(stats, bounds)
	})
}

func (mv *MainView) SetIntensityValueSync(bounds models.IntensityBounds) {
	fyne.DoAndWait(func() {
		mv.controls.SetIntensityValue(bounds)
	})
}

func (mv *MainView) SetFilterRangeSync(r models.FilterRange) {
	fyne.DoAndWait(func() {
		mv.controls.SetFilterRange(r)
	})
}

func (mv *MainView) SetGraphControlsEnabled(enabled bool) {
	fyne.Do(func() {
		mv.toolbar.EnableGraphActions(enabled)
		mv.controls.EnableIntensity(enabled)
	})
}

func (mv *MainView) SetImageInfo(img *models.ImageData) {
	fyne.Do(func() {
		mv.statusBar.SetImageInfo(img)
		if img != nil {
			mv.toolbar.SetFileName(img.Name())
			mv.window.SetTitle("Peak Overlay - " + img.Name())
		}
	})
}

func (mv *MainView) SetClipboardActive(on bool) {
	fyne.Do(func() {
		mv.toolbar.SetClipboardActive(on)
	})
}

func (mv *MainView) SetStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// SetOutput replaces the debug output panel contents.
func (mv *MainView) SetOutput(lines []string) {
	fyne.Do(func() {
		mv.output.SetLines(lines)
	})
}

func (mv *MainView) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}
