package controllers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"peak-overlay/internal/clipboard"
	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
	"peak-overlay/internal/parser"
	"peak-overlay/internal/render"
	"peak-overlay/internal/services"
	"peak-overlay/internal/timing"
)

// View is what the controller needs from the window. Every method is safe to
// call from any goroutine; the Sync variants return only after the widgets
// have been updated.
type View interface {
	SetOpenHandler(func(path string))
	SetClipboardToggleHandler(func(on bool))
	SetUpdateHandler(func())
	SetAutoscaleHandler(func())
	SetCopyPositionsHandler(func())
	SetIntensityHandler(func(lo, hi float64))
	SetPaletteHandler(func(name string, invert bool))
	SetRotationHandler(func(models.Rotation))
	SetFlipHandler(func(models.Flip))
	SetCaptionFilterHandler(func(float64))
	SetSymbolStyleHandler(func(models.SymbolStyle))
	SetCaptionStyleHandler(func(models.CaptionStyle))

	ResetIntensitySync(stats models.GridStats, bounds models.IntensityBounds)
	SetIntensityValueSync(bounds models.IntensityBounds)
	SetFilterRangeSync(r models.FilterRange)
	SetGraphControlsEnabled(enabled bool)
	SetImageInfo(img *models.ImageData)
	SetClipboardActive(on bool)
	SetStatus(status string)
	ShowError(err error)
}

// ClipboardWriter receives the copied peak positions.
type ClipboardWriter interface {
	WriteText(text string)
}

type Dependencies struct {
	Coordinator *render.Coordinator
	Images      *services.ImageService
	Sampler     *clipboard.Sampler
	Dispatcher  *clipboard.Dispatcher
	Clipboard   ClipboardWriter
	Timings     *timing.Tracker
	Logger      logger.Logger
}

// MainController connects the window to the sampler, image loads and the
// render coordinator.
type MainController struct {
	coordinator *render.Coordinator
	images      *services.ImageService
	sampler     *clipboard.Sampler
	dispatcher  *clipboard.Dispatcher
	clip        ClipboardWriter
	timings     *timing.Tracker
	logger      logger.Logger

	view View

	// set while the controller itself moves sliders, so their change
	// callbacks do not trigger extra redraws
	blockUpdates atomic.Bool

	// latest polling choice; applied off the UI goroutine under pollMu
	pollWanted atomic.Bool
	pollMu     sync.Mutex
	toggles    sync.WaitGroup

	mu       sync.Mutex
	started  bool
	consumer sync.WaitGroup
	loads    sync.WaitGroup
}

func NewMainController(deps Dependencies) *MainController {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &MainController{
		coordinator: deps.Coordinator,
		images:      deps.Images,
		sampler:     deps.Sampler,
		dispatcher:  deps.Dispatcher,
		clip:        deps.Clipboard,
		timings:     deps.Timings,
		logger:      log,
	}
}

// SetView associates the window with this controller and wires its events.
func (mc *MainController) SetView(view View) {
	mc.view = view

	view.SetOpenHandler(mc.OpenImage)
	view.SetClipboardToggleHandler(mc.ToggleClipboard)
	view.SetUpdateHandler(func() { mc.Redraw() })
	view.SetAutoscaleHandler(func() { go mc.Autoscale() })
	view.SetCopyPositionsHandler(mc.CopyPositions)
	view.SetIntensityHandler(mc.ChangeIntensity)
	view.SetPaletteHandler(func(name string, invert bool) {
		mc.coordinator.SetPalette(name, invert)
		mc.Redraw()
	})
	view.SetRotationHandler(func(r models.Rotation) {
		mc.coordinator.SetRotation(r)
		mc.Redraw()
	})
	view.SetFlipHandler(func(f models.Flip) {
		mc.coordinator.SetFlip(f)
		mc.Redraw()
	})
	view.SetCaptionFilterHandler(func(v float64) {
		if mc.blockUpdates.Load() {
			return
		}
		mc.coordinator.SetCaptionFilter(v)
		mc.Redraw()
	})
	view.SetSymbolStyleHandler(func(s models.SymbolStyle) {
		mc.coordinator.SetSymbolStyle(s)
		mc.Redraw()
	})
	view.SetCaptionStyleHandler(func(s models.CaptionStyle) {
		mc.coordinator.SetCaptionStyle(s)
		mc.Redraw()
	})

	view.SetGraphControlsEnabled(false)
	view.SetClipboardActive(false)
}

// Start begins consuming parsed clipboard batches.
func (mc *MainController) Start() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.started {
		return
	}
	mc.started = true

	mc.consumer.Add(1)
	go mc.consumeBatches()
}

func (mc *MainController) consumeBatches() {
	defer mc.consumer.Done()
	for batch := range mc.dispatcher.Batches() {
		mc.applyBatch(batch)
	}
}

func (mc *MainController) applyBatch(batch models.ParsedBatch) {
	defer mc.timings.Start(timing.OpApplyBatch)()
	filter := mc.coordinator.ReplacePeaks(batch)

	mc.blockUpdates.Store(true)
	mc.view.SetFilterRangeSync(filter)
	mc.blockUpdates.Store(false)

	mc.logger.Info("MainController", "peak batch applied", map[string]interface{}{
		"peaks":    batch.Len(),
		"skipped":  countPeaks(batch.Records, models.PeakRecord.IsSkipped),
		"wrong":    countPeaks(batch.Records, models.PeakRecord.IsWrong),
		"bad":      countPeaks(batch.Records, models.PeakRecord.IsBad),
		"min":      filter.Min,
		"max":      filter.Max,
		"filtered": filter.Value,
	})
	mc.view.SetStatus(fmt.Sprintf("%d peaks from clipboard", batch.Len()))

	mc.Redraw()
}

func countPeaks(records []models.PeakRecord, pred func(models.PeakRecord) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// OpenImage starts loading path in the background. It returns immediately.
func (mc *MainController) OpenImage(path string) {
	if path == "" {
		return
	}
	task := mc.images.Load(path)
	mc.view.SetStatus("Loading " + path)

	mc.loads.Add(1)
	go func() {
		defer mc.loads.Done()
		mc.finishLoad(task)
	}()
}

func (mc *MainController) finishLoad(task *services.LoadTask) {
	img, err := task.Wait(context.Background())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		mc.logger.Error("MainController", err, map[string]interface{}{
			"task": task.ID,
			"path": task.Path,
		})
		mc.view.SetStatus("Image load failed")
		mc.view.ShowError(err)
		return
	}

	mc.timings.Record(timing.OpImageLoad, img.LoadTime)
	bounds := mc.coordinator.CommitImage(img)

	mc.blockUpdates.Store(true)
	mc.view.ResetIntensitySync(img.Stats, bounds)
	mc.blockUpdates.Store(false)

	mc.view.SetImageInfo(img)
	mc.view.SetGraphControlsEnabled(true)
	stats := mc.images.Stats()
	mc.view.SetStatus(fmt.Sprintf("Loaded %s (load %d, avg %d ms)",
		img.Name(), stats.Loads, stats.AverageLoadTime.Milliseconds()))
	mc.Redraw()
}

// ChangeIntensity applies a new display range chosen by the user.
func (mc *MainController) ChangeIntensity(lo, hi float64) {
	if mc.blockUpdates.Load() {
		return
	}
	mc.coordinator.SetIntensityRange(lo, hi)
}

// Autoscale resets the display range from the image mean. Call it off the
// UI goroutine.
func (mc *MainController) Autoscale() {
	bounds, ok := mc.coordinator.Autoscale()
	if !ok {
		return
	}

	mc.blockUpdates.Store(true)
	mc.view.SetIntensityValueSync(bounds)
	mc.blockUpdates.Store(false)

	mc.Redraw()
}

// Redraw asks for a redraw with the current settings. Without an image it
// does nothing.
func (mc *MainController) Redraw() bool {
	if !mc.coordinator.RequestRedraw() {
		mc.logger.Debug("MainController", "redraw skipped, no image loaded", nil)
		return false
	}
	return true
}

// ToggleClipboard switches polling on or off and returns at once. Switching
// on re-reads the current clipboard even if it was seen before.
//
// Starting and stopping wait for the sampler, whose reads may need the UI
// goroutine, so both happen in the background. Quick toggles collapse to
// the last choice.
func (mc *MainController) ToggleClipboard(on bool) {
	mc.pollWanted.Store(on)
	if on {
		mc.dispatcher.Reset()
		mc.view.SetStatus("Clipboard polling on")
	} else {
		mc.view.SetStatus("Clipboard polling off")
	}
	mc.view.SetClipboardActive(on)

	mc.toggles.Add(1)
	go func() {
		defer mc.toggles.Done()
		mc.applyPolling()
	}()
}

func (mc *MainController) applyPolling() {
	mc.pollMu.Lock()
	defer mc.pollMu.Unlock()

	want := mc.pollWanted.Load()
	switch {
	case want && !mc.sampler.Running():
		mc.sampler.Start()
	case !want && mc.sampler.Running():
		mc.sampler.Stop()
	}
}

// CopyPositions puts the current peaks on the clipboard as a
// detx/dety/h/k/l table.
func (mc *MainController) CopyPositions() {
	peaks := mc.coordinator.State().Peaks
	if len(peaks) == 0 || mc.clip == nil {
		return
	}
	mc.clip.WriteText(parser.FormatPositions(peaks))
	mc.view.SetStatus(fmt.Sprintf("Copied %d peak positions", len(peaks)))
}

// Shutdown stops polling and waits for the batch consumer and pending loads.
func (mc *MainController) Shutdown() {
	mc.pollWanted.Store(false)
	mc.toggles.Wait()
	mc.sampler.Stop()
	mc.dispatcher.Close()
	mc.consumer.Wait()

	fields := mc.images.Stats().Fields()
	mc.images.Shutdown()
	mc.loads.Wait()
	for k, v := range mc.timings.Fields() {
		fields[k] = v
	}
	mc.logger.Info("MainController", "controller stopped", fields)
}
