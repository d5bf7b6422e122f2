package render

import (
	"math"
	"sync"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
)

// Coordinator owns the shared render state. Every mutation happens under its
// lock; redraws snapshot the state under the lock and are handed to the
// surface after the lock is released.
type Coordinator struct {
	mu       sync.Mutex
	state    models.RenderState
	sequence uint64

	surface  Surface
	executor *Executor
	repo     *models.ImageRepository
	logger   logger.Logger
}

func NewCoordinator(initial models.RenderState, surface Surface, executor *Executor,
	repo *models.ImageRepository, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	if initial.Palette == "" {
		initial.Palette = DefaultPalette
	}
	if initial.Flip == "" {
		initial.Flip = models.FlipNone
	}
	return &Coordinator{
		state:    initial,
		surface:  surface,
		executor: executor,
		repo:     repo,
		logger:   log,
	}
}

// CommitImage makes img the current image and resets the display bounds to
// [min, 10 x clipped mean] clamped into the image range.
func (c *Coordinator) CommitImage(img *models.ImageData) models.IntensityBounds {
	stats := img.Stats
	bounds := models.IntensityBounds{Low: stats.Min, High: 10 * stats.ClippedMean}.Clamp(stats.Min, stats.Max)

	c.mu.Lock()
	c.state.Image = img
	c.state.Bounds = bounds
	c.mu.Unlock()

	if c.repo != nil {
		c.repo.SetCurrent(img)
	}

	c.logger.Info("RenderCoordinator", "image committed", map[string]interface{}{
		"image":  img.Name(),
		"width":  img.Grid.Width,
		"height": img.Grid.Height,
		"low":    bounds.Low,
		"high":   bounds.High,
	})
	return bounds
}

// SetIntensityRange updates the display bounds and redraws. Without an image
// it does nothing and returns false.
func (c *Coordinator) SetIntensityRange(lo, hi float64) bool {
	c.mu.Lock()
	if c.state.Image == nil {
		c.mu.Unlock()
		return false
	}
	stats := c.state.Image.Stats
	c.state.Bounds = models.IntensityBounds{Low: lo, High: hi}.Clamp(stats.Min, stats.Max)
	c.mu.Unlock()

	return c.RequestRedraw()
}

// Autoscale sets the bounds to [max(min, 0), min(3 x mean, max)].
func (c *Coordinator) Autoscale() (models.IntensityBounds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Image == nil {
		return models.IntensityBounds{}, false
	}
	stats := c.state.Image.Stats
	bounds := models.IntensityBounds{
		Low:  math.Max(stats.Min, 0),
		High: math.Min(3*stats.Mean, stats.Max),
	}.Clamp(stats.Min, stats.Max)
	c.state.Bounds = bounds
	return bounds, true
}

func (c *Coordinator) SetPalette(name string, invert bool) {
	c.mu.Lock()
	c.state.Palette = name
	c.state.Invert = invert
	c.mu.Unlock()
}

func (c *Coordinator) SetRotation(r models.Rotation) {
	c.mu.Lock()
	c.state.Rotation = r
	c.mu.Unlock()
}

func (c *Coordinator) SetFlip(f models.Flip) {
	c.mu.Lock()
	c.state.Flip = f
	c.mu.Unlock()
}

func (c *Coordinator) SetCaptionFilter(v float64) {
	c.mu.Lock()
	c.state.CaptionFilter = v
	c.mu.Unlock()
}

func (c *Coordinator) SetSymbolStyle(s models.SymbolStyle) {
	c.mu.Lock()
	c.state.Symbol = &s
	c.mu.Unlock()
}

func (c *Coordinator) SetCaptionStyle(s models.CaptionStyle) {
	c.mu.Lock()
	c.state.Caption = &s
	c.mu.Unlock()
}

// ReplacePeaks installs a freshly parsed batch and returns the caption filter
// range it implies. The first batch starts the filter at its minimum; later
// batches keep the current value clamped into the new range.
func (c *Coordinator) ReplacePeaks(batch models.ParsedBatch) models.FilterRange {
	lo, hi := models.NormalizeBounds(batch.MinIntensity, batch.MaxIntensity)
	records := batch.Clone().Records

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Peaks = records
	value := c.state.CaptionFilter
	if !c.state.FilterActive {
		value = lo
		c.state.FilterActive = true
	}
	value = math.Min(math.Max(value, lo), hi)
	c.state.CaptionFilter = value

	return models.FilterRange{Min: lo, Max: hi, Value: value}
}

func (c *Coordinator) HasImage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Image != nil
}

// State returns a copy of the render state. The peak slice is shared and
// must not be modified.
func (c *Coordinator) State() models.RenderState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RequestRedraw snapshots the state and schedules a redraw on the surface.
// It returns false when there is no image to draw.
func (c *Coordinator) RequestRedraw() bool {
	c.mu.Lock()
	if c.state.Image == nil {
		c.mu.Unlock()
		return false
	}
	c.sequence++
	req := RedrawRequest{
		Sequence:      c.sequence,
		Grid:          c.state.Image.Grid.Transform(c.state.Rotation, c.state.Flip),
		Palette:       c.state.Palette,
		Invert:        c.state.Invert,
		Bounds:        c.state.Bounds,
		Peaks:         c.state.Peaks,
		CaptionFilter: c.state.CaptionFilter,
		Symbol:        c.state.Symbol,
		Caption:       c.state.Caption,
	}
	c.mu.Unlock()

	c.surface.Enqueue(func() {
		c.executor.Redraw(req)
	})
	return true
}

// Clear removes the current visual from the surface.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.sequence++
	seq := c.sequence
	c.mu.Unlock()

	c.surface.Enqueue(func() {
		c.executor.Redraw(RedrawRequest{Sequence: seq})
	})
}
