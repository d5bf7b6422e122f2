package render

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
	"peak-overlay/internal/timing"
)

// RedrawRequest is a consistent snapshot of render state taken under the
// coordinator lock. The executor reads nothing else.
type RedrawRequest struct {
	Sequence      uint64
	Grid          *models.Grid
	Palette       string
	Invert        bool
	Bounds        models.IntensityBounds
	Peaks         []models.PeakRecord
	CaptionFilter float64
	Symbol        *models.SymbolStyle
	Caption       *models.CaptionStyle
}

// Executor replaces the image visual in a Document. It must only run on the
// surface loop that owns the document.
type Executor struct {
	doc     Document
	logger  logger.Logger
	timings *timing.Tracker
	redraws atomic.Uint64
	last    atomic.Uint64
}

func NewExecutor(doc Document, log logger.Logger) *Executor {
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{doc: doc, logger: log}
}

// SetTimings records the duration of every later Redraw in t.
func (e *Executor) SetTimings(t *timing.Tracker) {
	e.timings = t
}

// Redraw swaps the previous visual for one built from req and returns it.
// A nil grid only removes the previous visual.
func (e *Executor) Redraw(req RedrawRequest) *Visual {
	defer e.timings.Start(timing.OpRedraw)()
	e.redraws.Add(1)
	e.last.Store(req.Sequence)

	prev, hadPrev := e.doc.ModelByName(VisualName)
	if hadPrev {
		e.doc.Remove(VisualName)
	}
	if req.Grid == nil {
		return nil
	}

	colors, known := LookupPalette(req.Palette, req.Invert)
	if !known {
		e.logger.Warning("RenderExecutor", "unknown palette, using default", map[string]interface{}{
			"palette": req.Palette,
			"default": DefaultPalette,
		})
	}

	v := NewVisual(VisualName, req.Grid, ColorMapper{
		Palette: colors,
		Low:     req.Bounds.Low,
		High:    req.Bounds.High,
	})
	if hadPrev && prev != nil {
		v.XRange = prev.XRange
		v.YRange = prev.YRange
	}

	if len(req.Peaks) > 0 {
		markers, err := guard(func() ([]Marker, error) { return BuildMarkers(req.Peaks, req.Symbol) })
		if err != nil {
			e.logger.Error("RenderExecutor", errors.Wrap(err, "peak markers"), map[string]interface{}{
				"peaks": len(req.Peaks),
			})
		} else {
			v.Markers = markers
		}

		labels, err := guard(func() ([]Label, error) {
			return BuildLabels(req.Peaks, req.CaptionFilter, req.Caption)
		})
		if err != nil {
			e.logger.Error("RenderExecutor", errors.Wrap(err, "peak captions"), map[string]interface{}{
				"peaks": len(req.Peaks),
			})
		} else {
			v.Labels = labels
		}
	}

	e.doc.Attach(VisualName, v)

	e.logger.Debug("RenderExecutor", "visual replaced", map[string]interface{}{
		"sequence": req.Sequence,
		"width":    v.Width(),
		"height":   v.Height(),
		"markers":  len(v.Markers),
		"labels":   len(v.Labels),
	})
	return v
}

// Redraws is the number of redraw tasks executed so far.
func (e *Executor) Redraws() uint64 {
	return e.redraws.Load()
}

// LastSequence is the sequence number of the most recent redraw.
func (e *Executor) LastSequence() uint64 {
	return e.last.Load()
}

func guard[T any](build func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("overlay construction panicked: %v", r)
		}
	}()
	return build()
}
