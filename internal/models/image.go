package models

import (
	"path/filepath"
	"sync"
	"time"
)

// ImageData is one loaded detector image with its statistics.
type ImageData struct {
	ID       string
	Path     string
	Grid     *Grid
	Stats    GridStats
	Backend  string
	LoadTime time.Duration
	LoadedAt time.Time
}

// NewImageData computes statistics for grid and wraps it.
func NewImageData(id, path string, grid *Grid) *ImageData {
	return &ImageData{
		ID:       id,
		Path:     path,
		Grid:     grid,
		Stats:    ComputeStats(grid),
		LoadedAt: time.Now(),
	}
}

// Name returns the file name portion of the image path.
func (d *ImageData) Name() string {
	return filepath.Base(d.Path)
}

// LoadRecord is what the repository remembers about an image once another
// one has replaced it. It holds no pixel data.
type LoadRecord struct {
	ID       string
	Path     string
	Width    int
	Height   int
	Backend  string
	LoadTime time.Duration
	LoadedAt time.Time
}

func (d *ImageData) record() LoadRecord {
	rec := LoadRecord{
		ID:       d.ID,
		Path:     d.Path,
		Backend:  d.Backend,
		LoadTime: d.LoadTime,
		LoadedAt: d.LoadedAt,
	}
	if d.Grid != nil {
		rec.Width, rec.Height = d.Grid.Width, d.Grid.Height
	}
	return rec
}

// ImageRepository keeps the current image and a short log of earlier loads.
// Only the current image's grid stays reachable from here.
type ImageRepository struct {
	mu             sync.RWMutex
	current        *ImageData
	history        []LoadRecord
	loads          int
	totalLoadTime  time.Duration
	maxHistorySize int
}

// NewImageRepository creates a new image repository
func NewImageRepository() *ImageRepository {
	return &ImageRepository{
		history:        make([]LoadRecord, 0),
		maxHistorySize: 10,
	}
}

// SetCurrent stores img as the current image and records the load.
func (r *ImageRepository) SetCurrent(img *ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = img
	r.loads++
	r.totalLoadTime += img.LoadTime
	r.history = append(r.history, img.record())
	if len(r.history) > r.maxHistorySize {
		r.history = r.history[len(r.history)-r.maxHistorySize:]
	}
}

// Current returns the most recently committed image or nil.
func (r *ImageRepository) Current() *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns the most recent load records, oldest first.
func (r *ImageRepository) History() []LoadRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := make([]LoadRecord, len(r.history))
	copy(history, r.history)
	return history
}

// GetImageStats returns statistics about stored images
func (r *ImageRepository) GetImageStats() ImageStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := ImageStats{
		HasCurrent:    r.current != nil,
		Loads:         r.loads,
		HistorySize:   len(r.history),
		TotalLoadTime: r.totalLoadTime,
	}
	if r.current != nil && r.current.Grid != nil {
		stats.CurrentPixels = int64(len(r.current.Grid.Data))
	}
	if r.loads > 0 {
		stats.AverageLoadTime = r.totalLoadTime / time.Duration(r.loads)
	}
	return stats
}

// ImageStats contains statistics about the image repository
type ImageStats struct {
	HasCurrent      bool
	Loads           int
	HistorySize     int
	CurrentPixels   int64
	TotalLoadTime   time.Duration
	AverageLoadTime time.Duration
}

// Fields flattens the stats into log fields.
func (s ImageStats) Fields() map[string]interface{} {
	return map[string]interface{}{
		"loads":           s.Loads,
		"avg_load_ms":     s.AverageLoadTime.Milliseconds(),
		"current_pixels":  s.CurrentPixels,
		"history_entries": s.HistorySize,
	}
}

// Shutdown releases all resources
func (r *ImageRepository) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil
	r.history = make([]LoadRecord, 0)
}
