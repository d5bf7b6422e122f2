package services

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
)

// ImageSource decodes a file into an intensity grid.
type ImageSource interface {
	Name() string
	Load(ctx context.Context, path string) (*models.Grid, error)
}

var ErrUnknownBackend = errors.New("unknown image backend")

var backendExtensions = map[string][]string{
	"opencv": {".tif", ".tiff", ".png", ".jpg", ".jpeg", ".bmp", ".pgm", ".exr"},
	"tiff":   {".tif", ".tiff"},
}

// ImageService runs image loads in the background, one at a time.
type ImageService struct {
	mu       sync.Mutex
	sources  map[string]ImageSource
	backend  string
	current  *LoadTask
	repo     *models.ImageRepository
	logger   logger.Logger
	ctx      context.Context
	shutdown context.CancelFunc
}

func NewImageService(backend string, repo *models.ImageRepository, log logger.Logger, sources ...ImageSource) (*ImageService, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &ImageService{
		sources: make(map[string]ImageSource, len(sources)),
		backend: backend,
		repo:    repo,
		logger:  log,
	}
	for _, src := range sources {
		s.sources[src.Name()] = src
	}
	if _, ok := s.sources[backend]; !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
	}
	s.ctx, s.shutdown = context.WithCancel(context.Background())
	return s, nil
}

func (s *ImageService) Backend() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend
}

// Backends lists the registered source names.
func (s *ImageService) Backends() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions lists the file extensions the active backend understands.
func (s *ImageService) Extensions() []string {
	exts, ok := backendExtensions[s.Backend()]
	if !ok {
		return nil
	}
	return append([]string(nil), exts...)
}

func (s *ImageService) IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s.Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Load starts loading path and returns its task. A load still in flight
// from an earlier call is cancelled first.
func (s *ImageService) Load(path string) *LoadTask {
	s.mu.Lock()
	if s.current != nil {
		s.current.Cancel()
	}
	src := s.sources[s.backend]
	task := newLoadTask(s.ctx, path, src.Name())
	s.current = task
	s.mu.Unlock()

	s.logger.Info("ImageService", "loading image", map[string]interface{}{
		"task":    task.ID,
		"path":    path,
		"backend": task.Backend,
	})

	go s.run(task, src)
	return task
}

func (s *ImageService) run(task *LoadTask, src ImageSource) {
	grid, err := src.Load(task.ctx, task.Path)
	if err == nil {
		err = task.ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("ImageService", "load cancelled", map[string]interface{}{"task": task.ID})
			task.finish(nil, context.Canceled)
			return
		}
		task.finish(nil, errors.Wrapf(err, "load %s", filepath.Base(task.Path)))
		return
	}

	img := models.NewImageData(task.ID, task.Path, grid)
	img.Backend = task.Backend
	img.LoadTime = time.Since(task.Started)

	s.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"task":     task.ID,
		"width":    grid.Width,
		"height":   grid.Height,
		"min":      img.Stats.Min,
		"max":      img.Stats.Max,
		"load_ms":  img.LoadTime.Milliseconds(),
		"backend":  img.Backend,
		"filename": img.Name(),
	})
	task.finish(img, nil)
}

// Current is the most recently started task, if any.
func (s *ImageService) Current() *LoadTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Stats summarizes the images committed so far.
func (s *ImageService) Stats() models.ImageStats {
	if s.repo == nil {
		return models.ImageStats{}
	}
	return s.repo.GetImageStats()
}

func (s *ImageService) Shutdown() {
	s.shutdown()
	if s.repo != nil {
		s.repo.Shutdown()
	}
}
