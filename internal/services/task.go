package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"peak-overlay/internal/models"
)

// LoadTask is the handle for one background image load.
type LoadTask struct {
	ID      string
	Path    string
	Backend string
	Started time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	once   sync.Once
	result *models.ImageData
	err    error
}

func newLoadTask(parent context.Context, path, backend string) *LoadTask {
	ctx, cancel := context.WithCancel(parent)
	return &LoadTask{
		ID:      uuid.NewString(),
		Path:    path,
		Backend: backend,
		Started: time.Now(),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (t *LoadTask) finish(img *models.ImageData, err error) {
	t.once.Do(func() {
		t.result, t.err = img, err
		t.cancel()
		close(t.done)
	})
}

// Done is closed once the load has finished, failed or been cancelled.
func (t *LoadTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the load finishes or ctx ends.
func (t *LoadTask) Wait(ctx context.Context) (*models.ImageData, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel abandons the load. A load that already finished keeps its result.
func (t *LoadTask) Cancel() {
	t.cancel()
}

// Canceled reports whether the task ended because it was cancelled.
func (t *LoadTask) Canceled() bool {
	select {
	case <-t.done:
		return t.err == context.Canceled
	default:
		return false
	}
}
