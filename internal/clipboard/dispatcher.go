package clipboard

import (
	"sync"

	"github.com/pkg/errors"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
	"peak-overlay/internal/parser"
)

// DefaultBuffer is the capacity of the batch channel.
const DefaultBuffer = 4

// DispatchStats counts what happened to offered snapshots.
type DispatchStats struct {
	Offered    int
	Duplicates int
	Parsed     int
	Rejected   int
	Delivered  int
	Dropped    int
}

// Dispatcher deduplicates consecutive clipboard snapshots and pushes every
// accepted peak table onto a bounded channel. When the channel is full the
// oldest queued batch is discarded, so the newest table always lands.
type Dispatcher struct {
	mu     sync.Mutex
	last   string
	seen   bool
	closed bool
	stats  DispatchStats

	parse  func(string) (models.ParsedBatch, error)
	out    chan models.ParsedBatch
	logger logger.Logger
}

func NewDispatcher(buffer int, log logger.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Dispatcher{
		parse:  parser.ParsePeaks,
		out:    make(chan models.ParsedBatch, buffer),
		logger: log,
	}
}

// Batches is the consumer side of the handoff.
func (d *Dispatcher) Batches() <-chan models.ParsedBatch {
	return d.out
}

// Offer processes one snapshot. It reports whether a batch was queued.
func (d *Dispatcher) Offer(snapshot string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	d.stats.Offered++

	if d.seen && snapshot == d.last {
		d.stats.Duplicates++
		return false
	}
	d.last = snapshot
	d.seen = true

	d.stats.Parsed++
	batch, err := d.parse(snapshot)
	if err != nil {
		d.stats.Rejected++
		fields := map[string]interface{}{"length": len(snapshot)}
		if !errors.Is(err, parser.ErrNotPeakData) {
			fields["error"] = err.Error()
		}
		d.logger.Debug("Dispatcher", "clipboard data is not a valid peak table", fields)
		return false
	}

	d.logger.Debug("Dispatcher", "new peak table", map[string]interface{}{
		"peaks": batch.Len(),
	})
	d.push(batch)
	return true
}

func (d *Dispatcher) push(batch models.ParsedBatch) {
	select {
	case d.out <- batch:
		d.stats.Delivered++
		return
	default:
	}

	// full: make room by discarding the oldest queued batch
	select {
	case <-d.out:
		d.stats.Dropped++
	default:
	}
	select {
	case d.out <- batch:
		d.stats.Delivered++
	default:
		d.stats.Dropped++
	}
}

// Reset forgets the last snapshot so the next one is parsed even if unchanged.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = ""
	d.seen = false
}

func (d *Dispatcher) Stats() DispatchStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Close ends the handoff; consumers ranging over Batches return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.out)
}

// Shutdown satisfies shutdown.Shutdownable.
func (d *Dispatcher) Shutdown() {
	d.Close()
}
