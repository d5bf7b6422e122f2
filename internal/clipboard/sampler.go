// Package clipboard samples the system clipboard in the background and
// forwards changed peak tables to the rest of the application.
package clipboard

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"peak-overlay/internal/logger"
)

// DefaultPeriod is the delay between two clipboard samples.
const DefaultPeriod = time.Second

// Handler receives every text snapshot read from the clipboard.
type Handler func(snapshot string)

// Sampler polls a Source on its own goroutine at a fixed period.
//
// At most one polling goroutine is alive per Sampler. Stop is a synchronous
// handshake: it returns only after the goroutine has acknowledged the stop
// request and exited, which takes at most one period.
type Sampler struct {
	source  Source
	handler Handler
	period  time.Duration
	logger  logger.Logger

	dataMu sync.Mutex

	mu      sync.Mutex
	control chan chan struct{}
	done    chan struct{}
	running atomic.Bool
}

func NewSampler(source Source, handler Handler, period time.Duration, log logger.Logger) *Sampler {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Sampler{
		source:  source,
		handler: handler,
		period:  period,
		logger:  log,
	}
}

// Start stops any running poller, then launches a new one.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	control := make(chan chan struct{}, 1)
	done := make(chan struct{})
	s.control = control
	s.done = done
	s.running.Store(true)

	s.logger.Debug("ClipboardSampler", "starting clipboard polling", map[string]interface{}{
		"period": s.period.String(),
	})
	go s.run(control, done)
}

// Stop requests the poller to exit and blocks until it has.
// Calling Stop on an idle Sampler is a no-op.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Shutdown satisfies shutdown.Shutdownable.
func (s *Sampler) Shutdown() {
	s.Stop()
}

// Running reports whether a polling goroutine is alive.
func (s *Sampler) Running() bool {
	return s.running.Load()
}

func (s *Sampler) stopLocked() {
	if s.control == nil {
		return
	}

	ack := make(chan struct{})
	select {
	case s.control <- ack:
		select {
		case <-ack:
		case <-s.done:
		}
	case <-s.done:
	}
	<-s.done

	s.control = nil
	s.done = nil
}

func (s *Sampler) run(control chan chan struct{}, done chan struct{}) {
	defer func() {
		s.running.Store(false)
		close(done)
		s.logger.Debug("ClipboardSampler", "clipboard polling stopped", nil)
	}()

	for {
		if stopRequested(control) {
			return
		}

		started := time.Now()
		s.sample()

		if stopRequested(control) {
			return
		}

		if wait := s.period - time.Since(started); wait > 0 {
			time.Sleep(wait)
		}
	}
}

func (s *Sampler) sample() {
	text, err := s.source.ReadText()
	if err != nil {
		if !errors.Is(err, ErrNotText) {
			s.logger.Debug("ClipboardSampler", "clipboard read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}

	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.handler(text)
}

// stopRequested consumes a pending stop sentinel, acknowledging it.
func stopRequested(control chan chan struct{}) bool {
	select {
	case ack := <-control:
		close(ack)
		return true
	default:
		return false
	}
}
