// Package timing keeps a short rolling window of durations per operation.
package timing

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

const DefaultWindow = 256

// Operation names recorded by the application.
const (
	OpImageLoad  = "image_load"
	OpRedraw     = "redraw"
	OpApplyBatch = "apply_batch"
)

// Summary describes the samples currently held for one operation.
type Summary struct {
	Count int
	Mean  time.Duration
	P95   time.Duration
	Max   time.Duration
}

// Tracker is safe for concurrent use. A nil *Tracker records nothing.
type Tracker struct {
	mu      sync.Mutex
	window  int
	samples map[string][]time.Duration
}

func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window:  window,
		samples: make(map[string][]time.Duration),
	}
}

// Start returns a func that records the time elapsed since Start.
func (t *Tracker) Start(operation string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		d := time.Since(start)
		t.Record(operation, d)
		return d
	}
}

func (t *Tracker) Record(operation string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	s := append(t.samples[operation], d)
	if len(s) > t.window {
		s = s[len(s)-t.window:]
	}
	t.samples[operation] = s
}

func (t *Tracker) Summary(operation string) Summary {
	if t == nil {
		return Summary{}
	}
	t.mu.Lock()
	values := make([]float64, len(t.samples[operation]))
	for i, d := range t.samples[operation] {
		values[i] = float64(d)
	}
	t.mu.Unlock()

	if len(values) == 0 {
		return Summary{}
	}
	sort.Float64s(values)
	return Summary{
		Count: len(values),
		Mean:  time.Duration(stat.Mean(values, nil)),
		P95:   time.Duration(stat.Quantile(0.95, stat.Empirical, values, nil)),
		Max:   time.Duration(values[len(values)-1]),
	}
}

// Operations lists every operation with at least one sample, sorted.
func (t *Tracker) Operations() []string {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	ops := make([]string, 0, len(t.samples))
	for op := range t.samples {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Fields flattens every summary into log fields.
func (t *Tracker) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	for _, op := range t.Operations() {
		s := t.Summary(op)
		fields[op+"_count"] = s.Count
		fields[op+"_mean_ms"] = s.Mean.Milliseconds()
		fields[op+"_p95_ms"] = s.P95.Milliseconds()
	}
	return fields
}

func (t *Tracker) Reset(operation string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if operation == "" {
		t.samples = make(map[string][]time.Duration)
		return
	}
	delete(t.samples, operation)
}
