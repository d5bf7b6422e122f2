package clipboard

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak-overlay/internal/logger"
)

type recorder struct {
	mu        sync.Mutex
	snapshots []string
}

func (r *recorder) handle(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

func TestSamplerForwardsSnapshots(t *testing.T) {
	src := NewStaticSource(oneRow)
	rec := &recorder{}
	s := NewSampler(src, rec.handle, 10*time.Millisecond, logger.Nop())

	s.Start()
	require.Eventually(t, func() bool { return len(rec.all()) >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.False(t, s.Running())
	for _, snap := range rec.all() {
		assert.Equal(t, oneRow, snap)
	}
}

func TestSamplerSkipsUnreadableCycles(t *testing.T) {
	src := NewStaticSource("")
	src.SetError(ErrNotText)
	rec := &recorder{}
	s := NewSampler(src, rec.handle, 5*time.Millisecond, logger.Nop())

	s.Start()
	require.Eventually(t, func() bool { return src.Reads() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, rec.all())

	src.SetError(errors.New("clipboard locked by another process"))
	require.Eventually(t, func() bool { return src.Reads() >= 6 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, rec.all())
	assert.True(t, s.Running(), "read failures never stop the poller")

	src.Set("copied")
	require.Eventually(t, func() bool { return len(rec.all()) > 0 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestSamplerStopReturnsWithinOnePeriod(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the one second production period")
	}
	s := NewSampler(NewStaticSource(oneRow), func(string) {}, time.Second, logger.Nop())
	s.Start()
	time.Sleep(100 * time.Millisecond)

	begin := time.Now()
	s.Stop()
	assert.LessOrEqual(t, time.Since(begin), 1200*time.Millisecond)
	assert.False(t, s.Running())
}

func TestSamplerRestartKeepsSingleGoroutine(t *testing.T) {
	src := NewStaticSource(oneRow)
	s := NewSampler(src, func(string) {}, 20*time.Millisecond, logger.Nop())

	s.Start()
	s.Start()
	s.Start()
	require.True(t, s.Running())

	time.Sleep(110 * time.Millisecond)
	s.Stop()
	reads := src.Reads()

	// one goroutine at 20ms cadence samples roughly 6 times in 110ms plus one
	// read per replaced poller; three live pollers would triple that
	assert.LessOrEqual(t, reads, 12)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, reads, src.Reads(), "no sampling after Stop")
}

func TestSamplerStopWhenIdle(t *testing.T) {
	s := NewSampler(NewStaticSource(""), func(string) {}, 0, logger.Nop())
	assert.Equal(t, DefaultPeriod, s.period)

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on idle sampler blocked")
	}
}

func TestSamplerFeedsDispatcher(t *testing.T) {
	src := NewStaticSource(twoRows)
	d := NewDispatcher(4, logger.Nop())
	s := NewSampler(src, func(text string) { d.Offer(text) }, 5*time.Millisecond, logger.Nop())

	s.Start()
	defer s.Stop()

	select {
	case batch := <-d.Batches():
		assert.Equal(t, 2, batch.Len())
	case <-time.After(time.Second):
		t.Fatal("no batch delivered")
	}

	require.Eventually(t, func() bool { return d.Stats().Duplicates >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, d.Stats().Parsed)
}
