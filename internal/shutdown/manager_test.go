package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"peak-overlay/internal/logger"
)

func TestShutdownRunsInReverseOrderOnce(t *testing.T) {
	m := NewManager(logger.Nop(), time.Second)

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}
	m.Register("sampler", record("sampler"))
	m.Register("dispatcher", record("dispatcher"))
	m.Register("images", record("images"))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"images", "dispatcher", "sampler"}, order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownSkipsStuckComponent(t *testing.T) {
	m := NewManager(logger.Nop(), 50*time.Millisecond)
	block := make(chan struct{})
	defer close(block)

	ran := false
	m.Register("after", Func(func() { ran = true }))
	m.Register("stuck", Func(func() { <-block }))

	start := time.Now()
	m.Shutdown()

	assert.True(t, ran)
	assert.Less(t, time.Since(start), time.Second)
}
