package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskLoopRunsEveryTaskInOrder(t *testing.T) {
	loop := NewTaskLoop()
	defer loop.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		loop.Enqueue(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	loop.Sync()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestTaskLoopCloseDrainsQueue(t *testing.T) {
	loop := NewTaskLoop()
	ran := 0
	for i := 0; i < 10; i++ {
		loop.Enqueue(func() { ran++ })
	}
	loop.Close()
	assert.Equal(t, 10, ran)

	loop.Enqueue(func() { ran++ })
	loop.Sync()
	loop.Close()
	assert.Equal(t, 10, ran)
}

func TestSurfaceFuncRunsInline(t *testing.T) {
	called := false
	var s Surface = SurfaceFunc(func(f func()) { f() })
	s.Enqueue(func() { called = true })
	assert.True(t, called)
}
