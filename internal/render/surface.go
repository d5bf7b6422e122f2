package render

import "sync"

// Surface runs tasks one at a time, in order, on the goroutine that owns the
// Document. Enqueue must never drop or coalesce tasks.
type Surface interface {
	Enqueue(task func())
}

// SurfaceFunc adapts a scheduling function such as fyne.Do to a Surface.
type SurfaceFunc func(func())

func (f SurfaceFunc) Enqueue(task func()) { f(task) }

// TaskLoop is a Surface backed by a single goroutine and an unbounded FIFO.
type TaskLoop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

func NewTaskLoop() *TaskLoop {
	l := &TaskLoop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *TaskLoop) Enqueue(task func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Sync blocks until every task enqueued before the call has run.
func (l *TaskLoop) Sync() {
	ch := make(chan struct{})
	l.Enqueue(func() { close(ch) })

	select {
	case <-ch:
	case <-l.done:
	}
}

// Close runs what is already queued and stops the loop.
func (l *TaskLoop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	<-l.done
}

func (l *TaskLoop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		closed := l.closed
		l.mu.Unlock()

		for _, task := range batch {
			task()
		}

		if closed && len(batch) == 0 {
			return
		}
		if len(batch) > 0 {
			continue
		}
		<-l.wake
	}
}
