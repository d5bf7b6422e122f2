package logger

import (
	"bytes"
	"sync"
)

// Ring is an io.Writer keeping only the most recent complete lines.
// It backs the output panel of the main window.
type Ring struct {
	mu       sync.Mutex
	lines    []string
	capacity int
	partial  bytes.Buffer
	onChange func([]string)
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{
		lines:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// SetOnChange registers a callback receiving a copy of the retained lines
// after every write that completed at least one line.
func (r *Ring) SetOnChange(fn func([]string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

func (r *Ring) Write(p []byte) (int, error) {
	r.mu.Lock()

	r.partial.Write(p)
	changed := false
	for {
		data := r.partial.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(data[:idx], "\r"))
		r.partial.Next(idx + 1)

		r.lines = append(r.lines, line)
		if len(r.lines) > r.capacity {
			r.lines = r.lines[len(r.lines)-r.capacity:]
		}
		changed = true
	}

	var snapshot []string
	callback := r.onChange
	if changed && callback != nil {
		snapshot = r.snapshotLocked()
	}
	r.mu.Unlock()

	if snapshot != nil {
		callback(snapshot)
	}
	return len(p), nil
}

// Lines returns a copy of the retained lines, oldest first.
func (r *Ring) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Ring) snapshotLocked() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
