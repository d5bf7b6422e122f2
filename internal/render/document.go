package render

import "sync"

// Document is the set of visuals currently shown on a surface. Its methods
// are only ever called from the surface's own loop.
type Document interface {
	ModelByName(name string) (*Visual, bool)
	Remove(name string)
	Attach(name string, v *Visual)
}

// MemoryDocument is a Document that only records what is attached, for
// headless runs and tests.
type MemoryDocument struct {
	mu       sync.Mutex
	visuals  map[string]*Visual
	attaches int
	removes  int
}

func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{visuals: make(map[string]*Visual)}
}

func (d *MemoryDocument) ModelByName(name string) (*Visual, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.visuals[name]
	return v, ok
}

func (d *MemoryDocument) Remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.visuals[name]; ok {
		delete(d.visuals, name)
		d.removes++
	}
}

func (d *MemoryDocument) Attach(name string, v *Visual) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visuals[name] = v
	d.attaches++
}

// Count is the number of visuals currently attached.
func (d *MemoryDocument) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.visuals)
}

// Counters reports how many attaches and removals have happened.
func (d *MemoryDocument) Counters() (attaches, removes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attaches, d.removes
}
