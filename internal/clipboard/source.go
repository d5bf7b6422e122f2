package clipboard

import (
	"sync"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

// ErrNotText means the clipboard currently holds no text. Samplers treat it
// as "no data this cycle".
var ErrNotText = errors.New("clipboard content is not text")

// Source reads the current clipboard text.
type Source interface {
	ReadText() (string, error)
}

// FyneSource reads the system clipboard through Fyne. Reads are marshalled
// onto the Fyne main thread, so it must never be polled from that thread.
type FyneSource struct {
	clipboard fyne.Clipboard
}

func NewFyneSource(cb fyne.Clipboard) *FyneSource {
	return &FyneSource{clipboard: cb}
}

func (f *FyneSource) ReadText() (string, error) {
	var text string
	fyne.DoAndWait(func() {
		text = f.clipboard.Content()
	})
	if text == "" {
		return "", ErrNotText
	}
	return text, nil
}

// WriteText replaces the clipboard content.
func (f *FyneSource) WriteText(text string) {
	fyne.Do(func() {
		f.clipboard.SetContent(text)
	})
}

// StaticSource serves scripted clipboard content; used headless and in tests.
type StaticSource struct {
	mu    sync.Mutex
	text  string
	err   error
	reads int
}

func NewStaticSource(text string) *StaticSource {
	return &StaticSource{text: text}
}

// Set replaces the content and clears any pending error.
func (s *StaticSource) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.err = nil
}

// SetError makes subsequent reads fail with err.
func (s *StaticSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *StaticSource) ReadText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *StaticSource) WriteText(text string) {
	s.Set(text)
}

// Reads returns how many times the source has been sampled.
func (s *StaticSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
