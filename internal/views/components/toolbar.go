package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	PollingOn  = "On"
	PollingOff = "Off"
)

// Toolbar holds the file, clipboard and redraw actions.
type Toolbar struct {
	container       *fyne.Container
	openButton      *widget.Button
	fileLabel       *widget.Label
	clipboardToggle *widget.RadioGroup
	updateButton    *widget.Button
	autoscaleButton *widget.Button
	copyButton      *widget.Button

	openHandler      func()
	clipboardHandler func(bool)
	updateHandler    func()
	autoscaleHandler func()
	copyHandler      func()

	// set while the toggle is moved programmatically
	silent bool
}

func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.createComponents()
	t.buildLayout()
	t.setupEventHandlers()
	return t
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButton("Open image", nil)
	t.openButton.Importance = widget.HighImportance

	t.fileLabel = widget.NewLabel("No image loaded")

	t.clipboardToggle = widget.NewRadioGroup([]string{PollingOn, PollingOff}, nil)
	t.clipboardToggle.Horizontal = true
	t.clipboardToggle.Required = true
	t.clipboardToggle.SetSelected(PollingOff)

	t.updateButton = widget.NewButton("Update", nil)
	t.autoscaleButton = widget.NewButton("Autoscale", nil)
	t.copyButton = widget.NewButton("Copy positions", nil)
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.openButton,
		t.fileLabel,
		widget.NewSeparator(),
		widget.NewLabel("Clipboard polling:"),
		t.clipboardToggle,
		widget.NewSeparator(),
		t.updateButton,
		t.autoscaleButton,
		t.copyButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.openButton.OnTapped = func() {
		if t.openHandler != nil {
			t.openHandler()
		}
	}
	t.clipboardToggle.OnChanged = func(value string) {
		if t.silent || t.clipboardHandler == nil {
			return
		}
		t.clipboardHandler(value == PollingOn)
	}
	t.updateButton.OnTapped = func() {
		if t.updateHandler != nil {
			t.updateHandler()
		}
	}
	t.autoscaleButton.OnTapped = func() {
		if t.autoscaleHandler != nil {
			t.autoscaleHandler()
		}
	}
	t.copyButton.OnTapped = func() {
		if t.copyHandler != nil {
			t.copyHandler()
		}
	}
}

func (t *Toolbar) SetOpenHandler(handler func()) { t.openHandler = handler }
func (t *Toolbar) SetClipboardHandler(handler func(bool)) { t.clipboardHandler = handler }
func (t *Toolbar) SetUpdateHandler(handler func()) { t.updateHandler = handler }
func (t *Toolbar) SetAutoscaleHandler(handler func()) { t.autoscaleHandler = handler }
func (t *Toolbar) SetCopyHandler(handler func()) { t.copyHandler = handler }

// SetFileName shows the loaded file. Must run on the UI goroutine.
func (t *Toolbar) SetFileName(name string) {
	t.fileLabel.SetText(name)
}

// SetClipboardActive moves the toggle without notifying the handler.
func (t *Toolbar) SetClipboardActive(on bool) {
	t.silent = true
	if on {
		t.clipboardToggle.SetSelected(PollingOn)
	} else {
		t.clipboardToggle.SetSelected(PollingOff)
	}
	t.silent = false
}

// EnableGraphActions toggles the buttons that need a loaded image.
func (t *Toolbar) EnableGraphActions(enabled bool) {
	for _, b := range []*widget.Button{t.updateButton, t.autoscaleButton} {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
