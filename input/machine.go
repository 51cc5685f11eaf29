package input

import (
	"github.com/gdamore/tcell/v2"
)

// WheelStep is the number of rows one wheel notch scrolls
const WheelStep = 3

// Machine is the input state machine
// Parses tcell events into semantic Intents
type Machine struct {
	mode     InputMode
	pointer  PointerState
	keyTable *KeyTable
}

// NewMachine creates a new input machine
func NewMachine() *Machine {
	return &Machine{
		mode:     ModeLock,
		pointer:  PointerUp,
		keyTable: DefaultKeyTable(),
	}
}

// SetMode updates the parser's mode context
func (m *Machine) SetMode(mode InputMode) {
	m.mode = mode
}

// Mode returns the current parser mode
func (m *Machine) Mode() InputMode {
	return m.mode
}

// Pointer returns the tracked left button state
func (m *Machine) Pointer() PointerState {
	return m.pointer
}

// Reset clears pointer tracking
func (m *Machine) Reset() {
	m.pointer = PointerUp
}

// Process parses a terminal event and returns an Intent
// Returns nil for events with no meaning in the current mode
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return m.processKey(ev)
	case *tcell.EventMouse:
		return m.processMouse(ev)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	e, ok := m.keyTable.lookup(m.mode, ev)
	if !ok {
		return nil
	}
	return &Intent{Type: e.IntentType, Delta: e.Delta, Dir: e.Dir, Detail: e.Detail}
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		return &Intent{Type: IntentScroll, Delta: -WheelStep, X: x, Y: y}
	case buttons&tcell.WheelDown != 0:
		return &Intent{Type: IntentScroll, Delta: WheelStep, X: x, Y: y}
	}

	held := buttons&tcell.Button1 != 0
	prev := m.pointer
	if held {
		m.pointer = PointerHeld
	} else {
		m.pointer = PointerUp
	}

	switch {
	case held && prev == PointerUp:
		return &Intent{Type: IntentPointerDown, X: x, Y: y}
	case held:
		return &Intent{Type: IntentPointerDrag, X: x, Y: y}
	case prev == PointerHeld:
		return &Intent{Type: IntentPointerUp, X: x, Y: y}
	default:
		return &Intent{Type: IntentPointerMove, X: x, Y: y}
	}
}
