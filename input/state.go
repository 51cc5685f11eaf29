package input

import "github.com/lixenwraith/giftbox/reveal"

// InputMode mirrors the visible view for parser context
// Kept in sync by modes.InputHandler via SetMode()
type InputMode uint8

const (
	ModeLock InputMode = iota
	ModePrompt
	ModeHub
	ModeImages
	ModeMessage
	ModeSongs
)

// ModeFor derives the parser mode from a machine view
func ModeFor(v reveal.View) InputMode {
	switch v.Stage {
	case reveal.StageLocked:
		return ModeLock
	case reveal.StagePrompted:
		return ModePrompt
	}
	switch v.Detail {
	case reveal.DetailImages:
		return ModeImages
	case reveal.DetailMessage:
		return ModeMessage
	case reveal.DetailSongs:
		return ModeSongs
	default:
		return ModeHub
	}
}

// PointerState tracks the left button across mouse events
// tcell reports button masks, not transitions
type PointerState uint8

const (
	PointerUp PointerState = iota
	PointerHeld
)
