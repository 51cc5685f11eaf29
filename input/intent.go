// Package input turns terminal events into semantic intents for the current view
package input

import "github.com/lixenwraith/giftbox/reveal"

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit // q, Ctrl+C, Ctrl+Q
	IntentBack // ESC

	// Lock
	IntentDigitSelect // ←/→, Delta = -1/+1
	IntentDigitAdjust // ↑/↓, Dir = Up/Down

	// Prompt
	IntentAccept // y
	IntentDodge  // n

	// Hub
	IntentOpenDetail // 1, 2, 3
	IntentCloseGift  // p

	// Details
	IntentConfirm    // Enter/Space on songs
	IntentScroll     // ↑/↓, wheel; Delta in rows
	IntentScrollPage // PgUp/PgDn; Delta in pages
	IntentScrollEnd  // End
	IntentScrollTop  // Home

	// Pointer
	IntentPointerDown // Left button pressed at X, Y
	IntentPointerDrag // Motion with the left button held
	IntentPointerUp   // Left button released at X, Y
	IntentPointerMove // Motion with no button held
)

// Intent is a parsed user action
type Intent struct {
	Type   IntentType
	Delta  int
	Dir    reveal.Direction
	Detail reveal.Detail
	X, Y   int
}
