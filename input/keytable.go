package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/giftbox/reveal"
)

// KeyEntry describes what a key produces
type KeyEntry struct {
	IntentType IntentType
	Delta      int
	Dir        reveal.Direction
	Detail     reveal.Detail
}

// KeyBindings holds the bindings of one mode
type KeyBindings struct {
	Keys  map[tcell.Key]KeyEntry
	Runes map[rune]KeyEntry
}

// KeyTable maps keys to intents for all modes
type KeyTable struct {
	// Checked first in every mode
	Global KeyBindings

	Modes map[InputMode]KeyBindings
}

var back = KeyEntry{IntentType: IntentBack}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Global: KeyBindings{
			Keys: map[tcell.Key]KeyEntry{
				tcell.KeyCtrlC: {IntentType: IntentQuit},
				tcell.KeyCtrlQ: {IntentType: IntentQuit},
			},
			Runes: map[rune]KeyEntry{
				'q': {IntentType: IntentQuit},
			},
		},
		Modes: map[InputMode]KeyBindings{
			ModeLock: {
				Keys: map[tcell.Key]KeyEntry{
					tcell.KeyLeft:  {IntentType: IntentDigitSelect, Delta: -1},
					tcell.KeyRight: {IntentType: IntentDigitSelect, Delta: 1},
					tcell.KeyUp:    {IntentType: IntentDigitAdjust, Dir: reveal.Up},
					tcell.KeyDown:  {IntentType: IntentDigitAdjust, Dir: reveal.Down},
				},
				Runes: map[rune]KeyEntry{
					'h': {IntentType: IntentDigitSelect, Delta: -1},
					'l': {IntentType: IntentDigitSelect, Delta: 1},
					'k': {IntentType: IntentDigitAdjust, Dir: reveal.Up},
					'j': {IntentType: IntentDigitAdjust, Dir: reveal.Down},
				},
			},
			ModePrompt: {
				Keys: map[tcell.Key]KeyEntry{
					tcell.KeyEscape: back,
				},
				Runes: map[rune]KeyEntry{
					'y': {IntentType: IntentAccept},
					'n': {IntentType: IntentDodge},
				},
			},
			ModeHub: {
				Keys: map[tcell.Key]KeyEntry{
					tcell.KeyEscape: back,
				},
				Runes: map[rune]KeyEntry{
					'1': {IntentType: IntentOpenDetail, Detail: reveal.DetailImages},
					'2': {IntentType: IntentOpenDetail, Detail: reveal.DetailMessage},
					'3': {IntentType: IntentOpenDetail, Detail: reveal.DetailSongs},
					'p': {IntentType: IntentCloseGift},
				},
			},
			ModeImages: {
				Keys: map[tcell.Key]KeyEntry{
					tcell.KeyEscape: back,
					tcell.KeyUp:     {IntentType: IntentScroll, Delta: -1},
					tcell.KeyDown:   {IntentType: IntentScroll, Delta: 1},
					tcell.KeyPgUp:   {IntentType: IntentScrollPage, Delta: -1},
					tcell.KeyPgDn:   {IntentType: IntentScrollPage, Delta: 1},
					tcell.KeyHome:   {IntentType: IntentScrollTop},
					tcell.KeyEnd:    {IntentType: IntentScrollEnd},
				},
				Runes: map[rune]KeyEntry{
					'k': {IntentType: IntentScroll, Delta: -1},
					'j': {IntentType: IntentScroll, Delta: 1},
					'g': {IntentType: IntentScrollTop},
					'G': {IntentType: IntentScrollEnd},
				},
			},
			ModeMessage: {
				Keys: map[tcell.Key]KeyEntry{
					tcell.KeyEscape: back,
				},
			},
			ModeSongs: {
				Keys: map[tcell.Key]KeyEntry{
					tcell.KeyEscape: back,
					tcell.KeyEnter:  {IntentType: IntentConfirm},
				},
				Runes: map[rune]KeyEntry{
					' ': {IntentType: IntentConfirm},
				},
			},
		},
	}
}

// lookup resolves a key event against the global then the mode bindings
func (t *KeyTable) lookup(mode InputMode, ev *tcell.EventKey) (KeyEntry, bool) {
	for _, b := range []KeyBindings{t.Global, t.Modes[mode]} {
		if ev.Key() == tcell.KeyRune {
			if e, ok := b.Runes[ev.Rune()]; ok {
				return e, true
			}
			continue
		}
		if e, ok := b.Keys[ev.Key()]; ok {
			return e, true
		}
	}
	return KeyEntry{}, false
}
