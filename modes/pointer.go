package modes

import (
	"github.com/lixenwraith/giftbox/engine"
	"github.com/lixenwraith/giftbox/reveal"
)

type targetKind uint8

const (
	targetNone targetKind = iota
	targetDigitUp
	targetDigitValue
	targetDigitDown
	targetAccept
	targetDecline
	targetImages
	targetMessage
	targetSongs
	targetScratch
	targetScrollDown
	targetGoBack
)

// target is a hit-tested control; index is the digit for digit targets
type target struct {
	kind  targetKind
	index int
}

// hitTest finds the control under cell (x, y); later entries sit on top
func hitTest(l engine.Layout, x, y int) target {
	switch {
	case l.GoBack.Contains(x, y):
		return target{kind: targetGoBack}
	case l.ScrollDown.Contains(x, y):
		return target{kind: targetScrollDown}
	case l.Decline.Contains(x, y):
		return target{kind: targetDecline}
	case l.Accept.Contains(x, y):
		return target{kind: targetAccept}
	case l.Scratch.Contains(x, y):
		return target{kind: targetScratch}
	case l.HotImages.Contains(x, y):
		return target{kind: targetImages}
	case l.HotMessage.Contains(x, y):
		return target{kind: targetMessage}
	case l.HotSongs.Contains(x, y):
		return target{kind: targetSongs}
	}
	for i := 0; i < reveal.CodeLength; i++ {
		switch {
		case l.DigitUp[i].Contains(x, y):
			return target{kind: targetDigitUp, index: i}
		case l.DigitValue[i].Contains(x, y):
			return target{kind: targetDigitValue, index: i}
		case l.DigitDown[i].Contains(x, y):
			return target{kind: targetDigitDown, index: i}
		}
	}
	return target{}
}

func (h *InputHandler) pointerDown(x, y int) {
	c := h.ctx
	t := hitTest(c.Layout(), x, y)
	h.pressed = t
	h.scratchPress = false

	switch t.kind {
	case targetDecline:
		c.Dodge()
	case targetScratch:
		if s := c.Surface(); s != nil {
			s.BeginStroke(c.CellToPoint(x, y))
			h.stroking = true
			h.scratchPress = true
		}
	}
}

func (h *InputHandler) pointerDrag(x, y int) {
	c := h.ctx
	l := c.Layout()

	if h.stroking {
		s := c.Surface()
		switch {
		case s == nil:
			h.stroking = false
		case l.Scratch.Contains(x, y):
			s.ContinueStroke(c.CellToPoint(x, y))
		default:
			// Leaving the box ends the stroke
			s.EndStroke()
			h.stroking = false
		}
		return
	}

	if hitTest(l, x, y).kind == targetDecline {
		c.Dodge()
	}
}

func (h *InputHandler) pointerUp(x, y int) {
	c := h.ctx
	pressed := h.pressed
	scratchPress := h.scratchPress
	h.pressed = target{}
	h.scratchPress = false

	if h.stroking {
		if s := c.Surface(); s != nil {
			s.EndStroke()
		}
		h.stroking = false
	}

	t := hitTest(c.Layout(), x, y)
	if t.kind == targetScratch {
		if scratchPress {
			c.ConfirmScratch()
		}
		return
	}
	if t == pressed {
		h.activate(t)
	}
}

func (h *InputHandler) pointerMove(x, y int) {
	if hitTest(h.ctx.Layout(), x, y).kind == targetDecline {
		h.ctx.Dodge()
	}
}

// activate runs the click action of a control
func (h *InputHandler) activate(t target) {
	c := h.ctx
	switch t.kind {
	case targetDigitUp:
		c.SelectedDigit = t.index
		c.AdjustDigit(t.index, reveal.Up)
	case targetDigitDown:
		c.SelectedDigit = t.index
		c.AdjustDigit(t.index, reveal.Down)
	case targetDigitValue:
		c.SelectedDigit = t.index
	case targetAccept:
		c.Accept()
	case targetImages:
		c.OpenDetail(reveal.DetailImages)
	case targetMessage:
		c.OpenDetail(reveal.DetailMessage)
	case targetSongs:
		c.OpenDetail(reveal.DetailSongs)
	case targetScrollDown:
		c.ScrollImagesToEnd()
	case targetGoBack:
		h.cancelGesture()
		c.GoBack()
	}
}

// cancelGesture drops any in-flight press before the view changes
func (h *InputHandler) cancelGesture() {
	if h.stroking {
		if s := h.ctx.Surface(); s != nil {
			s.EndStroke()
		}
	}
	h.stroking = false
	h.scratchPress = false
	h.pressed = target{}
	h.machine.Reset()
}
