// Package modes routes parsed input intents to engine actions for the visible view
package modes

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/giftbox/engine"
	"github.com/lixenwraith/giftbox/input"
	"github.com/lixenwraith/giftbox/reveal"
)

// InputHandler processes user input events
type InputHandler struct {
	ctx     *engine.Context
	machine *input.Machine

	// Target under the last pointer press; clicks fire on release over the same target
	pressed target
	// A scratch stroke started inside the box and has not left it
	stroking bool
	// The press that began the current gesture landed on the scratch box
	scratchPress bool
}

// NewInputHandler creates a new input handler
func NewInputHandler(ctx *engine.Context) *InputHandler {
	return &InputHandler{
		ctx:     ctx,
		machine: input.NewMachine(),
	}
}

// HandleEvent processes a tcell event and returns false if the app should exit
func (h *InputHandler) HandleEvent(ev tcell.Event) bool {
	switch ev.(type) {
	case *tcell.EventKey, *tcell.EventMouse:
	default:
		return true
	}

	h.machine.SetMode(input.ModeFor(h.ctx.View()))
	intent := h.machine.Process(ev)
	if intent == nil {
		return true
	}
	return h.handle(intent)
}

func (h *InputHandler) handle(in *input.Intent) bool {
	c := h.ctx
	switch in.Type {
	case input.IntentQuit:
		c.Log.Debug().Msg("quit requested")
		c.Quit()
		return false
	case input.IntentBack:
		h.cancelGesture()
		c.GoBack()

	case input.IntentDigitSelect:
		c.MoveDigitCursor(in.Delta)
	case input.IntentDigitAdjust:
		c.AdjustSelectedDigit(in.Dir)

	case input.IntentAccept:
		c.Accept()
	case input.IntentDodge:
		c.Dodge()

	case input.IntentOpenDetail:
		c.OpenDetail(in.Detail)
	case input.IntentCloseGift:
		c.CloseGift()

	case input.IntentConfirm:
		c.ConfirmScratch()
	case input.IntentScroll:
		if c.View().Detail == reveal.DetailImages {
			c.ScrollImages(in.Delta)
		}
	case input.IntentScrollPage:
		page := c.Height - 1
		if page < 1 {
			page = 1
		}
		c.ScrollImages(in.Delta * page)
	case input.IntentScrollTop:
		c.ScrollImages(-c.ImagesScroll)
	case input.IntentScrollEnd:
		c.ScrollImagesToEnd()

	case input.IntentPointerDown:
		h.pointerDown(in.X, in.Y)
	case input.IntentPointerDrag:
		h.pointerDrag(in.X, in.Y)
	case input.IntentPointerUp:
		h.pointerUp(in.X, in.Y)
	case input.IntentPointerMove:
		h.pointerMove(in.X, in.Y)
	}
	return true
}
