package engine

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// FrameInterval is the redraw period of the main loop
const FrameInterval = 33 * time.Millisecond

// InputHandler consumes terminal events; returning false ends the loop
type InputHandler interface {
	HandleEvent(ev tcell.Event) bool
}

// Renderer draws one frame from the context
type Renderer interface {
	Render(c *Context)
}

// Run polls events and redraws until quit, screen closure or ctx cancellation
// All state mutation happens on the calling goroutine
func (c *Context) Run(ctx context.Context, input InputHandler, renderer Renderer) error {
	frameTicker := time.NewTicker(FrameInterval)
	defer frameTicker.Stop()

	eventChan := make(chan tcell.Event, 256)
	// Input polling uses raw goroutine as it interacts directly with the screen
	c.goSafe(func() {
		for {
			ev := c.Screen.PollEvent()
			// Screen finalized
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	})

	renderer.Render(c)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			if !c.dispatch(ev, input) {
				return nil
			}
			// Redraw immediately so input feedback does not wait for the tick
			renderer.Render(c)

		case <-frameTicker.C:
			renderer.Render(c)
		}
	}
}

// dispatch routes one event; returns false when the loop should stop
func (c *Context) dispatch(ev tcell.Event, input InputHandler) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if c.HandleInterrupt(ev) {
			return !c.quit
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		c.Resize(w, h)
		c.Screen.Sync()
	}
	if !input.HandleEvent(ev) {
		return false
	}
	return !c.quit
}
