package render

import "github.com/lixenwraith/giftbox/engine"

// Layer draws one concern of a frame
type Layer interface {
	Render(f *Frame)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible(c *engine.Context) bool
}
