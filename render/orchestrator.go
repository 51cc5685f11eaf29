// Package render draws the giftbox stages onto a tcell screen
package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/giftbox/engine"
	"github.com/lixenwraith/giftbox/reveal"
)

type layerEntry struct {
	layer    Layer
	priority RenderPriority
	index    int // registration order for stable sort
}

// Frame is the per-frame render input shared by all layers
type Frame struct {
	Ctx    *engine.Context
	Screen tcell.Screen
	Layout engine.Layout
	View   reveal.View
}

// Orchestrator coordinates the render pipeline
type Orchestrator struct {
	layers   []layerEntry
	regCount int
}

// NewOrchestrator creates an orchestrator with no layers
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{layers: make([]layerEntry, 0, 8)}
}

// NewDefault creates an orchestrator with every giftbox layer registered
func NewDefault() *Orchestrator {
	o := NewOrchestrator()
	o.Register(&BackgroundLayer{}, PriorityBackground)
	o.Register(&LockLayer{}, PriorityWidgets)
	o.Register(&PromptLayer{}, PriorityWidgets)
	o.Register(&HubLayer{}, PriorityWidgets)
	o.Register(&ImagesLayer{}, PriorityWidgets)
	o.Register(&ScratchLayer{}, PriorityScratch)
	o.Register(&ButtonLayer{}, PriorityUI)
	o.Register(&StatusLayer{}, PriorityDebug)
	return o
}

// Register adds a layer at the specified priority. Maintains sorted order via insertion sort
func (o *Orchestrator) Register(l Layer, priority RenderPriority) {
	entry := layerEntry{layer: l, priority: priority, index: o.regCount}
	o.regCount++

	pos := len(o.layers)
	for i, e := range o.layers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.layers = append(o.layers, layerEntry{})
	copy(o.layers[pos+1:], o.layers[pos:])
	o.layers[pos] = entry
}

// Render implements engine.Renderer: clear, draw all layers, show
func (o *Orchestrator) Render(c *engine.Context) {
	scr := c.Screen
	if scr == nil {
		return
	}
	f := &Frame{Ctx: c, Screen: scr, Layout: c.Layout(), View: c.View()}

	scr.SetStyle(tcell.StyleDefault.Background(RgbBackground))
	scr.Clear()
	for _, entry := range o.layers {
		if vt, ok := entry.layer.(VisibilityToggle); ok && !vt.IsVisible(c) {
			continue
		}
		entry.layer.Render(f)
	}
	scr.Show()
}
