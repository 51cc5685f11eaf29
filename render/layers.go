package render

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/giftbox/asset"
	"github.com/lixenwraith/giftbox/engine"
	"github.com/lixenwraith/giftbox/reveal"
	"github.com/lixenwraith/giftbox/scratch"
)

// BackgroundLayer draws the full-screen artwork of the current stage or detail
type BackgroundLayer struct{}

func (BackgroundLayer) Render(f *Frame) {
	full := screenRect(f)
	switch f.View.Stage {
	case reveal.StageLocked:
		drawAsset(f, asset.KeyLock, full)
	case reveal.StagePrompted:
		drawAsset(f, asset.KeyQuestion, full)
	case reveal.StagePresenting:
		switch f.View.Detail {
		case reveal.DetailNone:
			drawAsset(f, asset.KeyGift, full)
		case reveal.DetailMessage:
			drawAsset(f, asset.KeyMessage, full)
		case reveal.DetailSongs:
			drawAsset(f, f.Ctx.SongArt(), full)
		case reveal.DetailImages:
			fillRect(f.Screen, full, tcell.StyleDefault.Background(RgbDim))
		}
	}
}

// LockLayer draws the seven-digit code wheel
type LockLayer struct{}

func (LockLayer) IsVisible(c *engine.Context) bool {
	return c.View().Stage == reveal.StageLocked
}

func (LockLayer) Render(f *Frame) {
	l := f.Layout
	panel := tcell.StyleDefault.Background(RgbPanel)
	fillRect(f.Screen, l.Panel, panel)

	arrow := panel.Foreground(RgbArrow)
	for i := 0; i < reveal.CodeLength; i++ {
		value := panel.Foreground(RgbPanelText).Bold(true)
		if i == f.Ctx.SelectedDigit {
			value = value.Reverse(true)
		}
		centredText(f.Screen, l.DigitUp[i], "▲", arrow)
		centredText(f.Screen, l.DigitValue[i], " "+strconv.Itoa(f.View.Digits[i])+" ", value)
		centredText(f.Screen, l.DigitDown[i], "▼", arrow)
	}
}

// PromptLayer draws the accept and decline controls
type PromptLayer struct{}

func (PromptLayer) IsVisible(c *engine.Context) bool {
	return c.View().Stage == reveal.StagePrompted
}

func (PromptLayer) Render(f *Frame) {
	drawButton(f.Screen, f.Layout.Accept, "Yes", RgbPanel, RgbAccent)
	drawButton(f.Screen, f.Layout.Decline, "No", RgbPanelText, RgbDecline)
}

// HubLayer marks the hub hotspots with their shortcut keys
type HubLayer struct{}

func (HubLayer) IsVisible(c *engine.Context) bool {
	v := c.View()
	return v.Stage == reveal.StagePresenting && v.Detail == reveal.DetailNone
}

func (HubLayer) Render(f *Frame) {
	style := tcell.StyleDefault.Foreground(RgbPanel).Background(RgbAccent).Bold(true)
	for i, r := range []engine.Rect{f.Layout.HotImages, f.Layout.HotMessage, f.Layout.HotSongs} {
		if r.Empty() {
			continue
		}
		drawText(f.Screen, r.X, r.Y+r.H-1, r.X+r.W, " "+strconv.Itoa(i+1)+" ", style)
	}
}

// ImagesLayer draws the vertical images scroller
type ImagesLayer struct{}

func (ImagesLayer) IsVisible(c *engine.Context) bool {
	return c.View().Detail == reveal.DetailImages
}

func (ImagesLayer) Render(f *Frame) {
	c := f.Ctx
	w, h := f.Layout.Width, f.Layout.Height
	top := -c.ImagesScroll

	for _, key := range []asset.Key{asset.KeyImages1, asset.KeyImages2} {
		var art *asset.Art
		if c.Assets != nil {
			art, _ = c.Assets.Art(c.Resolve(key), asset.FitWidth, w, h)
		}
		if art == nil || art.Height == 0 {
			r := clipRows(engine.Rect{X: 0, Y: top, W: w, H: h}, h)
			if !r.Empty() {
				placeholder(f.Screen, r, string(key))
			}
			top += h
			continue
		}
		if top < h && top+art.Height > 0 {
			r := clipRows(engine.Rect{X: 0, Y: top, W: w, H: art.Height}, h)
			drawArt(f.Screen, art, r, r.Y-top)
		}
		top += art.Height
	}

	drawButton(f.Screen, f.Layout.ScrollDown, "SCROLL DOWN ↓", RgbAccent, RgbPanel)
}

// clipRows trims r to the visible rows [0, height)
func clipRows(r engine.Rect, height int) engine.Rect {
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.Y+r.H > height {
		r.H = height - r.Y
	}
	return r
}

// ScratchLayer draws the remaining scratch coating at quadrant resolution
type ScratchLayer struct{}

func (ScratchLayer) IsVisible(c *engine.Context) bool {
	s := c.Surface()
	return s != nil && s.Mounted()
}

// Quadrant sample offsets within a cell, as fractions: UL, UR, LL, LR
var quadrantOffsets = [4][2]float64{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.75}, {0.75, 0.75}}

func (ScratchLayer) Render(f *Frame) {
	s := f.Ctx.Surface()
	r := f.Layout.Scratch
	cw := float64(f.Ctx.Settings.Viewport.CellWidth)
	ch := float64(f.Ctx.Settings.Viewport.CellHeight)

	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			pattern := 0
			for i, off := range quadrantOffsets {
				p := scratch.Point{X: (float64(x) + off[0]) * cw, Y: (float64(y) + off[1]) * ch}
				if s.Opacity(p) >= 0.5 {
					pattern |= 1 << i
				}
			}
			switch pattern {
			case 0:
				continue
			case 15:
				f.Screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(RgbScratch))
			default:
				_, _, under, _ := f.Screen.GetContent(x, y)
				_, bg, _ := under.Decompose()
				if bg == tcell.ColorDefault {
					bg = RgbBackground
				}
				f.Screen.SetContent(x, y, asset.QuadrantRune(pattern), nil,
					tcell.StyleDefault.Foreground(RgbScratch).Background(bg))
			}
		}
	}
}

// ButtonLayer draws the back control
type ButtonLayer struct{}

func (ButtonLayer) Render(f *Frame) {
	drawButton(f.Screen, f.Layout.GoBack, "↩ GO BACK", RgbAccent, RgbPanel)
}

// StatusLayer draws the debug status line
type StatusLayer struct{}

func (StatusLayer) IsVisible(c *engine.Context) bool {
	return c.Settings.Debug
}

func (StatusLayer) Render(f *Frame) {
	c := f.Ctx
	y := f.Layout.Height - 1
	if y < 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(RgbStatusText).Background(RgbStatusBar)
	fillRect(f.Screen, engine.Rect{Y: y, W: f.Layout.Width, H: 1}, style)

	line := fmt.Sprintf(" %s %s %dx%d", f.View.Stage, c.Settings.Viewport.Classify(c.Width), c.Width, c.Height)
	if s := c.Surface(); s != nil {
		line += fmt.Sprintf(" cov=%.2f epoch=%d", s.Coverage(), s.Epoch())
	}
	if sum := c.Metrics.Summary(); sum != "" {
		line += " | " + sum
	}
	drawText(f.Screen, 0, y, f.Layout.Width, line, style)
}
