package render

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/giftbox/asset"
	"github.com/lixenwraith/giftbox/engine"
)

func fillRect(scr tcell.Screen, r engine.Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			scr.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawText writes text from (x, y) clipped to maxX; returns the next column
func drawText(scr tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= maxX {
			break
		}
		scr.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func centredText(scr tcell.Screen, r engine.Rect, text string, style tcell.Style) {
	n := len([]rune(text))
	x := r.X + (r.W-n)/2
	if x < r.X {
		x = r.X
	}
	drawText(scr, x, r.Y+r.H/2, r.X+r.W, text, style)
}

func drawButton(scr tcell.Screen, r engine.Rect, label string, fg, bg tcell.Color) {
	if r.Empty() {
		return
	}
	style := tcell.StyleDefault.Foreground(fg).Background(bg).Bold(true)
	fillRect(scr, r, style)
	centredText(scr, r, label, style)
}

// drawArt blits art into r; art row srcY maps to r.Y
func drawArt(scr tcell.Screen, art *asset.Art, r engine.Rect, srcY int) {
	for y := 0; y < r.H; y++ {
		ay := srcY + y
		if ay < 0 || ay >= art.Height {
			continue
		}
		for x := 0; x < r.W && x < art.Width; x++ {
			c := art.At(x, ay)
			scr.SetContent(r.X+x, r.Y+y, c.Rune, nil, tcell.StyleDefault.Foreground(c.Fg).Background(c.Bg))
		}
	}
}

// drawAsset renders key into r, or a labelled placeholder when the asset is unavailable
func drawAsset(f *Frame, key asset.Key, r engine.Rect) {
	if r.Empty() {
		return
	}
	c := f.Ctx
	if c.Assets != nil {
		art, err := c.Assets.Art(c.Resolve(key), asset.FitCover, r.W, r.H)
		if err == nil {
			drawArt(f.Screen, art, r, 0)
			return
		}
		if errors.Is(err, asset.ErrUnsupported) {
			placeholder(f.Screen, r, string(key)+" (video)")
			return
		}
	}
	placeholder(f.Screen, r, string(key))
}

func placeholder(scr tcell.Screen, r engine.Rect, label string) {
	fillRect(scr, r, tcell.StyleDefault.Background(RgbBackground))
	centredText(scr, r, "["+label+"]", tcell.StyleDefault.Foreground(RgbPlaceholder).Background(RgbBackground))
}

func screenRect(f *Frame) engine.Rect {
	return engine.Rect{W: f.Layout.Width, H: f.Layout.Height}
}
