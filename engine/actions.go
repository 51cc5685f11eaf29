package engine

import (
	"github.com/lixenwraith/giftbox/asset"
	"github.com/lixenwraith/giftbox/reveal"
)

// MoveDigitCursor moves the keyboard digit selection by delta, wrapping
func (c *Context) MoveDigitCursor(delta int) {
	n := reveal.CodeLength
	c.SelectedDigit = ((c.SelectedDigit+delta)%n + n) % n
}

// AdjustDigit changes one digit of the lock code
func (c *Context) AdjustDigit(index int, dir reveal.Direction) {
	c.Machine.AdjustDigit(index, dir)
	c.refresh()
}

// AdjustSelectedDigit changes the keyboard-selected digit
func (c *Context) AdjustSelectedDigit(dir reveal.Direction) {
	c.AdjustDigit(c.SelectedDigit, dir)
}

// Accept opens the gift from the prompt
func (c *Context) Accept() {
	c.Machine.OpenGift()
	c.refresh()
}

// Dodge moves the decline control away
func (c *Context) Dodge() {
	c.Machine.RelocateDeclineControl()
}

// OpenDetail selects a hub item; opening songs starts from idle artwork
func (c *Context) OpenDetail(d reveal.Detail) {
	if c.View().Stage != reveal.StagePresenting || c.View().Detail != reveal.DetailNone {
		return
	}
	if d == reveal.DetailSongs {
		c.resetSong()
	}
	c.ImagesScroll = 0
	c.Machine.SelectDetail(d)
	c.refresh()
}

// GoBack performs the stage-aware back action, stopping playback first
func (c *Context) GoBack() {
	if c.View().Detail == reveal.DetailSongs {
		c.stopSong()
	}
	c.Machine.GoBack()
	c.refresh()
}

// CloseGift returns from the hub to the prompt
func (c *Context) CloseGift() {
	if c.View().Detail == reveal.DetailSongs {
		c.stopSong()
	}
	c.Machine.CloseGift()
	c.refresh()
}

// ResetFlow returns to the lock screen and clears persisted state
func (c *Context) ResetFlow() {
	c.stopSong()
	c.Machine.Reset()
	c.SelectedDigit = 0
	c.refresh()
}

// ConfirmScratch is a confirming tap on the scratch surface
func (c *Context) ConfirmScratch() bool {
	if c.surface == nil {
		return false
	}
	return c.surface.ConfirmReveal()
}

// ImagesContentHeight returns the stacked height of the images scroller in rows
func (c *Context) ImagesContentHeight() int {
	total := 0
	for _, key := range []asset.Key{asset.KeyImages1, asset.KeyImages2} {
		total += c.imageRows(key)
	}
	return total
}

// imageRows is the height of one scroller image; unavailable images take a screen
func (c *Context) imageRows(key asset.Key) int {
	if c.Assets == nil || c.Width <= 0 {
		return c.Height
	}
	art, err := c.Assets.Art(c.Resolve(key), asset.FitWidth, c.Width, c.Height)
	if err != nil || art.Height == 0 {
		return c.Height
	}
	return art.Height
}

// ScrollImages moves the images scroller by delta rows
func (c *Context) ScrollImages(delta int) {
	c.ImagesScroll += delta
	c.clampScroll()
}

// ScrollImagesToEnd jumps the images scroller to the bottom
func (c *Context) ScrollImagesToEnd() {
	c.ImagesScroll = c.maxScroll()
}

func (c *Context) maxScroll() int {
	if m := c.ImagesContentHeight() - c.Height; m > 0 {
		return m
	}
	return 0
}

func (c *Context) clampScroll() {
	if c.View().Detail != reveal.DetailImages {
		c.ImagesScroll = 0
		return
	}
	if c.ImagesScroll < 0 {
		c.ImagesScroll = 0
	}
	if m := c.maxScroll(); c.ImagesScroll > m {
		c.ImagesScroll = m
	}
}
