package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/giftbox/reveal"
)

func view(stage reveal.Stage, detail reveal.Detail) reveal.View {
	return reveal.View{Stage: stage, Detail: detail, DeclinePosition: reveal.CanonicalDeclinePosition}
}

func inside(outer, inner Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.X+inner.W <= outer.X+outer.W && inner.Y+inner.H <= outer.Y+outer.H
}

func TestLockLayout(t *testing.T) {
	l := ComputeLayout(100, 40, true, view(reveal.StageLocked, reveal.DetailNone))
	screen := Rect{W: 100, H: 40}

	assert.True(t, inside(screen, l.Panel))
	for i := 0; i < reveal.CodeLength; i++ {
		assert.True(t, inside(l.Panel, l.DigitUp[i]))
		assert.Equal(t, l.DigitUp[i].Y+1, l.DigitValue[i].Y)
		assert.Equal(t, l.DigitUp[i].Y+2, l.DigitDown[i].Y)
		if i > 0 {
			assert.Greater(t, l.DigitUp[i].X, l.DigitUp[i-1].X+l.DigitUp[i-1].W-1)
		}
	}
	assert.True(t, l.GoBack.Empty(), "no back control while locked")
}

func TestPromptLayoutCanonical(t *testing.T) {
	l := ComputeLayout(80, 30, false, view(reveal.StagePrompted, reveal.DetailNone))
	assert.Equal(t, l.Accept.Y, l.Decline.Y)
	assert.Less(t, l.Accept.X+l.Accept.W, l.Decline.X, "decline sits right of accept")
	assert.False(t, l.GoBack.Empty())
	assert.Greater(t, l.GoBack.Y, l.Accept.Y)
}

func TestPromptLayoutRelocated(t *testing.T) {
	v := view(reveal.StagePrompted, reveal.DetailNone)
	v.DeclinePosition = reveal.Position{Top: 50, Left: 50}
	l := ComputeLayout(100, 40, true, v)

	cx := l.Decline.X + l.Decline.W/2
	cy := l.Decline.Y + l.Decline.H/2
	assert.Equal(t, 50, cx)
	assert.Equal(t, 20, cy)

	v.DeclinePosition = reveal.Position{Top: 79.9, Left: 79.9}
	l = ComputeLayout(30, 10, false, v)
	assert.True(t, inside(Rect{W: 30, H: 10}, l.Decline), "clamped on screen")
}

func TestHubHotspotsDiffer(t *testing.T) {
	v := view(reveal.StagePresenting, reveal.DetailNone)
	d := ComputeLayout(200, 50, true, v)
	m := ComputeLayout(60, 50, false, v)

	assert.Equal(t, Rect{X: 28, Y: 16, W: 60, H: 9}, d.HotImages)
	assert.Equal(t, Rect{X: 112, Y: 16, W: 60, H: 9}, d.HotMessage)
	assert.Equal(t, Rect{X: 70, Y: 27, W: 60, H: 9}, d.HotSongs)

	assert.Equal(t, Rect{X: 4, Y: 26, W: 10, H: 14}, m.HotImages)
	assert.True(t, m.Scratch.Empty())
}

func TestSongsScratchBox(t *testing.T) {
	v := view(reveal.StagePresenting, reveal.DetailSongs)
	d := ComputeLayout(200, 50, true, v)
	assert.Equal(t, Rect{X: 59, Y: 13, W: 78, H: 25}, d.Scratch)

	m := ComputeLayout(60, 50, false, v)
	assert.Equal(t, Rect{X: 3, Y: 18, W: 54, H: 13}, m.Scratch)
	assert.True(t, m.HotSongs.Empty(), "hub hotspots hidden in details")
}

func TestImagesScrollButton(t *testing.T) {
	l := ComputeLayout(80, 30, false, view(reveal.StagePresenting, reveal.DetailImages))
	assert.Equal(t, 25, l.ScrollDown.Y)
	assert.Equal(t, 28, l.GoBack.Y)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 2}
	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 4))
	assert.False(t, r.Contains(6, 4))
	assert.False(t, r.Contains(2, 5))
}
