package modes

import (
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/giftbox/engine"
	"github.com/lixenwraith/giftbox/reveal"
	"github.com/lixenwraith/giftbox/session"
	"github.com/lixenwraith/giftbox/status"
)

type fakePlayer struct {
	mu    sync.Mutex
	plays int
}

func (p *fakePlayer) Play(func()) <-chan error {
	p.mu.Lock()
	p.plays++
	p.mu.Unlock()
	ch := make(chan error, 1)
	close(ch)
	return ch
}

func (p *fakePlayer) Stop() {}

func (p *fakePlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func newHandler(t *testing.T, w, h int) (*InputHandler, *fakePlayer) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)

	player := &fakePlayer{}
	reg := status.NewRegistry()
	machine := reveal.New(
		reveal.WithStorage(session.NewMemoryStore()),
		reveal.WithRand(fixedRand(0.25)),
		reveal.WithMetrics(reg),
	)
	ctx := engine.NewContext(engine.Dependencies{
		Screen:  screen,
		Machine: machine,
		Player:  player,
		Metrics: reg,
		Log:     zerolog.Nop(),
	}, engine.DefaultSettings())
	return NewInputHandler(ctx), player
}

func press(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func mouseAt(x, y int, b tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, b, tcell.ModNone)
}

func (h *InputHandler) click(x, y int) {
	h.HandleEvent(mouseAt(x, y, tcell.Button1))
	h.HandleEvent(mouseAt(x, y, tcell.ButtonNone))
}

func centre(r engine.Rect) (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (h *InputHandler) unlockWithKeys() {
	for _, d := range reveal.DefaultSecret {
		for n := 0; n < d; n++ {
			h.HandleEvent(press(tcell.KeyUp))
		}
		h.HandleEvent(press(tcell.KeyRight))
	}
}

func (h *InputHandler) openSongs(t *testing.T) {
	t.Helper()
	h.unlockWithKeys()
	h.HandleEvent(typeRune('y'))
	h.HandleEvent(typeRune('3'))
	require.Equal(t, reveal.DetailSongs, h.ctx.View().Detail)
}

func TestKeyboardUnlock(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	h.unlockWithKeys()
	assert.Equal(t, reveal.StagePrompted, h.ctx.View().Stage)
}

func TestDigitArrowClick(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	l := h.ctx.Layout()

	h.click(centre(l.DigitUp[2]))
	assert.Equal(t, 1, h.ctx.View().Digits[2])
	assert.Equal(t, 2, h.ctx.SelectedDigit)

	h.click(centre(l.DigitDown[4]))
	assert.Equal(t, 9, h.ctx.View().Digits[4])

	h.click(centre(l.DigitValue[6]))
	assert.Equal(t, 6, h.ctx.SelectedDigit)
	assert.Equal(t, 0, h.ctx.View().Digits[6])
}

func TestClickNeedsReleaseOverSameControl(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	l := h.ctx.Layout()

	x, y := centre(l.DigitUp[0])
	h.HandleEvent(mouseAt(x, y, tcell.Button1))
	h.HandleEvent(mouseAt(0, 0, tcell.ButtonNone))
	assert.Equal(t, 0, h.ctx.View().Digits[0])
}

func TestDeclineDodgesHoverAndPress(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	h.unlockWithKeys()
	require.True(t, h.ctx.View().DeclinePosition.IsCanonical())

	x, y := centre(h.ctx.Layout().Decline)
	h.HandleEvent(mouseAt(x, y, tcell.ButtonNone))
	assert.Equal(t, reveal.Position{Top: 50, Left: 35}, h.ctx.View().DeclinePosition)

	h.HandleEvent(typeRune('n'))
	assert.Equal(t, reveal.StagePrompted, h.ctx.View().Stage, "dodging never declines")
}

func TestAcceptAndHotspotClicks(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	h.unlockWithKeys()

	h.click(centre(h.ctx.Layout().Accept))
	require.Equal(t, reveal.StagePresenting, h.ctx.View().Stage)

	h.click(centre(h.ctx.Layout().HotMessage))
	assert.Equal(t, reveal.DetailMessage, h.ctx.View().Detail)

	h.click(centre(h.ctx.Layout().GoBack))
	assert.Equal(t, reveal.DetailNone, h.ctx.View().Detail)
	assert.Equal(t, reveal.StagePresenting, h.ctx.View().Stage)

	// GO BACK on the hub resets the flow
	h.click(centre(h.ctx.Layout().GoBack))
	assert.Equal(t, reveal.StageLocked, h.ctx.View().Stage)
}

func TestScratchGestureRevealsAndConfirms(t *testing.T) {
	h, player := newHandler(t, 100, 40)
	h.openSongs(t)
	r := h.ctx.Layout().Scratch

	h.HandleEvent(mouseAt(r.X, r.Y, tcell.Button1))
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			h.HandleEvent(mouseAt(x, y, tcell.Button1))
		}
	}
	s := h.ctx.Surface()
	require.NotNil(t, s)
	assert.True(t, s.Drawing())
	assert.Equal(t, 1.0, s.Coverage())

	x, y := centre(r)
	h.HandleEvent(mouseAt(x, y, tcell.ButtonNone))
	assert.False(t, s.Drawing())
	assert.True(t, h.ctx.Revealed())
	assert.Equal(t, 1, player.count())
}

func TestStrokeEndsWhenLeavingBox(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	h.openSongs(t)
	r := h.ctx.Layout().Scratch
	s := h.ctx.Surface()

	x, y := centre(r)
	h.HandleEvent(mouseAt(x, y, tcell.Button1))
	require.True(t, s.Drawing())

	h.HandleEvent(mouseAt(r.X+r.W, y, tcell.Button1))
	assert.False(t, s.Drawing())

	before := s.ClearedArea()
	h.HandleEvent(mouseAt(x+1, y, tcell.Button1))
	assert.Equal(t, before, s.ClearedArea(), "re-entering does not resume the stroke")
}

func TestReleaseInsideWithoutPressInsideDoesNotConfirm(t *testing.T) {
	h, player := newHandler(t, 100, 40)
	h.openSongs(t)
	r := h.ctx.Layout().Scratch

	h.HandleEvent(mouseAt(0, 0, tcell.Button1))
	x, y := centre(r)
	h.HandleEvent(mouseAt(x, y, tcell.ButtonNone))
	assert.False(t, h.ctx.Surface().HasInteracted())
	assert.Equal(t, 0, player.count())
}

func TestKeyboardConfirmNeedsFullCoverage(t *testing.T) {
	h, player := newHandler(t, 100, 40)
	h.openSongs(t)

	h.HandleEvent(press(tcell.KeyEnter))
	assert.False(t, h.ctx.Revealed())
	assert.Equal(t, 0, player.count())
}

func TestHubKeys(t *testing.T) {
	h, _ := newHandler(t, 100, 40)
	h.unlockWithKeys()
	h.HandleEvent(typeRune('y'))

	h.HandleEvent(typeRune('p'))
	assert.Equal(t, reveal.StagePrompted, h.ctx.View().Stage)

	h.HandleEvent(typeRune('y'))
	h.HandleEvent(press(tcell.KeyEscape))
	assert.Equal(t, reveal.StageLocked, h.ctx.View().Stage)
}

func TestImagesScrolling(t *testing.T) {
	h, _ := newHandler(t, 60, 20)
	h.unlockWithKeys()
	h.HandleEvent(typeRune('y'))
	h.HandleEvent(typeRune('1'))
	require.Equal(t, reveal.DetailImages, h.ctx.View().Detail)

	// Without assets each image is one screen tall
	h.HandleEvent(mouseAt(5, 5, tcell.WheelDown))
	assert.Equal(t, 3, h.ctx.ImagesScroll)
	h.HandleEvent(press(tcell.KeyUp))
	assert.Equal(t, 2, h.ctx.ImagesScroll)

	h.click(centre(h.ctx.Layout().ScrollDown))
	assert.Equal(t, 20, h.ctx.ImagesScroll)

	h.HandleEvent(press(tcell.KeyHome))
	assert.Equal(t, 0, h.ctx.ImagesScroll)
	h.HandleEvent(press(tcell.KeyPgDn))
	assert.Equal(t, 19, h.ctx.ImagesScroll)
}

func TestQuit(t *testing.T) {
	h, _ := newHandler(t, 80, 24)
	assert.False(t, h.HandleEvent(typeRune('q')))
	assert.True(t, h.ctx.Quitting())
}

func TestNonInputEventsPassThrough(t *testing.T) {
	h, _ := newHandler(t, 80, 24)
	assert.True(t, h.HandleEvent(tcell.NewEventResize(10, 10)))
	assert.Equal(t, reveal.StageLocked, h.ctx.View().Stage)
}
