package engine

import (
	"math"

	"github.com/lixenwraith/giftbox/reveal"
)

// Rect is a cell-aligned rectangle
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no cells
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Percentage rectangle: top/left/width/height of the screen
type pctRect struct {
	top, left, width, height float64
}

// Hub hotspots and the scratch box, per viewport class
var (
	desktopImages  = pctRect{32, 14, 30, 18}
	desktopMessage = pctRect{32, 56, 30, 18}
	desktopSongs   = pctRect{54, 35, 30, 18}
	desktopScratch = pctRect{26, 29.5, 39, 50}

	mobileImages  = pctRect{52, 7, 17, 28}
	mobileMessage = pctRect{35, 35, 30, 22}
	mobileSongs   = pctRect{62, 35, 30, 22}
	mobileScratch = pctRect{35, 5, 90, 26}
)

const (
	digitWidth    = 3
	digitGap      = 1
	panelPadding  = 1
	goBackWidth   = 13
	scrollWidth   = 17
	buttonHeight  = 3
	buttonGapCols = 3
)

// Layout holds every interactive rectangle for the current stage
type Layout struct {
	Width, Height int
	Desktop       bool

	// Locked
	Panel      Rect
	DigitUp    [reveal.CodeLength]Rect
	DigitValue [reveal.CodeLength]Rect
	DigitDown  [reveal.CodeLength]Rect

	// Prompted
	Accept  Rect
	Decline Rect

	// Presenting hub
	HotImages  Rect
	HotMessage Rect
	HotSongs   Rect

	// Details
	Scratch    Rect
	ScrollDown Rect

	// Prompted, hub and details
	GoBack Rect
}

// ComputeLayout derives the layout for a w x h cell screen
func ComputeLayout(w, h int, desktop bool, v reveal.View) Layout {
	l := Layout{Width: w, Height: h, Desktop: desktop}

	switch v.Stage {
	case reveal.StageLocked:
		l.layoutLock()
	case reveal.StagePrompted:
		l.layoutPrompt(v.DeclinePosition)
		l.GoBack = l.bottomButton()
	case reveal.StagePresenting:
		switch v.Detail {
		case reveal.DetailNone:
			l.layoutHub()
		case reveal.DetailSongs:
			if desktop {
				l.Scratch = l.pct(desktopScratch)
			} else {
				l.Scratch = l.pct(mobileScratch)
			}
		case reveal.DetailImages:
			l.ScrollDown = l.centred(scrollWidth, 1, h-5)
		}
		l.GoBack = l.bottomButton()
	}
	return l
}

func (l *Layout) layoutLock() {
	inner := reveal.CodeLength*digitWidth + (reveal.CodeLength-1)*digitGap
	pw := inner + 2*panelPadding
	// Panel sits below centre, further on desktop
	shift := 1
	if l.Desktop {
		shift = 2
	}
	l.Panel = l.centred(pw, 5, l.Height/2-2+shift)

	x := l.Panel.X + panelPadding
	y := l.Panel.Y + 1
	for i := 0; i < reveal.CodeLength; i++ {
		l.DigitUp[i] = Rect{X: x, Y: y, W: digitWidth, H: 1}
		l.DigitValue[i] = Rect{X: x, Y: y + 1, W: digitWidth, H: 1}
		l.DigitDown[i] = Rect{X: x, Y: y + 2, W: digitWidth, H: 1}
		x += digitWidth + digitGap
	}
}

func (l *Layout) layoutPrompt(pos reveal.Position) {
	bw := 20
	pad := 8
	if l.Desktop {
		bw = 22
		pad = 6
	}
	y := l.Height - pad - buttonHeight
	if y < 0 {
		y = 0
	}
	cx := l.Width / 2
	l.Accept = Rect{X: cx - buttonGapCols/2 - bw, Y: y, W: bw, H: buttonHeight}

	if pos.IsCanonical() {
		l.Decline = Rect{X: cx + buttonGapCols - buttonGapCols/2, Y: y, W: bw, H: buttonHeight}
		return
	}
	// Centred on (left%, top%) of the screen
	px := int(math.Round(float64(l.Width) * pos.Left / 100))
	py := int(math.Round(float64(l.Height) * pos.Top / 100))
	l.Decline = l.clamp(Rect{X: px - bw/2, Y: py - buttonHeight/2, W: bw, H: buttonHeight})
}

func (l *Layout) layoutHub() {
	if l.Desktop {
		l.HotImages = l.pct(desktopImages)
		l.HotMessage = l.pct(desktopMessage)
		l.HotSongs = l.pct(desktopSongs)
		return
	}
	l.HotImages = l.pct(mobileImages)
	l.HotMessage = l.pct(mobileMessage)
	l.HotSongs = l.pct(mobileSongs)
}

func (l *Layout) bottomButton() Rect {
	return l.centred(goBackWidth, 1, l.Height-2)
}

func (l *Layout) centred(w, h, y int) Rect {
	return l.clamp(Rect{X: (l.Width - w) / 2, Y: y, W: w, H: h})
}

func (l *Layout) pct(p pctRect) Rect {
	x := int(math.Round(float64(l.Width) * p.left / 100))
	y := int(math.Round(float64(l.Height) * p.top / 100))
	w := int(math.Round(float64(l.Width) * p.width / 100))
	h := int(math.Round(float64(l.Height) * p.height / 100))
	return l.clamp(Rect{X: x, Y: y, W: w, H: h})
}

// clamp shifts r inside the screen, shrinking it only when larger than the screen
func (l *Layout) clamp(r Rect) Rect {
	if r.W > l.Width {
		r.W = l.Width
	}
	if r.H > l.Height {
		r.H = l.Height
	}
	if r.X+r.W > l.Width {
		r.X = l.Width - r.W
	}
	if r.Y+r.H > l.Height {
		r.Y = l.Height - r.H
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}
