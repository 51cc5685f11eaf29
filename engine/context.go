// Package engine hosts the giftbox event loop and owns all interactive state
package engine

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/giftbox/asset"
	"github.com/lixenwraith/giftbox/reveal"
	"github.com/lixenwraith/giftbox/scratch"
	"github.com/lixenwraith/giftbox/status"
	"github.com/lixenwraith/giftbox/viewport"
)

// Player is the audio collaborator of the songs detail
// Play must not block; the channel yields the start result once
type Player interface {
	Play(onEnded func()) <-chan error
	Stop()
}

// Settings carries the tunables the context needs from configuration
type Settings struct {
	BrushRadius      float64
	DevicePixelRatio float64
	Viewport         viewport.Metrics
	Debug            bool
}

// DefaultSettings mirrors the configuration defaults
func DefaultSettings() Settings {
	return Settings{
		BrushRadius:      32,
		DevicePixelRatio: 1,
		Viewport:         viewport.DefaultMetrics(),
	}
}

// songState tracks playback as seen by the UI
type songState struct {
	playing  bool
	pending  bool
	gen      uint64
	endedGen uint64
	art      asset.Key
}

// Context holds the reveal flow, the scratch surface and UI state
type Context struct {
	// ===== Immutable After Init =====

	Screen   tcell.Screen
	Machine  *reveal.Machine
	Player   Player
	Assets   *asset.Loader
	Manifest *asset.Manifest
	Metrics  *status.Registry
	Log      zerolog.Logger
	Settings Settings

	crashHandler func(any)

	// ===== Main-Loop Exclusive =====
	// Accessed only from the event loop goroutine; no synchronization required

	Width, Height int
	SelectedDigit int
	ImagesScroll  int

	surface  *scratch.Surface
	song     songState
	revealed bool
	quit     bool
}

// Dependencies groups the collaborators handed to NewContext
type Dependencies struct {
	Screen   tcell.Screen
	Machine  *reveal.Machine
	Player   Player
	Assets   *asset.Loader
	Manifest *asset.Manifest
	Metrics  *status.Registry
	Log      zerolog.Logger
}

// NewContext wires collaborators and applies the restored stage
func NewContext(deps Dependencies, settings Settings) *Context {
	if settings.Viewport.CellWidth <= 0 || settings.Viewport.CellHeight <= 0 {
		settings.Viewport = viewport.DefaultMetrics()
	}
	if settings.DevicePixelRatio <= 0 {
		settings.DevicePixelRatio = 1
	}
	if deps.Manifest == nil {
		deps.Manifest = asset.DefaultManifest()
	}

	c := &Context{
		Screen:   deps.Screen,
		Machine:  deps.Machine,
		Player:   deps.Player,
		Assets:   deps.Assets,
		Manifest: deps.Manifest,
		Metrics:  deps.Metrics,
		Log:      deps.Log.With().Str("module", "engine").Logger(),
		Settings: settings,
		song:     songState{art: asset.KeySong1},
	}
	if c.Screen != nil {
		c.Width, c.Height = c.Screen.Size()
	}
	c.refresh()
	return c
}

// SetCrashHandler installs the panic handler used by engine goroutines
func (c *Context) SetCrashHandler(fn func(any)) {
	c.crashHandler = fn
}

// View returns the reveal state for rendering
func (c *Context) View() reveal.View {
	return c.Machine.View()
}

// Desktop reports the viewport class of the current screen width
func (c *Context) Desktop() bool {
	return c.Settings.Viewport.IsDesktop(c.Width)
}

// Layout computes the interactive rectangles for the current frame
func (c *Context) Layout() Layout {
	return ComputeLayout(c.Width, c.Height, c.Desktop(), c.View())
}

// Surface returns the mounted scratch surface, nil outside the songs detail
func (c *Context) Surface() *scratch.Surface {
	return c.surface
}

// CellToPoint converts a cell to the logical point reported for mouse events
func (c *Context) CellToPoint(col, row int) scratch.Point {
	x, y := c.Settings.Viewport.CellCentre(col, row)
	return scratch.Point{X: x, Y: y}
}

// RectToBox converts a cell rectangle to logical pixels
func (c *Context) RectToBox(r Rect) scratch.Box {
	cw := float64(c.Settings.Viewport.CellWidth)
	ch := float64(c.Settings.Viewport.CellHeight)
	return scratch.Box{
		X:      float64(r.X) * cw,
		Y:      float64(r.Y) * ch,
		Width:  float64(r.W) * cw,
		Height: float64(r.H) * ch,
	}
}

// Resize records new terminal dimensions; a changed scratch box remounts the surface
func (c *Context) Resize(w, h int) {
	c.Width, c.Height = w, h
	c.Log.Debug().Int("width", w).Int("height", h).Str("class", c.Settings.Viewport.Classify(w).String()).Msg("resize")
	c.refresh()
}

// Quit requests loop exit
func (c *Context) Quit() { c.quit = true }

// Quitting reports whether quit was requested
func (c *Context) Quitting() bool { return c.quit }

// Revealed reports whether the current surface completed its reveal
func (c *Context) Revealed() bool { return c.revealed }

// SongPlaying reports the playback state shown by the songs detail
func (c *Context) SongPlaying() bool { return c.song.playing }

// SongPending reports an in-flight start request
func (c *Context) SongPending() bool { return c.song.pending }

// SongArt returns the artwork key for the songs detail
func (c *Context) SongArt() asset.Key { return c.song.art }

// Resolve maps an asset key to a file for the current viewport class
func (c *Context) Resolve(key asset.Key) string {
	return c.Manifest.Resolve(key, c.Desktop())
}

// refresh reconciles derived UI state with the machine after any mutation
func (c *Context) refresh() {
	v := c.View()
	c.Metrics.SetString(status.KeyStage, v.Stage.String())

	if v.Detail == reveal.DetailSongs {
		c.syncSurface()
	} else if c.surface != nil {
		c.surface.Unmount()
		c.surface = nil
		c.revealed = false
	}

	if v.Stage != reveal.StageLocked {
		c.SelectedDigit = 0
	}
	c.clampScroll()
}

func (c *Context) syncSurface() {
	if c.surface == nil {
		c.revealed = false
		c.surface = scratch.New(c.Settings.BrushRadius,
			scratch.WithRevealCallback(func() { c.revealed = true }),
			scratch.WithConfirmCallback(c.toggleSong),
			scratch.WithLogger(c.Log),
			scratch.WithMetrics(c.Metrics),
		)
	}
	box := c.RectToBox(c.Layout().Scratch)
	if c.surface.Sync(box, c.Settings.DevicePixelRatio) {
		c.revealed = false
	}
}
