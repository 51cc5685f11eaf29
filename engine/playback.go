package engine

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/giftbox/asset"
)

// Interrupt payloads posted back into the event loop
type (
	playStarted struct {
		gen uint64
		err error
	}
	playEnded struct {
		gen uint64
	}
	prefetchFinished struct {
		count int
	}
)

// toggleSong runs on every qualifying scratch confirm
func (c *Context) toggleSong() {
	if c.song.pending {
		return
	}
	if c.song.playing {
		c.stopSong()
		return
	}
	if c.Player == nil {
		c.Log.Debug().Msg("no audio player configured")
		return
	}

	c.song.gen++
	gen := c.song.gen
	c.song.pending = true

	result := c.Player.Play(func() { c.post(playEnded{gen: gen}) })
	c.goSafe(func() {
		err := <-result
		c.post(playStarted{gen: gen, err: err})
	})
}

// stopSong halts and rewinds playback and restores idle artwork
func (c *Context) stopSong() {
	c.song.gen++
	c.song.pending = false
	c.song.playing = false
	c.song.art = asset.KeySong1
	if c.Player != nil {
		c.Player.Stop()
	}
}

// resetSong restores idle state without touching the player
func (c *Context) resetSong() {
	c.song.gen++
	c.song.pending = false
	c.song.playing = false
	c.song.art = asset.KeySong1
}

// HandleInterrupt applies results posted by background goroutines
// Returns false for payloads it does not own
func (c *Context) HandleInterrupt(ev *tcell.EventInterrupt) bool {
	switch v := ev.Data().(type) {
	case playStarted:
		if v.gen != c.song.gen {
			// Superseded start; silence it unless a newer play owns the device
			if v.err == nil && !c.song.playing && !c.song.pending && c.Player != nil {
				c.Player.Stop()
			}
			return true
		}
		c.song.pending = false
		if v.err != nil {
			c.Log.Debug().Err(v.err).Msg("song did not start")
			return true
		}
		if c.song.endedGen == v.gen {
			return true
		}
		c.song.playing = true
		c.song.art = asset.KeySong2

	case playEnded:
		if v.gen != c.song.gen {
			return true
		}
		if c.song.pending {
			c.song.endedGen = v.gen
			return true
		}
		if c.song.playing {
			c.song.playing = false
			c.song.art = asset.KeySong1
		}

	case prefetchFinished:
		c.Log.Debug().Int("count", v.count).Msg("assets prefetched")

	default:
		return false
	}
	return true
}

// Prefetch decodes the stage images in the background once
func (c *Context) Prefetch() {
	if c.Assets == nil {
		return
	}
	list := c.Manifest.PrefetchList(c.Desktop())
	done := c.Assets.Prefetch(list)
	c.goSafe(func() {
		<-done
		c.post(prefetchFinished{count: len(list)})
	})
}

func (c *Context) post(v any) {
	if c.Screen == nil {
		return
	}
	if err := c.Screen.PostEvent(tcell.NewEventInterrupt(v)); err != nil {
		c.Log.Debug().Err(err).Msg("event queue full, interrupt dropped")
	}
}

// goSafe runs fn on a goroutine guarded by the crash handler
func (c *Context) goSafe(fn func()) {
	go func() {
		if c.crashHandler != nil {
			defer func() {
				if r := recover(); r != nil {
					c.crashHandler(r)
				}
			}()
		}
		fn()
	}()
}
