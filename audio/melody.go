package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Note is one step of a melody; Midi < 0 is a rest
type Note struct {
	Midi     int
	Duration time.Duration
}

// fallbackTune plays when no song file is available
var fallbackTune = []Note{
	{72, 300 * time.Millisecond}, {76, 300 * time.Millisecond}, {79, 300 * time.Millisecond},
	{84, 600 * time.Millisecond}, {-1, 150 * time.Millisecond},
	{81, 300 * time.Millisecond}, {79, 300 * time.Millisecond}, {76, 300 * time.Millisecond},
	{77, 300 * time.Millisecond}, {79, 900 * time.Millisecond},
}

const (
	melodyGain    = 0.25
	melodyAttack  = 10 * time.Millisecond
	melodyRelease = 80 * time.Millisecond
)

// MelodyGenerator streams a finite sequence of enveloped sine notes
type MelodyGenerator struct {
	sr    beep.SampleRate
	notes []Note

	idx     int // current note
	pos     int // sample within note
	phase   float64
	samples int // length of current note
}

// NewMelodyGenerator creates a generator over notes
func NewMelodyGenerator(sr beep.SampleRate, notes []Note) *MelodyGenerator {
	g := &MelodyGenerator{sr: sr, notes: notes}
	g.startNote()
	return g
}

func (g *MelodyGenerator) startNote() {
	g.pos = 0
	g.phase = 0
	if g.idx < len(g.notes) {
		g.samples = g.sr.N(g.notes[g.idx].Duration)
	}
}

// Len returns the total length in samples
func (g *MelodyGenerator) Len() int {
	n := 0
	for _, note := range g.notes {
		n += g.sr.N(note.Duration)
	}
	return n
}

func (g *MelodyGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if g.idx >= len(g.notes) {
			break
		}
		if g.pos >= g.samples {
			g.idx++
			g.startNote()
			continue
		}

		note := g.notes[g.idx]
		sample := 0.0
		if freq := NoteFreq(note.Midi); freq > 0 {
			sample = melodyGain * g.envelope() * math.Sin(2*math.Pi*g.phase)
			g.phase += freq / float64(g.sr)
			if g.phase >= 1.0 {
				g.phase -= 1.0
			}
		}
		samples[n][0] = sample
		samples[n][1] = sample
		g.pos++
		n++
	}
	return n, n > 0
}

// envelope applies a linear attack/release to avoid clicks between notes
func (g *MelodyGenerator) envelope() float64 {
	attack := g.sr.N(melodyAttack)
	release := g.sr.N(melodyRelease)
	switch {
	case attack > 0 && g.pos < attack:
		return float64(g.pos) / float64(attack)
	case release > 0 && g.pos >= g.samples-release:
		return float64(g.samples-g.pos) / float64(release)
	}
	return 1.0
}

func (g *MelodyGenerator) Err() error {
	return nil
}
