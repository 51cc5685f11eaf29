// Package audio plays the giftbox song through the beep speaker
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/giftbox/status"
)

const (
	sampleRate = beep.SampleRate(48000)

	// Resampling quality passed to beep.Resample
	resampleQuality = 4

	leadIn = 120 * time.Millisecond
)

var (
	// ErrUnavailable is returned when no audio device could be opened
	ErrUnavailable = errors.New("audio output unavailable")
	// ErrFormat is returned for song files beep cannot decode
	ErrFormat = errors.New("unsupported song format")
)

// output abstracts the speaker so playback can be driven synchronously in tests
type output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Clear()               { speaker.Clear() }
func (speakerOutput) Close()               { speaker.Close() }

// SongPlayer plays a single song file with stop-and-rewind semantics
// A missing song file falls back to a generated melody
type SongPlayer struct {
	mu          sync.Mutex
	path        string
	volume      float64
	out         output
	initialized bool
	initErr     error
	stream      io.Closer

	// gen invalidates end-of-stream callbacks of superseded plays
	gen     atomic.Uint64
	playing atomic.Bool

	log     zerolog.Logger
	metrics *status.Registry
}

// Option configures a SongPlayer
type Option func(*SongPlayer)

// WithVolume sets linear volume in [0,1]
func WithVolume(v float64) Option {
	return func(p *SongPlayer) { p.volume = math.Max(0, math.Min(1, v)) }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *SongPlayer) { p.log = l.With().Str("module", "audio").Logger() }
}

// WithMetrics attaches a status registry
func WithMetrics(r *status.Registry) Option {
	return func(p *SongPlayer) { p.metrics = r }
}

func withOutput(o output) Option {
	return func(p *SongPlayer) { p.out = o }
}

// NewSongPlayer creates a player for the song at path; the device opens on first Play
func NewSongPlayer(path string, opts ...Option) *SongPlayer {
	p := &SongPlayer{
		path:   path,
		volume: 1,
		out:    speakerOutput{},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play starts the song from the beginning without blocking the caller
// The channel yields the start result once; onEnded runs on the audio goroutine when the stream finishes naturally
func (p *SongPlayer) Play(onEnded func()) <-chan error {
	result := make(chan error, 1)
	go func() {
		err := p.start(onEnded)
		if err != nil {
			p.metrics.Inc(status.KeyPlayFailures)
			p.log.Debug().Err(err).Msg("playback failed")
		}
		result <- err
		close(result)
	}()
	return result
}

func (p *SongPlayer) start(onEnded func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.initLocked(); err != nil {
		return err
	}
	p.stopLocked()

	src, closer, err := p.open()
	if err != nil {
		return err
	}
	p.stream = closer

	gen := p.gen.Add(1)
	vol := &effects.Volume{
		Streamer: src,
		Base:     2,
		Volume:   math.Log2(math.Max(p.volume, 1e-6)),
		Silent:   p.volume <= 0,
	}
	done := beep.Callback(func() {
		// Runs under the speaker lock; must not touch p.mu
		if p.gen.Load() != gen || !p.playing.CompareAndSwap(true, false) {
			return
		}
		p.metrics.SetBool(status.KeyPlaying, false)
		if onEnded != nil {
			onEnded()
		}
	})

	p.playing.Store(true)
	p.metrics.SetBool(status.KeyPlaying, true)
	p.out.Play(beep.Seq(vol, done))
	p.log.Debug().Str("song", filepath.Base(p.path)).Msg("playback started")
	return nil
}

func (p *SongPlayer) initLocked() error {
	if p.initialized {
		return nil
	}
	if p.initErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, p.initErr)
	}
	if err := p.out.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.initErr = err
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	p.initialized = true
	return nil
}

// open decodes the song file, or builds the fallback melody when it is absent
func (p *SongPlayer) open() (beep.Streamer, io.Closer, error) {
	f, err := os.Open(p.path)
	if errors.Is(err, os.ErrNotExist) {
		p.log.Debug().Str("song", p.path).Msg("song file missing, using fallback melody")
		return FallbackMelody(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open song: %w", err)
	}

	s, format, err := Decode(f, filepath.Ext(p.path))
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	var src beep.Streamer = s
	if format.SampleRate != sampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, sampleRate, s)
	}
	return src, s, nil
}

// Decode picks a beep decoder by file extension; the stream owns rc on success
func Decode(rc io.ReadCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch strings.ToLower(ext) {
	case ".mp3":
		s, format, err = mp3.Decode(rc)
	case ".wav":
		s, format, err = wav.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode song: %w", err)
	}
	return s, format, nil
}

// FallbackMelody returns a short generated tune at the output sample rate
func FallbackMelody() beep.Streamer {
	return beep.Seq(
		generators.Silence(sampleRate.N(leadIn)),
		NewMelodyGenerator(sampleRate, fallbackTune),
	)
}

// Stop halts playback and rewinds; the next Play starts from the beginning
func (p *SongPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *SongPlayer) stopLocked() {
	p.gen.Add(1)
	if !p.initialized {
		return
	}
	p.out.Clear()
	if p.playing.Swap(false) {
		p.metrics.SetBool(status.KeyPlaying, false)
		p.log.Debug().Msg("playback stopped")
	}
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
}

// Playing reports whether a stream is active
func (p *SongPlayer) Playing() bool {
	return p.playing.Load()
}

// Close stops playback and releases the device
func (p *SongPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.stopLocked()
	p.out.Close()
	p.initialized = false
}
