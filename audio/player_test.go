package audio

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/giftbox/status"
)

// fakeOutput records streamers instead of sending them to a device
type fakeOutput struct {
	mu        sync.Mutex
	initErr   error
	inits     int
	closed    bool
	streamers []beep.Streamer
}

func (f *fakeOutput) Init(beep.SampleRate, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeOutput) Play(s beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamers = append(f.streamers, s)
}

func (f *fakeOutput) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamers = nil
}

func (f *fakeOutput) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeOutput) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.streamers)
}

// drain streams everything queued to completion, as the speaker would
func (f *fakeOutput) drain() {
	f.mu.Lock()
	list := f.streamers
	f.streamers = nil
	f.mu.Unlock()

	buf := make([][2]float64, 4096)
	for _, s := range list {
		for {
			if _, ok := s.Stream(buf); !ok {
				break
			}
		}
	}
}

func waitResult(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("play result not delivered")
		return nil
	}
}

func writeWAV(t *testing.T, path string, sr beep.SampleRate, d time.Duration) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	tone, err := generators.SineTone(sr, 440)
	require.NoError(t, err)
	format := beep.Format{SampleRate: sr, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Take(sr.N(d), tone), format))
}

func TestPlayUnavailable(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	reg := status.NewRegistry()
	p := NewSongPlayer("missing.mp3", withOutput(out), WithMetrics(reg))

	err := waitResult(t, p.Play(nil))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, p.Playing())

	err = waitResult(t, p.Play(nil))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, out.inits, "device open is not retried")
	assert.Equal(t, int64(2), reg.Ints.Get(status.KeyPlayFailures).Load())
}

func TestFallbackMelodyPlaysToEnd(t *testing.T) {
	out := &fakeOutput{}
	reg := status.NewRegistry()
	p := NewSongPlayer(filepath.Join(t.TempDir(), "song.mp3"), withOutput(out), WithMetrics(reg))

	ended := 0
	require.NoError(t, waitResult(t, p.Play(func() { ended++ })))
	assert.True(t, p.Playing())
	assert.True(t, reg.Bools.Get(status.KeyPlaying).Load())
	assert.Equal(t, 1, out.active())

	out.drain()
	assert.Equal(t, 1, ended)
	assert.False(t, p.Playing())
	assert.False(t, reg.Bools.Get(status.KeyPlaying).Load())
}

func TestStopSuppressesEnded(t *testing.T) {
	out := &fakeOutput{}
	p := NewSongPlayer("missing.mp3", withOutput(out))

	ended := 0
	require.NoError(t, waitResult(t, p.Play(func() { ended++ })))
	p.Stop()

	assert.False(t, p.Playing())
	assert.Zero(t, out.active())
	out.drain()
	assert.Zero(t, ended)
}

func TestReplayRestartsFromBeginning(t *testing.T) {
	out := &fakeOutput{}
	p := NewSongPlayer("missing.mp3", withOutput(out))

	first, second := 0, 0
	require.NoError(t, waitResult(t, p.Play(func() { first++ })))
	require.NoError(t, waitResult(t, p.Play(func() { second++ })))

	assert.Equal(t, 1, out.active(), "previous stream cleared")
	out.drain()
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

func TestPlayWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	writeWAV(t, path, 22050, 200*time.Millisecond)

	out := &fakeOutput{}
	p := NewSongPlayer(path, withOutput(out), WithVolume(0.5))

	ended := make(chan struct{})
	require.NoError(t, waitResult(t, p.Play(func() { close(ended) })))
	out.drain()

	select {
	case <-ended:
	default:
		t.Fatal("end of stream not reported")
	}
	p.Close()
	assert.True(t, out.closed)
}

func TestPlayCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("definitely not mpeg"), 0o644))

	out := &fakeOutput{}
	p := NewSongPlayer(path, withOutput(out))
	err := waitResult(t, p.Play(nil))
	assert.Error(t, err)
	assert.False(t, p.Playing())
	assert.Zero(t, out.active())
}

func TestDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 22050, 100*time.Millisecond)

	f, err := os.Open(path)
	require.NoError(t, err)
	s, format, err := Decode(f, ".WAV")
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, beep.SampleRate(22050), format.SampleRate)
	assert.Equal(t, 2205, s.Len())

	_, _, err = Decode(f, ".ogg")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestMelodyGeneratorLength(t *testing.T) {
	notes := []Note{{69, 10 * time.Millisecond}, {-1, 5 * time.Millisecond}, {72, 10 * time.Millisecond}}
	g := NewMelodyGenerator(sampleRate, notes)

	total := 0
	buf := make([][2]float64, 100)
	for {
		n, ok := g.Stream(buf)
		total += n
		for i := 0; i < n; i++ {
			assert.LessOrEqual(t, buf[i][0], melodyGain)
			assert.GreaterOrEqual(t, buf[i][0], -melodyGain)
		}
		if !ok {
			break
		}
	}
	assert.Equal(t, g.Len(), total)
	assert.NoError(t, g.Err())
}

func TestNoteFreq(t *testing.T) {
	assert.InDelta(t, 440.0, NoteFreq(69), 1e-9)
	assert.InDelta(t, 880.0, NoteFreq(81), 1e-9)
	assert.Zero(t, NoteFreq(-1))
	assert.Zero(t, NoteFreq(128))
}

// TestSongPlayerGracefulDegradation verifies the real player is safe to use without a device
func TestSongPlayerGracefulDegradation(t *testing.T) {
	p := NewSongPlayer("missing.mp3")

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Song player panicked without initialization: %v", r)
		}
	}()

	p.Stop()
	p.Close()
	assert.False(t, p.Playing())
}
