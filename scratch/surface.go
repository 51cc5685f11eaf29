// Package scratch implements a scratch-to-reveal occlusion surface
//
// The surface keeps an alpha mask over the content beneath it. Strokes carve disks out of
// the mask and add the disk area to an additive estimate; overlapping strokes count twice.
// Completion is judged on that estimate, not on the mask pixels.
package scratch

import (
	"image"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/image/vector"

	"github.com/lixenwraith/giftbox/status"
)

// circleKappa places cubic control points for a quarter-circle approximation
const circleKappa = 0.5522847498

// Surface is the scratch occlusion model; it is not safe for concurrent use
type Surface struct {
	brushRadius float64
	dpr         float64

	box     Box
	mask    *image.Alpha
	raster  *vector.Rasterizer
	epoch   int
	mounted bool

	// Detached surfaces ignore all input and never fire callbacks
	detached bool

	totalArea   float64
	clearedArea float64

	hasInteracted bool
	drawing       bool
	revealed      bool

	onReveal  func()
	onConfirm func()

	log     zerolog.Logger
	metrics *status.Registry
}

// Option configures a Surface
type Option func(*Surface)

// WithRevealCallback sets the completion callback; it fires at most once per mount epoch
func WithRevealCallback(fn func()) Option {
	return func(s *Surface) { s.onReveal = fn }
}

// WithConfirmCallback sets a callback fired on every qualifying confirm tap
func WithConfirmCallback(fn func()) Option {
	return func(s *Surface) { s.onConfirm = fn }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Surface) { s.log = l.With().Str("module", "scratch").Logger() }
}

// WithMetrics attaches a status registry
func WithMetrics(r *status.Registry) Option {
	return func(s *Surface) { s.metrics = r }
}

// New creates an unmounted surface with the given brush radius in logical pixels
func New(brushRadius float64, opts ...Option) *Surface {
	s := &Surface{
		brushRadius: brushRadius,
		dpr:         1,
		raster:      vector.NewRasterizer(0, 0),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount sizes the mask to box at the given device pixel ratio and paints it opaque
// Progress from any earlier epoch is discarded. Boxes without area are ignored.
func (s *Surface) Mount(box Box, dpr float64) {
	if s.detached || box.Empty() {
		return
	}
	if dpr <= 0 {
		dpr = 1
	}

	w := int(math.Ceil(box.Width * dpr))
	h := int(math.Ceil(box.Height * dpr))
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}

	s.box = box
	s.dpr = dpr
	s.mask = mask
	s.totalArea = box.Area()
	s.clearedArea = 0
	s.revealed = false
	s.mounted = true
	s.epoch++

	s.metrics.Inc(status.KeyEpochs)
	s.metrics.SetFloat(status.KeyCoverage, 0)
	s.log.Debug().
		Int("epoch", s.epoch).
		Float64("width", box.Width).
		Float64("height", box.Height).
		Float64("dpr", dpr).
		Msg("surface mounted")
}

// Sync follows layout changes: a size change remounts, an origin-only move keeps progress
// Returns true when a remount happened
func (s *Surface) Sync(box Box, dpr float64) bool {
	if s.detached || box.Empty() {
		return false
	}
	if dpr <= 0 {
		dpr = 1
	}
	if !s.mounted || !s.box.SameSize(box) || s.dpr != dpr {
		s.Mount(box, dpr)
		return true
	}
	s.box.X, s.box.Y = box.X, box.Y
	return false
}

// Unmount detaches the surface; later calls are no-ops and callbacks are dropped
func (s *Surface) Unmount() {
	s.detached = true
	s.mounted = false
	s.drawing = false
	s.mask = nil
	s.onReveal = nil
	s.onConfirm = nil
}

// BeginStroke starts drawing and erases at p
func (s *Surface) BeginStroke(p Point) {
	if s.detached {
		return
	}
	s.drawing = true
	s.hasInteracted = true
	s.metrics.Inc(status.KeyStrokes)
	s.erase(p)
}

// ContinueStroke erases at p while a stroke is active
func (s *Surface) ContinueStroke(p Point) {
	if s.detached || !s.drawing {
		return
	}
	s.erase(p)
}

// EndStroke releases the drawing latch
func (s *Surface) EndStroke() {
	s.drawing = false
}

// ConfirmReveal handles a tap; it returns true when the tap qualified
// A surface that was never sized fails open and always qualifies
func (s *Surface) ConfirmReveal() bool {
	if s.detached {
		return false
	}
	if s.totalArea <= 0 {
		s.log.Debug().Msg("confirm on unsized surface, failing open")
		s.fire()
		return true
	}
	if !s.hasInteracted || s.Coverage() < 1 {
		return false
	}
	s.fire()
	return true
}

func (s *Surface) fire() {
	if !s.revealed {
		s.revealed = true
		s.metrics.Inc(status.KeyReveals)
		s.log.Info().Int("epoch", s.epoch).Msg("surface revealed")
		if s.onReveal != nil {
			s.onReveal()
		}
	}
	if s.onConfirm != nil {
		s.onConfirm()
	}
}

// erase carves a brush disk at client point p and adds its area to the estimate
func (s *Surface) erase(p Point) {
	if !s.mounted || s.mask == nil || s.totalArea <= 0 {
		return
	}
	local := s.box.Local(p)
	s.carve(local.X*s.dpr, local.Y*s.dpr, s.brushRadius*s.dpr)

	s.clearedArea += math.Pi * s.brushRadius * s.brushRadius
	s.metrics.Inc(status.KeyEraseSamples)
	s.metrics.SetFloat(status.KeyCoverage, s.Coverage())
}

// carve removes a disk from the mask with destination-out compositing
func (s *Surface) carve(cx, cy, r float64) {
	bounds := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	).Intersect(s.mask.Bounds())
	if bounds.Empty() {
		return
	}

	w, h := bounds.Dx(), bounds.Dy()
	ox := float32(cx) - float32(bounds.Min.X)
	oy := float32(cy) - float32(bounds.Min.Y)
	rr := float32(r)
	k := float32(circleKappa) * rr

	z := s.raster
	z.Reset(w, h)
	z.MoveTo(ox+rr, oy)
	z.CubeTo(ox+rr, oy+k, ox+k, oy+rr, ox, oy+rr)
	z.CubeTo(ox-k, oy+rr, ox-rr, oy+k, ox-rr, oy)
	z.CubeTo(ox-rr, oy-k, ox-k, oy-rr, ox, oy-rr)
	z.CubeTo(ox+k, oy-rr, ox+rr, oy-k, ox+rr, oy)
	z.ClosePath()

	brush := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(brush, brush.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		row := s.mask.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		brow := brush.PixOffset(0, y)
		for x := 0; x < w; x++ {
			cov := uint32(brush.Pix[brow+x])
			if cov == 0 {
				continue
			}
			dst := uint32(s.mask.Pix[row+x])
			s.mask.Pix[row+x] = uint8(dst * (0xff - cov) / 0xff)
		}
	}
}

// Coverage returns min(cleared/total, 1); an unsized surface reports 0
func (s *Surface) Coverage() float64 {
	if s.totalArea <= 0 {
		return 0
	}
	return math.Min(s.clearedArea/s.totalArea, 1)
}

// Opacity returns the mask alpha in [0,1] at a client point; 0 outside the surface
func (s *Surface) Opacity(p Point) float64 {
	if s.mask == nil || !s.box.Contains(p) {
		return 0
	}
	local := s.box.Local(p)
	x := int(local.X * s.dpr)
	y := int(local.Y * s.dpr)
	if !(image.Point{X: x, Y: y}).In(s.mask.Bounds()) {
		return 0
	}
	return float64(s.mask.AlphaAt(x, y).A) / 0xff
}

// PixelCoverage returns the fraction of mask pixels carved fully transparent
// It is diagnostic only; completion uses Coverage
func (s *Surface) PixelCoverage() float64 {
	if s.mask == nil || len(s.mask.Pix) == 0 {
		return 0
	}
	n := 0
	for _, a := range s.mask.Pix {
		if a == 0 {
			n++
		}
	}
	return float64(n) / float64(len(s.mask.Pix))
}

// Box returns the current bounding box
func (s *Surface) Box() Box { return s.box }

// Epoch counts mounts; each resize-triggered remount starts a new epoch
func (s *Surface) Epoch() int { return s.epoch }

// TotalArea returns the area recorded at the last mount
func (s *Surface) TotalArea() float64 { return s.totalArea }

// ClearedArea returns the additive erase estimate
func (s *Surface) ClearedArea() float64 { return s.clearedArea }

// HasInteracted reports whether any stroke has begun
func (s *Surface) HasInteracted() bool { return s.hasInteracted }

// Drawing reports whether a stroke is active
func (s *Surface) Drawing() bool { return s.drawing }

// Revealed reports whether completion fired in the current epoch
func (s *Surface) Revealed() bool { return s.revealed }

// Mounted reports whether the surface has a sized mask
func (s *Surface) Mounted() bool { return s.mounted }
