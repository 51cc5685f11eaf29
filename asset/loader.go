package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/lixenwraith/giftbox/status"
)

// ErrUnsupported marks assets that exist but cannot be drawn in a terminal (video)
var ErrUnsupported = errors.New("unsupported asset format")

// maxArtEntries bounds the converted-art cache; it is flushed whole when exceeded
const maxArtEntries = 64

var videoExt = map[string]bool{".mp4": true, ".webm": true, ".mov": true}

type decoded struct {
	img image.Image
	err error
}

type artKey struct {
	name       string
	fit        Fit
	cols, rows int
	palette    bool
}

// Loader decodes asset files once and caches both images and converted cell art
// Safe for concurrent use; prefetch goroutines share the cache with the render loop
type Loader struct {
	root string

	mu     sync.RWMutex
	images map[string]decoded
	arts   map[artKey]*Art

	cellWidth  int
	cellHeight int
	palette256 bool

	log     zerolog.Logger
	metrics *status.Registry
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithCellSize sets the logical pixel size of a terminal cell
func WithCellSize(w, h int) LoaderOption {
	return func(l *Loader) {
		if w > 0 && h > 0 {
			l.cellWidth, l.cellHeight = w, h
		}
	}
}

// WithPalette256 quantizes converted art to the xterm 256-color palette
func WithPalette256(on bool) LoaderOption {
	return func(l *Loader) { l.palette256 = on }
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) LoaderOption {
	return func(l *Loader) { l.log = log.With().Str("module", "asset").Logger() }
}

// WithMetrics attaches a status registry
func WithMetrics(r *status.Registry) LoaderOption {
	return func(l *Loader) { l.metrics = r }
}

// NewLoader creates a loader rooted at dir
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		root:       dir,
		images:     make(map[string]decoded),
		arts:       make(map[artKey]*Art),
		cellWidth:  8,
		cellHeight: 16,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Image returns the decoded image for a manifest path; failures are cached too
func (l *Loader) Image(name string) (image.Image, error) {
	l.mu.RLock()
	if d, ok := l.images[name]; ok {
		l.mu.RUnlock()
		return d.img, d.err
	}
	l.mu.RUnlock()

	img, err := l.decode(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if d, ok := l.images[name]; ok {
		return d.img, d.err
	}
	l.images[name] = decoded{img: img, err: err}
	if err != nil {
		l.metrics.Inc(status.KeyAssetMisses)
		l.log.Debug().Err(err).Str("asset", name).Msg("asset unavailable")
	}
	return img, err
}

func (l *Loader) decode(name string) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty asset name", os.ErrNotExist)
	}
	if videoExt[strings.ToLower(filepath.Ext(name))] {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, name)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	l.log.Debug().Str("asset", name).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("asset decoded")
	return img, nil
}

// Cached reports whether name has been decoded (successfully or not)
func (l *Loader) Cached(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.images[name]
	return ok
}

// Prefetch decodes names in the background; the returned channel closes when done
func (l *Loader) Prefetch(names []string) <-chan struct{} {
	done := make(chan struct{})
	list := append([]string(nil), names...)
	go func() {
		defer close(done)
		for _, name := range list {
			if _, err := l.Image(name); err == nil {
				l.metrics.Inc(status.KeyPrefetched)
			}
		}
		l.log.Debug().Int("count", len(list)).Msg("prefetch finished")
	}()
	return done
}

// Art returns name converted to cells for a cols x rows area
// FitWidth ignores rows and derives the height from the image aspect
func (l *Loader) Art(name string, fit Fit, cols, rows int) (*Art, error) {
	key := artKey{name: name, fit: fit, cols: cols, rows: rows, palette: l.palette256}
	if fit == FitWidth {
		key.rows = 0
	}

	l.mu.RLock()
	if a, ok := l.arts[key]; ok {
		l.mu.RUnlock()
		return a, nil
	}
	l.mu.RUnlock()

	img, err := l.Image(name)
	if err != nil {
		return nil, err
	}

	conv := Converter{CellWidth: l.cellWidth, CellHeight: l.cellHeight, Palette256: l.palette256}
	var art *Art
	switch fit {
	case FitWidth:
		art = conv.FitWidth(img, cols)
	default:
		art = conv.Cover(img, cols, rows)
	}

	l.mu.Lock()
	if len(l.arts) >= maxArtEntries {
		l.arts = make(map[artKey]*Art)
	}
	l.arts[key] = art
	l.mu.Unlock()
	return art, nil
}
