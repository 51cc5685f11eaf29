// Package config loads giftbox runtime configuration from GIFTBOX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Storage backend names
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Color mode names
const (
	ColorAuto      = "auto"
	ColorTrueColor = "truecolor"
	Color256       = "256"
)

// Config is the complete runtime configuration
type Config struct {
	Debug     bool   `env:"GIFTBOX_DEBUG"   envDefault:"false"`
	LogDir    string `env:"GIFTBOX_LOG_DIR" envDefault:"logs"`
	ColorMode string `env:"GIFTBOX_COLOR"   envDefault:"auto"`

	// Session-scoped persistence
	Storage    string `env:"GIFTBOX_STORAGE"     envDefault:"file"`
	SessionDir string `env:"GIFTBOX_SESSION_DIR"`
	SessionID  string `env:"GIFTBOX_SESSION_ID"`

	// Assets and audio
	AssetDir     string  `env:"GIFTBOX_ASSET_DIR" envDefault:"assets"`
	ManifestPath string  `env:"GIFTBOX_MANIFEST"`
	SongPath     string  `env:"GIFTBOX_SONG"      envDefault:"song.mp3"`
	Volume       float64 `env:"GIFTBOX_VOLUME"    envDefault:"0.8"`

	// Scratch surface geometry, in logical pixels
	BrushRadius       float64 `env:"GIFTBOX_BRUSH_RADIUS"       envDefault:"32"`
	DevicePixelRatio  float64 `env:"GIFTBOX_DPR"                envDefault:"1"`
	CellWidth         int     `env:"GIFTBOX_CELL_WIDTH"         envDefault:"8"`
	CellHeight        int     `env:"GIFTBOX_CELL_HEIGHT"        envDefault:"16"`
	DesktopBreakpoint int     `env:"GIFTBOX_DESKTOP_BREAKPOINT" envDefault:"768"`

	// Secret is compared against entered digits and must never be logged
	Secret string `env:"GIFTBOX_SECRET" envDefault:"1222026"`
}

// Load parses the environment and fills derived defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.fillDerived()
	return cfg, nil
}

// Default returns the configuration produced by an empty environment
func Default() *Config {
	cfg := &Config{}
	// Only envDefault values apply; parse errors are impossible without user input
	_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})
	cfg.fillDerived()
	return cfg
}

func (c *Config) fillDerived() {
	if c.SessionDir == "" {
		c.SessionDir = DefaultSessionDir()
	}
	if c.SessionID == "" {
		c.SessionID = DetectSessionID()
	}
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalid, c.Storage)
	}
	switch c.ColorMode {
	case ColorAuto, ColorTrueColor, Color256:
	default:
		return fmt.Errorf("%w: unknown color mode %q", ErrInvalid, c.ColorMode)
	}
	if c.BrushRadius <= 0 {
		return fmt.Errorf("%w: brush radius must be positive", ErrInvalid)
	}
	if c.DevicePixelRatio <= 0 {
		return fmt.Errorf("%w: device pixel ratio must be positive", ErrInvalid)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("%w: cell size must be positive", ErrInvalid)
	}
	if c.DesktopBreakpoint <= 0 {
		return fmt.Errorf("%w: desktop breakpoint must be positive", ErrInvalid)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume must be within [0,1]", ErrInvalid)
	}
	if len(c.Secret) != 7 || strings.Trim(c.Secret, "0123456789") != "" {
		// Value deliberately omitted from the message
		return fmt.Errorf("%w: secret must be exactly 7 digits", ErrInvalid)
	}
	if c.Storage != StorageMemory && c.SessionID == "" {
		return fmt.Errorf("%w: session id is required for %s storage", ErrInvalid, c.Storage)
	}
	return nil
}

// SecretDigits returns the secret as digit values
func (c *Config) SecretDigits() [7]int {
	var out [7]int
	for i := 0; i < len(out) && i < len(c.Secret); i++ {
		out[i] = int(c.Secret[i] - '0')
	}
	return out
}

// ResolveAsset joins a relative asset path onto AssetDir
func (c *Config) ResolveAsset(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.AssetDir, path)
}

// DefaultSessionDir prefers the per-login runtime directory, which is wiped on logout
func DefaultSessionDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "giftbox")
	}
	return filepath.Join(os.TempDir(), "giftbox-"+strconv.Itoa(os.Getuid()))
}

// DetectSessionID derives an identifier for the enclosing terminal session
// Multiplexer and emulator ids come first; the parent shell pid is the fallback
func DetectSessionID() string {
	for _, key := range []string{"TERM_SESSION_ID", "TMUX_PANE", "WT_SESSION", "WINDOWID", "STY"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return sanitizeID(key + "-" + v)
		}
	}
	return "ppid-" + strconv.Itoa(os.Getppid())
}

func sanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.ToLower(b.String())
}
