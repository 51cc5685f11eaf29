// Package asset resolves, decodes and converts the giftbox artwork into terminal cells
package asset

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Key is a canonical asset name, independent of viewport class
type Key string

const (
	KeyLock     Key = "lock"
	KeyQuestion Key = "question"
	KeyGift     Key = "gift"
	KeyImages1  Key = "images1"
	KeyImages2  Key = "images2"
	KeyMessage  Key = "message"
	KeySong1    Key = "song1"
	KeySong2    Key = "song2"
)

// stageKeys are the images shown by lock, hub and detail views
var stageKeys = []Key{KeyLock, KeyGift, KeyImages1, KeyImages2, KeyMessage, KeySong1, KeySong2}

//go:embed manifest.yaml
var defaultManifest []byte

// Variant lists the files for one key
type Variant struct {
	Mobile  string `yaml:"mobile"`
	Desktop string `yaml:"desktop"`
}

// Manifest maps keys to responsive variants
type Manifest struct {
	Assets map[Key]Variant `yaml:"assets"`
}

// DefaultManifest returns the embedded manifest
func DefaultManifest() *Manifest {
	m, err := parseManifest(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("embedded manifest: %v", err))
	}
	return m
}

// LoadManifest reads a YAML manifest and overlays it on the embedded one
// An empty path returns the embedded manifest
func LoadManifest(path string) (*Manifest, error) {
	base := DefaultManifest()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	override, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for k, v := range override.Assets {
		cur := base.Assets[k]
		if v.Mobile != "" {
			cur.Mobile = v.Mobile
		}
		if v.Desktop != "" {
			cur.Desktop = v.Desktop
		}
		base.Assets[k] = cur
	}
	return base, nil
}

func parseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Assets == nil {
		m.Assets = make(map[Key]Variant)
	}
	return m, nil
}

// Resolve returns the file for key in the given viewport class
// A missing desktop variant falls back to the mobile file; unknown keys resolve to ""
func (m *Manifest) Resolve(key Key, desktop bool) string {
	v, ok := m.Assets[key]
	if !ok {
		return ""
	}
	if desktop && v.Desktop != "" {
		return v.Desktop
	}
	return v.Mobile
}

// PrefetchList returns every stage image for the viewport class plus the desktop question image
func (m *Manifest) PrefetchList(desktop bool) []string {
	out := make([]string, 0, len(stageKeys)+1)
	for _, k := range stageKeys {
		if p := m.Resolve(k, desktop); p != "" {
			out = append(out, p)
		}
	}
	if p := m.Resolve(KeyQuestion, true); p != "" {
		out = append(out, p)
	}
	return out
}
