package reveal

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Storage keys shared with earlier releases of the experience
const (
	StateKey          = "valentineState"
	LegacyUnlockedKey = "valentineUnlocked"
	legacyUnlockedOn  = "1"
)

// Wire values for the selected detail; they name the detail's lead asset
const (
	wireImages      = "/images1.jpg"
	wireMessage     = "/message.jpg"
	wireSongs       = "/song1.jpg"
	wireLegacySongs = "/songs.jpg"
)

// Snapshot is the persisted subset of machine state
// Digits and the decline position are intentionally absent
type Snapshot struct {
	Unlocked   bool
	GiftOpened bool
	Detail     Detail
}

// InitialSnapshot is what a fresh or reset machine serializes to
var InitialSnapshot = Snapshot{}

type wireSnapshot struct {
	IsUnlocked    bool    `json:"isUnlocked"`
	ShowGift      bool    `json:"showGift"`
	SelectedImage *string `json:"selectedImage"`
}

// MarshalJSON encodes the snapshot in the session wire format
func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := wireSnapshot{IsUnlocked: s.Unlocked, ShowGift: s.GiftOpened}
	if v := detailToWire(s.Detail); v != "" {
		w.SelectedImage = &v
	}
	return sonic.Marshal(w)
}

// decodeSnapshot parses the wire format field by field
// Missing or mistyped fields fall back to zero values; only malformed JSON is an error
func decodeSnapshot(data string) (Snapshot, error) {
	var raw map[string]any
	if err := sonic.UnmarshalString(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	var out Snapshot
	if v, ok := raw["isUnlocked"].(bool); ok {
		out.Unlocked = v
	}
	if v, ok := raw["showGift"].(bool); ok {
		out.GiftOpened = v
	}
	if v, ok := raw["selectedImage"].(string); ok && v != "" {
		out.Detail = detailFromWire(v)
	}
	return out, nil
}

func detailToWire(d Detail) string {
	switch d {
	case DetailImages:
		return wireImages
	case DetailMessage:
		return wireMessage
	case DetailSongs:
		return wireSongs
	default:
		return ""
	}
}

// detailFromWire maps stored values, including the retired songs sentinel
func detailFromWire(v string) Detail {
	switch v {
	case wireImages, string(DetailImages):
		return DetailImages
	case wireMessage, string(DetailMessage):
		return DetailMessage
	case wireSongs, wireLegacySongs, string(DetailSongs):
		return DetailSongs
	default:
		return DetailNone
	}
}
