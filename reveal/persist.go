package reveal

import (
	"github.com/lixenwraith/giftbox/status"
)

// restoreFromStorage loads the snapshot and the legacy unlock flag
// Any failure degrades to "nothing persisted" for the affected key
func (m *Machine) restoreFromStorage() {
	if m.storage == nil {
		return
	}

	var snap Snapshot
	if raw, ok := m.read(StateKey); ok {
		decoded, err := decodeSnapshot(raw)
		if err != nil {
			m.storageFailed("decode", StateKey, err)
		} else {
			snap = decoded
		}
	}

	// The flag predates the snapshot and still wins when set
	if flag, ok := m.read(LegacyUnlockedKey); ok && flag == legacyUnlockedOn {
		snap.Unlocked = true
	}

	m.Restore(snap)
	m.log.Debug().
		Str("stage", m.Stage().String()).
		Str("detail", string(m.detail)).
		Msg("state restored")
}

// persist writes the full snapshot after a mutation
func (m *Machine) persist() {
	m.publish()
	if m.storage == nil {
		return
	}
	data, err := m.Serialize().MarshalJSON()
	if err != nil {
		m.storageFailed("encode", StateKey, err)
		return
	}
	m.write(StateKey, string(data))
}

func (m *Machine) read(key string) (string, bool) {
	v, ok, err := m.storage.Get(key)
	if err != nil {
		m.storageFailed("read", key, err)
		return "", false
	}
	return v, ok
}

func (m *Machine) write(key, value string) {
	if m.storage == nil {
		return
	}
	if err := m.storage.Set(key, value); err != nil {
		m.storageFailed("write", key, err)
	}
}

func (m *Machine) remove(key string) {
	if m.storage == nil {
		return
	}
	if err := m.storage.Remove(key); err != nil {
		m.storageFailed("remove", key, err)
	}
}

func (m *Machine) storageFailed(op, key string, err error) {
	m.metrics.Inc(status.KeyStorageErrors)
	m.log.Debug().Err(err).Str("op", op).Str("key", key).Msg("session storage failure ignored")
}

// publish mirrors stage gauges into the status registry
func (m *Machine) publish() {
	m.metrics.SetString(status.KeyStage, m.Stage().String())
	m.metrics.SetBool(status.KeyUnlocked, m.unlocked)
}
