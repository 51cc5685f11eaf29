package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every backend for shared behaviour tests
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := OpenFile(t.TempDir(), "tty-1")
	require.NoError(t, err)
	sqliteStore, err := OpenSQLite(t.TempDir(), "tty-1")
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set("valentineUnlocked", "1"))
			require.NoError(t, store.Set("valentineState", `{"isUnlocked":true}`))

			v, ok, err := store.Get("valentineUnlocked")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "1", v)

			// Overwrite keeps a single value
			require.NoError(t, store.Set("valentineUnlocked", "0"))
			v, _, _ = store.Get("valentineUnlocked")
			assert.Equal(t, "0", v)

			require.NoError(t, store.Remove("valentineUnlocked"))
			_, ok, err = store.Get("valentineUnlocked")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing an absent key is not an error
			require.NoError(t, store.Remove("valentineUnlocked"))

			require.NoError(t, store.Clear())
			_, ok, _ = store.Get("valentineState")
			assert.False(t, ok)

			assert.Error(t, store.Set("  ", "x"))
		})
	}
}

func TestClosedStoreReturnsErrClosed(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Close())

			_, _, err := store.Get("k")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, store.Set("k", "v"), ErrClosed)
			assert.ErrorIs(t, store.Remove("k"), ErrClosed)
			assert.ErrorIs(t, store.Clear(), ErrClosed)
		})
	}
}

// TestFileStoreSurvivesReopen verifies a reload within the same session sees prior writes
func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := OpenFile(dir, "tty-7")
	require.NoError(t, err)
	require.NoError(t, first.Set("valentineUnlocked", "1"))
	require.NoError(t, first.Close())

	second, err := OpenFile(dir, "tty-7")
	require.NoError(t, err)
	v, ok, err := second.Get("valentineUnlocked")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	// A different session id does not see the value
	other, err := OpenFile(dir, "tty-8")
	require.NoError(t, err)
	_, ok, err = other.Get("valentineUnlocked")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestFileStoreCorruptFile verifies reads fail but writes recover the file
func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenFile(dir, "tty-1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tty-1.json"), []byte("{not json"), 0o600))

	_, _, err = store.Get("valentineState")
	assert.Error(t, err)

	require.NoError(t, store.Set("valentineState", "{}"))
	v, ok, err := store.Get("valentineState")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", v)
}

// TestSQLiteStoreIsolatesSessions verifies rows are scoped by session id
func TestSQLiteStoreIsolatesSessions(t *testing.T) {
	dir := t.TempDir()
	a, err := OpenSQLite(dir, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLite(dir, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set("k", "from-a"))
	_, ok, err := b.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Clear())
	v, ok, err := a.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "from-a", v)
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Options{Backend: "file", Dir: t.TempDir(), SessionID: "x"})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(Options{Backend: "redis"})
	assert.Error(t, err)

	_, err = Open(Options{Backend: "file", Dir: t.TempDir()})
	assert.Error(t, err)
}
