package status

import (
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRegistryNilSafe(t *testing.T) {
	var r *Registry

	assert.NotPanics(t, func() {
		r.Inc(KeyReveals)
		r.SetFloat(KeyCoverage, 0.5)
		r.SetBool(KeyUnlocked, true)
		r.SetString(KeyStage, "locked")
	})
	assert.Equal(t, "", r.Summary())
}

// TestRegistryCachedPointers verifies Get returns the same pointer for a key
func TestRegistryCachedPointers(t *testing.T) {
	r := NewRegistry()

	a := r.Ints.Get(KeyEraseSamples)
	b := r.Ints.Get(KeyEraseSamples)
	assert.Same(t, a, b)
	assert.True(t, r.Ints.Has(KeyEraseSamples))
	assert.False(t, r.Ints.Has(KeyReveals))
}

func TestRegistrySummary(t *testing.T) {
	r := NewRegistry()
	r.SetString(KeyStage, "presenting")
	r.SetBool(KeyUnlocked, true)
	r.Inc(KeyEraseSamples)
	r.Inc(KeyEraseSamples)
	r.SetFloat(KeyCoverage, 0.25)

	assert.Equal(t, 4, r.TotalCount())
	assert.Equal(t, "stage=presenting unlocked=true erase_samples=2 coverage=0.25", r.Summary())
}

// TestConcurrentIncrements verifies counters stay consistent under contention
func TestConcurrentIncrements(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				r.Inc(KeyPrefetched)
				r.Floats.Get(KeyCoverage).Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(8000), r.Ints.Get(KeyPrefetched).Load())
	assert.Equal(t, 8000.0, r.Floats.Get(KeyCoverage).Get())
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())

	s.Store("abcdefghijklmnopqrstuvwxyz")
	assert.Len(t, s.Load(), MaxStringLen)
}

func TestAtomicStringKeepsRunesWhole(t *testing.T) {
	var s AtomicString
	// The cut at MaxStringLen would land inside the two-byte middle dot
	s.Store("abcdefghijklmnopqrs·tail")
	got := s.Load()
	assert.Equal(t, "abcdefghijklmnopqrs", got)
	assert.True(t, utf8.ValidString(got))
}
