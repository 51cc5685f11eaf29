// Package status holds process-local counters and gauges for the debug status line
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metric keys written by giftbox components
const (
	KeyEraseSamples  = "scratch.erase_samples"
	KeyStrokes       = "scratch.strokes"
	KeyEpochs        = "scratch.epochs"
	KeyReveals       = "scratch.reveals"
	KeyCoverage      = "scratch.coverage"
	KeyDigitChanges  = "reveal.digit_changes"
	KeyUnlocked      = "reveal.unlocked"
	KeyStage         = "reveal.stage"
	KeyStorageErrors = "session.errors"
	KeyPlayFailures  = "audio.play_failures"
	KeyPlaying       = "audio.playing"
	KeyPrefetched    = "asset.prefetched"
	KeyAssetMisses   = "asset.misses"
)

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Inc bumps an integer counter; nil registry is a no-op
func (r *Registry) Inc(key string) {
	if r == nil {
		return
	}
	r.Ints.Get(key).Add(1)
}

// SetFloat stores a gauge value; nil registry is a no-op
func (r *Registry) SetFloat(key string, v float64) {
	if r == nil {
		return
	}
	r.Floats.Get(key).Set(v)
}

// SetBool stores a flag; nil registry is a no-op
func (r *Registry) SetBool(key string, v bool) {
	if r == nil {
		return
	}
	r.Bools.Get(key).Store(v)
}

// SetString stores a short label; nil registry is a no-op
func (r *Registry) SetString(key, v string) {
	if r == nil {
		return
	}
	r.Strings.Get(key).Store(v)
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Summary renders all metrics as "key=value" pairs in sorted key order per type
func (r *Registry) Summary() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, r.TotalCount())
	r.Strings.Range(func(k string, v *AtomicString) {
		parts = append(parts, fmt.Sprintf("%s=%s", shortKey(k), v.Load()))
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		parts = append(parts, fmt.Sprintf("%s=%t", shortKey(k), v.Load()))
	})
	r.Ints.Range(func(k string, v *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", shortKey(k), v.Load()))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		parts = append(parts, fmt.Sprintf("%s=%.2f", shortKey(k), v.Get()))
	})
	return strings.Join(parts, " ")
}

// shortKey drops the component prefix for the narrow status line
func shortKey(k string) string {
	if i := strings.IndexByte(k, '.'); i >= 0 {
		return k[i+1:]
	}
	return k
}
