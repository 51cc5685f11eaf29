package reveal

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/giftbox/status"
)

// Storage is the session-scoped key/value capability the machine persists through
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// RandomSource yields uniform values in [0,1)
type RandomSource interface {
	Float64() float64
}

type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }

// DefaultSecret is the built-in lock code
var DefaultSecret = [CodeLength]int{1, 2, 2, 2, 0, 2, 6}

// Machine owns the flow state; all methods must be called from one goroutine
type Machine struct {
	secret [CodeLength]int
	digits [CodeLength]int

	unlocked   bool
	giftOpened bool
	detail     Detail
	decline    Position

	storage Storage
	rng     RandomSource
	log     zerolog.Logger
	metrics *status.Registry
}

// Option configures a Machine
type Option func(*Machine)

// WithSecret overrides the lock code
func WithSecret(secret [CodeLength]int) Option {
	return func(m *Machine) { m.secret = secret }
}

// WithStorage attaches session storage; without it nothing is persisted
func WithStorage(s Storage) Option {
	return func(m *Machine) { m.storage = s }
}

// WithRand injects the random source used to place the decline control
func WithRand(r RandomSource) Option {
	return func(m *Machine) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithLogger sets the logger; the secret is never logged
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) { m.log = l.With().Str("module", "reveal").Logger() }
}

// WithMetrics attaches a status registry
func WithMetrics(r *status.Registry) Option {
	return func(m *Machine) { m.metrics = r }
}

// New creates a machine and restores any state persisted earlier in the session
func New(opts ...Option) *Machine {
	m := &Machine{
		secret:  DefaultSecret,
		decline: CanonicalDeclinePosition,
		rng:     defaultRand{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.restoreFromStorage()
	m.publish()
	return m
}

// View returns a copy of the current state
func (m *Machine) View() View {
	return View{
		Stage:           m.Stage(),
		Digits:          m.digits,
		Unlocked:        m.unlocked,
		GiftOpened:      m.giftOpened,
		Detail:          m.detail,
		DeclinePosition: m.decline,
	}
}

// Stage derives the current stage
func (m *Machine) Stage() Stage {
	switch {
	case !m.unlocked:
		return StageLocked
	case !m.giftOpened:
		return StagePrompted
	default:
		return StagePresenting
	}
}

// Unlocked reports whether the code has been entered
func (m *Machine) Unlocked() bool { return m.unlocked }

// Detail returns the open detail, DetailNone on the hub or outside Presenting
func (m *Machine) Detail() Detail { return m.detail }

// Digits returns the current code digits
func (m *Machine) Digits() [CodeLength]int { return m.digits }

// DeclinePosition returns the decline control position
func (m *Machine) DeclinePosition() Position { return m.decline }

// AdjustDigit rotates one digit modulo 10 and unlocks on a code match
func (m *Machine) AdjustDigit(index int, dir Direction) {
	if m.unlocked || index < 0 || index >= CodeLength {
		return
	}

	switch dir {
	case Up:
		m.digits[index] = (m.digits[index] + 1) % 10
	case Down:
		m.digits[index] = (m.digits[index] + 9) % 10
	default:
		return
	}
	m.metrics.Inc(status.KeyDigitChanges)

	if m.digits != m.secret {
		return
	}

	m.unlocked = true
	// The flag lands before the snapshot so a reload in between still sees the unlock
	m.write(LegacyUnlockedKey, legacyUnlockedOn)
	m.log.Info().Msg("code accepted")
	m.persist()
}

// OpenGift moves from Prompted to Presenting
func (m *Machine) OpenGift() {
	if !m.unlocked || m.giftOpened {
		return
	}
	m.giftOpened = true
	m.persist()
}

// CloseGift returns from the Presenting hub to the prompt
func (m *Machine) CloseGift() {
	if !m.giftOpened {
		return
	}
	m.giftOpened = false
	m.detail = DetailNone
	m.persist()
}

// RelocateDeclineControl moves the decline control to a random spot
// Only the Prompted stage shows the control, so other stages ignore the call
func (m *Machine) RelocateDeclineControl() {
	if !m.unlocked || m.giftOpened {
		return
	}
	m.decline = Position{
		Top:  40 + m.rng.Float64()*40,
		Left: 20 + m.rng.Float64()*60,
	}
}

// SelectDetail opens a sub-item of the Presenting stage
func (m *Machine) SelectDetail(d Detail) {
	if m.Stage() != StagePresenting || !d.Valid() || m.detail == d {
		return
	}
	m.detail = d
	m.persist()
}

// ClearDetail returns to the Presenting hub
func (m *Machine) ClearDetail() {
	if m.detail == DetailNone {
		return
	}
	m.detail = DetailNone
	m.persist()
}

// GoBack performs the stage-appropriate back action
func (m *Machine) GoBack() {
	switch {
	case m.detail != DetailNone:
		m.ClearDetail()
	case m.unlocked:
		m.Reset()
	}
}

// Reset restores the initial state and drops persisted keys
func (m *Machine) Reset() {
	m.digits = [CodeLength]int{}
	m.unlocked = false
	m.giftOpened = false
	m.detail = DetailNone
	m.decline = CanonicalDeclinePosition

	m.remove(LegacyUnlockedKey)
	m.remove(StateKey)
	m.log.Info().Msg("flow reset")
	m.publish()
}

// Serialize returns the persisted subset of state
func (m *Machine) Serialize() Snapshot {
	return Snapshot{
		Unlocked:   m.unlocked,
		GiftOpened: m.giftOpened,
		Detail:     m.detail,
	}
}

// Restore applies a snapshot, enforcing stage invariants
func (m *Machine) Restore(s Snapshot) {
	m.unlocked = s.Unlocked
	m.giftOpened = s.Unlocked && s.GiftOpened
	m.detail = DetailNone
	if m.giftOpened && s.Detail.Valid() {
		m.detail = s.Detail
	}
	m.publish()
}
