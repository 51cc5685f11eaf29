// Package reveal sequences the lock, prompt and presentation stages of the gift flow
// and persists enough of it to resume after a restart within the same session
package reveal

// CodeLength is the number of digits in the lock code
const CodeLength = 7

// Direction selects how AdjustDigit moves a digit
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Stage is derived from the unlocked and giftOpened flags
type Stage int

const (
	StageLocked Stage = iota
	StagePrompted
	StagePresenting
)

func (s Stage) String() string {
	switch s {
	case StageLocked:
		return "locked"
	case StagePrompted:
		return "prompted"
	case StagePresenting:
		return "presenting"
	default:
		return "unknown"
	}
}

// Detail identifies the sub-item open within the Presenting stage
// The zero value means the hub is showing
type Detail string

const (
	DetailNone    Detail = ""
	DetailImages  Detail = "images"
	DetailMessage Detail = "message"
	DetailSongs   Detail = "songs"
)

// Valid reports whether d names an openable detail
func (d Detail) Valid() bool {
	switch d {
	case DetailImages, DetailMessage, DetailSongs:
		return true
	}
	return false
}

// Position is a percentage offset of the decline control within the prompt screen
type Position struct {
	Top  float64
	Left float64
}

// CanonicalDeclinePosition is the resting spot next to the accept control
var CanonicalDeclinePosition = Position{Top: 65, Left: 50}

// IsCanonical reports whether p is the resting position
func (p Position) IsCanonical() bool {
	return p == CanonicalDeclinePosition
}

// View is a value copy of the machine state for rendering
type View struct {
	Stage           Stage
	Digits          [CodeLength]int
	Unlocked        bool
	GiftOpened      bool
	Detail          Detail
	DeclinePosition Position
}
