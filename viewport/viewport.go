// Package viewport classifies the terminal into the desktop or mobile layout
package viewport

// DefaultBreakpoint is the minimum logical width, in pixels, of a desktop layout
const DefaultBreakpoint = 768

// Class is the viewport width class
type Class uint8

const (
	Mobile Class = iota
	Desktop
)

func (c Class) String() string {
	if c == Desktop {
		return "desktop"
	}
	return "mobile"
}

// Metrics maps terminal cells to logical pixels
type Metrics struct {
	CellWidth  int
	CellHeight int
	Breakpoint int
}

// DefaultMetrics assumes an 8x16 cell font
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 8, CellHeight: 16, Breakpoint: DefaultBreakpoint}
}

// LogicalWidth returns the screen width in logical pixels
func (m Metrics) LogicalWidth(cols int) int {
	return cols * m.CellWidth
}

// LogicalHeight returns the screen height in logical pixels
func (m Metrics) LogicalHeight(rows int) int {
	return rows * m.CellHeight
}

// Classify returns Desktop iff the logical width reaches the breakpoint
func (m Metrics) Classify(cols int) Class {
	if m.LogicalWidth(cols) >= m.Breakpoint {
		return Desktop
	}
	return Mobile
}

// IsDesktop is Classify(cols) == Desktop
func (m Metrics) IsDesktop(cols int) bool {
	return m.Classify(cols) == Desktop
}

// ToCell converts a logical point to the containing cell
func (m Metrics) ToCell(x, y float64) (col, row int) {
	return int(x) / m.CellWidth, int(y) / m.CellHeight
}

// CellCentre returns the logical centre of a cell, where mouse events are reported
func (m Metrics) CellCentre(col, row int) (x, y float64) {
	return float64(col*m.CellWidth) + float64(m.CellWidth)/2,
		float64(row*m.CellHeight) + float64(m.CellHeight)/2
}
