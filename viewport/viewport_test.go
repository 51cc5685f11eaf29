package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	m := DefaultMetrics()
	tests := []struct {
		cols int
		want Class
	}{
		{0, Mobile},
		{40, Mobile},
		{95, Mobile},
		{96, Desktop},
		{200, Desktop},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Classify(tt.cols), "cols=%d", tt.cols)
	}
}

func TestCustomMetrics(t *testing.T) {
	m := Metrics{CellWidth: 10, CellHeight: 20, Breakpoint: 500}
	assert.True(t, m.IsDesktop(50))
	assert.False(t, m.IsDesktop(49))
	assert.Equal(t, 400, m.LogicalHeight(20))
}

func TestCellConversions(t *testing.T) {
	m := DefaultMetrics()
	x, y := m.CellCentre(3, 2)
	assert.Equal(t, 28.0, x)
	assert.Equal(t, 40.0, y)

	col, row := m.ToCell(x, y)
	assert.Equal(t, 3, col)
	assert.Equal(t, 2, row)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "desktop", Desktop.String())
	assert.Equal(t, "mobile", Mobile.String())
}
