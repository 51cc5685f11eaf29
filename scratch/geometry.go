package scratch

// Point is a position in client (screen-logical) coordinates
type Point struct {
	X, Y float64
}

// Box is the surface's bounding box in client coordinates
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Empty reports whether the box has no area
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Area returns width*height, zero for empty boxes
func (b Box) Area() float64 {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Contains reports whether p lies inside the box (right and bottom edges excluded)
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height
}

// Local translates a client point into box-relative coordinates
func (b Box) Local(p Point) Point {
	return Point{X: p.X - b.X, Y: p.Y - b.Y}
}

// SameSize reports whether two boxes have equal dimensions
func (b Box) SameSize(o Box) bool {
	return b.Width == o.Width && b.Height == o.Height
}
