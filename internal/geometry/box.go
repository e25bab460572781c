// Package geometry provides axis-aligned bounding box tests used for
// conversation zone placement and occupant enrollment.
package geometry

// BoundingBox is an axis-aligned rectangle centered at (X, Y) with the
// given total width and height.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point (x, y) lies strictly inside the box.
// Points on the boundary are not contained.
//
// Postcondition: Returns false for any point on or outside the box edges.
func (b BoundingBox) Contains(x, y float64) bool {
	halfW := b.Width / 2
	halfH := b.Height / 2
	return x > b.X-halfW && x < b.X+halfW &&
		y > b.Y-halfH && y < b.Y+halfH
}

// Overlaps reports whether the interiors of the two boxes intersect.
// Boxes that only touch along an edge or at a corner do not overlap.
// The test is a separating-axis check on each rectangle's half-extents
// and is symmetric in its arguments.
//
// Postcondition: b.Overlaps(other) == other.Overlaps(b).
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	// A separating axis exists when one box sits entirely at or beyond
	// the other's edge on either axis.
	if b.X+b.Width/2 <= other.X-other.Width/2 || other.X+other.Width/2 <= b.X-b.Width/2 {
		return false
	}
	if b.Y+b.Height/2 <= other.Y-other.Height/2 || other.Y+other.Height/2 <= b.Y-b.Height/2 {
		return false
	}
	return true
}
