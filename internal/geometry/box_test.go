package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestContains_StrictInterior(t *testing.T) {
	box := BoundingBox{X: 10, Y: 10, Width: 10, Height: 10}

	assert.True(t, box.Contains(10, 10))
	assert.True(t, box.Contains(6, 14))
	assert.True(t, box.Contains(14.9, 5.1))
}

func TestContains_ExcludesBoundary(t *testing.T) {
	box := BoundingBox{X: 10, Y: 10, Width: 10, Height: 10}

	// All four edges and a corner sit on the boundary.
	assert.False(t, box.Contains(5, 10))
	assert.False(t, box.Contains(15, 10))
	assert.False(t, box.Contains(10, 5))
	assert.False(t, box.Contains(10, 15))
	assert.False(t, box.Contains(5, 5))
}

func TestContains_Outside(t *testing.T) {
	box := BoundingBox{X: 10, Y: 10, Width: 10, Height: 10}

	assert.False(t, box.Contains(25, 25))
	assert.False(t, box.Contains(-10, 10))
}

func TestOverlaps_InteriorsIntersect(t *testing.T) {
	a := BoundingBox{X: 100, Y: 100, Width: 10, Height: 10}
	b := BoundingBox{X: 90, Y: 90, Width: 20, Height: 20}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
}

func TestOverlaps_EdgeAdjacencyIsNotOverlap(t *testing.T) {
	a := BoundingBox{X: 100, Y: 100, Width: 10, Height: 10}
	// Abuts a along y=95.
	b := BoundingBox{X: 100, Y: 90, Width: 10, Height: 10}

	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestOverlaps_CornerContactIsNotOverlap(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BoundingBox{X: 10, Y: 10, Width: 10, Height: 10}

	assert.False(t, a.Overlaps(b))
}

func TestOverlaps_Disjoint(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BoundingBox{X: 100, Y: 0, Width: 10, Height: 10}

	assert.False(t, a.Overlaps(b))
}

func genBox(t *rapid.T, label string) BoundingBox {
	return BoundingBox{
		X:      rapid.Float64Range(-1000, 1000).Draw(t, label+"_x"),
		Y:      rapid.Float64Range(-1000, 1000).Draw(t, label+"_y"),
		Width:  rapid.Float64Range(1, 500).Draw(t, label+"_w"),
		Height: rapid.Float64Range(1, 500).Draw(t, label+"_h"),
	}
}

func TestPropertyOverlapIsSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genBox(t, "a")
		b := genBox(t, "b")
		assert.Equal(t, a.Overlaps(b), b.Overlaps(a))
	})
}

func TestPropertyBoxOverlapsItself(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genBox(t, "a")
		assert.True(t, a.Overlaps(a))
	})
}

func TestPropertyCenterIsContained(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genBox(t, "a")
		assert.True(t, a.Contains(a.X, a.Y))
	})
}

func TestPropertyContainedPointImpliesOverlapWhenShared(t *testing.T) {
	// If a point is strictly inside both boxes, their interiors intersect.
	rapid.Check(t, func(t *rapid.T) {
		a := genBox(t, "a")
		b := genBox(t, "b")
		x := rapid.Float64Range(-1000, 1000).Draw(t, "x")
		y := rapid.Float64Range(-1000, 1000).Draw(t, "y")
		if a.Contains(x, y) && b.Contains(x, y) {
			assert.True(t, a.Overlaps(b))
		}
	})
}
