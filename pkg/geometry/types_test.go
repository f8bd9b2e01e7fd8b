package geometry

import (
	"math"
	"testing"
)

func TestPoint2DOps(t *testing.T) {
	a := NewPoint2D(1, 2)
	b := NewPoint2D(4, 6)

	if d := a.Distance(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("distance = %v, want 5", d)
	}
	if got := a.Add(b); got != (Point2D{X: 5, Y: 8}) {
		t.Errorf("add = %+v", got)
	}
	if got := b.Sub(a); got != (Point2D{X: 3, Y: 4}) {
		t.Errorf("sub = %+v", got)
	}
	if got := a.Scale(2); got != (Point2D{X: 2, Y: 4}) {
		t.Errorf("scale = %+v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	for _, p := range []Point2D{{X: 10, Y: 20}, {X: 40, Y: 60}, {X: 25, Y: 35}} {
		if !r.Contains(p) {
			t.Errorf("%+v not contained in %+v", p, r)
		}
	}
	for _, p := range []Point2D{{X: 9.9, Y: 20}, {X: 41, Y: 30}, {X: 25, Y: 61}} {
		if r.Contains(p) {
			t.Errorf("%+v contained in %+v", p, r)
		}
	}
}

func TestBoundingBoxAndCentroid(t *testing.T) {
	pts := []Point2D{{X: -1, Y: 4}, {X: 3, Y: 0}, {X: 1, Y: 2}}

	box := BoundingBox(pts)
	if box != (Rect{X: -1, Y: 0, Width: 4, Height: 4}) {
		t.Errorf("bounding box = %+v", box)
	}

	c := Centroid2D(pts)
	if c != (Point2D{X: 1, Y: 2}) {
		t.Errorf("centroid = %+v", c)
	}

	if BoundingBox(nil) != (Rect{}) {
		t.Error("empty bounding box not zero")
	}
	if Centroid2D(nil) != (Point2D{}) {
		t.Error("empty centroid not zero")
	}
}
