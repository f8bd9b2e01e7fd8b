package scene

import (
	"mol2d/pkg/geometry"
)

// ViewTransform is the persistent camera state of an Object. It survives
// frame changes; only an explicit reset or a structure reload replaces it.
type ViewTransform struct {
	Rotation    geometry.Mat3
	Zoom        float64
	Ortho       float64 // 1 = orthographic, 0 = full perspective
	FocalLength float64
	Center      geometry.Vec3
	Extent      float64 // bounding radius around Center
}

// NewViewTransform returns the default camera: identity rotation, unit
// zoom, fully orthographic projection.
func NewViewTransform() ViewTransform {
	return ViewTransform{
		Rotation:    geometry.IdentityMat3(),
		Zoom:        1.0,
		Ortho:       1.0,
		FocalLength: 300,
	}
}

// Rotate composes an additional rotation onto the current one.
func (t *ViewTransform) Rotate(r geometry.Mat3) {
	t.Rotation = r.Mul(t.Rotation)
}

// SetPerspective toggles between a pure orthographic and a pure
// perspective projection.
func (t *ViewTransform) SetPerspective(on bool) {
	if on {
		t.Ortho = 0
	} else {
		t.Ortho = 1
	}
}

// ZoomBy multiplies the zoom factor, clamped to a sane range.
func (t *ViewTransform) ZoomBy(factor float64) {
	t.Zoom *= factor
	if t.Zoom < 0.05 {
		t.Zoom = 0.05
	}
	if t.Zoom > 50 {
		t.Zoom = 50
	}
}

// fitExtent grows the bounding extent to cover the given coordinates
// around the current center.
func (t *ViewTransform) fitExtent(coords []geometry.Vec3) {
	for _, c := range coords {
		if d := c.Sub(t.Center).Norm(); d > t.Extent {
			t.Extent = d
		}
	}
	if t.Extent == 0 {
		t.Extent = 1
	}
}
