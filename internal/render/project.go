// Package render implements the pseudo-3D pipeline: projection, segment
// building, depth sorting, culling, occlusion shading and compositing onto
// a plain RGBA raster.
package render

import (
	"mol2d/internal/scene"
	"mol2d/pkg/geometry"
)

// Projected is the screen-space image of one position.
type Projected struct {
	Screen geometry.Point2D
	Depth  float64 // rotated Z, larger is nearer
	Scale  float64 // projection scale at this depth
}

// Viewport describes the target drawing surface.
type Viewport struct {
	Width  int
	Height int
}

// fitScale returns the world-to-pixel factor that fits the object's
// bounding extent into the viewport with a small margin.
func fitScale(vp Viewport, t scene.ViewTransform) float64 {
	short := vp.Width
	if vp.Height < short {
		short = vp.Height
	}
	extent := t.Extent
	if extent <= 0 {
		extent = 1
	}
	return float64(short) / (2.2 * extent) * t.Zoom
}

// Project rotates and projects every position of a frame. The result is a
// pure function of the transform, the viewport and the coordinates:
// identical inputs yield identical outputs.
func Project(f *scene.Frame, t scene.ViewTransform, vp Viewport) []Projected {
	out := make([]Projected, f.Len())
	base := fitScale(vp, t)
	cx := float64(vp.Width) / 2
	cy := float64(vp.Height) / 2

	for i, p := range f.Positions {
		r := t.Rotation.MulVec(p.Coord.Sub(t.Center))

		// Blend orthographic and perspective scaling. The focal plane
		// sits at the rotation center; points behind it shrink.
		persp := t.FocalLength / (t.FocalLength - r.Z)
		if persp < 0.05 {
			persp = 0.05
		}
		if persp > 20 {
			persp = 20
		}
		scale := t.Ortho + (1-t.Ortho)*persp

		out[i] = Projected{
			Screen: geometry.Point2D{
				X: cx + r.X*base*scale,
				// Screen Y grows downward.
				Y: cy - r.Y*base*scale,
			},
			Depth: r.Z,
			Scale: scale,
		}
	}
	return out
}
