package render

import (
	"sort"

	"mol2d/pkg/geometry"
)

// cullCellSize is the edge length in pixels of the uniform screen grid
// shared by the culler and the shadow engine.
const cullCellSize = 16

// SortSegments orders segments ascending by depth: farthest first, so
// nearer segments overdraw (painter's algorithm). Equal depths fall back
// to the original build index, keeping the order reproducible.
func SortSegments(segs []Segment) {
	sort.Slice(segs, func(i, j int) bool {
		if segs[i].Depth != segs[j].Depth {
			return segs[i].Depth < segs[j].Depth
		}
		return segs[i].Index < segs[j].Index
	})
}

// cellIndex maps a screen midpoint to a grid cell, clamping to the border
// cells so off-screen midpoints still land somewhere deterministic.
func cellIndex(p geometry.Point2D, cols, rows int) int {
	cx := int(p.X) / cullCellSize
	cy := int(p.Y) / cullCellSize
	if cx < 0 {
		cx = 0
	}
	if cx >= cols {
		cx = cols - 1
	}
	if cy < 0 {
		cy = 0
	}
	if cy >= rows {
		cy = rows - 1
	}
	return cy*cols + cx
}

func gridDims(vp Viewport) (cols, rows int) {
	cols = (vp.Width + cullCellSize - 1) / cullCellSize
	rows = (vp.Height + cullCellSize - 1) / cullCellSize
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// CullSegments partitions screen space into a uniform grid and keeps only
// the keep nearest-depth segments per cell, discarding the rest. The input
// must already be depth-sorted; the retained set is reproducible for a
// fixed camera and keep count. positionCount below the threshold skips
// culling entirely.
func CullSegments(segs []Segment, vp Viewport, positionCount, threshold, keep int) []Segment {
	if positionCount <= threshold || keep <= 0 {
		return segs
	}

	cols, rows := gridDims(vp)

	// Scanning from the back so the last keep segments per cell (the
	// nearest, in sorted order) survive.
	retained := make([]bool, len(segs))
	counts := make(map[int]int, cols*rows)
	for i := len(segs) - 1; i >= 0; i-- {
		cell := cellIndex(segs[i].Mid, cols, rows)
		if counts[cell] < keep {
			counts[cell]++
			retained[i] = true
		}
	}

	out := segs[:0]
	for i, s := range segs {
		if retained[i] {
			out = append(out, s)
		}
	}
	return out
}
