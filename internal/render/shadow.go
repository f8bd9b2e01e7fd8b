package render

// shadowEpsilon is the depth slack, in world units, before a segment
// counts as occluded within its cell.
const shadowEpsilon = 0.5

// ShadowGrid records the per-cell nearest depth of contributing segments,
// keyed by source frame so merged frames never shadow each other. The grid
// shares its partition with the culler and is rebuilt from scratch every
// render pass.
type ShadowGrid struct {
	cols, rows int
	// maxDepth[source][cell] = nearest depth seen in that cell.
	maxDepth map[int][]float64
	has      map[int][]bool
}

// NewShadowGrid builds the occlusion grid for one pass.
func NewShadowGrid(vp Viewport, segs []Segment) *ShadowGrid {
	cols, rows := gridDims(vp)
	g := &ShadowGrid{
		cols:     cols,
		rows:     rows,
		maxDepth: make(map[int][]float64),
		has:      make(map[int][]bool),
	}
	for _, s := range segs {
		depths, ok := g.maxDepth[s.Source]
		if !ok {
			depths = make([]float64, cols*rows)
			g.maxDepth[s.Source] = depths
			g.has[s.Source] = make([]bool, cols*rows)
		}
		seen := g.has[s.Source]
		cell := cellIndex(s.Mid, cols, rows)
		if !seen[cell] || s.Depth > depths[cell] {
			seen[cell] = true
			depths[cell] = s.Depth
		}
	}
	return g
}

// Shadowed reports whether a segment lags its cell's nearest depth by more
// than the epsilon. The comparison only considers contributions from the
// segment's own source frame.
func (g *ShadowGrid) Shadowed(s Segment) bool {
	depths, ok := g.maxDepth[s.Source]
	if !ok {
		return false
	}
	cell := cellIndex(s.Mid, g.cols, g.rows)
	if !g.has[s.Source][cell] {
		return false
	}
	return depths[cell]-s.Depth > shadowEpsilon
}
