package render

import (
	"image/color"

	"mol2d/internal/scene"
	"mol2d/pkg/geometry"
)

// Inferred-bond distance thresholds in world units.
const (
	proteinBondCutoff = 5.0
	nucleicBondCutoff = 7.5
	ligandBondCutoff  = 2.0
)

// Segment is one drawable stick. Segments are transient: built for a
// single render pass and discarded.
type Segment struct {
	A, B    int // position indices
	Index   int // build order, the stable tie-break key
	Source  int // source frame id for shadow isolation
	Depth   float64
	Color   color.RGBA
	Width   float64
	Visible bool
	Mid     geometry.Point2D // screen midpoint, used by the grids
}

// BuildSegments turns the object's bonds and contacts (or an inferred
// nearest-neighbor bond set when neither is supplied) into segments with
// computed depth and resolved color. source tags every segment for shadow
// isolation; frameIdx selects the frame-level color override layer.
func BuildSegments(obj *scene.Object, f *scene.Frame, frameIdx int, proj []Projected,
	cfg *scene.Config, source int) []Segment {

	res := newColorResolver(obj, f, frameIdx, cfg)
	visible := obj.VisibleSet(f.Chains())
	width := cfg.Rendering.LineWidth

	var segs []Segment
	add := func(a, b int, col color.RGBA, w float64) {
		if a < 0 || b < 0 || a >= len(proj) || b >= len(proj) {
			return
		}
		_, va := visible[a]
		_, vb := visible[b]
		segs = append(segs, Segment{
			A:       a,
			B:       b,
			Index:   len(segs),
			Source:  source,
			Depth:   (proj[a].Depth + proj[b].Depth) / 2,
			Color:   col,
			Width:   w,
			Visible: va && vb,
			Mid:     proj[a].Screen.Add(proj[b].Screen).Scale(0.5),
		})
	}

	bonds := obj.Bonds
	if len(bonds) == 0 && len(obj.Contacts) == 0 {
		bonds = inferBonds(f)
	}
	for _, b := range bonds {
		if b.A >= f.Len() || b.B >= f.Len() {
			continue
		}
		col := res.blend(b.A, b.B)
		add(b.A, b.B, col, width)
	}
	for _, c := range obj.Contacts {
		if c.A >= f.Len() || c.B >= f.Len() {
			continue
		}
		w := width * c.Weight
		if w < 1 {
			w = 1
		}
		add(c.A, c.B, c.Color, w)
	}
	return segs
}

// inferBonds derives a bond set from spatial proximity. Consecutive
// polymer positions connect within a type-specific cutoff; ligand
// positions connect to every ligand neighbor within a short cutoff.
// Inferred edges never cross a chain boundary.
func inferBonds(f *scene.Frame) []scene.Bond {
	var bonds []scene.Bond

	// Sequential backbone edges.
	for i := 0; i+1 < f.Len(); i++ {
		a, b := f.Positions[i], f.Positions[i+1]
		if a.Chain != b.Chain {
			continue
		}
		var cutoff float64
		switch {
		case a.Type == scene.TypeProtein && b.Type == scene.TypeProtein:
			cutoff = proteinBondCutoff
		case a.Type.IsNucleic() && b.Type.IsNucleic():
			cutoff = nucleicBondCutoff
		default:
			continue
		}
		if a.Coord.Distance(b.Coord) <= cutoff {
			bonds = append(bonds, scene.Bond{A: i, B: i + 1})
		}
	}

	// Ligand neighborhoods. Ligands are small, so the pair scan stays
	// bounded in practice.
	var ligands []int
	for i, p := range f.Positions {
		if p.Type == scene.TypeLigand {
			ligands = append(ligands, i)
		}
	}
	for x, i := range ligands {
		for _, j := range ligands[x+1:] {
			a, b := f.Positions[i], f.Positions[j]
			if a.Chain != b.Chain {
				continue
			}
			if a.Coord.Distance(b.Coord) <= ligandBondCutoff {
				bonds = append(bonds, scene.Bond{A: i, B: j})
			}
		}
	}
	return bonds
}
