package render

import (
	"image/color"

	"mol2d/internal/scene"
	"mol2d/pkg/colorutil"
)

// colorResolver resolves per-position colors through the override layers:
// position > chain > frame > object > global default.
type colorResolver struct {
	obj      *scene.Object
	frame    *scene.Frame
	frameIdx int
	cfg      *scene.Config

	chainOrdinal map[string]int
}

func newColorResolver(obj *scene.Object, f *scene.Frame, frameIdx int, cfg *scene.Config) *colorResolver {
	ordinals := make(map[string]int)
	for i, id := range f.ChainIDs() {
		ordinals[id] = i
	}
	return &colorResolver{
		obj:          obj,
		frame:        f,
		frameIdx:     frameIdx,
		cfg:          cfg,
		chainOrdinal: ordinals,
	}
}

// resolve returns the color of one position.
func (r *colorResolver) resolve(i int) color.RGBA {
	p := r.frame.Positions[i]

	if c, ok := r.obj.Colors.Positions[i]; ok {
		return c
	}
	if c, ok := r.obj.Colors.Chains[p.Chain]; ok {
		return c
	}
	if v, ok := r.obj.Colors.Frames[r.frameIdx]; ok {
		return r.applyValue(v, p)
	}
	if r.obj.Colors.Object != nil {
		return r.applyValue(*r.obj.Colors.Object, p)
	}
	return r.applyValue(scene.ModeValue(r.cfg.Color.Mode), p)
}

// blend returns the midpoint color of a segment's endpoints.
func (r *colorResolver) blend(a, b int) color.RGBA {
	return colorutil.Lerp(r.resolve(a), r.resolve(b), 0.5)
}

// applyValue evaluates a literal or a scheme for one position.
func (r *colorResolver) applyValue(v scene.ColorValue, p scene.Position) color.RGBA {
	if v.Literal != nil {
		return *v.Literal
	}

	mode := v.Mode
	if mode == scene.ColorAuto {
		if r.frame.HasConfidence() {
			mode = scene.ColorByConfidence
		} else {
			mode = scene.ColorByChain
		}
	}

	switch mode {
	case scene.ColorByConfidence:
		return colorutil.ConfidenceColor(p.Confidence)
	case scene.ColorRainbow:
		n := r.frame.Len()
		t := 0.0
		if n > 1 {
			t = float64(p.SeqIndex) / float64(n-1)
		}
		return colorutil.RainbowColor(t)
	default:
		return colorutil.ChainColor(r.chainOrdinal[p.Chain], r.cfg.Color.Colorblind)
	}
}
