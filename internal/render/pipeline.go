package render

import (
	"image"
	"image/color"
	"image/draw"

	"mol2d/internal/scene"
	"mol2d/pkg/colorutil"
)

// Renderer runs the full pipeline for one scene: project, build segments,
// sort, cull, shade, composite. It holds no per-pass state; the grids are
// rebuilt from scratch on every call.
type Renderer struct {
	vp Viewport
}

// New creates a renderer for a fixed surface size.
func New(width, height int) *Renderer {
	return &Renderer{vp: Viewport{Width: width, Height: height}}
}

// Viewport returns the target surface size.
func (r *Renderer) Viewport() Viewport { return r.vp }

// Render draws every object of the scene onto a fresh surface. Each
// object contributes its active frame, or all of its frames when overlay
// display is enabled; every contributed frame is an isolated shadow
// source. Two calls with identical scene state produce identical output.
func (r *Renderer) Render(s *scene.Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.vp.Width, r.vp.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorutil.White), image.Point{}, draw.Src)

	cfg := &s.Config

	var segs []Segment
	proj := make(map[int][]Projected)
	positionCount := 0
	source := 0

	for _, obj := range s.Objects() {
		frameIdxs := []int{obj.ActiveIndex()}
		if cfg.Display.Overlay {
			frameIdxs = frameIdxs[:0]
			for i := 0; i < obj.FrameCount(); i++ {
				frameIdxs = append(frameIdxs, i)
			}
		}

		for _, fi := range frameIdxs {
			f := obj.Frame(fi)
			if f == nil || f.Len() == 0 {
				continue
			}
			proj[source] = Project(f, obj.Transform, r.vp)
			built := BuildSegments(obj, f, fi, proj[source], cfg, source)
			// Renumber so the tie-break key stays unique across sources.
			for i := range built {
				built[i].Index += len(segs)
			}
			segs = append(segs, built...)
			positionCount += f.Len()
			source++
		}
	}

	SortSegments(segs)
	segs = CullSegments(segs, r.vp, positionCount,
		cfg.Rendering.CullThreshold, cfg.Rendering.CullKeep)

	var shadows *ShadowGrid
	if cfg.Rendering.Shadow {
		shadows = NewShadowGrid(r.vp, segs)
	}

	NewCompositor(r.vp, cfg).ComposeInto(img, segs, shadows, proj)

	if cfg.Display.Box {
		drawBorder(img, colorutil.Gray)
	}
	return img
}

// drawBorder frames the surface with a one-pixel box.
func drawBorder(img *image.RGBA, col color.RGBA) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.SetRGBA(x, b.Min.Y, col)
		img.SetRGBA(x, b.Max.Y-1, col)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.SetRGBA(b.Min.X, y, col)
		img.SetRGBA(b.Max.X-1, y, col)
	}
}
