package render

import (
	"image"
	"image/color"

	"mol2d/internal/scene"
	"mol2d/pkg/colorutil"
)

// dimFactor darkens segments outside the current selection. They stay on
// screen to preserve spatial context.
const dimFactor = 0.3

// outlineDarken is the brightness factor of the outline stroke relative to
// the fill color.
const outlineDarken = 0.45

// Compositor draws sorted, culled segments onto an RGBA surface.
type Compositor struct {
	vp  Viewport
	cfg *scene.Config
}

// NewCompositor creates a compositor for the viewport.
func NewCompositor(vp Viewport, cfg *scene.Config) *Compositor {
	return &Compositor{vp: vp, cfg: cfg}
}

// Compose draws the segments, far to near, into a fresh image. Each
// segment gets an outline stroke (when outlining is on) followed by its
// fill stroke, so nearer segments cleanly overdraw farther ones.
func (c *Compositor) Compose(segs []Segment, shadows *ShadowGrid, proj map[int][]Projected) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.vp.Width, c.vp.Height))
	c.ComposeInto(img, segs, shadows, proj)
	return img
}

// ComposeInto draws into an existing surface without clearing it, which
// lets the caller stack a background underneath.
func (c *Compositor) ComposeInto(img *image.RGBA, segs []Segment, shadows *ShadowGrid, proj map[int][]Projected) {
	outline := c.cfg.Rendering.Outline

	for _, s := range segs {
		pts := proj[s.Source]
		if s.A >= len(pts) || s.B >= len(pts) {
			continue
		}
		a := pts[s.A]
		b := pts[s.B]

		col := s.Color
		if !s.Visible {
			col = colorutil.Scale(col, dimFactor)
		}
		if c.cfg.Rendering.Shadow && shadows != nil && shadows.Shadowed(s) {
			col = colorutil.Scale(col, 1-c.cfg.Rendering.ShadowStrength)
		}

		// Perspective thins distant sticks.
		w := s.Width * (a.Scale + b.Scale) / 2
		if w < 1 {
			w = 1
		}
		wi := int(w + 0.5)

		x1, y1 := int(a.Screen.X+0.5), int(a.Screen.Y+0.5)
		x2, y2 := int(b.Screen.X+0.5), int(b.Screen.Y+0.5)

		if outline != scene.OutlineNone {
			oc := colorutil.Scale(col, outlineDarken)
			drawLine(img, x1, y1, x2, y2, oc, wi+2)
			if outline == scene.OutlineFull {
				// Round caps close the outline at the joints.
				drawDisc(img, x1, y1, (wi+2)/2+1, oc)
				drawDisc(img, x2, y2, (wi+2)/2+1, oc)
			}
		}
		drawLine(img, x1, y1, x2, y2, col, wi)
		if outline == scene.OutlineFull {
			drawDisc(img, x1, y1, wi/2, col)
			drawDisc(img, x2, y2, wi/2, col)
		}
	}
}

// drawLine draws a thick line using Bresenham stepping with a square
// brush.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDisc fills a circle, used for round line caps.
func drawDisc(output *image.RGBA, cx, cy, radius int, col color.RGBA) {
	if radius <= 0 {
		return
	}
	bounds := output.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			px, py := cx+dx, cy+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				output.SetRGBA(px, py, col)
			}
		}
	}
}
