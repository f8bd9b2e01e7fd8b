package canvas

import (
	"image"
	"image/color"

	"mol2d/internal/selection"
	"mol2d/pkg/colorutil"
	"mol2d/pkg/geometry"
)

const paePanelMargin = 8

// paeGood/paeBad bound the panel color ramp: confident pairs plot dark
// green, uncertain pairs fade to white.
var (
	paeGood = color.RGBA{R: 0x1B, G: 0x7E, B: 0x37, A: 0xFF}
	paeBad  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// paeRampMax is the PAE value mapped to the far end of the ramp, matching
// the storable range of the quantized matrix.
const paeRampMax = 31.875

// paePanelRect returns the screen rectangle of the pairwise panel, or a
// zero rectangle when the panel is disabled or there is nothing to plot.
func (vc *ViewerCanvas) paePanelRect() geometry.Rect {
	if vc.state == nil {
		return geometry.Rect{}
	}
	cfg := vc.state.Scene.Config
	if !cfg.PAE.Enabled {
		return geometry.Rect{}
	}
	ref := vc.activeFrame()
	if ref == nil || !ref.frame.HasPAE() {
		return geometry.Rect{}
	}
	size := cfg.PAE.Size
	if size <= 0 {
		size = 300
	}
	w := float64(cfg.Display.Width)
	if float64(size)+2*paePanelMargin > w {
		size = int(w) - 2*paePanelMargin
		if size < 16 {
			return geometry.Rect{}
		}
	}
	return geometry.NewRect(w-float64(size)-paePanelMargin, paePanelMargin,
		float64(size), float64(size))
}

// drawPAEPanel plots the active frame's pairwise confidence matrix in the
// top-right corner.
func (vc *ViewerCanvas) drawPAEPanel(output *image.RGBA) {
	r := vc.paePanelRect()
	if r.Width <= 0 {
		return
	}
	ref := vc.activeFrame()
	dim := ref.frame.PAEDim()
	bounds := output.Bounds()

	x0, y0 := int(r.X), int(r.Y)
	size := int(r.Width)
	for py := 0; py < size; py++ {
		i := py * dim / size
		for px := 0; px < size; px++ {
			j := px * dim / size
			v := ref.frame.PAEAt(i, j)
			col := colorutil.Lerp(paeGood, paeBad, v/paeRampMax)
			x, y := x0+px, y0+py
			if x >= bounds.Min.X && x < bounds.Max.X &&
				y >= bounds.Min.Y && y < bounds.Max.Y {
				output.SetRGBA(x, y, col)
			}
		}
	}

	// Outline the current drag box while one is in flight.
	if vc.paeActive {
		vc.drawPAEBox(output, r, dim)
	}
}

// drawPAEBox traces the in-flight panel drag as a rectangle.
func (vc *ViewerCanvas) drawPAEBox(output *image.RGBA, r geometry.Rect, dim int) {
	size := int(r.Width)
	toPx := func(cell int) int { return cell * size / dim }

	i0, i1 := orderRange(vc.paeStartI, vc.paeCurI)
	j0, j1 := orderRange(vc.paeStartJ, vc.paeCurJ)
	x0, x1 := int(r.X)+toPx(j0), int(r.X)+toPx(j1+1)
	y0, y1 := int(r.Y)+toPx(i0), int(r.Y)+toPx(i1+1)

	bounds := output.Bounds()
	set := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X &&
			y >= bounds.Min.Y && y < bounds.Max.Y {
			output.SetRGBA(x, y, colorutil.Gray)
		}
	}
	for x := x0; x <= x1; x++ {
		set(x, y0)
		set(x, y1)
	}
	for y := y0; y <= y1; y++ {
		set(x0, y)
		set(x1, y)
	}
}

// paeCell maps a screen point inside the panel to matrix indices.
func (vc *ViewerCanvas) paeCell(r geometry.Rect, p geometry.Point2D, dim int) (int, int) {
	i := int((p.Y - r.Y) * float64(dim) / r.Height)
	j := int((p.X - r.X) * float64(dim) / r.Width)
	return clampCell(i, dim), clampCell(j, dim)
}

func clampCell(i, dim int) int {
	if i < 0 {
		return 0
	}
	if i >= dim {
		return dim - 1
	}
	return i
}

func orderRange(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// commitPAEBox turns the finished panel drag into a box pick.
func (vc *ViewerCanvas) commitPAEBox() {
	vc.paeActive = false
	i0, i1 := orderRange(vc.paeStartI, vc.paeCurI)
	j0, j1 := orderRange(vc.paeStartJ, vc.paeCurJ)
	box := selection.PAEBox{
		I: selection.Range{Start: i0, End: i1},
		J: selection.Range{Start: j0, End: j1},
	}
	if err := vc.state.AddPAEBox("", box); err == nil {
		return
	}
	vc.state.RequestRender("pae box rejected")
}
