// Package canvas provides the structure viewport with rotation, zoom and
// residue picking.
package canvas

import (
	"image"
	"math"

	"mol2d/internal/app"
	"mol2d/internal/render"
	"mol2d/internal/scene"
	"mol2d/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	rotateSpeed = 0.01 // radians per dragged pixel
	zoomStep    = 1.25
	pickRadius  = 8.0 // pixels
)

// Tool represents the current interaction tool.
type Tool int

const (
	ToolRotate Tool = iota
	ToolSelect
)

// ViewerCanvas displays the rendered structure and translates mouse input
// into view and selection operations on the session state. It is the
// render host: the scheduler calls RequestPaint and the raster pulls the
// next surface on its refresh.
type ViewerCanvas struct {
	widget.BaseWidget

	state  *app.State
	raster *fynecanvas.Raster
	tool   Tool

	dragging bool
	lastX    float32
	lastY    float32

	// Range-drag state while ToolSelect is active.
	selectActive bool

	// Box-drag state on the pairwise panel.
	paeActive            bool
	paeStartI, paeStartJ int
	paeCurI, paeCurJ     int

	// Last rendered output for sampling
	lastOutput *image.RGBA

	// Callbacks
	onPick       func(index int)
	onZoomChange func()
}

var _ render.Host = (*ViewerCanvas)(nil)

// NewViewerCanvas creates a viewport widget. Bind attaches the state; the
// widget is inert until then.
func NewViewerCanvas() *ViewerCanvas {
	vc := &ViewerCanvas{tool: ToolRotate}
	vc.raster = fynecanvas.NewRaster(vc.draw)
	vc.raster.ScaleMode = fynecanvas.ImageScalePixels
	vc.ExtendBaseWidget(vc)
	return vc
}

// Bind attaches the session state to the widget.
func (vc *ViewerCanvas) Bind(state *app.State) {
	vc.state = state
}

// RequestPaint implements render.Host.
func (vc *ViewerCanvas) RequestPaint() {
	vc.raster.Refresh()
}

// SetTool sets the current interaction tool. Entering select mode resets
// any half-finished range drag.
func (vc *ViewerCanvas) SetTool(tool Tool) {
	if vc.selectActive {
		vc.state.CancelDrag("")
		vc.selectActive = false
	}
	if vc.paeActive {
		vc.paeActive = false
		vc.state.RequestRender("pae drag cancelled")
	}
	vc.tool = tool
}

// GetTool returns the current interaction tool.
func (vc *ViewerCanvas) GetTool() Tool {
	return vc.tool
}

// OnPick sets a callback invoked with the position index of a click pick.
func (vc *ViewerCanvas) OnPick(callback func(index int)) {
	vc.onPick = callback
}

// OnZoomChange sets a callback for zoom changes.
func (vc *ViewerCanvas) OnZoomChange(callback func()) {
	vc.onZoomChange = callback
}

// GetRenderedOutput returns the last rendered surface for sampling.
func (vc *ViewerCanvas) GetRenderedOutput() *image.RGBA {
	return vc.lastOutput
}

// draw is the raster drawing function.
func (vc *ViewerCanvas) draw(w, h int) image.Image {
	if vc.state == nil || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	vc.state.Resize(w, h)

	var out *image.RGBA
	vc.state.Paint(func(img *image.RGBA) {
		out = img
	})
	if out == nil {
		// Nothing pending; render the current scene anyway so the raster
		// always has a surface to show.
		out = vc.state.RenderNow()
	}
	vc.drawPAEPanel(out)
	vc.drawHUD(out)
	vc.lastOutput = out
	return out
}

// Dragged rotates the view or extends a selection range drag.
func (vc *ViewerCanvas) Dragged(ev *fyne.DragEvent) {
	if vc.state == nil {
		return
	}

	if vc.tool == ToolSelect {
		cursor := geometry.NewPoint2D(float64(ev.Position.X), float64(ev.Position.Y))

		// A drag starting on the pairwise panel picks a box there.
		if panel := vc.paePanelRect(); panel.Width > 0 &&
			(vc.paeActive || (!vc.selectActive && panel.Contains(cursor))) {
			ref := vc.activeFrame()
			if ref == nil {
				return
			}
			i, j := vc.paeCell(panel, cursor, ref.frame.PAEDim())
			if !vc.paeActive {
				vc.paeActive = true
				vc.paeStartI, vc.paeStartJ = i, j
			}
			vc.paeCurI, vc.paeCurJ = i, j
			vc.state.RequestRender("pae box drag")
			return
		}

		idx, ok := vc.pick(float64(ev.Position.X), float64(ev.Position.Y))
		if !ok {
			return
		}
		if !vc.selectActive {
			vc.selectActive = true
			vc.state.BeginDrag("", idx)
		} else {
			vc.state.UpdateDrag("", idx)
		}
		return
	}

	if !vc.dragging {
		vc.dragging = true
		vc.lastX = ev.Position.X
		vc.lastY = ev.Position.Y
		return
	}
	dx := float64(ev.Position.X - vc.lastX)
	dy := float64(ev.Position.Y - vc.lastY)
	vc.lastX = ev.Position.X
	vc.lastY = ev.Position.Y
	vc.state.RotateView(dx*rotateSpeed, dy*rotateSpeed)
}

// DragEnd finishes a rotation, commits a selection range drag, or turns a
// finished panel drag into a box pick.
func (vc *ViewerCanvas) DragEnd() {
	vc.dragging = false
	if vc.tool != ToolSelect {
		return
	}
	if vc.paeActive {
		vc.commitPAEBox()
		return
	}
	if vc.selectActive {
		vc.selectActive = false
		vc.state.CommitDrag("")
	}
}

// Scrolled zooms with the mouse wheel.
func (vc *ViewerCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if vc.state == nil {
		return
	}
	if ev.Scrolled.DY > 0 {
		vc.state.ZoomView(zoomStep)
	} else if ev.Scrolled.DY < 0 {
		vc.state.ZoomView(1 / zoomStep)
	}
	if vc.onZoomChange != nil {
		vc.onZoomChange()
	}
}

// Tapped toggles the picked position of the last object.
func (vc *ViewerCanvas) Tapped(ev *fyne.PointEvent) {
	if vc.state == nil {
		return
	}

	// Reject clicks outside widget bounds (Fyne can deliver these)
	size := vc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	idx, ok := vc.pick(float64(ev.Position.X), float64(ev.Position.Y))
	if !ok {
		return
	}
	vc.state.ToggleResidue("", idx)
	if vc.onPick != nil {
		vc.onPick(idx)
	}
}

// TappedSecondary resets the selection of the last object.
func (vc *ViewerCanvas) TappedSecondary(ev *fyne.PointEvent) {
	if vc.state == nil {
		return
	}
	vc.state.SelectAll("")
}

// frameRef pairs an object with its active frame for pick calculations.
type frameRef struct {
	obj   *scene.Object
	frame *scene.Frame
}

func (vc *ViewerCanvas) activeFrame() *frameRef {
	obj := vc.state.Scene.Last()
	if obj == nil {
		return nil
	}
	f := obj.ActiveFrame()
	if f == nil {
		return nil
	}
	return &frameRef{obj: obj, frame: f}
}

// pick finds the position nearest to a screen point, preferring the
// nearest-to-viewer candidate within the pick radius.
func (vc *ViewerCanvas) pick(x, y float64) (int, bool) {
	ref := vc.activeFrame()
	if ref == nil {
		return 0, false
	}
	cfg := vc.state.Scene.Config
	vp := render.Viewport{Width: cfg.Display.Width, Height: cfg.Display.Height}
	proj := render.Project(ref.frame, ref.obj.Transform, vp)
	cursor := geometry.NewPoint2D(x, y)

	// Cheap reject when the cursor is outside the structure footprint.
	pts := make([]geometry.Point2D, len(proj))
	for i, p := range proj {
		pts[i] = p.Screen
	}
	bounds := geometry.BoundingBox(pts)
	reach := geometry.NewRect(bounds.X-pickRadius, bounds.Y-pickRadius,
		bounds.Width+2*pickRadius, bounds.Height+2*pickRadius)
	if len(pts) == 0 || !reach.Contains(cursor) {
		return 0, false
	}

	best := -1
	bestDepth := math.Inf(-1)
	for i, p := range proj {
		if cursor.Distance(p.Screen) > pickRadius {
			continue
		}
		if best < 0 || p.Depth > bestDepth {
			best = i
			bestDepth = p.Depth
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// CreateRenderer implements fyne.Widget.
func (vc *ViewerCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(vc.raster)
}
