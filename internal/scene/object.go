package scene

import (
	"fmt"

	"mol2d/internal/alignment"
	"mol2d/internal/selection"

	"github.com/google/uuid"
)

// ErrNoPAE is reported when a PAE-dependent operation is requested for an
// object whose active frame has no pairwise confidence matrix.
var ErrNoPAE = fmt.Errorf("pairwise confidence selection unsupported for this object")

// Object is a named owner of an ordered frame list, a persistent viewer
// transform and one selection model. Objects are created explicitly and
// persist until the scene is cleared.
type Object struct {
	ID   string
	Name string

	frames []*Frame
	active int

	Transform ViewTransform
	Selection *selection.Model

	Bonds    []Bond
	Contacts []Contact
	Colors   ColorOverrides

	// preview overrides the committed selection while a range drag is in
	// flight. Nil when no gesture is active.
	preview map[int]struct{}
}

// NewObject creates an empty object.
func NewObject(name string) *Object {
	return &Object{
		ID:        uuid.NewString(),
		Name:      name,
		Transform: NewViewTransform(),
		Selection: selection.NewModel(),
		Colors:    NewColorOverrides(),
	}
}

// FrameCount returns the number of frames.
func (o *Object) FrameCount() int { return len(o.frames) }

// Frame returns the frame at index i, or nil when out of range.
func (o *Object) Frame(i int) *Frame {
	if i < 0 || i >= len(o.frames) {
		return nil
	}
	return o.frames[i]
}

// ActiveIndex returns the active frame index.
func (o *Object) ActiveIndex() int { return o.active }

// ActiveFrame returns the active frame, or nil when the object is empty.
func (o *Object) ActiveFrame() *Frame { return o.Frame(o.active) }

// SetActiveIndex switches the active frame. Out-of-range indices wrap,
// which lets playback loop without a special case.
func (o *Object) SetActiveIndex(i int) {
	if len(o.frames) == 0 {
		o.active = 0
		return
	}
	i %= len(o.frames)
	if i < 0 {
		i += len(o.frames)
	}
	o.active = i
}

// AppendFrame adds a frame to the object. The first frame computes the
// best-view orientation and the rotation center; later frames are rigidly
// aligned onto the first frame when align is set and the position counts
// match. The selection model and viewer transform survive.
func (o *Object) AppendFrame(f *Frame, align bool) {
	if len(o.frames) == 0 {
		rot, center := alignment.BestOrientation(f.Coords())
		o.Transform.Rotation = rot
		o.Transform.Center = center
		o.Transform.Extent = 0
		o.Transform.fitExtent(f.Coords())
		o.frames = append(o.frames, f)
		return
	}

	ref := o.frames[0]
	if align && ref.Len() == f.Len() && f.Len() > 0 {
		coords := f.Coords()
		aligned := alignment.AlignAToB(coords, coords, ref.Coords())
		f = f.withCoords(aligned)
	}
	o.Transform.fitExtent(f.Coords())
	o.frames = append(o.frames, f)
}

// SetBonds replaces the explicit bond list, dropping invalid entries
// against the active frame.
func (o *Object) SetBonds(bonds []Bond) {
	n := 0
	if f := o.ActiveFrame(); f != nil {
		n = f.Len()
	}
	o.Bonds = ValidBonds(bonds, n)
}

// AddContacts appends contacts, dropping invalid entries against the
// active frame.
func (o *Object) AddContacts(contacts []Contact) {
	n := 0
	if f := o.ActiveFrame(); f != nil {
		n = f.Len()
	}
	o.Contacts = append(o.Contacts, ValidContacts(contacts, n)...)
}

// VisiblePositions returns the set of currently visible position indices
// for the active frame.
func (o *Object) VisiblePositions() map[int]struct{} {
	f := o.ActiveFrame()
	if f == nil {
		return map[int]struct{}{}
	}
	return o.Selection.Visible(f.Chains())
}

// SetVisiblePreview installs a live-feedback visibility override for the
// duration of a range drag. Rendering uses it instead of the committed
// selection until ClearVisiblePreview.
func (o *Object) SetVisiblePreview(visible map[int]struct{}) {
	o.preview = visible
}

// ClearVisiblePreview removes the drag-preview override.
func (o *Object) ClearVisiblePreview() {
	o.preview = nil
}

// VisibleSet returns the visibility set rendering should honor: the drag
// preview while one is active, otherwise the committed selection.
func (o *Object) VisibleSet(chains []string) map[int]struct{} {
	if o.preview != nil {
		return o.preview
	}
	return o.Selection.Visible(chains)
}

// RefitExtent recomputes the bounding extent around the current rotation
// center from every frame. Needed when the center is replaced after the
// frames were appended.
func (o *Object) RefitExtent() {
	o.Transform.Extent = 0
	for _, f := range o.frames {
		o.Transform.fitExtent(f.Coords())
	}
}

// AddPAEBox records a pairwise box pick. Objects without a PAE matrix on
// the active frame report ErrNoPAE; every other selection source remains
// usable.
func (o *Object) AddPAEBox(box selection.PAEBox) error {
	f := o.ActiveFrame()
	if f == nil || !f.HasPAE() {
		return ErrNoPAE
	}
	o.Selection.AddPAEBox(box)
	return nil
}

// ResetSelection replaces the selection model, used on structure reload.
func (o *Object) ResetSelection() {
	o.Selection = selection.NewModel()
}
