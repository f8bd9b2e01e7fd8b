package selection

// Drag tracks one range-selection gesture. The select-versus-unselect
// decision is fixed on pointer-down from the start item's visibility, and
// the preview set is recomputed against the pre-drag state on every move.
// Nothing reaches the Model until Commit; Cancel discards the gesture.
type Drag struct {
	model    *Model
	active   bool
	unselect bool
	start    int
	current  int
	preDrag  map[int]struct{}
	n        int
}

// NewDrag creates a drag tracker bound to a selection model.
func NewDrag(model *Model) *Drag {
	return &Drag{model: model}
}

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool { return d.active }

// Begin starts a gesture at the given item. A gesture starting on a
// visible item unselects over its path; one starting on a hidden item
// selects. Out-of-range start items are ignored.
func (d *Drag) Begin(item int, chains []string) {
	if item < 0 || item >= len(chains) {
		return
	}
	visible := d.model.Visible(chains)
	_, startVisible := visible[item]

	d.active = true
	d.unselect = startVisible
	d.start = item
	d.current = item
	d.preDrag = visible
	d.n = len(chains)
}

// Update moves the gesture endpoint. Items outside the frame are clamped.
func (d *Drag) Update(item int) {
	if !d.active {
		return
	}
	if item < 0 {
		item = 0
	}
	if item >= d.n {
		item = d.n - 1
	}
	d.current = item
}

// Preview returns the pre-drag visible set with every item between the
// gesture start and the current item toggled consistently. It is exposed
// for live feedback only; the model is untouched.
func (d *Drag) Preview() map[int]struct{} {
	out := make(map[int]struct{}, len(d.preDrag))
	for i := range d.preDrag {
		out[i] = struct{}{}
	}
	if !d.active {
		return out
	}

	lo, hi := d.start, d.current
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		if d.unselect {
			delete(out, i)
		} else {
			out[i] = struct{}{}
		}
	}
	return out
}

// Commit applies the gesture to the model and ends it.
func (d *Drag) Commit(chains []string) {
	if !d.active {
		return
	}
	d.model.SetRange(d.start, d.current, d.unselect, chains)
	d.reset()
}

// Cancel discards the gesture, reverting to the last committed selection.
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.active = false
	d.preDrag = nil
	d.start = 0
	d.current = 0
}
