// Package selection holds per-object highlight state and its combination
// rules. The model is pure data: it knows nothing about rendering and is
// mutated only from the event thread.
package selection

import "sort"

// Mode describes how the residue and chain sets are interpreted.
type Mode int

const (
	// ModeDefault with empty residues/chains means every position is
	// visible.
	ModeDefault Mode = iota
	// ModeExplicitEmpty means nothing is visible.
	ModeExplicitEmpty
	// ModeExplicitPartial means exactly the recorded sets are visible.
	ModeExplicitPartial
)

// String returns a readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeExplicitEmpty:
		return "explicit-empty"
	case ModeExplicitPartial:
		return "explicit-partial"
	default:
		return "unknown"
	}
}

// Range is an inclusive index interval.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// PAEBox is a box pick on the pairwise confidence matrix. It contributes
// the positions of both its ranges to the selected set; the mirrored box
// sometimes drawn on screen is presentation only and never stored.
type PAEBox struct {
	I Range `json:"i"`
	J Range `json:"j"`
}

// Model is the selection state for one object.
type Model struct {
	residues map[int]struct{}
	chains   map[string]struct{}
	paeBoxes []PAEBox
	mode     Mode
}

// NewModel returns a model in the default (all visible) state.
func NewModel() *Model {
	return &Model{
		residues: make(map[int]struct{}),
		chains:   make(map[string]struct{}),
		mode:     ModeDefault,
	}
}

// Mode returns the current selection mode.
func (m *Model) Mode() Mode { return m.mode }

// Residues returns the explicitly selected residue indices in ascending
// order.
func (m *Model) Residues() []int {
	out := make([]int, 0, len(m.residues))
	for i := range m.residues {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Chains returns the explicitly selected chain ids in ascending order.
func (m *Model) Chains() []string {
	out := make([]string, 0, len(m.chains))
	for c := range m.chains {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// PAEBoxes returns the recorded box picks in insertion order.
func (m *Model) PAEBoxes() []PAEBox {
	out := make([]PAEBox, len(m.paeBoxes))
	copy(out, m.paeBoxes)
	return out
}

// Snapshot returns an independent copy of the model.
func (m *Model) Snapshot() *Model {
	s := NewModel()
	for i := range m.residues {
		s.residues[i] = struct{}{}
	}
	for c := range m.chains {
		s.chains[c] = struct{}{}
	}
	s.paeBoxes = append(s.paeBoxes, m.paeBoxes...)
	s.mode = m.mode
	return s
}

// Visible computes the set of visible position indices. chains is the
// per-position chain id array of the active frame; its length defines the
// position count. Indices recorded beyond that length are ignored, since
// UI events can race a structure swap.
func (m *Model) Visible(chains []string) map[int]struct{} {
	n := len(chains)
	out := make(map[int]struct{}, n)

	if m.mode == ModeDefault {
		for i := 0; i < n; i++ {
			out[i] = struct{}{}
		}
		return out
	}

	for i := range m.residues {
		if i >= 0 && i < n {
			out[i] = struct{}{}
		}
	}
	for i, c := range chains {
		if _, ok := m.chains[c]; ok {
			out[i] = struct{}{}
		}
	}
	for _, box := range m.paeBoxes {
		for _, r := range []Range{box.I, box.J} {
			for i := r.Start; i <= r.End; i++ {
				if i >= 0 && i < n {
					out[i] = struct{}{}
				}
			}
		}
	}
	return out
}

// IsVisible reports whether position i is currently visible.
func (m *Model) IsVisible(i int, chains []string) bool {
	if m.mode == ModeDefault {
		return i >= 0 && i < len(chains)
	}
	_, ok := m.Visible(chains)[i]
	return ok
}

// SelectAll returns to the default state: residues and chains cleared,
// everything implicitly selected. Box picks survive.
func (m *Model) SelectAll() {
	m.residues = make(map[int]struct{})
	m.chains = make(map[string]struct{})
	m.mode = ModeDefault
}

// ClearAll empties the selection entirely, including box picks.
func (m *Model) ClearAll() {
	m.residues = make(map[int]struct{})
	m.chains = make(map[string]struct{})
	m.paeBoxes = nil
	m.mode = ModeExplicitEmpty
}

// ToggleResidue flips the selection state of one position. The model is
// recomputed from the currently visible set, so toggling under the default
// mode first expands to the full set.
func (m *Model) ToggleResidue(i int, chains []string) {
	if i < 0 || i >= len(chains) {
		return
	}
	visible := m.Visible(chains)
	if _, ok := visible[i]; ok {
		delete(visible, i)
	} else {
		visible[i] = struct{}{}
	}
	m.setFromVisible(visible, len(chains))
}

// ToggleChain flips a whole chain. The chain counts as selected only when
// every one of its positions is in the explicit selection; toggling sets or
// clears them all. Unlike ToggleResidue, the default mode is not expanded
// first: toggling a chain while everything is implicitly visible starts an
// explicit selection of just that chain.
func (m *Model) ToggleChain(chain string, chains []string) {
	members := make([]int, 0)
	for i, c := range chains {
		if c == chain {
			members = append(members, i)
		}
	}
	if len(members) == 0 {
		return
	}

	visible := m.explicitVisible(chains)
	allSelected := true
	for _, i := range members {
		if _, ok := visible[i]; !ok {
			allSelected = false
			break
		}
	}

	for _, i := range members {
		if allSelected {
			delete(visible, i)
		} else {
			visible[i] = struct{}{}
		}
	}
	m.setFromVisible(visible, len(chains))
}

// SetRange selects or unselects every position between a and b inclusive,
// recomputed from the currently visible set. unselect mirrors the mode a
// drag gesture captured on pointer-down.
func (m *Model) SetRange(a, b int, unselect bool, chains []string) {
	if a > b {
		a, b = b, a
	}
	visible := m.Visible(chains)
	for i := a; i <= b; i++ {
		if i < 0 || i >= len(chains) {
			continue
		}
		if unselect {
			delete(visible, i)
		} else {
			visible[i] = struct{}{}
		}
	}
	m.setFromVisible(visible, len(chains))
}

// AddPAEBox appends a box pick. Residues, chains and mode stay untouched,
// except that an explicitly empty model with a box pick is no longer empty.
func (m *Model) AddPAEBox(box PAEBox) {
	m.paeBoxes = append(m.paeBoxes, box)
	if m.mode == ModeExplicitEmpty {
		m.mode = ModeExplicitPartial
	}
}

// explicitVisible computes the visible set from the explicit fields only,
// treating the default mode as empty.
func (m *Model) explicitVisible(chains []string) map[int]struct{} {
	if m.mode == ModeDefault {
		return make(map[int]struct{})
	}
	return m.Visible(chains)
}

// setFromVisible flattens a computed visible set back into model state and
// reclassifies the mode. Box picks are dropped: their contribution is
// already folded into the set, and keeping them would resurrect positions
// the caller just removed.
func (m *Model) setFromVisible(visible map[int]struct{}, n int) {
	m.residues = visible
	m.chains = make(map[string]struct{})
	m.paeBoxes = nil

	switch {
	case len(visible) == 0:
		m.mode = ModeExplicitEmpty
	case len(visible) == n:
		// Everything selected collapses back to the default state.
		m.residues = make(map[int]struct{})
		m.mode = ModeDefault
	default:
		m.mode = ModeExplicitPartial
	}
}

// Patch is a partial update for the write API. Nil fields keep their
// current value; explicitly empty slices clear only that field.
type Patch struct {
	Residues *[]int
	Chains   *[]string
	PAEBoxes *[]PAEBox
	Mode     *Mode
}

// Apply merges a patch into the model.
func (m *Model) Apply(p Patch) {
	if p.Residues != nil {
		m.residues = make(map[int]struct{}, len(*p.Residues))
		for _, i := range *p.Residues {
			m.residues[i] = struct{}{}
		}
	}
	if p.Chains != nil {
		m.chains = make(map[string]struct{}, len(*p.Chains))
		for _, c := range *p.Chains {
			m.chains[c] = struct{}{}
		}
	}
	if p.PAEBoxes != nil {
		m.paeBoxes = append([]PAEBox(nil), (*p.PAEBoxes)...)
	}
	if p.Mode != nil {
		m.mode = *p.Mode
	} else if p.Residues != nil || p.Chains != nil || p.PAEBoxes != nil {
		// Without an explicit mode, reclassify from content.
		if len(m.residues) == 0 && len(m.chains) == 0 && len(m.paeBoxes) == 0 {
			if m.mode == ModeExplicitPartial {
				m.mode = ModeExplicitEmpty
			}
		} else if m.mode != ModeDefault {
			m.mode = ModeExplicitPartial
		}
	}
}
