package selection

import (
	"reflect"
	"testing"
)

func visibleSlice(m *Model, chains []string) []int {
	vis := m.Visible(chains)
	out := make([]int, 0, len(vis))
	for i := 0; i < len(chains); i++ {
		if _, ok := vis[i]; ok {
			out = append(out, i)
		}
	}
	return out
}

func TestDefaultModeShowsEverything(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "B"}

	if m.Mode() != ModeDefault {
		t.Fatalf("new model mode = %v, want default", m.Mode())
	}
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("visible = %v, want all positions", got)
	}
}

func TestToggleResidueExpandsDefault(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A"}

	// Toggling under the default mode removes from the full set.
	m.ToggleResidue(1, chains)
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{0, 2, 3}) {
		t.Errorf("after toggle: visible = %v, want [0 2 3]", got)
	}
	if m.Mode() != ModeExplicitPartial {
		t.Errorf("mode = %v, want explicit-partial", m.Mode())
	}

	// Toggling it back restores the full set and the default mode.
	m.ToggleResidue(1, chains)
	if m.Mode() != ModeDefault {
		t.Errorf("mode after restore = %v, want default", m.Mode())
	}
}

func TestToggleResidueOutOfRangeIgnored(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A"}

	m.ToggleResidue(-1, chains)
	m.ToggleResidue(2, chains)
	if m.Mode() != ModeDefault {
		t.Errorf("out-of-range toggle changed mode to %v", m.Mode())
	}
}

func TestToggleChainFromDefaultSelectsOnlyThatChain(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "B"}

	m.ToggleChain("B", chains)
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("visible = %v, want [2]", got)
	}
	if m.Mode() != ModeExplicitPartial {
		t.Errorf("mode = %v, want explicit-partial", m.Mode())
	}
}

func TestToggleChainOnAndOff(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "B", "B"}

	// The first chain toggle starts an explicit selection of that chain.
	m.ToggleChain("A", chains)
	if got := visibleSlice(m, chains); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("visible = %v, want [0 1]", got)
	}

	// A fully selected chain toggles off again, leaving nothing.
	m.ToggleChain("A", chains)
	if m.Mode() != ModeExplicitEmpty {
		t.Fatalf("mode = %v, want explicit-empty", m.Mode())
	}

	// From empty, the chain toggles back on.
	m.ToggleChain("A", chains)
	m.ToggleChain("B", chains)
	// Everything selected collapses back to the default state.
	if m.Mode() != ModeDefault {
		t.Fatalf("mode = %v, want default after selecting all chains", m.Mode())
	}
	if got := visibleSlice(m, chains); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("visible = %v, want all", got)
	}
}

func TestToggleChainPartialChainSelects(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "B"}

	// Only half of chain A selected: toggling selects the rest.
	m.ToggleChain("A", chains)
	m.ToggleResidue(0, chains)
	m.ToggleChain("A", chains)

	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("visible = %v, want [0 1]", got)
	}
}

func TestToggleUnknownChainIsNoOp(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A"}

	m.ToggleChain("Z", chains)
	if m.Mode() != ModeDefault {
		t.Errorf("unknown chain toggle changed mode to %v", m.Mode())
	}
}

func TestClearAllThenToggle(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "B", "B"}

	m.ClearAll()
	if m.Mode() != ModeExplicitEmpty {
		t.Fatalf("mode after clear = %v, want explicit-empty", m.Mode())
	}
	if got := visibleSlice(m, chains); len(got) != 0 {
		t.Fatalf("visible after clear = %v, want empty", got)
	}

	m.ToggleResidue(1, chains)
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("visible = %v, want [1]", got)
	}
}

func TestSetRangeSelectAndUnselect(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A", "A"}

	m.ClearAll()
	m.SetRange(3, 1, false, chains) // reversed endpoints
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("visible = %v, want [1 2 3]", got)
	}

	m.SetRange(2, 4, true, chains)
	got = visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("visible = %v, want [1]", got)
	}
}

func TestSetRangeClampsOutOfRange(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A"}

	m.ClearAll()
	m.SetRange(-5, 10, false, chains)
	if m.Mode() != ModeDefault {
		t.Errorf("selecting every position should collapse to default, got %v", m.Mode())
	}
}

func TestPAEBoxContributesBothRanges(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A", "A", "A"}

	m.ClearAll()
	m.AddPAEBox(PAEBox{I: Range{Start: 0, End: 1}, J: Range{Start: 4, End: 5}})

	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{0, 1, 4, 5}) {
		t.Errorf("visible = %v, want [0 1 4 5]", got)
	}
	if m.Mode() != ModeExplicitPartial {
		t.Errorf("mode = %v, want explicit-partial after box on empty model", m.Mode())
	}
}

func TestSelectAllKeepsBoxes(t *testing.T) {
	m := NewModel()

	m.AddPAEBox(PAEBox{I: Range{0, 1}, J: Range{2, 3}})
	m.SelectAll()
	if len(m.PAEBoxes()) != 1 {
		t.Errorf("SelectAll dropped box picks: %d left", len(m.PAEBoxes()))
	}

	m.ClearAll()
	if len(m.PAEBoxes()) != 0 {
		t.Errorf("ClearAll kept box picks: %d left", len(m.PAEBoxes()))
	}
}

func TestVisibleIsUnionOfSources(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "B", "B", "C", "C"}

	residues := []int{0}
	chainSel := []string{"B"}
	boxes := []PAEBox{{I: Range{4, 4}, J: Range{4, 4}}}
	mode := ModeExplicitPartial
	m.Apply(Patch{Residues: &residues, Chains: &chainSel, PAEBoxes: &boxes, Mode: &mode})

	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{0, 2, 3, 4}) {
		t.Errorf("visible = %v, want union [0 2 3 4]", got)
	}
}

func TestVisibleIgnoresStaleIndices(t *testing.T) {
	m := NewModel()

	residues := []int{0, 7}
	mode := ModeExplicitPartial
	m.Apply(Patch{Residues: &residues, Mode: &mode})

	// The frame shrank to 2 positions; index 7 is silently dropped.
	got := visibleSlice(m, []string{"A", "A"})
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("visible = %v, want [0]", got)
	}
}

func TestApplyNilFieldsKeepState(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A"}

	m.ToggleResidue(0, chains)
	before := m.Residues()

	m.Apply(Patch{})
	if !reflect.DeepEqual(m.Residues(), before) {
		t.Errorf("empty patch changed residues: %v -> %v", before, m.Residues())
	}

	empty := []int{}
	m.Apply(Patch{Residues: &empty})
	if len(m.Residues()) != 0 {
		t.Errorf("explicit empty slice did not clear residues: %v", m.Residues())
	}
	if m.Mode() != ModeExplicitEmpty {
		t.Errorf("mode = %v, want explicit-empty after clearing", m.Mode())
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A"}
	m.ToggleResidue(0, chains)

	snap := m.Snapshot()
	m.ToggleResidue(1, chains)

	if !reflect.DeepEqual(snap.Residues(), []int{1}) {
		t.Errorf("snapshot residues = %v, want [1]", snap.Residues())
	}
}

func TestToggleResidueDropsFoldedBox(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A", "A", "A"}
	m.ClearAll()
	m.AddPAEBox(PAEBox{I: Range{Start: 0, End: 1}, J: Range{Start: 4, End: 5}})

	// Removing a box-contributed position must stick: the box is folded
	// into explicit residues, not re-unioned on the next read.
	m.ToggleResidue(4, chains)
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{0, 1, 5}) {
		t.Errorf("visible = %v, want [0 1 5]", got)
	}
	if len(m.PAEBoxes()) != 0 {
		t.Errorf("box picks survived a toggle: %v", m.PAEBoxes())
	}

	// With the box gone, unselecting the rest reaches the empty state.
	m.ToggleResidue(0, chains)
	m.ToggleResidue(1, chains)
	m.ToggleResidue(5, chains)
	if m.Mode() != ModeExplicitEmpty {
		t.Errorf("mode = %v, want explicit-empty", m.Mode())
	}
}
