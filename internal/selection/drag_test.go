package selection

import (
	"reflect"
	"testing"
)

func TestDragSelectCommit(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A", "A"}
	m.ClearAll()

	d := NewDrag(m)
	d.Begin(1, chains) // hidden start: select mode
	if !d.Active() {
		t.Fatal("drag did not start")
	}
	d.Update(3)
	d.Commit(chains)

	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("visible = %v, want [1 2 3]", got)
	}
	if d.Active() {
		t.Error("drag still active after commit")
	}
}

func TestDragUnselectFromVisibleStart(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A"}

	d := NewDrag(m)
	d.Begin(0, chains) // default mode: everything visible, so unselect
	d.Update(1)
	d.Commit(chains)

	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("visible = %v, want [2 3]", got)
	}
}

func TestDragDirectionSymmetry(t *testing.T) {
	chains := []string{"A", "A", "A", "A", "A", "A"}

	forward := NewModel()
	forward.ClearAll()
	d := NewDrag(forward)
	d.Begin(1, chains)
	d.Update(4)
	d.Commit(chains)

	backward := NewModel()
	backward.ClearAll()
	d = NewDrag(backward)
	d.Begin(4, chains)
	d.Update(1)
	d.Commit(chains)

	if !reflect.DeepEqual(visibleSlice(forward, chains), visibleSlice(backward, chains)) {
		t.Errorf("drag result depends on direction: %v vs %v",
			visibleSlice(forward, chains), visibleSlice(backward, chains))
	}
}

func TestDragPreviewDoesNotTouchModel(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A"}
	m.ClearAll()

	d := NewDrag(m)
	d.Begin(0, chains)
	d.Update(2)

	preview := d.Preview()
	if len(preview) != 3 {
		t.Errorf("preview size = %d, want 3", len(preview))
	}
	if got := visibleSlice(m, chains); len(got) != 0 {
		t.Errorf("preview mutated model: visible = %v", got)
	}
}

func TestDragModeFixedAtBegin(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A"}
	m.ClearAll()
	m.ToggleResidue(2, chains)

	// Start on hidden 0: select mode, even though the path crosses the
	// visible position 2.
	d := NewDrag(m)
	d.Begin(0, chains)
	d.Update(3)
	d.Commit(chains)

	if m.Mode() != ModeDefault {
		t.Errorf("mode = %v, want default after selecting all", m.Mode())
	}
}

func TestDragCancelRestores(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A"}
	m.ClearAll()

	d := NewDrag(m)
	d.Begin(0, chains)
	d.Update(2)
	d.Cancel()

	if got := visibleSlice(m, chains); len(got) != 0 {
		t.Errorf("cancel leaked selection: visible = %v", got)
	}
	if d.Active() {
		t.Error("drag still active after cancel")
	}
}

func TestDragUpdateClamps(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A"}
	m.ClearAll()

	d := NewDrag(m)
	d.Begin(1, chains)
	d.Update(99)
	d.Commit(chains)

	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("visible = %v, want [1 2]", got)
	}
}

func TestDragBeginOutOfRangeIgnored(t *testing.T) {
	m := NewModel()
	d := NewDrag(m)
	d.Begin(5, []string{"A", "A"})
	if d.Active() {
		t.Error("out-of-range begin started a gesture")
	}
}

func TestDragUnselectOverBoxMatchesPreview(t *testing.T) {
	m := NewModel()
	chains := []string{"A", "A", "A", "A", "A", "A"}
	m.ClearAll()
	m.AddPAEBox(PAEBox{I: Range{Start: 0, End: 2}, J: Range{Start: 4, End: 5}})

	d := NewDrag(m)
	d.Begin(0, chains) // box-visible start: unselect mode
	d.Update(2)

	previewSet := d.Preview()
	preview := make([]int, 0, len(previewSet))
	for i := 0; i < len(chains); i++ {
		if _, ok := previewSet[i]; ok {
			preview = append(preview, i)
		}
	}
	if !reflect.DeepEqual(preview, []int{4, 5}) {
		t.Fatalf("preview = %v, want [4 5]", preview)
	}

	d.Commit(chains)
	got := visibleSlice(m, chains)
	if !reflect.DeepEqual(got, preview) {
		t.Errorf("committed visible = %v, preview was %v", got, preview)
	}
	if len(m.PAEBoxes()) != 0 {
		t.Errorf("box picks survived a range commit: %v", m.PAEBoxes())
	}
}
