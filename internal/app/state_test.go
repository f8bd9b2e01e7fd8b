package app

import (
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"mol2d/internal/scene"
	"mol2d/internal/selection"
	"mol2d/pkg/geometry"
)

type fakeHost struct {
	paints int
}

func (h *fakeHost) RequestPaint() { h.paints++ }

func testCoords(n int) []geometry.Vec3 {
	out := make([]geometry.Vec3, n)
	for i := range out {
		out[i] = geometry.Vec3{X: float64(i) * 3, Y: float64(i % 2), Z: float64(i % 3)}
	}
	return out
}

func newTestState() (*State, *fakeHost) {
	host := &fakeHost{}
	return NewState(host), host
}

func TestAddFrameEmitsAndSchedules(t *testing.T) {
	s, host := newTestState()

	var events []string
	s.On(EventObjectsChanged, func(data interface{}) {
		name, _ := data.(string)
		events = append(events, name)
	})

	obj := s.AddFrame("m", scene.FrameInput{Coords: testCoords(4)}, true)
	if obj == nil || obj.Name != "m" {
		t.Fatalf("AddFrame returned %+v", obj)
	}
	if len(events) != 1 || events[0] != "m" {
		t.Errorf("events = %v", events)
	}
	if host.paints == 0 {
		t.Error("no paint scheduled after AddFrame")
	}
	if !s.Modified {
		t.Error("state not marked modified")
	}
}

func TestPaintCoalescesRequests(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{Coords: testCoords(4)}, true)
	s.RequestRender("a")
	s.RequestRender("b")

	painted := 0
	s.Paint(func(img *image.RGBA) {
		painted++
		if img == nil || img.Bounds().Empty() {
			t.Error("empty paint output")
		}
	})
	if painted != 1 {
		t.Errorf("painted %d times for coalesced requests", painted)
	}

	painted = 0
	s.Paint(func(*image.RGBA) { painted++ })
	if painted != 0 {
		t.Error("paint ran with nothing scheduled")
	}
}

func TestSelectionThroughState(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{
		Coords: testCoords(3),
		Chains: []string{"A", "A", "B"},
	}, true)

	changed := 0
	s.On(EventSelectionChanged, func(interface{}) { changed++ })

	s.ToggleChain("m", "B")
	vis := s.GetVisiblePositions("m")
	if len(vis) != 1 {
		t.Errorf("visible = %v, want only chain B", vis)
	}
	if _, ok := vis[2]; !ok {
		t.Error("position 2 not visible")
	}

	s.SelectAll("m")
	if len(s.GetVisiblePositions("m")) != 3 {
		t.Error("SelectAll did not restore default visibility")
	}

	s.ClearSelection("m")
	if len(s.GetVisiblePositions("m")) != 0 {
		t.Error("ClearSelection left positions visible")
	}

	if changed != 3 {
		t.Errorf("selection events = %d, want 3", changed)
	}
}

func TestEmptyNameTargetsLastObject(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("first", scene.FrameInput{Coords: testCoords(2)}, true)
	s.AddFrame("second", scene.FrameInput{Coords: testCoords(2)}, true)

	s.ToggleResidue("", 0)
	if len(s.GetVisiblePositions("second")) != 1 {
		t.Error("empty name did not target the last object")
	}
	if len(s.GetVisiblePositions("first")) != 2 {
		t.Error("empty name touched the wrong object")
	}
}

func TestAddPAEBoxWithoutMatrix(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{Coords: testCoords(2)}, true)

	if err := s.AddPAEBox("m", selection.PAEBox{}); err == nil {
		t.Error("box pick accepted without a PAE matrix")
	}
	if err := s.AddPAEBox("absent", selection.PAEBox{}); err == nil {
		t.Error("box pick accepted for unknown object")
	}
}

func TestDragLifecycle(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{Coords: testCoords(5)}, true)
	s.ClearSelection("m")

	d := s.Drag("m")
	if d == nil {
		t.Fatal("no drag tracker")
	}
	if s.Drag("m") != d {
		t.Error("drag tracker not reused for the same object")
	}

	chains := s.Scene.Object("m").ActiveFrame().Chains()
	d.Begin(1, chains)
	d.Update(3)
	s.CommitDrag("m")

	if len(s.GetVisiblePositions("m")) != 3 {
		t.Errorf("visible = %v after committed drag", s.GetVisiblePositions("m"))
	}

	d.Begin(0, chains)
	s.CancelDrag("m")
	if d.Active() {
		t.Error("cancel left the drag active")
	}
}

func TestStepFrameWraps(t *testing.T) {
	s, _ := newTestState()
	for i := 0; i < 3; i++ {
		s.AddFrame("m", scene.FrameInput{Coords: testCoords(2)}, false)
	}

	s.SetActiveFrame("m", 2)
	s.StepFrame(1)
	if got := s.Scene.Object("m").ActiveIndex(); got != 0 {
		t.Errorf("playback did not wrap: index %d", got)
	}
}

func TestSaveAndLoadState(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{Coords: testCoords(4)}, true)

	path := filepath.Join(t.TempDir(), "scene.mol2d")
	if err := s.SaveState(path); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if s.Modified {
		t.Error("still modified after save")
	}

	loaded := 0
	s.On(EventStateLoaded, func(interface{}) { loaded++ })

	s.ClearScene()
	if err := s.LoadState(path); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded != 1 {
		t.Errorf("load events = %d", loaded)
	}
	if s.Scene.Object("m") == nil {
		t.Error("object lost in save/load cycle")
	}
	if s.StatePath != path {
		t.Errorf("StatePath = %q", s.StatePath)
	}
}

func TestResizeNoOpOnSameSize(t *testing.T) {
	s, host := newTestState()
	w := s.Scene.Config.Display.Width
	h := s.Scene.Config.Display.Height

	before := host.paints
	s.Resize(w, h)
	if host.paints != before {
		t.Error("resize to the same size scheduled a paint")
	}

	s.Resize(w+10, h)
	if host.paints == before {
		t.Error("real resize did not schedule a paint")
	}
}

func TestRenderNowTracksConfigSize(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{Coords: testCoords(4)}, true)

	s.Scene.Config.Display.Width = 123
	s.Scene.Config.Display.Height = 77
	img := s.RenderNow()
	if img.Bounds().Dx() != 123 || img.Bounds().Dy() != 77 {
		t.Errorf("render size = %v", img.Bounds())
	}
}

func TestDragPreviewDrivesRenderUntilCommit(t *testing.T) {
	s, _ := newTestState()
	s.AddFrame("m", scene.FrameInput{Coords: testCoords(6)}, true)
	s.ClearSelection("m")
	obj := s.Scene.Object("m")
	chains := obj.ActiveFrame().Chains()

	s.BeginDrag("m", 1)
	s.UpdateDrag("m", 3)

	// Rendering reads the preview while the gesture is in flight.
	vis := obj.VisibleSet(chains)
	for _, i := range []int{1, 2, 3} {
		if _, ok := vis[i]; !ok {
			t.Fatalf("preview missing position %d: %v", i, vis)
		}
	}
	// The committed model is untouched until pointer-up.
	if len(obj.Selection.Visible(chains)) != 0 {
		t.Fatal("drag preview leaked into the committed selection")
	}

	s.CommitDrag("m")
	vis = obj.VisibleSet(chains)
	if len(vis) != 3 {
		t.Errorf("committed visible = %v, want the dragged range", vis)
	}

	// Cancel clears the override too.
	s.BeginDrag("m", 0)
	s.CancelDrag("m")
	if len(obj.VisibleSet(chains)) != 3 {
		t.Error("cancelled drag left its preview installed")
	}
}

func TestConcurrentPlaybackAndPaint(t *testing.T) {
	host := &atomicHost{}
	s := NewState(host)
	for i := 0; i < 4; i++ {
		s.AddFrame("m", scene.FrameInput{Coords: testCoords(8)}, false)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.StepFrame(1)
			s.RotateView(0.01, 0)
		}
		close(stop)
	}()
	go func() {
		defer wg.Done()
		for {
			s.Paint(func(*image.RGBA) {})
			select {
			case <-stop:
				return
			default:
			}
		}
	}()
	wg.Wait()

	if idx := s.Scene.Object("m").ActiveIndex(); idx < 0 || idx > 3 {
		t.Errorf("active index %d out of range after playback", idx)
	}
}

// atomicHost tolerates paint requests from off the test goroutine.
type atomicHost struct {
	paints int64
}

func (h *atomicHost) RequestPaint() { atomic.AddInt64(&h.paints, 1) }
