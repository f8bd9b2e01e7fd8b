// Package app provides application state, events and render scheduling.
package app

import (
	"fmt"
	"image"
	"log"
	"sync"

	"mol2d/internal/project"
	"mol2d/internal/render"
	"mol2d/internal/scene"
	"mol2d/internal/selection"
	"mol2d/pkg/geometry"

	"github.com/google/uuid"
)

// EventType identifies different application events.
type EventType int

const (
	EventStateLoaded EventType = iota
	EventStateSaved
	EventObjectsChanged
	EventFrameChanged
	EventSelectionChanged
	EventConfigChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the viewer session: the scene, the render scheduler and the
// event listeners. UI components observe it through events and never
// mutate scene state directly. Scene access is serialized through the
// state lock: the playback and spin tickers run off the paint thread, so
// every mutation and every render takes mu. Events fire after the lock is
// released; listeners may call back into the state.
type State struct {
	mu sync.RWMutex

	// ID identifies this viewer session.
	ID string

	Scene *scene.Scene

	// StatePath is the file the session was loaded from, if any.
	StatePath string
	Modified  bool

	renderer  *render.Renderer
	scheduler *render.Scheduler

	// One drag tracker per object, created on demand.
	drags map[string]*selection.Drag

	listeners map[EventType][]EventListener
}

// NewState creates a session bound to a render host.
func NewState(host render.Host) *State {
	s := &State{
		ID:        uuid.NewString(),
		Scene:     scene.New(),
		drags:     make(map[string]*selection.Drag),
		listeners: make(map[EventType][]EventListener),
	}
	cfg := s.Scene.Config
	s.renderer = render.New(cfg.Display.Width, cfg.Display.Height)
	s.scheduler = render.NewScheduler(host)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the session as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// RequestRender marks the scene dirty; the host paints on its next tick.
func (s *State) RequestRender(reason string) {
	s.scheduler.RequestRender(reason)
}

// Paint renders the scene if a redraw is pending and hands the surface to
// the callback. The host calls this from its paint tick.
func (s *State) Paint(present func(*image.RGBA)) {
	s.scheduler.Flush(func() {
		present(s.RenderNow())
	})
}

// RenderNow renders the scene synchronously, bypassing the scheduler.
// Used by the headless exporter and by tests.
func (s *State) RenderNow() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.Scene.Config
	vp := s.renderer.Viewport()
	if vp.Width != cfg.Display.Width || vp.Height != cfg.Display.Height {
		s.renderer = render.New(cfg.Display.Width, cfg.Display.Height)
	}
	return s.renderer.Render(s.Scene)
}

// Resize changes the drawing surface size.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	d := &s.Scene.Config.Display
	if d.Width == width && d.Height == height {
		s.mu.Unlock()
		return
	}
	d.Width = width
	d.Height = height
	s.mu.Unlock()
	s.RequestRender("resize")
}

// AddFrame feeds one frame of data into the named object, creating it on
// demand, and schedules a redraw.
func (s *State) AddFrame(objName string, in scene.FrameInput, align bool) *scene.Object {
	s.mu.Lock()
	obj := s.Scene.AddFrame(objName, in, align)
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventModified, true)
	s.Emit(EventObjectsChanged, obj.Name)
	s.RequestRender("frame added")
	return obj
}

// ClearScene removes every object and resets per-object UI state.
func (s *State) ClearScene() {
	s.mu.Lock()
	s.Scene.Clear()
	s.drags = make(map[string]*selection.Drag)
	s.Modified = true
	s.mu.Unlock()

	s.Emit(EventModified, true)
	s.Emit(EventObjectsChanged, nil)
	s.RequestRender("scene cleared")
}

// SetActiveFrame switches the active frame of an object.
func (s *State) SetActiveFrame(objName string, idx int) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return
	}
	obj.SetActiveIndex(idx)
	active := obj.ActiveIndex()
	s.mu.Unlock()

	s.Emit(EventFrameChanged, active)
	s.RequestRender("frame changed")
}

// StepFrame advances every object's active frame by delta, wrapping.
// Drives trajectory playback.
func (s *State) StepFrame(delta int) {
	s.mu.Lock()
	for _, obj := range s.Scene.Objects() {
		if obj.FrameCount() > 1 {
			obj.SetActiveIndex(obj.ActiveIndex() + delta)
		}
	}
	s.mu.Unlock()

	s.Emit(EventFrameChanged, delta)
	s.RequestRender("playback")
}

// UpdateConfig applies a mutation to the viewer configuration and
// schedules a redraw.
func (s *State) UpdateConfig(mutate func(cfg *scene.Config)) {
	s.mu.Lock()
	mutate(&s.Scene.Config)
	s.mu.Unlock()

	s.Emit(EventConfigChanged, nil)
	s.RequestRender("config")
}

// RotateView applies an incremental trackball rotation to every object.
// yaw and pitch are radians about the screen Y and X axes.
func (s *State) RotateView(yaw, pitch float64) {
	step := geometry.RotationX(pitch).Mul(geometry.RotationY(yaw))
	s.mu.Lock()
	for _, obj := range s.Scene.Objects() {
		obj.Transform.Rotate(step)
	}
	s.mu.Unlock()
	s.RequestRender("rotate")
}

// ZoomView scales every object's zoom by factor.
func (s *State) ZoomView(factor float64) {
	s.mu.Lock()
	for _, obj := range s.Scene.Objects() {
		obj.Transform.ZoomBy(factor)
	}
	s.mu.Unlock()
	s.RequestRender("zoom")
}

// object resolves a name; empty means the last created object. Callers
// hold the state lock.
func (s *State) object(name string) *scene.Object {
	if name == "" {
		return s.Scene.Last()
	}
	return s.Scene.Object(name)
}

// GetVisiblePositions returns the visible position set of an object.
func (s *State) GetVisiblePositions(objName string) map[int]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj := s.object(objName)
	if obj == nil {
		return map[int]struct{}{}
	}
	return obj.VisiblePositions()
}

// GetSelection returns a snapshot of an object's selection model.
func (s *State) GetSelection(objName string) *selection.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj := s.object(objName)
	if obj == nil {
		return selection.NewModel()
	}
	return obj.Selection.Snapshot()
}

// SetSelection applies a partial selection update to an object.
func (s *State) SetSelection(objName string, patch selection.Patch) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return
	}
	obj.Selection.Apply(patch)
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
}

// SelectAll resets an object's selection to the default all-visible state.
func (s *State) SelectAll(objName string) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return
	}
	obj.Selection.SelectAll()
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
}

// ClearSelection empties an object's selection.
func (s *State) ClearSelection(objName string) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return
	}
	obj.Selection.ClearAll()
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
}

// ToggleResidue flips one position of an object's selection.
func (s *State) ToggleResidue(objName string, idx int) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil || obj.ActiveFrame() == nil {
		s.mu.Unlock()
		return
	}
	obj.Selection.ToggleResidue(idx, obj.ActiveFrame().Chains())
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
}

// ToggleChain flips one chain of an object's selection.
func (s *State) ToggleChain(objName, chain string) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil || obj.ActiveFrame() == nil {
		s.mu.Unlock()
		return
	}
	obj.Selection.ToggleChain(chain, obj.ActiveFrame().Chains())
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
}

// AddPAEBox records a pairwise box pick on an object.
func (s *State) AddPAEBox(objName string, box selection.PAEBox) error {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return fmt.Errorf("no object %q", objName)
	}
	if err := obj.AddPAEBox(box); err != nil {
		s.mu.Unlock()
		return err
	}
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
	return nil
}

// Drag returns the drag tracker for an object, creating it on first use.
func (s *State) Drag(objName string) *selection.Drag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragLocked(objName)
}

func (s *State) dragLocked(objName string) *selection.Drag {
	obj := s.object(objName)
	if obj == nil {
		return nil
	}
	d, ok := s.drags[obj.ID]
	if !ok {
		d = selection.NewDrag(obj.Selection)
		s.drags[obj.ID] = d
	}
	return d
}

// BeginDrag starts a range-selection gesture at the given position and
// installs its preview as the object's rendered visibility.
func (s *State) BeginDrag(objName string, item int) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil || obj.ActiveFrame() == nil {
		s.mu.Unlock()
		return
	}
	d := s.dragLocked(objName)
	d.Begin(item, obj.ActiveFrame().Chains())
	obj.SetVisiblePreview(d.Preview())
	s.mu.Unlock()

	s.RequestRender("drag begin")
}

// UpdateDrag moves an in-flight gesture's endpoint and refreshes the
// rendered preview.
func (s *State) UpdateDrag(objName string, item int) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return
	}
	d, ok := s.drags[obj.ID]
	if !ok || !d.Active() {
		s.mu.Unlock()
		return
	}
	d.Update(item)
	obj.SetVisiblePreview(d.Preview())
	s.mu.Unlock()

	s.RequestRender("drag update")
}

// CommitDrag applies an object's in-flight drag gesture.
func (s *State) CommitDrag(objName string) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil || obj.ActiveFrame() == nil {
		s.mu.Unlock()
		return
	}
	d, ok := s.drags[obj.ID]
	if !ok || !d.Active() {
		s.mu.Unlock()
		return
	}
	d.Commit(obj.ActiveFrame().Chains())
	obj.ClearVisiblePreview()
	name := obj.Name
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, name)
	s.RequestRender("selection")
}

// CancelDrag discards an object's in-flight drag gesture.
func (s *State) CancelDrag(objName string) {
	s.mu.Lock()
	obj := s.object(objName)
	if obj == nil {
		s.mu.Unlock()
		return
	}
	obj.ClearVisiblePreview()
	d, ok := s.drags[obj.ID]
	if !ok || !d.Active() {
		s.mu.Unlock()
		return
	}
	d.Cancel()
	s.mu.Unlock()

	s.RequestRender("drag cancelled")
}

// LoadState replaces the scene with the contents of a state file.
func (s *State) LoadState(path string) error {
	loaded, err := project.Load(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.Scene = loaded
	s.StatePath = path
	s.drags = make(map[string]*selection.Drag)
	s.Modified = false
	s.mu.Unlock()

	log.Printf("Loaded state %s (%d objects)", path, loaded.Len())
	s.Emit(EventModified, false)
	s.Emit(EventStateLoaded, path)
	s.Emit(EventObjectsChanged, nil)
	s.RequestRender("state loaded")
	return nil
}

// SaveState writes the scene to a state file.
func (s *State) SaveState(path string) error {
	s.mu.RLock()
	sc := s.Scene
	s.mu.RUnlock()
	if err := project.Save(sc, path); err != nil {
		return err
	}
	s.mu.Lock()
	s.StatePath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventModified, false)
	s.Emit(EventStateSaved, path)
	return nil
}
