package scene

import (
	"fmt"
)

// Scene is the explicit object registry. It replaces any ambient global
// lookup: everything that renders goes through one Scene instance that is
// constructed once and torn down explicitly.
type Scene struct {
	Config Config

	objects []*Object
	byName  map[string]*Object
}

// New creates an empty scene with default configuration.
func New() *Scene {
	return &Scene{
		Config: DefaultConfig(),
		byName: make(map[string]*Object),
	}
}

// Objects returns the objects in creation order.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of objects.
func (s *Scene) Len() int { return len(s.objects) }

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	return s.byName[name]
}

// Last returns the most recently created object, or nil.
func (s *Scene) Last() *Object {
	if len(s.objects) == 0 {
		return nil
	}
	return s.objects[len(s.objects)-1]
}

// NewObject creates and registers an object. An empty name is replaced
// with the object's ordinal.
func (s *Scene) NewObject(name string) *Object {
	if name == "" {
		name = fmt.Sprintf("%d", len(s.objects))
	}
	obj := NewObject(name)
	s.objects = append(s.objects, obj)
	s.byName[name] = obj
	return obj
}

// AddFrame appends a frame to the named object, creating the object when
// it does not exist yet. An empty name targets the last object, or creates
// the first one.
func (s *Scene) AddFrame(name string, in FrameInput, align bool) *Object {
	var obj *Object
	if name == "" {
		obj = s.Last()
	} else {
		obj = s.byName[name]
	}
	if obj == nil {
		obj = s.NewObject(name)
	}
	obj.AppendFrame(NewFrame(in), align)
	return obj
}

// Clear removes every object. The explicit clear is the only way objects
// go away.
func (s *Scene) Clear() {
	s.objects = nil
	s.byName = make(map[string]*Object)
}
