// Package scene holds the objects live in a running application, so that components can find each
// other without being wired together explicitly.
package scene

import "sync"

type entry struct {
	id  uint64
	obj any
}

// Scene is an ordered set of live objects. It is safe for concurrent use.
type Scene struct {
	entries []entry
	nextID  uint64
	mu      sync.RWMutex
}

var defaultScene = New()

// New creates an empty Scene.
func New() *Scene {
	return &Scene{}
}

// Default returns the process-wide scene.
func Default() *Scene {
	return defaultScene
}

// Add adds obj to the scene and returns a function removing it again. The function may be called more
// than once.
func (s *Scene) Add(obj any) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, entry{id: id, obj: obj})
	return func() { s.remove(id) }
}

// Objects returns the objects in the order they were added.
func (s *Scene) Objects() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make([]any, len(s.entries))
	for i, e := range s.entries {
		objects[i] = e.obj
	}
	return objects
}

// Len ...
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Scene) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// FindFirst returns the first object of the scene, in the order they were added, that is a T.
func FindFirst[T any](s *Scene) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if v, ok := e.obj.(T); ok {
			return v, true
		}
	}

	var zero T
	return zero, false
}
