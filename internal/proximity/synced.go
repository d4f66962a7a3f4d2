package proximity

import "sync"

// Synced wraps a Model with a read-write mutex for hosts that run the
// driver and readers on separate goroutines. The Model itself performs no
// locking by contract; hosts that stay on one goroutine can use it
// directly and skip this wrapper.
type Synced struct {
	mu    sync.RWMutex
	model *Model
}

// NewSynced wraps the given model. The caller must not touch the model
// directly afterwards.
func NewSynced(model *Model) *Synced {
	return &Synced{model: model}
}

// Write runs fn with exclusive access to the model.
func (s *Synced) Write(fn func(*Model)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.model)
}

// Read runs fn with shared read access to the model. fn must not mutate
// the model.
func (s *Synced) Read(fn func(*Model)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.model)
}
