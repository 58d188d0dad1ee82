package store

import "sync"

// Registry tracks in-flight optimistic sends: correlation id to the
// provisional local id it produced. An entry lives from send until the
// confirming echo (or a reset on room switch) clears it.
type Registry struct {
	mu      sync.Mutex
	pending map[string]string
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]string)}
}

// Track records a correlation id and returns the provisional local id.
func (r *Registry) Track(clientID, localID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[clientID] = localID
}

// Resolve looks up the provisional local id for a correlation id.
func (r *Registry) Resolve(clientID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	localID, ok := r.pending[clientID]
	return localID, ok
}

// Clear drops a correlation id once confirmed or abandoned.
func (r *Registry) Clear(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, clientID)
}

// Reset drops all in-flight correlations, used when the open room changes.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = make(map[string]string)
}

// Len reports the number of unconfirmed sends.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
