package ingestion

import (
	"sync"

	"github.com/poiesic/memograph/core"
)

// Registry tracks process-scoped ingestion state: users whose uploads are
// disabled and batches currently being processed. It is injected into the
// Orchestrator rather than living in package-level globals, so tests and
// embedders control its lifetime.
type Registry struct {
	mu       sync.RWMutex
	disabled map[string]bool
	active   map[core.ID]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		disabled: make(map[string]bool),
		active:   make(map[core.ID]bool),
	}
}

// DisableUser blocks new uploads for a user.
func (r *Registry) DisableUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled[userID] = true
}

// EnableUser lifts an upload block.
func (r *Registry) EnableUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.disabled, userID)
}

// UserDisabled reports whether uploads are blocked for a user.
func (r *Registry) UserDisabled(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disabled[userID]
}

// MarkActive records that a batch is being processed.
func (r *Registry) MarkActive(id core.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[id] = true
}

// ClearActive records that a batch finished processing.
func (r *Registry) ClearActive(id core.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}

// Active reports whether a batch is being processed.
func (r *Registry) Active(id core.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[id]
}

// ActiveCount returns the number of batches being processed.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}
