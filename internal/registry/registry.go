// Package registry holds the user's personal pill list. The list lives in
// memory for the lifetime of the process; there is no persistence.
package registry

import (
	"sync"
	"time"

	"github.com/pillmate/pill-helper/internal/domain"
)

// Registry is the process-wide pill list. Reads happen on the bot loop and on
// the reminder scheduler goroutine, so access is guarded.
type Registry struct {
	mu    sync.RWMutex
	pills []domain.Pill
	now   func() time.Time
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{now: time.Now}
}

// Add inserts a pill at the front of the list. Adding an id that is already
// present is a no-op; the original entry and its AddedAt are kept.
func (r *Registry) Add(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pills {
		if p.ID == id {
			return
		}
	}
	r.pills = append([]domain.Pill{{ID: id, Name: name, AddedAt: r.now()}}, r.pills...)
}

// Remove deletes the pill with the given id. No-op when absent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.pills[:0]
	for _, p := range r.pills {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.pills = kept
}

// Clear empties the list.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pills = nil
}

// Get returns the pill with the given id.
func (r *Registry) Get(id string) (domain.Pill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.pills {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Pill{}, false
}

// List returns a copy of the pills in insertion order, newest first.
func (r *Registry) List() []domain.Pill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Pill, len(r.pills))
	copy(out, r.pills)
	return out
}

// Len returns the number of registered pills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pills)
}
