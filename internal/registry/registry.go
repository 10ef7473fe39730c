// Package registry tracks the currently active duels by game id. It is
// shared between the hub (insert/remove) and every connection handler
// (lookup), so all access goes through one RWMutex.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vekariaayush04/matiq/internal/duel"
)

type Registry struct {
	mu    sync.RWMutex
	duels map[uuid.UUID]*duel.Duel
}

func New() *Registry {
	return &Registry{duels: make(map[uuid.UUID]*duel.Duel)}
}

func (r *Registry) Insert(d *duel.Duel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.duels[d.GameID()] = d
}

// Lookup returns the duel for id. A miss is a recoverable not-found for the
// caller, not an error.
func (r *Registry) Lookup(id uuid.UUID) (*duel.Duel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.duels[id]
	return d, ok
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.duels, id)
}

// Snapshot copies the current set so the sweeper can iterate without
// holding the lock.
func (r *Registry) Snapshot() []*duel.Duel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*duel.Duel, 0, len(r.duels))
	for _, d := range r.duels {
		out = append(out, d)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.duels)
}
