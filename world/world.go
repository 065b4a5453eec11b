// Package world is the boundary between planning and live entity
// data. It defines the fact-key naming convention world observers are
// expected to follow, the Observer interface that turns live entity
// and spatial data into fact snapshots, and the Snapshot the executor
// applies completed step effects to for the next planning round.
//
// The planner never reads entity or spatial data directly; it sees
// only the already-copied, already-stable fact values an Observer
// produced. A Snapshot never holds references into caller-owned
// mutable buffers.
package world

import (
	"context"
	"sync"

	"github.com/zero-day-ai/goap/state"
)

// Fact-key naming convention helpers. Observers and step authors
// should build keys through these so the two sides always agree.

// Has returns the boolean fact key meaning the agent holds or has
// achieved the named thing (e.g., Has("CookedFood") -> HasCookedFood).
func Has(name string) state.Key {
	return state.Key("Has" + name)
}

// CountOf returns the integer fact key counting instances of a kind in
// the agent's inventory (e.g., CountOf("Stick") -> CountOfStick).
func CountOf(name string) state.Key {
	return state.Key("CountOf" + name)
}

// Near returns the boolean fact key meaning the agent is near an
// entity of the named kind (e.g., Near("Tree") -> NearTree).
func Near(name string) state.Key {
	return state.Key("Near" + name)
}

// WorldHas returns the boolean fact key meaning at least one entity of
// the named kind exists in the world.
func WorldHas(name string) state.Key {
	return state.Key("WorldHas" + name)
}

// Observer builds an agent's initial fact snapshot from live world
// data: counts of resource kinds, proximity booleans, inventory
// counts. Implementations live outside this module, next to the
// entity storage they query.
type Observer interface {
	// Observe returns a stable fact snapshot for the agent. The
	// returned state must not alias any mutable buffer the observer
	// keeps; state.New and state.FromMap already guarantee that.
	Observe(ctx context.Context, agentID string) (state.State, error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, agentID string) (state.State, error)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, agentID string) (state.State, error) {
	return f(ctx, agentID)
}

// Snapshot is the externally-tracked world-state an executor applies
// completed step effects to. The next plan for the agent is generated
// from this snapshot (or from a fresh observation replacing it).
//
// Snapshot is safe for concurrent readers with one writer; within a
// single agent's tick, access is sequential anyway.
type Snapshot struct {
	mu sync.RWMutex
	s  state.State
}

// NewSnapshot creates a snapshot holding the given initial state.
func NewSnapshot(initial state.State) *Snapshot {
	return &Snapshot{s: initial}
}

// State returns the current fact snapshot. States are immutable, so
// the returned value stays stable however the snapshot moves on.
func (sn *Snapshot) State() state.State {
	sn.mu.RLock()
	defer sn.mu.RUnlock()
	return sn.s
}

// Replace publishes a new fact snapshot.
func (sn *Snapshot) Replace(s state.State) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	sn.s = s
}

// Update applies fact overlays to the snapshot in place, for observers
// that refresh individual facts between plans.
func (sn *Snapshot) Update(facts ...state.Fact) {
	sn.mu.Lock()
	defer sn.mu.Unlock()
	sn.s = sn.s.With(facts...)
}
