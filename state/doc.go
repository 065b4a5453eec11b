// Package state defines the fact-based representation planning
// operates on: boolean and non-negative integer facts, immutable
// copy-on-write state snapshots, and goals expressed as partial states.
//
// A State is the only input the planner reads — no entity references,
// no positions, no object identities. World observers translate live
// entity and spatial data into fact snapshots at the boundary (see the
// world package) and the planner never looks past them.
//
// States are immutable once created. Deriving a successor state with
// State.With copies the underlying fact map, which keeps visited-set
// deduplication and backtracking in the search engine correct without
// any locking.
package state
