// Package relevance prunes the step catalog down to the subset that
// can possibly contribute to a given goal, and derives the implicit
// numeric sub-goals the search heuristic needs to see quantity
// requirements the goal never states.
//
// Pruning is a backward-chaining fixpoint: steps whose effects can
// satisfy a goal constraint seed the relevant set, each relevant
// step's preconditions become derived sub-goals, and the set grows
// until no step joins. Steps never added are excluded from the search
// space entirely.
//
// Analysis depends only on the goal and the catalog, so results are
// cached per goal fingerprint and shared read-only across all agents
// planning toward the same goal.
package relevance
