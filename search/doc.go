// Package search implements the forward best-first search engine that
// turns a pruned step set into an ordered plan.
//
// The search is A*-style over the discrete state graph: the frontier
// orders states by accumulated cost plus a heuristic counting unmet
// goal constraints and unmet implicit numeric sub-goals. A closed set
// keyed by full fact-value equality deduplicates revisited states, and
// an expansion/cost ceiling bounds worst-case search time.
//
// Ties on f = g + h prefer lower h, then earlier insertion, so
// identical inputs always produce identical plans.
package search
