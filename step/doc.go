// Package step defines the action-step abstraction: named, reusable
// planning blueprints with preconditions, effects, and a cost
// function, plus the catalog that holds the full registered set.
//
// Steps are decoupled from any concrete runtime behavior. The planner
// only ever applies a step's declared effects to abstract states; the
// optional ActionFactory and Guard carried by a step are consumed by
// the plan executor, never by the search.
//
// Registration is the sole extension point for adding planning
// capabilities: external modules contribute steps to a Catalog either
// through the Builder or from a catalog.yaml definition file. There is
// no runtime scanning for step producers — the catalog's contents are
// exactly what was registered.
package step
