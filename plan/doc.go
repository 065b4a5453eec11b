// Package plan defines the plan produced by search — an ordered,
// costed step sequence with an execution cursor and terminal status —
// and the tick-driven executor that consumes it one step at a time.
//
// Execution is where abstract planning meets the live world. The
// executor binds each step's action factory into a concrete action,
// drives it through an enter/update/exit lifecycle, and checks the
// step's runtime guard every tick. A rejecting guard fails the plan
// immediately: plans built from a world snapshot that has since
// changed are abandoned proactively rather than run to a confusing
// completion. Precondition violations discovered at step start are
// reported distinctly, since they occur even for steps that never
// registered a guard.
//
// All execution failures land in the plan's terminal status; nothing
// in this package is fatal to the process. The goal-selection layer
// reads the status and picks a different goal.
package plan
