package step

import (
	"github.com/zero-day-ai/goap/state"
)

// CostFunc computes the cost of taking a step from a given state.
// Costs must be non-negative; the search engine's admissibility
// depends on it.
type CostFunc func(s state.State) float64

// FixedCost returns a CostFunc that ignores the state.
func FixedCost(cost float64) CostFunc {
	return func(state.State) float64 { return cost }
}

// Snapshot is the executor-owned view of live world facts that actions
// and guards read and that completed steps write their effects into.
// Implemented by world.Snapshot.
type Snapshot interface {
	// State returns the current fact snapshot.
	State() state.State

	// Replace publishes a new fact snapshot.
	Replace(s state.State)
}

// ExecContext carries the runtime surroundings of an executing step:
// which agent is acting, the live fact snapshot, and the tick counter.
// Data is scratch space shared by the actions of a single plan.
type ExecContext struct {
	AgentID  string
	Snapshot Snapshot
	Tick     int
	Data     map[string]any
}

// Guard is a per-tick validity check for an in-progress step. Returning
// false means the step is no longer valid against the live world (for
// example, the target entity despawned) and the whole plan must fail,
// independent of the step's own progress.
type Guard func(ec *ExecContext) bool

// Action is the concrete runtime behavior bound to a step blueprint.
// The executor drives one action at a time through an
// enter/update/exit lifecycle, one Update per tick.
type Action interface {
	// Enter is called once when the step becomes active.
	Enter(ec *ExecContext) error

	// Update is called once per tick while the step is active. It
	// returns true when the step's work is done.
	Update(ec *ExecContext) (done bool, err error)

	// Exit is called exactly once when the step completes, fails, or
	// the plan is abandoned. Cleanup of reservation-like side effects
	// belongs here.
	Exit(ec *ExecContext) error
}

// ActionFactory creates a fresh Action each time a step starts
// executing. Factories are long-lived and shared; actions are not.
type ActionFactory func() Action

// InstantAction wraps a function as an Action that completes on its
// first Update. Enter and Exit are no-ops.
func InstantAction(fn func(ec *ExecContext) error) Action {
	return instantAction{fn: fn}
}

type instantAction struct {
	fn func(ec *ExecContext) error
}

func (a instantAction) Enter(*ExecContext) error { return nil }

func (a instantAction) Update(ec *ExecContext) (bool, error) {
	if a.fn == nil {
		return true, nil
	}
	return true, a.fn(ec)
}

func (a instantAction) Exit(*ExecContext) error { return nil }

// Step is a named, reusable planning unit: a precondition set, an
// effect set, and a cost function. A step is a pure blueprint —
// applying it to a state is deterministic and side-effect free, and it
// carries no reference to runtime entities. Catalog entries are shared
// and read-only; plans reference them, never own them.
//
// Construct steps with the Builder (see New) or load them from a
// catalog definition file (see LoadCatalog).
type Step struct {
	name     string
	preconds []state.Condition
	effects  []Effect
	cost     CostFunc
	action   ActionFactory
	guard    Guard
}

// Name returns the step's stable identifier.
func (s *Step) Name() string {
	return s.name
}

// Preconditions returns a copy of the step's required fact-value
// conditions.
func (s *Step) Preconditions() []state.Condition {
	out := make([]state.Condition, len(s.preconds))
	copy(out, s.preconds)
	return out
}

// Effects returns a copy of the step's fact mutations.
func (s *Step) Effects() []Effect {
	out := make([]Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// Cost returns the cost of taking this step from the given state.
func (s *Step) Cost(st state.State) float64 {
	return s.cost(st)
}

// Applicable reports whether the step can be taken in the given state.
// Preconditions on facts the state does not know are treated as
// satisfiable; the runtime precondition re-check catches the cases
// where that optimism was wrong.
func (s *Step) Applicable(st state.State) bool {
	for _, c := range s.preconds {
		if c.Violates(st) {
			return false
		}
	}
	return true
}

// Apply returns the successor state produced by this step's effects.
// The input state is not modified. Effects are applied in declaration
// order, so a later effect on the same key sees the earlier one.
func (s *Step) Apply(st state.State) state.State {
	pending := make(map[state.Key]state.Value, len(s.effects))
	current := func(key state.Key) state.Value {
		if v, ok := pending[key]; ok {
			return v
		}
		v, _ := st.Get(key)
		return v
	}

	facts := make([]state.Fact, 0, len(s.effects))
	for _, e := range s.effects {
		f := e.resolve(current(e.Key))
		pending[f.Key] = f.Value
		facts = append(facts, f)
	}
	return st.With(facts...)
}

// ActionFactory returns the runtime action factory bound to this step,
// or nil when the step has none (the executor substitutes an instant
// no-op action).
func (s *Step) ActionFactory() ActionFactory {
	return s.action
}

// Guard returns the runtime guard bound to this step, or nil.
func (s *Step) Guard() Guard {
	return s.guard
}
