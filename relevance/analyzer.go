package relevance

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// ErrNoRelevantSteps indicates that pruning found zero steps whose
// effects can contribute to the goal. The planner reports this as an
// unreachable goal before the search engine ever runs.
var ErrNoRelevantSteps = errors.New("no relevant steps for goal")

// Result is the outcome of relevance analysis for one goal: the
// pruned step subset the search may use, and the implicit numeric
// sub-goals derived from integer preconditions of goal-relevant steps.
//
// Results are computed once per distinct goal and shared read-only
// across every agent planning toward that goal (see Cache).
type Result struct {
	steps       []*step.Step
	subGoals    []state.Condition
	fingerprint string
}

// Steps returns the relevant steps in deterministic discovery order.
// The slice is a copy; the steps are shared read-only catalog entries.
func (r *Result) Steps() []*step.Step {
	out := make([]*step.Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// SubGoals returns the implicit numeric sub-goals, one per integer
// fact key, each carrying the highest threshold any relevant step
// requires. Keys the goal itself constrains are excluded — the
// heuristic already counts those.
func (r *Result) SubGoals() []state.Condition {
	out := make([]state.Condition, len(r.subGoals))
	copy(out, r.subGoals)
	return out
}

// GoalFingerprint returns the fingerprint of the goal this result was
// computed for.
func (r *Result) GoalFingerprint() string {
	return r.fingerprint
}

// Len returns the number of relevant steps.
func (r *Result) Len() int {
	return len(r.steps)
}

// Analyzer computes the minimal subset of catalog steps that can
// possibly contribute to reaching a goal, via backward
// transitive-closure analysis over the step catalog.
//
// Analysis depends only on the goal and the catalog, never on any
// agent's state, which is what makes results shareable across agents.
type Analyzer struct {
	logger *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets the analyzer's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze prunes the catalog for the given goal.
//
// The relevant set is seeded with every step whose effects can satisfy
// a goal constraint, then grown to fixpoint: each relevant step's
// preconditions become derived sub-goals, and any step whose effects
// can satisfy a derived sub-goal joins the set. The catalog is finite
// and the set only grows, so the fixpoint terminates.
//
// Returns ErrNoRelevantSteps when the seed set is empty.
func (a *Analyzer) Analyze(goal *state.Goal, catalog *step.Catalog) (*Result, error) {
	if goal == nil {
		return nil, errors.New("relevance: goal must not be nil")
	}
	if catalog == nil {
		return nil, errors.New("relevance: catalog must not be nil")
	}

	all := catalog.AllSteps()

	// Derived sub-goal conditions, beginning with the goal's own.
	targets := goal.Conditions()
	seenTargets := make(map[string]bool, len(targets))
	for _, c := range targets {
		seenTargets[c.String()] = true
	}

	relevant := make(map[string]bool, len(all))
	var ordered []*step.Step

	for changed := true; changed; {
		changed = false
		for _, s := range all {
			if relevant[s.Name()] {
				continue
			}
			if !satisfiesAny(s, targets) {
				continue
			}

			relevant[s.Name()] = true
			ordered = append(ordered, s)
			changed = true

			// The step's preconditions are now sub-goals some other
			// step may need to produce.
			for _, pre := range s.Preconditions() {
				key := pre.String()
				if !seenTargets[key] {
					seenTargets[key] = true
					targets = append(targets, pre)
				}
			}
		}
	}

	if len(ordered) == 0 {
		return nil, fmt.Errorf("relevance: %w: %s", ErrNoRelevantSteps, goal.Fingerprint())
	}

	result := &Result{
		steps:       ordered,
		subGoals:    resolveNumericRequirements(ordered, goal),
		fingerprint: goal.Fingerprint(),
	}

	a.logger.Debug("relevance analysis complete",
		"goal", goal.Fingerprint(),
		"catalog_steps", len(all),
		"relevant_steps", len(ordered),
		"implicit_sub_goals", len(result.subGoals))

	return result, nil
}

// satisfiesAny reports whether any effect of the step can satisfy any
// of the target conditions.
func satisfiesAny(s *step.Step, targets []state.Condition) bool {
	for _, e := range s.Effects() {
		for _, c := range targets {
			if e.CanSatisfy(c) {
				return true
			}
		}
	}
	return false
}
