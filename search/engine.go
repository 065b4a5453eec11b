package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zero-day-ai/goap/relevance"
	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// Sentinel errors for search outcomes.
var (
	// ErrNoPlanFound indicates the frontier emptied without reaching
	// a goal state.
	ErrNoPlanFound = errors.New("no plan found")

	// ErrBudgetExceeded indicates the expansion or cost ceiling was
	// hit. Callers treat it like ErrNoPlanFound, but it stays
	// distinguishable for diagnostics.
	ErrBudgetExceeded = errors.New("search budget exceeded")
)

// Default search limits. MaxExpansions converts a runaway search into
// a reported failure instead of unbounded blocking.
const (
	DefaultMaxExpansions = 10_000
	DefaultUnmetFactCost = 1.0
)

// Options bound and tune a search.
type Options struct {
	// MaxExpansions caps how many states may be popped and expanded.
	// Zero means DefaultMaxExpansions.
	MaxExpansions int

	// MaxCost caps the accumulated cost of any explored path. Zero
	// means unlimited.
	MaxCost float64

	// UnmetFactCost is the fixed per-unmet-constraint cost estimate
	// the heuristic multiplies by. Zero means DefaultUnmetFactCost.
	// Values above the cheapest step cost trade admissibility for
	// speed.
	UnmetFactCost float64
}

func (o Options) withDefaults() Options {
	if o.MaxExpansions <= 0 {
		o.MaxExpansions = DefaultMaxExpansions
	}
	if o.UnmetFactCost <= 0 {
		o.UnmetFactCost = DefaultUnmetFactCost
	}
	return o
}

// Result is a successful search outcome.
type Result struct {
	// Steps is the ordered step sequence from the initial state to a
	// goal-satisfying state. Empty when the initial state already
	// satisfies the goal.
	Steps []*step.Step

	// Cost is the accumulated cost of the step sequence.
	Cost float64

	// Expanded is the number of states popped from the frontier,
	// reported for diagnostics and metrics.
	Expanded int
}

// Engine runs forward best-first search over abstract states using a
// pruned step set. An Engine is stateless between calls and safe for
// concurrent use; each agent's search touches only its own frontier.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithOptions sets the search limits and heuristic weight.
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithLogger sets the engine's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a search engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.opts = e.opts.withDefaults()
	return e
}

// Search runs A*-style best-first search from the initial state toward
// the goal, expanding only steps in the pruned relevance result.
//
// The frontier is ordered by g + h, where g is accumulated step cost
// and h counts unmet goal constraints plus unmet implicit numeric
// sub-goals, weighted by UnmetFactCost. Successor states equal to an
// already-visited state with lower-or-equal accumulated cost are
// skipped.
//
// The context is checked between expansions; cancellation surfaces as
// ctx.Err(). Search never blocks otherwise.
func (e *Engine) Search(ctx context.Context, initial state.State, goal *state.Goal, rel *relevance.Result) (*Result, error) {
	if goal == nil {
		return nil, errors.New("search: goal must not be nil")
	}
	if rel == nil {
		return nil, errors.New("search: relevance result must not be nil")
	}

	steps := rel.Steps()
	subGoals := rel.SubGoals()

	h := func(s state.State) float64 {
		unmet := len(goal.Unmet(s))
		for _, c := range subGoals {
			if !c.SatisfiedBy(s) {
				unmet++
			}
		}
		return float64(unmet) * e.opts.UnmetFactCost
	}

	var seq uint64
	start := &node{state: initial, h: h(initial)}

	open := newFrontier()
	open.push(start)

	// Closed set keyed by full fact-value fingerprint, recording the
	// best accumulated cost seen for each state.
	best := map[string]float64{initial.Fingerprint(): 0}

	expanded := 0
	costCapped := false
	for !open.empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := open.pop()

		if goal.SatisfiedBy(current.state) {
			result := &Result{
				Steps:    current.path(),
				Cost:     current.g,
				Expanded: expanded,
			}
			e.logger.Debug("search succeeded",
				"goal", goal.Fingerprint(),
				"plan_steps", len(result.Steps),
				"plan_cost", result.Cost,
				"expanded", expanded)
			return result, nil
		}

		if expanded >= e.opts.MaxExpansions {
			return nil, fmt.Errorf("search: %w: %d expansions", ErrBudgetExceeded, expanded)
		}
		expanded++

		for _, s := range steps {
			if !s.Applicable(current.state) {
				continue
			}

			cost := s.Cost(current.state)
			if cost < 0 {
				cost = 0
			}
			g := current.g + cost
			if e.opts.MaxCost > 0 && g > e.opts.MaxCost {
				costCapped = true
				continue
			}

			succ := s.Apply(current.state)
			fp := succ.Fingerprint()
			if prev, seen := best[fp]; seen && prev <= g {
				continue
			}
			best[fp] = g

			seq++
			open.push(&node{
				state:  succ,
				step:   s,
				parent: current,
				g:      g,
				h:      h(succ),
				seq:    seq,
			})
		}
	}

	if costCapped {
		// The cost ceiling cut off at least one path; report that
		// distinctly from plain exhaustion.
		return nil, fmt.Errorf("search: %w: frontier exhausted under cost ceiling %g", ErrBudgetExceeded, e.opts.MaxCost)
	}
	return nil, fmt.Errorf("search: %w: %s", ErrNoPlanFound, goal.Fingerprint())
}
