package step

import (
	"errors"
	"fmt"

	"github.com/zero-day-ai/goap/state"
)

// Builder constructs step blueprints fluently:
//
//	chop, err := step.New("ChopTree").
//	    RequireBool("NearTree", true).
//	    RequireBool("WorldHasTree", true).
//	    SetBool("WorldHasStick", true).
//	    AddInt("CountOfStickWorld", 4).
//	    WithCost(4).
//	    Build()
//
// Build validates the blueprint; a step must have a name, at least one
// effect, and may not use one fact key as both a boolean and an
// integer.
type Builder struct {
	step Step
	errs []error
}

// New starts building a step with the given stable name.
func New(name string) *Builder {
	return &Builder{step: Step{name: name, cost: FixedCost(1)}}
}

// RequireBool adds a boolean equality precondition.
func (b *Builder) RequireBool(key state.Key, equals bool) *Builder {
	b.step.preconds = append(b.step.preconds, state.BoolCondition(key, equals))
	return b
}

// RequireAtLeast adds an integer lower-bound precondition.
func (b *Builder) RequireAtLeast(key state.Key, min int) *Builder {
	if min < 0 {
		b.errs = append(b.errs, fmt.Errorf("precondition %s: threshold must be non-negative, got %d", key, min))
	}
	b.step.preconds = append(b.step.preconds, state.MinCondition(key, min))
	return b
}

// SetBool adds an effect that sets a boolean fact.
func (b *Builder) SetBool(key state.Key, v bool) *Builder {
	b.step.effects = append(b.step.effects, SetBool(key, v))
	return b
}

// SetInt adds an effect that sets an integer fact.
func (b *Builder) SetInt(key state.Key, v int) *Builder {
	if v < 0 {
		b.errs = append(b.errs, fmt.Errorf("effect %s: integer facts are non-negative, got %d", key, v))
	}
	b.step.effects = append(b.step.effects, SetInt(key, v))
	return b
}

// AddInt adds an effect that adjusts an integer fact by delta.
// Negative deltas decrement; results clamp at zero.
func (b *Builder) AddInt(key state.Key, delta int) *Builder {
	b.step.effects = append(b.step.effects, Add(key, delta))
	return b
}

// WithCost sets a fixed cost for the step. The default is 1.
func (b *Builder) WithCost(cost float64) *Builder {
	if cost < 0 {
		b.errs = append(b.errs, fmt.Errorf("cost must be non-negative, got %g", cost))
		return b
	}
	b.step.cost = FixedCost(cost)
	return b
}

// WithCostFunc sets a state-dependent cost function.
func (b *Builder) WithCostFunc(fn CostFunc) *Builder {
	if fn == nil {
		b.errs = append(b.errs, errors.New("cost function must not be nil"))
		return b
	}
	b.step.cost = fn
	return b
}

// WithAction binds the runtime action factory for this step.
func (b *Builder) WithAction(factory ActionFactory) *Builder {
	b.step.action = factory
	return b
}

// WithGuard binds the per-tick runtime guard for this step.
func (b *Builder) WithGuard(guard Guard) *Builder {
	b.step.guard = guard
	return b
}

// Build validates the blueprint and returns the immutable step.
func (b *Builder) Build() (*Step, error) {
	if b.step.name == "" {
		b.errs = append(b.errs, errors.New("step name must not be empty"))
	}
	if len(b.step.effects) == 0 {
		b.errs = append(b.errs, fmt.Errorf("step %q must declare at least one effect", b.step.name))
	}
	if err := b.checkKinds(); err != nil {
		b.errs = append(b.errs, err)
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("step %q: %w", b.step.name, errors.Join(b.errs...))
	}

	s := b.step
	return &s, nil
}

// MustBuild is Build for static step tables; it panics on validation
// errors.
func (b *Builder) MustBuild() *Step {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// checkKinds verifies that no fact key is used as both a boolean and
// an integer within this step.
func (b *Builder) checkKinds() error {
	kinds := make(map[state.Key]state.Kind)
	record := func(key state.Key, kind state.Kind) error {
		if prev, ok := kinds[key]; ok && prev != kind {
			return fmt.Errorf("%w: fact %q used as both %s and %s", ErrFactKindMismatch, key, prev, kind)
		}
		kinds[key] = kind
		return nil
	}

	for _, c := range b.step.preconds {
		if err := record(c.Key, c.Kind); err != nil {
			return err
		}
	}
	for _, e := range b.step.effects {
		if err := record(e.Key, e.Kind()); err != nil {
			return err
		}
	}
	return nil
}
