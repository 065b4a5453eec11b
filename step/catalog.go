package step

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zero-day-ai/goap/state"
)

// Sentinel errors for catalog operations.
var (
	// ErrDuplicateStep indicates a step name was registered twice.
	ErrDuplicateStep = errors.New("duplicate step name")

	// ErrStepNotFound indicates a lookup for an unregistered step.
	ErrStepNotFound = errors.New("step not found")

	// ErrFactKindMismatch indicates a fact key was used as both a
	// boolean and an integer. A key's kind is fixed for the lifetime
	// of the system.
	ErrFactKindMismatch = errors.New("fact kind mismatch")
)

// Catalog is the full set of steps known to the planner. It is built
// once by the composition root — there is no global instance, so
// multiple independent simulations or tests never share state — and is
// treated as read-only by every search. Rebuilding a catalog while
// searches are in flight is not supported; quiesce planning first.
//
// Registration is safe for concurrent use, and the catalog enforces
// the system-wide fact-kind invariant across all registered steps.
type Catalog struct {
	mu    sync.RWMutex
	byName map[string]*Step
	order  []*Step
	kinds  map[state.Key]state.Kind
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byName: make(map[string]*Step),
		kinds:  make(map[state.Key]state.Kind),
	}
}

// Register adds a step blueprint. It rejects duplicate names and any
// step whose fact usage conflicts with the kinds established by
// previously registered steps.
func (c *Catalog) Register(s *Step) error {
	if s == nil {
		return errors.New("catalog: step must not be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[s.name]; exists {
		return fmt.Errorf("catalog: %w: %q", ErrDuplicateStep, s.name)
	}

	// Validate kinds against the whole catalog before mutating, so a
	// rejected step leaves no partial registration behind.
	pending := make(map[state.Key]state.Kind)
	check := func(key state.Key, kind state.Kind) error {
		if prev, ok := c.kinds[key]; ok && prev != kind {
			return fmt.Errorf("catalog: step %q: %w: fact %q is %s, used as %s", s.name, ErrFactKindMismatch, key, prev, kind)
		}
		if prev, ok := pending[key]; ok && prev != kind {
			return fmt.Errorf("catalog: step %q: %w: fact %q used as both %s and %s", s.name, ErrFactKindMismatch, key, prev, kind)
		}
		pending[key] = kind
		return nil
	}

	for _, cond := range s.preconds {
		if err := check(cond.Key, cond.Kind); err != nil {
			return err
		}
	}
	for _, e := range s.effects {
		if err := check(e.Key, e.Kind()); err != nil {
			return err
		}
	}

	for k, kind := range pending {
		c.kinds[k] = kind
	}
	c.byName[s.name] = s
	c.order = append(c.order, s)
	return nil
}

// RegisterAll registers every step, stopping at the first error.
func (c *Catalog) RegisterAll(steps ...*Step) error {
	for _, s := range steps {
		if err := c.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// AllSteps returns the registered steps in registration order. The
// slice is a copy; the steps themselves are shared read-only entries.
func (c *Catalog) AllSteps() []*Step {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Step, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the step with the given name.
func (c *Catalog) Get(name string) (*Step, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("catalog: %w: %q", ErrStepNotFound, name)
	}
	return s, nil
}

// Len returns the number of registered steps.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// KindOf returns the established kind of a fact key, if any step has
// mentioned it. Planners use this to validate goals and initial
// snapshots against the catalog's fact schema.
func (c *Catalog) KindOf(key state.Key) (state.Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kind, ok := c.kinds[key]
	return kind, ok
}

// BindRuntime attaches an action factory and guard to a registered
// step, typically one loaded from a catalog definition file. Call it
// during composition, before any search uses the catalog.
func (c *Catalog) BindRuntime(name string, factory ActionFactory, guard Guard) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("catalog: %w: %q", ErrStepNotFound, name)
	}
	s.action = factory
	s.guard = guard
	return nil
}
