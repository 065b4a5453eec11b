package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// Sentinel errors for execution-time failures.
var (
	// ErrRuntimeGuardFailed indicates a previously valid plan was
	// invalidated mid-execution by world changes: the active step's
	// guard returned false.
	ErrRuntimeGuardFailed = errors.New("runtime guard failed")

	// ErrPreconditionViolated indicates a step's declared
	// preconditions no longer held at the moment of live execution —
	// for example, the target resource was consumed by another agent
	// first. Distinct from guard failure: it fires even when no guard
	// was registered.
	ErrPreconditionViolated = errors.New("precondition violated at runtime")
)

// Plan is an ordered, costed sequence of steps produced by search,
// consumed one step at a time by an executor. The plan owns its step
// slice outright; the steps themselves are shared, read-only catalog
// entries it references but never owns.
//
// A plan belongs to a single agent and is mutated only by that agent's
// executor on its own tick; it is not safe for concurrent use and does
// not need to be.
type Plan struct {
	id        uuid.UUID
	agentID   string
	goal      *state.Goal
	steps     []*step.Step
	totalCost float64
	cursor    int
	status    Status
	failure   error
	createdAt time.Time
}

// New creates a pending plan for an agent. The step slice is copied.
func New(agentID string, goal *state.Goal, steps []*step.Step, totalCost float64) *Plan {
	owned := make([]*step.Step, len(steps))
	copy(owned, steps)
	return &Plan{
		id:        uuid.New(),
		agentID:   agentID,
		goal:      goal,
		steps:     owned,
		totalCost: totalCost,
		status:    StatusPending,
		createdAt: time.Now(),
	}
}

// ID returns the plan's unique identifier.
func (p *Plan) ID() uuid.UUID {
	return p.id
}

// AgentID returns the agent the plan was produced for.
func (p *Plan) AgentID() string {
	return p.agentID
}

// Goal returns the goal the plan was produced toward.
func (p *Plan) Goal() *state.Goal {
	return p.goal
}

// Steps returns the ordered step sequence. The slice is a copy.
func (p *Plan) Steps() []*step.Step {
	out := make([]*step.Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// StepNames returns the ordered step names, the transportable form of
// the plan.
func (p *Plan) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// TotalCost returns the accumulated cost computed by the search.
func (p *Plan) TotalCost() float64 {
	return p.totalCost
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Cursor returns the index of the current step.
func (p *Plan) Cursor() int {
	return p.cursor
}

// CurrentStep returns the step at the cursor, or nil when the plan is
// exhausted or terminal.
func (p *Plan) CurrentStep() *step.Step {
	if p.status.IsTerminal() || p.cursor >= len(p.steps) {
		return nil
	}
	return p.steps[p.cursor]
}

// Status returns the plan's lifecycle state.
func (p *Plan) Status() Status {
	return p.status
}

// Failure returns the error recorded when the plan failed, or nil.
func (p *Plan) Failure() error {
	return p.failure
}

// CreatedAt returns when the plan was produced.
func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

// Start transitions the plan to executing. A zero-step plan completes
// immediately instead.
func (p *Plan) Start() error {
	if err := p.transition(StatusExecuting); err != nil {
		return err
	}
	if len(p.steps) == 0 {
		return p.transition(StatusCompleted)
	}
	return nil
}

// Advance moves the cursor past the current step, completing the plan
// when the last step is done.
func (p *Plan) Advance() error {
	if p.status != StatusExecuting {
		return fmt.Errorf("plan %s: cannot advance in status %s", p.id, p.status)
	}
	p.cursor++
	if p.cursor >= len(p.steps) {
		return p.transition(StatusCompleted)
	}
	return nil
}

// Fail marks the plan failed and records the cause.
func (p *Plan) Fail(cause error) error {
	if err := p.transition(StatusFailed); err != nil {
		return err
	}
	p.failure = cause
	return nil
}

// Abandon marks the plan abandoned at a step boundary.
func (p *Plan) Abandon() error {
	return p.transition(StatusAbandoned)
}

func (p *Plan) transition(target Status) error {
	if !p.status.CanTransitionTo(target) {
		return fmt.Errorf("plan %s: invalid status transition %s -> %s", p.id, p.status, target)
	}
	p.status = target
	return nil
}
