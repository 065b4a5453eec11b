package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/goap/step"
	"github.com/zero-day-ai/goap/world"
)

// Executor drives a single plan one step at a time against the live
// world. Each Tick it:
//
//  1. re-checks the current step's declared preconditions against the
//     tracked snapshot when the step starts (ErrPreconditionViolated
//     on failure),
//  2. queries the step's runtime guard, if any (ErrRuntimeGuardFailed
//     on rejection, independent of the step's own progress),
//  3. advances the bound action's enter/update/exit lifecycle,
//  4. applies the step's declared effects to the snapshot when the
//     action reports done, and moves the cursor.
//
// An Executor belongs to one agent and must run on whatever goroutine
// owns that agent's per-tick update; it shares no state with other
// agents' executors.
type Executor struct {
	plan     *Plan
	snapshot *world.Snapshot
	active   step.Action
	ec       *step.ExecContext
	logger   *slog.Logger
	tracer   trace.Tracer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the executor's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for per-step spans.
// Defaults to a noop tracer.
func WithTracer(tracer trace.Tracer) ExecutorOption {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

// NewExecutor creates an executor for the given plan and tracked
// snapshot.
func NewExecutor(p *Plan, snapshot *world.Snapshot, opts ...ExecutorOption) (*Executor, error) {
	if p == nil {
		return nil, errors.New("plan: executor requires a plan")
	}
	if snapshot == nil {
		return nil, errors.New("plan: executor requires a snapshot")
	}

	e := &Executor{
		plan:     p,
		snapshot: snapshot,
		ec: &step.ExecContext{
			AgentID:  p.AgentID(),
			Snapshot: snapshot,
			Data:     make(map[string]any),
		},
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("goap/plan"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("plan_id", p.ID().String(), "agent_id", p.AgentID())
	return e, nil
}

// Plan returns the plan being executed.
func (e *Executor) Plan() *Plan {
	return e.plan
}

// Tick advances the plan by one update. It returns the plan's status
// after the tick and, for failed plans, the failure cause. Calling
// Tick on a terminal plan returns the terminal status unchanged.
func (e *Executor) Tick(ctx context.Context) (Status, error) {
	p := e.plan
	if p.Status().IsTerminal() {
		return p.Status(), p.Failure()
	}

	if p.Status() == StatusPending {
		if err := p.Start(); err != nil {
			return p.Status(), err
		}
		if p.Status() == StatusCompleted {
			// Goal was already satisfied; zero-step plan.
			return StatusCompleted, nil
		}
	}

	e.ec.Tick++

	current := p.CurrentStep()
	if current == nil {
		// Cursor past the end with a non-terminal status cannot
		// happen through the public API.
		return p.Status(), fmt.Errorf("plan %s: no current step in status %s", p.ID(), p.Status())
	}

	_, span := e.tracer.Start(ctx, "plan.step",
		trace.WithAttributes(
			attribute.String("goap.step", current.Name()),
			attribute.Int("goap.cursor", p.Cursor()),
		))
	defer span.End()

	status, err := e.tickStep(current)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return status, err
}

// tickStep drives the current step through one update.
func (e *Executor) tickStep(current *step.Step) (Status, error) {
	p := e.plan

	// Starting a new step: re-validate its preconditions against the
	// live snapshot. The plan was built from an older observation;
	// another agent may have consumed the target in the meantime.
	if e.active == nil {
		live := e.snapshot.State()
		for _, pre := range current.Preconditions() {
			if !pre.SatisfiedBy(live) {
				cause := fmt.Errorf("plan: step %q: %w: %s", current.Name(), ErrPreconditionViolated, pre)
				return e.fail(cause)
			}
		}

		factory := current.ActionFactory()
		if factory == nil {
			e.active = step.InstantAction(nil)
		} else {
			e.active = factory()
		}
		if err := e.active.Enter(e.ec); err != nil {
			return e.fail(fmt.Errorf("plan: step %q: enter: %w", current.Name(), err))
		}
		e.logger.Debug("step started", "step", current.Name(), "cursor", p.Cursor())
	}

	// Guard check happens every tick while the step is active. A
	// rejecting guard fails the plan regardless of action progress.
	if guard := current.Guard(); guard != nil {
		if !guard(e.ec) {
			cause := fmt.Errorf("plan: step %q: %w", current.Name(), ErrRuntimeGuardFailed)
			_ = e.active.Exit(e.ec)
			e.active = nil
			return e.fail(cause)
		}
	}

	done, err := e.active.Update(e.ec)
	if err != nil {
		_ = e.active.Exit(e.ec)
		e.active = nil
		return e.fail(fmt.Errorf("plan: step %q: update: %w", current.Name(), err))
	}
	if !done {
		return p.Status(), nil
	}

	if err := e.active.Exit(e.ec); err != nil {
		e.active = nil
		return e.fail(fmt.Errorf("plan: step %q: exit: %w", current.Name(), err))
	}
	e.active = nil

	// The step completed: publish its declared effects into the
	// tracked snapshot used for the next plan generation.
	e.snapshot.Replace(current.Apply(e.snapshot.State()))

	if err := p.Advance(); err != nil {
		return p.Status(), err
	}
	if p.Status() == StatusCompleted {
		e.logger.Info("plan completed", "steps", p.Len(), "cost", p.TotalCost())
	}
	return p.Status(), nil
}

// Abandon drops the plan at the current step boundary, invoking the
// active action's exit hook so reservation-like side effects are
// released. A no-op on terminal plans.
func (e *Executor) Abandon() error {
	p := e.plan
	if p.Status().IsTerminal() {
		return nil
	}

	if e.active != nil {
		_ = e.active.Exit(e.ec)
		e.active = nil
	}
	if err := p.Abandon(); err != nil {
		return err
	}
	e.logger.Info("plan abandoned", "cursor", p.Cursor())
	return nil
}

// fail records the cause on the plan and returns the failed status.
func (e *Executor) fail(cause error) (Status, error) {
	p := e.plan
	if err := p.Fail(cause); err != nil {
		return p.Status(), err
	}
	e.logger.Warn("plan failed", "cursor", p.Cursor(), "cause", cause)
	return StatusFailed, cause
}
