package goap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/zero-day-ai/goap/plan"
	"github.com/zero-day-ai/goap/relevance"
	"github.com/zero-day-ai/goap/search"
)

// Sentinel errors for common planning failure conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrGoalUnreachable indicates that pruning found no step whose
	// effects contribute to the goal, so no plan can exist.
	ErrGoalUnreachable = relevance.ErrNoRelevantSteps

	// ErrNoPlanFound indicates that search exhausted the reachable
	// state space without satisfying the goal.
	ErrNoPlanFound = search.ErrNoPlanFound

	// ErrSearchBudgetExceeded indicates that search stopped because it
	// hit the expansion or cost ceiling before finding a plan.
	ErrSearchBudgetExceeded = search.ErrBudgetExceeded

	// ErrRuntimeGuardFailed indicates that a step's runtime guard
	// rejected continued execution.
	ErrRuntimeGuardFailed = plan.ErrRuntimeGuardFailed

	// ErrPreconditionViolated indicates that a step's precondition no
	// longer held when execution reached it.
	ErrPreconditionViolated = plan.ErrPreconditionViolated

	// ErrUnknownFact indicates that a goal or state referenced a fact
	// key with a kind conflicting with the step catalog.
	ErrUnknownFact = errors.New("fact kind conflicts with catalog")

	// ErrInvalidConfig indicates the provided configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindPlanning represents errors raised while producing a plan.
	KindPlanning = "planning"

	// KindExecution represents errors raised while executing a plan.
	KindExecution = "execution"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindTransport represents errors from the plan-request queue.
	KindTransport = "transport"

	// KindInternal represents internal planner errors.
	KindInternal = "internal"
)

// PlanError is a structured error type that wraps underlying errors
// with the operation that failed and the category of failure.
//
// PlanError implements the error interface and supports error
// unwrapping, making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &PlanError{
//		Op:   "Planner.Plan",
//		Kind: KindPlanning,
//		Err:  ErrNoPlanFound,
//	}
type PlanError struct {
	// Op is the operation that failed (e.g., "Planner.Plan", "Executor.Tick").
	Op string

	// Kind categorizes the error (e.g., KindPlanning, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include the agent ID, goal fingerprint, or budget values.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error
// message that includes the operation, kind, and underlying error.
func (e *PlanError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("goap: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("goap: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("goap: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work correctly with wrapped errors.
func (e *PlanError) Unwrap() error {
	return e.Err
}

// Is implements error matching for PlanError, allowing comparison
// based on the underlying error or another PlanError's Op and Kind.
func (e *PlanError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*PlanError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a new PlanError with the provided context added.
// This is useful for attaching debugging information to errors.
func (e *PlanError) WithContext(ctx map[string]any) *PlanError {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewValidationError creates a new PlanError with KindValidation.
func NewValidationError(op string, err error) *PlanError {
	return &PlanError{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewPlanningError creates a new PlanError with KindPlanning.
func NewPlanningError(op string, err error) *PlanError {
	return &PlanError{
		Op:   op,
		Kind: KindPlanning,
		Err:  err,
	}
}

// NewExecutionError creates a new PlanError with KindExecution.
func NewExecutionError(op string, err error) *PlanError {
	return &PlanError{
		Op:   op,
		Kind: KindExecution,
		Err:  err,
	}
}

// NewConfigurationError creates a new PlanError with KindConfiguration.
func NewConfigurationError(op string, err error) *PlanError {
	return &PlanError{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// NewTransportError creates a new PlanError with KindTransport.
func NewTransportError(op string, err error) *PlanError {
	return &PlanError{
		Op:   op,
		Kind: KindTransport,
		Err:  err,
	}
}

// NewInternalError creates a new PlanError with KindInternal.
func NewInternalError(op string, err error) *PlanError {
	return &PlanError{
		Op:   op,
		Kind: KindInternal,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any
// error at warning level. This is intended for use in defer statements
// so cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed. If
// logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
