package plan

// Status represents the lifecycle state of a plan.
type Status string

const (
	// StatusPending indicates the plan has been produced by search
	// but execution has not started.
	StatusPending Status = "pending"

	// StatusExecuting indicates the executor is driving the plan's
	// steps.
	StatusExecuting Status = "executing"

	// StatusCompleted indicates every step finished and its effects
	// were applied to the tracked snapshot.
	StatusCompleted Status = "completed"

	// StatusFailed indicates a runtime guard rejected the active step
	// or a step's preconditions no longer held at execution time.
	StatusFailed Status = "failed"

	// StatusAbandoned indicates the executor dropped the plan at a
	// step boundary, typically because a higher-utility goal preempted
	// it.
	StatusAbandoned Status = "abandoned"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for completed, failed, and abandoned.
// Terminal plans are discarded, never resumed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusAbandoned:
		return true
	default:
		return false
	}
}

// CanTransitionTo validates a status transition. The state machine is:
//
//	pending   -> executing, abandoned
//	executing -> completed, failed, abandoned
//
// Terminal states cannot transition anywhere.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}

	switch s {
	case StatusPending:
		return target == StatusExecuting || target == StatusAbandoned
	case StatusExecuting:
		return target == StatusCompleted || target == StatusFailed || target == StatusAbandoned
	default:
		return false
	}
}
