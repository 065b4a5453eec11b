package queue

import (
	"fmt"
	"time"

	"github.com/zero-day-ai/goap/state"
)

// DefaultRequestQueue is the Redis list planning requests are pushed
// to when the caller does not name one.
const DefaultRequestQueue = "goap:plan:requests"

// ResultChannel returns the pub/sub channel plan results for the
// given request are published on.
func ResultChannel(requestID string) string {
	return "goap:plan:results:" + requestID
}

// PlanRequest is a single planning job submitted to the request queue.
// It carries everything a planning worker needs: the requesting
// agent's observed facts and the goal to plan toward.
type PlanRequest struct {
	// ID is a UUID identifying the request; results are published on
	// the channel derived from it.
	ID string `json:"id"`

	// AgentID is the agent the plan is for.
	AgentID string `json:"agent_id"`

	// Facts is the agent's observed world state at submission time.
	Facts state.State `json:"facts"`

	// Goal is the goal to plan toward.
	Goal *state.Goal `json:"goal"`

	// Priority orders requests within a batch; higher plans first.
	// Queue ordering across batches is FIFO regardless.
	Priority int `json:"priority,omitempty"`

	// TraceID is the distributed tracing trace ID for observability.
	TraceID string `json:"trace_id,omitempty"`

	// SubmittedAt is the Unix timestamp in milliseconds when the
	// request was submitted.
	SubmittedAt int64 `json:"submitted_at"`
}

// PlanResult is the outcome of one planning request, published to the
// request's result channel.
type PlanResult struct {
	// RequestID correlates this result with the original request.
	RequestID string `json:"request_id"`

	// AgentID is the agent the plan is for.
	AgentID string `json:"agent_id"`

	// StepNames is the ordered plan, by step name. Empty when the goal
	// was already satisfied or when Error is set.
	StepNames []string `json:"step_names,omitempty"`

	// TotalCost is the accumulated cost of the plan.
	TotalCost float64 `json:"total_cost"`

	// Error is the planning failure message. Empty on success.
	Error string `json:"error,omitempty"`

	// WorkerID is the worker that served the request.
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when planning
	// started.
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when planning
	// completed.
	CompletedAt int64 `json:"completed_at"`
}

// IsValid checks that the request has all required fields populated.
func (r *PlanRequest) IsValid() error {
	if r.ID == "" {
		return fmt.Errorf("id is required")
	}
	if r.AgentID == "" {
		return fmt.Errorf("agent_id is required")
	}
	if r.Goal == nil {
		return fmt.Errorf("goal is required")
	}
	if r.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", r.SubmittedAt)
	}
	return nil
}

// Age returns the duration since the request was submitted. Useful for
// detecting stale requests whose snapshot no longer reflects the world.
func (r *PlanRequest) Age() time.Duration {
	if r.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-r.SubmittedAt) * time.Millisecond
}

// HasError returns true if the result represents a failed planning
// attempt.
func (r *PlanResult) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent planning.
func (r *PlanResult) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks that the result has all required fields populated.
func (r *PlanResult) IsValid() error {
	if r.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	if r.AgentID == "" {
		return fmt.Errorf("agent_id is required")
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	return nil
}
