package worker

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/zero-day-ai/goap/plan"
	"github.com/zero-day-ai/goap/state"
)

// Planner produces a plan for one agent. The root package's Planner
// satisfies this interface.
type Planner interface {
	Plan(ctx context.Context, agentID string, current state.State, goal *state.Goal) (*plan.Plan, error)
}

// Request is one agent's planning request in an in-process batch.
type Request struct {
	// AgentID identifies the requesting agent.
	AgentID string

	// Facts is the agent's observed world state.
	Facts state.State

	// Goal is the goal to plan toward.
	Goal *state.Goal

	// Priority orders the batch; higher plans first. Ties keep
	// submission order.
	Priority int
}

// Outcome pairs a request with its plan or planning error.
type Outcome struct {
	// AgentID identifies the requesting agent.
	AgentID string

	// Plan is the produced plan. Nil when Err is set.
	Plan *plan.Plan

	// Err is the planning failure, if any.
	Err error
}

// Pool plans for many agents concurrently inside one process. It
// exists for tick-based hosts that collect all agents needing a plan
// and want them served within the tick budget without one slow search
// starving the rest.
//
// A Pool holds no per-batch state and is safe for concurrent use.
type Pool struct {
	planner Planner
	size    int
	logger  *slog.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithSize sets how many planning goroutines a batch may use.
// Defaults to 4.
func WithSize(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithPoolLogger sets the pool's logger. Defaults to slog.Default().
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool creates a pool over the given planner.
func NewPool(planner Planner, opts ...PoolOption) *Pool {
	p := &Pool{
		planner: planner,
		size:    4,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanAll serves a batch of requests and returns one outcome per
// request, in the same order as the input. Requests are dispatched in
// priority order, so when the context expires mid-batch the
// highest-priority agents are the ones most likely to have plans.
//
// A cancelled context surfaces as ctx.Err() in the remaining outcomes;
// PlanAll itself always returns a full slice.
func (p *Pool) PlanAll(ctx context.Context, requests []Request) []Outcome {
	outcomes := make([]Outcome, len(requests))
	if len(requests) == 0 {
		return outcomes
	}

	// Dispatch order: priority descending, stable within a priority.
	order := make([]int, len(requests))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return requests[order[a]].Priority > requests[order[b]].Priority
	})

	workers := p.size
	if workers > len(requests) {
		workers = len(requests)
	}

	work := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				req := requests[idx]
				pl, err := p.planner.Plan(ctx, req.AgentID, req.Facts, req.Goal)
				outcomes[idx] = Outcome{AgentID: req.AgentID, Plan: pl, Err: err}
			}
		}()
	}

	for _, idx := range order {
		if err := ctx.Err(); err != nil {
			outcomes[idx] = Outcome{AgentID: requests[idx].AgentID, Err: err}
			continue
		}
		work <- idx
	}
	close(work)
	wg.Wait()

	return outcomes
}
