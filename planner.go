package goap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/goap/plan"
	"github.com/zero-day-ai/goap/relevance"
	"github.com/zero-day-ai/goap/search"
	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// searcher abstracts the search engine behind the planner, so tests
// can assert that short-circuit paths never reach search.
type searcher interface {
	Search(ctx context.Context, initial state.State, goal *state.Goal, rel *relevance.Result) (*search.Result, error)
}

// Planner is the top-level planning facade. It owns the step catalog,
// the shared relevance cache, and the search engine, and turns an
// agent's observed state plus a goal into an executable plan.
//
// A Planner is safe for concurrent use; any number of agents may plan
// against it at once. Construct one per catalog:
//
//	planner, err := goap.NewPlanner(catalog,
//	    goap.WithLogger(logger),
//	    goap.WithMaxExpansions(5000),
//	)
type Planner struct {
	catalog  *step.Catalog
	analyzer *relevance.Analyzer
	cache    *relevance.Cache
	engine   searcher

	logger *slog.Logger
	tracer trace.Tracer

	plansTotal   metric.Int64Counter
	planFailures metric.Int64Counter
	expansions   metric.Int64Histogram
	planDuration metric.Float64Histogram
}

// NewPlanner creates a planner over the given catalog.
func NewPlanner(catalog *step.Catalog, opts ...PlannerOption) (*Planner, error) {
	if catalog == nil {
		return nil, NewValidationError("NewPlanner", fmt.Errorf("%w: catalog must not be nil", ErrInvalidConfig))
	}

	cfg := &plannerConfig{
		logger: slog.Default(),
		tracer: tracenoop.NewTracerProvider().Tracer("goap"),
		meter:  metricnoop.NewMeterProvider().Meter("goap"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Planner{
		catalog:  catalog,
		analyzer: relevance.NewAnalyzer(relevance.WithLogger(cfg.logger)),
		cache:    relevance.NewCache(),
		engine: search.NewEngine(
			search.WithOptions(cfg.searchOpts),
			search.WithLogger(cfg.logger),
		),
		logger: cfg.logger,
		tracer: cfg.tracer,
	}

	var err error
	if p.plansTotal, err = cfg.meter.Int64Counter("goap.plans.total",
		metric.WithDescription("Plans requested, by outcome")); err != nil {
		return nil, NewConfigurationError("NewPlanner", err)
	}
	if p.planFailures, err = cfg.meter.Int64Counter("goap.plans.failures",
		metric.WithDescription("Planning requests that produced no plan")); err != nil {
		return nil, NewConfigurationError("NewPlanner", err)
	}
	if p.expansions, err = cfg.meter.Int64Histogram("goap.search.expansions",
		metric.WithDescription("States expanded per successful search")); err != nil {
		return nil, NewConfigurationError("NewPlanner", err)
	}
	if p.planDuration, err = cfg.meter.Float64Histogram("goap.plan.duration",
		metric.WithDescription("Planning latency in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, NewConfigurationError("NewPlanner", err)
	}

	return p, nil
}

// Catalog returns the catalog the planner plans over.
func (p *Planner) Catalog() *step.Catalog {
	return p.catalog
}

// RelevanceCacheLen returns the number of goals with a cached
// relevance analysis, exposed for diagnostics.
func (p *Planner) RelevanceCacheLen() int {
	return p.cache.Len()
}

// Plan produces a plan that takes the agent from its observed state to
// one satisfying the goal.
//
// A goal the current state already satisfies yields a zero-step,
// zero-cost completed-on-start plan without touching relevance or
// search. Otherwise the catalog is pruned for the goal (cached across
// agents), and best-first search runs over the pruned set.
//
// Failures are reported as *PlanError wrapping one of the sentinel
// errors: ErrGoalUnreachable when pruning leaves no usable steps,
// ErrNoPlanFound when search exhausts the reachable space, and
// ErrSearchBudgetExceeded when a search limit cut the attempt short.
func (p *Planner) Plan(ctx context.Context, agentID string, current state.State, goal *state.Goal) (*plan.Plan, error) {
	const op = "Planner.Plan"

	if goal == nil {
		return nil, NewValidationError(op, fmt.Errorf("%w: goal must not be nil", ErrInvalidConfig))
	}

	ctx, span := p.tracer.Start(ctx, "goap.plan",
		trace.WithAttributes(
			attribute.String("goap.agent_id", agentID),
			attribute.String("goap.goal", goal.Fingerprint()),
		))
	defer span.End()

	start := time.Now()
	result, err := p.plan(ctx, agentID, current, goal)
	p.planDuration.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		p.plansTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failure")))
		p.planFailures.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	p.plansTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	span.SetAttributes(
		attribute.Int("goap.plan_steps", result.Len()),
		attribute.Float64("goap.plan_cost", result.TotalCost()),
	)
	return result, nil
}

func (p *Planner) plan(ctx context.Context, agentID string, current state.State, goal *state.Goal) (*plan.Plan, error) {
	const op = "Planner.Plan"

	if err := p.validateFacts(current, goal); err != nil {
		return nil, NewValidationError(op, err)
	}

	// An already-satisfied goal short-circuits before pruning, so an
	// empty relevant set below can only mean the goal is unreachable.
	if goal.SatisfiedBy(current) {
		p.logger.Debug("goal already satisfied", "agent_id", agentID, "goal", goal.Fingerprint())
		return plan.New(agentID, goal, nil, 0), nil
	}

	rel, err := p.cache.GetOrCompute(goal, p.catalog, p.analyzer)
	if err != nil {
		return nil, NewPlanningError(op, err).WithContext(map[string]any{
			"agent_id": agentID,
			"goal":     goal.Fingerprint(),
		})
	}

	result, err := p.engine.Search(ctx, current, goal, rel)
	if err != nil {
		return nil, NewPlanningError(op, err).WithContext(map[string]any{
			"agent_id":       agentID,
			"goal":           goal.Fingerprint(),
			"relevant_steps": rel.Len(),
		})
	}

	p.expansions.Record(ctx, int64(result.Expanded))
	p.logger.Info("plan produced",
		"agent_id", agentID,
		"goal", goal.Fingerprint(),
		"steps", len(result.Steps),
		"cost", result.Cost,
		"expanded", result.Expanded)

	return plan.New(agentID, goal, result.Steps, result.Cost), nil
}

// validateFacts rejects states and goals whose fact kinds conflict
// with the kinds the catalog established. Keys the catalog has never
// seen pass through; observers may report facts no step mentions.
func (p *Planner) validateFacts(current state.State, goal *state.Goal) error {
	for _, key := range current.Keys() {
		v, _ := current.Get(key)
		if kind, ok := p.catalog.KindOf(key); ok && kind != v.Kind() {
			return fmt.Errorf("%w: state fact %q is %s, catalog has %s", ErrUnknownFact, key, v.Kind(), kind)
		}
	}
	for _, c := range goal.Conditions() {
		if kind, ok := p.catalog.KindOf(c.Key); ok && kind != c.Kind {
			return fmt.Errorf("%w: goal fact %q is %s, catalog has %s", ErrUnknownFact, c.Key, c.Kind, kind)
		}
	}
	return nil
}
