package goap

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/goap/search"
)

// PlannerOption configures a Planner.
type PlannerOption func(*plannerConfig)

// plannerConfig holds configuration for a Planner instance.
type plannerConfig struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	searchOpts search.Options
}

// WithLogger sets a custom logger for the planner.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) PlannerOption {
	return func(c *plannerConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for per-plan spans.
// This enables observability across planning and execution.
func WithTracer(tracer trace.Tracer) PlannerOption {
	return func(c *plannerConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for planner metrics: plan
// counts, search expansions, and planning latency.
func WithMeter(meter metric.Meter) PlannerOption {
	return func(c *plannerConfig) {
		c.meter = meter
	}
}

// WithSearchOptions sets all search limits at once. Later
// WithMaxExpansions, WithMaxCost, and WithUnmetFactCost options
// override individual fields.
func WithSearchOptions(opts search.Options) PlannerOption {
	return func(c *plannerConfig) {
		c.searchOpts = opts
	}
}

// WithMaxExpansions caps how many states a single search may expand.
// Zero means search.DefaultMaxExpansions.
func WithMaxExpansions(n int) PlannerOption {
	return func(c *plannerConfig) {
		c.searchOpts.MaxExpansions = n
	}
}

// WithMaxCost caps the accumulated cost of any plan. Zero means
// unlimited.
func WithMaxCost(max float64) PlannerOption {
	return func(c *plannerConfig) {
		c.searchOpts.MaxCost = max
	}
}

// WithUnmetFactCost sets the heuristic's per-unmet-constraint cost
// estimate. Zero means search.DefaultUnmetFactCost.
func WithUnmetFactCost(cost float64) PlannerOption {
	return func(c *plannerConfig) {
		c.searchOpts.UnmetFactCost = cost
	}
}
