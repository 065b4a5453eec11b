package goap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/goap/plan"
	"github.com/zero-day-ai/goap/relevance"
	"github.com/zero-day-ai/goap/search"
	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

func foodCatalog(t *testing.T) *step.Catalog {
	t.Helper()

	catalog := step.NewCatalog()
	require.NoError(t, catalog.RegisterAll(
		step.New("GoToFood").
			RequireBool("WorldHasFood", true).
			SetBool("NearFood", true).
			MustBuild(),
		step.New("ConsumeFood").
			RequireBool("NearFood", true).
			SetBool("FoodConsumed", true).
			MustBuild(),
	))
	return catalog
}

func TestPlannerProducesExecutablePlan(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	observed := state.New(
		state.Bool("WorldHasFood", true),
		state.Bool("NearFood", false),
	)
	goal := state.NewGoal().Bool("FoodConsumed", true)

	p, err := planner.Plan(context.Background(), "agent-1", observed, goal)
	require.NoError(t, err)

	assert.Equal(t, []string{"GoToFood", "ConsumeFood"}, p.StepNames())
	assert.Equal(t, 2.0, p.TotalCost())
	assert.Equal(t, "agent-1", p.AgentID())
	assert.Equal(t, plan.StatusPending, p.Status())
}

func TestPlannerAlreadySatisfiedGoalSkipsSearch(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	// A failing searcher proves the short-circuit path never searches.
	planner.engine = searcherFunc(func(context.Context, state.State, *state.Goal, *relevance.Result) (*search.Result, error) {
		t.Fatal("search must not run for an already-satisfied goal")
		return nil, nil
	})

	observed := state.New(state.Bool("FoodConsumed", true))
	goal := state.NewGoal().Bool("FoodConsumed", true)

	p, err := planner.Plan(context.Background(), "agent-1", observed, goal)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 0.0, p.TotalCost())
	assert.Equal(t, 0, planner.RelevanceCacheLen(), "no relevance entry for a satisfied goal")
}

func TestPlannerGoalUnreachable(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	goal := state.NewGoal().Bool("DragonSlain", true)
	_, err = planner.Plan(context.Background(), "agent-1", state.New(), goal)

	require.ErrorIs(t, err, ErrGoalUnreachable)

	var perr *PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindPlanning, perr.Kind)
	assert.Equal(t, "agent-1", perr.Context["agent_id"])
}

func TestPlannerNoPlanFound(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	// Relevant steps exist, but the world has no food to start from.
	observed := state.New(state.Bool("WorldHasFood", false))
	goal := state.NewGoal().Bool("FoodConsumed", true)

	_, err = planner.Plan(context.Background(), "agent-1", observed, goal)
	require.ErrorIs(t, err, ErrNoPlanFound)
}

func TestPlannerBudgetExceeded(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t), WithMaxExpansions(1))
	require.NoError(t, err)

	observed := state.New(state.Bool("WorldHasFood", true))
	goal := state.NewGoal().Bool("FoodConsumed", true)

	_, err = planner.Plan(context.Background(), "agent-1", observed, goal)
	require.ErrorIs(t, err, ErrSearchBudgetExceeded)
}

func TestPlannerSharesRelevanceAcrossAgents(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	observed := state.New(state.Bool("WorldHasFood", true))
	goal := state.NewGoal().Bool("FoodConsumed", true)

	_, err = planner.Plan(context.Background(), "agent-1", observed, goal)
	require.NoError(t, err)
	_, err = planner.Plan(context.Background(), "agent-2", observed, goal)
	require.NoError(t, err)

	assert.Equal(t, 1, planner.RelevanceCacheLen())
}

func TestPlannerRejectsKindConflicts(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	t.Run("state fact", func(t *testing.T) {
		observed := state.New(state.Int("NearFood", 3))
		goal := state.NewGoal().Bool("FoodConsumed", true)
		_, err := planner.Plan(context.Background(), "agent-1", observed, goal)
		require.ErrorIs(t, err, ErrUnknownFact)
	})

	t.Run("goal condition", func(t *testing.T) {
		goal := state.NewGoal().AtLeast("FoodConsumed", 2)
		_, err := planner.Plan(context.Background(), "agent-1", state.New(), goal)
		require.ErrorIs(t, err, ErrUnknownFact)
	})

	t.Run("unknown keys pass through", func(t *testing.T) {
		observed := state.New(
			state.Bool("WorldHasFood", true),
			state.Int("CountOfCloud", 7),
		)
		goal := state.NewGoal().Bool("FoodConsumed", true)
		_, err := planner.Plan(context.Background(), "agent-1", observed, goal)
		require.NoError(t, err)
	})
}

func TestPlannerValidation(t *testing.T) {
	_, err := NewPlanner(nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), "agent-1", state.New(), nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	var perr *PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindValidation, perr.Kind)
}

func TestPlannerContextCancellation(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	observed := state.New(state.Bool("WorldHasFood", true))
	goal := state.NewGoal().Bool("FoodConsumed", true)

	_, err = planner.Plan(ctx, "agent-1", observed, goal)
	require.ErrorIs(t, err, context.Canceled)
}

// searcherFunc adapts a function to the searcher interface.
type searcherFunc func(context.Context, state.State, *state.Goal, *relevance.Result) (*search.Result, error)

func (f searcherFunc) Search(ctx context.Context, initial state.State, goal *state.Goal, rel *relevance.Result) (*search.Result, error) {
	return f(ctx, initial, goal, rel)
}

func TestPlannerWrapsSearcherErrors(t *testing.T) {
	planner, err := NewPlanner(foodCatalog(t))
	require.NoError(t, err)

	boom := errors.New("frontier corrupted")
	planner.engine = searcherFunc(func(context.Context, state.State, *state.Goal, *relevance.Result) (*search.Result, error) {
		return nil, boom
	})

	observed := state.New(state.Bool("WorldHasFood", true))
	goal := state.NewGoal().Bool("FoodConsumed", true)

	_, err = planner.Plan(context.Background(), "agent-1", observed, goal)
	require.ErrorIs(t, err, boom)

	var perr *PlanError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindPlanning, perr.Kind)
}
