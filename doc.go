// Package goap implements goal-oriented action planning for simulated
// agents: given an observed world state, a goal expressed as fact
// constraints, and a catalog of step blueprints, it searches for the
// cheapest step sequence that satisfies the goal and drives that
// sequence against the live world one tick at a time.
//
// The root package is the facade. Planner wires the subsystems
// together; the subpackages are usable on their own:
//
//   - state: facts, immutable states, goals, and conditions
//   - step: step blueprints, effects, catalog, and YAML catalog loading
//   - relevance: per-goal catalog pruning and implicit numeric sub-goals
//   - search: best-first forward search over abstract states
//   - plan: the produced plan and its tick-driven executor
//   - world: tracked snapshots and observer naming conventions
//   - queue: Redis-backed plan request/result transport
//   - worker: in-process and queue-driven planning workers
//
// A minimal session:
//
//	catalog := step.NewCatalog()
//	_ = catalog.RegisterAll(
//	    step.New("GoToFood").
//	        RequireBool("WorldHasFood", true).
//	        SetBool("NearFood", true).
//	        MustBuild(),
//	    step.New("ConsumeFood").
//	        RequireBool("NearFood", true).
//	        SetBool("FoodConsumed", true).
//	        MustBuild(),
//	)
//
//	planner, err := goap.NewPlanner(catalog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	observed := state.New(state.Bool("WorldHasFood", true))
//	goal := state.NewGoal().Bool("FoodConsumed", true)
//
//	p, err := planner.Plan(ctx, "agent-1", observed, goal)
//	if err != nil {
//	    // errors.Is(err, goap.ErrGoalUnreachable), etc.
//	}
//
//	exec, _ := plan.NewExecutor(p, world.NewSnapshot(observed))
//	for status, _ := exec.Tick(ctx); !status.IsTerminal(); status, _ = exec.Tick(ctx) {
//	}
//
// Planning is deliberately fallible: unreachable goals, exhausted
// searches, and busted budgets come back as typed errors the caller's
// goal-selection layer handles by picking another goal. Nothing in this
// module panics on a bad world.
package goap
