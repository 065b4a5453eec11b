package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goap "github.com/zero-day-ai/goap"
	"github.com/zero-day-ai/goap/queue"
	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

func testPlanner(t *testing.T) *goap.Planner {
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

	planner, err := goap.NewPlanner(catalog)
	require.NoError(t, err)
	return planner
}

func testQueueClient(t *testing.T) *queue.RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := queue.NewRedisClient(queue.RedisOptions{
		URL: fmt.Sprintf("redis://%s", mr.Addr()),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client
}

func TestRunServesRequestsFromQueue(t *testing.T) {
	planner := testPlanner(t)
	client := testQueueClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, planner, client, Options{ID: "worker-1"})
	}()

	req := queue.PlanRequest{
		ID:          uuid.NewString(),
		AgentID:     "agent-1",
		Facts:       state.New(state.Bool("WorldHasFood", true)),
		Goal:        state.NewGoal().Bool("FoodConsumed", true),
		SubmittedAt: time.Now().UnixMilli(),
	}

	results, err := client.Subscribe(ctx, queue.ResultChannel(req.ID))
	require.NoError(t, err)
	require.NoError(t, client.Submit(ctx, queue.DefaultRequestQueue, req))

	select {
	case result := <-results:
		assert.Equal(t, req.ID, result.RequestID)
		assert.Equal(t, "agent-1", result.AgentID)
		assert.Equal(t, "worker-1", result.WorkerID)
		assert.False(t, result.HasError())
		assert.Equal(t, []string{"GoToFood", "ConsumeFood"}, result.StepNames)
		assert.Equal(t, 2.0, result.TotalCost)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for plan result")
	}

	// Cancellation is the clean exit.
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker shutdown")
	}
}

func TestRunReportsPlanningFailuresAsResults(t *testing.T) {
	planner := testPlanner(t)
	client := testQueueClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = Run(ctx, planner, client, Options{ID: "worker-1"}) }()

	req := queue.PlanRequest{
		ID:          uuid.NewString(),
		AgentID:     "agent-1",
		Facts:       state.New(),
		Goal:        state.NewGoal().Bool("DragonSlain", true),
		SubmittedAt: time.Now().UnixMilli(),
	}

	results, err := client.Subscribe(ctx, queue.ResultChannel(req.ID))
	require.NoError(t, err)
	require.NoError(t, client.Submit(ctx, queue.DefaultRequestQueue, req))

	select {
	case result := <-results:
		assert.True(t, result.HasError())
		assert.Contains(t, result.Error, "no relevant steps")
		assert.Empty(t, result.StepNames)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for plan result")
	}
}

func TestRunMaintainsWorkerCount(t *testing.T) {
	planner := testPlanner(t)
	client := testQueueClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, planner, client, Options{ID: "worker-1"})
	}()

	require.Eventually(t, func() bool {
		count, err := client.WorkerCount(context.Background(), queue.DefaultRequestQueue)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker shutdown")
	}

	count, err := client.WorkerCount(context.Background(), queue.DefaultRequestQueue)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunValidation(t *testing.T) {
	client := testQueueClient(t)

	err := Run(context.Background(), nil, client, Options{})
	require.Error(t, err)

	err = Run(context.Background(), testPlanner(t), nil, Options{})
	require.Error(t, err)
}
