package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/goap/state"
)

// setupTestClient creates a miniredis instance and returns a connected RedisClient.
func setupTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func testRequest() PlanRequest {
	return PlanRequest{
		ID:      "req-123",
		AgentID: "agent-1",
		Facts: state.New(
			state.Bool("WorldHasFood", true),
			state.Int("CountOfStick", 2),
		),
		Goal:        state.NewGoal().Bool("FoodConsumed", true).AtLeast("CountOfStick", 4),
		Priority:    3,
		TraceID:     "trace-123",
		SubmittedAt: time.Now().UnixMilli(),
	}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		client, err := NewRedisClient(RedisOptions{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL:            "redis://localhost:99999",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL: "invalid://url",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

func TestSubmitNext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		req := testRequest()
		require.NoError(t, client.Submit(ctx, DefaultRequestQueue, req))

		got, err := client.Next(ctx, DefaultRequestQueue)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, req.ID, got.ID)
		assert.Equal(t, req.AgentID, got.AgentID)
		assert.Equal(t, req.Priority, got.Priority)
		assert.Equal(t, req.TraceID, got.TraceID)
		assert.Equal(t, req.SubmittedAt, got.SubmittedAt)

		// State and goal survive the wire format.
		assert.True(t, got.Facts.Bool("WorldHasFood"))
		assert.Equal(t, 2, got.Facts.Int("CountOfStick"))
		assert.Equal(t, req.Goal.Fingerprint(), got.Goal.Fingerprint())
	})

	t.Run("FIFO ordering", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			req := testRequest()
			req.ID = fmt.Sprintf("req-%d", i)
			require.NoError(t, client.Submit(ctx, "q", req))
		}

		for i := 0; i < 3; i++ {
			got, err := client.Next(ctx, "q")
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("req-%d", i), got.ID)
		}
	})

	t.Run("invalid request rejected", func(t *testing.T) {
		client, _ := setupTestClient(t)

		err := client.Submit(context.Background(), "q", PlanRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid plan request")
	})

	t.Run("blocking pop honors cancellation", func(t *testing.T) {
		client, _ := setupTestClient(t)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := client.Next(ctx, "empty-queue")
		require.Error(t, err)
	})
}

func TestPublishSubscribe(t *testing.T) {
	client, _ := setupTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := ResultChannel("req-123")
	results, err := client.Subscribe(ctx, channel)
	require.NoError(t, err)

	want := PlanResult{
		RequestID:   "req-123",
		AgentID:     "agent-1",
		StepNames:   []string{"GoToFood", "ConsumeFood"},
		TotalCost:   2,
		WorkerID:    "worker-1",
		StartedAt:   time.Now().UnixMilli(),
		CompletedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, client.Publish(ctx, channel, want))

	select {
	case got := <-results:
		assert.Equal(t, want.RequestID, got.RequestID)
		assert.Equal(t, want.StepNames, got.StepNames)
		assert.Equal(t, want.TotalCost, got.TotalCost)
		assert.False(t, got.HasError())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published result")
	}

	// Cancelling the context closes the result channel.
	cancel()
	select {
	case _, open := <-results:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestHeartbeat(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Heartbeat(ctx, "worker-1"))

	key := "goap:worker:worker-1:health"
	val, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "ok", val)

	// The health key expires if heartbeats stop.
	mr.FastForward(31 * time.Second)
	assert.False(t, mr.Exists(key))
}

func TestWorkerCounts(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	count, err := client.WorkerCount(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, client.IncrementWorkerCount(ctx, "q"))
	require.NoError(t, client.IncrementWorkerCount(ctx, "q"))

	count, err = client.WorkerCount(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, client.DecrementWorkerCount(ctx, "q"))

	count, err = client.WorkerCount(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
