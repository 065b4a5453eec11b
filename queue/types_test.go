package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/goap/state"
)

func TestPlanRequestIsValid(t *testing.T) {
	valid := PlanRequest{
		ID:          "req-1",
		AgentID:     "agent-1",
		Goal:        state.NewGoal().Bool("FoodConsumed", true),
		SubmittedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, valid.IsValid())

	tests := []struct {
		name   string
		mutate func(*PlanRequest)
	}{
		{"missing id", func(r *PlanRequest) { r.ID = "" }},
		{"missing agent", func(r *PlanRequest) { r.AgentID = "" }},
		{"missing goal", func(r *PlanRequest) { r.Goal = nil }},
		{"missing submitted_at", func(r *PlanRequest) { r.SubmittedAt = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			require.Error(t, r.IsValid())
		})
	}
}

func TestPlanRequestAge(t *testing.T) {
	r := PlanRequest{SubmittedAt: time.Now().Add(-2 * time.Second).UnixMilli()}
	assert.InDelta(t, 2*time.Second, r.Age(), float64(500*time.Millisecond))

	assert.Equal(t, time.Duration(0), (&PlanRequest{}).Age())
}

func TestPlanResultHelpers(t *testing.T) {
	ok := PlanResult{
		RequestID:   "req-1",
		AgentID:     "agent-1",
		StepNames:   []string{"GoToFood"},
		WorkerID:    "worker-1",
		StartedAt:   1000,
		CompletedAt: 1250,
	}
	require.NoError(t, ok.IsValid())
	assert.False(t, ok.HasError())
	assert.Equal(t, 250*time.Millisecond, ok.Duration())

	failed := ok
	failed.StepNames = nil
	failed.Error = "no plan found"
	require.NoError(t, failed.IsValid())
	assert.True(t, failed.HasError())

	backwards := ok
	backwards.CompletedAt = 500
	require.Error(t, backwards.IsValid())
}

func TestResultChannelNaming(t *testing.T) {
	assert.Equal(t, "goap:plan:results:req-1", ResultChannel("req-1"))
}
