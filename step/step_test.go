package step

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/goap/state"
)

func buildChopTree(t *testing.T) *Step {
	t.Helper()

	s, err := New("ChopTree").
		RequireBool("NearTree", true).
		RequireBool("WorldHasTree", true).
		SetBool("WorldHasStick", true).
		AddInt("CountOfStickWorld", 4).
		WithCost(4).
		Build()
	require.NoError(t, err)
	return s
}

func TestBuilderValidation(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := New("").SetBool("X", true).Build()
		require.Error(t, err)
	})

	t.Run("no effects", func(t *testing.T) {
		_, err := New("Idle").RequireBool("X", true).Build()
		require.Error(t, err)
	})

	t.Run("negative cost", func(t *testing.T) {
		_, err := New("Bad").SetBool("X", true).WithCost(-1).Build()
		require.Error(t, err)
	})

	t.Run("kind conflict within step", func(t *testing.T) {
		_, err := New("Bad").
			RequireBool("CountOfStick", true).
			AddInt("CountOfStick", 1).
			Build()
		require.ErrorIs(t, err, ErrFactKindMismatch)
	})

	t.Run("valid step", func(t *testing.T) {
		s := buildChopTree(t)
		assert.Equal(t, "ChopTree", s.Name())
		assert.Len(t, s.Preconditions(), 2)
		assert.Len(t, s.Effects(), 2)
		assert.Equal(t, 4.0, s.Cost(state.New()))
	})
}

func TestStepApplicable(t *testing.T) {
	chop := buildChopTree(t)

	t.Run("all preconditions hold", func(t *testing.T) {
		s := state.New(
			state.Bool("NearTree", true),
			state.Bool("WorldHasTree", true),
		)
		assert.True(t, chop.Applicable(s))
	})

	t.Run("known violated precondition blocks", func(t *testing.T) {
		s := state.New(
			state.Bool("NearTree", false),
			state.Bool("WorldHasTree", true),
		)
		assert.False(t, chop.Applicable(s))
	})

	t.Run("unknown fact is optimistic", func(t *testing.T) {
		// NearTree never observed: planning assumes it can hold and
		// relies on the runtime re-check.
		s := state.New(state.Bool("WorldHasTree", true))
		assert.True(t, chop.Applicable(s))
	})
}

func TestStepApplyIsPure(t *testing.T) {
	chop := buildChopTree(t)
	before := state.New(
		state.Bool("NearTree", true),
		state.Bool("WorldHasTree", true),
		state.Int("CountOfStickWorld", 1),
	)

	after := chop.Apply(before)

	assert.Equal(t, 1, before.Int("CountOfStickWorld"))
	assert.Equal(t, 5, after.Int("CountOfStickWorld"))
	assert.True(t, after.Bool("WorldHasStick"))
}

func TestStepApplySequentialEffectsOnSameKey(t *testing.T) {
	s, err := New("DoubleAdd").
		AddInt("CountOfStick", 2).
		AddInt("CountOfStick", 3).
		Build()
	require.NoError(t, err)

	after := s.Apply(state.New())
	assert.Equal(t, 5, after.Int("CountOfStick"))
}

func TestDecrementClampsAtZero(t *testing.T) {
	s, err := New("Spend").
		AddInt("CountOfStick", -3).
		Build()
	require.NoError(t, err)

	after := s.Apply(state.New(state.Int("CountOfStick", 1)))
	assert.Equal(t, 0, after.Int("CountOfStick"))
}

func TestEffectCanSatisfy(t *testing.T) {
	tests := []struct {
		name   string
		effect Effect
		cond   state.Condition
		want   bool
	}{
		{"bool set matches", SetBool("NearFood", true), state.BoolCondition("NearFood", true), true},
		{"bool set wrong value", SetBool("NearFood", false), state.BoolCondition("NearFood", true), false},
		{"different key", SetBool("NearTree", true), state.BoolCondition("NearFood", true), false},
		{"set_int reaches bound", SetInt("CountOfStick", 4), state.MinCondition("CountOfStick", 4), true},
		{"set_int below bound", SetInt("CountOfStick", 3), state.MinCondition("CountOfStick", 4), false},
		{"positive add is repeatable", Add("CountOfStick", 1), state.MinCondition("CountOfStick", 4), true},
		{"negative add never satisfies", Add("CountOfStick", -1), state.MinCondition("CountOfStick", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.effect.CanSatisfy(tt.cond))
		})
	}
}

func TestInstantAction(t *testing.T) {
	called := false
	a := InstantAction(func(*ExecContext) error {
		called = true
		return nil
	})

	require.NoError(t, a.Enter(nil))
	done, err := a.Update(nil)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, called)
	require.NoError(t, a.Exit(nil))
}
