package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	t.Run("bool value", func(t *testing.T) {
		v := BoolValue(true)
		assert.Equal(t, KindBool, v.Kind())
		assert.True(t, v.Bool())
		assert.Equal(t, 0, v.Int())
	})

	t.Run("int value", func(t *testing.T) {
		v := IntValue(7)
		assert.Equal(t, KindInt, v.Kind())
		assert.Equal(t, 7, v.Int())
		assert.False(t, v.Bool())
	})

	t.Run("negative int clamps to zero", func(t *testing.T) {
		v := IntValue(-3)
		assert.Equal(t, 0, v.Int())
	})
}

func TestStateWithIsCopyOnWrite(t *testing.T) {
	parent := New(
		Bool("NearFood", false),
		Int("CountOfStick", 2),
	)

	child := parent.With(Bool("NearFood", true), Int("CountOfStick", 3))

	// Parent is untouched.
	assert.False(t, parent.Bool("NearFood"))
	assert.Equal(t, 2, parent.Int("CountOfStick"))

	// Child sees the overlay.
	assert.True(t, child.Bool("NearFood"))
	assert.Equal(t, 3, child.Int("CountOfStick"))
}

func TestStateEqual(t *testing.T) {
	a := New(Bool("HasAxe", true), Int("CountOfWood", 4))
	b := New(Int("CountOfWood", 4), Bool("HasAxe", true))
	c := New(Bool("HasAxe", true), Int("CountOfWood", 5))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(New(Bool("HasAxe", true))))
}

func TestStateFingerprintIsCanonical(t *testing.T) {
	a := New(Bool("HasAxe", true), Int("CountOfWood", 4))
	b := New(Int("CountOfWood", 4), Bool("HasAxe", true))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), a.With(Int("CountOfWood", 5)).Fingerprint())
}

func TestStateFromMapCopiesBuffer(t *testing.T) {
	buf := map[Key]Value{"HasAxe": BoolValue(true)}
	s := FromMap(buf)

	// Mutating the caller's buffer must not leak into the state.
	buf["HasAxe"] = BoolValue(false)
	assert.True(t, s.Bool("HasAxe"))
}

func TestStateJSONRoundTrip(t *testing.T) {
	s := New(
		Bool("NearFood", true),
		Bool("WorldHasFood", false),
		Int("CountOfStick", 4),
	)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, s.Equal(decoded))
}

func TestStateUnmarshalRejectsUnsupportedTypes(t *testing.T) {
	var s State
	err := json.Unmarshal([]byte(`{"HasAxe":"yes"}`), &s)
	require.Error(t, err)
}
