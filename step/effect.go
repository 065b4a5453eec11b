package step

import (
	"fmt"

	"github.com/zero-day-ai/goap/state"
)

// EffectOp identifies the kind of fact mutation an effect performs.
type EffectOp string

const (
	// OpSetBool sets a boolean fact to a fixed value.
	OpSetBool EffectOp = "set_bool"

	// OpSetInt sets an integer fact to a fixed value.
	OpSetInt EffectOp = "set_int"

	// OpAdd increments (or, with a negative delta, decrements) an
	// integer fact. Results below zero clamp to zero.
	OpAdd EffectOp = "add"
)

// Effect is a single declared fact mutation of a step.
type Effect struct {
	// Key is the fact the effect mutates.
	Key state.Key

	// Op selects the mutation kind.
	Op EffectOp

	// Bool is the value written by OpSetBool.
	Bool bool

	// Int is the value written by OpSetInt, or the delta applied by
	// OpAdd.
	Int int
}

// SetBool creates an effect that sets a boolean fact.
func SetBool(key state.Key, v bool) Effect {
	return Effect{Key: key, Op: OpSetBool, Bool: v}
}

// SetInt creates an effect that sets an integer fact.
func SetInt(key state.Key, v int) Effect {
	return Effect{Key: key, Op: OpSetInt, Int: v}
}

// Add creates an effect that adjusts an integer fact by delta.
func Add(key state.Key, delta int) Effect {
	return Effect{Key: key, Op: OpAdd, Int: delta}
}

// Kind returns the fact kind this effect writes.
func (e Effect) Kind() state.Kind {
	if e.Op == OpSetBool {
		return state.KindBool
	}
	return state.KindInt
}

// CanSatisfy reports whether applying this effect could move a state
// toward satisfying the condition. This is the edge test of the
// relevance graph: boolean conditions match a set of the required
// value, integer lower bounds match a sufficient set or any positive
// increment (increments are repeatable, so any positive delta can
// eventually reach the bound).
func (e Effect) CanSatisfy(c state.Condition) bool {
	if e.Key != c.Key {
		return false
	}
	switch c.Kind {
	case state.KindBool:
		return e.Op == OpSetBool && e.Bool == c.Equals
	case state.KindInt:
		switch e.Op {
		case OpSetInt:
			return e.Int >= c.Min
		case OpAdd:
			return e.Int > 0
		}
	}
	return false
}

// resolve computes the fact this effect writes, given the fact's
// current value.
func (e Effect) resolve(current state.Value) state.Fact {
	switch e.Op {
	case OpSetBool:
		return state.Bool(e.Key, e.Bool)
	case OpSetInt:
		return state.Int(e.Key, e.Int)
	case OpAdd:
		return state.Int(e.Key, current.Int()+e.Int)
	default:
		// Unreachable for effects built through the constructors.
		return state.Fact{Key: e.Key}
	}
}

// String returns the effect in a compact canonical form.
func (e Effect) String() string {
	switch e.Op {
	case OpSetBool:
		return fmt.Sprintf("%s=%t", e.Key, e.Bool)
	case OpSetInt:
		return fmt.Sprintf("%s=%d", e.Key, e.Int)
	case OpAdd:
		return fmt.Sprintf("%s+=%d", e.Key, e.Int)
	default:
		return fmt.Sprintf("%s=<invalid>", e.Key)
	}
}
