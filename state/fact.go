package state

import (
	"fmt"
	"strconv"
)

// Key identifies a single fact in a planning state.
// By convention keys follow the HasX / CountOfX / NearX naming scheme
// used by world observers (see the world package).
type Key string

// Kind identifies the value type of a fact. A key's kind is fixed for
// the lifetime of the system; registering the same key with two kinds
// is a configuration error surfaced by the step catalog.
type Kind string

const (
	// KindBool is a boolean fact (e.g., NearFood).
	KindBool Kind = "bool"

	// KindInt is a non-negative integer fact (e.g., CountOfStick).
	KindInt Kind = "int"
)

// Value is the value of a single fact: either a boolean or a
// non-negative integer. The zero Value is an invalid fact value;
// construct values with BoolValue or IntValue.
type Value struct {
	kind Kind
	b    bool
	i    int
}

// BoolValue creates a boolean fact value.
func BoolValue(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// IntValue creates an integer fact value. Integer facts are
// non-negative; negative inputs are clamped to zero.
func IntValue(v int) Value {
	if v < 0 {
		v = 0
	}
	return Value{kind: KindInt, i: v}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Bool returns the boolean payload. It is false for integer values.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.b
}

// Int returns the integer payload. It is zero for boolean values.
func (v Value) Int() int {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

// Equal reports whether two fact values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// String returns a canonical textual form used in state fingerprints.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	default:
		return "<invalid>"
	}
}

// Fact pairs a key with its value. It is the unit a world observer
// reports and the only data planning operates on.
type Fact struct {
	Key   Key
	Value Value
}

// Bool is a convenience constructor for a boolean fact.
func Bool(key Key, v bool) Fact {
	return Fact{Key: key, Value: BoolValue(v)}
}

// Int is a convenience constructor for an integer fact.
func Int(key Key, v int) Fact {
	return Fact{Key: key, Value: IntValue(v)}
}

// String returns the fact in key=value form.
func (f Fact) String() string {
	return fmt.Sprintf("%s=%s", f.Key, f.Value)
}
