package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// State is an immutable snapshot of fact values, conceptually a point
// in a multi-dimensional discrete space. States are produced by
// copy-on-write from a parent state plus a step's effects and are never
// mutated once published to a search frontier; the closed-set
// deduplication in the search engine depends on this.
//
// The zero State is an empty snapshot and is ready to use.
type State struct {
	facts map[Key]Value
}

// New creates a state from the given facts. Later facts win on
// duplicate keys.
func New(facts ...Fact) State {
	m := make(map[Key]Value, len(facts))
	for _, f := range facts {
		m[f.Key] = f.Value
	}
	return State{facts: m}
}

// FromMap creates a state from a key/value map. The map is copied;
// the caller keeps ownership of its own buffer.
func FromMap(facts map[Key]Value) State {
	m := make(map[Key]Value, len(facts))
	for k, v := range facts {
		m[k] = v
	}
	return State{facts: m}
}

// Get returns the value for a key and whether the key is known.
func (s State) Get(key Key) (Value, bool) {
	v, ok := s.facts[key]
	return v, ok
}

// Bool returns the boolean value of a fact. Unknown keys read as false.
func (s State) Bool(key Key) bool {
	return s.facts[key].Bool()
}

// Int returns the integer value of a fact. Unknown keys read as zero.
func (s State) Int(key Key) int {
	return s.facts[key].Int()
}

// Len returns the number of known facts.
func (s State) Len() int {
	return len(s.facts)
}

// Keys returns all fact keys in lexical order.
func (s State) Keys() []Key {
	keys := make([]Key, 0, len(s.facts))
	for k := range s.facts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// With returns a new state with the given facts overlaid on this one.
// The receiver is not modified.
func (s State) With(facts ...Fact) State {
	m := make(map[Key]Value, len(s.facts)+len(facts))
	for k, v := range s.facts {
		m[k] = v
	}
	for _, f := range facts {
		m[f.Key] = f.Value
	}
	return State{facts: m}
}

// Equal reports whether two states hold exactly the same fact values.
func (s State) Equal(other State) bool {
	if len(s.facts) != len(other.facts) {
		return false
	}
	for k, v := range s.facts {
		ov, ok := other.facts[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Fingerprint returns a canonical string identifying the state's full
// fact-value content. Two states have the same fingerprint iff they
// are Equal. Used as the closed-set key during search.
func (s State) Fingerprint() string {
	keys := s.Keys()
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(string(k))
		b.WriteByte('=')
		b.WriteString(s.facts[k].String())
		b.WriteByte(';')
	}
	return b.String()
}

// MarshalJSON encodes the state as a flat JSON object whose values are
// booleans or integers. Used by the queue transport.
func (s State) MarshalJSON() ([]byte, error) {
	out := make(map[Key]any, len(s.facts))
	for k, v := range s.facts {
		switch v.Kind() {
		case KindBool:
			out[k] = v.Bool()
		case KindInt:
			out[k] = v.Int()
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat JSON object of booleans and integers.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw map[Key]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m := make(map[Key]Value, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case bool:
			m[k] = BoolValue(tv)
		case float64:
			m[k] = IntValue(int(tv))
		default:
			return fmt.Errorf("state: fact %q has unsupported value type %T", k, v)
		}
	}
	s.facts = m
	return nil
}

// String returns the state fingerprint, which doubles as a compact
// human-readable form.
func (s State) String() string {
	return s.Fingerprint()
}
