package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Condition is a single fact-value constraint: boolean equality or an
// integer lower bound. Conditions serve double duty as goal constraints
// and as step preconditions; relevance analysis treats a relevant
// step's preconditions as derived sub-goal conditions of exactly this
// shape.
type Condition struct {
	// Key is the fact this condition constrains.
	Key Key `json:"key"`

	// Kind selects which constraint applies: KindBool uses Equals,
	// KindInt uses Min.
	Kind Kind `json:"kind"`

	// Equals is the required boolean value for KindBool conditions.
	Equals bool `json:"equals,omitempty"`

	// Min is the required lower bound for KindInt conditions.
	Min int `json:"min,omitempty"`
}

// BoolCondition creates a boolean equality condition.
func BoolCondition(key Key, equals bool) Condition {
	return Condition{Key: key, Kind: KindBool, Equals: equals}
}

// MinCondition creates an integer lower-bound condition.
func MinCondition(key Key, min int) Condition {
	return Condition{Key: key, Kind: KindInt, Min: min}
}

// SatisfiedBy reports whether the condition holds in the given state.
// Goal evaluation is closed-world: an unknown boolean fact reads as
// false and an unknown integer fact reads as zero.
func (c Condition) SatisfiedBy(s State) bool {
	switch c.Kind {
	case KindBool:
		return s.Bool(c.Key) == c.Equals
	case KindInt:
		return s.Int(c.Key) >= c.Min
	default:
		return false
	}
}

// Violates reports whether the state knows the fact and the condition
// fails on it. Step applicability uses this open-world reading: a
// precondition on a fact the snapshot never reported does not block
// planning — runtime precondition re-checks catch the cases where the
// optimism was wrong.
func (c Condition) Violates(s State) bool {
	if _, ok := s.Get(c.Key); !ok {
		return false
	}
	return !c.SatisfiedBy(s)
}

// String returns the condition in a compact canonical form.
func (c Condition) String() string {
	switch c.Kind {
	case KindBool:
		return fmt.Sprintf("%s=%t", c.Key, c.Equals)
	case KindInt:
		return fmt.Sprintf("%s>=%d", c.Key, c.Min)
	default:
		return fmt.Sprintf("%s=<invalid>", c.Key)
	}
}

// Goal is a partial state: a set of fact-value constraints that must
// all hold in a terminal search state. Build goals fluently:
//
//	goal := state.NewGoal().
//	    Bool("FoodConsumed", true).
//	    AtLeast("CountOfStick", 4)
//
// A Goal must not be modified after it has been handed to a planner;
// relevance results are cached by goal fingerprint.
type Goal struct {
	conds map[Key]Condition
}

// NewGoal creates an empty goal. An empty goal is satisfied by every
// state and plans to a zero-step, zero-cost plan.
func NewGoal() *Goal {
	return &Goal{conds: make(map[Key]Condition)}
}

// Bool adds a boolean equality constraint. Adding a constraint for an
// existing key replaces it.
func (g *Goal) Bool(key Key, equals bool) *Goal {
	g.conds[key] = BoolCondition(key, equals)
	return g
}

// AtLeast adds an integer lower-bound constraint.
func (g *Goal) AtLeast(key Key, min int) *Goal {
	g.conds[key] = MinCondition(key, min)
	return g
}

// Len returns the number of constraints.
func (g *Goal) Len() int {
	return len(g.conds)
}

// Conditions returns the goal's constraints sorted by key. The slice
// is a copy; callers may not reach the goal's internal storage.
func (g *Goal) Conditions() []Condition {
	out := make([]Condition, 0, len(g.conds))
	for _, c := range g.conds {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SatisfiedBy reports whether every constraint holds in the state.
func (g *Goal) SatisfiedBy(s State) bool {
	for _, c := range g.conds {
		if !c.SatisfiedBy(s) {
			return false
		}
	}
	return true
}

// Unmet returns the constraints that do not hold in the state, sorted
// by key.
func (g *Goal) Unmet(s State) []Condition {
	var out []Condition
	for _, c := range g.conds {
		if !c.SatisfiedBy(s) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Fingerprint returns a canonical string identifying the goal's full
// constraint content. Relevance caching keys on this, so two goals
// with different thresholds never share a cache entry.
func (g *Goal) Fingerprint() string {
	conds := g.Conditions()
	var b strings.Builder
	for _, c := range conds {
		b.WriteString(c.String())
		b.WriteByte(';')
	}
	return b.String()
}

// MarshalJSON encodes the goal as its condition list.
func (g *Goal) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Conditions())
}

// UnmarshalJSON decodes a goal from a condition list.
func (g *Goal) UnmarshalJSON(data []byte) error {
	var conds []Condition
	if err := json.Unmarshal(data, &conds); err != nil {
		return err
	}
	g.conds = make(map[Key]Condition, len(conds))
	for _, c := range conds {
		g.conds[c.Key] = c
	}
	return nil
}

// String returns the goal fingerprint.
func (g *Goal) String() string {
	return g.Fingerprint()
}
